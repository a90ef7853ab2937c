package models

import "time"

// Category groups sets within a language. Sets normally create their
// category implicitly; explicit rows let empty categories show in the tree.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Language  string    `json:"language" gorm:"not null;uniqueIndex:idx_category"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_category"`
	CreatedAt time.Time `json:"created_at"`
}

// SetMeta holds the per-set document fields
type SetMeta struct {
	ID              uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Language        string    `json:"language" gorm:"not null;uniqueIndex:idx_set"`
	Category        string    `json:"category" gorm:"not null;uniqueIndex:idx_set"`
	Name            string    `json:"name" gorm:"not null;uniqueIndex:idx_set"`
	Cards           int       `json:"cards"`
	TotalCards      int       `json:"total_cards"`
	Image           string    `json:"image"`
	CanImportCards  bool      `json:"can_import_cards"`
	CanImportSealed bool      `json:"can_import_sealed"`
	PacksOpened     int       `json:"packs_opened"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (m SetMeta) Ref() SetRef {
	return SetRef{Language: m.Language, Category: m.Category, Set: m.Name}
}

// CanImport reports whether bulk imports of kind are enabled for the set
func (m SetMeta) CanImport(kind ItemKind) bool {
	if kind == ItemSealed {
		return m.CanImportSealed
	}
	return m.CanImportCards
}

// SetNode is one leaf of the browse tree
type SetNode struct {
	HasCards  bool `json:"has_cards"`
	HasSealed bool `json:"has_sealed"`
}

// Tree is language -> category -> set
type Tree map[string]map[string]map[string]SetNode
