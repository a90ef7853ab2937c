package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes single cards from sealed product
type ItemKind string

const (
	ItemCards  ItemKind = "cards"
	ItemSealed ItemKind = "sealed"
)

// ParseItemKind accepts "cards"/"card" and "sealed" in any case
func ParseItemKind(s string) (ItemKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cards", "card":
		return ItemCards, nil
	case "sealed":
		return ItemSealed, nil
	}
	return "", fmt.Errorf("unknown item kind %q", s)
}

// LogKind returns the change log that records edits to items of this kind
func (k ItemKind) LogKind() LogKind {
	if k == ItemSealed {
		return SealedLog
	}
	return CardLog
}

// SetRef addresses one set in the language -> category -> set hierarchy
type SetRef struct {
	Language string `json:"language"`
	Category string `json:"category"`
	Set      string `json:"set"`
}

// Label is the "<Category> / <Set>" form written into card change logs
func (r SetRef) Label() string {
	return r.Category + " / " + r.Set
}

func (r SetRef) Valid() bool {
	return r.Language != "" && r.Category != "" && r.Set != ""
}

// Item is one card or sealed product document. Name is the document name
// and is unique within its set and kind.
type Item struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Kind        ItemKind        `json:"kind" gorm:"not null;uniqueIndex:idx_item_doc;index"`
	Language    string          `json:"language" gorm:"not null;uniqueIndex:idx_item_doc"`
	Category    string          `json:"category" gorm:"not null;uniqueIndex:idx_item_doc"`
	SetName     string          `json:"set_name" gorm:"not null;uniqueIndex:idx_item_doc"`
	Name        string          `json:"name" gorm:"not null;uniqueIndex:idx_item_doc"`
	Number      int             `json:"number"`
	Printing    string          `json:"printing" gorm:"default:'Normal'"`
	AmountOwned int             `json:"amount_owned" gorm:"default:0"`
	Cost        decimal.Decimal `json:"cost" gorm:"type:numeric;not null;default:0"`
	Image       string          `json:"image"`
	Location    string          `json:"location"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i Item) Ref() SetRef {
	return SetRef{Language: i.Language, Category: i.Category, Set: i.SetName}
}

// Identity is the key change log entries use to refer back to this item
func (i Item) Identity() ItemIdentity {
	if i.Kind == ItemSealed {
		return SealedIdentity(i.Name)
	}
	return CardIdentity(i.Ref().Label(), i.Number, i.Printing)
}

// TotalCost is AmountOwned x Cost, or zero when either side is negative
func (i Item) TotalCost() decimal.Decimal {
	if i.AmountOwned < 0 || i.Cost.IsNegative() {
		return decimal.Zero
	}
	return i.Cost.Mul(decimal.NewFromInt(int64(i.AmountOwned)))
}

// ImportMode selects which fields a bulk import overwrites
type ImportMode string

const (
	ImportAll    ImportMode = "all"
	ImportPrices ImportMode = "prices"
	ImportPhotos ImportMode = "photos"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportAll:
		return ImportAll, nil
	case ImportPrices:
		return ImportPrices, nil
	case ImportPhotos:
		return ImportPhotos, nil
	}
	return "", fmt.Errorf("unknown import mode %q", s)
}

func (m ImportMode) WritesCost() bool  { return m == ImportAll || m == ImportPrices }
func (m ImportMode) WritesImage() bool { return m == ImportAll || m == ImportPhotos }

// ImportRecord is one parsed row of a bulk import feed
type ImportRecord struct {
	Name   string          `json:"name"`
	Number int             `json:"number,omitempty"`
	Cost   decimal.Decimal `json:"cost"`
	Image  string          `json:"image,omitempty"`
}
