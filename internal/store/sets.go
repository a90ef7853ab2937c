package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/models"
)

// Tree returns language -> category -> set with which item kinds each set
// holds. Categories and sets without items are included; names starting
// with an underscore are not.
func (s *GormStore) Tree(ctx context.Context) (models.Tree, error) {
	tree := models.Tree{}
	ensure := func(lang, cat string) map[string]models.SetNode {
		if hidden(lang) || hidden(cat) {
			return nil
		}
		if tree[lang] == nil {
			tree[lang] = map[string]map[string]models.SetNode{}
		}
		if tree[lang][cat] == nil {
			tree[lang][cat] = map[string]models.SetNode{}
		}
		return tree[lang][cat]
	}

	db := s.db.WithContext(ctx)

	var cats []models.Category
	if err := db.Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("tree categories: %w", err)
	}
	for _, c := range cats {
		ensure(c.Language, c.Name)
	}

	var sets []models.SetMeta
	if err := db.Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("tree sets: %w", err)
	}
	for _, m := range sets {
		node := ensure(m.Language, m.Category)
		if node == nil || hidden(m.Name) {
			continue
		}
		if _, ok := node[m.Name]; !ok {
			node[m.Name] = models.SetNode{}
		}
	}

	var kinds []struct {
		Kind     models.ItemKind
		Language string
		Category string
		SetName  string
	}
	err := db.Model(&models.Item{}).
		Distinct("kind", "language", "category", "set_name").
		Find(&kinds).Error
	if err != nil {
		return nil, fmt.Errorf("tree items: %w", err)
	}
	for _, k := range kinds {
		node := ensure(k.Language, k.Category)
		if node == nil || hidden(k.SetName) {
			continue
		}
		n := node[k.SetName]
		if k.Kind == models.ItemSealed {
			n.HasSealed = true
		} else {
			n.HasCards = true
		}
		node[k.SetName] = n
	}

	return tree, nil
}

// GetSet returns the set document, or ErrNotFound
func (s *GormStore) GetSet(ctx context.Context, ref models.SetRef) (models.SetMeta, error) {
	var meta models.SetMeta
	err := s.db.WithContext(ctx).
		Where("language = ? AND category = ? AND name = ?", ref.Language, ref.Category, ref.Set).
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return meta, fmt.Errorf("set %s: %w", ref.Label(), ErrNotFound)
	}
	if err != nil {
		return meta, fmt.Errorf("get set %s: %w", ref.Label(), err)
	}
	return meta, nil
}

// SetSummary is one set of a category listing with its aggregates
type SetSummary struct {
	models.SetMeta
	Aggregates Aggregates `json:"aggregates"`
}

// ListCategorySets returns the visible sets of a category sorted by name
func (s *GormStore) ListCategorySets(ctx context.Context, language, category string) ([]SetSummary, error) {
	var sets []models.SetMeta
	err := s.db.WithContext(ctx).
		Where("language = ? AND category = ?", language, category).
		Find(&sets).Error
	if err != nil {
		return nil, fmt.Errorf("list sets of %s / %s: %w", language, category, err)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })

	out := make([]SetSummary, 0, len(sets))
	for _, m := range sets {
		if hidden(m.Name) {
			continue
		}
		agg, err := s.SetAggregates(ctx, m.Ref())
		if err != nil {
			return nil, err
		}
		out = append(out, SetSummary{SetMeta: m, Aggregates: agg})
	}
	return out, nil
}

// CreateCategory adds an empty category under language. Creating an
// existing category is not an error.
func (s *GormStore) CreateCategory(ctx context.Context, language, name string) (models.Category, error) {
	cat := models.Category{Language: strings.TrimSpace(language), Name: strings.TrimSpace(name)}
	if cat.Language == "" || cat.Name == "" {
		return cat, fmt.Errorf("category needs a language and a name: %w", ErrInvalid)
	}
	err := s.db.WithContext(ctx).
		Where(models.Category{Language: cat.Language, Name: cat.Name}).
		FirstOrCreate(&cat).Error
	if err != nil {
		return cat, fmt.Errorf("create category %s / %s: %w", cat.Language, cat.Name, err)
	}
	return cat, nil
}

// CreateSet adds a set document, creating its category when needed
func (s *GormStore) CreateSet(ctx context.Context, meta models.SetMeta) (models.SetMeta, error) {
	meta.Language = strings.TrimSpace(meta.Language)
	meta.Category = strings.TrimSpace(meta.Category)
	meta.Name = strings.TrimSpace(meta.Name)
	meta.ID = 0
	if !meta.Ref().Valid() {
		return meta, fmt.Errorf("set needs a language, category and name: %w", ErrInvalid)
	}
	if meta.Cards < 0 || meta.TotalCards < 0 || meta.PacksOpened < 0 {
		return meta, fmt.Errorf("set counts must not be negative: %w", ErrInvalid)
	}

	if _, err := s.GetSet(ctx, meta.Ref()); err == nil {
		return meta, fmt.Errorf("set %s: %w", meta.Ref().Label(), ErrExists)
	} else if !errors.Is(err, ErrNotFound) {
		return meta, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat := models.Category{Language: meta.Language, Name: meta.Category}
		if err := tx.Where(cat).FirstOrCreate(&cat).Error; err != nil {
			return err
		}
		return tx.Create(&meta).Error
	})
	if err != nil {
		return meta, fmt.Errorf("create set %s: %w", meta.Ref().Label(), err)
	}
	return meta, nil
}

// SetFlags is a partial update of a set's import switches; nil leaves a
// flag unchanged.
type SetFlags struct {
	CanImportCards  *bool `json:"can_import_cards"`
	CanImportSealed *bool `json:"can_import_sealed"`
}

// UpdateSetFlags applies flags and returns the updated set
func (s *GormStore) UpdateSetFlags(ctx context.Context, ref models.SetRef, flags SetFlags) (models.SetMeta, error) {
	meta, err := s.GetSet(ctx, ref)
	if err != nil {
		return meta, err
	}

	updates := map[string]any{}
	if flags.CanImportCards != nil {
		updates["can_import_cards"] = *flags.CanImportCards
	}
	if flags.CanImportSealed != nil {
		updates["can_import_sealed"] = *flags.CanImportSealed
	}
	if len(updates) == 0 {
		return meta, nil
	}

	if err := s.db.WithContext(ctx).Model(&meta).Updates(updates).Error; err != nil {
		return meta, fmt.Errorf("update flags of %s: %w", ref.Label(), err)
	}
	return s.GetSet(ctx, ref)
}
