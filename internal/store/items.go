package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/models"
)

// ListItems returns every item of kind across the whole hierarchy
func (s *GormStore) ListItems(ctx context.Context, kind models.ItemKind) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Where("kind = ?", kind).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return items, nil
}

// ListSetItems returns the items of one set. Cards are ordered by number,
// then name; sealed products by name.
func (s *GormStore) ListSetItems(ctx context.Context, ref models.SetRef, kind models.ItemKind) ([]models.Item, error) {
	order := "name ASC"
	if kind == models.ItemCards {
		order = "number ASC, name ASC"
	}

	var items []models.Item
	err := s.setScope(ctx, ref).
		Where("kind = ?", kind).
		Order(order).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list %s of %s: %w", kind, ref.Label(), err)
	}

	out := items[:0]
	for _, it := range items {
		if !hidden(it.Name) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *GormStore) setScope(ctx context.Context, ref models.SetRef) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("language = ? AND category = ? AND set_name = ?", ref.Language, ref.Category, ref.Set)
}

// Aggregates summarizes one set for the overview panel
type Aggregates struct {
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalCardAmount int             `json:"total_card_amount"`
	PacksOpened     int             `json:"packs_opened"`
}

// SetAggregates sums owned x cost over cards and sealed products of the set
// and counts owned cards. Negative products and amounts contribute nothing.
func (s *GormStore) SetAggregates(ctx context.Context, ref models.SetRef) (Aggregates, error) {
	var agg Aggregates

	var items []models.Item
	if err := s.setScope(ctx, ref).Find(&items).Error; err != nil {
		return agg, fmt.Errorf("aggregate %s: %w", ref.Label(), err)
	}
	for _, it := range items {
		agg.TotalValue = agg.TotalValue.Add(it.TotalCost())
		if it.Kind == models.ItemCards && it.AmountOwned > 0 {
			agg.TotalCardAmount += it.AmountOwned
		}
	}

	meta, err := s.GetSet(ctx, ref)
	switch {
	case err == nil:
		agg.PacksOpened = meta.PacksOpened
	case !errors.Is(err, ErrNotFound):
		return agg, err
	}
	return agg, nil
}

// TopItem is one row of a set's top-five lists
type TopItem struct {
	Name     string          `json:"name"`
	Printing string          `json:"printing"`
	Amount   int             `json:"amount"`
	Cost     decimal.Decimal `json:"cost"`
	Total    decimal.Decimal `json:"total"`
	Image    string          `json:"image"`
}

// TopItems ranks the set's cards by total value and by quantity owned.
// The Normal printing is reported as empty.
func (s *GormStore) TopItems(ctx context.Context, ref models.SetRef, n int) (byValue, byQty []TopItem, err error) {
	cards, err := s.ListSetItems(ctx, ref, models.ItemCards)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]TopItem, 0, len(cards))
	for _, c := range cards {
		printing := strings.TrimSpace(c.Printing)
		if strings.EqualFold(printing, "normal") {
			printing = ""
		}
		rows = append(rows, TopItem{
			Name:     c.Name,
			Printing: printing,
			Amount:   c.AmountOwned,
			Cost:     c.Cost,
			Total:    c.TotalCost(),
			Image:    c.Image,
		})
	}

	byValue = append([]TopItem(nil), rows...)
	sort.SliceStable(byValue, func(i, j int) bool { return byValue[i].Total.GreaterThan(byValue[j].Total) })
	byQty = append([]TopItem(nil), rows...)
	sort.SliceStable(byQty, func(i, j int) bool {
		if byQty[i].Amount != byQty[j].Amount {
			return byQty[i].Amount > byQty[j].Amount
		}
		return byQty[i].Name < byQty[j].Name
	})

	return head(byValue, n), head(byQty, n), nil
}

func head(rows []TopItem, n int) []TopItem {
	if n >= 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

// UpsertImported writes one imported record into the set. Existing items
// (matched by name) only get the fields mode selects; cards always take the
// imported number when it is set. Missing items are created.
func (s *GormStore) UpsertImported(ctx context.Context, ref models.SetRef, kind models.ItemKind, rec models.ImportRecord, mode models.ImportMode) (created bool, err error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" || !ref.Valid() {
		return false, fmt.Errorf("import %s into %q: %w", kind, ref.Label(), ErrInvalid)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Item
		err := tx.Where("kind = ? AND language = ? AND category = ? AND set_name = ? AND name = ?",
			kind, ref.Language, ref.Category, ref.Set, name).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			item := models.Item{
				Kind:     kind,
				Language: ref.Language,
				Category: ref.Category,
				SetName:  ref.Set,
				Name:     name,
				Printing: "Normal",
			}
			if kind == models.ItemCards {
				item.Number = rec.Number
			}
			if mode.WritesCost() {
				item.Cost = rec.Cost
			}
			if mode.WritesImage() {
				item.Image = rec.Image
			}
			created = true
			return tx.Create(&item).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if kind == models.ItemCards && rec.Number > 0 {
			updates["number"] = rec.Number
		}
		if mode.WritesCost() {
			updates["cost"] = rec.Cost
		}
		if mode.WritesImage() && rec.Image != "" {
			updates["image"] = rec.Image
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&existing).Updates(updates).Error
	})
	if err != nil {
		return false, fmt.Errorf("import %s %q into %s: %w", kind, name, ref.Label(), err)
	}

	s.notify()
	return created, nil
}
