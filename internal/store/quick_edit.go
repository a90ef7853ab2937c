package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/metrics"
	"github.com/codyseavey/packtracker/internal/models"
)

// QuickEditRow adds Amount to one card (by number and printing) or one
// sealed product (by exact name) and optionally moves it to Location.
type QuickEditRow struct {
	Number     int    `json:"number"`
	Print      string `json:"print"`
	SealedName string `json:"sealed_name"`
	Amount     int    `json:"amount"`
	Location   string `json:"location"`
}

// QuickEditResult reports what ApplyQuickEdit wrote
type QuickEditResult struct {
	Applied  int      `json:"applied"`
	NotFound []string `json:"not_found"`
	LogID    string   `json:"log_id,omitempty"`
}

type cardIndex struct {
	byNumPrint map[string]*models.Item
	byNum      map[int][]*models.Item
}

func newCardIndex(cards []models.Item) cardIndex {
	idx := cardIndex{byNumPrint: map[string]*models.Item{}, byNum: map[int][]*models.Item{}}
	for i := range cards {
		c := &cards[i]
		if c.Number <= 0 {
			continue
		}
		idx.byNumPrint[numPrintKey(c.Number, c.Printing)] = c
		idx.byNum[c.Number] = append(idx.byNum[c.Number], c)
	}
	return idx
}

func numPrintKey(number int, printing string) string {
	return strconv.Itoa(number) + "|" + models.PrintingFamily(printing)
}

// resolve matches by number and printing family, then falls back to the
// only card with that number.
func (idx cardIndex) resolve(number int, printing string) *models.Item {
	if c := idx.byNumPrint[numPrintKey(number, printing)]; c != nil {
		return c
	}
	if same := idx.byNum[number]; len(same) == 1 {
		return same[0]
	}
	return nil
}

// ApplyQuickEdit increments owned amounts for a batch of rows of one kind
// and records the batch as a single change log document. Card rows that
// match no card are reported in NotFound and skipped; sealed rows name the
// product exactly and create it when missing. Rows with a zero amount
// count as one.
func (s *GormStore) ApplyQuickEdit(ctx context.Context, ref models.SetRef, kind models.ItemKind, rows []QuickEditRow) (QuickEditResult, error) {
	res := QuickEditResult{NotFound: []string{}}
	if !ref.Valid() {
		return res, fmt.Errorf("quick edit: %w", ErrInvalid)
	}

	clean := make([]QuickEditRow, 0, len(rows))
	for _, r := range rows {
		r.Print = strings.TrimSpace(r.Print)
		if r.Print == "" {
			r.Print = "Normal"
		}
		r.Location = strings.TrimSpace(r.Location)
		if r.Amount == 0 {
			r.Amount = 1
		}
		if kind == models.ItemCards && r.Number <= 0 {
			continue
		}
		if kind == models.ItemSealed && strings.TrimSpace(r.SealedName) == "" {
			continue
		}
		clean = append(clean, r)
	}
	if len(clean) == 0 {
		return res, fmt.Errorf("quick edit needs at least one row: %w", ErrInvalid)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entries []models.LogEntry
		var err error
		if kind == models.ItemSealed {
			entries, err = applySealedRows(tx, ref, clean)
		} else {
			entries, res.NotFound, err = applyCardRows(tx, ref, clean)
		}
		if err != nil {
			return err
		}
		res.Applied = len(entries)
		if len(entries) == 0 {
			return nil
		}
		res.LogID, err = s.appendLog(tx, kind.LogKind(), entries)
		return err
	})
	if err != nil {
		metrics.QuickEditRowsTotal.WithLabelValues(string(kind), "error").Add(float64(len(clean)))
		return QuickEditResult{NotFound: []string{}}, fmt.Errorf("quick edit %s in %s: %w", kind, ref.Label(), err)
	}

	metrics.QuickEditRowsTotal.WithLabelValues(string(kind), "applied").Add(float64(res.Applied))
	metrics.QuickEditRowsTotal.WithLabelValues(string(kind), "not_found").Add(float64(len(res.NotFound)))
	if res.Applied > 0 {
		s.notify()
	}
	return res, nil
}

func applyCardRows(tx *gorm.DB, ref models.SetRef, rows []QuickEditRow) ([]models.LogEntry, []string, error) {
	var cards []models.Item
	err := tx.Where("kind = ? AND language = ? AND category = ? AND set_name = ?",
		models.ItemCards, ref.Language, ref.Category, ref.Set).Find(&cards).Error
	if err != nil {
		return nil, nil, err
	}
	idx := newCardIndex(cards)

	var entries []models.LogEntry
	notFound := []string{}
	for _, r := range rows {
		card := idx.resolve(r.Number, r.Print)
		if card == nil {
			notFound = append(notFound, fmt.Sprintf("#%d (%s)", r.Number, r.Print))
			continue
		}
		if err := increment(tx, card.ID, r); err != nil {
			return nil, nil, err
		}
		// The stored printing keeps the entry resolvable to this card
		entries = append(entries, models.LogEntry{
			CardName: card.Name,
			Number:   card.Number,
			Print:    card.Printing,
			Amount:   r.Amount,
			Location: r.Location,
			Set:      ref.Label(),
		})
	}
	return entries, notFound, nil
}

func applySealedRows(tx *gorm.DB, ref models.SetRef, rows []QuickEditRow) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	for _, r := range rows {
		var product models.Item
		err := tx.Where("kind = ? AND language = ? AND category = ? AND set_name = ? AND name = ?",
			models.ItemSealed, ref.Language, ref.Category, ref.Set, r.SealedName).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			product = models.Item{
				Kind:     models.ItemSealed,
				Language: ref.Language,
				Category: ref.Category,
				SetName:  ref.Set,
				Name:     r.SealedName,
			}
			err = tx.Create(&product).Error
		}
		if err != nil {
			return nil, err
		}
		if err := increment(tx, product.ID, r); err != nil {
			return nil, err
		}
		entries = append(entries, models.LogEntry{
			SealedName: r.SealedName,
			Amount:     r.Amount,
			Location:   r.Location,
		})
	}
	return entries, nil
}

func increment(tx *gorm.DB, id uint, r QuickEditRow) error {
	updates := map[string]any{"amount_owned": gorm.Expr("amount_owned + ?", r.Amount)}
	if r.Location != "" {
		updates["location"] = r.Location
	}
	return tx.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error
}
