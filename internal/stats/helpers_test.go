package stats

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/codyseavey/packtracker/internal/models"
)

func card(setLabel string, number int, printing string, owned int, cost string) models.Item {
	parts := strings.SplitN(setLabel, " / ", 2)
	return models.Item{
		Kind:        models.ItemCards,
		Language:    "English",
		Category:    parts[0],
		SetName:     parts[1],
		Name:        fmt.Sprintf("Card %d", number),
		Number:      number,
		Printing:    printing,
		AmountOwned: owned,
		Cost:        decimal.RequireFromString(cost),
	}
}

func sealedItem(name string, owned int, cost string) models.Item {
	return models.Item{
		Kind:        models.ItemSealed,
		Language:    "English",
		Category:    "Base",
		SetName:     "Jungle",
		Name:        name,
		AmountOwned: owned,
		Cost:        decimal.RequireFromString(cost),
	}
}

func cardEvent(at time.Time, entries ...models.LogEntry) models.ChangeEvent {
	return models.ChangeEvent{Kind: models.CardLog, Time: at, TimeValid: true, Entries: entries}
}

func sealedEvent(at time.Time, entries ...models.LogEntry) models.ChangeEvent {
	return models.ChangeEvent{Kind: models.SealedLog, Time: at, TimeValid: true, Entries: entries}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{fmt.Sprintf("want %s got %s", want, got)}, msgAndArgs...)...)
}

func ms(t time.Time) int64 { return t.UnixMilli() }
