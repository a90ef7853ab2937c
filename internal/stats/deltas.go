package stats

import (
	"github.com/shopspring/decimal"

	"github.com/codyseavey/packtracker/internal/models"
)

// Delta is the monetary change of one log entry at epoch millisecond At
type Delta struct {
	At    int64
	Value decimal.Decimal
}

// ResolveDeltas values every entry at its item's current cost. Unknown
// identities cost zero, and zero deltas are dropped.
func ResolveDeltas(s Snapshot, events []models.ChangeEvent) []Delta {
	var out []Delta
	for _, ev := range events {
		at := ev.Time.UnixMilli()
		for _, entry := range ev.Entries {
			cost, _ := s.Cost(ev.Kind, entry.Identity(ev.Kind))
			v := cost.Mul(decimal.NewFromInt(int64(entry.Amount)))
			if v.IsZero() {
				continue
			}
			out = append(out, Delta{At: at, Value: v})
		}
	}
	return out
}

// SumDeltas adds up every delta value
func SumDeltas(deltas []Delta) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range deltas {
		sum = sum.Add(d.Value)
	}
	return sum
}
