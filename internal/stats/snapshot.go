package stats

import (
	"github.com/shopspring/decimal"

	"github.com/codyseavey/packtracker/internal/models"
)

type costKey struct {
	kind models.LogKind
	id   models.ItemIdentity
}

// Snapshot is the current inventory state: a unit cost per item identity
// and the current total value.
type Snapshot struct {
	costs    map[costKey]decimal.Decimal
	TotalNow decimal.Decimal
	Items    int
}

// LoadSnapshot builds the cost lookup and TotalNow from the given item
// lists. Items with a negative owned amount or cost add nothing to the total.
func LoadSnapshot(groups ...[]models.Item) Snapshot {
	s := Snapshot{costs: make(map[costKey]decimal.Decimal)}
	for _, items := range groups {
		for _, it := range items {
			s.costs[costKey{it.Kind.LogKind(), it.Identity()}] = it.Cost
			s.TotalNow = s.TotalNow.Add(it.TotalCost())
			s.Items++
		}
	}
	return s
}

// Cost returns the current unit cost for an identity in the given log's key space
func (s Snapshot) Cost(kind models.LogKind, id models.ItemIdentity) (decimal.Decimal, bool) {
	c, ok := s.costs[costKey{kind, id}]
	return c, ok
}
