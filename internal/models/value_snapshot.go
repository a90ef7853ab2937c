package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionValueSnapshot stores daily collection value for historical tracking
type CollectionValueSnapshot struct {
	ID           uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	SnapshotDate time.Time       `json:"snapshot_date" gorm:"uniqueIndex;not null"`
	TotalCards   int             `json:"total_cards"`
	TotalSealed  int             `json:"total_sealed"`
	UniqueItems  int             `json:"unique_items"`
	TotalValue   decimal.Decimal `json:"total_value" gorm:"type:numeric;not null;default:0"`
	CardsValue   decimal.Decimal `json:"cards_value" gorm:"type:numeric;not null;default:0"`
	SealedValue  decimal.Decimal `json:"sealed_value" gorm:"type:numeric;not null;default:0"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CollectionStats is the current state summary a snapshot records
type CollectionStats struct {
	TotalCards  int             `json:"total_cards"`
	TotalSealed int             `json:"total_sealed"`
	UniqueItems int             `json:"unique_items"`
	TotalValue  decimal.Decimal `json:"total_value"`
	CardsValue  decimal.Decimal `json:"cards_value"`
	SealedValue decimal.Decimal `json:"sealed_value"`
}

// ValueHistoryResponse is the API response for value history
type ValueHistoryResponse struct {
	Snapshots []CollectionValueSnapshot `json:"snapshots"`
	Period    string                    `json:"period"` // "week", "month", "3month", "year", "all"
}
