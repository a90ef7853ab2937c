package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeSeriesPoint is one sample of the reconstructed collection value.
// X is epoch milliseconds.
type TimeSeriesPoint struct {
	X         int64           `json:"x"`
	Y         decimal.Decimal `json:"y"`
	Synthetic bool            `json:"synthetic,omitempty"`
}

// Bucket is the summed delta of one fixed-width time window
type Bucket struct {
	Start int64           `json:"start"`
	Sum   decimal.Decimal `json:"sum"`
}

// Series is the output of one reconstruction
type Series struct {
	Range       RangeSelector     `json:"range"`
	Points      []TimeSeriesPoint `json:"points"`
	MinX        int64             `json:"min_x"`
	MaxX        int64             `json:"max_x"`
	MinY        decimal.Decimal   `json:"min_y"`
	MaxY        decimal.Decimal   `json:"max_y"`
	TotalNow    decimal.Decimal   `json:"total_now"`
	Baseline    decimal.Decimal   `json:"baseline"`
	BucketWidth time.Duration     `json:"bucket_width"`
	Events      int               `json:"events"`
	Malformed   int               `json:"malformed"`
	ComputedAt  time.Time         `json:"computed_at"`
}
