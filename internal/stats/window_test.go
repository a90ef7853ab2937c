package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codyseavey/packtracker/internal/models"
)

func TestAlignStart(t *testing.T) {
	sunday := time.Date(2025, 1, 19, 15, 30, 12, 0, time.UTC)
	monday := time.Date(2025, 1, 13, 8, 0, 0, 0, time.UTC)
	august := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	march := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    models.RangeSelector
		at   time.Time
		want time.Time
	}{
		{"hour", models.RangeHour, sunday, time.Date(2025, 1, 19, 15, 0, 0, 0, time.UTC)},
		{"day", models.RangeDay, sunday, time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC)},
		{"week from sunday", models.RangeWeek, sunday, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"week from monday", models.RangeWeek, monday, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"month", models.RangeMonth, sunday, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"six months second half", models.RangeSixMonths, august, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{"six months first half", models.RangeSixMonths, march, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"year", models.RangeYear, august, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"all", models.RangeAll, august, time.UnixMilli(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlignStart(tt.r, tt.at)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.False(t, got.After(tt.at))
		})
	}
}

func TestAlignStartUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	at := time.Date(2025, 1, 1, 2, 0, 0, 0, loc)

	got := AlignStart(models.RangeYear, at)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, loc).UnixMilli(), got.UnixMilli())
}

func TestWindowEndCoversFutureEvents(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(3 * time.Hour)

	assert.Equal(t, now, WindowEnd(now, nil))
	assert.True(t, future.Equal(WindowEnd(now, []models.ChangeEvent{cardEvent(now.Add(-time.Hour)), cardEvent(future)})))
}
