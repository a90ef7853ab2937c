package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/packtracker/internal/models"
)

// Baseline is the value at the window start: today's total minus every
// in-window delta, floored at zero.
func Baseline(totalNow decimal.Decimal, inWindow []Delta) decimal.Decimal {
	return nonNegative(totalNow.Sub(SumDeltas(inWindow)))
}

// Accumulate replays buckets forward from baseline. The result is framed by
// (start, baseline) and (end, totalNow) (baseline when totalNow is zero);
// bucket points before start are pinned to start. Values are floored at
// zero but the running total is not.
func Accumulate(baseline, totalNow decimal.Decimal, buckets []models.Bucket, start, end int64) []models.TimeSeriesPoint {
	points := make([]models.TimeSeriesPoint, 0, len(buckets)+2)
	points = append(points, models.TimeSeriesPoint{X: start, Y: baseline})

	running := baseline
	for _, b := range buckets {
		running = running.Add(b.Sum)
		x := b.Start
		if x < start {
			x = start
		}
		points = append(points, models.TimeSeriesPoint{X: x, Y: nonNegative(running)})
	}

	last := totalNow
	if totalNow.IsZero() {
		last = baseline
	}
	points = append(points, models.TimeSeriesPoint{X: end, Y: last})

	sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })
	return points
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
