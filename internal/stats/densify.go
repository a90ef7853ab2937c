package stats

import (
	"sort"
	"time"

	"github.com/codyseavey/packtracker/internal/models"
)

// Densify inserts a carried-forward point at every local midnight in
// [start, end] that has no point yet. Points sharing an instant collapse to
// the first; the carried value still follows the last of them.
// points must be sorted by X.
func Densify(points []models.TimeSeriesPoint, start, end time.Time) []models.TimeSeriesPoint {
	if len(points) == 0 {
		return points
	}
	present := make(map[int64]struct{}, len(points))
	for _, p := range points {
		present[p.X] = struct{}{}
	}

	startMs := start.UnixMilli()
	lastDay := startOfDay(end)
	out := append([]models.TimeSeriesPoint(nil), points...)

	idx, last := 0, points[0].Y
	for day := startOfDay(start); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		t := day.UnixMilli()
		for idx < len(points) && points[idx].X <= t {
			last = points[idx].Y
			idx++
		}
		if t < startMs {
			continue
		}
		if _, ok := present[t]; ok {
			continue
		}
		present[t] = struct{}{}
		out = append(out, models.TimeSeriesPoint{X: t, Y: last, Synthetic: true})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].X < out[j].X })
	return dedupeByX(out)
}

// dedupeByX keeps the first point of each run with equal X. points must be
// sorted by X.
func dedupeByX(points []models.TimeSeriesPoint) []models.TimeSeriesPoint {
	if len(points) < 2 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if p.X != out[len(out)-1].X {
			out = append(out, p)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
