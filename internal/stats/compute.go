package stats

import (
	"time"

	"github.com/codyseavey/packtracker/internal/models"
)

// Input is everything one reconstruction needs. Events may come from both
// logs in any order.
type Input struct {
	Range    models.RangeSelector
	Now      time.Time
	Snapshot Snapshot
	Events   []models.ChangeEvent
}

// Compute runs the pipeline. It is a pure function of its input.
func Compute(in Input) *models.Series {
	end := WindowEnd(in.Now, in.Events)
	deltas := ResolveDeltas(in.Snapshot, in.Events)

	var window Window
	var width time.Duration
	if in.Range.IsAllTime() {
		width = PickBucketWidth(in.Range, 0)
		window = Window{Start: allTimeStart(deltas, width, end), End: end}
	} else {
		window = Window{Start: AlignStart(in.Range, end), End: end}
		width = PickBucketWidth(in.Range, window.Span())
	}

	startMs, endMs := window.Start.UnixMilli(), window.End.UnixMilli()
	var inWindow []Delta
	for _, d := range deltas {
		if d.At >= startMs && d.At <= endMs {
			inWindow = append(inWindow, d)
		}
	}

	buckets := Bucketize(inWindow, width)
	baseline := Baseline(in.Snapshot.TotalNow, inWindow)
	points := Accumulate(baseline, in.Snapshot.TotalNow, buckets, startMs, endMs)
	switch {
	case len(buckets) == 0:
	case in.Range.SpansDays():
		points = Densify(points, window.Start, window.End)
	default:
		points = dedupeByX(points)
	}

	series := &models.Series{
		Range:       in.Range,
		Points:      points,
		MinX:        startMs,
		MaxX:        endMs,
		TotalNow:    in.Snapshot.TotalNow,
		Baseline:    baseline,
		BucketWidth: width,
		Events:      len(in.Events),
		ComputedAt:  in.Now,
	}
	series.MinY, series.MaxY = points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.Y.LessThan(series.MinY) {
			series.MinY = p.Y
		}
		if p.Y.GreaterThan(series.MaxY) {
			series.MaxY = p.Y
		}
	}
	for _, ev := range in.Events {
		if !ev.TimeValid {
			series.Malformed++
		}
	}
	return series
}
