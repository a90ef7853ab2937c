package stats

import (
	"time"

	"github.com/codyseavey/packtracker/internal/models"
)

// Window is the reconstructed span, inclusive on both ends
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Span() time.Duration { return w.End.Sub(w.Start) }

// AlignStart returns the calendar-aligned start of the range containing at,
// in at's location: hour, midnight, Monday, 1st of month, half-year, Jan 1.
// All-time has no lower bound and returns the Unix epoch.
func AlignStart(r models.RangeSelector, at time.Time) time.Time {
	loc := at.Location()
	y, m, d := at.Date()
	switch r {
	case models.RangeHour:
		return time.Date(y, m, d, at.Hour(), 0, 0, 0, loc)
	case models.RangeDay:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case models.RangeWeek:
		sinceMonday := (int(at.Weekday()) + 6) % 7
		return time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, loc)
	case models.RangeMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case models.RangeSixMonths:
		if m > time.June {
			return time.Date(y, time.July, 1, 0, 0, 0, 0, loc)
		}
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	case models.RangeYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
	return time.UnixMilli(0).In(loc)
}

// WindowEnd is the later of now and the newest event, so future-dated
// logs are never cut off.
func WindowEnd(now time.Time, events []models.ChangeEvent) time.Time {
	end := now
	for _, ev := range events {
		if ev.Time.After(end) {
			end = ev.Time.In(now.Location())
		}
	}
	return end
}

// allTimeStart begins the all-time window at the bucket of the earliest
// delta, or one year before end when there is nothing to show.
func allTimeStart(deltas []Delta, width time.Duration, end time.Time) time.Time {
	if len(deltas) == 0 {
		return end.Add(-365 * models.Day)
	}
	earliest := deltas[0].At
	for _, d := range deltas[1:] {
		if d.At < earliest {
			earliest = d.At
		}
	}
	return time.UnixMilli(bucketStart(earliest, width)).In(end.Location())
}
