package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownRange = errors.New("unknown range")

// RangeSelector picks the historical window the Statistics view rebuilds
type RangeSelector string

const (
	RangeHour      RangeSelector = "1H"
	RangeDay       RangeSelector = "1D"
	RangeWeek      RangeSelector = "7D"
	RangeMonth     RangeSelector = "1M"
	RangeSixMonths RangeSelector = "6M"
	RangeYear      RangeSelector = "1Y"
	RangeAll       RangeSelector = "ALL"
)

const Day = 24 * time.Hour

// AllRanges returns every selector in display order
func AllRanges() []RangeSelector {
	return []RangeSelector{RangeHour, RangeDay, RangeWeek, RangeMonth, RangeSixMonths, RangeYear, RangeAll}
}

var rangeAliases = map[string]RangeSelector{
	"1h": RangeHour, "hour": RangeHour, "last-hour": RangeHour,
	"1d": RangeDay, "day": RangeDay, "last-day": RangeDay,
	"7d": RangeWeek, "1w": RangeWeek, "week": RangeWeek, "last-week": RangeWeek,
	"1m": RangeMonth, "month": RangeMonth, "last-month": RangeMonth,
	"6m": RangeSixMonths, "last-6-months": RangeSixMonths,
	"1y": RangeYear, "year": RangeYear, "last-year": RangeYear,
	"all": RangeAll, "all-time": RangeAll,
}

func ParseRange(s string) (RangeSelector, error) {
	if r, ok := rangeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
}

// Duration is the nominal length of the range; ok is false for all-time
func (r RangeSelector) Duration() (d time.Duration, ok bool) {
	switch r {
	case RangeHour:
		return time.Hour, true
	case RangeDay:
		return Day, true
	case RangeWeek:
		return 7 * Day, true
	case RangeMonth:
		return 30 * Day, true
	case RangeSixMonths:
		return 182 * Day, true
	case RangeYear:
		return 365 * Day, true
	}
	return 0, false
}

func (r RangeSelector) IsAllTime() bool { return r == RangeAll }

// SpansDays reports whether the range is at least a day long, which is
// when the series gets daily densification.
func (r RangeSelector) SpansDays() bool {
	d, ok := r.Duration()
	return !ok || d >= Day
}
