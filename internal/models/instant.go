package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// ParseInstant decodes the timestamp representations found in stored log
// documents. The chain is tried in order: native time values, objects with
// seconds/nanoseconds, numeric epochs (seconds unless larger than 1e12, then
// milliseconds), and ISO-8601 strings. ok is false when nothing matched.
func ParseInstant(v any) (t time.Time, ok bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case map[string]any:
		return instantFromSeconds(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return instantFromNumber(f)
	case float64:
		return instantFromNumber(x)
	case int64:
		return instantFromNumber(float64(x))
	case int:
		return instantFromNumber(float64(x))
	case string:
		return instantFromString(x)
	}
	return time.Time{}, false
}

// InstantMillis is ParseInstant collapsed to epoch milliseconds, with 0 as
// the sentinel for unparseable values.
func InstantMillis(v any) int64 {
	t, ok := ParseInstant(v)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

func instantFromSeconds(m map[string]any) (time.Time, bool) {
	secs, ok := numberField(m, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := numberField(m, "nanoseconds", "_nanoseconds")
	ms := int64(secs)*1000 + int64(nanos)/1e6
	return time.UnixMilli(ms).UTC(), true
}

func numberField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch n := m[k].(type) {
		case json.Number:
			if f, err := n.Float64(); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
				return f, true
			}
		case float64:
			if !math.IsInf(n, 0) && !math.IsNaN(n) {
				return n, true
			}
		case int64:
			return float64(n), true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}

func instantFromNumber(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return time.Time{}, false
	}
	if f > 1e12 {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.UnixMilli(int64(f * 1000)).UTC(), true
}

// Date-times without a zone are wall-clock times of the server's local zone;
// a bare date is midnight UTC (the ISO-8601 date-only rule).
var instantLayouts = []struct {
	layout string
	local  bool
}{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05.000Z07:00"},
	{layout: "2006-01-02T15:04:05", local: true},
	{layout: "2006-01-02 15:04:05", local: true},
	{layout: "2006-01-02"},
}

func instantFromString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range instantLayouts {
		loc := time.UTC
		if l.local {
			loc = time.Local
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
