package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	for _, r := range AllRanges() {
		got, err := ParseRange(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	got, err := ParseRange("last-6-months")
	require.NoError(t, err)
	assert.Equal(t, RangeSixMonths, got)

	_, err = ParseRange("2W")
	assert.True(t, errors.Is(err, ErrUnknownRange))
}

func TestRangeDurations(t *testing.T) {
	d, ok := RangeSixMonths.Duration()
	assert.True(t, ok)
	assert.Equal(t, 182*Day, d)

	_, ok = RangeAll.Duration()
	assert.False(t, ok)

	assert.False(t, RangeHour.SpansDays())
	assert.True(t, RangeDay.SpansDays())
	assert.True(t, RangeAll.SpansDays())
	assert.Equal(t, time.Hour, mustDuration(t, RangeHour))
}

func mustDuration(t *testing.T, r RangeSelector) time.Duration {
	t.Helper()
	d, ok := r.Duration()
	require.True(t, ok)
	return d
}
