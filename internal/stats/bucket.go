package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/packtracker/internal/models"
)

// TargetPoints is the bucket count the width ladder aims for
const TargetPoints = 400

var bucketLadder = []time.Duration{
	time.Minute,
	15 * time.Minute,
	time.Hour,
	6 * time.Hour,
	models.Day,
	7 * models.Day,
	30 * models.Day,
}

// PickBucketWidth returns the smallest ladder width that keeps span within
// about TargetPoints buckets. All-time always buckets by day.
func PickBucketWidth(r models.RangeSelector, span time.Duration) time.Duration {
	if r.IsAllTime() {
		return models.Day
	}
	return widthForSpan(span)
}

func widthForSpan(span time.Duration) time.Duration {
	ms := span.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	rough := time.Duration((ms+TargetPoints-1)/TargetPoints) * time.Millisecond
	for _, w := range bucketLadder {
		if rough <= w {
			return w
		}
	}
	return bucketLadder[len(bucketLadder)-1]
}

// Bucketize sums deltas into width-aligned buckets, ascending by start
func Bucketize(deltas []Delta, width time.Duration) []models.Bucket {
	sums := make(map[int64]decimal.Decimal)
	for _, d := range deltas {
		k := bucketStart(d.At, width)
		sums[k] = sums[k].Add(d.Value)
	}
	out := make([]models.Bucket, 0, len(sums))
	for k, v := range sums {
		out = append(out, models.Bucket{Start: k, Sum: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// bucketStart floors ms to a multiple of width (toward negative infinity)
func bucketStart(ms int64, width time.Duration) int64 {
	w := width.Milliseconds()
	if w <= 0 {
		return ms
	}
	q := ms / w
	if ms%w != 0 && ms < 0 {
		q--
	}
	return q * w
}
