package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/packtracker/internal/models"
)

func TestDensifyFillsMidnights(t *testing.T) {
	start := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	mid := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)

	original := []models.TimeSeriesPoint{
		{X: ms(start), Y: dec("5")},
		{X: ms(mid), Y: dec("7")},
		{X: ms(end), Y: dec("9")},
	}

	got := Densify(original, start, end)

	require.Len(t, got, 7)
	for _, p := range original {
		assert.Contains(t, got, p)
	}
	day := func(d int) int64 { return ms(time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)) }
	expectSynthetic := map[int64]string{day(2): "5", day(3): "5", day(4): "7", day(5): "7"}
	for _, p := range got {
		if want, ok := expectSynthetic[p.X]; ok {
			assert.True(t, p.Synthetic)
			assertDecimal(t, want, p.Y)
		}
	}

	assert.Equal(t, ms(start), got[0].X, "nothing before the window start")
	assert.Equal(t, ms(end), got[len(got)-1].X)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].X, got[i].X)
	}
}

func TestDensifyKeepsExistingMidnight(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	original := []models.TimeSeriesPoint{{X: ms(start), Y: dec("1")}, {X: ms(end), Y: dec("2")}}

	got := Densify(original, start, end)
	assert.Equal(t, original, got)
}

func TestDensifyEmpty(t *testing.T) {
	assert.Empty(t, Densify(nil, time.Now(), time.Now()))
}

func TestDensifyCollapsesSameInstant(t *testing.T) {
	start := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	points := []models.TimeSeriesPoint{
		{X: ms(start), Y: dec("20")},
		{X: ms(start), Y: dec("30")},
		{X: ms(end), Y: dec("30")},
	}

	got := Densify(points, start, end)

	require.Len(t, got, 4)
	assert.Equal(t, points[0], got[0], "first point at an instant wins")
	assert.True(t, got[1].Synthetic)
	assertDecimal(t, "30", got[1].Y, "carried value follows the later duplicate")
	assert.Equal(t, points[2], got[3])
}
