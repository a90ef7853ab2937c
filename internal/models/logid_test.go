package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogIDFor(t *testing.T) {
	at := time.Date(2025, 12, 13, 20, 15, 3, 123_000_000, time.UTC)

	assert.Equal(t, "2025-12-13T20-15-03-123Z-abcd", LogIDFor(at, "xx-ab:cd"))
	assert.Equal(t, "2025-12-13T20-15-03-123Z-ab", LogIDFor(at, "ab"))

	generated := NewLogID(at)
	assert.True(t, IsSortableLogID(generated), generated)
	assert.Len(t, generated, len("2025-12-13T20-15-03-123Z-")+4)
}

func TestLogIDsSortByTime(t *testing.T) {
	earlier := NewLogID(time.Date(2025, 1, 9, 23, 59, 59, 0, time.UTC))
	later := NewLogID(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	assert.Less(t, earlier, later)
}

func TestIsSortableLogID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"2025-12-13T20-15-03-123Z-abcd", true},
		{"aZ81kq0PzM", false},
		{"2025-12-13T20:15:03Z", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSortableLogID(tt.id), tt.id)
	}
}
