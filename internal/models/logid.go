package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var sortableLogID = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T.+Z-[a-zA-Z0-9]+$`)

var isoIDReplacer = strings.NewReplacer(":", "-", ".", "-")

// IsSortableLogID reports whether id already has the time-prefixed form
func IsSortableLogID(id string) bool {
	return sortableLogID.MatchString(id)
}

// NewLogID returns a lexicographically sortable document ID for a log
// written at t, e.g. 2025-12-13T20-15-03-123Z-4f1a.
func NewLogID(t time.Time) string {
	return LogIDFor(t, "")
}

// LogIDFor builds the sortable ID for t, reusing the last four alphanumeric
// characters of oldID as the suffix when there are any.
func LogIDFor(t time.Time, oldID string) string {
	base := isoIDReplacer.Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
	suffix := alnumTail(oldID, 4)
	if suffix == "" {
		suffix = RandomIDSuffix()
	}
	return base + "-" + suffix
}

// RandomIDSuffix returns four hex characters from a fresh UUID
func RandomIDSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}

func alnumTail(s string, n int) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) > n {
		return clean[len(clean)-n:]
	}
	return clean
}
