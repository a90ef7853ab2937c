package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// LogKind names one of the two append-only change logs
type LogKind string

const (
	CardLog   LogKind = "card"
	SealedLog LogKind = "sealed"
)

func ParseLogKind(s string) (LogKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card", "cards", "cardlogs":
		return CardLog, nil
	case "sealed", "sealedlogs":
		return SealedLog, nil
	}
	return "", fmt.Errorf("unknown log kind %q", s)
}

// ChangeLog is the stored log document. Body keeps the document exactly as
// written so both historical shapes survive; TimeMillis is derived from its
// "time" field for range queries (0 when the time could not be parsed).
type ChangeLog struct {
	Kind       LogKind   `json:"kind" gorm:"primaryKey"`
	ID         string    `json:"id" gorm:"primaryKey"`
	TimeMillis int64     `json:"time_millis" gorm:"not null;default:0;index"`
	Body       string    `json:"body" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ChangeLog) TableName() string { return "change_logs" }

// Event decodes the body and normalizes it to the items-array form
func (c ChangeLog) Event() (ChangeEvent, error) {
	doc, err := DecodeLogDocument([]byte(c.Body))
	if err != nil {
		return ChangeEvent{}, fmt.Errorf("log %s/%s: %w", c.Kind, c.ID, err)
	}
	t, ok := ParseInstant(doc.Time)
	if !ok {
		t = time.UnixMilli(0).UTC()
	}
	return ChangeEvent{
		ID:        c.ID,
		Kind:      c.Kind,
		Time:      t,
		TimeValid: ok,
		Legacy:    doc.Legacy,
		Entries:   doc.Items,
	}, nil
}

// ChangeEvent is one user action after normalization. Time is the Unix
// epoch when the stored time was missing or malformed (TimeValid=false).
type ChangeEvent struct {
	ID        string     `json:"id"`
	Kind      LogKind    `json:"kind"`
	Time      time.Time  `json:"time"`
	TimeValid bool       `json:"time_valid"`
	Legacy    bool       `json:"legacy,omitempty"`
	Entries   []LogEntry `json:"items"`
}

// LogEntry is one {identity, amount, location} row of a change event
type LogEntry struct {
	CardName   string `json:"cardName,omitempty"`
	Number     int    `json:"number,omitempty"`
	Print      string `json:"print,omitempty"`
	Amount     int    `json:"amount"`
	Location   string `json:"location,omitempty"`
	Set        string `json:"set,omitempty"`
	SealedName string `json:"sealedName,omitempty"`
}

// Identity resolves the entry against the item key space of its log
func (e LogEntry) Identity(kind LogKind) ItemIdentity {
	if kind == SealedLog {
		return SealedIdentity(e.SealedName)
	}
	return CardIdentity(e.Set, e.Number, e.Print)
}

// LogDocument is the tagged union of the two stored shapes: the current
// {time, items:[...]} and the legacy one-entry-per-document form.
type LogDocument struct {
	Time   any
	Items  []LogEntry
	Legacy bool
}

func DecodeLogDocument(body []byte) (LogDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return LogDocument{}, fmt.Errorf("decode log document: %w", err)
	}
	doc := LogDocument{Time: raw["time"]}
	if items, ok := raw["items"].([]any); ok {
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			doc.Items = append(doc.Items, entryFromMap(m))
		}
		return doc, nil
	}
	doc.Legacy = true
	doc.Items = []LogEntry{entryFromMap(raw)}
	return doc, nil
}

// EncodeLogDocument writes the current (items-array) shape
func EncodeLogDocument(t time.Time, entries []LogEntry) ([]byte, error) {
	if entries == nil {
		entries = []LogEntry{}
	}
	return json.Marshal(struct {
		Time  string     `json:"time"`
		Items []LogEntry `json:"items"`
	}{
		Time:  t.UTC().Format(time.RFC3339Nano),
		Items: entries,
	})
}

func entryFromMap(m map[string]any) LogEntry {
	return LogEntry{
		CardName:   looseString(m["cardName"]),
		Number:     looseInt(m["number"]),
		Print:      looseString(m["print"]),
		Amount:     looseInt(m["amount"]),
		Location:   looseString(m["location"]),
		Set:        looseString(m["set"]),
		SealedName: looseString(m["sealedName"]),
	}
}

func looseString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// looseInt mirrors lenient numeric coercion: anything unparseable is 0
func looseInt(v any) int {
	var f float64
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = x
	case int:
		return x
	case int64:
		return int(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
