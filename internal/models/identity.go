package models

import (
	"strconv"
	"strings"
)

// ItemIdentity joins change log entries to inventory items.
// Cards: "<Category> / <Set>|<Number>|<printing>", sealed: product name.
type ItemIdentity string

func CardIdentity(setLabel string, number int, printing string) ItemIdentity {
	return ItemIdentity(setLabel + "|" + strconv.Itoa(number) + "|" + PrintingKey(printing))
}

func SealedIdentity(name string) ItemIdentity {
	return ItemIdentity(name)
}

// PrintingKey is the trimmed, lower-cased printing used in identities
func PrintingKey(printing string) string {
	return strings.ToLower(strings.TrimSpace(printing))
}

// PrintingFamily collapses printing labels to normal/holo/reverse for
// matching quick-edit rows against stored cards.
func PrintingFamily(printing string) string {
	s := strings.ToLower(printing)
	switch {
	case strings.Contains(s, "reverse"):
		return "reverse"
	case strings.Contains(s, "holo"):
		return "holo"
	}
	return "normal"
}
