package helpers

import (
	"strings"
	"time"
)

// DateLayout renders a calendar date the way JavaScript's
// Date.prototype.toDateString does, e.g. "Wed May 10 2023".
const DateLayout = "Mon Jan 02 2006"

var inputLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	DateLayout,
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
}

// ParseDate parses a caller-supplied date. Values without a zone are taken
// as UTC. ok is false for empty or unrecognised input; callers treat that as
// "not supplied".
func ParseDate(value string) (t time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range inputLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t in UTC with DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
