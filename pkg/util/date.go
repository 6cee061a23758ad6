package util

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate parses a calendar date or timestamp as written by common CSV
// producers. Values are interpreted in UTC when no zone is present.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseDateDefault parses a date or returns def if s is empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, err := ParseDate(s); err == nil {
		return t
	}
	return def
}

// AddDays shifts t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
