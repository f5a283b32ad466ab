package util

import (
	"strings"
	"time"
)

// dateLayouts are tried in this fixed order; the first parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
}

// ParseDate parses the four accepted date spellings. A nil result means
// the date is unknown; callers treat unknown permissively.
func ParseDate(input string) *time.Time {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil
	}
	// Excel sometimes appends a time-of-day; the date part is enough.
	if idx := strings.IndexByte(s, ' '); idx > 0 {
		s = s[:idx]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DisplayDate renders a raw date cell as DD/MM/YYYY, or returns the
// input untouched when it cannot be parsed.
func DisplayDate(input string) string {
	t := ParseDate(input)
	if t == nil {
		return strings.TrimSpace(input)
	}
	return t.Format("02/01/2006")
}
