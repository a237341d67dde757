package ingest

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. The month, day and hour elements accept
// one or two digits, so "2024-3-1" and "2024-03-01" both parse. Go's parser
// also accepts fractional seconds after any seconds field.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04",
	time.RFC3339,
	"2006-1-2 15:04:05Z07:00",
	"2006-1-2 15:04:05-0700",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2.1.2006",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// ParseDate parses a single date cell. Surrounding whitespace is ignored.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
