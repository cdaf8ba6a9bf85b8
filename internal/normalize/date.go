package normalize

import "time"

// Layouts are tried in order; the first one that parses wins. Month, day
// and hour take one or two digits.
var Layouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04:05Z",
	"2006-1-2T15:04:05Z0700",
	"2006-1-2T15:04:05Z07:00",
	"2006/1/2 15:04:05",
	"2006/1/2",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate reports the UTC instant encoded in s, or false when no layout
// matches. Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DateOr never fails: unparseable input resolves to fallback.
func DateOr(s string, fallback time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return fallback.UTC()
}
