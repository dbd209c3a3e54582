package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// MonthYearLayout is the canonical rendering of a native date
const MonthYearLayout = "01/2006"

// isoLayouts are the serialized forms a native date takes once it has been
// through JSON. Anything else is treated as pre-formatted text.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

// Date coerces a date-ish value to MM/YYYY. Strings that are not ISO-8601
// dates pass through verbatim.
func Date(v interface{}) string {
	switch d := v.(type) {
	case nil:
		return ""
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format(MonthYearLayout)
	case *time.Time:
		if d == nil {
			return ""
		}
		return Date(*d)
	case string:
		return dateFromString(d)
	case json.Number:
		return d.String()
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64)
	case int:
		return strconv.Itoa(d)
	case int64:
		return strconv.FormatInt(d, 10)
	default:
		return dateFromString(strings.Join(textParts(v), " "))
	}
}

func dateFromString(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(MonthYearLayout)
		}
	}
	return s
}

// monthYearLayouts are the textual forms ParseMonthYear understands
var monthYearLayouts = []string{
	"01/2006",
	"1/2006",
	"01-2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006-01",
	"2006-01-02",
	time.RFC3339,
	"2006",
}

// ParseMonthYear parses a normalized or free-form date into the first day of
// its month. Present/current markers and unparseable text report ok=false.
func ParseMonthYear(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range monthYearLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// IsPresent reports whether a date string marks an ongoing period
func IsPresent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "current", "now", "ongoing":
		return true
	}
	return false
}
