package rendering

import (
	"strings"
	"time"

	"github.com/jonathan/resume-markup/internal/normalize"
)

// PresentLabel is printed for an ongoing period with no end date
const PresentLabel = "Present"

// DateRange builds the date text for an entry. Precedence:
// "start -- end", "start", "end", "Present" (only when current), "".
// A current entry always ends in "Present", overriding any end date.
func DateRange(start, end string, current bool) string {
	start = CollapseWhitespace(start)
	end = CollapseWhitespace(end)
	if current || normalize.IsPresent(end) {
		end = PresentLabel
	}

	switch {
	case start != "" && end != "":
		return start + " -- " + end
	case start != "":
		return start
	case end != "":
		return end
	default:
		return ""
	}
}

// GraduationLabel returns "Graduating <date>" when date lies after now at
// month granularity.
func GraduationLabel(date string, now time.Time) (string, bool) {
	date = CollapseWhitespace(date)
	t, ok := normalize.ParseMonthYear(date)
	if !ok {
		return "", false
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if !t.After(current) {
		return "", false
	}
	return "Graduating " + date, true
}

// educationDates picks between a graduation label and an ordinary range
func educationDates(start, end, graduation string, current bool, now time.Time) string {
	if label, ok := GraduationLabel(graduation, now); ok {
		return label
	}
	if strings.TrimSpace(end) == "" {
		end = graduation
	}
	return DateRange(start, end, current)
}
