package schedule

import (
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// parseWeekday finds the first weekday name mentioned in free text, e.g.
// "Friday - Fortnightly" or "Collected every Tuesday".
func parseWeekday(text string) (time.Weekday, bool) {
	lower := strings.ToLower(text)
	best := -1
	var day time.Weekday
	for name, d := range weekdayNames {
		idx := strings.Index(lower, name)
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
			day = d
		}
	}
	return day, best >= 0
}
