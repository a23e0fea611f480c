// Package export renders projected collection events as ICS, CSV, or JSON.
package export

import (
	"time"

	"github.com/ewanmcn/binrota/internal/model"
)

// Format identifies an output format.
type Format string

const (
	FormatICS  Format = "ics"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatICS, FormatCSV, FormatJSON:
		return Format(s), true
	}
	return "", false
}

// Options configure an export run.
type Options struct {
	// CalendarName is the display name embedded in calendar output.
	CalendarName string
	// Street labels the events with the household's street, when known.
	Street string
	// Subscription marks ICS output as a subscribable feed rather than a
	// one-off download.
	Subscription bool
	// GeneratedAt stamps the output; the zero value means now.
	GeneratedAt time.Time
}

func (o Options) generatedAt() time.Time {
	if o.GeneratedAt.IsZero() {
		return time.Now().UTC()
	}
	return o.GeneratedAt.UTC()
}

func (o Options) calendarName() string {
	if o.CalendarName != "" {
		return o.CalendarName
	}
	return "Bin collections"
}

// eventSummary is the human text for one event.
func eventSummary(ev model.CollectionEvent) string {
	return ev.Category.Label()
}
