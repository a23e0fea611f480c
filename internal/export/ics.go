package export

import (
	"fmt"
	"io"

	"github.com/ewanmcn/binrota/internal/model"
)

const icsProductID = "-//binrota//bin collection schedule//EN"

// WriteICS renders the events as an iCalendar document of all-day events.
// UIDs are derived from the event date and category so that re-exports
// update rather than duplicate entries in a subscribed calendar.
func WriteICS(w io.Writer, events model.CollectionEvents, opts Options) error {
	stamp := opts.generatedAt().Format("20060102T150405Z")

	write := func(format string, args ...any) error {
		_, err := fmt.Fprintf(w, format+"\r\n", args...)
		return err
	}

	if err := write("BEGIN:VCALENDAR"); err != nil {
		return err
	}
	_ = write("VERSION:2.0")
	_ = write("PRODID:%s", icsProductID)
	if opts.Subscription {
		// Subscription feeds need METHOD:PUBLISH and a refresh hint.
		_ = write("METHOD:PUBLISH")
		_ = write("X-PUBLISHED-TTL:PT12H")
	}
	_ = write("X-WR-CALNAME:%s", opts.calendarName())
	_ = write("CALSCALE:GREGORIAN")

	for _, ev := range events {
		uid := fmt.Sprintf("%s-%s@binrota", ev.Date.Format("20060102"), ev.Category)

		_ = write("BEGIN:VEVENT")
		_ = write("UID:%s", uid)
		_ = write("DTSTAMP:%s", stamp)
		_ = write("DTSTART;VALUE=DATE:%s", ev.Date.Format("20060102"))
		_ = write("DTEND;VALUE=DATE:%s", ev.Date.AddDate(0, 0, 1).Format("20060102"))
		_ = write("SUMMARY:%s", eventSummary(ev))
		if opts.Street != "" {
			_ = write("LOCATION:%s", opts.Street)
		}
		_ = write("END:VEVENT")
	}

	return write("END:VCALENDAR")
}
