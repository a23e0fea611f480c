package export

import (
	"encoding/csv"
	"io"

	"github.com/ewanmcn/binrota/internal/model"
)

// WriteCSV renders the events as CSV with a header row. Events appear in
// the order given, which is presentation order when the caller sorted them.
func WriteCSV(w io.Writer, events model.CollectionEvents) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "category", "description", "icon"}); err != nil {
		return err
	}

	for _, ev := range events {
		record := []string{
			ev.Date.Format("2006-01-02"),
			ev.Category.String(),
			eventSummary(ev),
			ev.Icon,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
