package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ewanmcn/binrota/internal/model"
)

type jsonDocument struct {
	Street      string      `json:"street,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
	Events      []jsonEvent `json:"events"`
}

type jsonEvent struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// WriteJSON renders the events as a single JSON document.
func WriteJSON(w io.Writer, events model.CollectionEvents, opts Options) error {
	doc := jsonDocument{
		Street:      opts.Street,
		GeneratedAt: opts.generatedAt(),
		Events:      make([]jsonEvent, 0, len(events)),
	}

	for _, ev := range events {
		doc.Events = append(doc.Events, jsonEvent{
			Date:        ev.Date.Format("2006-01-02"),
			Category:    ev.Category.String(),
			Description: eventSummary(ev),
			Icon:        ev.Icon,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
