// Package project replays a detected cycle forward into dated collection
// events.
package project

import (
	"time"

	"github.com/ewanmcn/binrota/internal/catalog"
	"github.com/ewanmcn/binrota/internal/model"
)

// DefaultHorizon is the reference projection length: one year of weeks.
const DefaultHorizon = 52

// Projector turns a template and phase index into concrete events. It is a
// pure function of its inputs; it never re-derives the phase from dates, so
// detection and projection cannot drift apart.
type Projector struct {
	catalog *catalog.Catalog
}

// NewProjector creates a projector that takes display icons from the
// catalog.
func NewProjector(cat *catalog.Catalog) *Projector {
	return &Projector{catalog: cat}
}

// Project emits one event per category for each week offset 0..horizon-1.
// The week at offset k carries phase (phaseIndex+k) mod period, dated on
// the configured collection weekday of that week. Dates are generated by
// pure weekly arithmetic from the reference week's Monday; holiday shifts
// are out of scope here.
func (p *Projector) Project(template model.CyclePattern, phaseIndex int, weekStart time.Time, weekday time.Weekday, horizon int) model.CollectionEvents {
	if horizon <= 0 || template.Period() < 1 {
		return nil
	}

	monday := model.MondayOf(weekStart)
	daysToWeekday := (int(weekday) - int(time.Monday) + 7) % 7

	events := make(model.CollectionEvents, 0, horizon)
	for offset := 0; offset < horizon; offset++ {
		date := monday.AddDate(0, 0, 7*offset+daysToWeekday)
		for _, cat := range template.PhaseAt(phaseIndex + offset).Categories() {
			events = append(events, model.CollectionEvent{
				Date:     date,
				Category: cat,
				Icon:     p.catalog.Icon(cat),
			})
		}
	}
	return events
}
