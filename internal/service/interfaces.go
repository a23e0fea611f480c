// Package service defines the interfaces between the schedule engine and
// its collaborators.
package service

import (
	"context"
	"time"

	"github.com/ewanmcn/binrota/internal/model"
)

// Snapshot is the decoded state of the council's street page: the current
// collection week, the raw labels of the bins collected this week, and the
// raw per-category schedule table. The snapshot source does all HTML work;
// consumers only ever see text.
type Snapshot struct {
	FetchedAt time.Time
	WeekStart time.Time
	BinLabels []string
	Schedule  []ScheduleRow
}

// ScheduleRow is one row of the page's schedule table: a waste-type label
// and the free-text weekday/frequency description for it.
type ScheduleRow struct {
	WasteType string
	Detail    string
}

// DatedLabels maps one calendar date in the historical document to the raw
// bin labels recorded for it. Labels may be empty when the document only
// enumerates collection-week dates.
type DatedLabels struct {
	Date   time.Time
	Labels []string
}

// SnapshotSource fetches the current page snapshot. Implementations must
// bound the fetch with the context and must not retry internally.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// HistoricalSource provides the optional long-range calendar. A nil source
// is the expected way to express absence; an error from a present source is
// surfaced, not swallowed.
type HistoricalSource interface {
	FetchCalendar(ctx context.Context) ([]DatedLabels, error)
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Observed weeks
	SaveObservedWeek(ctx context.Context, week model.ObservedWeek) error
	GetLatestObservedWeek(ctx context.Context) (*model.ObservedWeek, error)

	// Historical observations
	SaveHistoricalObservations(ctx context.Context, obs model.HistoricalObservations) error
	GetHistoricalObservations(ctx context.Context) (model.HistoricalObservations, error)

	// Projected events
	ReplaceEvents(ctx context.Context, events model.CollectionEvents) error
	GetEvents(ctx context.Context, from, to time.Time) (model.CollectionEvents, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
