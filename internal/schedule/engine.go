// Package schedule orchestrates the full inference pipeline: snapshot in,
// ranked collection events out.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ewanmcn/binrota/internal/catalog"
	"github.com/ewanmcn/binrota/internal/classify"
	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/model"
	"github.com/ewanmcn/binrota/internal/phase"
	"github.com/ewanmcn/binrota/internal/project"
	"github.com/ewanmcn/binrota/internal/service"
)

// Config holds engine options.
type Config struct {
	// Horizon is the number of future weeks to project.
	Horizon int
	// OverrideWeekday forces the collection weekday instead of reading it
	// from the page's schedule table.
	OverrideWeekday *time.Weekday
	// Detector carries the phase-detection policy.
	Detector phase.Config
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Horizon:  project.DefaultHorizon,
		Detector: phase.DefaultConfig(),
	}
}

// Engine wires the collaborators together. One BuildSchedule call performs
// one fetch-and-compute cycle and returns a finite, ranked event list; it
// never retries and never emits partial results.
type Engine struct {
	source     service.SnapshotSource
	history    service.HistoricalSource
	storage    service.Storage
	normalizer *classify.Normalizer
	detector   *phase.Detector
	projector  *project.Projector
	cfg        Config
}

// New creates an engine. history and storage may be nil: a missing
// historical source selects single-observation detection, and a missing
// storage skips persistence.
func New(source service.SnapshotSource, history service.HistoricalSource, storage service.Storage, cat *catalog.Catalog, cfg Config) *Engine {
	if cfg.Horizon <= 0 {
		cfg.Horizon = project.DefaultHorizon
	}
	return &Engine{
		source:     source,
		history:    history,
		storage:    storage,
		normalizer: classify.NewDefaultNormalizer(),
		detector:   phase.NewDetector(cat, cfg.Detector),
		projector:  project.NewProjector(cat),
		cfg:        cfg,
	}
}

// BuildSchedule fetches the current snapshot, resolves the phase, and
// projects the cycle forward. Collaborator failures propagate unchanged;
// unresolvable preconditions fail rather than producing a plausible-looking
// wrong schedule.
func (e *Engine) BuildSchedule(ctx context.Context) (model.CollectionEvents, error) {
	snapshot, err := e.source.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	events, err := e.buildFromSnapshot(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	if e.storage != nil {
		observed := model.ObservedWeek{
			WeekStart:  model.MondayOf(snapshot.WeekStart),
			Categories: e.normalizer.Normalize(snapshot.BinLabels...),
		}
		if err := e.storage.SaveObservedWeek(ctx, observed); err != nil {
			return nil, fmt.Errorf("failed to save observed week: %w", err)
		}
		if err := e.storage.ReplaceEvents(ctx, events); err != nil {
			return nil, fmt.Errorf("failed to save events: %w", err)
		}
	}

	return events, nil
}

// BuildOffline rebuilds the schedule from the most recently stored
// observation instead of fetching the page.
func (e *Engine) BuildOffline(ctx context.Context) (model.CollectionEvents, error) {
	if e.storage == nil {
		return nil, fmt.Errorf("%w: offline mode requires storage", common.ErrMissingConfig)
	}

	observed, err := e.storage.GetLatestObservedWeek(ctx)
	if err != nil {
		return nil, err
	}
	if observed == nil {
		return nil, fmt.Errorf("%w: no stored observation; run fetch first", common.ErrMissingScheduleData)
	}

	// The stored observation does not carry the schedule table, so the
	// weekday comes from configuration; Friday is the reference default.
	weekday := time.Friday
	if e.cfg.OverrideWeekday != nil {
		weekday = *e.cfg.OverrideWeekday
	}

	history, err := e.loadHistory(ctx)
	if err != nil {
		return nil, err
	}

	return e.infer(observed.WeekStart, observed.Categories, history, weekday)
}

func (e *Engine) buildFromSnapshot(ctx context.Context, snapshot *service.Snapshot) (model.CollectionEvents, error) {
	if snapshot == nil || snapshot.WeekStart.IsZero() {
		return nil, fmt.Errorf("%w: snapshot has no collection week", common.ErrMissingScheduleData)
	}

	weekday, err := e.resolveWeekday(snapshot)
	if err != nil {
		return nil, err
	}

	observed := e.normalizer.Normalize(snapshot.BinLabels...)

	history, err := e.loadHistory(ctx)
	if err != nil {
		return nil, err
	}

	return e.infer(snapshot.WeekStart, observed, history, weekday)
}

// infer runs detection, projection, and ranking. Pure apart from logging.
func (e *Engine) infer(weekStart time.Time, observed model.CategorySet, history model.HistoricalObservations, weekday time.Weekday) (model.CollectionEvents, error) {
	detection, err := e.detector.Detect(model.MondayOf(weekStart), observed, history)
	if err != nil {
		return nil, err
	}
	if detection.Warning != "" {
		slog.Warn("Phase detection is not exact", "warning", detection.Warning, "mode", detection.Mode)
	}
	slog.Debug("Phase detected",
		"mode", detection.Mode,
		"template", detection.Template.Name,
		"index", detection.Index,
		"current_set", detection.PhaseSet(0).String())

	events := e.projector.Project(detection.Template, detection.Index, weekStart, weekday, e.cfg.Horizon)
	events.Sort()
	return events, nil
}

// loadHistory assembles historical observations, preferring the live
// calendar collaborator over previously imported rows. A present-but-empty
// document is an error distinct from absence: it usually means a malformed
// or wrong-format document, not missing data.
func (e *Engine) loadHistory(ctx context.Context) (model.HistoricalObservations, error) {
	if e.history != nil {
		entries, err := e.history.FetchCalendar(ctx)
		if err != nil {
			return nil, err
		}
		obs := e.observationsFrom(entries)
		if len(obs) == 0 {
			return nil, common.ErrEmptyHistoricalDocument
		}
		return obs, nil
	}

	if e.storage != nil {
		return e.storage.GetHistoricalObservations(ctx)
	}

	return nil, nil
}

func (e *Engine) observationsFrom(entries []service.DatedLabels) model.HistoricalObservations {
	return ObservationsFrom(e.normalizer, entries)
}

// ObservationsFrom normalizes dated label entries into weekly observations.
// Entries whose labels classify to nothing are dropped; several dates within
// one week merge into that week's union.
func ObservationsFrom(normalizer *classify.Normalizer, entries []service.DatedLabels) model.HistoricalObservations {
	byWeek := make(map[time.Time]model.CategorySet, len(entries))
	for _, entry := range entries {
		set := normalizer.Normalize(entry.Labels...)
		if set.Empty() {
			continue
		}
		week := model.MondayOf(entry.Date)
		byWeek[week] |= set
	}

	obs := make(model.HistoricalObservations, 0, len(byWeek))
	for week, set := range byWeek {
		obs = append(obs, model.HistoricalObservation{WeekStart: week, Categories: set})
	}
	obs.Sort()
	return obs
}

// resolveWeekday reads the collection weekday from the schedule table, or
// uses the configured override. A table with no recognizable weekday is
// missing schedule data.
func (e *Engine) resolveWeekday(snapshot *service.Snapshot) (time.Weekday, error) {
	if e.cfg.OverrideWeekday != nil {
		return *e.cfg.OverrideWeekday, nil
	}

	if len(snapshot.Schedule) == 0 {
		return 0, fmt.Errorf("%w: snapshot has no schedule table", common.ErrMissingScheduleData)
	}

	for _, row := range snapshot.Schedule {
		if day, ok := parseWeekday(row.Detail); ok {
			return day, nil
		}
	}
	return 0, fmt.Errorf("%w: no weekday found in schedule table", common.ErrMissingScheduleData)
}
