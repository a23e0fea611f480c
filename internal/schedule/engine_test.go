package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ewanmcn/binrota/internal/catalog"
	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/model"
	"github.com/ewanmcn/binrota/internal/service"
)

func monday(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type mockSnapshotSource struct {
	snapshot *service.Snapshot
	err      error
	calls    int
}

func (m *mockSnapshotSource) FetchSnapshot(_ context.Context) (*service.Snapshot, error) {
	m.calls++
	return m.snapshot, m.err
}

type mockHistoricalSource struct {
	entries []service.DatedLabels
	err     error
}

func (m *mockHistoricalSource) FetchCalendar(_ context.Context) ([]service.DatedLabels, error) {
	return m.entries, m.err
}

type mockStorage struct {
	observed  []model.ObservedWeek
	history   model.HistoricalObservations
	events    model.CollectionEvents
	saveCalls int
}

func (m *mockStorage) SaveObservedWeek(_ context.Context, week model.ObservedWeek) error {
	m.saveCalls++
	m.observed = append(m.observed, week)
	return nil
}

func (m *mockStorage) GetLatestObservedWeek(_ context.Context) (*model.ObservedWeek, error) {
	if len(m.observed) == 0 {
		return nil, nil
	}
	return &m.observed[len(m.observed)-1], nil
}

func (m *mockStorage) SaveHistoricalObservations(_ context.Context, obs model.HistoricalObservations) error {
	m.history = append(m.history, obs...)
	return nil
}

func (m *mockStorage) GetHistoricalObservations(_ context.Context) (model.HistoricalObservations, error) {
	return m.history, nil
}

func (m *mockStorage) ReplaceEvents(_ context.Context, events model.CollectionEvents) error {
	m.events = events
	return nil
}

func (m *mockStorage) GetEvents(_ context.Context, _, _ time.Time) (model.CollectionEvents, error) {
	return m.events, nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }
func (m *mockStorage) Close() error                    { return nil }

func testSnapshot() *service.Snapshot {
	return &service.Snapshot{
		FetchedAt: monday(2026, 1, 19),
		WeekStart: monday(2026, 1, 19),
		BinLabels: []string{"Black/Green - Non Recyclable Waste"},
		Schedule: []service.ScheduleRow{
			{WasteType: "Black/Green - Non Recyclable Waste", Detail: "Friday - Fortnightly"},
			{WasteType: "Blue - Paper and Cardboard", Detail: "Friday - Fortnightly"},
			{WasteType: "Light Grey - Glass, cans and plastics", Detail: "Friday - 4 Weekly"},
		},
	}
}

func newTestEngine(source service.SnapshotSource, history service.HistoricalSource, storage service.Storage, horizon int) *Engine {
	cfg := DefaultConfig()
	cfg.Horizon = horizon
	return New(source, history, storage, catalog.Default(), cfg)
}

func TestBuildSchedule_SingleObservation(t *testing.T) {
	source := &mockSnapshotSource{snapshot: testSnapshot()}
	engine := newTestEngine(source, nil, nil, 4)

	events, err := engine.BuildSchedule(context.Background())
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}

	wantWeeks := []model.CategorySet{
		model.NewCategorySet(model.CategoryBlack),
		model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy),
		model.NewCategorySet(model.CategoryBlack),
		model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy),
	}

	dates := events.Dates()
	if len(dates) != 4 {
		t.Fatalf("distinct dates = %d, want 4", len(dates))
	}
	for week, want := range wantWeeks {
		date := monday(2026, 1, 19).AddDate(0, 0, 7*week+4)
		if date.Weekday() != time.Friday {
			t.Fatalf("expected Friday, got %s", date.Weekday())
		}
		if got := events.OnDate(date); got != want {
			t.Errorf("week %d: categories = %s, want %s", week, got, want)
		}
	}
}

func TestBuildSchedule_EventsAreRanked(t *testing.T) {
	source := &mockSnapshotSource{snapshot: testSnapshot()}
	engine := newTestEngine(source, nil, nil, 8)

	events, err := engine.BuildSchedule(context.Background())
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}

	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if cur.Date.Before(prev.Date) {
			t.Fatalf("events out of date order at %d", i)
		}
		if cur.Date.Equal(prev.Date) && cur.Category.SortPriority() < prev.Category.SortPriority() {
			t.Fatalf("events out of priority order at %d: %s before %s", i, prev.Category, cur.Category)
		}
	}
}

func TestBuildSchedule_MissingWeekRange(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.WeekStart = time.Time{}
	source := &mockSnapshotSource{snapshot: snapshot}
	engine := newTestEngine(source, nil, nil, 4)

	_, err := engine.BuildSchedule(context.Background())
	if !errors.Is(err, common.ErrMissingScheduleData) {
		t.Errorf("BuildSchedule() error = %v, want ErrMissingScheduleData", err)
	}
}

func TestBuildSchedule_MissingWeekdayTable(t *testing.T) {
	tests := []struct {
		name     string
		schedule []service.ScheduleRow
	}{
		{name: "no table rows", schedule: nil},
		{
			name: "no recognizable weekday",
			schedule: []service.ScheduleRow{
				{WasteType: "Black", Detail: "Fortnightly"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := testSnapshot()
			snapshot.Schedule = tt.schedule
			engine := newTestEngine(&mockSnapshotSource{snapshot: snapshot}, nil, nil, 4)

			_, err := engine.BuildSchedule(context.Background())
			if !errors.Is(err, common.ErrMissingScheduleData) {
				t.Errorf("BuildSchedule() error = %v, want ErrMissingScheduleData", err)
			}
		})
	}
}

func TestBuildSchedule_FetchFailurePropagates(t *testing.T) {
	fetchErr := fmt.Errorf("%w: connection refused", common.ErrFetchFailed)
	source := &mockSnapshotSource{err: fetchErr}
	engine := newTestEngine(source, nil, nil, 4)

	_, err := engine.BuildSchedule(context.Background())
	if !errors.Is(err, common.ErrFetchFailed) {
		t.Errorf("BuildSchedule() error = %v, want ErrFetchFailed", err)
	}
}

func TestBuildSchedule_AnchorNotFound(t *testing.T) {
	// Scenario C: the historical document exists but has nothing within the
	// search window. Detection fails; no events are produced.
	source := &mockSnapshotSource{snapshot: testSnapshot()}
	history := &mockHistoricalSource{entries: []service.DatedLabels{
		{Date: monday(2024, 3, 4), Labels: []string{"Black"}},
	}}
	engine := newTestEngine(source, history, nil, 4)

	events, err := engine.BuildSchedule(context.Background())
	if !errors.Is(err, common.ErrAnchorNotFound) {
		t.Errorf("BuildSchedule() error = %v, want ErrAnchorNotFound", err)
	}
	if events != nil {
		t.Errorf("events = %d entries, want none", len(events))
	}
}

func TestBuildSchedule_EmptyHistoricalDocument(t *testing.T) {
	source := &mockSnapshotSource{snapshot: testSnapshot()}

	tests := []struct {
		name    string
		entries []service.DatedLabels
	}{
		{name: "no entries at all", entries: []service.DatedLabels{}},
		{
			name: "entries with unclassifiable labels",
			entries: []service.DatedLabels{
				{Date: monday(2026, 1, 12), Labels: []string{"public holiday"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(source, &mockHistoricalSource{entries: tt.entries}, nil, 4)

			_, err := engine.BuildSchedule(context.Background())
			if !errors.Is(err, common.ErrEmptyHistoricalDocument) {
				t.Errorf("BuildSchedule() error = %v, want ErrEmptyHistoricalDocument", err)
			}
		})
	}
}

func TestBuildSchedule_HistoryDisambiguatesRepeatedClass(t *testing.T) {
	// The page only says "black", which matches two phases of the 4-week
	// cycle. The calendar pins the current week to the second occurrence,
	// so the next week must be blue+burgundy rather than grey+burgundy.
	source := &mockSnapshotSource{snapshot: testSnapshot()}
	history := &mockHistoricalSource{entries: []service.DatedLabels{
		{Date: monday(2026, 1, 12), Labels: []string{"Light Grey - Glass"}},
		{Date: monday(2026, 1, 12), Labels: []string{"Burgundy - Garden waste"}},
		{Date: monday(2026, 1, 19), Labels: []string{"Black/Green"}},
	}}
	engine := newTestEngine(source, history, nil, 4)

	events, err := engine.BuildSchedule(context.Background())
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}

	nextFriday := monday(2026, 1, 26).AddDate(0, 0, 4)
	want := model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy)
	if got := events.OnDate(nextFriday); got != want {
		t.Errorf("next week = %s, want %s", got, want)
	}
}

func TestBuildSchedule_PersistsResults(t *testing.T) {
	source := &mockSnapshotSource{snapshot: testSnapshot()}
	storage := &mockStorage{}
	engine := newTestEngine(source, nil, storage, 4)

	events, err := engine.BuildSchedule(context.Background())
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}

	if storage.saveCalls != 1 {
		t.Errorf("SaveObservedWeek calls = %d, want 1", storage.saveCalls)
	}
	if len(storage.observed) != 1 || storage.observed[0].Categories != model.NewCategorySet(model.CategoryBlack) {
		t.Errorf("stored observation = %+v, want black on 2026-01-19", storage.observed)
	}
	if len(storage.events) != len(events) {
		t.Errorf("stored events = %d, want %d", len(storage.events), len(events))
	}
}

func TestBuildOffline(t *testing.T) {
	storage := &mockStorage{
		observed: []model.ObservedWeek{
			{WeekStart: monday(2026, 1, 19), Categories: model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy)},
		},
	}
	engine := newTestEngine(&mockSnapshotSource{}, nil, storage, 2)

	events, err := engine.BuildOffline(context.Background())
	if err != nil {
		t.Fatalf("BuildOffline() error = %v", err)
	}

	// Scenario B: blue+burgundy this week, black next week.
	week0 := monday(2026, 1, 19).AddDate(0, 0, 4)
	week1 := monday(2026, 1, 26).AddDate(0, 0, 4)
	if got := events.OnDate(week0); got != model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy) {
		t.Errorf("week 0 = %s, want blue+burgundy", got)
	}
	if got := events.OnDate(week1); got != model.NewCategorySet(model.CategoryBlack) {
		t.Errorf("week 1 = %s, want black", got)
	}
}

func TestBuildOffline_NoStoredObservation(t *testing.T) {
	engine := newTestEngine(&mockSnapshotSource{}, nil, &mockStorage{}, 4)

	_, err := engine.BuildOffline(context.Background())
	if !errors.Is(err, common.ErrMissingScheduleData) {
		t.Errorf("BuildOffline() error = %v, want ErrMissingScheduleData", err)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		text string
		want time.Weekday
		ok   bool
	}{
		{"Friday - Fortnightly", time.Friday, true},
		{"collected every tuesday", time.Tuesday, true},
		{"Monday or Thursday", time.Monday, true}, // first mention wins
		{"4 Weekly", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseWeekday(tt.text)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseWeekday(%q) = (%s, %v), want (%s, %v)", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}
