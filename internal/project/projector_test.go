package project

import (
	"testing"
	"time"

	"github.com/ewanmcn/binrota/internal/catalog"
	"github.com/ewanmcn/binrota/internal/model"
	"github.com/ewanmcn/binrota/internal/phase"
)

func monday(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func standardTemplate(t *testing.T) model.CyclePattern {
	t.Helper()
	for _, tpl := range catalog.Default().Templates() {
		if tpl.Name == "standard-4" {
			return tpl
		}
	}
	t.Fatal("standard-4 template missing")
	return model.CyclePattern{}
}

func TestProject_ScenarioA(t *testing.T) {
	// Observed {black} on a Friday schedule: weeks 0..3 must carry black,
	// grey+burgundy, black, blue+burgundy, each dated on its week's Friday.
	cat := catalog.Default()
	det, err := phase.NewDetector(cat, phase.DefaultConfig()).
		DetectSingle(model.NewCategorySet(model.CategoryBlack))
	if err != nil {
		t.Fatalf("DetectSingle() error = %v", err)
	}

	weekStart := monday(2026, 1, 19)
	events := NewProjector(cat).Project(det.Template, det.Index, weekStart, time.Friday, 4)

	wantWeeks := []model.CategorySet{
		model.NewCategorySet(model.CategoryBlack),
		model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy),
		model.NewCategorySet(model.CategoryBlack),
		model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy),
	}

	for week, want := range wantWeeks {
		date := monday(2026, 1, 19).AddDate(0, 0, 7*week+4) // Friday of that week
		if date.Weekday() != time.Friday {
			t.Fatalf("test date %s is not a Friday", date.Format("2006-01-02"))
		}
		if got := events.OnDate(date); got != want {
			t.Errorf("week %d (%s): categories = %s, want %s",
				week, date.Format("2006-01-02"), got, want)
		}
	}
}

func TestProject_ScenarioD(t *testing.T) {
	// Horizon 52, period 4: exactly 52 distinct dates, 1 or 2 categories
	// each, and a total between 52 and 104 events.
	cat := catalog.Default()
	events := NewProjector(cat).Project(standardTemplate(t), 0, monday(2026, 1, 5), time.Monday, 52)

	dates := events.Dates()
	if len(dates) != 52 {
		t.Errorf("distinct dates = %d, want 52", len(dates))
	}
	if len(events) < 52 || len(events) > 104 {
		t.Errorf("total events = %d, want between 52 and 104", len(events))
	}
	for _, d := range dates {
		n := events.OnDate(d).Len()
		if n < 1 || n > 2 {
			t.Errorf("date %s has %d categories, want 1 or 2", d.Format("2006-01-02"), n)
		}
	}
}

func TestProject_SameDateSharesPhaseSet(t *testing.T) {
	// Every projected date's category set must equal the template phase for
	// that week exactly.
	cat := catalog.Default()
	template := standardTemplate(t)
	phaseIndex := 3
	weekStart := monday(2026, 2, 2)

	events := NewProjector(cat).Project(template, phaseIndex, weekStart, time.Wednesday, 8)

	for offset, d := range events.Dates() {
		want := template.PhaseAt(phaseIndex + offset)
		if got := events.OnDate(d); got != want {
			t.Errorf("offset %d (%s): categories = %s, want %s", offset, d.Format("2006-01-02"), got, want)
		}
	}
}

func TestProject_ProjectThenRedetect(t *testing.T) {
	// Projecting from phase i and re-detecting at offset k must yield
	// (i+k) mod P, for every period in the catalog.
	cat := catalog.Default()
	projector := NewProjector(cat)
	detector := phase.NewDetector(cat, phase.DefaultConfig())
	base := monday(2026, 1, 5)

	for _, template := range cat.Templates() {
		period := template.Period()
		for i := 0; i < period; i++ {
			events := projector.Project(template, i, base, time.Monday, 2*period)

			// Rebuild dated observations from the projected events.
			history := make(model.HistoricalObservations, 0, 2*period)
			for _, d := range events.Dates() {
				history = append(history, model.HistoricalObservation{
					WeekStart:  model.MondayOf(d),
					Categories: events.OnDate(d),
				})
			}

			for k := 0; k < 2*period; k++ {
				det, err := detector.DetectWithHistory(base.AddDate(0, 0, 7*k), history)
				if err != nil {
					t.Fatalf("%s i=%d k=%d: DetectWithHistory() error = %v", template.Name, i, k, err)
				}
				if got := det.PhaseSet(0); got != template.PhaseAt(i+k) {
					t.Errorf("%s i=%d k=%d: phase set = %s, want %s",
						template.Name, i, k, got, template.PhaseAt(i+k))
				}
			}
		}
	}
}

func TestProject_WeekStartNeedNotBeMonday(t *testing.T) {
	cat := catalog.Default()
	// A Thursday reference date projects from that week's Monday.
	events := NewProjector(cat).Project(standardTemplate(t), 0, monday(2026, 1, 19).AddDate(0, 0, 3), time.Friday, 1)

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if want := monday(2026, 1, 19).AddDate(0, 0, 4); !events[0].Date.Equal(want) {
		t.Errorf("date = %s, want %s", events[0].Date.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestProject_ZeroHorizon(t *testing.T) {
	cat := catalog.Default()
	if events := NewProjector(cat).Project(standardTemplate(t), 0, monday(2026, 1, 5), time.Monday, 0); len(events) != 0 {
		t.Errorf("horizon 0 produced %d events, want 0", len(events))
	}
}
