package phase

import (
	"errors"
	"testing"
	"time"

	"github.com/ewanmcn/binrota/internal/catalog"
	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/model"
)

func monday(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	return NewDetector(catalog.Default(), DefaultConfig())
}

func TestDetectSingle(t *testing.T) {
	tests := []struct {
		name        string
		observed    model.CategorySet
		wantPhase0  model.CategorySet
		wantPhase1  model.CategorySet
		wantWarning bool
	}{
		{
			name:       "black rotates black to phase 0",
			observed:   model.NewCategorySet(model.CategoryBlack),
			wantPhase0: model.NewCategorySet(model.CategoryBlack),
			wantPhase1: model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy),
		},
		{
			name:       "blue and burgundy followed by black",
			observed:   model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy),
			wantPhase0: model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy),
			wantPhase1: model.NewCategorySet(model.CategoryBlack),
		},
		{
			name:        "unmatched set falls back to default class with warning",
			observed:    model.NewCategorySet(),
			wantPhase0:  model.NewCategorySet(model.CategoryBlack),
			wantPhase1:  model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy),
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDetector(t)
			det, err := d.DetectSingle(tt.observed)
			if err != nil {
				t.Fatalf("DetectSingle() error = %v", err)
			}
			if det.Mode != ModeSingleObservation {
				t.Errorf("Mode = %s, want %s", det.Mode, ModeSingleObservation)
			}
			if det.Index != 0 {
				t.Errorf("Index = %d, want 0", det.Index)
			}
			if got := det.PhaseSet(0); got != tt.wantPhase0 {
				t.Errorf("phase 0 = %s, want %s", got, tt.wantPhase0)
			}
			if got := det.PhaseSet(1); got != tt.wantPhase1 {
				t.Errorf("phase 1 = %s, want %s", got, tt.wantPhase1)
			}
			if (det.Warning != "") != tt.wantWarning {
				t.Errorf("Warning = %q, want warning: %v", det.Warning, tt.wantWarning)
			}
		})
	}
}

func TestDetectSingle_UnresolvedWithoutDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultClass = ""
	d := NewDetector(catalog.Default(), cfg)

	_, err := d.DetectSingle(model.NewCategorySet())
	if !errors.Is(err, common.ErrUnresolvedCombination) {
		t.Errorf("DetectSingle() error = %v, want ErrUnresolvedCombination", err)
	}
}

func TestDetectWithHistory_EmptyDocument(t *testing.T) {
	d := newTestDetector(t)

	_, err := d.DetectWithHistory(monday(2026, 1, 19), nil)
	if !errors.Is(err, common.ErrEmptyHistoricalDocument) {
		t.Errorf("DetectWithHistory(nil) error = %v, want ErrEmptyHistoricalDocument", err)
	}
}

func TestDetectWithHistory_AnchorOutsideWindow(t *testing.T) {
	d := newTestDetector(t)

	history := model.HistoricalObservations{
		{WeekStart: monday(2025, 6, 2), Categories: model.NewCategorySet(model.CategoryBlack)},
	}

	_, err := d.DetectWithHistory(monday(2026, 1, 19), history)
	if !errors.Is(err, common.ErrAnchorNotFound) {
		t.Errorf("DetectWithHistory() error = %v, want ErrAnchorNotFound", err)
	}
}

func TestDetectWithHistory_ResolvesRepeatedClass(t *testing.T) {
	// A single "black" observation is ambiguous (black occurs twice per
	// 4-week cycle); the following week's grey+burgundy entry pins it to
	// the first occurrence.
	d := newTestDetector(t)

	history := model.HistoricalObservations{
		{WeekStart: monday(2026, 1, 5), Categories: model.NewCategorySet(model.CategoryBlack)},
		{WeekStart: monday(2026, 1, 12), Categories: model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy)},
	}

	det, err := d.DetectWithHistory(monday(2026, 1, 19), history)
	if err != nil {
		t.Fatalf("DetectWithHistory() error = %v", err)
	}

	if det.Mode != ModeHistoricalAnchor {
		t.Errorf("Mode = %s, want %s", det.Mode, ModeHistoricalAnchor)
	}
	if det.Warning != "" {
		t.Errorf("Warning = %q, want none", det.Warning)
	}
	// Anchor sits at phase 0; the current week is two weeks later.
	if det.Index != 2 {
		t.Errorf("Index = %d, want 2", det.Index)
	}
	if got, want := det.PhaseSet(0), model.NewCategorySet(model.CategoryBlack); got != want {
		t.Errorf("current phase = %s, want %s", got, want)
	}
	if got, want := det.PhaseSet(1), model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy); got != want {
		t.Errorf("next phase = %s, want %s", got, want)
	}
}

func TestDetectWithHistory_FutureAnchor(t *testing.T) {
	// An anchor after the current week still resolves the phase by
	// counting weeks backwards.
	d := newTestDetector(t)

	history := model.HistoricalObservations{
		{WeekStart: monday(2026, 3, 2), Categories: model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy)},
	}

	det, err := d.DetectWithHistory(monday(2026, 1, 5), history)
	if err != nil {
		t.Fatalf("DetectWithHistory() error = %v", err)
	}

	// The anchor is 8 weeks ahead at phase 1; 8 weeks is two full cycles,
	// so the current week is also phase 1.
	if det.Index != 1 {
		t.Errorf("Index = %d, want 1", det.Index)
	}
}

func TestDetectWithHistory_AmbiguousRunWarns(t *testing.T) {
	d := newTestDetector(t)

	history := model.HistoricalObservations{
		{WeekStart: monday(2026, 1, 19), Categories: model.NewCategorySet(model.CategoryBlack)},
	}

	det, err := d.DetectWithHistory(monday(2026, 1, 19), history)
	if err != nil {
		t.Fatalf("DetectWithHistory() error = %v", err)
	}
	if det.Warning == "" {
		t.Error("expected a warning for an ambiguous single-entry run")
	}
	if got, want := det.PhaseSet(0), model.NewCategorySet(model.CategoryBlack); got != want {
		t.Errorf("current phase = %s, want %s", got, want)
	}
}

func TestDetect_HistoryTakesPrecedence(t *testing.T) {
	d := newTestDetector(t)

	// The page says blue+burgundy, but the dated history proves the week
	// is actually grey+burgundy. History wins.
	observed := model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy)
	history := model.HistoricalObservations{
		{WeekStart: monday(2026, 1, 19), Categories: model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy)},
	}

	det, err := d.Detect(monday(2026, 1, 19), observed, history)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if det.Mode != ModeHistoricalAnchor {
		t.Errorf("Mode = %s, want %s", det.Mode, ModeHistoricalAnchor)
	}
	if got, want := det.PhaseSet(0), model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy); got != want {
		t.Errorf("current phase = %s, want %s", got, want)
	}
}

func TestDetect_HistoryFailureIsNotMasked(t *testing.T) {
	d := newTestDetector(t)

	history := model.HistoricalObservations{
		{WeekStart: monday(2024, 1, 1), Categories: model.NewCategorySet(model.CategoryBlack)},
	}

	_, err := d.Detect(monday(2026, 1, 19), model.NewCategorySet(model.CategoryBlack), history)
	if !errors.Is(err, common.ErrAnchorNotFound) {
		t.Errorf("Detect() error = %v, want ErrAnchorNotFound (no silent fallback)", err)
	}
}

func TestDetectWithHistory_PhaseArithmetic(t *testing.T) {
	// For every anchor phase i and week offset k, the detected index must
	// equal (i + k) mod period.
	d := newTestDetector(t)
	template := catalog.Default().Templates()[0]
	period := template.Period()
	base := monday(2026, 1, 5)

	for i := 0; i < period; i++ {
		// Full-period run anchored at phase i: always a unique match.
		history := make(model.HistoricalObservations, 0, period)
		for w := 0; w < period; w++ {
			history = append(history, model.HistoricalObservation{
				WeekStart:  base.AddDate(0, 0, 7*w),
				Categories: template.PhaseAt(i + w),
			})
		}

		for k := 0; k < 2*period; k++ {
			current := base.AddDate(0, 0, 7*k)
			det, err := d.DetectWithHistory(current, history)
			if err != nil {
				t.Fatalf("i=%d k=%d: DetectWithHistory() error = %v", i, k, err)
			}
			want := (i + k) % period
			if det.Index != want {
				t.Errorf("i=%d k=%d: Index = %d, want %d", i, k, det.Index, want)
			}
		}
	}
}
