// Package phase determines which phase of a repeating collection cycle the
// current week occupies.
package phase

import (
	"fmt"
	"math"
	"time"

	"github.com/ewanmcn/binrota/internal/catalog"
	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/model"
)

// Mode records which detection strategy produced a result.
type Mode string

const (
	// ModeSingleObservation means only the current week's bins were known.
	ModeSingleObservation Mode = "single-observation"
	// ModeHistoricalAnchor means a dated historical observation fixed the
	// exact phase.
	ModeHistoricalAnchor Mode = "historical-anchor"
)

// Config holds detector options.
type Config struct {
	// DefaultClass names the combination class assumed when the observed
	// set matches nothing. Empty disables the fallback, making an
	// unresolved set a hard error.
	DefaultClass string
	// SearchBack and SearchForward bound the anchor search window around
	// the current week.
	SearchBack    time.Duration
	SearchForward time.Duration
}

// DefaultConfig returns the reference policy: default to the black bin,
// search 60 days back and 180 days forward for an anchor.
func DefaultConfig() Config {
	return Config{
		DefaultClass:  "black",
		SearchBack:    60 * 24 * time.Hour,
		SearchForward: 180 * 24 * time.Hour,
	}
}

// Detection is the detector's result: a cycle template and the phase index
// the current week occupies within it. Warning is set when the result rests
// on an assumption (default class, ambiguous anchor run) rather than a
// unique match.
type Detection struct {
	Template model.CyclePattern
	Index    int
	Mode     Mode
	Warning  string
}

// PhaseSet returns the category set for the week `offset` weeks after the
// detected week.
func (d Detection) PhaseSet(offset int) model.CategorySet {
	return d.Template.PhaseAt(d.Index + offset)
}

// Detector resolves the current phase from observations.
type Detector struct {
	catalog *catalog.Catalog
	cfg     Config
}

// NewDetector creates a detector over the given catalog.
func NewDetector(cat *catalog.Catalog, cfg Config) *Detector {
	return &Detector{catalog: cat, cfg: cfg}
}

// Detect picks the operating mode from data availability. Historical-anchor
// mode takes precedence whenever observations exist because it resolves
// ambiguity single-observation matching cannot; its failures are surfaced,
// never papered over by falling back to the weaker mode.
func (d *Detector) Detect(currentWeek time.Time, observed model.CategorySet, history model.HistoricalObservations) (Detection, error) {
	if len(history) > 0 {
		return d.DetectWithHistory(currentWeek, history)
	}
	return d.DetectSingle(observed)
}

// DetectSingle classifies the observed set against the catalog's
// combination classes and rotates the matching template so that class sits
// at phase 0.
func (d *Detector) DetectSingle(observed model.CategorySet) (Detection, error) {
	warning := ""

	cls, ok := d.catalog.Classify(observed)
	if !ok {
		if d.cfg.DefaultClass == "" {
			return Detection{}, fmt.Errorf("%w: observed set %s matches no combination class", common.ErrUnresolvedCombination, observed)
		}
		fallback, found := d.catalog.ClassByName(d.cfg.DefaultClass)
		if !found {
			return Detection{}, fmt.Errorf("%w: default class %q is not in the catalog", common.ErrInvalidConfig, d.cfg.DefaultClass)
		}
		cls = fallback
		warning = fmt.Sprintf("observed set %s matches no combination class; assuming %q", observed, cls.Name)
	}

	rotated, err := d.catalog.RotatedTo(cls)
	if err != nil {
		return Detection{}, err
	}

	return Detection{
		Template: rotated,
		Index:    0,
		Mode:     ModeSingleObservation,
		Warning:  warning,
	}, nil
}

// DetectWithHistory locates the dated observation nearest the current week
// within the search window, reconstructs a run of consecutive weekly phases
// from the anchor, and matches that run against the catalog templates to
// resolve the exact index. A repeated class (black appears twice per
// standard cycle) is only disambiguated by a run of length two or more.
func (d *Detector) DetectWithHistory(currentWeek time.Time, history model.HistoricalObservations) (Detection, error) {
	if len(history) == 0 {
		return Detection{}, common.ErrEmptyHistoricalDocument
	}

	anchor := d.findAnchor(currentWeek, history)
	if anchor == nil {
		return Detection{}, fmt.Errorf("%w: nothing within %s back / %s forward of %s",
			common.ErrAnchorNotFound,
			d.cfg.SearchBack, d.cfg.SearchForward,
			currentWeek.Format("2006-01-02"))
	}

	// The run starts at the head of the anchor's consecutive block, not at
	// the anchor itself: an anchor at the tail of the document would
	// otherwise yield a one-entry run that cannot separate the repeated
	// black weeks.
	blockStart := blockHead(*anchor, history, d.maxPeriod())
	run := consecutiveRun(blockStart, history, d.maxPeriod())

	template, runStart, unique := d.matchRun(run)
	if template.Period() == 0 {
		return Detection{}, fmt.Errorf("%w: anchor run %s matches no template", common.ErrUnresolvedCombination, describeRun(run))
	}

	warning := ""
	if !unique {
		warning = fmt.Sprintf("anchor run %s matches more than one phase ordering; using the first", describeRun(run))
	}

	weeks := weeksBetween(blockStart.WeekStart, currentWeek)
	period := template.Period()
	index := ((runStart+weeks)%period + period) % period

	return Detection{
		Template: template,
		Index:    index,
		Mode:     ModeHistoricalAnchor,
		Warning:  warning,
	}, nil
}

// findAnchor returns the observation nearest currentWeek inside the window,
// or nil.
func (d *Detector) findAnchor(currentWeek time.Time, history model.HistoricalObservations) *model.HistoricalObservation {
	nearest := history.NearestTo(currentWeek)
	if nearest == nil {
		return nil
	}
	delta := nearest.WeekStart.Sub(currentWeek)
	if delta < 0 {
		if -delta > d.cfg.SearchBack {
			return nil
		}
	} else if delta > d.cfg.SearchForward {
		return nil
	}
	return nearest
}

func (d *Detector) maxPeriod() int {
	max := 1
	for _, t := range d.catalog.Templates() {
		if t.Period() > max {
			max = t.Period()
		}
	}
	return max
}

// matchRun finds the template and starting phase index whose ordering
// reproduces the run. The second return reports whether the match was
// unique across all templates and rotations.
func (d *Detector) matchRun(run []model.CategorySet) (model.CyclePattern, int, bool) {
	var matched model.CyclePattern
	matchedStart := 0
	count := 0

	for _, t := range d.catalog.Templates() {
		period := t.Period()
		for start := 0; start < period; start++ {
			ok := true
			for i, set := range run {
				if t.PhaseAt(start+i) != set {
					ok = false
					break
				}
			}
			if ok {
				if count == 0 {
					matched = t
					matchedStart = start
				}
				count++
			}
		}
	}

	return matched, matchedStart, count == 1
}

// blockHead walks back from the anchor one week at a time to the first
// entry of its consecutive block, at most maxBack steps.
func blockHead(anchor model.HistoricalObservation, history model.HistoricalObservations, maxBack int) model.HistoricalObservation {
	head := anchor
	for steps := 0; steps < maxBack; steps++ {
		prev := history.At(head.WeekStart.AddDate(0, 0, -7))
		if prev == nil {
			break
		}
		head = *prev
	}
	return head
}

// consecutiveRun reads up to maxLen weekly entries starting at the anchor,
// stopping at the first missing week.
func consecutiveRun(anchor model.HistoricalObservation, history model.HistoricalObservations, maxLen int) []model.CategorySet {
	run := []model.CategorySet{anchor.Categories}
	week := anchor.WeekStart
	for len(run) < maxLen {
		week = week.AddDate(0, 0, 7)
		next := history.At(week)
		if next == nil {
			break
		}
		run = append(run, next.Categories)
	}
	return run
}

func describeRun(run []model.CategorySet) string {
	out := ""
	for i, set := range run {
		if i > 0 {
			out += " -> "
		}
		out += set.String()
	}
	return "[" + out + "]"
}

// weeksBetween returns the signed number of whole weeks from a to b,
// rounding to absorb DST shifts.
func weeksBetween(a, b time.Time) int {
	days := math.Round(b.Sub(a).Hours() / 24)
	return int(days) / 7
}
