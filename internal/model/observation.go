package model

import (
	"sort"
	"time"
)

// ObservedWeek is the current collection week as reported by the council
// page: the week's Monday and the categories confirmed collected that week.
// It is produced once per fetch and read-only afterwards.
type ObservedWeek struct {
	WeekStart  time.Time
	Categories CategorySet
}

// HistoricalObservation maps a specific collection-week Monday to the
// categories observed for that week, sourced from the long-range calendar.
type HistoricalObservation struct {
	WeekStart  time.Time
	Categories CategorySet
}

// HistoricalObservations is a date-ordered series of observations.
type HistoricalObservations []HistoricalObservation

// Sort orders the observations by week start ascending. Equal dates keep
// their relative order.
func (h HistoricalObservations) Sort() {
	sort.SliceStable(h, func(i, j int) bool {
		return h[i].WeekStart.Before(h[j].WeekStart)
	})
}

// NearestTo returns the observation whose week start is closest to t,
// or nil when the series is empty.
func (h HistoricalObservations) NearestTo(t time.Time) *HistoricalObservation {
	var best *HistoricalObservation
	var bestDelta time.Duration
	for i := range h {
		delta := h[i].WeekStart.Sub(t)
		if delta < 0 {
			delta = -delta
		}
		if best == nil || delta < bestDelta {
			best = &h[i]
			bestDelta = delta
		}
	}
	return best
}

// At returns the observation for the exact week start t, or nil.
func (h HistoricalObservations) At(t time.Time) *HistoricalObservation {
	for i := range h {
		if h[i].WeekStart.Equal(t) {
			return &h[i]
		}
	}
	return nil
}

// MondayOf truncates t to the Monday of its ISO week, preserving location.
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return day.AddDate(0, 0, -offset)
}
