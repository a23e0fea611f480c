package model

import (
	"sort"
	"time"
)

// CollectionEvent is one projected collection: a date, the bin category due
// that day, and its display icon. Value object; never mutated after the
// projector emits it.
type CollectionEvent struct {
	Date     time.Time
	Category BinCategory
	Icon     string
}

// CollectionEvents is a slice of events that supports the canonical
// presentation ordering.
type CollectionEvents []CollectionEvent

// Len implements sort.Interface.
func (e CollectionEvents) Len() int {
	return len(e)
}

// Less implements sort.Interface: date ascending, then fixed category
// priority (recyclables before organics before general waste).
func (e CollectionEvents) Less(i, j int) bool {
	if !e[i].Date.Equal(e[j].Date) {
		return e[i].Date.Before(e[j].Date)
	}
	return e[i].Category.SortPriority() < e[j].Category.SortPriority()
}

// Swap implements sort.Interface.
func (e CollectionEvents) Swap(i, j int) {
	e[i], e[j] = e[j], e[i]
}

// Sort orders the events by date then category priority. The sort is stable
// so any equal keys keep their relative order, and re-sorting an already
// sorted slice is a no-op.
func (e CollectionEvents) Sort() {
	sort.Stable(e)
}

// Dates returns the distinct event dates in order of first appearance.
func (e CollectionEvents) Dates() []time.Time {
	seen := make(map[time.Time]struct{}, len(e))
	out := make([]time.Time, 0, len(e))
	for _, ev := range e {
		if _, ok := seen[ev.Date]; ok {
			continue
		}
		seen[ev.Date] = struct{}{}
		out = append(out, ev.Date)
	}
	return out
}

// OnDate returns the category set collected on the given date.
func (e CollectionEvents) OnDate(date time.Time) CategorySet {
	var s CategorySet
	for _, ev := range e {
		if ev.Date.Equal(date) {
			s = s.With(ev.Category)
		}
	}
	return s
}
