// Package model defines the core domain types for the binrota application.
package model

import "strings"

// BinCategory identifies one of the council's bin colours. The set is
// closed: categories are defined here once and never created at runtime.
type BinCategory uint8

// Canonical bin categories.
const (
	CategoryUnknown BinCategory = iota
	CategoryBlack
	CategoryBlue
	CategoryGrey
	CategoryBurgundy
)

// allCategories lists the known categories in canonical order. Iteration
// over category sets follows this order so output is deterministic.
var allCategories = []BinCategory{
	CategoryBlack,
	CategoryBlue,
	CategoryGrey,
	CategoryBurgundy,
}

// String returns the canonical lowercase name.
func (c BinCategory) String() string {
	switch c {
	case CategoryBlack:
		return "black"
	case CategoryBlue:
		return "blue"
	case CategoryGrey:
		return "grey"
	case CategoryBurgundy:
		return "burgundy"
	default:
		return "unknown"
	}
}

// Label returns the human-readable display label.
func (c BinCategory) Label() string {
	switch c {
	case CategoryBlack:
		return "Black/Green - Non Recyclable Waste"
	case CategoryBlue:
		return "Blue - Paper and Cardboard"
	case CategoryGrey:
		return "Light Grey - Glass, Cans and Plastics"
	case CategoryBurgundy:
		return "Burgundy - Garden and Food Waste"
	default:
		return "Unknown"
	}
}

// SortPriority returns the fixed presentation priority: recyclable
// categories before organics before general waste. Unknown sorts last.
func (c BinCategory) SortPriority() int {
	switch c {
	case CategoryBlue:
		return 1
	case CategoryGrey:
		return 2
	case CategoryBurgundy:
		return 3
	case CategoryBlack:
		return 4
	default:
		return 99
	}
}

// Known reports whether c is one of the canonical categories.
func (c BinCategory) Known() bool {
	return c >= CategoryBlack && c <= CategoryBurgundy
}

// ParseBinCategory resolves a canonical name back to its category.
// It accepts only canonical names, not free-text labels; use
// classify.Normalizer for those.
func ParseBinCategory(name string) BinCategory {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "black":
		return CategoryBlack
	case "blue":
		return CategoryBlue
	case "grey":
		return CategoryGrey
	case "burgundy":
		return CategoryBurgundy
	default:
		return CategoryUnknown
	}
}

// CategorySet is an immutable value set of bin categories, represented as a
// bitmask so equality and map keying work with ==.
type CategorySet uint8

func (c BinCategory) bit() CategorySet {
	if !c.Known() {
		return 0
	}
	return 1 << (c - CategoryBlack)
}

// NewCategorySet builds a set from the given categories. Unknown categories
// are ignored.
func NewCategorySet(cats ...BinCategory) CategorySet {
	var s CategorySet
	for _, c := range cats {
		s |= c.bit()
	}
	return s
}

// Has reports whether the set contains c.
func (s CategorySet) Has(c BinCategory) bool {
	return s&c.bit() != 0
}

// With returns a copy of the set with c added.
func (s CategorySet) With(c BinCategory) CategorySet {
	return s | c.bit()
}

// Empty reports whether the set contains no categories.
func (s CategorySet) Empty() bool {
	return s == 0
}

// Len returns the number of categories in the set.
func (s CategorySet) Len() int {
	n := 0
	for _, c := range allCategories {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// Categories returns the members in canonical order.
func (s CategorySet) Categories() []BinCategory {
	out := make([]BinCategory, 0, s.Len())
	for _, c := range allCategories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// String renders the set as "black+blue" style text for logs and errors.
func (s CategorySet) String() string {
	if s.Empty() {
		return "none"
	}
	names := make([]string, 0, s.Len())
	for _, c := range s.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, "+")
}
