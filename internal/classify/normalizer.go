// Package classify maps free-text bin labels onto the closed set of
// canonical categories.
package classify

import (
	"strings"

	"github.com/ewanmcn/binrota/internal/model"
)

// Rule maps label substrings to a canonical category.
type Rule struct {
	Category   model.BinCategory
	Substrings []string
}

// DefaultRules returns the substring rules observed on the council's pages.
// Matching is case-insensitive. Text that matches no rule yields no
// category: upstream formatting varies, so false negatives are tolerated
// here and nowhere else.
func DefaultRules() []Rule {
	return []Rule{
		{Category: model.CategoryBlack, Substrings: []string{"black", "green"}},
		{Category: model.CategoryBlue, Substrings: []string{"blue"}},
		{Category: model.CategoryGrey, Substrings: []string{"grey", "gray"}},
		{Category: model.CategoryBurgundy, Substrings: []string{"burgundy", "brown"}},
	}
}

// Normalizer classifies free-text labels by substring match. The rule table
// is fixed at construction.
type Normalizer struct {
	rules []Rule
}

// NewNormalizer creates a normalizer with the given rules.
func NewNormalizer(rules []Rule) *Normalizer {
	return &Normalizer{rules: rules}
}

// NewDefaultNormalizer creates a normalizer with the default rules.
func NewDefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultRules())
}

// NormalizeLabel returns the categories matched within a single label.
func (n *Normalizer) NormalizeLabel(label string) model.CategorySet {
	var set model.CategorySet
	lower := strings.ToLower(label)
	for _, rule := range n.rules {
		for _, sub := range rule.Substrings {
			if strings.Contains(lower, sub) {
				set = set.With(rule.Category)
				break
			}
		}
	}
	return set
}

// Normalize returns the union of categories matched across all labels.
func (n *Normalizer) Normalize(labels ...string) model.CategorySet {
	var set model.CategorySet
	for _, label := range labels {
		set |= n.NormalizeLabel(label)
	}
	return set
}
