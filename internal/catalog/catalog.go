// Package catalog holds the static configuration of known bin combination
// classes and cycle templates. The catalog is immutable after construction;
// detection rotates templates, it never redefines them.
package catalog

import (
	"fmt"

	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/model"
)

// CombinationClass is a named set of categories that can appear together in
// a single collection week.
type CombinationClass struct {
	Name string
	Set  model.CategorySet
}

// Catalog is the process-wide lookup of combination classes, cycle
// templates, and display icons. Built once at startup, read-only afterward.
type Catalog struct {
	icons     map[model.BinCategory]string
	classes   []CombinationClass
	templates []model.CyclePattern
}

// New builds a catalog from explicit configuration.
func New(classes []CombinationClass, templates []model.CyclePattern, icons map[model.BinCategory]string) (*Catalog, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: catalog requires at least one combination class", common.ErrInvalidConfig)
	}
	for _, t := range templates {
		if t.Period() < 1 {
			return nil, fmt.Errorf("%w: template %q has no phases", common.ErrInvalidConfig, t.Name)
		}
	}

	frozen := make(map[model.BinCategory]string, len(icons))
	for k, v := range icons {
		frozen[k] = v
	}

	return &Catalog{
		classes:   append([]CombinationClass(nil), classes...),
		templates: append([]model.CyclePattern(nil), templates...),
		icons:     frozen,
	}, nil
}

// Default returns the reference South Lanarkshire catalog: a 4-week cycle of
// black, grey+burgundy, black, blue+burgundy, plus a fortnightly-only
// variant for streets without a glass collection.
func Default() *Catalog {
	classes := []CombinationClass{
		{Name: "black", Set: model.NewCategorySet(model.CategoryBlack)},
		{Name: "grey+burgundy", Set: model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy)},
		{Name: "blue+burgundy", Set: model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy)},
	}

	templates := []model.CyclePattern{
		{
			Name: "standard-4",
			Phases: []model.CategorySet{
				model.NewCategorySet(model.CategoryBlack),
				model.NewCategorySet(model.CategoryGrey, model.CategoryBurgundy),
				model.NewCategorySet(model.CategoryBlack),
				model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy),
			},
		},
		{
			Name: "fortnightly-2",
			Phases: []model.CategorySet{
				model.NewCategorySet(model.CategoryBlack),
				model.NewCategorySet(model.CategoryBlue, model.CategoryBurgundy),
			},
		},
	}

	icons := map[model.BinCategory]string{
		model.CategoryBlack:    "mdi:trash-can",
		model.CategoryBlue:     "mdi:file-document-outline",
		model.CategoryGrey:     "mdi:glass-fragile",
		model.CategoryBurgundy: "mdi:leaf",
	}

	c, err := New(classes, templates, icons)
	if err != nil {
		// Default configuration is compiled in; a failure here is a bug.
		panic(err)
	}
	return c
}

// Classes returns the known combination classes.
func (c *Catalog) Classes() []CombinationClass {
	return c.classes
}

// Templates returns the known cycle templates.
func (c *Catalog) Templates() []model.CyclePattern {
	return c.templates
}

// Icon returns the display icon for a category, falling back to the general
// waste icon for anything unrecognized.
func (c *Catalog) Icon(cat model.BinCategory) string {
	if icon, ok := c.icons[cat]; ok {
		return icon
	}
	return "mdi:trash-can"
}

// ClassByName looks up a combination class by its name.
func (c *Catalog) ClassByName(name string) (CombinationClass, bool) {
	for _, cls := range c.classes {
		if cls.Name == name {
			return cls, true
		}
	}
	return CombinationClass{}, false
}

// Classify matches an observed category set against the combination
// classes: exact set equality first, then the class with the greatest
// overlap. A set that overlaps no class is unresolved.
func (c *Catalog) Classify(set model.CategorySet) (CombinationClass, bool) {
	for _, cls := range c.classes {
		if cls.Set == set {
			return cls, true
		}
	}

	best := CombinationClass{}
	bestOverlap := 0
	for _, cls := range c.classes {
		overlap := 0
		for _, cat := range cls.Set.Categories() {
			if set.Has(cat) {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = cls
			bestOverlap = overlap
		}
	}
	return best, bestOverlap > 0
}

// TemplateContaining returns the first template with a phase equal to the
// class's set, together with that phase's index.
func (c *Catalog) TemplateContaining(cls CombinationClass) (model.CyclePattern, int, bool) {
	for _, t := range c.templates {
		if idx := t.IndexOf(cls.Set); idx >= 0 {
			return t, idx, true
		}
	}
	return model.CyclePattern{}, 0, false
}

// RotatedTo returns the first template containing the class, rotated so the
// class sits at phase 0.
func (c *Catalog) RotatedTo(cls CombinationClass) (model.CyclePattern, error) {
	t, idx, ok := c.TemplateContaining(cls)
	if !ok {
		return model.CyclePattern{}, fmt.Errorf("%w: class %q appears in no template", common.ErrUnresolvedCombination, cls.Name)
	}
	return t.Rotated(idx), nil
}
