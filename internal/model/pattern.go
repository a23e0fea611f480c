package model

// CyclePattern is an ordered sequence of phases that repeats indefinitely.
// Each phase is the category set collected in that week. Patterns are static
// configuration; rotation returns a new value and never mutates the
// template.
type CyclePattern struct {
	Name   string
	Phases []CategorySet
}

// Period returns the cycle length in weeks.
func (p CyclePattern) Period() int {
	return len(p.Phases)
}

// PhaseAt returns the category set for the given week offset, wrapping
// around the period. Offsets may exceed the period but not be negative.
func (p CyclePattern) PhaseAt(offset int) CategorySet {
	return p.Phases[offset%p.Period()]
}

// Rotated returns a copy of the pattern shifted so that phase `start` of the
// original sits at phase 0. The underlying ground-truth sequence is fixed;
// only the reference point moves.
func (p CyclePattern) Rotated(start int) CyclePattern {
	n := p.Period()
	start = ((start % n) + n) % n
	phases := make([]CategorySet, n)
	for i := 0; i < n; i++ {
		phases[i] = p.Phases[(start+i)%n]
	}
	return CyclePattern{Name: p.Name, Phases: phases}
}

// IndexOf returns the first phase index whose set equals s, or -1.
func (p CyclePattern) IndexOf(s CategorySet) int {
	for i, phase := range p.Phases {
		if phase == s {
			return i
		}
	}
	return -1
}
