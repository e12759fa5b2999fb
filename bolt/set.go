package bolt

import (
	"sync/atomic"

	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

// Set owns the bolts of one card
type Set struct {
	gen   *Generator
	bolts []Bolt
}

// NewSet lays out cfg.Count inactive bolts inside bounds, strikes may be nil
func NewSet(cfg Config, rng *vmath.Rand, bounds vmath.Bounds, strikes *atomic.Int64) *Set {
	gen := NewGenerator(cfg, rng, strikes)
	s := &Set{gen: gen, bolts: make([]Bolt, gen.cfg.Count)}
	for i := range s.bolts {
		s.bolts[i] = gen.New(bounds)
	}
	return s
}

// Step ticks then draws every bolt
func (s *Set) Step(bounds vmath.Bounds, surface render.Surface) {
	for i := range s.bolts {
		s.gen.Tick(&s.bolts[i], bounds)
		Draw(&s.bolts[i], surface)
	}
}

// ActivateWithin force-activates every bolt whose path passes within radius of center
// Returns the number activated
func (s *Set) ActivateWithin(center vmath.Point, radius float64) int {
	n := 0
	for i := range s.bolts {
		if vmath.DistToPath(center, s.bolts[i].Points) <= radius {
			s.gen.Activate(&s.bolts[i])
			n++
		}
	}
	return n
}

// ActiveCount returns the number of lit bolts
func (s *Set) ActiveCount() int {
	n := 0
	for i := range s.bolts {
		if s.bolts[i].Active {
			n++
		}
	}
	return n
}

// Len returns the number of bolts
func (s *Set) Len() int {
	return len(s.bolts)
}

// Bolts exposes the bolts for inspection
func (s *Set) Bolts() []Bolt {
	return s.bolts
}

// Generator returns the generator driving the set
func (s *Set) Generator() *Generator {
	return s.gen
}
