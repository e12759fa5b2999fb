package bolt

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

// Config parametrises one bolt family
type Config struct {
	Count     int
	Endpoints Endpoints

	Segments int
	Jitter   float64 // pixels per axis

	Branches       int
	BranchSegments int
	BranchLength   float64 // fraction of the parent path length

	DurationMin, DurationMax int // frames
	RegenEvery               int // frames between re-jitters while active, zero keeps the path

	ReactivateChance float64 // per inactive frame

	Width   float64
	Palette render.Palette
}

// Normalized returns c with degenerate values repaired
func (c Config) Normalized() Config {
	c.Count = max(c.Count, 0)
	c.Segments = max(c.Segments, 1)
	c.Jitter = max(c.Jitter, 0)
	c.Branches = max(c.Branches, 0)
	c.BranchSegments = max(c.BranchSegments, 1)
	c.BranchLength = max(c.BranchLength, 0)
	c.DurationMin = max(c.DurationMin, 1)
	c.DurationMax = max(c.DurationMax, c.DurationMin)
	c.RegenEvery = max(c.RegenEvery, 0)
	c.Width = max(c.Width, 0)
	return c
}

// Generator creates and advances bolts of one family
type Generator struct {
	cfg     Config
	rng     *vmath.Rand
	strikes *atomic.Int64
}

// NewGenerator creates a generator, strikes may be nil
func NewGenerator(cfg Config, rng *vmath.Rand, strikes *atomic.Int64) *Generator {
	if strikes == nil {
		strikes = new(atomic.Int64)
	}
	return &Generator{cfg: cfg.Normalized(), rng: rng, strikes: strikes}
}

// Config returns the normalized configuration
func (g *Generator) Config() Config {
	return g.cfg
}

// Strikes returns the total activations
func (g *Generator) Strikes() int64 {
	return g.strikes.Load()
}

// New returns an inactive bolt with a path already laid out inside bounds
func (g *Generator) New(bounds vmath.Bounds) Bolt {
	b := Bolt{Width: g.cfg.Width, Color: g.cfg.Palette.Pick(g.rng)}
	b.Start, b.End = g.endpoints(bounds)
	g.layout(&b)
	return b
}

// Tick advances b by one frame
// Active bolts age, re-jitter every RegenEvery frames and go dark once Elapsed reaches Duration
// Inactive bolts roll for reactivation with fresh endpoints
func (g *Generator) Tick(b *Bolt, bounds vmath.Bounds) {
	if !b.Active {
		if g.rng.Chance(g.cfg.ReactivateChance) {
			b.Start, b.End = g.endpoints(bounds)
			g.Activate(b)
		}
		return
	}
	b.Elapsed++
	if b.Elapsed >= b.Duration {
		b.Active = false
		return
	}
	if g.cfg.RegenEvery > 0 && b.Elapsed%g.cfg.RegenEvery == 0 {
		g.layout(b)
	}
}

// Activate lights b along its current endpoints with a fresh path and lifetime
func (g *Generator) Activate(b *Bolt) {
	g.layout(b)
	b.Color = g.cfg.Palette.Pick(g.rng)
	b.Width = g.cfg.Width
	b.Elapsed = 0
	b.Duration = g.rng.IntRange(g.cfg.DurationMin, g.cfg.DurationMax)
	b.Active = true
	g.strikes.Add(1)
}

func (g *Generator) layout(b *Bolt) {
	b.Points = GeneratePath(b.Start, b.End, g.cfg.Segments, g.cfg.Jitter, g.rng)
	b.Branches = GenerateBranches(b.Points, g.cfg.Branches, g.cfg.BranchSegments, g.cfg.BranchLength, g.cfg.Jitter*0.6, g.rng)
}

// endpoints picks a start and end for the configured family inside bounds
func (g *Generator) endpoints(bounds vmath.Bounds) (vmath.Point, vmath.Point) {
	w, h := bounds.W, bounds.H
	switch g.cfg.Endpoints {
	case EndpointsShard:
		c := bounds.Center()
		reach := g.rng.Range(0.3, 0.5) * math.Min(w, h)
		return c, c.Add(vmath.FromAngle(g.rng.Angle(), reach))
	case EndpointsTendril:
		x := g.rng.Range(w*0.1, w*0.9)
		end := vmath.Pt(vmath.Clamp(x+g.rng.Symmetric(w*0.2), 0, w), g.rng.Range(h*0.2, h*0.6))
		return vmath.Pt(x, h), end
	default:
		x := g.rng.Range(w*0.1, w*0.9)
		end := vmath.Pt(vmath.Clamp(x+g.rng.Symmetric(w*0.25), 0, w), g.rng.Range(h*0.5, h))
		return vmath.Pt(x, 0), end
	}
}
