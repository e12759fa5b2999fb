package bolt

import (
	"strings"

	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

// Endpoints selects where bolts of a family start and end
type Endpoints uint8

const (
	// EndpointsStrike runs from the top edge downward
	EndpointsStrike Endpoints = iota
	// EndpointsShard radiates from the center outward
	EndpointsShard
	// EndpointsTendril climbs from the bottom edge upward
	EndpointsTendril
)

var endpointNames = [...]string{"strike", "shard", "tendril"}

func (e Endpoints) String() string {
	if int(e) < len(endpointNames) {
		return endpointNames[e]
	}
	return "unknown"
}

// ParseEndpoints accepts a family name
func ParseEndpoints(name string) (Endpoints, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range endpointNames {
		if s == n {
			return Endpoints(i), true
		}
	}
	return EndpointsStrike, false
}

// Bolt is a jagged polyline with optional branches, persistent for the card lifetime
// Points always holds at least two entries
type Bolt struct {
	Start, End vmath.Point
	Points     []vmath.Point
	Branches   []Branch

	Width float64
	Color render.RGB

	Active   bool
	Elapsed  int // frames since activation
	Duration int // frames
}

const (
	glowScale  = 4.0
	glowAlpha  = 0.18
	crispAlpha = 0.95
	branchFade = 0.65
)

// Draw paints an active bolt: a wide faint glow pass, then a narrow crisp pass
func Draw(b *Bolt, s render.Surface) {
	if !b.Active || len(b.Points) < 2 || b.Width <= 0 {
		return
	}
	// Fade out over the last quarter of the lifetime
	fade := 1.0
	if b.Duration > 0 {
		rest := float64(b.Duration-b.Elapsed) / float64(b.Duration)
		fade = vmath.Clamp01(rest * 4)
	}

	s.StrokePolyline(b.Points, b.Width*glowScale, b.Color, glowAlpha*fade)
	for _, br := range b.Branches {
		s.StrokePolyline(br.Points, b.Width*glowScale*branchFade, b.Color, glowAlpha*branchFade*fade)
	}

	core := render.LerpHCL(b.Color, render.RGBWhite, 0.5)
	s.StrokePolyline(b.Points, b.Width, core, crispAlpha*fade)
	for _, br := range b.Branches {
		s.StrokePolyline(br.Points, b.Width*branchFade, core, crispAlpha*branchFade*fade)
	}
}
