package particle

import (
	"math"
	"strings"

	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

// Shape is the glyph an emitter is drawn as
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeStar
)

var shapeNames = [...]string{"circle", "square", "star"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// ParseShape accepts a shape name, "jagged" is an alias of star
func ParseShape(name string) (Shape, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle", "dot":
		return ShapeCircle, true
	case "square":
		return ShapeSquare, true
	case "star", "jagged":
		return ShapeStar, true
	}
	return ShapeCircle, false
}

// Policy decides what happens to an emitter that drifts past the margin
type Policy uint8

const (
	// PolicyReset re-randomises the emitter
	PolicyReset Policy = iota
	// PolicyWrap moves the emitter to the opposite edge
	PolicyWrap
)

func (p Policy) String() string {
	if p == PolicyWrap {
		return "wrap"
	}
	return "reset"
}

// ParsePolicy accepts "wrap" or "reset"
func ParsePolicy(name string) (Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wrap":
		return PolicyWrap, true
	case "reset":
		return PolicyReset, true
	}
	return PolicyReset, false
}

// Origin is where a reset emitter respawns
type Origin uint8

const (
	OriginAnywhere Origin = iota
	OriginBottom
	OriginTop
	OriginCenter
)

var originNames = [...]string{"anywhere", "bottom", "top", "center"}

func (o Origin) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}
	return "unknown"
}

// ParseOrigin accepts an origin name
func ParseOrigin(name string) (Origin, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range originNames {
		if s == n {
			return Origin(i), true
		}
	}
	return OriginAnywhere, false
}

// Emitter is one particle of a field, positions are in surface pixels and lifetimes in frames
type Emitter struct {
	Pos  vmath.Point
	Vel  vmath.Point
	Size float64

	Color     render.RGB
	BaseAlpha float64
	Alpha     float64

	TwinkleSpeed float64 // radians per frame, zero disables
	TwinklePhase float64

	Life    int
	MaxLife int

	Shape Shape
}

// Draw paints e onto s with its current alpha
// glow is the halo radius as a multiple of Size, zero disables the halo
func Draw(e Emitter, s render.Surface, glow float64) {
	if e.Alpha <= 0 || e.Size <= 0 {
		return
	}
	if glow > 0 {
		render.GlowCircle(s, e.Pos, e.Size*glow, e.Color, e.Alpha*0.25)
	}
	switch e.Shape {
	case ShapeSquare:
		s.FillRect(e.Pos.X-e.Size, e.Pos.Y-e.Size, e.Size*2, e.Size*2, e.Color, e.Alpha)
	case ShapeStar:
		s.FillPolygon(render.StarPoints(e.Pos, e.Size*1.6, 5, 0.45, e.TwinklePhase), e.Color, e.Alpha)
	default:
		s.FillCircle(e.Pos, e.Size, e.Color, e.Alpha)
	}
}

// alphaFor recomputes alpha from lifetime or the twinkle oscillation
func alphaFor(e Emitter) float64 {
	if e.TwinkleSpeed != 0 {
		return vmath.Clamp01(e.BaseAlpha * (0.55 + 0.45*math.Sin(e.TwinklePhase)))
	}
	if e.MaxLife <= 0 {
		return vmath.Clamp01(e.BaseAlpha)
	}
	return vmath.Clamp01(e.BaseAlpha * float64(e.Life) / float64(e.MaxLife))
}
