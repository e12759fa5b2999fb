package particle

import (
	"math"

	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

// Config parametrises one particle family
type Config struct {
	Count  int
	Policy Policy
	Origin Origin
	Margin float64

	Shapes      []Shape // spawn mix, empty means circles
	RerollShape bool

	Palette          render.Palette
	SizeMin, SizeMax float64

	SpeedMin, SpeedMax float64
	Direction          float64 // radians, 0 points right, π/2 down
	Spread             float64 // full cone in radians, 2π is isotropic
	Gravity            float64 // added to vertical velocity per frame

	LifeMin, LifeMax   int
	AlphaMin, AlphaMax float64

	TwinkleMin, TwinkleMax float64 // radians per frame, both zero disables

	Glow float64
}

// Normalized returns c with degenerate ranges repaired
func (c Config) Normalized() Config {
	c.Count = max(c.Count, 0)
	c.Margin = max(c.Margin, 0)
	c.SizeMin = max(c.SizeMin, 0)
	c.SizeMax = max(c.SizeMax, c.SizeMin)
	c.SpeedMax = max(c.SpeedMax, c.SpeedMin)
	c.LifeMin = max(c.LifeMin, 1)
	c.LifeMax = max(c.LifeMax, c.LifeMin)
	c.AlphaMin = vmath.Clamp01(c.AlphaMin)
	c.AlphaMax = vmath.Clamp01(max(c.AlphaMax, c.AlphaMin))
	c.TwinkleMax = max(c.TwinkleMax, c.TwinkleMin)
	c.Glow = max(c.Glow, 0)
	if c.Spread <= 0 {
		c.Spread = 2 * math.Pi
	}
	return c
}

// Factory produces a fresh randomised emitter inside bounds
type Factory func(bounds vmath.Bounds, rng *vmath.Rand) Emitter

// Factory returns the spawn function for c, initial emitters are scattered across the surface
func (c Config) Factory() Factory {
	return func(bounds vmath.Bounds, rng *vmath.Rand) Emitter {
		return c.spawn(bounds, rng, OriginAnywhere)
	}
}

// respawn places a reset emitter at the configured origin
func (c Config) respawn(bounds vmath.Bounds, rng *vmath.Rand) Emitter {
	return c.spawn(bounds, rng, c.Origin)
}

func (c Config) spawn(bounds vmath.Bounds, rng *vmath.Rand, origin Origin) Emitter {
	var pos vmath.Point
	switch origin {
	case OriginBottom:
		pos = vmath.Pt(rng.Range(0, bounds.W), bounds.H)
	case OriginTop:
		pos = vmath.Pt(rng.Range(0, bounds.W), 0)
	case OriginCenter:
		pos = bounds.Center().Add(vmath.FromAngle(rng.Angle(), rng.Range(0, min(bounds.W, bounds.H)/8)))
	default:
		pos = vmath.Pt(rng.Range(0, bounds.W), rng.Range(0, bounds.H))
	}

	e := Emitter{
		Pos:       pos,
		Vel:       vmath.FromAngle(c.Direction+rng.Symmetric(c.Spread/2), rng.Range(c.SpeedMin, c.SpeedMax)),
		Size:      rng.Range(c.SizeMin, c.SizeMax),
		Color:     c.Palette.Pick(rng),
		BaseAlpha: rng.Range(c.AlphaMin, c.AlphaMax),
		Life:      rng.IntRange(c.LifeMin, c.LifeMax),
		Shape:     ShapeCircle,
	}
	if c.AlphaMax == c.AlphaMin {
		e.BaseAlpha = c.AlphaMax
	}
	e.MaxLife = e.Life
	if c.TwinkleMax > 0 {
		e.TwinkleSpeed = rng.Range(c.TwinkleMin, c.TwinkleMax)
		e.TwinklePhase = rng.Angle()
	}
	if len(c.Shapes) > 0 {
		e.Shape = c.Shapes[rng.Intn(len(c.Shapes))]
	}
	e.Alpha = alphaFor(e)
	return e
}
