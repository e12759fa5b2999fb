package particle

import "github.com/lixenwraith/cardfx/vmath"

// CreatePool builds n emitters from factory, a negative n yields an empty pool
func CreatePool(n int, factory Factory, rng *vmath.Rand, bounds vmath.Bounds) []Emitter {
	n = max(n, 0)
	pool := make([]Emitter, n)
	for i := range pool {
		pool[i] = factory(bounds, rng)
		pool[i].Pos = bounds.ClampPoint(pool[i].Pos)
	}
	return pool
}

// Update advances e by one frame and returns the new state
// Position stays within bounds plus margin, alpha within [0,1]
func Update(e Emitter, bounds vmath.Bounds, cfg Config, rng *vmath.Rand) Emitter {
	e, _ = step(e, bounds, cfg, rng)
	return e
}

// step is Update reporting whether the emitter was reset
func step(e Emitter, bounds vmath.Bounds, cfg Config, rng *vmath.Rand) (Emitter, bool) {
	e.Vel.Y += cfg.Gravity
	e.Pos = e.Pos.Add(e.Vel)
	e.Life--
	if e.TwinkleSpeed != 0 {
		e.TwinklePhase += e.TwinkleSpeed
	}
	e.Alpha = alphaFor(e)

	switch {
	case e.Life <= 0:
		return reset(e, bounds, cfg, rng), true
	case !bounds.Contains(e.Pos):
		if cfg.Policy == PolicyWrap {
			e.Pos = bounds.Wrap(e.Pos)
			return e, false
		}
		return reset(e, bounds, cfg, rng), true
	}
	return e, false
}

// reset replaces e in place with a respawned emitter, keeping its shape unless rerolled
func reset(e Emitter, bounds vmath.Bounds, cfg Config, rng *vmath.Rand) Emitter {
	n := cfg.respawn(bounds, rng)
	if !cfg.RerollShape {
		n.Shape = e.Shape
	}
	n.Pos = bounds.ClampPoint(n.Pos)
	return n
}
