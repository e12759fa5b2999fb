package particle

import (
	"sync/atomic"

	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

// Field owns the fixed-size emitter pool of one card
type Field struct {
	cfg    Config
	rng    *vmath.Rand
	pool   []Emitter
	resets *atomic.Int64
}

// NewField creates cfg.Count emitters scattered across bounds
// resets may be nil
func NewField(cfg Config, rng *vmath.Rand, bounds vmath.Bounds, resets *atomic.Int64) *Field {
	cfg = cfg.Normalized()
	if resets == nil {
		resets = new(atomic.Int64)
	}
	return &Field{
		cfg:    cfg,
		rng:    rng,
		pool:   CreatePool(cfg.Count, cfg.Factory(), rng, bounds),
		resets: resets,
	}
}

// Step updates then draws every emitter in pool order
func (f *Field) Step(bounds vmath.Bounds, s render.Surface) {
	var reset bool
	var n int64
	for i := range f.pool {
		f.pool[i], reset = step(f.pool[i], bounds, f.cfg, f.rng)
		if reset {
			n++
		}
		Draw(f.pool[i], s, f.cfg.Glow)
	}
	if n > 0 {
		f.resets.Add(n)
	}
}

// Len returns the pool size, constant for the field lifetime
func (f *Field) Len() int {
	return len(f.pool)
}

// Emitters exposes the pool for inspection, callers must not retain it across frames
func (f *Field) Emitters() []Emitter {
	return f.pool
}

// Resets returns the total in-place resets
func (f *Field) Resets() int64 {
	return f.resets.Load()
}

// Config returns the normalized configuration
func (f *Field) Config() Config {
	return f.cfg
}
