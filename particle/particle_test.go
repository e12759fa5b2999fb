package particle

import (
	"math"
	"testing"

	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

func testConfig(policy Policy) Config {
	return Config{
		Count:      40,
		Policy:     policy,
		Margin:     6,
		Shapes:     []Shape{ShapeCircle, ShapeSquare, ShapeStar},
		Palette:    render.Palette{HueMin: 180, HueMax: 240, Saturation: 0.7, LightMin: 0.5, LightMax: 0.8},
		SizeMin:    0.5,
		SizeMax:    2,
		SpeedMin:   0.5,
		SpeedMax:   4,
		LifeMin:    20,
		LifeMax:    90,
		AlphaMin:   0.3,
		AlphaMax:   1,
		TwinkleMin: 0.05,
		TwinkleMax: 0.3,
		Glow:       2,
	}
}

func TestPoolSizeConstant(t *testing.T) {
	for _, n := range []int{0, 1, 7, 64} {
		cfg := testConfig(PolicyReset)
		cfg.Count = n
		bounds := vmath.NewBounds(80, 40, cfg.Margin)
		f := NewField(cfg, vmath.NewRand(uint64(n)+3), bounds, nil)
		surface := render.NewCellBuffer(80, 40)
		for frame := 0; frame < 300; frame++ {
			f.Step(bounds, surface)
		}
		if f.Len() != n {
			t.Errorf("Expected pool size %d, got %d", n, f.Len())
		}
	}
}

func TestNegativeCountYieldsEmptyPool(t *testing.T) {
	pool := CreatePool(-5, testConfig(PolicyReset).Factory(), vmath.NewRand(1), vmath.NewBounds(10, 10, 0))
	if len(pool) != 0 {
		t.Errorf("Expected empty pool, got %d", len(pool))
	}
}

func TestUpdateStaysInBounds(t *testing.T) {
	for _, policy := range []Policy{PolicyWrap, PolicyReset} {
		t.Run(policy.String(), func(t *testing.T) {
			cfg := testConfig(policy).Normalized()
			cfg.SpeedMax = 25
			cfg.Gravity = 0.3
			rng := vmath.NewRand(42)
			bounds := vmath.NewBounds(120, 60, cfg.Margin)
			pool := CreatePool(cfg.Count, cfg.Factory(), rng, bounds)
			for frame := 0; frame < 500; frame++ {
				for i := range pool {
					pool[i] = Update(pool[i], bounds, cfg, rng)
					if !bounds.Contains(pool[i].Pos) {
						t.Fatalf("Frame %d: emitter %d at %v outside bounds", frame, i, pool[i].Pos)
					}
				}
			}
		})
	}
}

func TestWrapReentersOppositeEdge(t *testing.T) {
	cfg := testConfig(PolicyWrap).Normalized()
	cfg.LifeMin, cfg.LifeMax = 1000, 1000
	bounds := vmath.NewBounds(100, 100, 5)
	e := Emitter{Pos: vmath.Pt(104, 50), Vel: vmath.Pt(3, 0), Life: 100, MaxLife: 100, BaseAlpha: 1}

	got := Update(e, bounds, cfg, vmath.NewRand(1))
	if got.Pos.X != -5 {
		t.Errorf("Expected x=-5 after wrap, got %v", got.Pos.X)
	}
	if got.Life != 99 {
		t.Errorf("Expected wrap to keep lifetime, got %d", got.Life)
	}
}

func TestResetKeepsShapeUnlessRerolled(t *testing.T) {
	bounds := vmath.NewBounds(50, 50, 0)
	e := Emitter{Pos: vmath.Pt(10, 10), Life: 1, MaxLife: 10, Shape: ShapeStar}

	cfg := testConfig(PolicyReset).Normalized()
	cfg.Shapes = []Shape{ShapeSquare}
	if got := Update(e, bounds, cfg, vmath.NewRand(9)); got.Shape != ShapeStar {
		t.Errorf("Expected shape kept, got %v", got.Shape)
	}

	cfg.RerollShape = true
	if got := Update(e, bounds, cfg, vmath.NewRand(9)); got.Shape != ShapeSquare {
		t.Errorf("Expected shape rerolled to square, got %v", got.Shape)
	}
}

func TestAlphaAlwaysInUnitRange(t *testing.T) {
	cfg := testConfig(PolicyReset)
	cfg.AlphaMin, cfg.AlphaMax = 0.5, 3
	cfg = cfg.Normalized()
	rng := vmath.NewRand(7)
	bounds := vmath.NewBounds(60, 60, 4)
	pool := CreatePool(cfg.Count, cfg.Factory(), rng, bounds)
	for frame := 0; frame < 400; frame++ {
		for i := range pool {
			pool[i] = Update(pool[i], bounds, cfg, rng)
			if a := pool[i].Alpha; a < 0 || a > 1 || math.IsNaN(a) {
				t.Fatalf("Frame %d: alpha %v out of range", frame, a)
			}
		}
	}

	// Hand-built emitter with an out-of-range base alpha
	e := Emitter{BaseAlpha: 5, Life: 10, MaxLife: 2, TwinkleSpeed: 0}
	e = Update(e, bounds, cfg, rng)
	if e.Alpha > 1 {
		t.Errorf("Expected clamped alpha, got %v", e.Alpha)
	}
}

func TestLifetimeDecreasesUntilReset(t *testing.T) {
	cfg := testConfig(PolicyWrap).Normalized()
	bounds := vmath.NewBounds(100, 100, 10)
	e := Emitter{Pos: vmath.Pt(50, 50), Life: 5, MaxLife: 5, BaseAlpha: 1}
	rng := vmath.NewRand(3)
	for want := 4; want > 0; want-- {
		e = Update(e, bounds, cfg, rng)
		if e.Life != want {
			t.Fatalf("Expected life %d, got %d", want, e.Life)
		}
	}
	e = Update(e, bounds, cfg, rng)
	if e.Life < cfg.LifeMin {
		t.Errorf("Expected respawned lifetime >= %d, got %d", cfg.LifeMin, e.Life)
	}
}

func TestFieldCountsResets(t *testing.T) {
	cfg := testConfig(PolicyReset)
	cfg.LifeMin, cfg.LifeMax = 1, 1
	cfg.Count = 10
	bounds := vmath.NewBounds(40, 40, 2)
	f := NewField(cfg, vmath.NewRand(5), bounds, nil)
	f.Step(bounds, render.NewCellBuffer(40, 40))
	if f.Resets() != 10 {
		t.Errorf("Expected 10 resets, got %d", f.Resets())
	}
}

func TestDrawPaintsSurface(t *testing.T) {
	s := render.NewCellBuffer(20, 20)
	for _, shape := range []Shape{ShapeCircle, ShapeSquare, ShapeStar} {
		s.Clear(render.RGBBlack)
		Draw(Emitter{Pos: vmath.Pt(10, 10), Size: 3, Color: render.RGBWhite, Alpha: 1, Shape: shape}, s, 0)
		if s.Lit() == 0 {
			t.Errorf("Expected %v to light cells", shape)
		}
	}

	s.Clear(render.RGBBlack)
	Draw(Emitter{Pos: vmath.Pt(10, 10), Size: 3, Color: render.RGBWhite, Alpha: 0}, s, 2)
	if s.Lit() != 0 {
		t.Error("Expected transparent emitter to draw nothing")
	}
}

func TestParseNames(t *testing.T) {
	if s, ok := ParseShape("jagged"); !ok || s != ShapeStar {
		t.Errorf("Expected jagged to parse as star, got %v %v", s, ok)
	}
	if p, ok := ParsePolicy("WRAP"); !ok || p != PolicyWrap {
		t.Errorf("Expected wrap, got %v %v", p, ok)
	}
	if o, ok := ParseOrigin("bottom"); !ok || o != OriginBottom {
		t.Errorf("Expected bottom, got %v %v", o, ok)
	}
	if _, ok := ParseShape("hexagon"); ok {
		t.Error("Expected unknown shape to fail")
	}
}
