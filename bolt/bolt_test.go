package bolt

import (
	"slices"
	"testing"

	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

func TestGeneratePathShape(t *testing.T) {
	rng := vmath.NewRand(11)
	start, end := vmath.Pt(3, 4), vmath.Pt(97, 51)
	tests := []struct {
		segments int
		want     int
	}{
		{-3, 2},
		{0, 2},
		{1, 2},
		{2, 3},
		{12, 13},
	}
	for _, tc := range tests {
		pts := GeneratePath(start, end, tc.segments, 8, rng)
		if len(pts) != tc.want {
			t.Errorf("segments=%d: expected %d points, got %d", tc.segments, tc.want, len(pts))
			continue
		}
		if pts[0] != start || pts[len(pts)-1] != end {
			t.Errorf("segments=%d: expected exact endpoints, got %v .. %v", tc.segments, pts[0], pts[len(pts)-1])
		}
	}
}

func TestGeneratePathJitterBounded(t *testing.T) {
	rng := vmath.NewRand(5)
	start, end := vmath.Pt(0, 0), vmath.Pt(100, 0)
	const jitter = 4.0
	pts := GeneratePath(start, end, 10, jitter, rng)
	for i := 1; i < len(pts)-1; i++ {
		base := vmath.LerpPoint(start, end, float64(i)/10)
		if dx := pts[i].X - base.X; dx < -jitter || dx > jitter {
			t.Errorf("Point %d x offset %v exceeds jitter", i, dx)
		}
		if dy := pts[i].Y - base.Y; dy < -jitter || dy > jitter {
			t.Errorf("Point %d y offset %v exceeds jitter", i, dy)
		}
	}
}

func TestZeroLengthPath(t *testing.T) {
	p := vmath.Pt(5, 5)
	pts := GeneratePath(p, p, 4, 0, vmath.NewRand(1))
	if len(pts) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(pts))
	}
	for _, q := range pts {
		if q != p {
			t.Errorf("Expected all points at %v, got %v", p, q)
		}
	}
}

func TestBranchAnchorsInterior(t *testing.T) {
	rng := vmath.NewRand(23)
	for trial := 0; trial < 200; trial++ {
		path := GeneratePath(vmath.Pt(0, 0), vmath.Pt(80, 60), 2+trial%10, 5, rng)
		branches := GenerateBranches(path, 4, 3, 0.3, 4, rng)
		if len(branches) != 4 {
			t.Fatalf("Expected 4 branches, got %d", len(branches))
		}
		for _, b := range branches {
			if b.Anchor <= 0 || b.Anchor >= len(path)-1 {
				t.Fatalf("Anchor %d not interior to path of %d points", b.Anchor, len(path))
			}
			if b.Points[0] != path[b.Anchor] {
				t.Errorf("Expected branch to start at its anchor point")
			}
		}
	}
}

func TestShortPathHasNoBranches(t *testing.T) {
	path := []vmath.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}
	if got := GenerateBranches(path, 3, 2, 0.5, 1, vmath.NewRand(1)); len(got) != 0 {
		t.Errorf("Expected no branches, got %d", len(got))
	}
}

func testConfig() Config {
	return Config{
		Count:          4,
		Endpoints:      EndpointsStrike,
		Segments:       8,
		Jitter:         6,
		Branches:       2,
		BranchSegments: 3,
		BranchLength:   0.3,
		DurationMin:    5,
		DurationMax:    12,
		RegenEvery:     2,
		Width:          1,
		Palette:        render.Palette{HueMin: 200, HueMax: 220, Saturation: 0.8, LightMin: 0.7, LightMax: 0.9},
	}
}

func TestActivatedBoltExpires(t *testing.T) {
	cfg := testConfig()
	rng := vmath.NewRand(8)
	bounds := vmath.NewBounds(100, 60, 0)
	gen := NewGenerator(cfg, rng, nil)
	b := gen.New(bounds)

	gen.Activate(&b)
	d := b.Duration
	if d < cfg.DurationMin || d > cfg.DurationMax {
		t.Fatalf("Duration %d outside configured range", d)
	}
	for f := 1; f <= d; f++ {
		if !b.Active {
			t.Fatalf("Expected active before frame %d", d)
		}
		gen.Tick(&b, bounds)
	}
	if b.Active {
		t.Errorf("Expected inactive after %d frames", d)
	}
	for i := 0; i < 50; i++ {
		gen.Tick(&b, bounds)
	}
	if b.Active {
		t.Error("Expected no reactivation with zero chance")
	}
	if gen.Strikes() != 1 {
		t.Errorf("Expected 1 strike, got %d", gen.Strikes())
	}
}

func TestRegenCadence(t *testing.T) {
	bounds := vmath.NewBounds(100, 60, 0)
	for _, every := range []int{3, 0} {
		cfg := testConfig()
		cfg.RegenEvery = every
		cfg.DurationMin, cfg.DurationMax = 20, 20
		gen := NewGenerator(cfg, vmath.NewRand(5), nil)
		b := gen.New(bounds)
		gen.Activate(&b)
		first := slices.Clone(b.Points)

		prev := slices.Clone(b.Points)
		for b.Elapsed < b.Duration-1 {
			gen.Tick(&b, bounds)
			changed := !slices.Equal(prev, b.Points)
			want := every > 0 && b.Elapsed%every == 0
			if changed != want {
				t.Errorf("RegenEvery %d frame %d: expected path changed=%v, got %v", every, b.Elapsed, want, changed)
			}
			prev = slices.Clone(b.Points)
		}
		if !b.Active {
			t.Fatalf("RegenEvery %d: expected active until the last frame", every)
		}
		if every == 0 && !slices.Equal(first, b.Points) {
			t.Error("Expected zero RegenEvery to keep the path for the whole activation")
		}
	}
}

func TestReactivationPicksEndpointsInBounds(t *testing.T) {
	cfg := testConfig()
	cfg.ReactivateChance = 1
	bounds := vmath.NewBounds(100, 60, 0)
	for _, ep := range []Endpoints{EndpointsStrike, EndpointsShard, EndpointsTendril} {
		cfg.Endpoints = ep
		gen := NewGenerator(cfg, vmath.NewRand(31), nil)
		b := gen.New(bounds)
		gen.Tick(&b, bounds)
		if !b.Active {
			t.Fatalf("%v: expected reactivation", ep)
		}
		if !bounds.Contains(b.Start) {
			t.Errorf("%v: start %v outside bounds", ep, b.Start)
		}
		if len(b.Points) != cfg.Segments+1 {
			t.Errorf("%v: expected %d points, got %d", ep, cfg.Segments+1, len(b.Points))
		}
	}
}

func TestDrawInactiveIsNoop(t *testing.T) {
	s := render.NewCellBuffer(40, 40)
	b := Bolt{Points: []vmath.Point{{X: 0, Y: 0}, {X: 39, Y: 39}}, Width: 1, Color: render.RGBWhite}
	Draw(&b, s)
	if s.Lit() != 0 {
		t.Error("Expected inactive bolt to draw nothing")
	}
	b.Active, b.Duration = true, 10
	Draw(&b, s)
	if s.Lit() == 0 {
		t.Error("Expected active bolt to light cells")
	}
}

func TestSetActivateWithin(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 6
	cfg.Endpoints = EndpointsShard
	bounds := vmath.NewBounds(100, 100, 0)
	s := NewSet(cfg, vmath.NewRand(4), bounds, nil)
	if s.ActiveCount() != 0 {
		t.Fatalf("Expected all bolts dark initially, got %d", s.ActiveCount())
	}

	// Shards all start at the center
	n := s.ActivateWithin(bounds.Center(), 1)
	if n != cfg.Count || s.ActiveCount() != cfg.Count {
		t.Errorf("Expected %d activated, got %d (active %d)", cfg.Count, n, s.ActiveCount())
	}
	if got := s.ActivateWithin(vmath.Pt(-1000, -1000), 5); got != 0 {
		t.Errorf("Expected none activated far away, got %d", got)
	}

	surface := render.NewCellBuffer(100, 100)
	for i := 0; i < cfg.DurationMax; i++ {
		surface.Clear(render.RGBBlack)
		s.Step(bounds, surface)
	}
	if s.ActiveCount() != 0 {
		t.Errorf("Expected all bolts expired, got %d active", s.ActiveCount())
	}
}
