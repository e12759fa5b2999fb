package vmath

import (
	"math"
	"testing"
)

func TestRandDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("Expected equal sequences, diverged at %d: %d vs %d", i, x, y)
		}
	}
}

func TestRandZeroSeed(t *testing.T) {
	if NewRand(0).Next() != NewRand(1).Next() {
		t.Error("Expected zero seed to behave like seed 1")
	}
	if NewRand(0).Next() == 0 {
		t.Error("Expected zero seed to escape the xorshift fixed point")
	}
}

func TestRandRanges(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 2000; i++ {
		if v := r.Intn(5); v < 0 || v >= 5 {
			t.Fatalf("Intn out of range: %d", v)
		}
		if v := r.IntRange(2, 4); v < 2 || v > 4 {
			t.Fatalf("IntRange out of range: %d", v)
		}
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("Float64 out of range: %f", v)
		}
		if v := r.Range(-3, 3); v < -3 || v >= 3 {
			t.Fatalf("Range out of range: %f", v)
		}
		if v := r.Symmetric(2); v < -2 || v > 2 {
			t.Fatalf("Symmetric out of range: %f", v)
		}
		if v := r.Angle(); v < 0 || v >= 2*math.Pi {
			t.Fatalf("Angle out of range: %f", v)
		}
	}
}

func TestRandDegenerateRanges(t *testing.T) {
	r := NewRand(3)
	if r.Intn(0) != 0 || r.Intn(-4) != 0 {
		t.Error("Expected 0 for non-positive Intn")
	}
	if r.IntRange(5, 5) != 5 || r.IntRange(5, 1) != 5 {
		t.Error("Expected lo for empty IntRange")
	}
	if r.Range(2, 2) != 2 {
		t.Error("Expected lo for empty Range")
	}
	if r.Symmetric(0) != 0 {
		t.Error("Expected 0 for zero magnitude")
	}
	for i := 0; i < 100; i++ {
		if r.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !r.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}

func TestBounds(t *testing.T) {
	b := NewBounds(100, 50, 5)
	if !b.Contains(Pt(-5, 55)) {
		t.Error("Expected margin corner to be contained")
	}
	if b.Contains(Pt(-5.1, 10)) {
		t.Error("Expected point past margin to be outside")
	}
	if c := b.Center(); c != Pt(50, 25) {
		t.Errorf("Expected center (50,25), got %v", c)
	}
	if got := b.ClampPoint(Pt(-20, 80)); got != Pt(-5, 55) {
		t.Errorf("Expected (-5,55), got %v", got)
	}

	neg := NewBounds(-3, 10, -1)
	if neg.W != 0 || neg.Margin != 0 {
		t.Errorf("Expected negative inputs clamped, got %+v", neg)
	}
	if !neg.Empty() {
		t.Error("Expected zero width bounds to be empty")
	}
	if b.Empty() {
		t.Error("Expected 100x50 bounds to be non-empty")
	}
}

func TestBoundsWrap(t *testing.T) {
	b := NewBounds(100, 50, 5)
	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"inside", Pt(10, 10), Pt(10, 10)},
		{"left", Pt(-6, 10), Pt(105, 10)},
		{"right", Pt(106, 10), Pt(-5, 10)},
		{"top", Pt(10, -6), Pt(10, 55)},
		{"bottom corner", Pt(106, 60), Pt(-5, -5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Wrap(tt.in)
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if !b.Contains(got) {
				t.Errorf("Expected wrapped point inside bounds, got %v", got)
			}
		})
	}
}

func TestDistances(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	if d := DistToSegment(Pt(5, 5), a, b); d != 5 {
		t.Errorf("Expected 5, got %f", d)
	}
	if d := DistToSegment(Pt(15, 0), a, b); d != 5 {
		t.Errorf("Expected 5 past the end, got %f", d)
	}
	if d := DistToSegment(Pt(3, 4), a, a); d != 5 {
		t.Errorf("Expected point distance for zero segment, got %f", d)
	}

	path := []Point{Pt(0, 0), Pt(3, 4), Pt(3, 10)}
	if l := PathLength(path); l != 11 {
		t.Errorf("Expected length 11, got %f", l)
	}
	if d := DistToPath(Pt(5, 8), path); d != 2 {
		t.Errorf("Expected 2, got %f", d)
	}
	if d := DistToPath(Pt(1, 1), nil); !math.IsInf(d, 1) {
		t.Errorf("Expected +Inf for empty path, got %f", d)
	}
	if d := DistToPath(Pt(3, 4), []Point{Pt(0, 0)}); d != 5 {
		t.Errorf("Expected 5 for single point path, got %f", d)
	}
}

func TestVectorHelpers(t *testing.T) {
	if got := LerpPoint(Pt(0, 0), Pt(10, 20), 0.5); got != Pt(5, 10) {
		t.Errorf("Expected (5,10), got %v", got)
	}
	v := FromAngle(math.Pi/2, 3)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-3) > 1e-9 {
		t.Errorf("Expected (0,3), got %v", v)
	}
	if Clamp01(1.5) != 1 || Clamp01(-1) != 0 || Clamp(5, 0, 10) != 5 {
		t.Error("Clamp returned unexpected values")
	}
}
