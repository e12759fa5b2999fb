package vmath

// Lerp interpolates a→b by t without clamping
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Bounds is the drawable region in surface pixels with an overscan margin
// Emitters may live in [-Margin, W+Margin] x [-Margin, H+Margin]
type Bounds struct {
	W, H   float64
	Margin float64
}

// NewBounds builds bounds from integer surface dimensions
func NewBounds(w, h int, margin float64) Bounds {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if margin < 0 {
		margin = 0
	}
	return Bounds{W: float64(w), H: float64(h), Margin: margin}
}

// Contains reports whether p lies inside the bounds including margin
func (b Bounds) Contains(p Point) bool {
	return p.X >= -b.Margin && p.X <= b.W+b.Margin &&
		p.Y >= -b.Margin && p.Y <= b.H+b.Margin
}

// Center returns the midpoint of the visible area
func (b Bounds) Center() Point {
	return Point{b.W / 2, b.H / 2}
}

// Empty reports a degenerate surface that has nothing to draw into
func (b Bounds) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// ClampPoint pulls p into the bounds including margin
func (b Bounds) ClampPoint(p Point) Point {
	return Point{
		X: Clamp(p.X, -b.Margin, b.W+b.Margin),
		Y: Clamp(p.Y, -b.Margin, b.H+b.Margin),
	}
}

// Wrap moves a point that left the margin box to the opposite edge
// The result always lies within the margin box
func (b Bounds) Wrap(p Point) Point {
	lo, hiX, hiY := -b.Margin, b.W+b.Margin, b.H+b.Margin
	if p.X < lo {
		p.X = hiX
	} else if p.X > hiX {
		p.X = lo
	}
	if p.Y < lo {
		p.Y = hiY
	} else if p.Y > hiY {
		p.Y = lo
	}
	return p
}
