package vmath

import "math"

// Point is a float64 2D position or vector in surface space
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p*s
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Len returns vector magnitude
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns euclidean distance between p and q
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// LerpPoint interpolates a→b by t
func LerpPoint(a, b Point, t float64) Point {
	return Point{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}

// FromAngle returns a vector of given length pointing at angle (radians)
func FromAngle(angle, length float64) Point {
	return Point{math.Cos(angle) * length, math.Sin(angle) * length}
}

// PathLength sums segment lengths of a polyline
func PathLength(pts []Point) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Dist(pts[i-1])
	}
	return total
}

// DistToSegment returns the distance from p to segment ab
func DistToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = Clamp(t, 0, 1)
	return p.Dist(a.Add(ab.Scale(t)))
}

// DistToPath returns the minimum distance from p to any segment of a polyline
// Single point paths degrade to point distance, empty paths to +Inf
func DistToPath(p Point, pts []Point) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(pts[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		if d := DistToSegment(p, pts[i-1], pts[i]); d < best {
			best = d
		}
	}
	return best
}
