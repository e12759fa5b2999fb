package render

import (
	"math"

	"github.com/lixenwraith/cardfx/vmath"
)

// Surface is the per-card drawing target, the canvas analogue
// Coordinates are surface pixels; shapes partially or fully outside are clipped
// Implementations are owned by a single card and not safe for concurrent use
type Surface interface {
	// Size returns current pixel dimensions
	Size() (w, h int)
	// Resize changes pixel dimensions and clears content
	Resize(w, h int)
	// Clear fills the whole surface with bg
	Clear(bg RGB)

	FillCircle(c vmath.Point, radius float64, col RGB, alpha float64)
	FillRect(x, y, w, h float64, col RGB, alpha float64)
	FillPolygon(pts []vmath.Point, col RGB, alpha float64)
	StrokePolyline(pts []vmath.Point, width float64, col RGB, alpha float64)
}

// StarPoints builds a closed star outline with the given number of spikes
// inner is the inner radius as a fraction of radius
func StarPoints(c vmath.Point, radius float64, spikes int, inner, rotation float64) []vmath.Point {
	if spikes < 2 {
		spikes = 2
	}
	pts := make([]vmath.Point, 0, spikes*2)
	step := math.Pi / float64(spikes)
	for i := 0; i < spikes*2; i++ {
		r := radius
		if i%2 == 1 {
			r = radius * inner
		}
		pts = append(pts, c.Add(vmath.FromAngle(rotation+float64(i)*step, r)))
	}
	return pts
}

// pointInPolygon is the even-odd rule test
func pointInPolygon(p vmath.Point, pts []vmath.Point) bool {
	inside := false
	j := len(pts) - 1
	for i := 0; i < len(pts); i++ {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// polygonBounds returns the axis-aligned bounding box of pts
func polygonBounds(pts []vmath.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return
}

// Brightener is implemented by surfaces that can apply a whole-surface flash
type Brightener interface {
	Brighten(f float64)
}

// Glower is implemented by surfaces with a dedicated soft-light pass
// Callers fall back to a low-alpha FillCircle when absent
type Glower interface {
	Glow(c vmath.Point, radius float64, col RGB, alpha float64)
}

// GlowCircle paints a soft halo on s, through Glower when available
func GlowCircle(s Surface, c vmath.Point, radius float64, col RGB, alpha float64) {
	if g, ok := s.(Glower); ok {
		g.Glow(c, radius, col, alpha)
		return
	}
	s.FillCircle(c, radius, col, alpha)
}
