package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/lixenwraith/cardfx/vmath"
)

// circleSegments controls polygon approximation of circles
const circleSegments = 24

// Raster is an RGBA pixel surface with anti-aliased shape rasterization
// Each shape is rasterized into its clipped bounding box only
type Raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

// NewRaster creates a raster surface of w x h pixels
func NewRaster(w, h int) *Raster {
	r := &Raster{z: vector.NewRasterizer(1, 1)}
	r.Resize(w, h)
	return r
}

// Image exposes the backing image for encoding
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Size implements Surface
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize implements Surface
func (r *Raster) Resize(w, h int) {
	w = max(w, 0)
	h = max(h, 0)
	if r.img != nil {
		if b := r.img.Bounds(); b.Dx() == w && b.Dy() == h {
			r.Clear(RGBBlack)
			return
		}
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Clear implements Surface
func (r *Raster) Clear(bg RGB) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(color.RGBA{bg.R, bg.G, bg.B, 255}), image.Point{}, draw.Src)
}

// At returns the pixel color at x, y
func (r *Raster) At(x, y int) RGB {
	c := r.img.RGBAAt(x, y)
	return RGB{c.R, c.G, c.B}
}

// FillCircle implements Surface
func (r *Raster) FillCircle(c vmath.Point, radius float64, col RGB, alpha float64) {
	if radius <= 0 {
		return
	}
	pts := make([]vmath.Point, circleSegments)
	for i := range pts {
		pts[i] = c.Add(vmath.FromAngle(float64(i)*2*math.Pi/circleSegments, radius))
	}
	r.FillPolygon(pts, col, alpha)
}

// FillRect implements Surface
func (r *Raster) FillRect(x, y, w, h float64, col RGB, alpha float64) {
	if w <= 0 || h <= 0 {
		return
	}
	r.FillPolygon([]vmath.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, col, alpha)
}

// FillPolygon implements Surface
func (r *Raster) FillPolygon(pts []vmath.Point, col RGB, alpha float64) {
	if len(pts) < 3 || alpha <= 0 {
		return
	}
	minX, minY, maxX, maxY := polygonBounds(pts)
	clip := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1).
		Intersect(r.img.Bounds())
	if clip.Empty() {
		return
	}

	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)
	r.z.Reset(clip.Dx(), clip.Dy())
	r.z.DrawOp = draw.Over
	r.z.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	r.z.ClosePath()

	a := uint8(vmath.Clamp01(alpha)*255 + 0.5)
	src := image.NewUniform(color.NRGBA{col.R, col.G, col.B, a})
	r.z.Draw(r.img, clip, src, image.Point{})
}

// StrokePolyline implements Surface
// Each segment is filled as a quad with round caps at every vertex
func (r *Raster) StrokePolyline(pts []vmath.Point, width float64, col RGB, alpha float64) {
	if len(pts) < 2 || width <= 0 || alpha <= 0 {
		return
	}
	half := width / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		l := d.Len()
		if l == 0 {
			continue
		}
		n := vmath.Pt(-d.Y/l*half, d.X/l*half)
		r.FillPolygon([]vmath.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, col, alpha)
	}
	// Joints only for wide strokes, thin ones look identical without them
	if width >= 3 {
		for _, p := range pts[1 : len(pts)-1] {
			r.FillCircle(p, half, col, alpha)
		}
	}
}

// Brighten lifts every pixel toward white by f in [0,1], used for pulse flashes
func (r *Raster) Brighten(f float64) {
	if f <= 0 {
		return
	}
	f = vmath.Clamp01(f)
	pix := r.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = clamp(float64(pix[i]) + (255-float64(pix[i]))*f)
		pix[i+1] = clamp(float64(pix[i+1]) + (255-float64(pix[i+1]))*f)
		pix[i+2] = clamp(float64(pix[i+2]) + (255-float64(pix[i+2]))*f)
	}
}

// Glow paints a halo as concentric fills fading outward
func (r *Raster) Glow(c vmath.Point, radius float64, col RGB, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	const rings = 3
	for i := rings; i >= 1; i-- {
		r.FillCircle(c, radius*float64(i)/rings, col, alpha/rings)
	}
}
