package render

import (
	"math"

	"github.com/lixenwraith/cardfx/vmath"
)

// QuadrantChars maps a 2x2 sub-cell bitmap to its block glyph
// Bitmap encoding: bit0=UL, bit1=UR, bit2=LL, bit3=LR
var QuadrantChars = [16]rune{
	' ', // 0000
	'▘', // 0001 UL
	'▝', // 0010 UR
	'▀', // 0011 upper half
	'▖', // 0100 LL
	'▌', // 0101 left half
	'▞', // 0110 anti-diagonal
	'▛', // 0111
	'▗', // 1000 LR
	'▚', // 1001 diagonal
	'▐', // 1010 right half
	'▜', // 1011
	'▄', // 1100 lower half
	'▙', // 1101
	'▟', // 1110
	'█', // 1111 full
}

// glowThreshold is the stroke width (sub-pixels) from which strokes tint the cell background
const glowThreshold = 3.0

// Cell is one terminal cell holding four sub-pixels
type Cell struct {
	Quad uint8 // lit sub-pixels
	Fg   RGB
	Bg   RGB
}

// Rune returns the glyph for the lit sub-pixels
func (c Cell) Rune() rune {
	return QuadrantChars[c.Quad&0x0F]
}

// CellBuffer is a terminal surface with 2x2 sub-pixel resolution per cell
// Surface pixels are sub-pixels; a w x h surface spans ceil(w/2) x ceil(h/2) cells
type CellBuffer struct {
	cells      []Cell
	cols, rows int
	w, h       int
}

// NewCellBuffer creates a buffer measured in sub-pixels
func NewCellBuffer(w, h int) *CellBuffer {
	b := &CellBuffer{}
	b.Resize(w, h)
	return b
}

// Size implements Surface, in sub-pixels
func (b *CellBuffer) Size() (int, int) {
	return b.w, b.h
}

// Cols returns width in terminal cells
func (b *CellBuffer) Cols() int { return b.cols }

// Rows returns height in terminal cells
func (b *CellBuffer) Rows() int { return b.rows }

// Resize implements Surface, reallocates only if capacity insufficient
func (b *CellBuffer) Resize(w, h int) {
	b.w = max(w, 0)
	b.h = max(h, 0)
	b.cols = (b.w + 1) / 2
	b.rows = (b.h + 1) / 2
	size := b.cols * b.rows
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.Clear(RGBBlack)
}

// Clear implements Surface using exponential copy
func (b *CellBuffer) Clear(bg RGB) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Fg: RGBBlack, Bg: bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Cell returns the cell at column x, row y
func (b *CellBuffer) Cell(x, y int) (Cell, bool) {
	if x < 0 || y < 0 || x >= b.cols || y >= b.rows {
		return Cell{}, false
	}
	return b.cells[y*b.cols+x], true
}

// Lit counts cells with at least one lit sub-pixel
func (b *CellBuffer) Lit() int {
	n := 0
	for _, c := range b.cells {
		if c.Quad != 0 {
			n++
		}
	}
	return n
}

// plot lights sub-pixel sx, sy and lifts the cell foreground toward col
func (b *CellBuffer) plot(sx, sy int, col RGB, alpha float64) {
	if sx < 0 || sy < 0 || sx >= b.w || sy >= b.h {
		return
	}
	c := &b.cells[(sy/2)*b.cols+sx/2]
	c.Quad |= uint8(1 << ((sy&1)*2 + sx&1))
	c.Fg = Max(c.Fg, col, alpha)
}

// tint adds col to the background of the cell holding sub-pixel sx, sy
func (b *CellBuffer) tint(sx, sy int, col RGB, alpha float64) {
	if sx < 0 || sy < 0 || sx >= b.w || sy >= b.h {
		return
	}
	c := &b.cells[(sy/2)*b.cols+sx/2]
	c.Bg = Screen(c.Bg, col, alpha)
}

// FillCircle implements Surface
// Radius below one sub-pixel still lights the center sub-pixel
func (b *CellBuffer) FillCircle(c vmath.Point, radius float64, col RGB, alpha float64) {
	if alpha <= 0 || radius <= 0 {
		return
	}
	if radius < 1 {
		b.plot(int(math.Floor(c.X)), int(math.Floor(c.Y)), col, alpha)
		return
	}
	r2 := radius * radius
	x0, x1 := int(math.Floor(c.X-radius)), int(math.Ceil(c.X+radius))
	y0, y1 := int(math.Floor(c.Y-radius)), int(math.Ceil(c.Y+radius))
	for y := max(y0, 0); y <= min(y1, b.h-1); y++ {
		for x := max(x0, 0); x <= min(x1, b.w-1); x++ {
			dx, dy := float64(x)+0.5-c.X, float64(y)+0.5-c.Y
			if dx*dx+dy*dy <= r2 {
				b.plot(x, y, col, alpha)
			}
		}
	}
}

// FillRect implements Surface
func (b *CellBuffer) FillRect(x, y, w, h float64, col RGB, alpha float64) {
	if alpha <= 0 || w <= 0 || h <= 0 {
		return
	}
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w))-1, int(math.Ceil(y+h))-1
	for sy := max(y0, 0); sy <= min(y1, b.h-1); sy++ {
		for sx := max(x0, 0); sx <= min(x1, b.w-1); sx++ {
			b.plot(sx, sy, col, alpha)
		}
	}
}

// FillPolygon implements Surface using sub-pixel center sampling
func (b *CellBuffer) FillPolygon(pts []vmath.Point, col RGB, alpha float64) {
	if len(pts) < 3 || alpha <= 0 {
		return
	}
	minX, minY, maxX, maxY := polygonBounds(pts)
	for y := max(int(math.Floor(minY)), 0); y <= min(int(math.Ceil(maxY)), b.h-1); y++ {
		for x := max(int(math.Floor(minX)), 0); x <= min(int(math.Ceil(maxX)), b.w-1); x++ {
			if pointInPolygon(vmath.Pt(float64(x)+0.5, float64(y)+0.5), pts) {
				b.plot(x, y, col, alpha)
			}
		}
	}
}

// StrokePolyline implements Surface
// Wide strokes are glow passes and only tint backgrounds; narrow strokes light sub-pixels
func (b *CellBuffer) StrokePolyline(pts []vmath.Point, width float64, col RGB, alpha float64) {
	if len(pts) < 2 || alpha <= 0 || width <= 0 {
		return
	}
	glow := width >= glowThreshold
	for i := 0; i < len(pts)-1; i++ {
		b.traceSubPixelLine(
			int(math.Floor(pts[i].X)), int(math.Floor(pts[i].Y)),
			int(math.Floor(pts[i+1].X)), int(math.Floor(pts[i+1].Y)),
			col, alpha, glow)
	}
}

// traceSubPixelLine walks a line in sub-pixel space using Bresenham's algorithm
func (b *CellBuffer) traceSubPixelLine(sx0, sy0, sx1, sy1 int, col RGB, alpha float64, glow bool) {
	dx := sx1 - sx0
	if dx < 0 {
		dx = -dx
	}
	dy := sy1 - sy0
	if dy < 0 {
		dy = -dy
	}

	stepX := -1
	if sx0 < sx1 {
		stepX = 1
	}
	stepY := -1
	if sy0 < sy1 {
		stepY = 1
	}

	err := dx - dy

	for {
		if glow {
			b.tint(sx0, sy0, col, alpha)
		} else {
			b.plot(sx0, sy0, col, alpha)
		}

		if sx0 == sx1 && sy0 == sy1 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			sx0 += stepX
		}
		if e2 < dx {
			err += dx
			sy0 += stepY
		}
	}
}

// Brighten lifts every cell toward white by f in [0,1], used for pulse flashes
func (b *CellBuffer) Brighten(f float64) {
	if f <= 0 {
		return
	}
	for i := range b.cells {
		b.cells[i].Fg = Blend(b.cells[i].Fg, RGBWhite, f)
		b.cells[i].Bg = Blend(b.cells[i].Bg, RGBWhite, f*0.5)
	}
}

// Glow tints cell backgrounds within radius without lighting sub-pixels
func (b *CellBuffer) Glow(c vmath.Point, radius float64, col RGB, alpha float64) {
	if alpha <= 0 || radius <= 0 {
		return
	}
	r2 := radius * radius
	// One sample per cell at its center
	for row := max(int(math.Floor((c.Y-radius)/2)), 0); row <= min(int(math.Ceil((c.Y+radius)/2)), b.rows-1); row++ {
		for col0 := max(int(math.Floor((c.X-radius)/2)), 0); col0 <= min(int(math.Ceil((c.X+radius)/2)), b.cols-1); col0++ {
			dx, dy := float64(col0*2+1)-c.X, float64(row*2+1)-c.Y
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			cell := &b.cells[row*b.cols+col0]
			cell.Bg = Add(cell.Bg, col, alpha*(1-d2/r2))
		}
	}
}
