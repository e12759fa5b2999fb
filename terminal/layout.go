package terminal

// Rect is a cell-space rectangle
type Rect struct {
	X, Y, W, H int
}

// Empty reports a rectangle with no area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Grid describes how panels are arranged
type Grid struct {
	Columns int  // fixed column count, zero derives from MinCols
	MinCols int  // minimum panel width in cells when deriving columns
	Titles  bool // reserve one row above each panel for its title
	Gap     int  // cells between panels
}

// Slot pairs the outer frame of a grid slot with its drawable content area
type Slot struct {
	Frame   Rect
	Content Rect
	Title   Rect
}

// Layout splits a w x h screen into n slots in row-major order
// Slots that do not fit get empty rectangles
func (g Grid) Layout(w, h, n int) []Slot {
	slots := make([]Slot, n)
	if n <= 0 || w <= 0 || h <= 0 {
		return slots
	}

	cols := g.Columns
	if cols <= 0 {
		cols = max(1, w/max(g.MinCols, 1))
	}
	cols = min(cols, n)
	rows := (n + cols - 1) / cols

	gap := max(g.Gap, 0)
	slotW := (w - gap*(cols-1)) / cols
	slotH := (h - gap*(rows-1)) / rows

	for i := range slots {
		col, row := i%cols, i/cols
		frame := Rect{X: col * (slotW + gap), Y: row * (slotH + gap), W: slotW, H: slotH}
		if frame.W <= 0 || frame.H <= 0 {
			continue
		}
		s := Slot{Frame: frame, Content: frame}
		if g.Titles && frame.H > 1 {
			s.Title = Rect{X: frame.X, Y: frame.Y, W: frame.W, H: 1}
			s.Content = Rect{X: frame.X, Y: frame.Y + 1, W: frame.W, H: frame.H - 1}
		}
		slots[i] = s
	}
	return slots
}
