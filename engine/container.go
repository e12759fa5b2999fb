package engine

import "reflect"

// Container is the layout box a card surface mirrors
// ok is false when the container currently has no layout (detached, zero area host)
type Container interface {
	Bounds() (w, h int, ok bool)
}

// Box is a settable container in surface pixels
type Box struct {
	W, H int
}

// NewBox creates a box of w x h pixels
func NewBox(w, h int) *Box {
	return &Box{W: w, H: h}
}

// Bounds implements Container, a nil box has no layout
func (b *Box) Bounds() (int, int, bool) {
	if b == nil {
		return 0, 0, false
	}
	return b.W, b.H, true
}

// SetSize changes the layout box, callers notify the loop through Resize
func (b *Box) SetSize(w, h int) {
	b.W, b.H = w, h
}

// isNil catches typed nil pointers stored in interfaces
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
