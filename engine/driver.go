package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/core"
	"github.com/lixenwraith/cardfx/render"
)

// Driver owns the redraw loop, surface sizing and every scheduled handle of one card
// Nothing here reports errors: a missing handle or a panicking frame disables the animation only
type Driver struct {
	loop *Loop
	log  zerolog.Logger

	container Container
	surface   render.Surface
	attached  bool

	frameFn FrameFunc
	frameID FrameID
	running bool
	frames  uint64

	resizeID   ListenerID
	resizeFn   func(w, h int)
	subscribed bool

	timers map[TimerID]struct{}
}

// NewDriver creates a driver scheduling on loop
func NewDriver(loop *Loop, log zerolog.Logger) *Driver {
	return &Driver{
		loop:   loop,
		log:    log,
		timers: make(map[TimerID]struct{}),
	}
}

// Attach measures container and sizes surface to match
// Returns false and leaves the driver inert when either handle is absent
func (d *Driver) Attach(container Container, surface render.Surface) bool {
	if d == nil || d.loop == nil || isNil(container) || isNil(surface) {
		if d != nil {
			d.log.Debug().Msg("attach skipped: missing container or surface")
		}
		return false
	}
	d.container = container
	d.surface = surface
	if !d.measure() {
		d.log.Debug().Msg("attach skipped: container has no layout box")
		d.container, d.surface = nil, nil
		return false
	}
	d.attached = true
	return true
}

// measure mirrors the container layout box onto the surface
func (d *Driver) measure() bool {
	w, h, ok := d.container.Bounds()
	if !ok {
		return false
	}
	if sw, sh := d.surface.Size(); sw != w || sh != h {
		d.surface.Resize(w, h)
	}
	return true
}

// Attached reports whether Attach succeeded and teardown has not run
func (d *Driver) Attached() bool {
	return d.attached
}

// Surface returns the attached surface, nil when detached
func (d *Driver) Surface() render.Surface {
	return d.surface
}

// Start invokes fn once per loop frame until Stop
// No-op when detached or already running
func (d *Driver) Start(fn FrameFunc) {
	if !d.attached || d.running || fn == nil {
		return
	}
	d.frameFn = fn
	d.running = true
	d.frameID = d.loop.RequestFrame(d.step)
}

func (d *Driver) step(now time.Time) {
	if !d.running {
		return
	}
	d.frames++
	if r := core.Recover(func() { d.frameFn(now) }); r != nil {
		d.log.Error().Interface("panic", r).Uint64("frame", d.frames).Msg("frame callback panicked, animation disabled")
		d.Teardown()
		return
	}
	// fn may have stopped the driver
	if d.running {
		d.frameID = d.loop.RequestFrame(d.step)
	}
}

// Stop cancels the pending frame request, idempotent
func (d *Driver) Stop() {
	if !d.running {
		return
	}
	d.running = false
	d.loop.CancelFrame(d.frameID)
	d.frameID = 0
}

// Running reports whether frames are being requested
func (d *Driver) Running() bool {
	return d.running
}

// Frames returns frames delivered to the callback
func (d *Driver) Frames() uint64 {
	return d.frames
}

// OnResize subscribes to host resizes; the surface is re-measured before handler runs
// Subscribing again replaces the handler
func (d *Driver) OnResize(handler func(w, h int)) {
	if !d.attached {
		return
	}
	d.resizeFn = handler
	if d.subscribed {
		return
	}
	d.resizeID = d.loop.AddResizeListener(d.handleResize)
	d.subscribed = true
}

func (d *Driver) handleResize(_, _ int) {
	if !d.attached || !d.measure() {
		return
	}
	if d.resizeFn != nil {
		w, h := d.surface.Size()
		d.resizeFn(w, h)
	}
}

// OffResize removes the resize subscription, idempotent
func (d *Driver) OffResize() {
	if !d.subscribed {
		return
	}
	d.loop.RemoveResizeListener(d.resizeID)
	d.subscribed = false
	d.resizeFn = nil
}

// Every schedules fn on an interval owned by this driver
func (d *Driver) Every(interval time.Duration, fn func(now time.Time)) TimerID {
	if !d.attached {
		return 0
	}
	id := d.loop.SetInterval(interval, fn)
	d.timers[id] = struct{}{}
	return id
}

// After schedules fn once, owned by this driver until it fires
func (d *Driver) After(delay time.Duration, fn func(now time.Time)) TimerID {
	if !d.attached {
		return 0
	}
	var id TimerID
	id = d.loop.SetTimeout(delay, func(now time.Time) {
		delete(d.timers, id)
		fn(now)
	})
	d.timers[id] = struct{}{}
	return id
}

// Cancel clears a timer created by Every or After
func (d *Driver) Cancel(id TimerID) {
	if _, ok := d.timers[id]; !ok {
		return
	}
	delete(d.timers, id)
	d.loop.ClearTimer(id)
}

// Timers returns the number of live timers owned by the driver
func (d *Driver) Timers() int {
	return len(d.timers)
}

// Teardown synchronously releases the frame request, every timer and the resize listener
// Idempotent; the driver is detached afterwards
func (d *Driver) Teardown() {
	if d == nil {
		return
	}
	d.Stop()
	for id := range d.timers {
		d.loop.ClearTimer(id)
	}
	clear(d.timers)
	d.OffResize()
	d.attached = false
	d.frameFn = nil
	d.container = nil
	d.surface = nil
}
