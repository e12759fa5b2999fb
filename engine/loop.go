package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/core"
	"github.com/lixenwraith/cardfx/status"
)

// DefaultFPS is the refresh rate used when Run is given a non-positive rate
const DefaultFPS = 60

// minInterval keeps zero or negative intervals from firing on every turn
const minInterval = time.Millisecond

// FrameID identifies a pending frame request
type FrameID uint64

// TimerID identifies an interval or timeout
type TimerID uint64

// ListenerID identifies a resize subscription
type ListenerID uint64

// FrameFunc is invoked once per display frame with the loop time
type FrameFunc func(now time.Time)

type frameReq struct {
	id FrameID
	fn FrameFunc
}

type timer struct {
	id       TimerID
	due      time.Time
	interval time.Duration // zero for timeouts
	fn       func(now time.Time)
}

type resizeListener struct {
	id ListenerID
	fn func(w, h int)
}

// Loop is a single-threaded host event loop: frame requests, timers and resize listeners
// All methods except Post must be called from the goroutine driving Tick/Run
// Frames requested during a frame run on the next frame
type Loop struct {
	clock Clock
	log   zerolog.Logger

	nextID uint64

	frames  []frameReq
	current []frameReq // batch being dispatched
	timers  map[TimerID]*timer
	resizes []resizeListener

	visible       bool
	width, height int
	frameCount    uint64
	lastTick      time.Time

	tasks    chan func()
	done     chan struct{}
	doneOnce sync.Once

	statFrames  *atomic.Int64
	statPanics  *atomic.Int64
	statFPS     *status.AtomicFloat // smoothed tick rate
	statVisible *atomic.Bool
}

// LoopOption configures a Loop
type LoopOption func(*Loop)

// WithLogger sets the loop logger
func WithLogger(log zerolog.Logger) LoopOption {
	return func(l *Loop) { l.log = log }
}

// WithRegistry publishes loop counters into reg
func WithRegistry(reg *status.Registry) LoopOption {
	return func(l *Loop) {
		l.statFrames = reg.Ints.Get("loop.frames")
		l.statPanics = reg.Ints.Get("loop.panics")
		l.statFPS = reg.Floats.Get("loop.fps")
		l.statVisible = reg.Bools.Get("loop.visible")
	}
}

// NewLoop creates a visible loop driven by clock
func NewLoop(clock Clock, opts ...LoopOption) *Loop {
	if clock == nil {
		clock = NewTimeProvider()
	}
	l := &Loop{
		clock:       clock,
		log:         zerolog.Nop(),
		timers:      make(map[TimerID]*timer),
		visible:     true,
		tasks:       make(chan func(), 256),
		done:        make(chan struct{}),
		statFrames:  new(atomic.Int64),
		statPanics:  new(atomic.Int64),
		statFPS:     new(status.AtomicFloat),
		statVisible: new(atomic.Bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.statVisible.Store(true)
	return l
}

func (l *Loop) id() uint64 {
	l.nextID++
	return l.nextID
}

// Now returns loop clock time
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// RequestFrame schedules fn for the next frame
func (l *Loop) RequestFrame(fn FrameFunc) FrameID {
	id := FrameID(l.id())
	l.frames = append(l.frames, frameReq{id: id, fn: fn})
	return id
}

// CancelFrame drops a pending frame request, unknown ids are ignored
func (l *Loop) CancelFrame(id FrameID) {
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
	for i := range l.current {
		if l.current[i].id == id {
			l.current[i].fn = nil
			return
		}
	}
}

// SetInterval schedules fn every d until cleared
func (l *Loop) SetInterval(d time.Duration, fn func(now time.Time)) TimerID {
	return l.addTimer(max(d, minInterval), max(d, minInterval), fn)
}

// SetTimeout schedules fn once after d
func (l *Loop) SetTimeout(d time.Duration, fn func(now time.Time)) TimerID {
	return l.addTimer(max(d, 0), 0, fn)
}

func (l *Loop) addTimer(delay, interval time.Duration, fn func(now time.Time)) TimerID {
	id := TimerID(l.id())
	l.timers[id] = &timer{
		id:       id,
		due:      l.clock.Now().Add(delay),
		interval: interval,
		fn:       fn,
	}
	return id
}

// ClearTimer cancels an interval or timeout, unknown ids are ignored
func (l *Loop) ClearTimer(id TimerID) {
	delete(l.timers, id)
}

// AddResizeListener subscribes fn to window resizes, invoked in registration order
func (l *Loop) AddResizeListener(fn func(w, h int)) ListenerID {
	id := ListenerID(l.id())
	l.resizes = append(l.resizes, resizeListener{id: id, fn: fn})
	return id
}

// RemoveResizeListener unsubscribes, unknown ids are ignored
func (l *Loop) RemoveResizeListener(id ListenerID) {
	for i, r := range l.resizes {
		if r.id == id {
			l.resizes = append(l.resizes[:i], l.resizes[i+1:]...)
			return
		}
	}
}

// Resize records the window size and notifies listeners synchronously
func (l *Loop) Resize(w, h int) {
	l.width, l.height = w, h
	snapshot := append([]resizeListener(nil), l.resizes...)
	for _, r := range snapshot {
		if !l.hasListener(r.id) {
			continue
		}
		l.safeCall("resize", func() { r.fn(w, h) })
	}
}

func (l *Loop) hasListener(id ListenerID) bool {
	for _, r := range l.resizes {
		if r.id == id {
			return true
		}
	}
	return false
}

// Size returns the last window size passed to Resize
func (l *Loop) Size() (int, int) {
	return l.width, l.height
}

// SetVisible pauses or resumes frame delivery, timers keep running
func (l *Loop) SetVisible(v bool) {
	if l.visible != v {
		l.log.Debug().Bool("visible", v).Msg("loop visibility changed")
	}
	l.visible = v
	l.statVisible.Store(v)
}

// Visible reports whether frames are being delivered
func (l *Loop) Visible() bool {
	return l.visible
}

// Post hands fn to the loop goroutine, safe from any goroutine
// Dropped once the loop has stopped running
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Tick runs one loop turn at clock time: posted tasks, due timers, then frames
func (l *Loop) Tick() {
	l.drainTasks()
	now := l.clock.Now()
	l.measureRate(now)
	l.runTimers(now)
	if l.visible {
		l.runFrames(now)
	}
}

// fpsSmoothing weights the newest tick interval in the loop.fps gauge
const fpsSmoothing = 0.1

func (l *Loop) measureRate(now time.Time) {
	prev := l.lastTick
	l.lastTick = now
	if prev.IsZero() {
		return
	}
	dt := now.Sub(prev).Seconds()
	if dt <= 0 {
		return
	}
	rate := 1 / dt
	if old := l.statFPS.Load(); old > 0 {
		rate = old + (rate-old)*fpsSmoothing
	}
	l.statFPS.Store(rate)
}

// Rate returns the smoothed tick rate, zero before the second tick
func (l *Loop) Rate() float64 {
	return l.statFPS.Load()
}

func (l *Loop) drainTasks() {
	for {
		select {
		case fn := <-l.tasks:
			l.safeCall("task", fn)
		default:
			return
		}
	}
}

func (l *Loop) runTimers(now time.Time) {
	if len(l.timers) == 0 {
		return
	}
	due := make([]*timer, 0, len(l.timers))
	for _, t := range l.timers {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})

	for _, t := range due {
		// Cleared by an earlier callback in this turn
		if _, ok := l.timers[t.id]; !ok {
			continue
		}
		if t.interval == 0 {
			delete(l.timers, t.id)
		}
		l.safeCall("timer", func() { t.fn(now) })

		if t.interval > 0 {
			if _, ok := l.timers[t.id]; !ok {
				continue
			}
			t.due = t.due.Add(t.interval)
			// Skip missed ticks after a stall instead of firing a burst
			if !t.due.After(now) {
				t.due = now.Add(t.interval)
			}
		}
	}
}

func (l *Loop) runFrames(now time.Time) {
	if len(l.frames) == 0 {
		return
	}
	l.current = l.frames
	l.frames = nil
	l.frameCount++
	l.statFrames.Add(1)

	for i := range l.current {
		fn := l.current[i].fn
		// Cancelled by an earlier callback of this frame
		if fn == nil {
			continue
		}
		l.current[i].fn = nil
		l.safeCall("frame", func() { fn(now) })
	}
	l.current = nil
}

func (l *Loop) safeCall(kind string, fn func()) {
	if r := core.Recover(fn); r != nil {
		l.statPanics.Add(1)
		l.log.Error().Str("callback", kind).Interface("panic", r).Msg("recovered panic in loop callback")
	}
}

// FrameCount returns frames delivered so far
func (l *Loop) FrameCount() uint64 {
	return l.frameCount
}

// PendingFrames returns outstanding frame requests
func (l *Loop) PendingFrames() int {
	return len(l.frames)
}

// PendingTimers returns live intervals and timeouts
func (l *Loop) PendingTimers() int {
	return len(l.timers)
}

// ResizeListeners returns live resize subscriptions
func (l *Loop) ResizeListeners() int {
	return len(l.resizes)
}

// Run pumps Tick at fps until ctx is cancelled, tasks posted in between run immediately
// Must be called at most once
func (l *Loop) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = DefaultFPS
	}
	defer l.doneOnce.Do(func() { close(l.done) })

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	l.log.Debug().Int("fps", fps).Msg("loop running")
	for {
		select {
		case <-ctx.Done():
			l.log.Debug().Uint64("frames", l.frameCount).Msg("loop stopped")
			return nil
		case fn := <-l.tasks:
			l.safeCall("task", fn)
		case <-ticker.C:
			l.Tick()
		}
	}
}
