package engine

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/render"
)

func attachedDriver(t *testing.T, w, h int) (*Driver, *Loop, *MockTimeProvider, *Box, *render.CellBuffer) {
	t.Helper()
	loop, clock := newTestLoop()
	box := NewBox(w, h)
	surface := render.NewCellBuffer(1, 1)
	d := NewDriver(loop, zerolog.Nop())
	if !d.Attach(box, surface) {
		t.Fatal("Expected attach to succeed")
	}
	return d, loop, clock, box, surface
}

func TestAttachMissingHandles(t *testing.T) {
	loop, _ := newTestLoop()

	var nilBox *Box
	var nilSurface *render.CellBuffer
	cases := []struct {
		name      string
		container Container
		surface   render.Surface
	}{
		{"no container", nil, render.NewCellBuffer(4, 4)},
		{"no surface", NewBox(4, 4), nil},
		{"typed nil container", nilBox, render.NewCellBuffer(4, 4)},
		{"typed nil surface", NewBox(4, 4), nilSurface},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDriver(loop, zerolog.Nop())
			if d.Attach(tc.container, tc.surface) {
				t.Fatal("Expected attach to fail")
			}
			d.Start(func(time.Time) {})
			d.OnResize(func(int, int) {})
			d.Every(time.Millisecond, func(time.Time) {})
			if loop.PendingFrames() != 0 || loop.PendingTimers() != 0 || loop.ResizeListeners() != 0 {
				t.Error("Expected inert driver to schedule nothing")
			}
			d.Teardown()
		})
	}
}

func TestAttachSizesSurface(t *testing.T) {
	_, _, _, _, surface := attachedDriver(t, 100, 60)
	if w, h := surface.Size(); w != 100 || h != 60 {
		t.Errorf("Expected surface 100x60, got %dx%d", w, h)
	}
}

func TestDriverRunsUntilStop(t *testing.T) {
	d, loop, _, _, _ := attachedDriver(t, 10, 10)
	calls := 0
	d.Start(func(time.Time) { calls++ })
	d.Start(func(time.Time) { calls += 100 })

	for i := 0; i < 10; i++ {
		loop.Tick()
	}
	d.Stop()
	d.Stop()
	loop.Tick()

	if calls != 10 {
		t.Errorf("Expected 10 frames, got %d", calls)
	}
	if d.Frames() != 10 {
		t.Errorf("Expected frame counter 10, got %d", d.Frames())
	}
	if loop.PendingFrames() != 0 {
		t.Errorf("Expected no pending frames after stop, got %d", loop.PendingFrames())
	}
}

func TestDriverResizeRemeasures(t *testing.T) {
	d, loop, _, box, surface := attachedDriver(t, 100, 100)
	var gotW, gotH int
	d.OnResize(func(w, h int) { gotW, gotH = w, h })

	box.SetSize(50, 50)
	loop.Resize(50, 50)

	if w, h := surface.Size(); w != 50 || h != 50 {
		t.Errorf("Expected surface 50x50, got %dx%d", w, h)
	}
	if gotW != 50 || gotH != 50 {
		t.Errorf("Expected handler with 50x50, got %dx%d", gotW, gotH)
	}
}

func TestAfterUntracksOnFire(t *testing.T) {
	d, loop, clock, _, _ := attachedDriver(t, 10, 10)
	fired := 0
	d.After(20*time.Millisecond, func(time.Time) { fired++ })
	if d.Timers() != 1 {
		t.Fatalf("Expected 1 tracked timer, got %d", d.Timers())
	}
	clock.Advance(20 * time.Millisecond)
	loop.Tick()

	if fired != 1 {
		t.Errorf("Expected 1 fire, got %d", fired)
	}
	if d.Timers() != 0 {
		t.Errorf("Expected timer untracked after firing, got %d", d.Timers())
	}
}

func TestTeardownReleasesEverything(t *testing.T) {
	d, loop, clock, _, _ := attachedDriver(t, 10, 10)
	frames, timers := 0, 0
	d.Start(func(time.Time) { frames++ })
	d.OnResize(func(int, int) {})
	d.Every(10*time.Millisecond, func(time.Time) { timers++ })
	d.After(30*time.Millisecond, func(time.Time) { timers++ })

	for i := 0; i < 100; i++ {
		clock.Advance(time.Millisecond)
		loop.Tick()
	}
	d.Teardown()
	d.Teardown()

	if loop.PendingFrames() != 0 {
		t.Errorf("Expected no pending frames, got %d", loop.PendingFrames())
	}
	if loop.PendingTimers() != 0 {
		t.Errorf("Expected no pending timers, got %d", loop.PendingTimers())
	}
	if loop.ResizeListeners() != 0 {
		t.Errorf("Expected no resize listeners, got %d", loop.ResizeListeners())
	}

	framesBefore, timersBefore := frames, timers
	for i := 0; i < 50; i++ {
		clock.Advance(10 * time.Millisecond)
		loop.Tick()
	}
	loop.Resize(5, 5)
	if frames != framesBefore || timers != timersBefore {
		t.Error("Expected no callbacks after teardown")
	}
	if d.Attached() {
		t.Error("Expected driver detached after teardown")
	}
}

func TestPanickingFrameTearsDownDriver(t *testing.T) {
	d, loop, _, _, _ := attachedDriver(t, 10, 10)
	d.Every(time.Millisecond, func(time.Time) {})
	d.Start(func(time.Time) { panic("draw failed") })

	loop.Tick()

	if d.Running() {
		t.Error("Expected driver stopped after panic")
	}
	if loop.PendingFrames() != 0 || loop.PendingTimers() != 0 {
		t.Error("Expected panicking driver to release its handles")
	}
}
