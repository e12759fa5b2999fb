package engine

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/cardfx/status"
)

func newTestLoop() (*Loop, *MockTimeProvider) {
	clock := NewMockTimeProvider(time.Unix(1000, 0))
	return NewLoop(clock), clock
}

func TestFrameRequestsAreOneShot(t *testing.T) {
	loop, _ := newTestLoop()
	calls := 0
	loop.RequestFrame(func(time.Time) { calls++ })

	loop.Tick()
	loop.Tick()

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if loop.PendingFrames() != 0 {
		t.Errorf("Expected no pending frames, got %d", loop.PendingFrames())
	}
}

func TestFrameRequestedDuringFrameRunsNextFrame(t *testing.T) {
	loop, _ := newTestLoop()
	calls := 0
	var fn FrameFunc
	fn = func(time.Time) {
		calls++
		loop.RequestFrame(fn)
	}
	loop.RequestFrame(fn)

	for i := 0; i < 5; i++ {
		loop.Tick()
	}
	if calls != 5 {
		t.Errorf("Expected 5 calls, got %d", calls)
	}
	if loop.PendingFrames() != 1 {
		t.Errorf("Expected 1 pending frame, got %d", loop.PendingFrames())
	}
}

func TestCancelFrame(t *testing.T) {
	loop, _ := newTestLoop()
	called := false
	id := loop.RequestFrame(func(time.Time) { called = true })
	loop.CancelFrame(id)
	loop.CancelFrame(id)
	loop.Tick()

	if called {
		t.Error("Expected cancelled frame not to run")
	}
}

func TestCancelFrameWithinSameBatch(t *testing.T) {
	loop, _ := newTestLoop()
	called := false
	var second FrameID
	loop.RequestFrame(func(time.Time) { loop.CancelFrame(second) })
	second = loop.RequestFrame(func(time.Time) { called = true })
	loop.Tick()

	if called {
		t.Error("Expected frame cancelled by an earlier callback not to run")
	}
}

func TestIntervalFiresOnSchedule(t *testing.T) {
	loop, clock := newTestLoop()
	fired := 0
	loop.SetInterval(100*time.Millisecond, func(time.Time) { fired++ })

	loop.Tick()
	if fired != 0 {
		t.Fatalf("Expected no fire before interval, got %d", fired)
	}
	for i := 0; i < 3; i++ {
		clock.Advance(100 * time.Millisecond)
		loop.Tick()
	}
	if fired != 3 {
		t.Errorf("Expected 3 fires, got %d", fired)
	}
}

func TestIntervalSkipsMissedTicks(t *testing.T) {
	loop, clock := newTestLoop()
	fired := 0
	loop.SetInterval(100*time.Millisecond, func(time.Time) { fired++ })

	clock.Advance(time.Second)
	loop.Tick()
	loop.Tick()
	if fired != 1 {
		t.Errorf("Expected a single fire after a stall, got %d", fired)
	}
}

func TestTimeoutFiresOnce(t *testing.T) {
	loop, clock := newTestLoop()
	fired := 0
	loop.SetTimeout(50*time.Millisecond, func(time.Time) { fired++ })

	clock.Advance(50 * time.Millisecond)
	loop.Tick()
	clock.Advance(50 * time.Millisecond)
	loop.Tick()

	if fired != 1 {
		t.Errorf("Expected 1 fire, got %d", fired)
	}
	if loop.PendingTimers() != 0 {
		t.Errorf("Expected no pending timers, got %d", loop.PendingTimers())
	}
}

func TestClearTimerDuringTurn(t *testing.T) {
	loop, clock := newTestLoop()
	fired := false
	var victim TimerID
	loop.SetTimeout(10*time.Millisecond, func(time.Time) { loop.ClearTimer(victim) })
	victim = loop.SetTimeout(10*time.Millisecond, func(time.Time) { fired = true })

	clock.Advance(10 * time.Millisecond)
	loop.Tick()
	if fired {
		t.Error("Expected timer cleared by an earlier callback not to fire")
	}
}

func TestResizeListenersInOrder(t *testing.T) {
	loop, _ := newTestLoop()
	var order []int
	loop.AddResizeListener(func(w, h int) { order = append(order, 1) })
	id := loop.AddResizeListener(func(w, h int) { order = append(order, 2) })
	loop.AddResizeListener(func(w, h int) { order = append(order, 3) })

	loop.Resize(80, 24)
	loop.RemoveResizeListener(id)
	loop.Resize(40, 12)

	want := []int{1, 2, 3, 1, 3}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, order)
			break
		}
	}
	if w, h := loop.Size(); w != 40 || h != 12 {
		t.Errorf("Expected size 40x12, got %dx%d", w, h)
	}
}

func TestHiddenLoopHoldsFrames(t *testing.T) {
	loop, clock := newTestLoop()
	frames, timers := 0, 0
	loop.RequestFrame(func(time.Time) { frames++ })
	loop.SetInterval(10*time.Millisecond, func(time.Time) { timers++ })

	loop.SetVisible(false)
	clock.Advance(10 * time.Millisecond)
	loop.Tick()
	if frames != 0 {
		t.Errorf("Expected frames held while hidden, got %d", frames)
	}
	if timers != 1 {
		t.Errorf("Expected timers to keep firing while hidden, got %d", timers)
	}

	loop.SetVisible(true)
	loop.Tick()
	if frames != 1 {
		t.Errorf("Expected held frame to run once visible, got %d", frames)
	}
}

func TestPostRunsOnTick(t *testing.T) {
	loop, _ := newTestLoop()
	ran := make(chan struct{})
	go loop.Post(func() { close(ran) })

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		loop.Tick()
		select {
		case <-ran:
			return
		default:
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("Expected posted task to run")
}

func TestLoopRecoversCallbackPanic(t *testing.T) {
	reg := status.NewRegistry()
	loop := NewLoop(NewMockTimeProvider(time.Unix(0, 0)), WithRegistry(reg))
	after := false
	loop.RequestFrame(func(time.Time) { panic("frame") })
	loop.RequestFrame(func(time.Time) { after = true })
	loop.Tick()

	if !after {
		t.Error("Expected later callbacks to run after a panic")
	}
	if got := reg.Snapshot()["loop.panics"]; got != 1 {
		t.Errorf("Expected 1 recorded panic, got %d", got)
	}
	if got := reg.Snapshot()["loop.frames"]; got != 1 {
		t.Errorf("Expected 1 recorded frame, got %d", got)
	}
}

func TestLoopPublishesRateAndVisibility(t *testing.T) {
	reg := status.NewRegistry()
	clock := NewMockTimeProvider(time.Unix(0, 0))
	loop := NewLoop(clock, WithRegistry(reg))
	if !reg.Flags()["loop.visible"] {
		t.Error("Expected new loop published as visible")
	}

	for i := 0; i < 10; i++ {
		loop.Tick()
		clock.Advance(40 * time.Millisecond)
	}
	if got := reg.Gauges()["loop.fps"]; math.Abs(got-25) > 1e-6 {
		t.Errorf("Expected 25 fps, got %f", got)
	}
	if loop.Rate() != reg.Gauges()["loop.fps"] {
		t.Errorf("Expected Rate to match gauge, got %f", loop.Rate())
	}

	loop.SetVisible(false)
	if reg.Flags()["loop.visible"] {
		t.Error("Expected hidden loop published as not visible")
	}
}
