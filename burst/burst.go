package burst

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/bolt"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/events"
	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/vmath"
)

// Flash spring tuning, critically damped so the flash never overshoots into negative brightness
const (
	flashFrequency = 14.0
	flashDamping   = 1.0
)

// Config parametrises the burst controller of one card
type Config struct {
	Interval    time.Duration // trigger roll period
	Probability float64       // chance per roll

	VisibleMin, VisibleMax time.Duration
	RadiusMin, RadiusMax   float64 // fraction of the shorter surface side

	Rings  int
	Spikes int
	Flash  float64 // peak flash intensity, zero disables

	Palette render.Palette
}

// Normalized returns c with degenerate values repaired
func (c Config) Normalized() Config {
	c.Probability = vmath.Clamp01(c.Probability)
	c.VisibleMin = max(c.VisibleMin, 0)
	c.VisibleMax = max(c.VisibleMax, c.VisibleMin)
	c.RadiusMin = max(c.RadiusMin, 0)
	c.RadiusMax = max(c.RadiusMax, c.RadiusMin)
	c.Rings = max(c.Rings, 0)
	c.Spikes = max(c.Spikes, 0)
	c.Flash = vmath.Clamp01(c.Flash)
	return c
}

// Enabled reports whether the controller should be scheduled at all
func (c Config) Enabled() bool {
	return c.Interval > 0 && c.Probability > 0
}

// Event is one burst occurrence
type Event struct {
	Center   vmath.Point
	Radius   float64
	Duration time.Duration
	Time     time.Time
}

// Scheduler runs cancellable timeouts, satisfied by engine.Driver
type Scheduler interface {
	After(d time.Duration, fn func(now time.Time)) engine.TimerID
	Cancel(id engine.TimerID)
}

// Activator wakes bolts near a point, satisfied by bolt.Set
type Activator interface {
	ActivateWithin(center vmath.Point, radius float64) int
}

// Controller rolls for bursts, draws their flourish and exposes the pulse flag to observers
type Controller struct {
	cfg   Config
	rng   *vmath.Rand
	sched Scheduler

	bolts  Activator
	bus    *events.Bus
	card   string
	log    zerolog.Logger
	pulses *atomic.Int64

	pending *Event
	active  bool
	current Event
	expiry  engine.TimerID

	spring   harmonica.Spring
	flash    float64
	flashVel float64
}

// Option configures a Controller
type Option func(*Controller)

// WithBolts lets bursts force-activate nearby bolts
func WithBolts(a Activator) Option {
	return func(c *Controller) { c.bolts = a }
}

// WithBus publishes pulse events for card on bus
func WithBus(bus *events.Bus, card string) Option {
	return func(c *Controller) { c.bus, c.card = bus, card }
}

// WithLogger sets the controller logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithCounter counts pulses into n
func WithCounter(n *atomic.Int64) Option {
	return func(c *Controller) { c.pulses = n }
}

// New creates a controller scheduling expiries on sched at fps
func New(cfg Config, rng *vmath.Rand, sched Scheduler, fps int, opts ...Option) *Controller {
	if fps <= 0 {
		fps = engine.DefaultFPS
	}
	c := &Controller{
		cfg:    cfg.Normalized(),
		rng:    rng,
		sched:  sched,
		log:    zerolog.Nop(),
		pulses: new(atomic.Int64),
		spring: harmonica.NewSpring(harmonica.FPS(fps), flashFrequency, flashDamping),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaybeTrigger rolls once for a burst inside bounds
// On success bolts within the radius wake, the flourish is queued for the next frame and PulseStarted is published
func (c *Controller) MaybeTrigger(now time.Time, bounds vmath.Bounds) bool {
	if bounds.Empty() || !c.rng.Chance(c.cfg.Probability) {
		return false
	}

	short := math.Min(bounds.W, bounds.H)
	ev := Event{
		Center: vmath.Pt(c.rng.Range(bounds.W*0.2, bounds.W*0.8), c.rng.Range(bounds.H*0.2, bounds.H*0.8)),
		Radius: c.rng.Range(c.cfg.RadiusMin, c.cfg.RadiusMax) * short,
		Time:   now,
	}
	if c.cfg.RadiusMax == c.cfg.RadiusMin {
		ev.Radius = c.cfg.RadiusMax * short
	}
	ev.Duration = c.cfg.VisibleMin
	if c.cfg.VisibleMax > c.cfg.VisibleMin {
		ev.Duration += time.Duration(c.rng.Intn(int(c.cfg.VisibleMax - c.cfg.VisibleMin)))
	}

	woken := 0
	if c.bolts != nil {
		woken = c.bolts.ActivateWithin(ev.Center, ev.Radius)
	}

	c.pending = &ev
	c.current = ev
	c.active = true
	c.pulses.Add(1)
	c.log.Debug().Str("card", c.card).Float64("radius", ev.Radius).Int("woken", woken).Msg("burst triggered")

	c.bus.Emit(events.CardEvent{
		Type: events.EventPulseStarted,
		Card: c.card,
		Time: now,
		Payload: events.PulsePayload{
			Center:   ev.Center,
			Radius:   ev.Radius,
			Duration: ev.Duration,
			Woken:    woken,
		},
	})
	c.ExpireAfter(ev.Duration)
	return true
}

// ExpireAfter schedules the pulse flag to clear after d, replacing any pending expiry
func (c *Controller) ExpireAfter(d time.Duration) {
	if c.expiry != 0 {
		c.sched.Cancel(c.expiry)
		c.expiry = 0
	}
	c.expiry = c.sched.After(d, func(now time.Time) {
		c.expiry = 0
		c.end(now)
	})
}

func (c *Controller) end(now time.Time) {
	if !c.active {
		return
	}
	c.active = false
	c.bus.Emit(events.CardEvent{Type: events.EventPulseEnded, Card: c.card, Time: now})
}

// Pulse reports whether a burst is currently visible
func (c *Controller) Pulse() bool {
	return c.active
}

// Current returns the latest event
func (c *Controller) Current() Event {
	return c.current
}

// Pulses returns the total bursts triggered
func (c *Controller) Pulses() int64 {
	return c.pulses.Load()
}

// Pending reports whether a flourish waits for the next Draw
func (c *Controller) Pending() bool {
	return c.pending != nil
}

// Draw paints the queued flourish once, later calls draw nothing until the next burst
func (c *Controller) Draw(s render.Surface) {
	if c.pending == nil {
		return
	}
	ev := *c.pending
	c.pending = nil
	if ev.Radius <= 0 {
		return
	}

	col := c.cfg.Palette.Pick(c.rng)
	for i := 1; i <= c.cfg.Rings; i++ {
		r := ev.Radius * float64(i) / float64(c.cfg.Rings)
		ring := render.StarPoints(ev.Center, r, 12, 1, c.rng.Angle())
		ring = append(ring, ring[0])
		s.StrokePolyline(ring, 1, col, 0.8/float64(i))
	}
	for i := 0; i < c.cfg.Spikes; i++ {
		end := ev.Center.Add(vmath.FromAngle(c.rng.Angle(), ev.Radius*c.rng.Range(0.6, 1.1)))
		spike := bolt.GeneratePath(ev.Center, end, 4, ev.Radius*0.06, c.rng)
		s.StrokePolyline(spike, 4, col, 0.15)
		s.StrokePolyline(spike, 1, render.Blend(col, render.RGBWhite, 0.6), 0.9)
	}
}

// Step advances the flash spring by one frame toward the peak while pulsing, toward zero otherwise
func (c *Controller) Step() {
	target := 0.0
	if c.active {
		target = c.cfg.Flash
	}
	c.flash, c.flashVel = c.spring.Update(c.flash, c.flashVel, target)
}

// Intensity returns the flash intensity in [0,1]
func (c *Controller) Intensity() float64 {
	return vmath.Clamp01(c.flash)
}

// Cancel drops the pending expiry and flourish, an active pulse ends immediately
func (c *Controller) Cancel() {
	if c.expiry != 0 {
		c.sched.Cancel(c.expiry)
		c.expiry = 0
	}
	c.pending = nil
	c.flash, c.flashVel = 0, 0
	if c.active {
		c.end(time.Time{})
	}
}
