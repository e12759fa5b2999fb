package card

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/bolt"
	"github.com/lixenwraith/cardfx/burst"
	"github.com/lixenwraith/cardfx/engine"
	"github.com/lixenwraith/cardfx/events"
	"github.com/lixenwraith/cardfx/particle"
	"github.com/lixenwraith/cardfx/render"
	"github.com/lixenwraith/cardfx/status"
	"github.com/lixenwraith/cardfx/vmath"
)

// Config is the full animation recipe of one card
type Config struct {
	Name        string
	Description string
	Background  render.RGB

	Particles particle.Config
	Bolts     bolt.Config
	Burst     burst.Config

	Seed uint64 // zero seeds from the clock
	FPS  int    // flash spring rate, zero uses the loop default
}

// FrameHook runs after a card finished drawing a frame
type FrameHook func(now time.Time, s render.Surface)

// Card binds one animation to a container for its mounted lifetime
// All methods run on the loop goroutine
type Card struct {
	id   string
	cfg  Config
	loop *engine.Loop
	log  zerolog.Logger
	bus  *events.Bus
	hook FrameHook

	driver *engine.Driver
	rng    *vmath.Rand
	bounds vmath.Bounds

	field *particle.Field
	bolts *bolt.Set
	burst *burst.Controller

	mounted bool

	statFrames *atomic.Int64
	statPulses *atomic.Int64
	statLate   *atomic.Int64
	statResets *atomic.Int64
	statStrike *atomic.Int64
}

// Option configures a Card
type Option func(*Card)

// WithID overrides the generated instance id
func WithID(id string) Option {
	return func(c *Card) { c.id = id }
}

// WithBus publishes card events on bus instead of a private one
func WithBus(bus *events.Bus) Option {
	return func(c *Card) { c.bus = bus }
}

// WithLogger sets the card logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Card) { c.log = log }
}

// WithRegistry publishes card counters into reg
func WithRegistry(reg *status.Registry) Option {
	return func(c *Card) {
		c.statFrames = reg.Ints.Get("card.frames")
		c.statPulses = reg.Ints.Get("card.pulses")
		c.statLate = reg.Ints.Get("card.late_updates")
		c.statResets = reg.Ints.Get("particle.resets")
		c.statStrike = reg.Ints.Get("bolt.strikes")
	}
}

// WithFrameHook runs fn after every drawn frame
func WithFrameHook(fn FrameHook) Option {
	return func(c *Card) { c.hook = fn }
}

// New creates an unmounted card scheduling on loop
func New(cfg Config, loop *engine.Loop, opts ...Option) *Card {
	c := &Card{
		id:         uuid.NewString(),
		cfg:        cfg,
		loop:       loop,
		log:        zerolog.Nop(),
		statFrames: new(atomic.Int64),
		statPulses: new(atomic.Int64),
		statLate:   new(atomic.Int64),
		statResets: new(atomic.Int64),
		statStrike: new(atomic.Int64),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.bus == nil {
		c.bus = events.NewBus()
	}
	c.log = c.log.With().Str("card", c.id).Str("preset", cfg.Name).Logger()
	return c
}

// ID returns the instance id used on published events
func (c *Card) ID() string {
	return c.id
}

// Config returns the recipe the card was built with
func (c *Card) Config() Config {
	return c.cfg
}

// Mount attaches to container and surface and starts animating
// Returns false and does nothing when a handle is missing or the card is already mounted
func (c *Card) Mount(container engine.Container, surface render.Surface) bool {
	if c.mounted || c.loop == nil {
		return false
	}
	driver := engine.NewDriver(c.loop, c.log)
	if !driver.Attach(container, surface) {
		return false
	}
	c.driver = driver

	if c.cfg.Seed != 0 {
		c.rng = vmath.NewRand(c.cfg.Seed)
	} else {
		c.rng = vmath.NewTimeSeededRand()
	}

	w, h := surface.Size()
	c.bounds = vmath.NewBounds(w, h, c.cfg.Particles.Margin)
	c.field = particle.NewField(c.cfg.Particles, c.rng, c.bounds, c.statResets)
	c.bolts = bolt.NewSet(c.cfg.Bolts, c.rng, c.bounds, c.statStrike)
	c.burst = burst.New(c.cfg.Burst, c.rng, driver, c.cfg.FPS,
		burst.WithBolts(c.bolts),
		burst.WithBus(c.bus, c.id),
		burst.WithLogger(c.log),
		burst.WithCounter(c.statPulses),
	)

	driver.OnResize(c.resize)
	driver.Start(c.frame)
	if c.cfg.Burst.Enabled() {
		driver.Every(c.cfg.Burst.Interval, c.roll)
	}
	c.mounted = true

	c.log.Debug().Int("w", w).Int("h", h).Int("particles", c.field.Len()).Int("bolts", c.bolts.Len()).Msg("card mounted")
	c.bus.Emit(events.CardEvent{Type: events.EventCardMounted, Card: c.id, Time: c.loop.Now()})
	return true
}

// Unmount synchronously cancels the frame request, every timer and the resize listener, idempotent
func (c *Card) Unmount() {
	if !c.mounted {
		return
	}
	c.burst.Cancel()
	c.driver.Teardown()
	c.mounted = false
	c.log.Debug().Uint64("frames", c.driver.Frames()).Msg("card unmounted")
	c.bus.Emit(events.CardEvent{Type: events.EventCardUnmounted, Card: c.id, Time: c.loop.Now()})
}

// Mounted reports whether the card is animating
func (c *Card) Mounted() bool {
	return c.mounted
}

// live filters callbacks that outlived the mount
func (c *Card) live(source string) bool {
	if c.mounted {
		return true
	}
	c.statLate.Add(1)
	c.log.Warn().Str("source", source).Msg("state update after unmount ignored")
	return false
}

func (c *Card) frame(now time.Time) {
	if !c.live("frame") {
		return
	}
	s := c.driver.Surface()
	s.Clear(c.cfg.Background)
	c.burst.Step()
	if !c.bounds.Empty() {
		c.field.Step(c.bounds, s)
		c.bolts.Step(c.bounds, s)
		c.burst.Draw(s)
		if f := c.burst.Intensity(); f > 0 {
			if b, ok := s.(render.Brightener); ok {
				b.Brighten(f)
			}
		}
	}
	c.statFrames.Add(1)
	if c.hook != nil {
		c.hook(now, s)
	}
}

func (c *Card) resize(w, h int) {
	if !c.live("resize") {
		return
	}
	c.bounds = vmath.NewBounds(w, h, c.cfg.Particles.Margin)
}

func (c *Card) roll(now time.Time) {
	if !c.live("burst") {
		return
	}
	c.burst.MaybeTrigger(now, c.bounds)
}

// Pulse reports whether a burst is currently visible
func (c *Card) Pulse() bool {
	return c.mounted && c.burst.Pulse()
}

// Intensity returns the current flash intensity in [0,1]
func (c *Card) Intensity() float64 {
	if !c.mounted {
		return 0
	}
	return c.burst.Intensity()
}

// Subscribe observes this card's events, returns the unsubscribe func
func (c *Card) Subscribe(fn func(events.CardEvent)) func() {
	return c.bus.Register(events.HandlerFunc{
		Types: []events.EventType{
			events.EventPulseStarted,
			events.EventPulseEnded,
			events.EventCardMounted,
			events.EventCardUnmounted,
		},
		Fn: func(ev events.CardEvent) {
			if ev.Card == c.id {
				fn(ev)
			}
		},
	})
}

// Bounds returns the current emitter bounds
func (c *Card) Bounds() vmath.Bounds {
	return c.bounds
}

// Field returns the particle field, nil before the first mount
func (c *Card) Field() *particle.Field {
	return c.field
}

// Bolts returns the bolt set, nil before the first mount
func (c *Card) Bolts() *bolt.Set {
	return c.bolts
}

// Burst returns the burst controller, nil before the first mount
func (c *Card) Burst() *burst.Controller {
	return c.burst
}

// Frames returns frames drawn by the current mount
func (c *Card) Frames() uint64 {
	if c.driver == nil {
		return 0
	}
	return c.driver.Frames()
}

// LateUpdates returns callbacks rejected after unmount
func (c *Card) LateUpdates() int64 {
	return c.statLate.Load()
}
