package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/events"
	"github.com/lixenwraith/cardfx/vmath"
)

// DefaultSampleRate is used when the configured rate is not positive
const DefaultSampleRate = beep.SampleRate(44100)

// Sink accepts finished streamers for playback
type Sink interface {
	Play(s beep.Streamer)
}

// Speaker plays streamers through the system audio device via one shared mixer
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

// OpenSpeaker initialises the audio device at rate
func OpenSpeaker(rate beep.SampleRate) (*Speaker, error) {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

// Play implements Sink
func (s *Speaker) Play(st beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close silences pending sounds and releases the device, idempotent
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

// Player turns pulse events into thunder claps
type Player struct {
	sink   Sink
	rate   beep.SampleRate
	volume float64
	rng    *vmath.Rand
	log    zerolog.Logger
	played atomic.Int64
}

// NewPlayer creates a pulse observer playing into sink
// volume is a linear gain, zero or less keeps unit gain
func NewPlayer(sink Sink, rate beep.SampleRate, volume float64, rng *vmath.Rand, log zerolog.Logger) *Player {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if volume <= 0 {
		volume = 1
	}
	if rng == nil {
		rng = vmath.NewTimeSeededRand()
	}
	return &Player{sink: sink, rate: rate, volume: volume, rng: rng, log: log}
}

// EventTypes implements events.Handler
func (p *Player) EventTypes() []events.EventType {
	return []events.EventType{events.EventPulseStarted}
}

// HandleEvent implements events.Handler, larger bursts waking more bolts sound heavier
func (p *Player) HandleEvent(ev events.CardEvent) {
	payload, ok := ev.Payload.(events.PulsePayload)
	if !ok || p.sink == nil {
		return
	}
	intensity := vmath.Clamp01(0.4 + 0.15*float64(payload.Woken))
	p.sink.Play(newVolume(NewThunder(p.rate, intensity, p.rng), p.volume))
	p.played.Add(1)
	p.log.Debug().Str("card", ev.Card).Float64("intensity", intensity).Msg("thunder")
}

// Played returns the number of claps started
func (p *Player) Played() int64 {
	return p.played.Load()
}
