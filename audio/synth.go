package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/cardfx/vmath"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
	WaveBrown // integrated noise, low rumble
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *vmath.Rand
	last     float64
}

// NewOscillator creates a finite oscillator, rng feeds the noise waves and may be nil for tonal ones
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate, rng *vmath.Rand) beep.Streamer {
	if rng == nil {
		rng = vmath.NewRand(1)
	}
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rng,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Symmetric(1)
		case WaveBrown:
			o.last = vmath.Clamp((o.last+0.04*o.rng.Symmetric(1))*0.998, -1, 1)
			val = o.last * 3.5
			val = vmath.Clamp(val, -1, 1)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/sustain/release envelope over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: max(total-att-rel, 0),
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain, math.Log2(0) is -Inf so zero is mapped to silence
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Thunder timing
const (
	crackDuration  = 140 * time.Millisecond
	crackAttack    = 2 * time.Millisecond
	rumbleMin      = 600 * time.Millisecond
	rumbleMax      = 1600 * time.Millisecond
	rumbleAttack   = 40 * time.Millisecond
	rumbleFreq     = 38.0
	rumbleSawLevel = 0.25
)

// ThunderDuration returns the length of a thunder clap at intensity in [0,1]
func ThunderDuration(intensity float64) time.Duration {
	intensity = vmath.Clamp01(intensity)
	return rumbleMin + time.Duration(float64(rumbleMax-rumbleMin)*intensity)
}

// NewThunder synthesises a crack followed by a rolling rumble, louder and longer with intensity
func NewThunder(rate beep.SampleRate, intensity float64, rng *vmath.Rand) beep.Streamer {
	intensity = vmath.Clamp01(intensity)
	rumbleDur := ThunderDuration(intensity)

	crack := NewEnvelope(
		NewOscillator(0, crackDuration, WaveNoise, rate, vmath.NewRand(rng.Next())),
		crackDuration, crackAttack, crackDuration-crackAttack, rate)

	rumble := NewEnvelope(
		beep.Mix(
			NewOscillator(0, rumbleDur, WaveBrown, rate, vmath.NewRand(rng.Next())),
			newVolume(NewOscillator(rumbleFreq, rumbleDur, WaveSaw, rate, nil), rumbleSawLevel),
		),
		rumbleDur, rumbleAttack, rumbleDur*2/3, rate)

	return beep.Mix(
		newVolume(crack, 0.35+0.35*intensity),
		newVolume(rumble, 0.3+0.5*intensity),
	)
}
