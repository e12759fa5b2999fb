package config

import (
	"fmt"
	"time"

	"github.com/lixenwraith/cardfx/bolt"
	"github.com/lixenwraith/cardfx/card"
	"github.com/lixenwraith/cardfx/particle"
	"github.com/lixenwraith/cardfx/render"
)

// CardSpec names a preset and the fields that override it, nil fields keep the preset value
type CardSpec struct {
	Title  string `mapstructure:"title"`
	Preset string `mapstructure:"preset"`
	Seed   uint64 `mapstructure:"seed"`

	Background string `mapstructure:"background"` // #rrggbb

	Particles   *int     `mapstructure:"particles"`
	Policy      string   `mapstructure:"policy"`
	Origin      string   `mapstructure:"origin"`
	Shapes      []string `mapstructure:"shapes"`
	RerollShape *bool    `mapstructure:"reroll_shape"`
	HueMin      *float64 `mapstructure:"hue_min"`
	HueMax      *float64 `mapstructure:"hue_max"`
	Saturation  *float64 `mapstructure:"saturation"`
	Twinkle     *float64 `mapstructure:"twinkle"` // max radians per frame
	Glow        *float64 `mapstructure:"glow"`

	Bolts     *int     `mapstructure:"bolts"`
	Endpoints string   `mapstructure:"endpoints"`
	Segments  *int     `mapstructure:"segments"`
	Jitter    *float64 `mapstructure:"jitter"`
	Branches  *int     `mapstructure:"branches"`

	BurstProbability *float64      `mapstructure:"burst_probability"`
	BurstInterval    time.Duration `mapstructure:"burst_interval"`
	Flash            *float64      `mapstructure:"flash"`
}

// Resolve builds the card recipe from the preset plus overrides
// seed is used when the entry sets none
func (s CardSpec) Resolve(seed uint64) (card.Config, error) {
	name := s.Preset
	if name == "" {
		name = card.DefaultPreset
	}
	cfg, ok := card.Preset(name)
	if !ok {
		return card.Config{}, fmt.Errorf("unknown preset %q", name)
	}

	cfg.Seed = seed
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Background != "" {
		cfg.Background = render.Hex(s.Background)
	}

	p := &cfg.Particles
	setInt(&p.Count, s.Particles)
	if s.Policy != "" {
		policy, ok := particle.ParsePolicy(s.Policy)
		if !ok {
			return card.Config{}, fmt.Errorf("unknown policy %q", s.Policy)
		}
		p.Policy = policy
	}
	if s.Origin != "" {
		origin, ok := particle.ParseOrigin(s.Origin)
		if !ok {
			return card.Config{}, fmt.Errorf("unknown origin %q", s.Origin)
		}
		p.Origin = origin
	}
	if len(s.Shapes) > 0 {
		shapes := make([]particle.Shape, 0, len(s.Shapes))
		for _, n := range s.Shapes {
			shape, ok := particle.ParseShape(n)
			if !ok {
				return card.Config{}, fmt.Errorf("unknown shape %q", n)
			}
			shapes = append(shapes, shape)
		}
		p.Shapes = shapes
	}
	if s.RerollShape != nil {
		p.RerollShape = *s.RerollShape
	}
	setFloat(&p.Palette.HueMin, s.HueMin)
	setFloat(&p.Palette.HueMax, s.HueMax)
	setFloat(&p.Palette.Saturation, s.Saturation)
	if s.Twinkle != nil {
		p.TwinkleMax = *s.Twinkle
		p.TwinkleMin = min(p.TwinkleMin, p.TwinkleMax)
	}
	setFloat(&p.Glow, s.Glow)

	b := &cfg.Bolts
	setInt(&b.Count, s.Bolts)
	if s.Endpoints != "" {
		ep, ok := bolt.ParseEndpoints(s.Endpoints)
		if !ok {
			return card.Config{}, fmt.Errorf("unknown endpoints %q", s.Endpoints)
		}
		b.Endpoints = ep
	}
	setInt(&b.Segments, s.Segments)
	setFloat(&b.Jitter, s.Jitter)
	setInt(&b.Branches, s.Branches)

	setFloat(&cfg.Burst.Probability, s.BurstProbability)
	if s.BurstInterval > 0 {
		cfg.Burst.Interval = s.BurstInterval
	}
	setFloat(&cfg.Burst.Flash, s.Flash)

	if p.Count < 0 || b.Count < 0 {
		return card.Config{}, fmt.Errorf("negative pool size")
	}
	return cfg, nil
}

// Label returns the title shown above the card
func (s CardSpec) Label() string {
	if s.Title != "" {
		return s.Title
	}
	if s.Preset != "" {
		return s.Preset
	}
	return card.DefaultPreset
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
