package card

import (
	"math"
	"sort"
	"time"

	"github.com/lixenwraith/cardfx/bolt"
	"github.com/lixenwraith/cardfx/burst"
	"github.com/lixenwraith/cardfx/particle"
	"github.com/lixenwraith/cardfx/render"
)

// DefaultPreset is used when a card names no preset
const DefaultPreset = "dark"

// Each family keeps a single bounds policy: drifting fields wrap, directed flows respawn at their origin
var presets = map[string]Config{
	"dark": {
		Name:        "dark",
		Description: "twinkling starfield with rare shard glints",
		Background:  render.Hex("#07060f"),
		Particles: particle.Config{
			Count:      60,
			Policy:     particle.PolicyWrap,
			Margin:     4,
			Shapes:     []particle.Shape{particle.ShapeCircle, particle.ShapeCircle, particle.ShapeStar},
			Palette:    render.Palette{HueMin: 220, HueMax: 280, Saturation: 0.35, LightMin: 0.7, LightMax: 0.95},
			SizeMin:    0.4,
			SizeMax:    1.4,
			SpeedMin:   0.02,
			SpeedMax:   0.12,
			LifeMin:    600,
			LifeMax:    1800,
			AlphaMin:   0.4,
			AlphaMax:   1,
			TwinkleMin: 0.02,
			TwinkleMax: 0.09,
			Glow:       2.5,
		},
		Bolts: bolt.Config{
			Count:            2,
			Endpoints:        bolt.EndpointsShard,
			Segments:         5,
			Jitter:           3,
			DurationMin:      8,
			DurationMax:      16,
			ReactivateChance: 0.002,
			Width:            1,
			Palette:          render.Palette{HueMin: 260, HueMax: 290, Saturation: 0.6, LightMin: 0.75, LightMax: 0.9},
		},
	},
	"chaos": {
		Name:        "chaos",
		Description: "erratic shards bursting from the center",
		Background:  render.Hex("#12040a"),
		Particles: particle.Config{
			Count:       70,
			Policy:      particle.PolicyReset,
			Origin:      particle.OriginCenter,
			Margin:      6,
			Shapes:      []particle.Shape{particle.ShapeCircle, particle.ShapeSquare, particle.ShapeStar},
			RerollShape: true,
			Palette:     render.Palette{HueMin: 330, HueMax: 400, Saturation: 0.85, LightMin: 0.45, LightMax: 0.7},
			SizeMin:     0.5,
			SizeMax:     2,
			SpeedMin:    0.4,
			SpeedMax:    1.6,
			LifeMin:     40,
			LifeMax:     140,
			AlphaMin:    0.5,
			AlphaMax:    1,
		},
		Bolts: bolt.Config{
			Count:            5,
			Endpoints:        bolt.EndpointsShard,
			Segments:         6,
			Jitter:           5,
			Branches:         1,
			BranchSegments:   3,
			BranchLength:     0.3,
			DurationMin:      6,
			DurationMax:      20,
			RegenEvery:       3,
			ReactivateChance: 0.02,
			Width:            1,
			Palette:          render.Palette{HueMin: 340, HueMax: 370, Saturation: 0.9, LightMin: 0.6, LightMax: 0.75},
		},
		Burst: burst.Config{
			Interval:    1500 * time.Millisecond,
			Probability: 0.35,
			VisibleMin:  200 * time.Millisecond,
			VisibleMax:  450 * time.Millisecond,
			RadiusMin:   0.25,
			RadiusMax:   0.5,
			Rings:       2,
			Spikes:      7,
			Flash:       0.35,
			Palette:     render.Palette{HueMin: 0, HueMax: 20, Saturation: 1, LightMin: 0.6, LightMax: 0.7},
		},
	},
	"storm": {
		Name:        "storm",
		Description: "rain with branching lightning and thunder bursts",
		Background:  render.Hex("#050a14"),
		Particles: particle.Config{
			Count:     80,
			Policy:    particle.PolicyReset,
			Origin:    particle.OriginTop,
			Margin:    4,
			Palette:   render.Palette{HueMin: 200, HueMax: 215, Saturation: 0.4, LightMin: 0.55, LightMax: 0.75},
			SizeMin:   0.3,
			SizeMax:   0.8,
			SpeedMin:  1.2,
			SpeedMax:  2.4,
			Direction: math.Pi/2 + 0.15,
			Spread:    0.1,
			LifeMin:   200,
			LifeMax:   400,
			AlphaMin:  0.3,
			AlphaMax:  0.7,
		},
		Bolts: bolt.Config{
			Count:            3,
			Endpoints:        bolt.EndpointsStrike,
			Segments:         10,
			Jitter:           6,
			Branches:         2,
			BranchSegments:   4,
			BranchLength:     0.35,
			DurationMin:      8,
			DurationMax:      18,
			RegenEvery:       2,
			ReactivateChance: 0.008,
			Width:            1,
			Palette:          render.Palette{HueMin: 195, HueMax: 230, Saturation: 0.9, LightMin: 0.75, LightMax: 0.9},
		},
		Burst: burst.Config{
			Interval:    2 * time.Second,
			Probability: 0.3,
			VisibleMin:  250 * time.Millisecond,
			VisibleMax:  600 * time.Millisecond,
			RadiusMin:   0.3,
			RadiusMax:   0.6,
			Rings:       1,
			Spikes:      5,
			Flash:       0.5,
			Palette:     render.Palette{Fixed: []render.RGB{render.Hex("#dfefff")}},
		},
	},
	"ember": {
		Name:        "ember",
		Description: "embers rising on heat with creeping tendrils",
		Background:  render.Hex("#140600"),
		Particles: particle.Config{
			Count:     55,
			Policy:    particle.PolicyReset,
			Origin:    particle.OriginBottom,
			Margin:    5,
			Shapes:    []particle.Shape{particle.ShapeCircle, particle.ShapeSquare},
			Palette:   render.Palette{HueMin: 10, HueMax: 45, Saturation: 1, LightMin: 0.45, LightMax: 0.65},
			SizeMin:   0.5,
			SizeMax:   1.6,
			SpeedMin:  0.3,
			SpeedMax:  0.9,
			Direction: -math.Pi / 2,
			Spread:    0.8,
			Gravity:   -0.004,
			LifeMin:   90,
			LifeMax:   220,
			AlphaMin:  0.6,
			AlphaMax:  1,
			Glow:      2,
		},
		Bolts: bolt.Config{
			Count:            2,
			Endpoints:        bolt.EndpointsTendril,
			Segments:         7,
			Jitter:           4,
			Branches:         1,
			BranchSegments:   2,
			BranchLength:     0.25,
			DurationMin:      20,
			DurationMax:      45,
			RegenEvery:       6,
			ReactivateChance: 0.006,
			Width:            1,
			Palette:          render.Palette{HueMin: 20, HueMax: 40, Saturation: 1, LightMin: 0.55, LightMax: 0.65},
		},
		Burst: burst.Config{
			Interval:    3 * time.Second,
			Probability: 0.2,
			VisibleMin:  300 * time.Millisecond,
			VisibleMax:  500 * time.Millisecond,
			RadiusMin:   0.2,
			RadiusMax:   0.35,
			Rings:       3,
			Flash:       0.25,
			Palette:     render.Palette{HueMin: 25, HueMax: 40, Saturation: 1, LightMin: 0.6, LightMax: 0.7},
		},
	},
	"frost": {
		Name:        "frost",
		Description: "slow drifting snow with crystalline shards",
		Background:  render.Hex("#060d14"),
		Particles: particle.Config{
			Count:      65,
			Policy:     particle.PolicyWrap,
			Margin:     4,
			Shapes:     []particle.Shape{particle.ShapeCircle, particle.ShapeStar, particle.ShapeSquare},
			Palette:    render.Palette{HueMin: 185, HueMax: 205, Saturation: 0.5, LightMin: 0.8, LightMax: 0.95},
			SizeMin:    0.4,
			SizeMax:    1.5,
			SpeedMin:   0.1,
			SpeedMax:   0.35,
			Direction:  math.Pi / 2,
			Spread:     0.9,
			LifeMin:    800,
			LifeMax:    2000,
			AlphaMin:   0.5,
			AlphaMax:   0.95,
			TwinkleMin: 0.01,
			TwinkleMax: 0.04,
		},
		Bolts: bolt.Config{
			Count:            3,
			Endpoints:        bolt.EndpointsShard,
			Segments:         3,
			Jitter:           1.5,
			Branches:         2,
			BranchSegments:   1,
			BranchLength:     0.25,
			DurationMin:      30,
			DurationMax:      60,
			ReactivateChance: 0.004,
			Width:            1,
			Palette:          render.Palette{HueMin: 180, HueMax: 200, Saturation: 0.7, LightMin: 0.85, LightMax: 0.95},
		},
		Burst: burst.Config{
			Interval:    4 * time.Second,
			Probability: 0.15,
			VisibleMin:  400 * time.Millisecond,
			VisibleMax:  700 * time.Millisecond,
			RadiusMin:   0.3,
			RadiusMax:   0.45,
			Rings:       2,
			Spikes:      6,
			Flash:       0.2,
			Palette:     render.Palette{Fixed: []render.RGB{render.Hex("#e8fbff")}},
		},
	},
}

// Preset returns a copy of the named preset
func Preset(name string) (Config, bool) {
	cfg, ok := presets[name]
	if !ok {
		return Config{}, false
	}
	cfg.Particles.Shapes = append([]particle.Shape(nil), cfg.Particles.Shapes...)
	return cfg, true
}

// PresetNames returns the preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
