package render

import "github.com/lixenwraith/cardfx/vmath"

// Palette describes the color space a card draws its emitters and bolts from
// Fixed colors take precedence over the hue range when present
type Palette struct {
	HueMin, HueMax float64 // degrees
	Saturation     float64
	LightMin       float64
	LightMax       float64
	Fixed          []RGB
}

// Pick returns a random palette color
func (p Palette) Pick(rng *vmath.Rand) RGB {
	if len(p.Fixed) > 0 {
		return p.Fixed[rng.Intn(len(p.Fixed))]
	}
	h := rng.Range(p.HueMin, p.HueMax)
	l := rng.Range(p.LightMin, p.LightMax)
	if p.LightMax <= p.LightMin {
		l = p.LightMin
	}
	return HSL(h, p.Saturation, l)
}

// Primary returns a deterministic representative color (midpoint of the range)
func (p Palette) Primary() RGB {
	if len(p.Fixed) > 0 {
		return p.Fixed[0]
	}
	return HSL((p.HueMin+p.HueMax)/2, p.Saturation, (p.LightMin+p.LightMax)/2)
}
