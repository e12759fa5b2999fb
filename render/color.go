package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB stores explicit 8-bit color channels
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}
)

// clamp converts float to uint8 with saturation
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v + 0.5)
}

// HSL builds a color from hue in degrees and saturation/lightness in [0,1]
// Hues outside [0,360) wrap around the color wheel
func HSL(h, s, l float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsl(h, s, l).Clamped()
	r, g, b := c.RGB255()
	return RGB{r, g, b}
}

// Hex parses "#rrggbb", falls back to black on malformed input
func Hex(s string) RGB {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBBlack
	}
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Scale multiplies all channels by f
func (c RGB) Scale(f float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * f),
		G: clamp(float64(c.G) * f),
		B: clamp(float64(c.B) * f),
	}
}

// Blend performs alpha blending: result = src*alpha + c*(1-alpha)
func Blend(c, src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return c
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: clamp(float64(src.R)*alpha + float64(c.R)*inv),
		G: clamp(float64(src.G)*alpha + float64(c.G)*inv),
		B: clamp(float64(src.B)*alpha + float64(c.B)*inv),
	}
}

// Add performs additive blend with clamping (light accumulation)
func Add(c, src RGB, alpha float64) RGB {
	return RGB{
		R: clamp(float64(c.R) + float64(src.R)*alpha),
		G: clamp(float64(c.G) + float64(src.G)*alpha),
		B: clamp(float64(c.B) + float64(src.B)*alpha),
	}
}

// Max returns per-channel maximum of c and alpha-scaled src (non-destructive highlight)
func Max(c, src RGB, alpha float64) RGB {
	s := src.Scale(alpha)
	return RGB{
		R: max(c.R, s.R),
		G: max(c.G, s.G),
		B: max(c.B, s.B),
	}
}

// Screen lightens c by src: 1-(1-c)(1-src), mixed by alpha
func Screen(c, src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return c
	}
	screened := RGB{
		R: uint8(255 - (255-int(c.R))*(255-int(src.R))/255),
		G: uint8(255 - (255-int(c.G))*(255-int(src.G))/255),
		B: uint8(255 - (255-int(c.B))*(255-int(src.B))/255),
	}
	return Blend(c, screened, alpha)
}

// Lerp interpolates a→b in RGB space
func Lerp(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return Blend(a, b, t)
}

// LerpHCL interpolates through HCL for perceptually even gradients
func LerpHCL(a, b RGB, t float64) RGB {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendHcl(cb, t).Clamped().RGB255()
	return RGB{r, g, bl}
}
