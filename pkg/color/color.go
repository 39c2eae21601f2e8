// Package color is the RGBA colour model used for per-face shape colours.
// Blending and variation happen in perceptual spaces via go-colorful.
package color

import (
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGBA colour.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA returns a colour with explicit alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Named colours.
var (
	Red    = RGB(255, 0, 0)
	Orange = RGB(255, 127, 0)
	Yellow = RGB(255, 255, 0)
	Green  = RGB(0, 255, 0)
	Cyan   = RGB(0, 255, 255)
	Blue   = RGB(0, 0, 255)
	Purple = RGB(255, 0, 255)
	White  = RGB(255, 255, 255)
	Grey   = RGB(127, 127, 127)
	Black  = RGB(0, 0, 0)
)

var named = map[string]Color{
	"red":    Red,
	"orange": Orange,
	"yellow": Yellow,
	"green":  Green,
	"cyan":   Cyan,
	"blue":   Blue,
	"purple": Purple,
	"white":  White,
	"grey":   Grey,
	"gray":   Grey,
	"black":  Black,
}

// Named looks up a colour by name.
func Named(name string) (Color, bool) {
	c, ok := named[name]
	return c, ok
}

// Hex parses "#rrggbb" into an opaque colour.
func Hex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("color: %w", err)
	}
	return fromColorful(c, 255), nil
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color, a uint8) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: a}
}

// String renders the colour as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Array returns the colour as a 4-byte array, the layout meshes use.
func (c Color) Array() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.A}
}

// DefaultTint is the bias Tinted uses when none is given.
const DefaultTint = 0.25

// Tinted blends c towards other. bias 0 keeps c, 1 gives other.
func (c Color) Tinted(other Color, bias ...float64) Color {
	t := DefaultTint
	if len(bias) > 0 {
		t = bias[0]
	}
	a := uint8(float64(c.A) + (float64(other.A)-float64(c.A))*t)
	return fromColorful(c.colorful().BlendRgb(other.colorful(), t), a)
}

// Scaled multiplies the RGB channels by f, keeping alpha.
func (c Color) Scaled(f float64) Color {
	scale := func(v uint8) uint8 {
		x := float64(v) * f
		switch {
		case x < 0:
			return 0
		case x > 255:
			return 255
		}
		return uint8(x)
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// Random returns a random saturated colour. A nil r uses the global source.
func Random(r *rand.Rand) Color {
	h := float01(r) * 360
	s := 0.5 + float01(r)*0.5
	v := 0.6 + float01(r)*0.4
	return fromColorful(colorful.Hsv(h, s, v), 255)
}

func float01(r *rand.Rand) float64 {
	if r == nil {
		return rand.Float64()
	}
	return r.Float64()
}
