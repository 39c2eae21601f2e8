package color

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Source is an endless stream of colours. Factories draw one colour per
// face from a Source.
type Source interface {
	Next() Color
}

// SourceFunc adapts a function to Source.
type SourceFunc func() Color

// Next calls f.
func (f SourceFunc) Next() Color { return f() }

// Repeat yields c forever.
func Repeat(c Color) Source {
	return SourceFunc(func() Color { return c })
}

// Cycle yields the given colours in order, starting over at the end.
// An empty Cycle yields opaque white.
func Cycle(colors ...Color) Source {
	cs := append([]Color(nil), colors...)
	i := 0
	return SourceFunc(func() Color {
		if len(cs) == 0 {
			return White
		}
		c := cs[i%len(cs)]
		i++
		return c
	})
}

// Take draws n colours from src.
func Take(src Source, n int) []Color {
	if n <= 0 {
		return nil
	}
	out := make([]Color, n)
	for i := range out {
		out[i] = src.Next()
	}
	return out
}

// Bounds of the random HSV jitter applied by Variations.
const (
	hueSpread   = 12.0
	valueSpread = 0.15
)

type variations struct {
	base  Color
	other *Color
	rng   *rand.Rand
}

func (v *variations) Next() Color {
	if v.other != nil {
		t := float01(v.rng)
		return fromColorful(v.base.colorful().BlendLab(v.other.colorful(), t), v.base.A)
	}
	h, s, val := v.base.colorful().Hsv()
	h += (float01(v.rng)*2 - 1) * hueSpread
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}
	val += (float01(v.rng)*2 - 1) * valueSpread
	if val < 0 {
		val = 0
	}
	if val > 1 {
		val = 1
	}
	return fromColorful(colorful.Hsv(h, s, val), v.base.A)
}

// Variations yields colours close to c. With another colour given, it
// yields random blends between c and that colour instead.
func (c Color) Variations(other ...Color) Source {
	return Vary(nil, c, other...)
}

// Vary is Variations with an explicit random source. A nil r uses the
// global source.
func Vary(r *rand.Rand, c Color, other ...Color) Source {
	v := &variations{base: c, rng: r}
	if len(other) > 0 {
		o := other[0]
		v.other = &o
	}
	return v
}

// RandomVariations picks a random base colour and yields variations of it.
func RandomVariations(r *rand.Rand) Source {
	return Vary(r, Random(r))
}
