// Package palette maps particle speed to a display colour.
package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the number of precomputed gradient entries.
const Size = 256

// Gradient is a precomputed slow-to-fast colour ramp.
type Gradient struct {
	table [Size]color.RGBA
	scale float64
}

// NewGradient builds a ramp blending slow to fast in CIE-Lab space.
// Speeds at or above scale map to the fast colour.
func NewGradient(slowHex, fastHex string, scale float64) (*Gradient, error) {
	slow, err := colorful.Hex(slowHex)
	if err != nil {
		return nil, fmt.Errorf("parsing slow colour %q: %w", slowHex, err)
	}
	fast, err := colorful.Hex(fastHex)
	if err != nil {
		return nil, fmt.Errorf("parsing fast colour %q: %w", fastHex, err)
	}
	if !(scale > 0) {
		scale = 1
	}

	g := &Gradient{scale: scale}
	for i := range g.table {
		t := float64(i) / (Size - 1)
		g.table[i] = toRGBA(slow.BlendLab(fast, t).Clamped())
	}
	return g, nil
}

// At returns the colour for speed. Negative or NaN speeds map to the slow end.
func (g *Gradient) At(speed float64) color.RGBA {
	place := speed / g.scale
	if !(place > 0) {
		place = 0
	}
	place = math.Min(place, 1)
	return g.table[int(place*(Size-1))]
}

// Parse converts a hex string such as "#e03030" into an opaque colour.
func Parse(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing colour %q: %w", hex, err)
	}
	return toRGBA(c), nil
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
