// Package renderer draws the fluid state and debug primitives with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/palette"
)

// ColorMode selects how particles are tinted.
type ColorMode int

const (
	ColorBySpeed ColorMode = iota
	ColorByDensity
)

// ParticleRenderer draws particles as filled circles of radius mass/2.
type ParticleRenderer struct {
	speed   *palette.Gradient
	density *palette.Gradient
	colors  []color.RGBA
}

// NewParticleRenderer creates a renderer using the given speed gradient.
// Density mode reuses the same colours over [0, max density].
func NewParticleRenderer(slowHex, fastHex string, speedScale float64) (*ParticleRenderer, error) {
	speed, err := palette.NewGradient(slowHex, fastHex, speedScale)
	if err != nil {
		return nil, err
	}
	density, err := palette.NewGradient(slowHex, fastHex, 1)
	if err != nil {
		return nil, err
	}
	return &ParticleRenderer{speed: speed, density: density}, nil
}

// Colors fills and returns the per-particle colours for the given mode.
// The returned slice is reused between calls.
func (r *ParticleRenderer) Colors(mode ColorMode, vel []r2.Vec, density []float64) []color.RGBA {
	n := len(vel)
	if cap(r.colors) < n {
		r.colors = make([]color.RGBA, n)
	}
	r.colors = r.colors[:n]

	switch mode {
	case ColorByDensity:
		maxDensity := 0.0
		if len(density) > 0 {
			maxDensity = floats.Max(density)
		}
		for i := range r.colors {
			frac := 0.0
			if maxDensity > 0 && i < len(density) {
				frac = density[i] / maxDensity
			}
			r.colors[i] = r.density.At(frac)
		}
	default:
		for i, v := range vel {
			r.colors[i] = r.speed.At(r2.Norm(v))
		}
	}
	return r.colors
}

// Draw renders every particle.
func (r *ParticleRenderer) Draw(mode ColorMode, pos, vel []r2.Vec, mass, density []float64) {
	colors := r.Colors(mode, vel, density)
	for i, p := range pos {
		rl.DrawCircleV(rl.Vector2{X: float32(p.X), Y: float32(p.Y)}, float32(mass[i]/2), colors[i])
	}
}
