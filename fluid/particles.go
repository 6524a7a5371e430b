// Package fluid implements a 2D smoothed-particle hydrodynamics kernel:
// particle storage, a spatial hash for neighbour queries, density and
// pressure fields, an explicit Euler integrator and the controller that
// sequences them once per frame.
package fluid

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/config"
)

// Particle is a read-only view of one particle in the store.
type Particle struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Mass    float64
	Density float64
}

// Radius is the collision radius used for boundary tests.
func (p Particle) Radius() float64 {
	return p.Mass / 2
}

// Store holds per-particle state as parallel arrays indexed by particle id.
// All slices always have the same length.
type Store struct {
	pos     []r2.Vec
	vel     []r2.Vec
	mass    []float64
	density []float64
}

// Len returns the number of particles.
func (s *Store) Len() int {
	return len(s.pos)
}

// Reset regenerates the particle set for cfg. Previous velocity and density
// state is discarded.
func (s *Store) Reset(cfg config.SimulationConfig, rng *rand.Rand) {
	n := cfg.Particles
	if n < 0 {
		n = 0
	}
	s.resize(n)
	for i := range n {
		s.mass[i] = cfg.ParticleMass
	}

	switch cfg.Layout {
	case config.LayoutGrid:
		s.placeGrid(cfg)
	default:
		s.placeRandom(cfg, rng)
	}
}

// Set replaces the store contents with the given particles.
func (s *Store) Set(particles []Particle) {
	s.resize(len(particles))
	for i, p := range particles {
		s.pos[i] = p.Pos
		s.vel[i] = p.Vel
		s.mass[i] = p.Mass
		s.density[i] = p.Density
	}
}

// At returns a view of particle i.
func (s *Store) At(i int) Particle {
	return Particle{
		Pos:     s.pos[i],
		Vel:     s.vel[i],
		Mass:    s.mass[i],
		Density: s.density[i],
	}
}

// Positions exposes the position array. Callers must not change its length.
func (s *Store) Positions() []r2.Vec { return s.pos }

// Velocities exposes the velocity array.
func (s *Store) Velocities() []r2.Vec { return s.vel }

// Masses exposes the mass array.
func (s *Store) Masses() []float64 { return s.mass }

// Densities exposes the density array from the last step.
func (s *Store) Densities() []float64 { return s.density }

func (s *Store) resize(n int) {
	s.pos = resizeVec(s.pos, n)
	s.vel = resizeVec(s.vel, n)
	s.mass = resizeFloat(s.mass, n)
	s.density = resizeFloat(s.density, n)
}

func resizeVec(v []r2.Vec, n int) []r2.Vec {
	if cap(v) < n {
		return make([]r2.Vec, n)
	}
	v = v[:n]
	clear(v)
	return v
}

func resizeFloat(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	v = v[:n]
	clear(v)
	return v
}

// placeRandom scatters particles uniformly inside the canvas, keeping a
// margin of one particle diameter from every edge.
func (s *Store) placeRandom(cfg config.SimulationConfig, rng *rand.Rand) {
	margin := cfg.ParticleMass
	w, h := float64(cfg.Width), float64(cfg.Height)
	spanX := math.Max(w-2*margin, 0)
	spanY := math.Max(h-2*margin, 0)
	originX := math.Min(margin, w/2)
	originY := math.Min(margin, h/2)

	for i := range s.pos {
		s.pos[i] = r2.Vec{
			X: originX + rng.Float64()*spanX,
			Y: originY + rng.Float64()*spanY,
		}
	}
}

// placeGrid lays particles on a square lattice centred on the canvas with
// spacing equal to the particle diameter.
func (s *Store) placeGrid(cfg config.SimulationConfig) {
	n := len(s.pos)
	if n == 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	spacing := cfg.ParticleMass

	startX := float64(cfg.Width)/2 - float64(cols-1)*spacing/2
	startY := float64(cfg.Height)/2 - float64(rows-1)*spacing/2

	for i := range n {
		col := i % cols
		row := i / cols
		s.pos[i] = r2.Vec{
			X: startX + float64(col)*spacing,
			Y: startY + float64(row)*spacing,
		}
	}
}
