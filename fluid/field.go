package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// goldenAngle spreads fallback directions for coincident pairs around the circle.
const goldenAngle = 2.399963229728653

// DensityAt sums mass * kernel(distance) over all particles within the
// kernel radius of p, including a particle sitting exactly on p.
// The grid must have been rebuilt from pos.
func DensityAt(p r2.Vec, grid *SpatialHash, pos []r2.Vec, mass []float64, k Kernel) float64 {
	var density float64
	grid.ForEachNeighbor(p, pos, func(j int, d float64) {
		density += mass[j] * k.Value(d)
	})
	return density
}

// computeDensities fills density[i] for every particle. It must complete
// before any pressure is computed.
func computeDensities(grid *SpatialHash, pos []r2.Vec, mass, density []float64, k Kernel) {
	for i := range pos {
		density[i] = DensityAt(pos[i], grid, pos, mass, k)
	}
}

// pressureForce accumulates the symmetrised pressure contribution of every
// neighbour j != i. It reports how many neighbours coincided with i.
func pressureForce(i int, grid *SpatialHash, pos []r2.Vec, mass, density []float64, k Kernel, f Field) (force r2.Vec, coincident int) {
	pi := pos[i]
	di := density[i]
	grid.ForEachNeighbor(pi, pos, func(j int, d float64) {
		if j == i {
			return
		}
		var dir r2.Vec
		if d > 0 {
			dir = r2.Scale(1/d, r2.Sub(pos[j], pi))
		} else {
			dir = coincidentDirection(i, j)
			coincident++
		}
		dj := floorDensity(density[j])
		scale := f.SharedPressure(density[j], di) * k.Derivative(d) * mass[i] / dj
		force = r2.Add(force, r2.Scale(scale, dir))
	})
	return force, coincident
}

// coincidentDirection returns a unit vector standing in for the direction
// from i to j when both share a position. The angle depends only on the
// unordered pair and the sign on the order, so the pair stays antisymmetric.
func coincidentDirection(i, j int) r2.Vec {
	lo, hi := i, j
	sign := 1.0
	if lo > hi {
		lo, hi = hi, lo
		sign = -1
	}
	theta := math.Mod(float64(lo)*goldenAngle+float64(hi)*goldenAngle*goldenAngle, 2*math.Pi)
	return r2.Vec{X: sign * math.Cos(theta), Y: sign * math.Sin(theta)}
}
