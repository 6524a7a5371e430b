package fluid

import "math"

// MinDensity floors any density used as a divisor.
const MinDensity = 1e-9

// Kernel is the smoothing kernel for a given interaction radius.
type Kernel struct {
	Radius float64
}

// Value returns (r-d)^2 * 6/(pi r^4) for d < r and 0 otherwise.
func (k Kernel) Value(d float64) float64 {
	r := k.Radius
	if r <= 0 || d >= r {
		return 0
	}
	v := r - d
	return v * v * 6 / (math.Pi * r * r * r * r)
}

// Derivative returns (d-r) * 12/(pi r^4) for d < r and 0 otherwise.
// It is negative inside the radius.
func (k Kernel) Derivative(d float64) float64 {
	r := k.Radius
	if r <= 0 || d >= r {
		return 0
	}
	return (d - r) * 12 / (math.Pi * r * r * r * r)
}

// Field converts densities into pressures.
type Field struct {
	PressureMultiplier float64
	TargetDensity      float64
}

// Pressure returns multiplier * (density - target). Below the target density
// the result is negative and particles attract.
func (f Field) Pressure(density float64) float64 {
	return f.PressureMultiplier * (density - f.TargetDensity)
}

// SharedPressure averages the pressure of a pair so that both particles of
// the pair see the same magnitude.
func (f Field) SharedPressure(d1, d2 float64) float64 {
	return (f.Pressure(d1) + f.Pressure(d2)) / 2
}

func floorDensity(d float64) float64 {
	if !(d > MinDensity) {
		return MinDensity
	}
	return d
}
