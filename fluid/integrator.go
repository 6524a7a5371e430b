package fluid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances particles with explicit Euler steps inside a
// rectangular box [0,Width] x [0,Height].
type Integrator struct {
	Gravity float64
	Bounce  float64
	Width   float64
	Height  float64
}

// Advance applies gravity and accel to vel, reflects vel on any axis where
// the particle edge lies outside the box, then moves pos by vel*dt.
// Positions are not clamped, so a particle may overshoot a wall for a frame
// before the reflection brings it back.
// It reports whether the velocity was reflected and whether a non-finite
// result had to be discarded.
func (in Integrator) Advance(pos, vel *r2.Vec, accel r2.Vec, radius, dt float64) (reflected, reset bool) {
	prevPos, prevVel := *pos, *vel

	vel.Y += in.Gravity * dt
	*vel = r2.Add(*vel, r2.Scale(dt, accel))

	if pos.X-radius < 0 || pos.X+radius > in.Width {
		vel.X *= -in.Bounce
		reflected = true
	}
	if pos.Y-radius < 0 || pos.Y+radius > in.Height {
		vel.Y *= -in.Bounce
		reflected = true
	}

	if !finite(*vel) {
		*vel = prevVel
		if !finite(*vel) {
			*vel = r2.Vec{}
		}
		reset = true
	}

	*pos = r2.Add(*pos, r2.Scale(dt, *vel))
	if !finite(*pos) {
		*pos = prevPos
		*vel = r2.Vec{}
		reset = true
	}
	return reflected, reset
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
