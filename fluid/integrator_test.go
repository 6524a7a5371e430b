package fluid

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestIntegrator_ReflectsAtWall(t *testing.T) {
	in := Integrator{Bounce: 0.4, Width: 800, Height: 800}
	tests := []struct {
		name  string
		pos   r2.Vec
		vel   r2.Vec
		wantV r2.Vec
	}{
		{"right wall", r2.Vec{X: 797, Y: 400}, r2.Vec{X: 5, Y: 0}, r2.Vec{X: -2, Y: 0}},
		{"left wall", r2.Vec{X: 3, Y: 400}, r2.Vec{X: -5, Y: 0}, r2.Vec{X: 2, Y: 0}},
		{"floor", r2.Vec{X: 400, Y: 798}, r2.Vec{X: 1, Y: 10}, r2.Vec{X: 1, Y: -4}},
		{"corner", r2.Vec{X: 1, Y: 1}, r2.Vec{X: -5, Y: -10}, r2.Vec{X: 2, Y: 4}},
		{"inside", r2.Vec{X: 400, Y: 400}, r2.Vec{X: 5, Y: 5}, r2.Vec{X: 5, Y: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := tt.pos, tt.vel
			in.Advance(&pos, &vel, r2.Vec{}, 5, 1)
			if math.Abs(vel.X-tt.wantV.X) > 1e-12 || math.Abs(vel.Y-tt.wantV.Y) > 1e-12 {
				t.Errorf("vel = %v, want %v", vel, tt.wantV)
			}
			wantPos := r2.Add(tt.pos, tt.wantV)
			if math.Abs(pos.X-wantPos.X) > 1e-12 || math.Abs(pos.Y-wantPos.Y) > 1e-12 {
				t.Errorf("pos = %v, want %v", pos, wantPos)
			}
		})
	}
}

func TestIntegrator_BounceExact(t *testing.T) {
	in := Integrator{Bounce: 0.4, Width: 800, Height: 800}
	pos := r2.Vec{X: 797, Y: 400}
	vel := r2.Vec{X: 5}
	reflected, _ := in.Advance(&pos, &vel, r2.Vec{}, 5, 1)
	if !reflected {
		t.Error("expected reflection")
	}
	if vel.X != -2.0 {
		t.Errorf("vx = %f, want -2.0", vel.X)
	}
}

func TestIntegrator_NoClamping(t *testing.T) {
	in := Integrator{Bounce: 0, Width: 100, Height: 100}
	pos := r2.Vec{X: 120, Y: 50}
	vel := r2.Vec{}
	in.Advance(&pos, &vel, r2.Vec{}, 5, 1)
	if pos.X != 120 {
		t.Errorf("pos.X = %f, want overshoot kept at 120", pos.X)
	}
}

func TestIntegrator_Order(t *testing.T) {
	// gravity and acceleration are applied before the position update
	in := Integrator{Gravity: 0.5, Width: 800, Height: 800}
	pos := r2.Vec{X: 100, Y: 100}
	vel := r2.Vec{X: 1, Y: 0}
	in.Advance(&pos, &vel, r2.Vec{X: 2, Y: -1}, 5, 2)

	wantVel := r2.Vec{X: 1 + 2*2, Y: 0.5*2 - 1*2}
	if vel != wantVel {
		t.Errorf("vel = %v, want %v", vel, wantVel)
	}
	wantPos := r2.Add(r2.Vec{X: 100, Y: 100}, r2.Scale(2, wantVel))
	if pos != wantPos {
		t.Errorf("pos = %v, want %v", pos, wantPos)
	}
}

func TestIntegrator_NonFiniteDiscarded(t *testing.T) {
	in := Integrator{Width: 800, Height: 800}
	pos := r2.Vec{X: 100, Y: 100}
	vel := r2.Vec{X: 1, Y: 1}
	_, reset := in.Advance(&pos, &vel, r2.Vec{X: math.Inf(1), Y: math.NaN()}, 5, 1)
	if !reset {
		t.Error("expected reset for non-finite acceleration")
	}
	if !finite(pos) || !finite(vel) {
		t.Errorf("state not finite: pos %v vel %v", pos, vel)
	}
}
