package config

import "math"

// ParamSpec describes one user-adjustable simulation parameter.
// The same table drives the control panel sliders and the tuner bounds.
type ParamSpec struct {
	Name   string  // yaml key
	Label  string  // display label
	Min    float64 // lower bound
	Max    float64 // upper bound
	Step   float64 // slider granularity
	Format string  // printf format for display

	Get func(*SimulationConfig) float64
	Set func(*SimulationConfig, float64)
}

// Params is the slider range table for the simulation parameters.
var Params = []ParamSpec{
	{
		Name: "n_particles", Label: "Particles", Min: 0, Max: 5000, Step: 1, Format: "%.0f",
		Get: func(s *SimulationConfig) float64 { return float64(s.Particles) },
		Set: func(s *SimulationConfig, v float64) { s.Particles = int(math.Round(v)) },
	},
	{
		Name: "gravity", Label: "Gravity", Min: 0, Max: 1, Step: 0.01, Format: "%.2f",
		Get: func(s *SimulationConfig) float64 { return s.Gravity },
		Set: func(s *SimulationConfig, v float64) { s.Gravity = v },
	},
	{
		Name: "friction", Label: "Friction", Min: 0, Max: 1, Step: 0.01, Format: "%.2f",
		Get: func(s *SimulationConfig) float64 { return s.Friction },
		Set: func(s *SimulationConfig, v float64) { s.Friction = v },
	},
	{
		Name: "bounce", Label: "Bounce", Min: 0, Max: 1, Step: 0.01, Format: "%.2f",
		Get: func(s *SimulationConfig) float64 { return s.Bounce },
		Set: func(s *SimulationConfig, v float64) { s.Bounce = v },
	},
	{
		Name: "pressure_multiplier", Label: "Pressure multiplier", Min: 0, Max: 10, Step: 0.01, Format: "%.2f",
		Get: func(s *SimulationConfig) float64 { return s.PressureMultiplier },
		Set: func(s *SimulationConfig, v float64) { s.PressureMultiplier = v },
	},
	{
		Name: "target_density", Label: "Target density", Min: 0, Max: 0.1, Step: 0.001, Format: "%.3f",
		Get: func(s *SimulationConfig) float64 { return s.TargetDensity },
		Set: func(s *SimulationConfig, v float64) { s.TargetDensity = v },
	},
	{
		Name: "smoothing_radius", Label: "Smoothing radius", Min: 0, Max: 100, Step: 1, Format: "%.0f",
		Get: func(s *SimulationConfig) float64 { return s.SmoothingRadius },
		Set: func(s *SimulationConfig, v float64) { s.SmoothingRadius = v },
	},
}

// Param returns the spec with the given name.
func Param(name string) (ParamSpec, bool) {
	for _, p := range Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Clamp limits v to [Min, Max].
func (p ParamSpec) Clamp(v float64) float64 {
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// Quantize clamps v and snaps it to the nearest multiple of Step above Min.
func (p ParamSpec) Quantize(v float64) float64 {
	v = p.Clamp(v)
	if p.Step <= 0 {
		return v
	}
	n := math.Round((v - p.Min) / p.Step)
	return p.Clamp(p.Min + n*p.Step)
}

// Normalize maps v from [Min, Max] to [0, 1].
func (p ParamSpec) Normalize(v float64) float64 {
	if p.Max == p.Min {
		return 0
	}
	return (v - p.Min) / (p.Max - p.Min)
}

// Denormalize maps x from [0, 1] back to [Min, Max].
func (p ParamSpec) Denormalize(x float64) float64 {
	return p.Min + x*(p.Max-p.Min)
}
