package main

import (
	"fmt"

	"github.com/pthm-cable/sph/config"
)

// TunedParam is one optimisable simulation parameter. Bounds start from the
// slider table and may be tightened to keep the search away from values
// Configure rejects.
type TunedParam struct {
	config.ParamSpec
	Min, Max float64
}

// ParamVector holds the set of all optimisable parameters.
type ParamVector struct {
	Specs []TunedParam
}

// tunedBounds lists the tuned parameters with their search bounds.
// A zero bound falls back to the slider range.
var tunedBounds = []struct {
	name     string
	min, max float64
}{
	{"pressure_multiplier", 0.001, 2},
	{"target_density", 0.001, 0},
	{"smoothing_radius", 5, 0},
}

// NewParamVector creates the standard set of tuned parameters.
func NewParamVector() (*ParamVector, error) {
	pv := &ParamVector{}
	for _, b := range tunedBounds {
		spec, ok := config.Param(b.name)
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", b.name)
		}
		p := TunedParam{ParamSpec: spec, Min: spec.Min, Max: spec.Max}
		if b.min != 0 {
			p.Min = b.min
		}
		if b.max != 0 {
			p.Max = b.max
		}
		pv.Specs = append(pv.Specs, p)
	}
	return pv, nil
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// ExtractFromConfig reads the current parameter values, clamped to bounds.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Get(&cfg.Simulation)
	}
	return pv.Clamp(v)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].Set(&cfg.Simulation, v)
	}
}
