package config

import (
	"math"
	"testing"
)

func TestParamRanges(t *testing.T) {
	want := map[string][3]float64{
		"n_particles":         {0, 5000, 1},
		"gravity":             {0, 1, 0.01},
		"friction":            {0, 1, 0.01},
		"bounce":              {0, 1, 0.01},
		"pressure_multiplier": {0, 10, 0.01},
		"target_density":      {0, 0.1, 0.001},
		"smoothing_radius":    {0, 100, 1},
	}
	if len(Params) != len(want) {
		t.Fatalf("len(Params) = %d, want %d", len(Params), len(want))
	}
	for name, r := range want {
		p, ok := Param(name)
		if !ok {
			t.Errorf("Param(%q) missing", name)
			continue
		}
		if p.Min != r[0] || p.Max != r[1] || p.Step != r[2] {
			t.Errorf("%s range = [%v, %v] step %v, want [%v, %v] step %v",
				name, p.Min, p.Max, p.Step, r[0], r[1], r[2])
		}
	}
}

func TestParamGetSet(t *testing.T) {
	var s SimulationConfig
	for i, p := range Params {
		p.Set(&s, float64(i+1))
	}
	for i, p := range Params {
		if got := p.Get(&s); got != float64(i+1) {
			t.Errorf("%s Get = %v, want %v", p.Name, got, float64(i+1))
		}
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name  string
		param string
		in    float64
		want  float64
	}{
		{"particles rounds", "n_particles", 12.6, 13},
		{"particles clamps high", "n_particles", 9000, 5000},
		{"gravity snaps", "gravity", 0.234, 0.23},
		{"target density snaps", "target_density", 0.0126, 0.013},
		{"radius clamps low", "smoothing_radius", -4, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := Param(tc.param)
			got := p.Quantize(tc.in)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Quantize(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeDenormalize(t *testing.T) {
	p, _ := Param("pressure_multiplier")
	for _, v := range []float64{0, 2.5, 10} {
		if got := p.Denormalize(p.Normalize(v)); math.Abs(got-v) > 1e-12 {
			t.Errorf("Denormalize(Normalize(%v)) = %v", v, got)
		}
	}
}

func TestDefaultsOnSliderGrid(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, p := range Params {
		v := p.Get(&cfg.Simulation)
		if got := p.Quantize(v); math.Abs(got-v) > 1e-9 {
			t.Errorf("default %s = %v, slider snaps it to %v", p.Name, v, got)
		}
	}
}
