package renderer

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestGridLines(t *testing.T) {
	tests := []struct {
		name     string
		cellSize float64
		extent   int
		want     int
	}{
		{"exact fit", 50, 800, 15},
		{"partial last cell", 30, 100, 3},
		{"cell larger than canvas", 1000, 800, 0},
		{"zero cell", 0, 800, 0},
		{"tiny cell", 1, 800, 0},
		{"empty canvas", 50, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GridLines(tt.cellSize, tt.extent)
			if len(got) != tt.want {
				t.Fatalf("GridLines(%v, %d) has %d lines, want %d", tt.cellSize, tt.extent, len(got), tt.want)
			}
			for i, x := range got {
				if x <= 0 || x >= float64(tt.extent) {
					t.Errorf("line %d at %v outside canvas", i, x)
				}
			}
		})
	}
}

func TestParticleRenderer_Colors(t *testing.T) {
	r, err := NewParticleRenderer("#000000", "#ffffff", 4)
	if err != nil {
		t.Fatalf("NewParticleRenderer: %v", err)
	}

	vel := []r2.Vec{{}, {X: 8}}
	density := []float64{0, 0.5}

	speed := r.Colors(ColorBySpeed, vel, density)
	if speed[0].R != 0 || speed[1].R != 255 {
		t.Errorf("speed colours = %v, want black then white", speed)
	}

	dens := r.Colors(ColorByDensity, vel, density)
	if dens[0].R != 0 || dens[1].R != 255 {
		t.Errorf("density colours = %v, want black then white", dens)
	}

	// all-zero density stays at the low end
	dens = r.Colors(ColorByDensity, vel, []float64{0, 0})
	if dens[1].R != 0 {
		t.Errorf("zero density colour = %v, want black", dens[1])
	}
}

func TestNewParticleRenderer_BadColor(t *testing.T) {
	if _, err := NewParticleRenderer("nope", "#ffffff", 1); err == nil {
		t.Error("expected error for invalid colour")
	}
}
