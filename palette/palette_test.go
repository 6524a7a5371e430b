package palette

import (
	"image/color"
	"math"
	"testing"
)

func TestGradient_Endpoints(t *testing.T) {
	g, err := NewGradient("#000000", "#ffffff", 4)
	if err != nil {
		t.Fatalf("NewGradient: %v", err)
	}

	tests := []struct {
		name  string
		speed float64
		want  color.RGBA
	}{
		{"still", 0, color.RGBA{0, 0, 0, 255}},
		{"negative", -3, color.RGBA{0, 0, 0, 255}},
		{"nan", math.NaN(), color.RGBA{0, 0, 0, 255}},
		{"at scale", 4, color.RGBA{255, 255, 255, 255}},
		{"above scale", 100, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.At(tt.speed); got != tt.want {
				t.Errorf("At(%f) = %v, want %v", tt.speed, got, tt.want)
			}
		})
	}
}

func TestGradient_Monotonic(t *testing.T) {
	g, err := NewGradient("#000000", "#ffffff", 1)
	if err != nil {
		t.Fatalf("NewGradient: %v", err)
	}
	prev := g.At(0)
	for s := 0.05; s <= 1; s += 0.05 {
		c := g.At(s)
		if c.R < prev.R {
			t.Errorf("At(%f).R = %d, below previous %d", s, c.R, prev.R)
		}
		prev = c
	}
}

func TestNewGradient_BadHex(t *testing.T) {
	if _, err := NewGradient("blue", "#ffffff", 1); err == nil {
		t.Error("expected error for bad slow colour")
	}
	if _, err := NewGradient("#000000", "not-a-colour", 1); err == nil {
		t.Error("expected error for bad fast colour")
	}
}

func TestParse(t *testing.T) {
	c, err := Parse("#e03030")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := color.RGBA{0xe0, 0x30, 0x30, 255}
	if c != want {
		t.Errorf("Parse = %v, want %v", c, want)
	}
}
