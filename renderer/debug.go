package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/fluid"
)

var (
	gridColor     = rl.Color{R: 60, G: 70, B: 80, A: 120}
	velocityColor = rl.Color{R: 120, G: 220, B: 120, A: 180}
)

// DebugRenderer draws overlay primitives, the hash grid and velocity vectors.
type DebugRenderer struct {
	probe color.RGBA
}

// NewDebugRenderer creates a debug renderer. Probe primitives are drawn
// in probeColor instead of their default red.
func NewDebugRenderer(probeColor color.RGBA) *DebugRenderer {
	return &DebugRenderer{probe: probeColor}
}

func (d *DebugRenderer) color(c fluid.Color) rl.Color {
	if c == fluid.ProbeColor {
		return d.probe
	}
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// DrawOverlay renders queued debug primitives.
func (d *DebugRenderer) DrawOverlay(o *fluid.Overlay) {
	if o == nil {
		return
	}
	for _, c := range o.Circles {
		rl.DrawCircleLines(int32(c.Center.X), int32(c.Center.Y), float32(c.Radius), d.color(c.Color))
	}
	for _, l := range o.Lines {
		rl.DrawLineV(vec(l.From), vec(l.To), d.color(l.Color))
	}
	for _, t := range o.Texts {
		rl.DrawText(t.Label, int32(t.Pos.X), int32(t.Pos.Y), 14, d.color(t.Color))
	}
}

// DrawGrid draws spatial hash cell boundaries over a width x height canvas.
func (d *DebugRenderer) DrawGrid(cellSize float64, width, height int) {
	for _, x := range GridLines(cellSize, width) {
		rl.DrawLine(int32(x), 0, int32(x), int32(height), gridColor)
	}
	for _, y := range GridLines(cellSize, height) {
		rl.DrawLine(0, int32(y), int32(width), int32(y), gridColor)
	}
}

// GridLines returns the cell boundaries in (0, extent). Tiny cells return
// nothing rather than flooding the canvas.
func GridLines(cellSize float64, extent int) []float64 {
	if !(cellSize >= 2) || extent <= 0 {
		return nil
	}
	n := int(math.Ceil(float64(extent)/cellSize)) - 1
	if n <= 0 {
		return nil
	}
	lines := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		lines = append(lines, float64(i)*cellSize)
	}
	return lines
}

// DrawVelocities draws each velocity as a segment scaled by scale.
func (d *DebugRenderer) DrawVelocities(pos, vel []r2.Vec, scale float64) {
	for i, p := range pos {
		end := r2.Add(p, r2.Scale(scale, vel[i]))
		rl.DrawLineV(vec(p), vec(end), velocityColor)
	}
}

func vec(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
