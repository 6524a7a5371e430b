package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/fluid"
	"github.com/pthm-cable/sph/telemetry"
)

// HUDData holds all the data needed to render the status block.
type HUDData struct {
	State     fluid.State
	Frame     uint64
	Particles int
	FPS       int32

	Probe    fluid.ProbeResult
	HasProbe bool

	Step   fluid.StepStats
	Window telemetry.WindowStats
}

// HUD renders the status block under the control panel.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD at (x, y) and returns the Y below it.
func (h *HUD) Draw(x, y int32, data HUDData) int32 {
	r := h.renderer

	stateColor := rl.Yellow
	if data.State == fluid.Running {
		stateColor = rl.Green
	}
	rl.DrawText(data.State.String(), x, y, r.Theme.HeaderFontSize, stateColor)
	y += r.Theme.LineHeight + 4

	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d", data.Frame))
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d", data.Particles))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))

	if data.HasProbe {
		y = r.DrawLabelValue(x, y, "Probe", fmt.Sprintf("(%.0f, %.0f) %.5f", data.Probe.X, data.Probe.Y, data.Probe.Density))
	}

	y += 4
	y = r.DrawSectionHeader(x, y, "Field")
	y = r.DrawLabelValue(x, y, "Density mean", fmt.Sprintf("%.5f", data.Window.DensityMean))
	y = r.DrawLabelValue(x, y, "Density CV", fmt.Sprintf("%.3f", data.Window.DensityCV))
	y = r.DrawLabelValue(x, y, "Speed max", fmt.Sprintf("%.2f", data.Window.SpeedMax))

	// Last step counters; only shown when something degenerate happened.
	if data.Step.CoincidentPairs > 0 || data.Step.DensityFloors > 0 || data.Step.NonFiniteResets > 0 {
		y = r.DrawLabelValue(x, y, "Coincident", fmt.Sprintf("%d", data.Step.CoincidentPairs))
		y = r.DrawLabelValue(x, y, "Floored", fmt.Sprintf("%d", data.Step.DensityFloors))
		y = r.DrawLabelValue(x, y, "Resets", fmt.Sprintf("%d", data.Step.NonFiniteResets))
	}

	return y
}

// DrawControls renders the key legend at the bottom of the panel.
func (h *HUD) DrawControls(x, screenHeight int32, controls string) {
	rl.DrawText(controls, x, screenHeight-25, 12, rl.Gray)
}

// PerfPanel renders step phase timings.
type PerfPanel struct {
	renderer *Renderer
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Draw renders the phase breakdown at (x, y) and returns the Y below it.
func (p *PerfPanel) Draw(x, y int32, stats telemetry.PerfStats) int32 {
	r := p.renderer
	y = r.DrawSectionHeader(x, y, "Perf")
	y = r.DrawLabelValue(x, y, "Frame", stats.AvgTickDuration.Round(time.Microsecond).String())

	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, float32(stats.PhasePct[phase]/100), 0.5, p.width)
	}
	return y
}
