package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/config"
)

// ControlEvents reports what the user did on the panel during one frame.
type ControlEvents struct {
	Config  config.SimulationConfig // slider values after this frame
	Changed bool                    // at least one slider moved
	Toggle  bool                    // start/stop pressed
	Step    bool                    // single step pressed
	Reset   bool                    // regenerate pressed
}

// ControlPanel draws the parameter sliders and simulation buttons to the
// right of the canvas.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
	params   []config.ParamSpec
}

// NewControlPanel creates a panel at x spanning the given size.
func NewControlPanel(x, y, width, height int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
		params:   config.Params,
	}
}

// Draw renders the panel and returns the resulting events. The returned
// Config is cfg with every moved slider applied.
func (c *ControlPanel) Draw(cfg config.SimulationConfig, running bool, overlays *OverlayRegistry) (ControlEvents, int32) {
	r := c.renderer
	t := r.Theme
	ev := ControlEvents{Config: cfg}

	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := float32(c.x + t.Padding)
	y := c.y + t.Padding

	rl.DrawText("Simulation", int32(x), y, 18, rl.White)
	y += 28

	sliderWidth := float32(c.width - 2*t.Padding - 60)
	for _, spec := range c.params {
		cur := spec.Get(&ev.Config)
		r.DrawLabel(int32(x), y, spec.Label)
		y += t.LineHeight

		raw := gui.SliderBar(
			rl.Rectangle{X: x, Y: float32(y), Width: sliderWidth, Height: float32(t.SliderHeight)},
			"", "",
			float32(cur), float32(spec.Min), float32(spec.Max),
		)
		rl.DrawText(fmt.Sprintf(spec.Format, cur), int32(x+sliderWidth)+8, y+2, t.FontSize, t.ValueColor)

		if next, changed := ApplySlider(ev.Config, spec, float64(raw)); changed {
			ev.Config = next
			ev.Changed = true
		}
		y += t.SliderHeight + 8
	}

	y += 6
	buttonWidth := float32(c.width-2*t.Padding-20) / 3
	bh := float32(t.ButtonHeight)
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: buttonWidth, Height: bh}, toggleText(running, "Stop", "Start")) {
		ev.Toggle = true
	}
	if gui.Button(rl.Rectangle{X: x + buttonWidth + 10, Y: float32(y), Width: buttonWidth, Height: bh}, "Step") {
		ev.Step = true
	}
	if gui.Button(rl.Rectangle{X: x + 2*(buttonWidth+10), Y: float32(y), Width: buttonWidth, Height: bh}, "Reset") {
		ev.Reset = true
	}
	y += t.ButtonHeight + 16

	if overlays != nil {
		y = r.DrawSectionHeader(int32(x), y, "Overlays")
		for _, desc := range overlays.All() {
			mark := "[ ]"
			if overlays.IsEnabled(desc.ID) {
				mark = "[x]"
			}
			r.DrawLabel(int32(x), y, fmt.Sprintf("%s %s  (%s)", mark, desc.Name, desc.KeyLabel))
			y += t.LineHeight
		}
		y += 6
	}

	return ev, y
}

// ApplySlider quantizes a raw slider value onto the parameter's step grid
// and writes it into cfg. Movements smaller than half a step are ignored so
// float32 round trips through the slider do not count as changes.
func ApplySlider(cfg config.SimulationConfig, spec config.ParamSpec, raw float64) (config.SimulationConfig, bool) {
	if math.IsNaN(raw) {
		return cfg, false
	}
	cur := spec.Get(&cfg)
	v := spec.Quantize(raw)
	if math.Abs(v-cur) < spec.Step/2 {
		return cfg, false
	}
	spec.Set(&cfg, v)
	return cfg, true
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
