package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

const (
	velocityScale = 4.0
	controlsHelp  = "SPACE run/stop  N step  R reset  click probe"
)

// Draw renders the canvas and side panel, then closes the perf tick
// opened by Update.
func (g *Game) Draw() {
	g.perf.RecordFrame()
	g.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.drawCanvas()
	g.drawPanel()

	rl.EndDrawing()

	g.perf.EndTick()
}

func (g *Game) drawCanvas() {
	sc := g.sim.Config()
	store := g.sim.Store()

	if g.overlays.IsEnabled(ui.OverlayGrid) {
		g.debug.DrawGrid(sc.SmoothingRadius, sc.Width, sc.Height)
	}

	mode := renderer.ColorBySpeed
	if g.overlays.IsEnabled(ui.OverlayDensityColors) {
		mode = renderer.ColorByDensity
	}
	g.particles.Draw(mode, store.Positions(), store.Velocities(), store.Masses(), store.Densities())

	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		g.debug.DrawVelocities(store.Positions(), store.Velocities(), velocityScale)
	}

	g.debug.DrawOverlay(&g.overlay)
}

func (g *Game) drawPanel() {
	sc := g.sim.Config()
	theme := ui.DefaultTheme()
	x := int32(sc.Width) + theme.Padding

	ev, y := g.controls.Draw(sc, g.sim.Running(), g.overlays)
	g.pending = ev

	probe, hasProbe := g.sim.LastProbe()
	y = g.hud.Draw(x, y, ui.HUDData{
		State:     g.sim.State(),
		Frame:     g.sim.Frame(),
		Particles: g.sim.Len(),
		FPS:       rl.GetFPS(),
		Probe:     probe,
		HasProbe:  hasProbe,
		Step:      g.sim.LastStepStats(),
		Window:    g.lastWindow,
	})

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(x, y+theme.Padding, g.perf.Stats())
	}

	g.hud.DrawControls(x, int32(sc.Height), controlsHelp)
}
