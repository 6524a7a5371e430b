package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/ui"
)

// handleInput applies last frame's panel events, then keyboard and mouse.
func (g *Game) handleInput() {
	ev := g.pending
	g.pending = ui.ControlEvents{}
	if ev.Changed {
		g.applyConfig(ev.Config)
	}
	if ev.Toggle {
		g.toggleRunning()
	}
	if ev.Step {
		g.singleStep()
	}
	if ev.Reset {
		g.regenerate()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.toggleRunning()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.singleStep()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.regenerate()
	}

	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.overlays.Toggle(desc.ID)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		mouse := rl.GetMousePosition()
		sc := g.sim.Config()
		if mouse.X >= 0 && mouse.Y >= 0 && int(mouse.X) < sc.Width && int(mouse.Y) < sc.Height {
			g.probe(float64(mouse.X), float64(mouse.Y))
		}
	}
}
