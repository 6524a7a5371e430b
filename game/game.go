// Package game runs the frame loop: it owns the fluid simulation, feeds
// telemetry, and handles drawing and input in graphical mode.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/fluid"
	"github.com/pthm-cable/sph/palette"
	"github.com/pthm-cable/sph/renderer"
	"github.com/pthm-cable/sph/telemetry"
	"github.com/pthm-cable/sph/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64          // overrides simulation.seed when non-zero
	LogStats       bool           // log window and perf stats via slog
	OutputDir      string         // CSV and config snapshot directory (empty = disabled)
	Headless       bool           // skip all raylib resources
	StepsPerUpdate int            // 0 = physics.steps_per_update
	Config         *config.Config // nil = config.Cfg()

	// StatsCallback receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the simulation and everything around it.
type Game struct {
	cfg *config.Config
	sim *fluid.Simulation

	dt             float64
	stepsPerUpdate int
	headless       bool
	updates        int

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	lastWindow    telemetry.WindowStats

	// Debug primitives shown until the next step
	overlay fluid.Overlay

	// Rendering, nil when headless
	particles *renderer.ParticleRenderer
	debug     *renderer.DebugRenderer
	overlays  *ui.OverlayRegistry
	controls  *ui.ControlPanel
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	pending   ui.ControlEvents
}

// NewGameWithOptions creates a configured, stopped game.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	simCfg := cfg.Simulation
	if opts.Seed != 0 {
		simCfg.Seed = opts.Seed
	}

	g := &Game{
		cfg:            cfg,
		sim:            fluid.New(simCfg.Width, simCfg.Height),
		dt:             cfg.Physics.DT,
		stepsPerUpdate: cfg.Physics.StepsPerUpdate,
		headless:       opts.Headless,
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
	}
	if opts.StepsPerUpdate > 0 {
		g.stepsPerUpdate = opts.StepsPerUpdate
	}
	if g.stepsPerUpdate < 1 {
		g.stepsPerUpdate = 1
	}
	if !(g.dt > 0) {
		g.dt = 1
	}

	g.sim.SetPhaseTimer(g.perf)
	if err := g.sim.Configure(simCfg); err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = output
	if g.output != nil {
		snapshot := *cfg
		snapshot.Simulation = g.sim.Config()
		if err := g.output.WriteConfig(&snapshot); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	if !g.headless {
		if err := g.initRendering(); err != nil {
			g.output.Close()
			return nil, err
		}
	}

	return g, nil
}

func (g *Game) initRendering() error {
	rc := g.cfg.Render
	particles, err := renderer.NewParticleRenderer(rc.SlowColor, rc.FastColor, rc.SpeedScale)
	if err != nil {
		return fmt.Errorf("render colours: %w", err)
	}
	probe, err := palette.Parse(rc.ProbeColor)
	if err != nil {
		return fmt.Errorf("render colours: %w", err)
	}

	sc := g.sim.Config()
	panelWidth := int32(g.cfg.Screen.PanelWidth)

	g.particles = particles
	g.debug = renderer.NewDebugRenderer(probe)
	g.overlays = ui.NewOverlayRegistry()
	g.controls = ui.NewControlPanel(int32(sc.Width), 0, panelWidth, int32(sc.Height))
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(panelWidth - 2*ui.DefaultTheme().Padding)
	return nil
}

// Update processes input and advances the simulation while running.
// The perf tick it opens is closed by Draw.
func (g *Game) Update() {
	g.perf.StartTick()
	g.handleInput()
	if g.sim.Running() {
		g.step(g.stepsPerUpdate)
	}
	g.updates++
}

// UpdateHeadless starts the simulation if needed and advances it one update.
func (g *Game) UpdateHeadless() {
	if !g.sim.Running() {
		g.sim.Start()
	}
	g.perf.StartTick()
	g.step(g.stepsPerUpdate)
	g.perf.EndTick()
	g.updates++
}

// step runs n simulation steps, feeding telemetry after each.
func (g *Game) step(n int) {
	for range n {
		before := g.sim.Frame()
		g.sim.Step(g.dt)
		if g.sim.Frame() == before {
			// no-op step: nothing to record
			continue
		}
		g.collector.RecordStep(g.sim.LastStepStats())
		g.overlay.Clear()
		g.flushTelemetry()
	}
}

// toggleRunning starts a stopped simulation or stops a running one.
func (g *Game) toggleRunning() {
	if g.sim.Running() {
		g.sim.Stop()
	} else {
		g.sim.Start()
	}
}

// singleStep advances one step while not running.
func (g *Game) singleStep() {
	if g.sim.Running() {
		return
	}
	g.step(1)
}

// regenerate rebuilds the particle set and restarts the stats window.
func (g *Game) regenerate() {
	g.sim.Regenerate()
	g.collector.Reset(g.sim.Frame())
	g.overlay.Clear()
}

// applyConfig reconfigures the simulation. Rejected configs leave
// everything unchanged.
func (g *Game) applyConfig(next config.SimulationConfig) bool {
	gen := g.sim.Generation()
	if err := g.sim.Configure(next); err != nil {
		return false
	}
	g.collector.RecordConfigure()
	if g.sim.Generation() != gen {
		// particles were regenerated
		g.collector.Reset(g.sim.Frame())
		g.overlay.Clear()
	}
	return true
}

// probe measures density at (x, y) and keeps the marker for display.
func (g *Game) probe(x, y float64) fluid.ProbeResult {
	res := g.sim.Probe(x, y)
	g.collector.RecordProbe(res)
	g.overlay = g.sim.Overlay().Take()
	return res
}

// Sim returns the underlying simulation.
func (g *Game) Sim() *fluid.Simulation {
	return g.sim
}

// Frames returns the number of Update or UpdateHeadless calls so far.
func (g *Game) Frames() int {
	return g.updates
}

// LastWindow returns the most recently flushed stats window.
func (g *Game) LastWindow() telemetry.WindowStats {
	return g.lastWindow
}

// Unload releases resources and flushes output files.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
