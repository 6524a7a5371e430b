package fluid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/config"
)

func testConfig() config.SimulationConfig {
	return config.SimulationConfig{
		Width:              800,
		Height:             800,
		Particles:          100,
		Gravity:            0.1,
		Friction:           0.1,
		Bounce:             0.4,
		PressureMultiplier: 0.007,
		TargetDensity:      0.02,
		SmoothingRadius:    50,
		ParticleMass:       10,
		Layout:             config.LayoutRandom,
		Seed:               1,
	}
}

func newConfigured(t *testing.T, cfg config.SimulationConfig) *Simulation {
	t.Helper()
	sim := New(cfg.Width, cfg.Height)
	require.NoError(t, sim.Configure(cfg))
	return sim
}

func TestSimulation_StateTransitions(t *testing.T) {
	sim := New(800, 800)
	assert.Equal(t, Idle, sim.State())
	assert.False(t, sim.Running())

	sim.Stop() // no-op when not running
	assert.Equal(t, Idle, sim.State())

	require.NoError(t, sim.Configure(testConfig()))
	assert.Equal(t, Configured, sim.State())

	sim.Start()
	assert.Equal(t, Running, sim.State())
	assert.True(t, sim.Running())

	sim.Start() // no-op when running
	assert.Equal(t, Running, sim.State())

	// live reconfigure keeps running
	cfg := testConfig()
	cfg.Gravity = 0.5
	require.NoError(t, sim.Configure(cfg))
	assert.Equal(t, Running, sim.State())

	sim.Stop()
	assert.Equal(t, Stopped, sim.State())
	assert.False(t, sim.Running())

	sim.Restart()
	assert.Equal(t, Running, sim.State())

	sim.Stop()
	require.NoError(t, sim.Configure(cfg))
	assert.Equal(t, Configured, sim.State())
}

func TestSimulation_StateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "configured", Configured.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestSimulation_ConfigRoundTrip(t *testing.T) {
	cfg := testConfig()
	sim := newConfigured(t, cfg)
	assert.Equal(t, cfg, sim.Config())

	cfg.PressureMultiplier = 3.5
	cfg.TargetDensity = 0.05
	cfg.Friction = 0.9
	require.NoError(t, sim.Configure(cfg))
	assert.Equal(t, cfg, sim.Config())
}

func TestSimulation_ConfigureRegeneratesOnCountChange(t *testing.T) {
	cfg := testConfig()
	sim := newConfigured(t, cfg)
	require.Equal(t, 100, sim.Len())

	sim.Start()
	sim.Step(1)
	before := sim.Particles()

	// parameter-only change keeps particles
	cfg.Gravity = 0.9
	require.NoError(t, sim.Configure(cfg))
	assert.Equal(t, before, sim.Particles())

	cfg.Particles = 250
	require.NoError(t, sim.Configure(cfg))
	assert.Equal(t, 250, sim.Len())
	assert.Equal(t, uint64(0), sim.Frame())
}

func TestSimulation_ConfigureRejectsAtomically(t *testing.T) {
	cfg := testConfig()
	sim := newConfigured(t, cfg)
	before := sim.Particles()

	tests := []struct {
		name   string
		mutate func(*config.SimulationConfig)
	}{
		{"zero radius", func(c *config.SimulationConfig) { c.SmoothingRadius = 0 }},
		{"nan gravity", func(c *config.SimulationConfig) { c.Gravity = math.NaN() }},
		{"canvas change", func(c *config.SimulationConfig) { c.Width = 640 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := cfg
			bad.Particles = 10
			tt.mutate(&bad)
			err := sim.Configure(bad)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Equal(t, cfg, sim.Config())
			assert.Equal(t, before, sim.Particles())
		})
	}
}

func TestSimulation_NegativeCountClamped(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = -3
	sim := newConfigured(t, cfg)
	assert.Equal(t, 0, sim.Len())
	assert.Equal(t, 0.0, sim.DensityAt(400, 400))
}

func TestSimulation_RandomSpawnInsideMargin(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 1000
	sim := newConfigured(t, cfg)

	for i := 0; i < sim.Len(); i++ {
		p := sim.Particle(i)
		assert.GreaterOrEqual(t, p.Pos.X, cfg.ParticleMass)
		assert.LessOrEqual(t, p.Pos.X, float64(cfg.Width)-cfg.ParticleMass)
		assert.GreaterOrEqual(t, p.Pos.Y, cfg.ParticleMass)
		assert.LessOrEqual(t, p.Pos.Y, float64(cfg.Height)-cfg.ParticleMass)
		assert.Equal(t, r2.Vec{}, p.Vel)
		assert.Equal(t, cfg.ParticleMass/2, p.Radius())
	}
}

func TestSimulation_SeedReproducible(t *testing.T) {
	a := newConfigured(t, testConfig())
	b := newConfigured(t, testConfig())
	assert.Equal(t, a.Particles(), b.Particles())
}

func TestSimulation_GridLayout(t *testing.T) {
	cfg := testConfig()
	cfg.Layout = config.LayoutGrid
	cfg.Particles = 9
	sim := newConfigured(t, cfg)

	// 3x3 lattice centred on (400, 400) with spacing 10
	assert.Equal(t, r2.Vec{X: 390, Y: 390}, sim.Particle(0).Pos)
	assert.Equal(t, r2.Vec{X: 400, Y: 400}, sim.Particle(4).Pos)
	assert.Equal(t, r2.Vec{X: 410, Y: 410}, sim.Particle(8).Pos)
}

func TestSimulation_EmptyStepNoOp(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 0
	sim := newConfigured(t, cfg)
	sim.Start()
	sim.Step(1)

	assert.Equal(t, 0, sim.Len())
	assert.Equal(t, uint64(0), sim.Frame())
	assert.Equal(t, 0.0, sim.DensityAt(10, 10))
	assert.Equal(t, 0.0, sim.DensityAt(400, 400))
}

func TestSimulation_InvalidDTNoOp(t *testing.T) {
	sim := newConfigured(t, testConfig())
	before := sim.Particles()
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		sim.Step(dt)
	}
	assert.Equal(t, before, sim.Particles())
	assert.Equal(t, uint64(0), sim.Frame())
}

func TestSimulation_SingleParticleDensity(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 0
	sim := newConfigured(t, cfg)
	sim.SetParticles([]Particle{{Pos: r2.Vec{X: 200, Y: 300}, Mass: 10}})

	r := cfg.SmoothingRadius
	want := 10 * 6 / (math.Pi * r * r * r * r) * r * r
	assert.InDelta(t, want, sim.DensityAt(200, 300), 1e-12)
}

func TestSimulation_TwoParticleSymmetry(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 0
	cfg.Gravity = 0
	cfg.Bounce = 0
	cfg.PressureMultiplier = 1
	cfg.TargetDensity = 0
	sim := newConfigured(t, cfg)
	sim.SetParticles([]Particle{
		{Pos: r2.Vec{X: 100, Y: 100}, Mass: 10},
		{Pos: r2.Vec{X: 100, Y: 110}, Mass: 10},
	})

	sim.Step(1)
	a, b := sim.Particle(0), sim.Particle(1)

	assert.InDelta(t, a.Density, b.Density, 1e-15)
	assert.Greater(t, a.Density, 0.0)

	// equal and opposite along y
	assert.Equal(t, 0.0, a.Vel.X)
	assert.Equal(t, 0.0, b.Vel.X)
	assert.Less(t, a.Vel.Y, 0.0)
	assert.Greater(t, b.Vel.Y, 0.0)
	assert.InDelta(t, -a.Vel.Y, b.Vel.Y, 1e-12)
	assert.Equal(t, uint64(1), sim.Frame())
}

func TestSimulation_CoincidentParticlesStayFinite(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 0
	sim := newConfigured(t, cfg)
	sim.SetParticles([]Particle{
		{Pos: r2.Vec{X: 300, Y: 300}, Mass: 10},
		{Pos: r2.Vec{X: 300, Y: 300}, Mass: 10},
		{Pos: r2.Vec{X: 300, Y: 300}, Mass: 10},
	})

	for range 10 {
		sim.Step(1)
	}
	for _, p := range sim.Particles() {
		assert.True(t, finite(p.Pos), "pos %v", p.Pos)
		assert.True(t, finite(p.Vel), "vel %v", p.Vel)
	}
}

func TestSimulation_CoincidentPairsCounted(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 0
	cfg.Gravity = 0
	sim := newConfigured(t, cfg)
	sim.SetParticles([]Particle{
		{Pos: r2.Vec{X: 300, Y: 300}, Mass: 10},
		{Pos: r2.Vec{X: 300, Y: 300}, Mass: 10},
	})
	sim.Step(1)

	stats := sim.LastStepStats()
	assert.Equal(t, 2, stats.CoincidentPairs)

	a, b := sim.Particle(0), sim.Particle(1)
	assert.InDelta(t, -a.Vel.X, b.Vel.X, 1e-12)
	assert.InDelta(t, -a.Vel.Y, b.Vel.Y, 1e-12)
}

func TestSimulation_LongRunStaysFinite(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 300
	sim := newConfigured(t, cfg)
	sim.Start()
	for range 100 {
		sim.Step(1)
	}
	for _, p := range sim.Particles() {
		require.True(t, finite(p.Pos))
		require.True(t, finite(p.Vel))
		require.False(t, math.IsNaN(p.Density))
	}
	assert.Equal(t, uint64(100), sim.Frame())
}

func TestSimulation_ProbeIsReadOnly(t *testing.T) {
	sim := newConfigured(t, testConfig())
	sim.Step(1)
	before := sim.Particles()

	res := sim.Probe(400, 400)
	assert.Equal(t, before, sim.Particles())
	assert.Equal(t, 50.0, res.Radius)
	assert.GreaterOrEqual(t, res.Density, 0.0)

	ov := sim.Overlay()
	require.Len(t, ov.Circles, 1)
	assert.Equal(t, r2.Vec{X: 400, Y: 400}, ov.Circles[0].Center)
	assert.Equal(t, 50.0, ov.Circles[0].Radius)
	assert.Equal(t, ProbeColor, ov.Circles[0].Color)
	require.Len(t, ov.Texts, 1)

	last, ok := sim.LastProbe()
	require.True(t, ok)
	assert.Equal(t, res, last)

	taken := ov.Take()
	assert.Len(t, taken.Circles, 1)
	assert.True(t, ov.Empty())
}

func TestSimulation_ProbeMatchesStepDensity(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 0
	sim := newConfigured(t, cfg)
	sim.SetParticles([]Particle{
		{Pos: r2.Vec{X: 100, Y: 100}, Mass: 10},
		{Pos: r2.Vec{X: 120, Y: 100}, Mass: 10},
	})
	want := sim.DensityAt(100, 100)
	sim.Step(1)
	assert.InDelta(t, want, sim.Particle(0).Density, 1e-15)
}

func TestSimulation_DensityAtFollowsMovedParticles(t *testing.T) {
	cfg := testConfig()
	cfg.Particles = 0
	cfg.Gravity = 0
	sim := newConfigured(t, cfg)
	sim.SetParticles([]Particle{
		{Pos: r2.Vec{X: 125, Y: 125}, Vel: r2.Vec{X: 200}, Mass: 10},
	})

	sim.Step(1)
	p := sim.Particle(0)
	require.Equal(t, r2.Vec{X: 325, Y: 125}, p.Pos, "particle should cross several cells")

	want := 10 * Kernel{Radius: 50}.Value(0)
	assert.InDelta(t, want, sim.DensityAt(325, 125), 1e-15)
	assert.Equal(t, 0.0, sim.DensityAt(125, 125), "old position no longer counted")

	res := sim.Probe(325, 125)
	assert.InDelta(t, want, res.Density, 1e-15)
}

func TestSimulation_GenerationCountsRegenerations(t *testing.T) {
	sim := New(800, 800)
	assert.Equal(t, uint64(0), sim.Generation())

	cfg := testConfig()
	require.NoError(t, sim.Configure(cfg))
	assert.Equal(t, uint64(1), sim.Generation())

	// parameter-only change keeps the particle set
	cfg.Gravity = 0.3
	require.NoError(t, sim.Configure(cfg))
	assert.Equal(t, uint64(1), sim.Generation())

	// count change at frame 0 still regenerates
	cfg.Particles = 20
	require.NoError(t, sim.Configure(cfg))
	assert.Equal(t, uint64(2), sim.Generation())
	assert.Equal(t, uint64(0), sim.Frame())

	sim.Regenerate()
	assert.Equal(t, uint64(3), sim.Generation())
}

type recordingTimer struct {
	phases []string
}

func (r *recordingTimer) StartPhase(phase string) {
	r.phases = append(r.phases, phase)
}

func TestSimulation_PhaseOrder(t *testing.T) {
	sim := newConfigured(t, testConfig())
	rec := &recordingTimer{}
	sim.SetPhaseTimer(rec)
	sim.Step(1)

	assert.Equal(t, []string{PhaseSpatialGrid, PhaseDensity, PhasePressure, PhaseIntegrate}, rec.phases)
}

func TestSimulation_SampleCopies(t *testing.T) {
	sim := newConfigured(t, testConfig())
	sim.Step(1)
	smp := sim.Sample()
	require.Len(t, smp.Densities, sim.Len())
	require.Len(t, smp.Speeds, sim.Len())

	smp.Densities[0] = -1
	assert.NotEqual(t, -1.0, sim.Particle(0).Density)
	assert.Equal(t, sim.Frame(), smp.Frame)
}

func BenchmarkSimulation_Step(b *testing.B) {
	cfg := testConfig()
	cfg.Particles = 1000
	sim := New(cfg.Width, cfg.Height)
	if err := sim.Configure(cfg); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Step(1)
	}
}
