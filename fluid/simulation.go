package fluid

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/sph/config"
)

// Phase names reported to a PhaseTimer during Step.
const (
	PhaseSpatialGrid = "spatial_grid"
	PhaseDensity     = "density"
	PhasePressure    = "pressure"
	PhaseIntegrate   = "integrate"
)

// PhaseTimer receives phase boundaries during Step. Each call ends the
// previous phase. telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// State is the controller lifecycle state.
type State int

const (
	Idle State = iota
	Configured
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Configured:
		return "configured"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StepStats counts degeneracies absorbed during the last step.
type StepStats struct {
	DensityFloors   int // densities raised to MinDensity before division
	CoincidentPairs int // neighbour pairs sharing a position
	Reflections     int // particles reflected off a wall
	NonFiniteResets int // particles whose non-finite state was discarded
}

// Add accumulates o into s.
func (s *StepStats) Add(o StepStats) {
	s.DensityFloors += o.DensityFloors
	s.CoincidentPairs += o.CoincidentPairs
	s.Reflections += o.Reflections
	s.NonFiniteResets += o.NonFiniteResets
}

// ProbeResult is the outcome of a density probe.
type ProbeResult struct {
	X, Y    float64
	Density float64
	Radius  float64
}

// Sample is a copy of the per-particle fields used by telemetry.
type Sample struct {
	Frame     uint64
	Densities []float64
	Speeds    []float64
	Masses    []float64
}

// Simulation owns the particle store, spatial hash and integrator and
// sequences them once per Step. It is not safe for concurrent use; callers
// drive it from a single frame loop.
type Simulation struct {
	width, height int

	cfg        config.SimulationConfig
	configured bool
	state      State

	store   Store
	grid    *SpatialHash
	kernel  Kernel
	field   Field
	integ   Integrator
	accel   []r2.Vec
	rng     *rand.Rand
	overlay Overlay
	timer   PhaseTimer

	gridDirty  bool
	frame      uint64
	generation uint64
	stats     StepStats
	lastProbe *ProbeResult
}

// New creates an idle simulation for a fixed canvas size.
func New(width, height int) *Simulation {
	return &Simulation{
		width:  width,
		height: height,
		grid:   NewSpatialHash(0),
		integ:  Integrator{Width: float64(width), Height: float64(height)},
		state:  Idle,
	}
}

// SetPhaseTimer installs a timer that receives phase boundaries from Step.
// Pass nil to disable.
func (s *Simulation) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

// Configure replaces all parameters at once. A negative particle count is
// clamped to zero. Any other invalid value is rejected with an error wrapping
// config.ErrInvalidConfig and leaves the simulation untouched.
// Particles are regenerated on the first call and whenever the count, mass,
// layout or seed changes.
func (s *Simulation) Configure(cfg config.SimulationConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		slog.Warn("config rejected", "error", err)
		return err
	}
	if cfg.Width != s.width || cfg.Height != s.height {
		err := fmt.Errorf("%w: canvas %dx%d is fixed, got %dx%d",
			config.ErrInvalidConfig, s.width, s.height, cfg.Width, cfg.Height)
		slog.Warn("config rejected", "error", err)
		return err
	}

	prev := s.cfg
	first := !s.configured
	regenerate := first ||
		cfg.Particles != prev.Particles ||
		cfg.ParticleMass != prev.ParticleMass ||
		cfg.Layout != prev.Layout ||
		cfg.Seed != prev.Seed

	s.cfg = cfg
	s.configured = true
	s.kernel = Kernel{Radius: cfg.SmoothingRadius}
	s.field = Field{PressureMultiplier: cfg.PressureMultiplier, TargetDensity: cfg.TargetDensity}
	s.integ = Integrator{
		Gravity: cfg.Gravity,
		Bounce:  cfg.Bounce,
		Width:   float64(s.width),
		Height:  float64(s.height),
	}
	s.grid.SetCellSize(cfg.SmoothingRadius)
	s.gridDirty = true

	if first || cfg.Seed != prev.Seed {
		s.rng = newRand(cfg.Seed)
	}
	if regenerate {
		s.regenerate()
	}

	if s.state != Running {
		s.state = Configured
	}

	slog.Info("configured",
		"state", s.state.String(),
		"particles", cfg.Particles,
		"regenerated", regenerate,
		"smoothing_radius", cfg.SmoothingRadius,
		"pressure_multiplier", cfg.PressureMultiplier,
		"target_density", cfg.TargetDensity,
	)
	return nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Regenerate rebuilds the particle set from the current config.
// It does nothing before the first Configure.
func (s *Simulation) Regenerate() {
	if !s.configured {
		return
	}
	s.regenerate()
}

func (s *Simulation) regenerate() {
	s.store.Reset(s.cfg, s.rng)
	s.accel = resizeVec(s.accel, s.store.Len())
	s.gridDirty = true
	s.frame = 0
	s.generation++
	s.stats = StepStats{}
}

// SetParticles replaces the particle set directly, keeping the current
// parameters. Velocity and density are taken from the given particles.
func (s *Simulation) SetParticles(particles []Particle) {
	s.store.Set(particles)
	s.accel = resizeVec(s.accel, s.store.Len())
	s.gridDirty = true
}

// Start begins per-frame stepping. It does nothing if already running.
func (s *Simulation) Start() {
	if s.state == Running {
		return
	}
	prev := s.state
	s.state = Running
	slog.Info("simulation started", "from", prev.String(), "frame", s.frame)
}

// Stop halts stepping and keeps all particle state. It does nothing unless running.
func (s *Simulation) Stop() {
	if s.state != Running {
		return
	}
	s.state = Stopped
	slog.Info("simulation stopped", "frame", s.frame)
}

// Restart stops then starts the simulation.
func (s *Simulation) Restart() {
	s.Stop()
	s.Start()
}

// Running reports whether the scheduler should keep requesting steps.
func (s *Simulation) Running() bool {
	return s.state == Running
}

// State returns the current lifecycle state.
func (s *Simulation) State() State {
	return s.state
}

// Config returns the parameters applied by the last successful Configure.
func (s *Simulation) Config() config.SimulationConfig {
	return s.cfg
}

// Generation counts how many times the particle set has been generated.
// It changes whenever Configure or Regenerate rebuilds the particles.
func (s *Simulation) Generation() uint64 {
	return s.generation
}

// Frame returns the number of steps taken since the particles were generated.
func (s *Simulation) Frame() uint64 {
	return s.frame
}

// LastStepStats returns the degeneracy counters from the most recent step.
func (s *Simulation) LastStepStats() StepStats {
	return s.stats
}

// Len returns the particle count.
func (s *Simulation) Len() int {
	return s.store.Len()
}

// Particle returns a view of particle i.
func (s *Simulation) Particle(i int) Particle {
	return s.store.At(i)
}

// Particles returns a copy of every particle.
func (s *Simulation) Particles() []Particle {
	out := make([]Particle, s.store.Len())
	for i := range out {
		out[i] = s.store.At(i)
	}
	return out
}

// Store exposes the particle arrays for rendering. Callers must not resize them.
func (s *Simulation) Store() *Store {
	return &s.store
}

// Overlay returns the debug overlay populated by Probe.
func (s *Simulation) Overlay() *Overlay {
	return &s.overlay
}

// LastProbe returns the most recent probe result, if any.
func (s *Simulation) LastProbe() (ProbeResult, bool) {
	if s.lastProbe == nil {
		return ProbeResult{}, false
	}
	return *s.lastProbe, true
}

// Sample copies densities, speeds and masses for statistics.
func (s *Simulation) Sample() Sample {
	n := s.store.Len()
	smp := Sample{
		Frame:     s.frame,
		Densities: make([]float64, n),
		Speeds:    make([]float64, n),
		Masses:    make([]float64, n),
	}
	copy(smp.Densities, s.store.density)
	copy(smp.Masses, s.store.mass)
	for i, v := range s.store.vel {
		smp.Speeds[i] = r2.Norm(v)
	}
	return smp
}

// Step advances the simulation by dt. The grid is rebuilt from the current
// positions, then all densities are computed, then all pressure
// accelerations, and only then are velocities and positions updated.
// A non-positive or non-finite dt, or an empty particle set, is a no-op.
func (s *Simulation) Step(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	n := s.store.Len()
	if n == 0 {
		return
	}

	var stats StepStats
	pos, vel := s.store.pos, s.store.vel
	mass, density := s.store.mass, s.store.density

	s.phase(PhaseSpatialGrid)
	s.grid.Rebuild(pos)
	s.gridDirty = false

	s.phase(PhaseDensity)
	computeDensities(s.grid, pos, mass, density, s.kernel)

	s.phase(PhasePressure)
	for i := range n {
		force, coincident := pressureForce(i, s.grid, pos, mass, density, s.kernel, s.field)
		stats.CoincidentPairs += coincident
		di := density[i]
		if !(di > MinDensity) {
			stats.DensityFloors++
			di = MinDensity
		}
		s.accel[i] = r2.Scale(1/di, force)
	}

	s.phase(PhaseIntegrate)
	for i := range n {
		reflected, reset := s.integ.Advance(&pos[i], &vel[i], s.accel[i], mass[i]/2, dt)
		if reflected {
			stats.Reflections++
		}
		if reset {
			stats.NonFiniteResets++
		}
	}

	// positions moved; the next DensityAt must rebuild
	s.gridDirty = true
	s.stats = stats
	s.frame++
}

func (s *Simulation) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// DensityAt returns the density at (x, y) from the current positions
// without changing particle state.
func (s *Simulation) DensityAt(x, y float64) float64 {
	if s.store.Len() == 0 || s.kernel.Radius <= 0 {
		return 0
	}
	if s.gridDirty {
		s.grid.Rebuild(s.store.pos)
		s.gridDirty = false
	}
	return DensityAt(r2.Vec{X: x, Y: y}, s.grid, s.store.pos, s.store.mass, s.kernel)
}

// Probe measures the density at (x, y) and marks the probe on the debug
// overlay with a circle of the smoothing radius and a density label.
func (s *Simulation) Probe(x, y float64) ProbeResult {
	res := ProbeResult{
		X:       x,
		Y:       y,
		Density: s.DensityAt(x, y),
		Radius:  s.kernel.Radius,
	}
	center := r2.Vec{X: x, Y: y}
	s.overlay.AddCircle(center, res.Radius, ProbeColor)
	s.overlay.AddText(r2.Add(center, r2.Vec{X: res.Radius, Y: -res.Radius}),
		fmt.Sprintf("density %.5f", res.Density), ProbeColor)
	s.lastProbe = &res

	slog.Info("probe", "x", x, "y", y, "density", res.Density)
	return res
}
