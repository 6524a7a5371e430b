package telemetry

import "github.com/pthm-cable/sph/fluid"

// Collector accumulates per-step counters within frame windows and produces WindowStats.
type Collector struct {
	windowFrames uint64

	// Current window tracking
	windowStartFrame uint64

	steps            int
	degeneracies     fluid.StepStats
	probes           int
	reconfigures     int
	lastProbeDensity float64
}

// NewCollector creates a new stats collector.
// windowFrames: how many simulation frames each stats window covers.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: uint64(windowFrames)}
}

// RecordStep records the counters of one completed step.
func (c *Collector) RecordStep(s fluid.StepStats) {
	c.steps++
	c.degeneracies.Add(s)
}

// RecordProbe records a density probe.
func (c *Collector) RecordProbe(p fluid.ProbeResult) {
	c.probes++
	c.lastProbeDensity = p.Density
}

// RecordConfigure records an applied configuration change.
func (c *Collector) RecordConfigure() {
	c.reconfigures++
}

// Reset restarts the window at frame, e.g. after particles are regenerated.
// Counters gathered so far are kept.
func (c *Collector) Reset(frame uint64) {
	c.windowStartFrame = frame
}

// ShouldFlush returns true if a full window of frames has passed.
func (c *Collector) ShouldFlush(frame uint64) bool {
	return frame >= c.windowStartFrame && frame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats from the counters and the sample taken at
// window end, then resets counters for the next window.
func (c *Collector) Flush(sample fluid.Sample) WindowStats {
	density := ComputeFieldStats(sample.Densities)
	speed := ComputeFieldStats(sample.Speeds)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   sample.Frame,
		Steps:            c.steps,
		Particles:        len(sample.Densities),

		DensityMean: density.Mean,
		DensityStd:  density.Std,
		DensityCV:   density.CV(),
		DensityP10:  density.P10,
		DensityP50:  density.P50,
		DensityP90:  density.P90,
		DensityMax:  density.Max,

		SpeedMean:     speed.Mean,
		SpeedMax:      speed.Max,
		KineticEnergy: KineticEnergy(sample.Masses, sample.Speeds),

		DensityFloors:   c.degeneracies.DensityFloors,
		CoincidentPairs: c.degeneracies.CoincidentPairs,
		Reflections:     c.degeneracies.Reflections,
		NonFiniteResets: c.degeneracies.NonFiniteResets,

		Probes:           c.probes,
		Reconfigures:     c.reconfigures,
		LastProbeDensity: c.lastProbeDensity,
	}

	// Reset for next window
	c.windowStartFrame = sample.Frame
	c.steps = 0
	c.degeneracies = fluid.StepStats{}
	c.probes = 0
	c.reconfigures = 0

	return stats
}

