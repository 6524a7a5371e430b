package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame uint64 `csv:"-"`
	WindowEndFrame   uint64 `csv:"window_end"`
	Steps            int    `csv:"steps"`
	Particles        int    `csv:"particles"`

	// Density distribution (sampled at window end)
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityCV   float64 `csv:"density_cv"` // std / mean
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`
	DensityMax  float64 `csv:"density_max"`

	// Motion (sampled at window end)
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedMax      float64 `csv:"speed_max"`
	KineticEnergy float64 `csv:"kinetic_energy"`

	// Degeneracies absorbed during the window
	DensityFloors   int `csv:"density_floors"`
	CoincidentPairs int `csv:"coincident_pairs"`
	Reflections     int `csv:"reflections"`
	NonFiniteResets int `csv:"non_finite_resets"`

	// Interaction
	Probes           int     `csv:"probes"`
	Reconfigures     int     `csv:"reconfigures"`
	LastProbeDensity float64 `csv:"last_probe_density"`
}

// Percentile calculates the p-th percentile of a sorted slice using linear
// interpolation. p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// FieldStats summarises one per-particle field.
type FieldStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// CV returns the coefficient of variation, or 0 when the mean is not positive.
func (f FieldStats) CV() float64 {
	if f.Mean <= 0 {
		return 0
	}
	return f.Std / f.Mean
}

// ComputeFieldStats calculates mean, population std-dev, percentiles and max.
func ComputeFieldStats(values []float64) FieldStats {
	if len(values) == 0 {
		return FieldStats{}
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	var std float64
	if variance > 0 {
		std = math.Sqrt(variance)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return FieldStats{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		Max:  floats.Max(values),
	}
}

// KineticEnergy returns sum(0.5 * m * v^2). Masses and speeds are parallel.
func KineticEnergy(masses, speeds []float64) float64 {
	if len(masses) == 0 || len(masses) != len(speeds) {
		return 0
	}
	sq := make([]float64, len(speeds))
	floats.MulTo(sq, speeds, speeds)
	return 0.5 * floats.Dot(masses, sq)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Int("steps", s.Steps),
		slog.Int("particles", s.Particles),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_std", s.DensityStd),
		slog.Float64("density_cv", s.DensityCV),
		slog.Float64("density_p10", s.DensityP10),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("density_max", s.DensityMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Int("density_floors", s.DensityFloors),
		slog.Int("coincident_pairs", s.CoincidentPairs),
		slog.Int("reflections", s.Reflections),
		slog.Int("non_finite_resets", s.NonFiniteResets),
		slog.Int("probes", s.Probes),
		slog.Int("reconfigures", s.Reconfigures),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
