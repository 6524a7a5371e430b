package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/telemetry"
)

func TestParamVector_RoundTrip(t *testing.T) {
	pv, err := NewParamVector()
	require.NoError(t, err)
	require.Equal(t, 3, pv.Dim())

	cfg, err := config.Load("")
	require.NoError(t, err)

	raw := pv.ExtractFromConfig(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	assert.InDeltaSlice(t, raw, back, 1e-12)
}

func TestParamVector_ApplyClamps(t *testing.T) {
	pv, err := NewParamVector()
	require.NoError(t, err)

	cfg, err := config.Load("")
	require.NoError(t, err)

	pv.ApplyToConfig(cfg, []float64{-1, 5, 0})
	assert.Equal(t, 0.001, cfg.Simulation.PressureMultiplier)
	assert.Equal(t, 0.1, cfg.Simulation.TargetDensity)
	assert.Equal(t, 5.0, cfg.Simulation.SmoothingRadius, "radius lower bound keeps configs valid")
	assert.NoError(t, cfg.Simulation.Validate())
}

func TestScoreWindows(t *testing.T) {
	windows := make([]telemetry.WindowStats, warmupWindows+2)
	for i := range windows {
		windows[i] = telemetry.WindowStats{Particles: 10, DensityCV: 9, DensityMean: 1}
	}
	windows[warmupWindows] = telemetry.WindowStats{Particles: 10, DensityCV: 0.2, DensityMean: 0.02}
	windows[warmupWindows+1] = telemetry.WindowStats{Particles: 10, DensityCV: 0.4, DensityMean: 0.02, NonFiniteResets: 2}

	r := scoreWindows(windows, 0.02)
	assert.InDelta(t, 0.3, r.DensityCV, 1e-12, "warm-up windows skipped")
	assert.Equal(t, 2, r.Resets)
	assert.InDelta(t, 0.3+1.0, r.Fitness, 1e-12)

	assert.Equal(t, emptyPenalty, scoreWindows(windows[:warmupWindows], 0.02).Fitness)
}

func TestFitnessEvaluator_Evaluate(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Simulation.Particles = 40
	cfg.Simulation.Width = 200
	cfg.Simulation.Height = 200
	cfg.Telemetry.StatsWindow = 5

	pv, err := NewParamVector()
	require.NoError(t, err)

	fe := NewFitnessEvaluator(pv, 30, []int64{1, 2}, cfg)
	fitness := fe.Evaluate(pv.ExtractFromConfig(cfg))

	res := fe.LastResult()
	assert.Equal(t, fitness, res.Fitness)
	assert.Less(t, fitness, emptyPenalty)
	assert.Greater(t, res.DensityMean, 0.0)
	assert.Equal(t, 40, cfg.Simulation.Particles, "base config untouched")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1m05s", formatDuration(65*time.Second))
	assert.Equal(t, "2h03m04s", formatDuration(2*time.Hour+3*time.Minute+4*time.Second))
}
