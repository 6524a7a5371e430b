package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sph/config"
	"github.com/pthm-cable/sph/game"
	"github.com/pthm-cable/sph/telemetry"
)

// Fitness weights.
const (
	warmupWindows   = 3    // skip the settling transient
	resetPenalty    = 1.0  // per non-finite reset per window
	emptyPenalty    = 10.0 // no usable windows
	targetErrWeight = 0.5  // relative miss of target density
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxFrames  int
	seeds      []int64
	baseConfig *config.Config

	mu         sync.Mutex
	lastResult EvalResult
}

// EvalResult summarises one evaluation across all seeds.
type EvalResult struct {
	Fitness     float64
	DensityCV   float64
	DensityMean float64
	Resets      int
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxFrames int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxFrames:  maxFrames,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastResult returns the result of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() EvalResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Seeds run in parallel, each with its own game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]EvalResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = scoreWindows(fe.runSimulation(x, s), fe.configFor(x).Simulation.TargetDensity)
		}(i, seed)
	}
	wg.Wait()

	var agg EvalResult
	for _, r := range results {
		agg.Fitness += r.Fitness
		agg.DensityCV += r.DensityCV
		agg.DensityMean += r.DensityMean
		agg.Resets += r.Resets
	}
	n := float64(len(results))
	if n > 0 {
		agg.Fitness /= n
		agg.DensityCV /= n
		agg.DensityMean /= n
	}

	fe.mu.Lock()
	fe.lastResult = agg
	fe.mu.Unlock()

	return agg.Fitness
}

// runSimulation executes one headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.configFor(x)

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil
	}
	defer g.Unload()

	for g.Frames() < fe.maxFrames {
		g.UpdateHeadless()
	}
	return windows
}

// configFor copies the base config and applies x.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	return &cfg
}

// scoreWindows turns a run's windows into a fitness: mean density CV after
// warm-up plus the relative miss of the target density, with a penalty for
// every non-finite reset.
func scoreWindows(windows []telemetry.WindowStats, target float64) EvalResult {
	if len(windows) <= warmupWindows {
		return EvalResult{Fitness: emptyPenalty}
	}
	valid := windows[warmupWindows:]

	cvs := make([]float64, 0, len(valid))
	means := make([]float64, 0, len(valid))
	resets := 0
	for _, w := range valid {
		resets += w.NonFiniteResets
		if w.Particles == 0 || math.IsNaN(w.DensityCV) {
			continue
		}
		cvs = append(cvs, w.DensityCV)
		means = append(means, w.DensityMean)
	}
	if len(cvs) == 0 {
		return EvalResult{Fitness: emptyPenalty, Resets: resets}
	}

	r := EvalResult{
		DensityCV:   stat.Mean(cvs, nil),
		DensityMean: stat.Mean(means, nil),
		Resets:      resets,
	}
	r.Fitness = r.DensityCV + resetPenalty*float64(resets)/float64(len(valid))
	if target > 0 {
		r.Fitness += targetErrWeight * math.Abs(r.DensityMean-target) / target
	}
	return r
}
