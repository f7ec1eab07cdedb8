package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Fitness weights.
const (
	collapsePenalty  = 1.0 // Subtracted per unit of collapsed-tick fraction
	stabilityBonus   = 0.2 // Up to 20% on top of biodiversity
	warmupWindows    = 1   // Windows skipped before scoring
	defaultWindowLen = 300
)

// runResult holds the results from a single simulation run.
type runResult struct {
	ticks       int
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
}

// Score summarizes one evaluation.
type Score struct {
	Fitness       float64
	Biodiversity  float64
	Stability     float64
	CollapsedFrac float64
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	ticks       int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu   sync.Mutex
	last Score
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	window := baseCfg.Telemetry.StatsWindow
	if window <= 0 {
		window = defaultWindowLen
	}
	return &FitnessEvaluator{
		params:      params,
		ticks:       ticks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: window,
	}
}

// Last returns the score from the most recent evaluation.
func (fe *FitnessEvaluator) Last() Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for raw control values (lower = better),
// averaged over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) (float64, error) {
	results := make([]Score, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r, err := fe.runSimulation(x, s)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = computeScore(r)
		}(i, seed)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return 0, err
		}
	}

	var avg Score
	for _, r := range results {
		avg.Fitness += r.Fitness
		avg.Biodiversity += r.Biodiversity
		avg.Stability += r.Stability
		avg.CollapsedFrac += r.CollapsedFrac
	}
	n := float64(len(results))
	avg.Fitness /= n
	avg.Biodiversity /= n
	avg.Stability /= n
	avg.CollapsedFrac /= n

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return avg.Fitness, nil
}

// runSimulation executes a single headless run with the controls fixed.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	result := &runResult{}
	g, err := game.NewGameWithOptions(game.Options{
		Config:      &cfg,
		Seed:        seed,
		StatsWindow: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer g.Close()

	for g.Tick() < fe.ticks {
		g.Step()
	}
	result.ticks = g.Tick()
	return result, nil
}

// computeScore turns one run's windows into a score.
// Fitness = -(biodiversity × (1 + 0.2 × stability)) + collapsedFraction.
func computeScore(r *runResult) Score {
	if len(r.windowStats) <= warmupWindows || r.ticks == 0 {
		return Score{Fitness: collapsePenalty, CollapsedFrac: 1}
	}
	valid := r.windowStats[warmupWindows:]

	var bio float64
	var collapsed, scored int
	series := make([][]float64, components.NumSpecies)
	for _, w := range valid {
		bio += w.BiodiversityMean
		collapsed += w.CollapsedTicks
		scored += w.WindowEndTick - w.WindowStartTick
		for sp, v := range w.Mean() {
			series[sp] = append(series[sp], v)
		}
	}
	bio /= float64(len(valid))

	// Stability from the spread of window means across the run
	var cvSq float64
	for _, values := range series {
		cv := telemetry.ComputeSpeciesStats(values).CV()
		cvSq += cv * cv
	}
	stability := math.Exp(-cvSq)

	frac := 0.0
	if scored > 0 {
		frac = float64(collapsed) / float64(scored)
	}

	return Score{
		Fitness:       -(bio * (1 + stabilityBonus*stability)) + collapsePenalty*frac,
		Biodiversity:  bio,
		Stability:     stability,
		CollapsedFrac: frac,
	}
}
