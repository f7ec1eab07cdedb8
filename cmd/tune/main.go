package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ecosim/config"
)

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	Biodiversity    float64 `csv:"biodiversity"`
	Stability       float64 `csv:"stability"`
	CollapsedFrac   float64 `csv:"collapsed_frac"`
	Rainfall        float64 `csv:"rainfall"`
	Temperature     float64 `csv:"temperature"`
	InvasiveSpecies float64 `csv:"invasive_species"`
	HumanImpact     float64 `csv:"human_impact"`
}

// newEvalRecord builds a log row from clamped control values.
func newEvalRecord(eval int, s Score, values []float64) EvalRecord {
	return EvalRecord{
		Eval:            eval,
		Fitness:         s.Fitness,
		Biodiversity:    s.Biodiversity,
		Stability:       s.Stability,
		CollapsedFrac:   s.CollapsedFrac,
		Rainfall:        values[0],
		Temperature:     values[1],
		InvasiveSpecies: values[2],
		HumanImpact:     values[3],
	}
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	ticks := flag.Int("ticks", 6000, "Simulation length per run in ticks")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 150, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector(baseCfg.Controls)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, *ticks, evalSeeds, baseCfg)

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	var evalErr error
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness, err := evaluator.Evaluate(clamped)
			if err != nil {
				evalErr = err
				return math.Inf(1)
			}
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			rec := []EvalRecord{newEvalRecord(evalCount, evaluator.Last(), clamped)}
			if headerWritten {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			} else {
				err = gocsv.Marshal(rec, logFile)
				headerWritten = true
			}
			if err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			last := evaluator.Last()
			fmt.Printf("Eval %d/%d: biodiversity=%.3f collapsed=%.1f%% (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, last.Biodiversity, last.CollapsedFrac*100, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}
	method := &optimize.NelderMead{SimplexSize: 0.2}

	fmt.Printf("Starting Nelder-Mead over %d controls, max_evals=%d\n", params.Dim(), *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *ticks)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if evalErr != nil {
		log.Fatalf("evaluation failed: %v", evalErr)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)
	fmt.Println("\nBest controls:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.3f\n", spec.Name, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
