package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call in headless mode")
	exportPath := flag.String("export", telemetry.SeriesFileName, "CSV path for the population series export")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindow:    *statsWindow,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxTicks, *exportPath))
	}
	os.Exit(runGraphical(cfg, opts, *maxTicks, *exportPath))
}

// runHeadless ticks as fast as possible and exports the series on exit.
func runHeadless(opts game.Options, maxTicks int, exportPath string) int {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return 1
	}
	defer g.Close()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindow,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	if maxTicks <= 0 {
		for {
			g.UpdateHeadless()
		}
	}

	for g.Tick() < maxTicks {
		g.UpdateHeadless()
	}
	slog.Info("max ticks reached", "tick", g.Tick(), "score", g.Score())

	if err := g.ExportFile(exportPath); err != nil {
		slog.Error("export failed", "error", err)
		return 1
	}
	return 0
}

func runGraphical(cfg *config.Config, opts game.Options, maxTicks int, exportPath string) int {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Tasmanian Ecosystem")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		return 1
	}
	defer g.Close()

	slog.Info("starting simulation", "seed", opts.Seed)

	dash := ui.NewDashboard(g, cfg, exportPath)
	last := time.Now()
	for !rl.WindowShouldClose() {
		now := time.Now()
		dash.Frame(now, now.Sub(last))
		last = now

		if maxTicks > 0 && g.Tick() >= maxTicks {
			break
		}
	}
	return 0
}
