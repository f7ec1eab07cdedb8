// Package game drives the ecosystem tick pipeline and owns all mutable
// simulation state. Renderers and UI read snapshots and send commands.
package game

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Options configures a new game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindow    int // Ticks per stats window, 0 = use config
	OutputDir      string
	StepsPerUpdate int
	StatsCallback  func(telemetry.WindowStats)
}

// Game is the single writer of the ecosystem state. Every exported method is
// safe to call from any goroutine; a tick or reset always runs to completion
// before another begins.
type Game struct {
	mu sync.Mutex

	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	state    components.EcosystemState
	controls components.ControlInputs
	toggles  components.Toggles

	env     *systems.EnvironmentModel
	pop     *systems.PopulationEngine
	dist    *systems.DisturbanceEngine
	tracker *systems.ObjectiveTracker

	// Scheduling
	paused         bool
	speed          float64
	lastFrame      time.Time
	stepsPerUpdate int

	// Outward events
	pending    []components.Notification
	active     *systems.Disturbance
	activeTick int

	// Telemetry
	series           *telemetry.Recorder
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	perfCollector    *telemetry.PerfCollector
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game in its reset state.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g := &Game{
		cfg:              cfg,
		rng:              rng,
		rngSeed:          opts.Seed,
		env:              systems.NewEnvironmentModel(cfg),
		pop:              systems.NewPopulationEngine(cfg.Simulation.GrassCapacity),
		dist:             systems.NewDisturbanceEngine(cfg, rng),
		tracker:          systems.NewObjectiveTracker(cfg.Scoring.BadgePoints),
		speed:            1,
		stepsPerUpdate:   steps,
		series:           telemetry.NewRecorder(cfg.Simulation.LiveHistory),
		collector:        telemetry.NewCollector(statsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		outputManager:    om,
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
	g.reset()

	return g, nil
}

// Reset restores the initial populations, season, controls, score and
// objectives, and clears the recorded series.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	slog.Info("simulation reset", "seed", g.rngSeed)
}

func (g *Game) reset() {
	// Same seed, same run
	g.rng.Seed(g.rngSeed)

	start := g.cfg.Initial
	g.state = components.EcosystemState{
		Vegetation:   start.Vegetation,
		Herbivore:    start.Herbivore,
		Predator:     start.Predator,
		Mesopredator: start.Mesopredator,
	}
	g.env.Reset(&g.state)
	g.tracker.Reset()

	ctl := g.cfg.Controls
	g.controls = components.ControlInputs{
		Rainfall:        ctl.Rainfall.Default,
		Temperature:     ctl.Temperature.Default,
		InvasiveSpecies: ctl.InvasiveSpecies.Default,
		HumanImpact:     ctl.HumanImpact.Default,
	}
	g.toggles = components.Toggles{
		GrassLimit:  ctl.GrassLimit,
		Disasters:   ctl.Disasters,
		ShowSeasons: ctl.ShowSeasons,
	}

	g.pending = g.pending[:0]
	g.active = nil
	g.lastFrame = time.Time{}

	g.series.Reset()
	g.collector.Reset(0)
	g.bookmarkDetector.Reset()
}

// Step runs exactly one tick, regardless of pause.
func (g *Game) Step() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.step()
}

// Frame is the frame-scheduling callback. It runs the ticks due since the
// previous frame at the current speed and returns how many ran. While
// paused it re-arms without ticking.
func (g *Game) Frame(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused || g.lastFrame.IsZero() {
		g.lastFrame = now
		if g.paused {
			return 0
		}
		g.step()
		return 1
	}

	interval := time.Duration(float64(g.cfg.Derived.FrameInterval) / g.speed)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	elapsed := now.Sub(g.lastFrame)
	if elapsed < interval {
		return 0
	}

	n := int(elapsed / interval)
	maxSteps := int(math.Ceil(g.cfg.Simulation.MaxSpeed))
	if n > maxSteps {
		// Too far behind; drop the backlog
		n = maxSteps
		g.lastFrame = now
	} else {
		g.lastFrame = g.lastFrame.Add(time.Duration(n) * interval)
	}

	for i := 0; i < n; i++ {
		g.step()
	}
	return n
}

// UpdateHeadless runs StepsPerUpdate ticks without frame gating. Nothing
// runs while paused.
func (g *Game) UpdateHeadless() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs a single tick of the pipeline. Callers hold g.mu.
func (g *Game) step() {
	s := &g.state
	g.perfCollector.StartTick()

	s.TickCount++

	// 1. Seasons and ambient smoothing
	g.perfCollector.StartPhase(telemetry.PhaseEnvironment)
	g.env.Update(s)
	rainfall, temperature := g.env.Drivers(s, g.controls)

	// 2. Population recurrences
	g.perfCollector.StartPhase(telemetry.PhasePopulation)
	g.pop.Step(s, systems.Drivers{
		Rainfall:    rainfall,
		Temperature: temperature,
		Invasive:    g.controls.InvasiveSpecies,
		HumanImpact: g.controls.HumanImpact,
	})

	// 3. Carrying capacities
	g.perfCollector.StartPhase(telemetry.PhaseCapacity)
	g.pop.Enforce(s, g.toggles.GrassLimit)

	// 4. Disasters and narrative prompts
	g.perfCollector.StartPhase(telemetry.PhaseDisturbance)
	if d, ok := g.dist.CheckDisaster(s, g.toggles.Disasters); ok {
		g.onDisturbance(d)
	}
	if msg, ok := g.dist.CheckNarrative(s); ok {
		g.onNarrative(msg)
	}

	// 5. Biodiversity and health
	g.perfCollector.StartPhase(telemetry.PhaseMetrics)
	systems.UpdateMetrics(s)

	// 6. Objectives, achievements and badge
	g.perfCollector.StartPhase(telemetry.PhaseObjectives)
	for _, award := range g.tracker.Evaluate(s) {
		g.onAward(award)
	}
	if g.tracker.CheckBadge() {
		g.onBadge()
	}

	// 7. Series and window stats
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.series.Record(telemetry.SampleOf(s))
	g.collector.RecordTick(s)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// TogglePause flips the pause flag and returns the new value.
func (g *Game) TogglePause() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = !g.paused
	return g.paused
}

// SetPaused sets the pause flag.
func (g *Game) SetPaused(paused bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = paused
}

// Paused reports whether ticking is suspended.
func (g *Game) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// SetSpeed sets the speed multiplier, clamped to the configured range.
func (g *Game) SetSpeed(speed float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sim := g.cfg.Simulation
	if math.IsNaN(speed) {
		speed = 1
	}
	g.speed = math.Min(math.Max(speed, sim.MinSpeed), sim.MaxSpeed)
}

// Speed returns the current speed multiplier.
func (g *Game) Speed() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speed
}

// SetControls replaces the four control inputs. Values are not validated.
func (g *Game) SetControls(in components.ControlInputs) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.controls = in
}

// Controls returns the current control inputs.
func (g *Game) Controls() components.ControlInputs {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.controls
}

// SetToggles replaces the grass limit, disasters and seasons toggles.
func (g *Game) SetToggles(t components.Toggles) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.toggles = t
}

// Toggles returns the current toggles.
func (g *Game) Toggles() components.Toggles {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toggles
}

// State returns a copy of the ecosystem state.
func (g *Game) State() components.EcosystemState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.TickCount
}

// Score returns the accumulated points.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tracker.Score()
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.rngSeed
}

// DrainNotifications returns and clears the pending notifications.
func (g *Game) DrainNotifications() []components.Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.pending) == 0 {
		return nil
	}
	out := make([]components.Notification, len(g.pending))
	copy(out, g.pending)
	g.pending = g.pending[:0]
	return out
}

// LiveSeries returns the most recent samples for charting, oldest first.
func (g *Game) LiveSeries() []telemetry.Sample {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.series.Live()
}

// ExportCSV writes the full series since the last reset.
func (g *Game) ExportCSV(w io.Writer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.series.WriteCSV(w)
}

// ExportFile writes the full series since the last reset to path.
func (g *Game) ExportFile(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := telemetry.ExportSeries(g.series, path); err != nil {
		return err
	}
	slog.Info("series exported", "path", path, "rows", g.series.Len())
	return nil
}

// PerfStats returns the rolling tick timings.
func (g *Game) PerfStats() telemetry.PerfStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.perfCollector.Stats()
}

// Close exports the series into the output directory, if any, and closes
// all output files.
func (g *Game) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.outputManager.WriteSeries(g.series); err != nil {
		slog.Error("failed to export series", "error", err)
	}
	return g.outputManager.Close()
}
