package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of the tick pipeline.
type Phase int

// Tick phases in pipeline order.
const (
	PhaseEnvironment Phase = iota
	PhasePopulation
	PhaseCapacity
	PhaseDisturbance
	PhaseMetrics
	PhaseObjectives
	PhaseTelemetry
	NumPhases
)

var phaseNames = [NumPhases]string{
	"environment", "population", "capacity", "disturbance",
	"metrics", "objectives", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// tickSample holds the timings of one tick.
type tickSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
}

// PerfCollector tracks per-phase tick timings over a rolling window.
type PerfCollector struct {
	samples     []tickSample
	writeIndex  int
	sampleCount int

	current    tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{samples: make([]tickSample, windowSize)}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickSample{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.endPhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = true
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.inPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes the current tick and records it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.endPhase(now)
	p.inPhase = false
	p.current.total = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

// PerfStats holds aggregated tick timings.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64 // Share of the average tick, 0..100
}

// Stats aggregates the samples in the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.sampleCount == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	for i := 0; i < p.sampleCount; i++ {
		sample := p.samples[i]
		total += sample.total
		if i == 0 || sample.total < s.MinTickDuration {
			s.MinTickDuration = sample.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, sample.total)
		for ph, d := range sample.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.sampleCount)
	s.AvgTickDuration = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the window's tick timings.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int     `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	EnvironmentPct float64 `csv:"environment_pct"`
	PopulationPct  float64 `csv:"population_pct"`
	CapacityPct    float64 `csv:"capacity_pct"`
	DisturbancePct float64 `csv:"disturbance_pct"`
	MetricsPct     float64 `csv:"metrics_pct"`
	ObjectivesPct  float64 `csv:"objectives_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		EnvironmentPct: s.PhasePct[PhaseEnvironment],
		PopulationPct:  s.PhasePct[PhasePopulation],
		CapacityPct:    s.PhasePct[PhaseCapacity],
		DisturbancePct: s.PhasePct[PhaseDisturbance],
		MetricsPct:     s.PhasePct[PhaseMetrics],
		ObjectivesPct:  s.PhasePct[PhaseObjectives],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
