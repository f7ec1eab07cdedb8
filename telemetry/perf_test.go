package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePopulation)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseObjectives)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhasePopulation] <= 0 {
		t.Error("expected population phase to be tracked")
	}
	if stats.PhaseAvg[PhaseObjectives] <= 0 {
		t.Error("expected objectives phase to be tracked")
	}
	if stats.PhaseAvg[PhaseMetrics] != 0 || stats.PhasePct[PhaseMetrics] != 0 {
		t.Error("phase that never ran should have no time")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseEnvironment)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseMetrics)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseDisturbance)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fastPct := stats.PhasePct[PhaseMetrics]
	slowPct := stats.PhasePct[PhaseDisturbance]
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}

	row := stats.ToCSV(300)
	if row.WindowEnd != 300 || row.DisturbancePct != slowPct {
		t.Errorf("ToCSV = %+v, want window 300 and disturbance %v%%", row, slowPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	if stats := pc.Stats(); stats != (PerfStats{}) {
		t.Errorf("empty collector stats = %+v, want zero", stats)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseEnvironment, "environment"},
		{PhaseTelemetry, "telemetry"},
		{NumPhases, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
}
