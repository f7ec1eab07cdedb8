package game

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// seqRand replays a fixed sequence of draws.
type seqRand struct {
	values []float64
	i      int
}

func (r *seqRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func TestResetRestoresInitialState(t *testing.T) {
	g := newTestGame(t, Options{Seed: 7})
	for i := 0; i < 1200; i++ {
		g.Step()
	}
	g.SetControls(components.ControlInputs{Rainfall: 90, Temperature: 35, InvasiveSpecies: 9})
	g.SetSpeed(3)

	g.Reset()
	first := g.State()
	g.Reset()
	second := g.State()

	if first != second {
		t.Fatalf("reset is not idempotent:\n%+v\n%+v", first, second)
	}

	want := components.EcosystemState{
		Vegetation: 100, Herbivore: 50, Predator: 10, Mesopredator: 30,
		Season:          components.Spring,
		AmbientRainfall: 70, AmbientTemperature: 20,
		TargetRainfall: 70, TargetTemperature: 20,
	}
	if first != want {
		t.Errorf("state after reset = %+v, want %+v", first, want)
	}

	if g.Score() != 0 {
		t.Errorf("score = %d, want 0", g.Score())
	}
	for _, o := range g.tracker.Objectives {
		if o.Achieved {
			t.Errorf("objective %q still achieved", o.Description)
		}
	}
	for _, o := range g.tracker.Ongoing {
		if o.Achieved || o.Remaining != o.Target {
			t.Errorf("ongoing %q not reset", o.Description)
		}
	}
	for _, a := range g.tracker.Achievements {
		if a.Achieved {
			t.Errorf("achievement %q still achieved", a.Description)
		}
	}
	if c := g.Controls(); c.Rainfall != 50 || c.Temperature != 20 || c.InvasiveSpecies != 5 || c.HumanImpact != 2 {
		t.Errorf("controls after reset = %+v, want slider defaults", c)
	}
	if len(g.LiveSeries()) != 0 {
		t.Error("series not cleared by reset")
	}
	if g.DrainNotifications() != nil {
		t.Error("notifications not cleared by reset")
	}
}

func TestResetReplaysSameRun(t *testing.T) {
	g := newTestGame(t, Options{Seed: 99})
	run := func() components.EcosystemState {
		for i := 0; i < 3000; i++ {
			g.Step()
		}
		return g.State()
	}

	first := run()
	g.Reset()
	if second := run(); first != second {
		t.Errorf("same seed diverged after reset:\n%+v\n%+v", first, second)
	}
}

func TestZeroPressureScenario(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	g.SetControls(components.ControlInputs{Rainfall: 50, Temperature: 20})

	start := g.State().Populations()
	for i := 0; i < 199; i++ {
		g.Step()
	}
	end := g.State().Populations()

	for sp := components.Species(0); sp < components.NumSpecies; sp++ {
		if end[sp] == start[sp] {
			t.Errorf("%s frozen at %v", sp, end[sp])
		}
		if end[sp] < 0 {
			t.Errorf("%s negative: %v", sp, end[sp])
		}
	}
	if g.Tick() != 199 {
		t.Errorf("tick = %d, want 199", g.Tick())
	}
}

func TestInvariantsAfterEveryTick(t *testing.T) {
	g := newTestGame(t, Options{Seed: 3})
	g.SetToggles(components.Toggles{GrassLimit: true})
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 10000; i++ {
		if i%250 == 0 {
			g.SetControls(components.ControlInputs{
				Rainfall:        rng.Float64() * 100,
				Temperature:     rng.Float64() * 40,
				InvasiveSpecies: rng.Float64() * 10,
				HumanImpact:     rng.Float64() * 10,
			})
		}
		g.Step()
		s := g.State()

		for sp, v := range s.Populations() {
			if v < 0 || math.IsNaN(v) {
				t.Fatalf("tick %d: %s = %v", s.TickCount, components.Species(sp), v)
			}
		}
		if s.Vegetation > 1500 {
			t.Fatalf("tick %d: vegetation %v above capacity", s.TickCount, s.Vegetation)
		}
		if s.Predator > 0.5*(s.Herbivore+s.Mesopredator) {
			t.Fatalf("tick %d: predator ceiling violated", s.TickCount)
		}
		if s.Mesopredator > 0.15*s.Vegetation {
			t.Fatalf("tick %d: mesopredator ceiling violated", s.TickCount)
		}
		if total := s.Populations().Total(); total > 0 && (s.BiodiversityIndex < 0 || s.BiodiversityIndex > 0.75+1e-12) {
			t.Fatalf("tick %d: biodiversity %v out of range", s.TickCount, s.BiodiversityIndex)
		}
	}
}

func TestFrameGating(t *testing.T) {
	g := newTestGame(t, Options{})
	t0 := time.Unix(1000, 0)

	steps := []struct {
		name   string
		at     time.Duration
		paused bool
		speed  float64
		want   int
	}{
		{"first frame ticks", 0, false, 1, 1},
		{"too soon", 10 * time.Millisecond, false, 1, 0},
		{"one interval", 16 * time.Millisecond, false, 1, 1},
		{"paused", 100 * time.Millisecond, true, 1, 0},
		{"resumed re-armed", 105 * time.Millisecond, false, 1, 0},
		{"four times speed", 116 * time.Millisecond, false, 4, 4},
		{"backlog capped", 10 * time.Second, false, 4, 10},
	}

	for _, st := range steps {
		g.SetPaused(st.paused)
		g.SetSpeed(st.speed)
		before := g.Tick()
		got := g.Frame(t0.Add(st.at))
		if got != st.want {
			t.Fatalf("%s: Frame ran %d ticks, want %d", st.name, got, st.want)
		}
		if g.Tick()-before != st.want {
			t.Fatalf("%s: tick advanced by %d, want %d", st.name, g.Tick()-before, st.want)
		}
	}
}

func TestUpdateHeadlessRespectsPause(t *testing.T) {
	g := newTestGame(t, Options{StepsPerUpdate: 5})

	g.UpdateHeadless()
	if g.Tick() != 5 {
		t.Fatalf("tick = %d, want 5", g.Tick())
	}

	if !g.TogglePause() {
		t.Fatal("TogglePause should report paused")
	}
	before := g.State()
	g.UpdateHeadless()
	if g.State() != before {
		t.Error("state changed while paused")
	}
}

func TestSetSpeedClamped(t *testing.T) {
	g := newTestGame(t, Options{})
	tests := []struct {
		in, want float64
	}{
		{2.5, 2.5},
		{0, 0.1},
		{-3, 0.1},
		{50, 10},
		{math.NaN(), 1},
	}
	for _, tt := range tests {
		g.SetSpeed(tt.in)
		if got := g.Speed(); got != tt.want {
			t.Errorf("SetSpeed(%v) -> %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAwardNotifications(t *testing.T) {
	g := newTestGame(t, Options{})
	g.state.Herbivore = 300
	g.Step()

	notes := g.DrainNotifications()
	if len(notes) != 1 {
		t.Fatalf("notifications = %+v, want one award", notes)
	}
	n := notes[0]
	if n.Kind != components.NotifyAchievement || n.Points != 200 || n.Tick != 1 || n.Duration != components.AchievementDisplay {
		t.Errorf("notification = %+v", n)
	}
	if g.Score() != 200 {
		t.Errorf("score = %d, want 200", g.Score())
	}
	if again := g.DrainNotifications(); again != nil {
		t.Errorf("drain returned %+v twice", again)
	}
}

func TestPendingNotificationsBounded(t *testing.T) {
	g := newTestGame(t, Options{})
	for i := 0; i < maxPending+36; i++ {
		g.state.TickCount = i
		g.notify(components.Notification{Kind: components.NotifyNarrative})
	}

	notes := g.DrainNotifications()
	if len(notes) != maxPending {
		t.Fatalf("queued %d notifications, want %d", len(notes), maxPending)
	}
	if notes[0].Tick != 36 || notes[len(notes)-1].Tick != maxPending+35 {
		t.Errorf("kept ticks %d..%d, want the newest", notes[0].Tick, notes[len(notes)-1].Tick)
	}
}

func TestHeadlessRunWithoutDrainStaysBounded(t *testing.T) {
	g := newTestGame(t, Options{Seed: 5, StepsPerUpdate: 100})
	g.SetToggles(components.Toggles{Disasters: true})
	for g.Tick() < 30000 {
		g.UpdateHeadless()
		if n := len(g.pending); n > maxPending {
			t.Fatalf("tick %d: %d pending notifications", g.Tick(), n)
		}
	}
}

func TestSnapshotReportsDisturbanceOnItsTick(t *testing.T) {
	g := newTestGame(t, Options{})
	g.dist.SetRand(&seqRand{values: []float64{0.0}})
	g.state.TickCount = 999

	g.Step()
	snap := g.Snapshot()
	if snap.Disturbance == nil || snap.Disturbance.Kind != systems.Bushfire {
		t.Fatalf("snapshot disturbance = %+v, want bushfire", snap.Disturbance)
	}
	if g.State().Disasters != 1 {
		t.Errorf("disaster count = %d, want 1", g.State().Disasters)
	}

	found := false
	for _, n := range g.DrainNotifications() {
		if n.Kind == components.NotifyDisturbance && n.Color == "#ff5722" {
			found = true
		}
	}
	if !found {
		t.Error("expected a bushfire notification")
	}

	g.Step()
	if g.Snapshot().Disturbance != nil {
		t.Error("disturbance should only be reported on its own tick")
	}
}

func TestSnapshotFields(t *testing.T) {
	g := newTestGame(t, Options{})
	for i := 0; i < 300; i++ {
		g.Step()
	}
	snap := g.Snapshot()

	if snap.Tick != 300 || snap.Season != components.Summer || snap.SeasonColor != "#f7d794" {
		t.Errorf("tick/season/color = %d/%s/%s", snap.Tick, snap.Season, snap.SeasonColor)
	}
	if !snap.HasNext || snap.Next.Description == "" {
		t.Error("expected a next objective")
	}
	if snap.Speed != 1 || snap.Paused {
		t.Errorf("speed/paused = %v/%v", snap.Speed, snap.Paused)
	}
	if snap.Populations != g.State().Populations() {
		t.Error("snapshot populations differ from state")
	}
}

func TestExportCSV(t *testing.T) {
	g := newTestGame(t, Options{})
	for i := 0; i < 3; i++ {
		g.Step()
	}

	var buf bytes.Buffer
	if err := g.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[0] != "Time,Grass,Pademelons,Devils,Bandicoots" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,") || !strings.HasPrefix(lines[3], "3,") {
		t.Errorf("rows = %q", lines[1:])
	}
}

func TestOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	var windows int
	g, err := NewGameWithOptions(Options{
		Config:        config.Default(),
		OutputDir:     dir,
		StatsWindow:   10,
		StatsCallback: func(telemetry.WindowStats) { windows++ },
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	for i := 0; i < 30; i++ {
		g.Step()
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if windows != 3 {
		t.Errorf("stats callback ran %d times, want 3", windows)
	}
	for name, wantLines := range map[string]int{
		"telemetry.csv":      4,
		"perf.csv":           4,
		"ecosystem_data.csv": 31,
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if n := len(strings.Split(strings.TrimSpace(string(data)), "\n")); n != wantLines {
			t.Errorf("%s has %d lines, want %d", name, n, wantLines)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}
