package game

import (
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// Snapshot is a read-only view of the simulation after the latest tick.
type Snapshot struct {
	Tick        int
	Populations components.Populations
	Maxima      components.Populations
	Season      components.Season
	SeasonColor string

	AmbientRainfall    float64
	AmbientTemperature float64

	Biodiversity float64
	Health       components.Health

	// Disturbance applied on this tick, nil otherwise
	Disturbance *systems.Disturbance

	Score   int
	Badge   bool
	Next    systems.NextObjective
	HasNext bool

	Controls components.ControlInputs
	Toggles  components.Toggles
	Paused   bool
	Speed    float64
}

// Snapshot captures the current state for renderers.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := &g.state
	next, hasNext := g.tracker.Next(s)
	snap := Snapshot{
		Tick:               s.TickCount,
		Populations:        s.Populations(),
		Maxima:             s.Maxima,
		Season:             s.Season,
		SeasonColor:        g.cfg.Derived.SeasonTargets[s.Season].Color,
		AmbientRainfall:    s.AmbientRainfall,
		AmbientTemperature: s.AmbientTemperature,
		Biodiversity:       s.BiodiversityIndex,
		Health:             s.Health,
		Score:              g.tracker.Score(),
		Badge:              g.tracker.BadgeAwarded(),
		Next:               next,
		HasNext:            hasNext,
		Controls:           g.controls,
		Toggles:            g.toggles,
		Paused:             g.paused,
		Speed:              g.speed,
	}
	if g.active != nil && g.activeTick == s.TickCount {
		d := *g.active
		snap.Disturbance = &d
	}
	return snap
}
