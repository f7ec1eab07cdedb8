package telemetry

import (
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// Collector accumulates per-tick samples and events within a window of
// ticks and produces WindowStats.
type Collector struct {
	windowTicks int

	// Current window tracking
	windowStartTick int
	series          [components.NumSpecies][]float64
	biodiversity    []float64
	collapsedTicks  int

	// Event counters for current window
	bushfires  int
	outbreaks  int
	droughts   int
	narratives int
	awards     int
	points     int
}

// NewCollector creates a stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordTick samples the state at the end of a tick.
func (c *Collector) RecordTick(state *components.EcosystemState) {
	pops := state.Populations()
	for sp := range pops {
		c.series[sp] = append(c.series[sp], pops[sp])
	}
	c.biodiversity = append(c.biodiversity, state.BiodiversityIndex)
	if state.Health == components.Collapsed {
		c.collapsedTicks++
	}
}

// RecordDisturbance counts a disturbance by kind.
func (c *Collector) RecordDisturbance(kind systems.DisturbanceKind) {
	switch kind {
	case systems.Bushfire:
		c.bushfires++
	case systems.DiseaseOutbreak:
		c.outbreaks++
	case systems.Drought:
		c.droughts++
	}
}

// RecordNarrative counts a narrative message.
func (c *Collector) RecordNarrative() {
	c.narratives++
}

// RecordAward counts an objective or achievement award.
func (c *Collector) RecordAward(points int) {
	c.awards++
	c.points += points
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the samples since the last flush and
// resets counters for the next window.
func (c *Collector) Flush(state *components.EcosystemState, score int) WindowStats {
	grass := ComputeSpeciesStats(c.series[components.Vegetation])
	herb := ComputeSpeciesStats(c.series[components.Herbivore])
	pred := ComputeSpeciesStats(c.series[components.Predator])
	meso := ComputeSpeciesStats(c.series[components.Mesopredator])
	bio := ComputeSpeciesStats(c.biodiversity)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   state.TickCount,
		Season:          state.Season.String(),
		Health:          state.Health.String(),

		Grass:      state.Vegetation,
		Pademelons: state.Herbivore,
		Devils:     state.Predator,
		Bandicoots: state.Mesopredator,

		GrassMean:      grass.Mean,
		GrassCV:        grass.CV(),
		PademelonsMean: herb.Mean,
		PademelonsCV:   herb.CV(),
		DevilsMean:     pred.Mean,
		DevilsCV:       pred.CV(),
		BandicootsMean: meso.Mean,
		BandicootsCV:   meso.CV(),

		BiodiversityMean: bio.Mean,
		BiodiversityEnd:  state.BiodiversityIndex,
		CollapsedTicks:   c.collapsedTicks,

		Bushfires:  c.bushfires,
		Outbreaks:  c.outbreaks,
		Droughts:   c.droughts,
		Narratives: c.narratives,
		Awards:     c.awards,
		Points:     c.points,
		Score:      score,
	}

	c.Reset(state.TickCount)
	return stats
}

// Reset discards the current window and starts a new one at tick.
func (c *Collector) Reset(tick int) {
	c.windowStartTick = tick
	for sp := range c.series {
		c.series[sp] = c.series[sp][:0]
	}
	c.biodiversity = c.biodiversity[:0]
	c.collapsedTicks = 0
	c.bushfires = 0
	c.outbreaks = 0
	c.droughts = 0
	c.narratives = 0
	c.awards = 0
	c.points = 0
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
