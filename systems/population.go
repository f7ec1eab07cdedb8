package systems

import (
	"math"

	"github.com/pthm-cable/ecosim/components"
)

// Recurrence coefficients.
const (
	rainfallGrowthDivisor  = 20.0
	keystoneGrowthBoost    = 0.002 // Per bandicoot multiplier on grass growth
	grazingDivisor         = 25.0
	invasiveGrassDivisor   = 2.0
	grassToHerbivore       = 200.0
	predationOnHerbivore   = 8.0
	herbivoreHeatThreshold = 25.0
	herbivoreHeatDivisor   = 10.0
	humanOnHerbivore       = 3.0
	invasiveOnHerbivore    = 8.0
	grassToMeso            = 300.0
	herbivoreCompetition   = 400.0
	predationOnMeso        = 15.0
	humanOnMeso            = 4.0
	invasiveOnMeso         = 6.0
	mesoHeatThreshold      = 30.0
	mesoHeatDivisor        = 15.0
	herbivoreToPredator    = 70.0
	mesoToPredator         = 100.0
	predatorDensityFactor  = 0.4
	predatorComfortTemp    = 20.0
	predatorTempDivisor    = 15.0
	humanOnPredator        = 3.0

	// Hard ceilings applied after the recurrences
	predatorPreyCapacity = 0.5
	mesoGrassCapacity    = 0.15
)

// Drivers are the effective environmental inputs for one tick.
type Drivers struct {
	Rainfall    float64
	Temperature float64
	Invasive    float64
	HumanImpact float64
}

// PopulationEngine advances the four coupled populations.
type PopulationEngine struct {
	grassCapacity float64
}

// NewPopulationEngine creates an engine with the given vegetation ceiling.
func NewPopulationEngine(grassCapacity float64) *PopulationEngine {
	return &PopulationEngine{grassCapacity: grassCapacity}
}

// GrassCapacity returns the vegetation ceiling used when the grass limit is on.
func (e *PopulationEngine) GrassCapacity() float64 {
	return e.grassCapacity
}

// Step applies one explicit step of all four recurrences. Each species reads
// the values already updated earlier in the same step.
func (e *PopulationEngine) Step(state *components.EcosystemState, d Drivers) {
	// Grass: rainfall-driven growth boosted by bandicoots, grazed by pademelons
	growth := (d.Rainfall / rainfallGrowthDivisor) * (1 + state.Mesopredator*keystoneGrowthBoost)
	loss := state.Herbivore/grazingDivisor + d.Invasive/invasiveGrassDivisor
	state.Vegetation = floor(state.Vegetation + growth - loss)
	trackMax(state, components.Vegetation, state.Vegetation)

	// Pademelons
	heatStress := 0.0
	if d.Temperature > herbivoreHeatThreshold {
		heatStress = (d.Temperature - herbivoreHeatThreshold) / herbivoreHeatDivisor
	}
	state.Herbivore = floor(state.Herbivore +
		state.Vegetation/grassToHerbivore -
		state.Predator/predationOnHerbivore -
		heatStress -
		d.HumanImpact/humanOnHerbivore -
		d.Invasive/invasiveOnHerbivore)
	trackMax(state, components.Herbivore, state.Herbivore)

	// Bandicoots: benefit from grass, compete with pademelons
	resources := state.Vegetation/grassToMeso - state.Herbivore/herbivoreCompetition
	tempEffect := 0.0
	if d.Temperature > mesoHeatThreshold {
		tempEffect = -(d.Temperature - mesoHeatThreshold) / mesoHeatDivisor
	}
	state.Mesopredator = floor(state.Mesopredator +
		resources -
		state.Predator/predationOnMeso -
		d.HumanImpact/humanOnMeso -
		d.Invasive/invasiveOnMeso +
		tempEffect)
	trackMax(state, components.Mesopredator, state.Mesopredator)

	// Devils: prey-driven growth with density dependence
	food := state.Herbivore/herbivoreToPredator + state.Mesopredator/mesoToPredator
	capacity := (state.Herbivore + state.Mesopredator) * predatorDensityFactor
	density := 1 - state.Predator/(capacity+1)
	tempStress := math.Abs(d.Temperature-predatorComfortTemp) / predatorTempDivisor
	state.Predator = floor(state.Predator + food*density - tempStress - d.HumanImpact/humanOnPredator)
	trackMax(state, components.Predator, state.Predator)
}

// Enforce applies the hard carrying-capacity ceilings. Bandicoots are capped
// before devils so the devil ceiling sees the final bandicoot count.
func (e *PopulationEngine) Enforce(state *components.EcosystemState, grassLimit bool) {
	if grassLimit {
		state.Vegetation = math.Min(math.Max(state.Vegetation, 0), e.grassCapacity)
	}
	state.Mesopredator = math.Min(state.Mesopredator, state.Vegetation*mesoGrassCapacity)
	state.Predator = math.Min(state.Predator, (state.Herbivore+state.Mesopredator)*predatorPreyCapacity)
}

func floor(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func trackMax(state *components.EcosystemState, sp components.Species, v float64) {
	if v > state.Maxima[sp] {
		state.Maxima[sp] = v
	}
}
