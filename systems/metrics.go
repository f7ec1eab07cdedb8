package systems

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/ecosim/components"
)

// Health thresholds.
const unstableBiodiversity = 0.4

// Biodiversity returns the Gini–Simpson index 1 − Σpᵢ² of the four
// populations. ok is false when the total is not positive, in which case the
// caller keeps its previous index.
func Biodiversity(pops components.Populations) (index float64, ok bool) {
	total := floats.Sum(pops[:])
	if total <= 0 {
		return 0, false
	}

	// Σ(xᵢ/T)² = Σxᵢ² / T²
	return math.Max(0, 1-floats.Dot(pops[:], pops[:])/(total*total)), true
}

// Classify returns the health class for the given populations and index.
func Classify(pops components.Populations, index float64) components.Health {
	for _, v := range pops {
		if v == 0 {
			return components.Collapsed
		}
	}
	if index < unstableBiodiversity {
		return components.Unstable
	}
	return components.Healthy
}

// UpdateMetrics recomputes the derived metrics on state.
func UpdateMetrics(state *components.EcosystemState) {
	pops := state.Populations()
	if index, ok := Biodiversity(pops); ok {
		state.BiodiversityIndex = index
	}
	state.Health = Classify(pops, state.BiodiversityIndex)
}
