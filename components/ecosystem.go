// Package components defines the plain data records shared by the simulation systems.
package components

// Species identifies one of the four modelled populations.
type Species uint8

const (
	Vegetation   Species = iota // Grass
	Herbivore                   // Pademelons
	Predator                    // Tasmanian devils
	Mesopredator                // Bandicoots
	NumSpecies   = 4
)

// String returns the display name used in charts and exports.
func (s Species) String() string {
	switch s {
	case Vegetation:
		return "Grass"
	case Herbivore:
		return "Pademelons"
	case Predator:
		return "Devils"
	case Mesopredator:
		return "Bandicoots"
	default:
		return "Unknown"
	}
}

// Season is a state of the cyclic seasonal machine.
type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
	NumSeasons = 4
)

// Next returns the following season, wrapping Winter back to Spring.
func (s Season) Next() Season {
	return (s + 1) % NumSeasons
}

// String returns a human-readable season name.
func (s Season) String() string {
	switch s {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Autumn:
		return "Autumn"
	case Winter:
		return "Winter"
	default:
		return "Unknown"
	}
}

// Health is the discrete ecosystem classification.
type Health uint8

const (
	Healthy Health = iota
	Unstable
	Collapsed
)

// String returns the label shown on the health display.
func (h Health) String() string {
	switch h {
	case Healthy:
		return "HEALTHY"
	case Unstable:
		return "UNSTABLE"
	case Collapsed:
		return "COLLAPSED"
	default:
		return "UNKNOWN"
	}
}

// Populations holds one value per species, indexed by Species.
type Populations [NumSpecies]float64

// Total returns the summed population.
func (p Populations) Total() float64 {
	var sum float64
	for _, v := range p {
		sum += v
	}
	return sum
}

// EcosystemState is the mutable simulation record owned by the tick driver.
type EcosystemState struct {
	Vegetation   float64
	Herbivore    float64
	Predator     float64
	Mesopredator float64

	TickCount int
	Season    Season

	// Ambient drivers and the season targets they are smoothed toward
	AmbientRainfall    float64
	AmbientTemperature float64
	TargetRainfall     float64
	TargetTemperature  float64

	BiodiversityIndex float64
	Health            Health

	// Running maximum per species, updated before capacity enforcement
	Maxima Populations

	// Disasters survived since reset
	Disasters int
}

// Populations returns the four populations as an indexed array.
func (s EcosystemState) Populations() Populations {
	return Populations{s.Vegetation, s.Herbivore, s.Predator, s.Mesopredator}
}

// Population returns the value for one species.
func (s EcosystemState) Population(sp Species) float64 {
	return s.Populations()[sp]
}

// ControlInputs are the per-tick player parameters fed into the core.
// The core does not validate their range.
type ControlInputs struct {
	Rainfall        float64 // Slider value, offset from its neutral default
	Temperature     float64 // Slider value, offset from its neutral default
	InvasiveSpecies float64 // Raw pressure
	HumanImpact     float64 // Raw pressure
}

// Toggles are the boolean switches exposed to the player.
type Toggles struct {
	GrassLimit  bool
	Disasters   bool
	ShowSeasons bool
}
