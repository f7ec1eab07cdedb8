package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// Rand is the random source consumed by the disturbance engine.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// DisturbanceKind identifies a natural disaster.
type DisturbanceKind uint8

const (
	Bushfire DisturbanceKind = iota
	DiseaseOutbreak
	Drought
	numDisturbanceKinds
)

// String returns the disaster name.
func (k DisturbanceKind) String() string {
	switch k {
	case Bushfire:
		return "Bushfire"
	case DiseaseOutbreak:
		return "Devil Facial Tumor Disease"
	case Drought:
		return "Drought"
	default:
		return "Unknown"
	}
}

// Bushfire multipliers.
const (
	bushfireGrass     = 0.3
	bushfireHerbivore = 0.7
	bushfirePredator  = 0.9 // Devils scavenge after fires
	droughtRainfall   = 0.4
	diseaseMesoBoost  = 0.5
)

// Disturbance is one triggered disaster. Severity is only meaningful for
// DiseaseOutbreak and is drawn when the event is created.
type Disturbance struct {
	Kind     DisturbanceKind
	Severity float64
}

// Apply returns the state after the disturbance's effect.
func (d Disturbance) Apply(s components.EcosystemState) components.EcosystemState {
	switch d.Kind {
	case Bushfire:
		s.Vegetation *= bushfireGrass
		s.Herbivore *= bushfireHerbivore
		s.Predator *= bushfirePredator
	case DiseaseOutbreak:
		s.Predator *= 1 - d.Severity
		s.Mesopredator *= 1 + d.Severity*diseaseMesoBoost
	case Drought:
		// Only the target drops; ambient rainfall follows via smoothing
		s.TargetRainfall *= droughtRainfall
	}
	return s
}

// Message returns the player-facing announcement.
func (d Disturbance) Message() string {
	switch d.Kind {
	case Bushfire:
		return "Bushfire! Grass and pademelon populations severely impacted."
	case DiseaseOutbreak:
		return fmt.Sprintf("Devil disease outbreak! %d%% of devils affected.", int(math.Round(d.Severity*100)))
	case Drought:
		return "Severe drought! Rainfall drastically reduced."
	default:
		return ""
	}
}

// Color returns the severity color hint for renderers.
func (d Disturbance) Color() string {
	switch d.Kind {
	case Bushfire:
		return "#ff5722"
	case DiseaseOutbreak:
		return "#9c27b0"
	case Drought:
		return "#2196f3"
	default:
		return "#607d8b"
	}
}

// Narrative thresholds.
const (
	overgrazingGrass        = 100.0
	overgrazingHerbivore    = 150.0
	predatorPressurePred    = 100.0
	predatorPressureHerb    = 80.0
	keystoneDeclineMeso     = 20.0
	keystoneDeclineGrass    = 300.0
	overgrazingMessage      = "Overgrazing alert! Pademelons are consuming grass faster than it can regrow."
	predatorPressureMessage = "Predator pressure! High devil populations are suppressing pademelon numbers."
	keystoneDeclineMessage  = "Keystone species decline: Low bandicoot numbers may lead to reduced soil health."
)

// DisturbanceEngine schedules disasters and narrative prompts.
type DisturbanceEngine struct {
	rng               Rand
	disasterInterval  int
	disasterChance    float64
	narrativeInterval int
	severityMin       float64
	severityMax       float64
}

// NewDisturbanceEngine creates a disturbance engine drawing from rng.
func NewDisturbanceEngine(cfg *config.Config, rng Rand) *DisturbanceEngine {
	return &DisturbanceEngine{
		rng:               rng,
		disasterInterval:  cfg.Disturbance.DisasterInterval,
		disasterChance:    cfg.Disturbance.DisasterChance,
		narrativeInterval: cfg.Disturbance.NarrativeInterval,
		severityMin:       cfg.Disturbance.SeverityMin,
		severityMax:       cfg.Disturbance.SeverityMax,
	}
}

// SetRand replaces the random source.
func (e *DisturbanceEngine) SetRand(rng Rand) {
	e.rng = rng
}

// CheckDisaster rolls for a disaster on disaster ticks. When one triggers it
// is applied to state, the disaster counter is incremented and the event is
// returned.
func (e *DisturbanceEngine) CheckDisaster(state *components.EcosystemState, enabled bool) (Disturbance, bool) {
	if !enabled || state.TickCount <= 0 || state.TickCount%e.disasterInterval != 0 {
		return Disturbance{}, false
	}
	if e.rng.Float64() >= e.disasterChance {
		return Disturbance{}, false
	}

	d := e.Draw()
	*state = d.Apply(*state)
	state.Disasters++
	return d, true
}

// Draw selects a disaster uniformly and draws its severity.
func (e *DisturbanceEngine) Draw() Disturbance {
	d := Disturbance{Kind: DisturbanceKind(pick(e.rng, int(numDisturbanceKinds)))}
	if d.Kind == DiseaseOutbreak {
		d.Severity = e.severityMin + e.rng.Float64()*(e.severityMax-e.severityMin)
	}
	return d
}

// CheckNarrative returns at most one message on narrative ticks, chosen at
// random among the conditions that currently hold.
func (e *DisturbanceEngine) CheckNarrative(state *components.EcosystemState) (string, bool) {
	if state.TickCount <= 0 || state.TickCount%e.narrativeInterval != 0 {
		return "", false
	}

	messages := NarrativeMessages(state)
	if len(messages) == 0 {
		return "", false
	}
	return messages[pick(e.rng, len(messages))], true
}

// NarrativeMessages lists the messages whose conditions hold for state.
func NarrativeMessages(state *components.EcosystemState) []string {
	var messages []string
	if state.Vegetation < overgrazingGrass && state.Herbivore > overgrazingHerbivore {
		messages = append(messages, overgrazingMessage)
	}
	if state.Predator > predatorPressurePred && state.Herbivore < predatorPressureHerb {
		messages = append(messages, predatorPressureMessage)
	}
	if state.Mesopredator < keystoneDeclineMeso && state.Vegetation > keystoneDeclineGrass {
		messages = append(messages, keystoneDeclineMessage)
	}
	return messages
}

// pick returns a uniform index in [0, n).
func pick(rng Rand, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
