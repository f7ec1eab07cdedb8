package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/ecosim/components"
)

// ObjectiveKind identifies a one-shot objective.
type ObjectiveKind uint8

const (
	HerbivoreGrowth ObjectiveKind = iota
	ApexStability
	KeystoneEffect
	DisasterSurvival
	BiodiversityTarget
	numObjectiveKinds
)

// OngoingKind identifies a streak-based objective.
type OngoingKind uint8

const (
	GrassStreak OngoingKind = iota
	DevilStreak
	BalancedStreak
	numOngoingKinds
)

// AchievementKind identifies a cumulative achievement.
type AchievementKind uint8

const (
	EcosystemGuardian AchievementKind = iota
	DevilAdvocate
	KeystoneKeeper
	numAchievementKinds
)

// Catalogue thresholds.
const (
	startingGrass            = 100.0 // Reference for the keystone recovery goal
	apexStabilityGrass       = 400.0
	biodiversityGoal         = 0.7
	grassStreakThreshold     = 700.0
	devilStreakThreshold     = 70.0
	balancedGrass            = 500.0
	balancedHerbivore        = 100.0
	balancedPredator         = 50.0
	balancedMeso             = 100.0
	devilAdvocateThreshold   = 70.0
	devilAdvocateTarget      = 5000
	keystoneKeeperPopulation = 60.0
)

// Predicate is an objective condition over the current state.
type Predicate func(s *components.EcosystemState) bool

// Objective is a one-shot goal: once its predicate holds it is achieved for
// the rest of the run.
type Objective struct {
	Kind        ObjectiveKind
	Description string
	Target      float64
	Points      int
	Achieved    bool

	check    Predicate
	progress func(s *components.EcosystemState) float64
}

// NewObjective builds the catalogue entry for kind.
func NewObjective(kind ObjectiveKind) Objective {
	switch kind {
	case HerbivoreGrowth:
		const target = 200.0
		return Objective{
			Kind:        kind,
			Description: "Increase pademelon population to 200",
			Target:      target,
			Points:      200,
			check:       func(s *components.EcosystemState) bool { return s.Herbivore >= target },
			progress:    func(s *components.EcosystemState) float64 { return s.Herbivore / target },
		}
	case ApexStability:
		const target = 100.0
		return Objective{
			Kind:        kind,
			Description: "Maintain devil population > 100 with grass > 400",
			Target:      target,
			Points:      300,
			check: func(s *components.EcosystemState) bool {
				return s.Predator >= target && s.Vegetation > apexStabilityGrass
			},
			progress: func(s *components.EcosystemState) float64 {
				return math.Min(s.Predator/target, s.Vegetation/apexStabilityGrass)
			},
		}
	case KeystoneEffect:
		const target = 1.5
		return Objective{
			Kind:        kind,
			Description: "Trigger bandicoot-driven grass recovery (50% increase)",
			Target:      target,
			Points:      200,
			check:       func(s *components.EcosystemState) bool { return s.Vegetation >= startingGrass*1.5*target },
			progress:    func(s *components.EcosystemState) float64 { return s.Vegetation / (startingGrass * 1.5 * target) },
		}
	case DisasterSurvival:
		const target = 8
		return Objective{
			Kind:        kind,
			Description: "Survive 8 natural disasters",
			Target:      target,
			Points:      100,
			check:       func(s *components.EcosystemState) bool { return s.Disasters >= target },
			progress:    func(s *components.EcosystemState) float64 { return float64(s.Disasters) / target },
		}
	case BiodiversityTarget:
		const target = 1000
		return Objective{
			Kind:        kind,
			Description: "Maintain biodiversity index > 0.7 for 1000 frames",
			Target:      target,
			Points:      150,
			check: func(s *components.EcosystemState) bool {
				return s.BiodiversityIndex > biodiversityGoal && s.TickCount >= target
			},
			progress: func(s *components.EcosystemState) float64 {
				return math.Min(s.BiodiversityIndex/biodiversityGoal, float64(s.TickCount)/target)
			},
		}
	}
	panic(fmt.Sprintf("systems: unknown objective kind %d", kind))
}

// Update evaluates the objective and reports whether it was achieved this tick.
func (o *Objective) Update(s *components.EcosystemState) bool {
	if o.Achieved || !o.check(s) {
		return false
	}
	o.Achieved = true
	return true
}

// Progress returns completion in [0, 1].
func (o *Objective) Progress(s *components.EcosystemState) float64 {
	if o.Achieved {
		return 1
	}
	return clamp01(o.progress(s))
}

// OngoingObjective counts down while its condition holds on consecutive
// ticks. A single failing tick restores the full target.
type OngoingObjective struct {
	Kind        OngoingKind
	Description string
	Target      int
	Remaining   int
	Points      int
	Achieved    bool

	condition Predicate
}

// NewOngoingObjective creates a streak objective with a custom condition.
func NewOngoingObjective(kind OngoingKind, description string, target, points int, condition Predicate) OngoingObjective {
	return OngoingObjective{
		Kind:        kind,
		Description: description,
		Target:      target,
		Remaining:   target,
		Points:      points,
		condition:   condition,
	}
}

// NewOngoing builds the catalogue entry for kind.
func NewOngoing(kind OngoingKind) OngoingObjective {
	switch kind {
	case GrassStreak:
		return NewOngoingObjective(kind, "Keep grass population > 700 for 800 frames", 800, 300,
			func(s *components.EcosystemState) bool { return s.Vegetation > grassStreakThreshold })
	case DevilStreak:
		return NewOngoingObjective(kind, "Keep devil population > 70 for 800 frames", 800, 300,
			func(s *components.EcosystemState) bool { return s.Predator > devilStreakThreshold })
	case BalancedStreak:
		return NewOngoingObjective(kind, "Maintain balanced ecosystem for 1500 frames", 1500, 500,
			func(s *components.EcosystemState) bool {
				return s.Vegetation > balancedGrass &&
					s.Herbivore > balancedHerbivore &&
					s.Predator > balancedPredator &&
					s.Mesopredator > balancedMeso
			})
	}
	panic(fmt.Sprintf("systems: unknown ongoing objective kind %d", kind))
}

// Update advances or resets the streak and reports whether the objective
// was achieved this tick.
func (o *OngoingObjective) Update(s *components.EcosystemState) bool {
	if o.Achieved {
		return false
	}
	if !o.condition(s) {
		o.Remaining = o.Target
		return false
	}
	o.Remaining--
	if o.Remaining <= 0 {
		o.Achieved = true
		return true
	}
	return false
}

// Reset restores the full streak target and clears the achieved flag.
func (o *OngoingObjective) Reset() {
	o.Remaining = o.Target
	o.Achieved = false
}

// Progress returns completion of the current streak in [0, 1].
func (o *OngoingObjective) Progress() float64 {
	if o.Achieved {
		return 1
	}
	if o.Target <= 0 {
		return 0
	}
	return clamp01(float64(o.Target-o.Remaining) / float64(o.Target))
}

// Achievement is a cross-cutting cumulative goal.
type Achievement struct {
	Kind        AchievementKind
	Description string
	Target      float64
	Points      int
	Achieved    bool

	// Consecutive qualifying ticks, used by DevilAdvocate
	Streak int
}

// NewAchievement builds the catalogue entry for kind.
func NewAchievement(kind AchievementKind) Achievement {
	switch kind {
	case EcosystemGuardian:
		return Achievement{Kind: kind, Description: "Ecosystem Guardian: Achieve all ongoing objectives", Points: 500}
	case DevilAdvocate:
		return Achievement{Kind: kind, Description: "Devil Advocate: Maintain healthy devil population for 5000 frames", Target: devilAdvocateTarget, Points: 300}
	case KeystoneKeeper:
		return Achievement{Kind: kind, Description: "Keystone Keeper: Double bandicoot population from starting value", Target: keystoneKeeperPopulation, Points: 200}
	}
	panic(fmt.Sprintf("systems: unknown achievement kind %d", kind))
}

// Award is a points grant produced by the tracker.
type Award struct {
	Description string
	Points      int
}

// NextObjective describes the first incomplete objective for display.
type NextObjective struct {
	Description string
	Percent     int
	Ongoing     bool
}

// ObjectiveTracker evaluates objectives and achievements and keeps the score.
type ObjectiveTracker struct {
	Objectives   []Objective
	Ongoing      []OngoingObjective
	Achievements []Achievement

	score       int
	badgePoints int
	badge       bool
}

// NewObjectiveTracker creates a tracker with the full catalogue.
func NewObjectiveTracker(badgePoints int) *ObjectiveTracker {
	t := &ObjectiveTracker{badgePoints: badgePoints}
	t.Reset()
	return t
}

// Reset rebuilds the catalogue and clears score, flags and counters.
func (t *ObjectiveTracker) Reset() {
	t.Objectives = make([]Objective, 0, numObjectiveKinds)
	for k := ObjectiveKind(0); k < numObjectiveKinds; k++ {
		t.Objectives = append(t.Objectives, NewObjective(k))
	}
	t.Ongoing = make([]OngoingObjective, 0, numOngoingKinds)
	for k := OngoingKind(0); k < numOngoingKinds; k++ {
		t.Ongoing = append(t.Ongoing, NewOngoing(k))
	}
	t.Achievements = make([]Achievement, 0, numAchievementKinds)
	for k := AchievementKind(0); k < numAchievementKinds; k++ {
		t.Achievements = append(t.Achievements, NewAchievement(k))
	}
	t.score = 0
	t.badge = false
}

// Score returns the accumulated points.
func (t *ObjectiveTracker) Score() int {
	return t.score
}

// BadgeAwarded reports whether the score badge has been unlocked.
func (t *ObjectiveTracker) BadgeAwarded() bool {
	return t.badge
}

// Evaluate checks every objective and achievement against state, adds
// points for anything newly achieved and returns the awards in order.
func (t *ObjectiveTracker) Evaluate(s *components.EcosystemState) []Award {
	var awards []Award

	for i := range t.Objectives {
		obj := &t.Objectives[i]
		if obj.Update(s) {
			awards = append(awards, t.grant(obj.Description, obj.Points))
		}
	}

	for i := range t.Ongoing {
		obj := &t.Ongoing[i]
		if obj.Update(s) {
			awards = append(awards, t.grant(obj.Description, obj.Points))
		}
	}

	for i := range t.Achievements {
		ach := &t.Achievements[i]
		if ach.Achieved {
			continue
		}
		if t.achievementMet(ach, s) {
			ach.Achieved = true
			awards = append(awards, t.grant(ach.Description, ach.Points))
		}
	}

	return awards
}

// CheckBadge reports true exactly once, on the first call after the score
// reaches the badge threshold.
func (t *ObjectiveTracker) CheckBadge() bool {
	if t.badge || t.score < t.badgePoints {
		return false
	}
	t.badge = true
	return true
}

// Next returns the first incomplete one-shot objective, then the first
// incomplete ongoing one. ok is false when everything is achieved.
func (t *ObjectiveTracker) Next(s *components.EcosystemState) (NextObjective, bool) {
	for i := range t.Objectives {
		obj := &t.Objectives[i]
		if !obj.Achieved {
			return NextObjective{Description: obj.Description, Percent: percent(obj.Progress(s))}, true
		}
	}
	for i := range t.Ongoing {
		obj := &t.Ongoing[i]
		if !obj.Achieved {
			return NextObjective{Description: obj.Description, Percent: percent(obj.Progress()), Ongoing: true}, true
		}
	}
	return NextObjective{}, false
}

func (t *ObjectiveTracker) achievementMet(ach *Achievement, s *components.EcosystemState) bool {
	switch ach.Kind {
	case EcosystemGuardian:
		for i := range t.Ongoing {
			if !t.Ongoing[i].Achieved {
				return false
			}
		}
		return true
	case DevilAdvocate:
		if s.Predator > devilAdvocateThreshold {
			ach.Streak++
		} else {
			ach.Streak = 0
		}
		return float64(ach.Streak) >= ach.Target
	case KeystoneKeeper:
		return s.Mesopredator >= ach.Target
	}
	return false
}

func (t *ObjectiveTracker) grant(description string, points int) Award {
	t.score += points
	return Award{Description: description, Points: points}
}

func percent(p float64) int {
	return int(math.Round(p * 100))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
