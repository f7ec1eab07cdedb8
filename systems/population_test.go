package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func initialState() components.EcosystemState {
	return components.EcosystemState{
		Vegetation:   100,
		Herbivore:    50,
		Predator:     10,
		Mesopredator: 30,
	}
}

// ---------- Step ----------

func TestStep_FirstTickFromInitialState(t *testing.T) {
	s := initialState()
	e := NewPopulationEngine(1500)
	e.Step(&s, Drivers{Rainfall: 70, Temperature: 20})

	// Grass reads the pre-update herbivores and bandicoots
	wantGrass := 100 + (70.0/20)*(1+30*0.002) - 50.0/25
	if math.Abs(s.Vegetation-wantGrass) > 1e-9 {
		t.Errorf("vegetation = %v, want %v", s.Vegetation, wantGrass)
	}

	// Pademelons read the updated grass
	wantHerb := 50 + wantGrass/200 - 10.0/8
	if math.Abs(s.Herbivore-wantHerb) > 1e-9 {
		t.Errorf("herbivore = %v, want %v", s.Herbivore, wantHerb)
	}

	wantMeso := 30 + (wantGrass/300 - wantHerb/400) - 10.0/15
	if math.Abs(s.Mesopredator-wantMeso) > 1e-9 {
		t.Errorf("mesopredator = %v, want %v", s.Mesopredator, wantMeso)
	}

	food := wantHerb/70 + wantMeso/100
	density := 1 - 10/((wantHerb+wantMeso)*0.4+1)
	wantPred := 10 + food*density
	if math.Abs(s.Predator-wantPred) > 1e-9 {
		t.Errorf("predator = %v, want %v", s.Predator, wantPred)
	}
}

func TestStep_FloorsNegativeResults(t *testing.T) {
	s := components.EcosystemState{Vegetation: 1, Herbivore: 1, Predator: 1, Mesopredator: 1}
	e := NewPopulationEngine(1500)
	e.Step(&s, Drivers{Rainfall: 0, Temperature: 45, Invasive: 10, HumanImpact: 10})

	for sp, v := range s.Populations() {
		if v != 0 {
			t.Errorf("%s = %v, want 0", components.Species(sp), v)
		}
	}
}

func TestStep_TemperatureStress(t *testing.T) {
	tests := []struct {
		name string
		temp float64
	}{
		{"comfortable", 20},
		{"herbivore heat", 28},
		{"meso heat", 36},
		{"cold", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := components.EcosystemState{Vegetation: 800, Herbivore: 200, Predator: 40, Mesopredator: 100}
			e := NewPopulationEngine(1500)
			e.Step(&s, Drivers{Rainfall: 50, Temperature: tt.temp})

			herbHeat := math.Max(0, (tt.temp-25)/10)
			grass := s.Vegetation
			wantHerb := 200 + grass/200 - 40.0/8 - herbHeat
			if math.Abs(s.Herbivore-wantHerb) > 1e-9 {
				t.Errorf("herbivore = %v, want %v", s.Herbivore, wantHerb)
			}

			mesoHeat := 0.0
			if tt.temp > 30 {
				mesoHeat = -(tt.temp - 30) / 15
			}
			wantMeso := 100 + (grass/300 - wantHerb/400) - 40.0/15 + mesoHeat
			if math.Abs(s.Mesopredator-wantMeso) > 1e-9 {
				t.Errorf("mesopredator = %v, want %v", s.Mesopredator, wantMeso)
			}
		})
	}
}

func TestStep_MaximaTrackedBeforeEnforcement(t *testing.T) {
	s := components.EcosystemState{Vegetation: 1499, Herbivore: 0, Predator: 0, Mesopredator: 0}
	e := NewPopulationEngine(1500)
	e.Step(&s, Drivers{Rainfall: 100})

	if s.Maxima[components.Vegetation] <= 1500 {
		t.Fatalf("expected unclamped maximum above 1500, got %v", s.Maxima[components.Vegetation])
	}
	e.Enforce(&s, true)
	if s.Vegetation != 1500 {
		t.Errorf("vegetation = %v, want 1500 after enforcement", s.Vegetation)
	}
	if s.Maxima[components.Vegetation] <= 1500 {
		t.Errorf("enforcement must not rewrite maxima, got %v", s.Maxima[components.Vegetation])
	}
}

// ---------- Enforce ----------

func TestEnforce_Ceilings(t *testing.T) {
	tests := []struct {
		name       string
		in         components.EcosystemState
		grassLimit bool
		want       components.Populations
	}{
		{
			name:       "grass clamped",
			in:         components.EcosystemState{Vegetation: 2000, Herbivore: 100, Predator: 10, Mesopredator: 20},
			grassLimit: true,
			want:       components.Populations{1500, 100, 10, 20},
		},
		{
			name:       "grass unlimited",
			in:         components.EcosystemState{Vegetation: 2000, Herbivore: 100, Predator: 10, Mesopredator: 20},
			grassLimit: false,
			want:       components.Populations{2000, 100, 10, 20},
		},
		{
			name:       "predator capped by prey",
			in:         components.EcosystemState{Vegetation: 1000, Herbivore: 40, Predator: 90, Mesopredator: 20},
			grassLimit: true,
			want:       components.Populations{1000, 40, 30, 20},
		},
		{
			name:       "meso capped by grass",
			in:         components.EcosystemState{Vegetation: 100, Herbivore: 40, Predator: 5, Mesopredator: 50},
			grassLimit: true,
			want:       components.Populations{100, 40, 5, 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.in
			NewPopulationEngine(1500).Enforce(&s, tt.grassLimit)
			got := s.Populations()
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("%s = %v, want %v", components.Species(i), got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------- Invariants over long runs ----------

func TestInvariantsHoldUnderRandomControls(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := NewPopulationEngine(1500)
	s := initialState()

	for tick := 0; tick < 20000; tick++ {
		d := Drivers{
			Rainfall:    rng.Float64() * 120,
			Temperature: rng.Float64() * 45,
			Invasive:    rng.Float64() * 10,
			HumanImpact: rng.Float64() * 10,
		}
		e.Step(&s, d)
		e.Enforce(&s, true)

		for sp, v := range s.Populations() {
			if v < 0 {
				t.Fatalf("tick %d: %s negative: %v", tick, components.Species(sp), v)
			}
		}
		if s.Vegetation > 1500 {
			t.Fatalf("tick %d: vegetation %v above capacity", tick, s.Vegetation)
		}
		if s.Predator > 0.5*(s.Herbivore+s.Mesopredator)+1e-9 {
			t.Fatalf("tick %d: predator %v above prey capacity", tick, s.Predator)
		}
		if s.Mesopredator > 0.15*s.Vegetation+1e-9 {
			t.Fatalf("tick %d: mesopredator %v above grass capacity", tick, s.Mesopredator)
		}
	}
}

func TestAllZeroStateKeepsTicking(t *testing.T) {
	var s components.EcosystemState
	e := NewPopulationEngine(1500)
	for i := 0; i < 10; i++ {
		e.Step(&s, Drivers{Rainfall: 60, Temperature: 20})
		e.Enforce(&s, true)
	}
	if s.Vegetation <= 0 {
		t.Errorf("grass should regrow from rainfall alone, got %v", s.Vegetation)
	}
	for sp, v := range s.Populations() {
		if math.IsNaN(v) {
			t.Errorf("%s is NaN", components.Species(sp))
		}
	}
}
