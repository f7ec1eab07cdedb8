package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

// StatusSections describes the right-hand status panel.
var StatusSections = []SectionDescriptor{
	{
		ID:    "ecosystem",
		Title: "Ecosystem",
		Fields: []FieldDescriptor{
			{ID: "tick", Label: "Tick", Widget: WidgetText, TextGetter: func(s *game.Snapshot) string {
				return fmt.Sprintf("%d", s.Tick)
			}},
			{ID: "season", Label: "Season", Widget: WidgetText, TextGetter: func(s *game.Snapshot) string {
				return s.Season.String()
			}},
			{ID: "rainfall", Label: "Rainfall", Widget: WidgetText, Format: "%.1f", Getter: func(s *game.Snapshot) float32 {
				return float32(s.AmbientRainfall)
			}},
			{ID: "temperature", Label: "Temperature", Widget: WidgetText, Format: "%.1f", Getter: func(s *game.Snapshot) float32 {
				return float32(s.AmbientTemperature)
			}},
			{ID: "health", Label: "Health", Widget: WidgetText,
				TextGetter:  func(s *game.Snapshot) string { return s.Health.String() },
				ColorGetter: func(s *game.Snapshot) rl.Color { return HealthColor(s.Health) },
			},
			{ID: "biodiversity", Label: "Biodiversity", Widget: WidgetGradientBar, Range: DefaultRange(), Getter: func(s *game.Snapshot) float32 {
				return float32(s.Biodiversity)
			}},
		},
	},
	{
		ID:    "populations",
		Title: "Populations",
		Fields: []FieldDescriptor{
			populationField(components.Vegetation),
			populationField(components.Herbivore),
			populationField(components.Predator),
			populationField(components.Mesopredator),
		},
	},
	{
		ID:    "score",
		Title: "Conservation",
		Fields: []FieldDescriptor{
			{ID: "score", Label: "Score", Widget: WidgetText, TextGetter: func(s *game.Snapshot) string {
				return fmt.Sprintf("%d", s.Score)
			}},
			{ID: "badge", Label: "Badge", Widget: WidgetText, Color: rl.Gold,
				Visible:    func(s *game.Snapshot) bool { return s.Badge },
				TextGetter: func(*game.Snapshot) string { return "Ranger" },
			},
			{ID: "next", Label: "Next", Widget: WidgetText,
				Visible: func(s *game.Snapshot) bool { return s.HasNext },
				TextGetter: func(s *game.Snapshot) string {
					return fmt.Sprintf("%s (%d%%)", s.Next.Description, s.Next.Percent)
				},
			},
			{ID: "complete", Label: "Next", Widget: WidgetText,
				Visible:    func(s *game.Snapshot) bool { return !s.HasNext },
				TextGetter: func(*game.Snapshot) string { return "All objectives complete" },
			},
		},
	},
}

func populationField(sp components.Species) FieldDescriptor {
	return FieldDescriptor{
		ID:     "population_" + sp.String(),
		Label:  sp.String(),
		Widget: WidgetText,
		Color:  SpeciesColors[sp],
		TextGetter: func(s *game.Snapshot) string {
			return fmt.Sprintf("%.0f (max %.0f)", s.Populations[sp], s.Maxima[sp])
		},
	}
}

// HUD renders the status panel and the title line.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at the given position.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (h *HUD) SetPosition(x, y int32) {
	h.x = x
	h.y = y
}

// Draw renders the status panel and returns the Y below it.
func (h *HUD) Draw(snap *game.Snapshot) int32 {
	r := h.renderer
	padding := r.Theme.Padding

	height := padding * 2
	for _, sd := range StatusSections {
		height += r.SectionHeight(sd, snap)
	}
	r.DrawPanel(h.x, h.y, h.width, height)

	y := h.y + padding
	for _, sd := range StatusSections {
		y = r.DrawSection(h.x+padding, y, sd, snap, h.width-padding*2)
	}
	return h.y + height
}

// DrawTitle renders the title and run status at the top left.
func (h *HUD) DrawTitle(snap *game.Snapshot, fps int32) {
	rl.DrawText("Tasmanian Ecosystem", 10, 10, 20, rl.DarkGray)

	status := fmt.Sprintf("Speed: %.1fx | FPS: %d", snap.Speed, fps)
	rl.DrawText(status, 10, 35, 16, rl.Gray)
	if snap.Paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Maroon)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, legend string) {
	rl.DrawText(legend, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.DarkGray)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.DarkBlue)
	y += 16

	for phase := telemetry.Phase(0); phase < telemetry.NumPhases; phase++ {
		pct := stats.PhasePct[phase]
		color := rl.DarkGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
