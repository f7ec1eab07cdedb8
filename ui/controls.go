package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
)

// ControlsResult is what the player changed on the controls panel this frame.
type ControlsResult struct {
	Controls components.ControlInputs
	Speed    float64
	Actions  []ActionID
}

// ControlsPanel renders the sliders and buttons.
type ControlsPanel struct {
	renderer *Renderer
	cfg      config.ControlsConfig
	sim      config.SimulationConfig
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(cfg *config.Config, x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		cfg:      cfg.Controls,
		sim:      cfg.Simulation,
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel for the snapshot and returns the player's input.
func (c *ControlsPanel) Draw(snap *game.Snapshot) ControlsResult {
	r := c.renderer
	padding := r.Theme.Padding
	res := ControlsResult{Controls: snap.Controls, Speed: snap.Speed}

	const sliderRow = 40
	const buttonRow = 36
	height := padding*2 + r.Theme.LineHeight + 5*sliderRow + 3*buttonRow
	r.DrawPanel(c.x, c.y, c.width, height)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	w := float32(c.width - padding*2)

	rl.DrawText("Controls", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += float32(r.Theme.LineHeight) + 4

	slider := func(label string, value float64, sc config.SliderConfig, format string) float64 {
		rl.DrawText(label, int32(x), int32(y), 12, r.Theme.LabelColor)
		valueText := fmt.Sprintf(format, value)
		rl.DrawText(valueText, int32(x+w)-rl.MeasureText(valueText, 12), int32(y), 12, r.Theme.ValueColor)
		v := gui.SliderBar(
			rl.Rectangle{X: x, Y: y + 14, Width: w, Height: 16},
			"", "",
			float32(value), float32(sc.Min), float32(sc.Max),
		)
		y += sliderRow
		if float64(v) != float64(float32(value)) {
			return float64(v)
		}
		return value
	}

	res.Controls.Rainfall = slider("Rainfall", res.Controls.Rainfall, c.cfg.Rainfall, "%.0f")
	res.Controls.Temperature = slider("Temperature", res.Controls.Temperature, c.cfg.Temperature, "%.0f")
	res.Controls.InvasiveSpecies = slider("Invasive Species", res.Controls.InvasiveSpecies, c.cfg.InvasiveSpecies, "%.1f")
	res.Controls.HumanImpact = slider("Human Impact", res.Controls.HumanImpact, c.cfg.HumanImpact, "%.1f")
	res.Speed = slider("Speed", res.Speed, config.SliderConfig{Min: c.sim.MinSpeed, Max: c.sim.MaxSpeed}, "%.1fx")

	half := (w - 10) / 2
	button := func(col int, label string, id ActionID) {
		bx := x + float32(col)*(half+10)
		if gui.Button(rl.Rectangle{X: bx, Y: y, Width: half, Height: 28}, label) {
			res.Actions = append(res.Actions, id)
		}
	}

	button(0, toggleText(snap.Paused, "Resume", "Pause"), ActionPause)
	button(1, "Reset", ActionReset)
	y += buttonRow
	button(0, toggleText(snap.Toggles.GrassLimit, "Grass Limit: On", "Grass Limit: Off"), ActionGrassLimit)
	button(1, toggleText(snap.Toggles.Disasters, "Disasters: On", "Disasters: Off"), ActionDisasters)
	y += buttonRow
	button(0, toggleText(snap.Toggles.ShowSeasons, "Seasons: On", "Seasons: Off"), ActionSeasons)
	button(1, "Export CSV", ActionExport)

	return res
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
