package ui

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/notify"
)

// speedStep is the speed change per key press.
const speedStep = 0.5

// maxToasts bounds the number of messages on screen.
const maxToasts = 5

// Dashboard is the graphical front-end. It reads snapshots from the game,
// draws them and feeds player input back.
type Dashboard struct {
	g      *game.Game
	width  int32
	height int32

	hud      *HUD
	perf     *PerfPanel
	chart    *Chart
	web      *FoodWeb
	controls *ControlsPanel
	keys     *KeyMap
	board    *notify.Board

	exportPath string
	showPerf   bool
	background rl.Color
}

// NewDashboard lays out the panels for the configured screen size.
func NewDashboard(g *game.Game, cfg *config.Config, exportPath string) *Dashboard {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	sideWidth := int32(360)
	mainWidth := w - sideWidth - 40

	d := &Dashboard{
		g:          g,
		width:      w,
		height:     h,
		hud:        NewHUD(w-sideWidth-10, 10, sideWidth),
		perf:       NewPerfPanel(20, h-170),
		chart:      NewChart(rl.Rectangle{X: 50, Y: float32(h) * 0.5, Width: float32(mainWidth - 30), Height: float32(h)*0.5 - 60}),
		web:        NewFoodWeb(rl.Rectangle{X: 20, Y: 80, Width: float32(mainWidth), Height: float32(h)*0.5 - 100}),
		controls:   NewControlsPanel(cfg, w-sideWidth-10, 0, sideWidth),
		keys:       NewKeyMap(),
		board:      notify.NewBoard(maxToasts),
		exportPath: exportPath,
		background: DefaultTheme().Background,
	}
	return d
}

// Frame advances the game by wall time, handles input and draws one frame.
func (d *Dashboard) Frame(now time.Time, dt time.Duration) {
	d.g.Frame(now)

	for _, n := range d.g.DrainNotifications() {
		d.board.Push(n)
	}
	d.board.Update(dt)

	for _, a := range d.keys.Pressed() {
		d.apply(a)
	}

	snap := d.g.Snapshot()

	rl.BeginDrawing()
	rl.ClearBackground(d.background)

	bg := d.background
	if snap.Toggles.ShowSeasons {
		bg = HexColor(snap.SeasonColor)
	}
	d.web.Draw(snap.Populations, bg)
	d.chart.Draw(d.g.LiveSeries())

	d.hud.DrawTitle(&snap, rl.GetFPS())
	bottom := d.hud.Draw(&snap)
	d.controls.SetPosition(d.controls.x, bottom+10)
	res := d.controls.Draw(&snap)

	if d.showPerf {
		d.perf.Draw(d.g.PerfStats())
	}
	DrawToasts(d.board.Active(), d.width-d.hud.width-20, 90)
	d.hud.DrawControls(d.height, d.keys.Legend())

	rl.EndDrawing()

	// Sliders and buttons act after drawing, raygui reports them during it
	if res.Controls != snap.Controls {
		d.g.SetControls(res.Controls)
	}
	if res.Speed != snap.Speed {
		d.g.SetSpeed(res.Speed)
	}
	for _, a := range res.Actions {
		d.apply(a)
	}
}

func (d *Dashboard) apply(a ActionID) {
	switch a {
	case ActionPause:
		d.g.TogglePause()
	case ActionReset:
		d.g.Reset()
		d.board.Clear()
	case ActionSpeedUp:
		d.g.SetSpeed(d.g.Speed() + speedStep)
	case ActionSpeedDown:
		d.g.SetSpeed(d.g.Speed() - speedStep)
	case ActionGrassLimit:
		t := d.g.Toggles()
		t.GrassLimit = !t.GrassLimit
		d.g.SetToggles(t)
	case ActionDisasters:
		t := d.g.Toggles()
		t.Disasters = !t.Disasters
		d.g.SetToggles(t)
	case ActionSeasons:
		t := d.g.Toggles()
		t.ShowSeasons = !t.ShowSeasons
		d.g.SetToggles(t)
	case ActionExport:
		d.export()
	case ActionPerf:
		d.showPerf = !d.showPerf
	}
}

func (d *Dashboard) export() {
	n := components.Notification{
		Kind:     components.NotifyNarrative,
		Tick:     d.g.Tick(),
		Duration: components.AchievementDisplay,
	}
	if err := d.g.ExportFile(d.exportPath); err != nil {
		slog.Error("export failed", "path", d.exportPath, "error", err)
		n.Text = fmt.Sprintf("Export failed: %v", err)
	} else {
		n.Text = "Exported " + d.exportPath
	}
	d.board.Push(n)
}
