package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/notify"
)

// ToastText returns the line shown for a toast.
func ToastText(t notify.Toast) string {
	if t.Kind == components.NotifyAchievement && t.Points > 0 {
		return fmt.Sprintf("%s (+%d)", t.Text, t.Points)
	}
	return t.Text
}

// ToastColor returns the background color of a toast.
func ToastColor(t notify.Toast) rl.Color {
	switch t.Kind {
	case components.NotifyAchievement:
		return HexColor("#4CAF50")
	case components.NotifyBadge:
		return rl.Gold
	case components.NotifyDisturbance:
		if t.Color != "" {
			return HexColor(t.Color)
		}
		return HexColor("#ff5722")
	default:
		return rl.Color{R: 60, G: 60, B: 60, A: 255}
	}
}

// DrawToasts renders active toasts stacked downward from the top centre.
func DrawToasts(entries []notify.Entry, screenWidth, top int32) {
	const fontSize = 16
	const height = 32
	y := top
	for _, e := range entries {
		text := ToastText(e.Toast)
		w := rl.MeasureText(text, fontSize) + 30
		x := (screenWidth - w) / 2
		rl.DrawRectangleRounded(
			rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: height},
			0.3, 6, WithAlpha(ToastColor(e.Toast), 0.9*e.Alpha),
		)
		rl.DrawText(text, x+15, y+8, fontSize, WithAlpha(rl.White, e.Alpha))
		y += height + 6
	}
}
