package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/game"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string, valueColor rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, valueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a labelled bar for v over rng, filled with fill.
func (r *Renderer) DrawBar(x, y int32, label string, v float32, rng FieldRange, fill rl.Color, width int32) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fillWidth := int32(float32(barWidth) * rng.Normalize(v))
	rl.DrawRectangle(barX, y+2, fillWidth, r.Theme.BarHeight, fill)

	rl.DrawText(fmt.Sprintf("%.2f", v), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, snap *game.Snapshot, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		var text string
		if fd.TextGetter != nil {
			text = fd.TextGetter(snap)
		} else if fd.Getter != nil {
			text = fmt.Sprintf(fd.Format, fd.Getter(snap))
		}
		color := r.Theme.ValueColor
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(snap)
		} else if fd.Color.A != 0 {
			color = fd.Color
		}
		return r.DrawLabelValue(x, y, fd.Label, text, color)

	case WidgetBar:
		var v float32
		if fd.Getter != nil {
			v = fd.Getter(snap)
		}
		fill := r.Theme.BarFill
		if fd.Color.A != 0 {
			fill = fd.Color
		}
		return r.DrawBar(x, y, fd.Label, v, fd.Range, fill, width)

	case WidgetGradientBar:
		var v float32
		if fd.Getter != nil {
			v = fd.Getter(snap)
		}
		fill := LerpColor(r.Theme.BarFillLow, r.Theme.BarFillHigh, fd.Range.Normalize(v))
		return r.DrawBar(x, y, fd.Label, v, fd.Range, fill, width)

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + 6
	}

	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, snap *game.Snapshot, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(snap) {
		return y
	}

	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}

	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(snap) {
			continue
		}
		y = r.DrawField(x, y, fd, snap, width)
	}

	return y + 4
}

// SectionHeight returns the height DrawSection will use for the snapshot.
func (r *Renderer) SectionHeight(sd SectionDescriptor, snap *game.Snapshot) int32 {
	if sd.Visible != nil && !sd.Visible(snap) {
		return 0
	}
	var h int32
	if sd.Title != "" {
		h += r.Theme.LineHeight + 2
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(snap) {
			continue
		}
		switch fd.Widget {
		case WidgetBar, WidgetGradientBar:
			h += r.Theme.LineHeight + 2
		case WidgetSection:
			h += r.Theme.LineHeight + 2
		case WidgetSpacer:
			h += 6
		default:
			h += r.Theme.LineHeight
		}
	}
	return h + 4
}
