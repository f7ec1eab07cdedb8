// Package ui draws the ecosystem dashboard with raylib.
// Panels are defined through descriptors over a game.Snapshot, so adding a
// readout means adding a field, not new layout code.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/game"
)

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetGradientBar                   // Bar blended from BarFillLow to BarFillHigh
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// Normalize maps v into [0, 1] over the range.
func (r FieldRange) Normalize(v float32) float32 {
	if r.Max <= r.Min {
		return 0
	}
	n := (v - r.Min) / (r.Max - r.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID          string                        // Unique identifier for the field
	Label       string                        // Display label
	Widget      WidgetType                    // How to render
	Format      string                        // Printf format for text (e.g., "%.2f")
	Range       FieldRange                    // Value range for bars
	Color       rl.Color                      // Optional color override
	Visible     func(*game.Snapshot) bool     // Optional visibility check (nil = always visible)
	Getter      func(*game.Snapshot) float32  // Value extractor (for numeric fields)
	TextGetter  func(*game.Snapshot) string   // Value extractor (for text fields)
	ColorGetter func(*game.Snapshot) rl.Color // Text color extractor
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string                    // Unique identifier
	Title   string                    // Section header text
	Fields  []FieldDescriptor         // Fields in this section
	Visible func(*game.Snapshot) bool // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.Color{R: 240, G: 240, B: 240, A: 255},
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 255, G: 0, B: 0, A: 255},
		BarFillHigh:    rl.Color{R: 0, G: 255, B: 0, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     96,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}
