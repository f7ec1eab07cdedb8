package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ActionID identifies a player action triggered by a key or a button.
type ActionID string

// Dashboard actions.
const (
	ActionPause      ActionID = "pause"
	ActionReset      ActionID = "reset"
	ActionGrassLimit ActionID = "grass_limit"
	ActionDisasters  ActionID = "disasters"
	ActionSeasons    ActionID = "seasons"
	ActionExport     ActionID = "export"
	ActionSpeedUp    ActionID = "speed_up"
	ActionSpeedDown  ActionID = "speed_down"
	ActionPerf       ActionID = "perf"
)

// KeyBinding maps a keyboard key to an action.
type KeyBinding struct {
	ID       ActionID
	Name     string // Display name
	Key      int32  // Keyboard key (0 = button only)
	KeyLabel string // Key label for display (e.g., "Space")
}

// KeyMap holds the bindings in display order.
type KeyMap struct {
	bindings []KeyBinding
	byID     map[ActionID]KeyBinding
}

// NewKeyMap creates a key map with the default bindings.
func NewKeyMap() *KeyMap {
	km := &KeyMap{byID: make(map[ActionID]KeyBinding)}
	km.Register(KeyBinding{ID: ActionPause, Name: "Pause", Key: rl.KeySpace, KeyLabel: "Space"})
	km.Register(KeyBinding{ID: ActionReset, Name: "Reset", Key: rl.KeyR, KeyLabel: "R"})
	km.Register(KeyBinding{ID: ActionSpeedDown, Name: "Slower", Key: rl.KeyMinus, KeyLabel: "-"})
	km.Register(KeyBinding{ID: ActionSpeedUp, Name: "Faster", Key: rl.KeyEqual, KeyLabel: "+"})
	km.Register(KeyBinding{ID: ActionGrassLimit, Name: "Grass Limit", Key: rl.KeyG, KeyLabel: "G"})
	km.Register(KeyBinding{ID: ActionDisasters, Name: "Disasters", Key: rl.KeyD, KeyLabel: "D"})
	km.Register(KeyBinding{ID: ActionSeasons, Name: "Seasons", Key: rl.KeyS, KeyLabel: "S"})
	km.Register(KeyBinding{ID: ActionExport, Name: "Export", Key: rl.KeyE, KeyLabel: "E"})
	km.Register(KeyBinding{ID: ActionPerf, Name: "Perf", Key: rl.KeyP, KeyLabel: "P"})
	return km
}

// Register adds or replaces a binding.
func (km *KeyMap) Register(b KeyBinding) {
	if _, exists := km.byID[b.ID]; !exists {
		km.bindings = append(km.bindings, b)
	} else {
		for i := range km.bindings {
			if km.bindings[i].ID == b.ID {
				km.bindings[i] = b
			}
		}
	}
	km.byID[b.ID] = b
}

// Get returns the binding for an action.
func (km *KeyMap) Get(id ActionID) (KeyBinding, bool) {
	b, ok := km.byID[id]
	return b, ok
}

// Bindings returns all bindings in registration order.
func (km *KeyMap) Bindings() []KeyBinding {
	return km.bindings
}

// Pressed returns the actions whose keys went down this frame.
func (km *KeyMap) Pressed() []ActionID {
	var actions []ActionID
	for _, b := range km.bindings {
		if b.Key != 0 && rl.IsKeyPressed(b.Key) {
			actions = append(actions, b.ID)
		}
	}
	return actions
}

// Legend returns a one-line key legend, e.g. "[Space] Pause  [R] Reset".
func (km *KeyMap) Legend() string {
	parts := make([]string, 0, len(km.bindings))
	for _, b := range km.bindings {
		if b.KeyLabel == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", b.KeyLabel, b.Name))
	}
	return strings.Join(parts, "  ")
}
