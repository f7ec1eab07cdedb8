package components

import "time"

// NotificationKind identifies the outward event class.
type NotificationKind uint8

const (
	NotifyAchievement NotificationKind = iota
	NotifyNarrative
	NotifyDisturbance
	NotifyBadge
)

// String returns a short label for logs.
func (k NotificationKind) String() string {
	switch k {
	case NotifyAchievement:
		return "achievement"
	case NotifyNarrative:
		return "narrative"
	case NotifyDisturbance:
		return "disturbance"
	case NotifyBadge:
		return "badge"
	default:
		return "unknown"
	}
}

// Display durations handed to renderers. The core never waits on them.
const (
	AchievementDisplay = 3 * time.Second
	DisturbanceDisplay = 3 * time.Second
	NarrativeDisplay   = 5 * time.Second
	FadeDuration       = 1 * time.Second
)

// Notification is a one-shot message emitted by the tick pipeline.
type Notification struct {
	Kind     NotificationKind
	Tick     int
	Text     string
	Points   int           // Award value, zero for non-award messages
	Color    string        // Severity hint for disturbances, "#rrggbb"
	Duration time.Duration // How long a renderer should show it before fading
}
