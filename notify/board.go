// Package notify keeps the on-screen message board. Each toast is an ECS
// entity that ages every frame and is removed once its fade completes.
package notify

import (
	"sort"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// Toast is the message component.
type Toast struct {
	Seq    uint64
	Kind   components.NotificationKind
	Tick   int
	Text   string
	Points int
	Color  string
}

// Lifetime tracks how long a toast has been shown.
type Lifetime struct {
	Age  time.Duration
	Hold time.Duration // Fully opaque phase
	Fade time.Duration
}

// Alpha returns opacity in [0, 1] for the current age.
func (l Lifetime) Alpha() float32 {
	if l.Age <= l.Hold {
		return 1
	}
	if l.Fade <= 0 {
		return 0
	}
	a := 1 - float32(l.Age-l.Hold)/float32(l.Fade)
	if a < 0 {
		return 0
	}
	return a
}

// Expired reports whether the toast has fully faded.
func (l Lifetime) Expired() bool {
	return l.Age >= l.Hold+l.Fade
}

// Entry is a visible toast with its current opacity.
type Entry struct {
	Toast
	Alpha float32
}

// Board holds active toasts.
type Board struct {
	world     *ecs.World
	mapper    *ecs.Map2[Toast, Lifetime]
	filter    *ecs.Filter2[Toast, Lifetime]
	maxActive int
	seq       uint64
}

// NewBoard creates a board showing at most maxActive toasts. Older toasts
// are dropped first when the limit is exceeded. maxActive <= 0 means no limit.
func NewBoard(maxActive int) *Board {
	world := ecs.NewWorld()
	return &Board{
		world:     world,
		mapper:    ecs.NewMap2[Toast, Lifetime](world),
		filter:    ecs.NewFilter2[Toast, Lifetime](world),
		maxActive: maxActive,
	}
}

// Push adds a notification to the board.
func (b *Board) Push(n components.Notification) {
	b.seq++
	toast := Toast{
		Seq:    b.seq,
		Kind:   n.Kind,
		Tick:   n.Tick,
		Text:   n.Text,
		Points: n.Points,
		Color:  n.Color,
	}
	hold := n.Duration
	if hold <= 0 {
		hold = components.AchievementDisplay
	}
	life := Lifetime{Hold: hold, Fade: components.FadeDuration}
	b.mapper.NewEntity(&toast, &life)

	if b.maxActive > 0 {
		b.trim()
	}
}

// Update ages every toast by dt and removes the expired ones.
func (b *Board) Update(dt time.Duration) {
	var expired []ecs.Entity

	query := b.filter.Query()
	for query.Next() {
		_, life := query.Get()
		life.Age += dt
		if life.Expired() {
			expired = append(expired, query.Entity())
		}
	}

	for _, e := range expired {
		b.world.RemoveEntity(e)
	}
}

// Active returns the visible toasts, oldest first.
func (b *Board) Active() []Entry {
	var entries []Entry
	query := b.filter.Query()
	for query.Next() {
		toast, life := query.Get()
		entries = append(entries, Entry{Toast: *toast, Alpha: life.Alpha()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	return entries
}

// Len returns the number of active toasts.
func (b *Board) Len() int {
	n := 0
	query := b.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Clear removes every toast.
func (b *Board) Clear() {
	b.removeWhere(func(*Toast) bool { return true })
}

// trim drops the oldest toasts beyond maxActive.
func (b *Board) trim() {
	n := b.Len()
	if n <= b.maxActive {
		return
	}
	cutoff := b.seq - uint64(b.maxActive)
	b.removeWhere(func(t *Toast) bool { return t.Seq <= cutoff })
}

func (b *Board) removeWhere(match func(*Toast) bool) {
	var toRemove []ecs.Entity
	query := b.filter.Query()
	for query.Next() {
		toast, _ := query.Get()
		if match(toast) {
			toRemove = append(toRemove, query.Entity())
		}
	}
	for _, e := range toRemove {
		b.world.RemoveEntity(e)
	}
}
