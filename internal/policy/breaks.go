package policy

import (
	"sync"
	"time"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// BreakReminder tracks continuous screen time and asks for a break after
// the configured work stretch. One reminder per stretch: the counter only
// resets after the user stays away for the configured break length.
type BreakReminder struct {
	mu       sync.Mutex
	settings domain.BreakSettings
	worked   time.Duration
	idle     time.Duration
	lastTick time.Time
	reminded bool
}

func NewBreakReminder(settings domain.BreakSettings) *BreakReminder {
	return &BreakReminder{settings: settings}
}

// Configure replaces the settings and resets the counters.
func (b *BreakReminder) Configure(settings domain.BreakSettings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = settings
	b.worked = 0
	b.idle = 0
	b.reminded = false
}

// Tick advances the counters. active reports whether a foreground app was
// in use since the last tick. remind is true on the single tick where the
// work stretch crosses the threshold; breakDone is true on the tick where
// a sufficient break completes.
func (b *BreakReminder) Tick(now time.Time, active bool) (remind, breakDone bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.settings.Enabled {
		b.worked, b.idle, b.reminded = 0, 0, false
		b.lastTick = now
		return false, false
	}

	var delta time.Duration
	if !b.lastTick.IsZero() {
		delta = now.Sub(b.lastTick)
		if delta < 0 {
			delta = 0
		}
	}
	b.lastTick = now

	if active {
		b.worked += delta
		b.idle = 0

		if !b.reminded && b.worked >= time.Duration(b.settings.WorkMinutes)*time.Minute {
			b.reminded = true
			return true, false
		}
		return false, false
	}

	b.idle += delta
	if b.idle >= time.Duration(b.settings.BreakMinutes)*time.Minute {
		wasReminded := b.reminded
		b.worked = 0
		b.idle = 0
		b.reminded = false
		return false, wasReminded
	}
	return false, false
}

// StartBreak begins a break immediately, regardless of minutes worked.
func (b *BreakReminder) StartBreak(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reminded = true
	b.idle = 0
	b.lastTick = now
}

// EndBreak finishes a break early and starts a fresh work stretch.
func (b *BreakReminder) EndBreak(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.worked = 0
	b.idle = 0
	b.reminded = false
	b.lastTick = now
}

// Reset clears all counters.
func (b *BreakReminder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.worked = 0
	b.idle = 0
	b.reminded = false
	b.lastTick = time.Time{}
}

// Status reports the current counters for display.
func (b *BreakReminder) Status() domain.BreakStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	return domain.BreakStatus{
		Enabled:       b.settings.Enabled,
		MinutesWorked: int(b.worked.Minutes()),
		WorkMinutes:   b.settings.WorkMinutes,
		IsOnBreak:     b.reminded && b.idle > 0,
	}
}
