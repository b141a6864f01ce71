package policy

import (
	"sync"
	"time"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// NotificationKind distinguishes dedup buckets: an app can get one warning
// and one exceeded alert per day, independently.
type NotificationKind string

const (
	NotifyWarning  NotificationKind = "warning"
	NotifyExceeded NotificationKind = "exceeded"
)

// InDNDWindow reports whether t falls inside the do-not-disturb hours. An
// end hour earlier than the start denotes a window wrapping past midnight.
func InDNDWindow(settings domain.NotificationSettings, t time.Time) bool {
	if !settings.DNDEnabled {
		return false
	}
	h := t.Hour()
	start, end := settings.DNDStartHour, settings.DNDEndHour
	if start == end {
		return false
	}
	if end < start {
		return h >= start || h < end
	}
	return h >= start && h < end
}

// NotificationGate decides whether a threshold alert may fire: settings
// must allow it, the DND window must not cover now, and the same (app,
// kind) pair must not have fired today already. Dedup state is transient;
// a daemon restart may repeat at most one alert per pair.
type NotificationGate struct {
	mu       sync.Mutex
	settings domain.NotificationSettings
	sentDay  string
	sent     map[string]bool
}

func NewNotificationGate(settings domain.NotificationSettings) *NotificationGate {
	return &NotificationGate{
		settings: settings,
		sent:     make(map[string]bool),
	}
}

// Configure replaces the settings. Dedup state is kept: changing DND hours
// must not re-fire alerts already delivered today.
func (g *NotificationGate) Configure(settings domain.NotificationSettings) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.settings = settings
}

// Allow reports whether an alert for (app, kind) may fire at now, and if
// so records it as sent. Callers must only call Allow when they intend to
// notify.
func (g *NotificationGate) Allow(app string, kind NotificationKind, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.settings.Enabled {
		return false
	}
	if InDNDWindow(g.settings, now) {
		return false
	}

	day := now.Format("2006-01-02")
	if day != g.sentDay {
		g.sentDay = day
		g.sent = make(map[string]bool)
	}

	key := app + "|" + string(kind)
	if g.sent[key] {
		return false
	}
	g.sent[key] = true
	return true
}
