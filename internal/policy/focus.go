package policy

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// FocusEventType is what the tick loop should react to.
type FocusEventType string

const (
	FocusStarted FocusEventType = "started"
	FocusEnded   FocusEventType = "ended"
)

// FocusEvent is emitted by the manager on session transitions.
type FocusEvent struct {
	Type        FocusEventType
	Name        string
	BlockedApps []string
	Scheduled   bool
	Completed   bool // ended by reaching its planned end, not stopped early
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", v)
	}
	return h*60 + m, nil
}

// ValidateWindow checks that both ends of a schedule window parse as
// HH:MM clocks.
func ValidateWindow(startTime, endTime string) error {
	if _, err := parseClock(startTime); err != nil {
		return err
	}
	_, err := parseClock(endTime)
	return err
}

// ScheduleActiveAt reports whether the schedule's window covers t. An end
// time earlier than the start denotes a window wrapping past midnight:
// active when t is at or after the start, or before the end.
func ScheduleActiveAt(schedule domain.FocusSchedule, t time.Time) bool {
	if !schedule.Enabled {
		return false
	}

	dayMatch := len(schedule.Days) == 0
	for _, d := range schedule.Days {
		if d == t.Weekday() {
			dayMatch = true
			break
		}
	}
	if !dayMatch {
		return false
	}

	start, err := parseClock(schedule.StartTime)
	if err != nil {
		return false
	}
	end, err := parseClock(schedule.EndTime)
	if err != nil {
		return false
	}

	now := t.Hour()*60 + t.Minute()
	if end < start {
		return now >= start || now < end
	}
	return now >= start && now < end
}

// FocusManager owns the single focus session slot. A manually started
// session is never displaced by a schedule; schedules only fill an idle
// slot. All methods are safe for concurrent use.
type FocusManager struct {
	mu      sync.Mutex
	active  bool
	session domain.FocusSession
}

func NewFocusManager() *FocusManager {
	return &FocusManager{}
}

// StartManual begins a manual focus session. durationMinutes 0 means
// open-ended until stopped.
func (m *FocusManager) StartManual(durationMinutes int, blockedApps []string, now time.Time) (FocusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return FocusEvent{}, fmt.Errorf("focus session already active")
	}

	m.active = true
	m.session = domain.FocusSession{
		IsActive:        true,
		StartTime:       now.Unix(),
		DurationMinutes: durationMinutes,
		BlockedApps:     append([]string(nil), blockedApps...),
	}
	if durationMinutes > 0 {
		m.session.EndTime = now.Add(time.Duration(durationMinutes) * time.Minute).Unix()
	}

	return FocusEvent{Type: FocusStarted, BlockedApps: m.session.BlockedApps}, nil
}

// Stop ends the active session early.
func (m *FocusManager) Stop(now time.Time) (FocusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return FocusEvent{}, fmt.Errorf("no active focus session")
	}
	return m.endLocked(false), nil
}

// Extend pushes the active session's end out by minutes. Open-ended
// sessions gain an end time counted from now.
func (m *FocusManager) Extend(minutes int, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return fmt.Errorf("no active focus session")
	}
	if minutes <= 0 {
		return fmt.Errorf("extension must be positive, got %d", minutes)
	}

	if m.session.EndTime == 0 {
		m.session.EndTime = now.Add(time.Duration(minutes) * time.Minute).Unix()
	} else {
		m.session.EndTime += int64(minutes) * 60
	}
	m.session.DurationMinutes += minutes
	return nil
}

// Status returns a copy of the session state with MinutesRemaining
// computed against now.
func (m *FocusManager) Status(now time.Time) domain.FocusSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return domain.FocusSession{}
	}
	s := m.session
	s.BlockedApps = append([]string(nil), m.session.BlockedApps...)
	if s.EndTime > 0 {
		remaining := s.EndTime - now.Unix()
		if remaining < 0 {
			remaining = 0
		}
		s.MinutesRemaining = int(remaining / 60)
	}
	return s
}

// BlockedNow returns the apps blocked by the active session, or nil.
func (m *FocusManager) BlockedNow() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return nil
	}
	return append([]string(nil), m.session.BlockedApps...)
}

// Tick advances session state against the wall clock. A timed session past
// its end emits an ended event. With the slot idle, the first schedule whose
// window covers now starts a scheduled session; a scheduled session whose
// window closed ends, unless an extension moved its end past the window.
// Manual sessions are never displaced by schedules.
func (m *FocusManager) Tick(now time.Time, schedules []domain.FocusSchedule) []FocusEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []FocusEvent

	if m.active {
		switch {
		case m.session.EndTime > 0 && now.Unix() >= m.session.EndTime:
			events = append(events, m.endLocked(true))
		case m.session.IsScheduled && m.session.EndTime == 0 &&
			!scheduleStillActive(m.session.ScheduleName, schedules, now):
			// An extension sets EndTime and takes over from the window.
			events = append(events, m.endLocked(true))
		}
	}

	if !m.active {
		for _, sc := range schedules {
			if !ScheduleActiveAt(sc, now) {
				continue
			}
			m.active = true
			m.session = domain.FocusSession{
				IsActive:     true,
				StartTime:    now.Unix(),
				BlockedApps:  append([]string(nil), sc.BlockedApps...),
				IsScheduled:  true,
				ScheduleName: sc.Name,
			}
			events = append(events, FocusEvent{
				Type:        FocusStarted,
				Name:        sc.Name,
				BlockedApps: m.session.BlockedApps,
				Scheduled:   true,
			})
			break
		}
	}

	return events
}

func (m *FocusManager) endLocked(completed bool) FocusEvent {
	ev := FocusEvent{
		Type:        FocusEnded,
		Name:        m.session.ScheduleName,
		BlockedApps: m.session.BlockedApps,
		Scheduled:   m.session.IsScheduled,
		Completed:   completed,
	}
	m.active = false
	m.session = domain.FocusSession{}
	return ev
}

func scheduleStillActive(name string, schedules []domain.FocusSchedule, now time.Time) bool {
	for _, sc := range schedules {
		if sc.Name == name {
			return ScheduleActiveAt(sc, now)
		}
	}
	return false
}
