package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

func TestBreakReminderFiresOnceGivenContinuousWork(t *testing.T) {
	b := NewBreakReminder(domain.BreakSettings{Enabled: true, WorkMinutes: 50, BreakMinutes: 10})

	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	b.Tick(start, true)

	var reminders int
	for i := 1; i <= 120; i++ {
		remind, _ := b.Tick(start.Add(time.Duration(i)*time.Minute), true)
		if remind {
			reminders++
		}
	}
	assert.Equal(t, 1, reminders)
}

func TestBreakResetsCounterAfterSufficientIdle(t *testing.T) {
	b := NewBreakReminder(domain.BreakSettings{Enabled: true, WorkMinutes: 50, BreakMinutes: 10})

	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	b.Tick(start, true)
	remind, _ := b.Tick(start.Add(50*time.Minute), true)
	assert.True(t, remind)
	assert.True(t, b.Status().MinutesWorked >= 50)

	// Ten minutes away completes the break and resets the stretch.
	_, done := b.Tick(start.Add(55*time.Minute), false)
	assert.False(t, done)
	_, done = b.Tick(start.Add(65*time.Minute), false)
	assert.True(t, done)
	assert.Zero(t, b.Status().MinutesWorked)

	// The next full stretch reminds again.
	b.Tick(start.Add(66*time.Minute), true)
	remind, _ = b.Tick(start.Add(116*time.Minute), true)
	assert.True(t, remind)
}

func TestBreakShortIdleDoesNotReset(t *testing.T) {
	b := NewBreakReminder(domain.BreakSettings{Enabled: true, WorkMinutes: 50, BreakMinutes: 10})

	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	b.Tick(start, true)
	b.Tick(start.Add(30*time.Minute), true)
	b.Tick(start.Add(35*time.Minute), false)

	remind, _ := b.Tick(start.Add(55*time.Minute), true)
	assert.True(t, remind)
}

func TestBreakDisabledNeverReminds(t *testing.T) {
	b := NewBreakReminder(domain.BreakSettings{Enabled: false, WorkMinutes: 1, BreakMinutes: 1})

	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	b.Tick(start, true)
	remind, _ := b.Tick(start.Add(3*time.Hour), true)
	assert.False(t, remind)
	assert.False(t, b.Status().Enabled)
}
