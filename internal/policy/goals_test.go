package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

func TestMinimumProductiveBoundaries(t *testing.T) {
	e := NewGoalEvaluator(80)
	goal := domain.Goal{
		ID:            "g1",
		Type:          domain.GoalMinimumProductive,
		TargetMinutes: 120,
		Enabled:       true,
	}

	tests := []struct {
		minutes int
		status  domain.GoalStatus
		isMet   bool
	}{
		{0, domain.GoalNotStarted, false},
		{30, domain.GoalWarning, false},
		{59, domain.GoalWarning, false},
		{60, domain.GoalOnTrack, false},
		{119, domain.GoalOnTrack, false},
		{120, domain.GoalAchieved, true},
		{200, domain.GoalAchieved, true},
	}
	for _, tt := range tests {
		p := e.Progress(goal, tt.minutes)
		assert.Equal(t, tt.status, p.Status, "minutes=%d", tt.minutes)
		assert.Equal(t, tt.isMet, p.IsMet, "minutes=%d", tt.minutes)
	}
}

func TestLimitingGoalBoundaries(t *testing.T) {
	e := NewGoalEvaluator(80)
	goal := domain.Goal{
		ID:            "g2",
		Type:          domain.GoalAppLimit,
		AppName:       "Steam",
		TargetMinutes: 100,
		Enabled:       true,
	}

	tests := []struct {
		minutes int
		status  domain.GoalStatus
		isMet   bool
	}{
		{0, domain.GoalNotStarted, true},
		{50, domain.GoalOnTrack, true},
		{80, domain.GoalWarning, true},
		{99, domain.GoalWarning, true},
		{100, domain.GoalExceeded, false},
		{150, domain.GoalExceeded, false},
	}
	for _, tt := range tests {
		p := e.Progress(goal, tt.minutes)
		assert.Equal(t, tt.status, p.Status, "minutes=%d", tt.minutes)
		assert.Equal(t, tt.isMet, p.IsMet, "minutes=%d", tt.minutes)
	}
}

func TestProgressPercentClipped(t *testing.T) {
	e := NewGoalEvaluator(80)
	p := e.Progress(domain.Goal{Type: domain.GoalAppLimit, TargetMinutes: 10}, 35)
	assert.Equal(t, 100, p.ProgressPercent)
}

func TestEvaluateSkipsDisabledAndOffDayGoals(t *testing.T) {
	e := NewGoalEvaluator(80)
	goals := []domain.Goal{
		{ID: "off", Type: domain.GoalDailyLimit, TargetMinutes: 60, Enabled: false},
		{ID: "tue", Type: domain.GoalDailyLimit, TargetMinutes: 60, Enabled: true,
			Days: []time.Weekday{time.Tuesday}},
		{ID: "any", Type: domain.GoalDailyLimit, TargetMinutes: 60, Enabled: true},
	}

	out := e.Evaluate(goals, UsageSnapshot{TotalMinutes: 30}, time.Monday)
	assert.Len(t, out, 1)
	assert.Equal(t, "any", out[0].GoalID)
}

func TestSnapshotFromUsage(t *testing.T) {
	daily := []domain.AppUsage{
		{AppName: "Firefox", Category: "browser", DurationSeconds: 600},
		{AppName: "Visual Studio Code", Category: "development", DurationSeconds: 3600},
		{AppName: "Mystery", Category: "", DurationSeconds: 120},
	}
	snap := SnapshotFromUsage(daily, []string{"development"})

	assert.Equal(t, 72, snap.TotalMinutes)
	assert.Equal(t, 10, snap.ByApp["Firefox"])
	assert.Equal(t, 60, snap.ByCategory["development"])
	assert.Equal(t, 60, snap.ProductiveMinutes)
	assert.NotContains(t, snap.ByCategory, "")
}

func TestCurrentMinutesPerGoalType(t *testing.T) {
	snap := UsageSnapshot{
		TotalMinutes:      90,
		ByApp:             map[string]int{"Steam": 40},
		ByCategory:        map[string]int{"games": 40, "development": 50},
		ProductiveMinutes: 50,
	}

	assert.Equal(t, 90, CurrentMinutes(domain.Goal{Type: domain.GoalDailyLimit}, snap))
	assert.Equal(t, 40, CurrentMinutes(domain.Goal{Type: domain.GoalAppLimit, AppName: "Steam"}, snap))
	assert.Equal(t, 40, CurrentMinutes(domain.Goal{Type: domain.GoalCategoryLimit, Category: "games"}, snap))
	assert.Equal(t, 50, CurrentMinutes(domain.Goal{Type: domain.GoalMinimumProductive}, snap))
	assert.Equal(t, 50, CurrentMinutes(domain.Goal{Type: domain.GoalMinimumProductive, Category: "development"}, snap))
}
