package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

func findAch(t *testing.T, achievements []domain.Achievement, id string) domain.Achievement {
	t.Helper()
	for _, a := range achievements {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %s not found", id)
	return domain.Achievement{}
}

func TestFirstGoalEarnedOnFirstMetDay(t *testing.T) {
	achievements := DefaultAchievements()
	var stats domain.GoalStats
	var tr AchievementTracker

	tr.DayClosed(achievements, &stats, true, true, true, 0, "2026-08-31")

	a := findAch(t, achievements, AchFirstGoal)
	assert.Equal(t, "2026-08-31", a.EarnedAt)
	assert.Equal(t, 1, stats.TotalGoalsMet)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestStreakAchievementsAndReset(t *testing.T) {
	achievements := DefaultAchievements()
	var stats domain.GoalStats
	var tr AchievementTracker

	days := []string{"2026-08-25", "2026-08-26", "2026-08-27"}
	for _, d := range days {
		tr.DayClosed(achievements, &stats, true, true, false, 0, d)
	}
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, "2026-08-27", findAch(t, achievements, AchStreak3).EarnedAt)
	assert.Empty(t, findAch(t, achievements, AchStreak7).EarnedAt)

	// A missed day resets the streak but never the earned date.
	tr.DayClosed(achievements, &stats, false, true, false, 0, "2026-08-28")
	assert.Zero(t, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
	assert.Equal(t, "2026-08-27", findAch(t, achievements, AchStreak3).EarnedAt)
}

func TestDayWithoutGoalsLeavesStreakAlone(t *testing.T) {
	achievements := DefaultAchievements()
	stats := domain.GoalStats{CurrentStreak: 4, LongestStreak: 4}
	var tr AchievementTracker

	tr.DayClosed(achievements, &stats, false, false, true, 0, "2026-08-31")
	assert.Equal(t, 4, stats.CurrentStreak)
}

func TestUnderLimitCountsDays(t *testing.T) {
	achievements := DefaultAchievements()
	var stats domain.GoalStats
	var tr AchievementTracker

	for i := 0; i < 10; i++ {
		tr.DayClosed(achievements, &stats, false, false, true, 0, "2026-08-31")
	}
	a := findAch(t, achievements, AchUnderLimit10)
	assert.Equal(t, 10, a.Progress)
	assert.NotEmpty(t, a.EarnedAt)
}

func TestProductiveWeekProgress(t *testing.T) {
	achievements := DefaultAchievements()
	var stats domain.GoalStats
	var tr AchievementTracker

	tr.DayClosed(achievements, &stats, false, false, false, 800, "2026-08-30")
	assert.Equal(t, 800, findAch(t, achievements, AchProductiveWeek).Progress)
	assert.Empty(t, findAch(t, achievements, AchProductiveWeek).EarnedAt)

	tr.DayClosed(achievements, &stats, false, false, false, 1250, "2026-08-31")
	a := findAch(t, achievements, AchProductiveWeek)
	assert.Equal(t, productiveWeekTarget, a.Progress)
	assert.Equal(t, "2026-08-31", a.EarnedAt)
}

func TestFocusSessionAchievements(t *testing.T) {
	achievements := DefaultAchievements()
	var stats domain.GoalStats
	var tr AchievementTracker

	for i := 0; i < 5; i++ {
		tr.FocusSessionCompleted(achievements, &stats, "2026-08-31")
	}
	assert.Equal(t, 5, stats.FocusSessionsCompleted)
	assert.Equal(t, "2026-08-31", findAch(t, achievements, AchFocus5).EarnedAt)
	assert.Empty(t, findAch(t, achievements, AchFocus25).EarnedAt)
}

func TestMergeAchievementsOverlaysPersisted(t *testing.T) {
	persisted := []domain.Achievement{
		{ID: AchFocus5, Name: "stale name", Progress: 3, Target: 5},
		{ID: "retired_id", Progress: 9, Target: 9, EarnedAt: "2020-01-01"},
	}

	merged := MergeAchievements(persisted)
	require.Len(t, merged, len(DefaultAchievements()))

	a := findAch(t, merged, AchFocus5)
	assert.Equal(t, 3, a.Progress)
	assert.Equal(t, "Getting Focused", a.Name)

	for _, m := range merged {
		assert.NotEqual(t, "retired_id", m.ID)
	}
}
