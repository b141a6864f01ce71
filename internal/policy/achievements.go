package policy

import (
	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// Achievement ids. Progress counters differ per id; EarnedAt is monotonic:
// once set it never clears, even if the underlying counter later drops.
const (
	AchFirstGoal      = "first_goal"
	AchStreak3        = "streak_3"
	AchStreak7        = "streak_7"
	AchStreak30       = "streak_30"
	AchFocus5         = "focus_5"
	AchFocus25        = "focus_25"
	AchUnderLimit10   = "under_limit_10"
	AchProductiveWeek = "productive_week"
)

const productiveWeekTarget = 1200

// DefaultAchievements is the full catalog with zero progress. Persisted
// state overlays it so new achievements appear after upgrades.
func DefaultAchievements() []domain.Achievement {
	return []domain.Achievement{
		{ID: AchFirstGoal, Name: "First Steps", Description: "Meet a goal for the first time", Target: 1},
		{ID: AchStreak3, Name: "Three in a Row", Description: "Meet all goals 3 days running", Target: 3},
		{ID: AchStreak7, Name: "Full Week", Description: "Meet all goals 7 days running", Target: 7},
		{ID: AchStreak30, Name: "Habit Formed", Description: "Meet all goals 30 days running", Target: 30},
		{ID: AchFocus5, Name: "Getting Focused", Description: "Complete 5 focus sessions", Target: 5},
		{ID: AchFocus25, Name: "Deep Worker", Description: "Complete 25 focus sessions", Target: 25},
		{ID: AchUnderLimit10, Name: "Self Control", Description: "Stay under every limit for 10 days", Target: 10},
		{ID: AchProductiveWeek, Name: "Productive Week", Description: "Log 20 productive hours in a week", Target: productiveWeekTarget},
	}
}

// MergeAchievements overlays persisted progress onto the current catalog,
// keeping catalog naming and dropping ids no longer in the catalog.
func MergeAchievements(persisted []domain.Achievement) []domain.Achievement {
	byID := make(map[string]domain.Achievement, len(persisted))
	for _, a := range persisted {
		byID[a.ID] = a
	}
	out := DefaultAchievements()
	for i, a := range out {
		if p, ok := byID[a.ID]; ok {
			out[i].Progress = p.Progress
			out[i].EarnedAt = p.EarnedAt
		}
	}
	return out
}

// AchievementTracker mutates achievement progress and streak stats in
// response to day outcomes. It holds no state of its own.
type AchievementTracker struct{}

// DayClosed records the outcome of a finished day: whether every
// applicable goal was met, whether every limit was respected, and the
// week-to-date productive minutes. date is the closed day, YYYY-MM-DD.
func (AchievementTracker) DayClosed(achievements []domain.Achievement, stats *domain.GoalStats,
	allGoalsMet, hadGoals, underAllLimits bool, weekProductiveMinutes int, date string) {

	if hadGoals {
		if allGoalsMet {
			stats.TotalGoalsMet++
			stats.CurrentStreak++
			if stats.CurrentStreak > stats.LongestStreak {
				stats.LongestStreak = stats.CurrentStreak
			}
		} else {
			stats.CurrentStreak = 0
		}
	}

	for i := range achievements {
		a := &achievements[i]
		switch a.ID {
		case AchFirstGoal:
			a.Progress = max(a.Progress, min(stats.TotalGoalsMet, a.Target))
		case AchStreak3, AchStreak7, AchStreak30:
			a.Progress = max(a.Progress, min(stats.CurrentStreak, a.Target))
		case AchUnderLimit10:
			if underAllLimits {
				a.Progress = min(a.Progress+1, a.Target)
			}
		case AchProductiveWeek:
			a.Progress = max(a.Progress, min(weekProductiveMinutes, a.Target))
		}
		earnIfComplete(a, date)
	}
}

// FocusSessionCompleted bumps focus counters when a session ends normally.
func (AchievementTracker) FocusSessionCompleted(achievements []domain.Achievement, stats *domain.GoalStats, date string) {
	stats.FocusSessionsCompleted++
	for i := range achievements {
		a := &achievements[i]
		if a.ID == AchFocus5 || a.ID == AchFocus25 {
			a.Progress = max(a.Progress, min(stats.FocusSessionsCompleted, a.Target))
			earnIfComplete(a, date)
		}
	}
}

func earnIfComplete(a *domain.Achievement, date string) {
	if a.EarnedAt == "" && a.Progress >= a.Target {
		a.EarnedAt = date
	}
}
