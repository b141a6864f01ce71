package policy

import (
	"time"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// UsageSnapshot is today's usage broken down the ways goal evaluation
// needs it. Minutes throughout: goals are configured in minutes.
type UsageSnapshot struct {
	TotalMinutes      int
	ByApp             map[string]int
	ByCategory        map[string]int
	ProductiveMinutes int
}

// SnapshotFromUsage builds a snapshot from the store's daily breakdown.
// Apps in productiveCategories count toward ProductiveMinutes.
func SnapshotFromUsage(daily []domain.AppUsage, productiveCategories []string) UsageSnapshot {
	snap := UsageSnapshot{
		ByApp:      make(map[string]int),
		ByCategory: make(map[string]int),
	}
	productive := make(map[string]bool, len(productiveCategories))
	for _, c := range productiveCategories {
		productive[c] = true
	}
	for _, u := range daily {
		minutes := int(u.DurationSeconds / 60)
		snap.TotalMinutes += minutes
		snap.ByApp[u.AppName] += minutes
		if u.Category != "" {
			snap.ByCategory[u.Category] += minutes
		}
		if productive[u.Category] {
			snap.ProductiveMinutes += minutes
		}
	}
	return snap
}

// GoalEvaluator computes per-goal progress. Limiting goal types warn at the
// same thresholds as app limits; minimum goals count up toward a target.
type GoalEvaluator struct {
	warningPercent int
}

func NewGoalEvaluator(warningPercent int) *GoalEvaluator {
	if warningPercent <= 0 {
		warningPercent = 80
	}
	return &GoalEvaluator{warningPercent: warningPercent}
}

// CurrentMinutes resolves what a goal measures from the snapshot.
func CurrentMinutes(goal domain.Goal, snap UsageSnapshot) int {
	switch goal.Type {
	case domain.GoalDailyLimit:
		return snap.TotalMinutes
	case domain.GoalAppLimit:
		return snap.ByApp[goal.AppName]
	case domain.GoalCategoryLimit:
		return snap.ByCategory[goal.Category]
	case domain.GoalMinimumProductive:
		if goal.Category != "" {
			return snap.ByCategory[goal.Category]
		}
		return snap.ProductiveMinutes
	default:
		return 0
	}
}

// Evaluate returns progress for every enabled goal that applies on day.
func (e *GoalEvaluator) Evaluate(goals []domain.Goal, snap UsageSnapshot, day time.Weekday) []domain.GoalProgress {
	var out []domain.GoalProgress
	for _, g := range goals {
		if !g.Enabled || !g.AppliesOn(day) {
			continue
		}
		out = append(out, e.Progress(g, CurrentMinutes(g, snap)))
	}
	return out
}

// Progress classifies one goal given its measured minutes.
func (e *GoalEvaluator) Progress(goal domain.Goal, currentMinutes int) domain.GoalProgress {
	p := domain.GoalProgress{
		GoalID:         goal.ID,
		GoalName:       goal.Name,
		Type:           goal.Type,
		TargetMinutes:  goal.TargetMinutes,
		CurrentMinutes: currentMinutes,
	}

	percent := 0
	if goal.TargetMinutes > 0 {
		percent = currentMinutes * 100 / goal.TargetMinutes
	}
	p.ProgressPercent = percent
	if p.ProgressPercent > 100 {
		p.ProgressPercent = 100
	}

	if goal.Type.IsLimiting() {
		// Staying under the target is the win condition.
		p.IsMet = percent < 100
		switch {
		case currentMinutes == 0:
			p.Status = domain.GoalNotStarted
		case percent >= 100:
			p.Status = domain.GoalExceeded
		case percent >= e.warningPercent:
			p.Status = domain.GoalWarning
		default:
			p.Status = domain.GoalOnTrack
		}
		return p
	}

	// Minimum goals count up: reaching the target achieves them.
	p.IsMet = percent >= 100
	switch {
	case percent >= 100:
		p.Status = domain.GoalAchieved
	case currentMinutes == 0:
		p.Status = domain.GoalNotStarted
	case percent >= 50:
		p.Status = domain.GoalOnTrack
	default:
		p.Status = domain.GoalWarning
	}
	return p
}
