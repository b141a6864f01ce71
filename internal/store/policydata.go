package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

const goalStatsKey = "goal_stats"

// SaveGoal creates or replaces a goal by id.
func (s *Store) SaveGoal(goal domain.Goal) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO goals
			(id, name, goal_type, app_name, category, target_minutes, days, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Name, string(goal.Type), goal.AppName, goal.Category,
		goal.TargetMinutes, encodeDays(goal.Days), boolToInt(goal.Enabled), goal.CreatedAt)
	return domain.NewStoreError("save goal", err)
}

// DeleteGoal removes a goal by id.
func (s *Store) DeleteGoal(goalID string) error {
	res, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, goalID)
	if err != nil {
		return domain.NewStoreError("delete goal", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &domain.NotFoundError{Kind: "goal", Name: goalID}
	}
	return nil
}

// Goals returns all goals, newest first.
func (s *Store) Goals() ([]domain.Goal, error) {
	rows, err := s.db.Query(`
		SELECT id, name, goal_type, app_name, category, target_minutes, days, enabled, created_at
		FROM goals ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, domain.NewStoreError("goals", err)
	}
	defer rows.Close()

	var out []domain.Goal
	for rows.Next() {
		var g domain.Goal
		var goalType, days string
		var enabled int
		if err := rows.Scan(&g.ID, &g.Name, &goalType, &g.AppName, &g.Category,
			&g.TargetMinutes, &days, &enabled, &g.CreatedAt); err != nil {
			return nil, domain.NewStoreError("goals", err)
		}
		g.Type = domain.GoalType(goalType)
		g.Days = decodeDays(days)
		g.Enabled = enabled != 0
		out = append(out, g)
	}
	return out, domain.NewStoreError("goals", rows.Err())
}

// SaveSchedule creates or replaces a focus schedule by id.
func (s *Store) SaveSchedule(schedule domain.FocusSchedule) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO focus_schedules
			(id, name, days, start_time, end_time, blocked_apps, enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		schedule.ID, schedule.Name, encodeDays(schedule.Days),
		schedule.StartTime, schedule.EndTime,
		strings.Join(schedule.BlockedApps, "\x1f"), boolToInt(schedule.Enabled))
	return domain.NewStoreError("save schedule", err)
}

// DeleteSchedule removes a focus schedule by id.
func (s *Store) DeleteSchedule(scheduleID string) error {
	res, err := s.db.Exec(`DELETE FROM focus_schedules WHERE id = ?`, scheduleID)
	if err != nil {
		return domain.NewStoreError("delete schedule", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &domain.NotFoundError{Kind: "schedule", Name: scheduleID}
	}
	return nil
}

// Schedules returns all focus schedules.
func (s *Store) Schedules() ([]domain.FocusSchedule, error) {
	rows, err := s.db.Query(`
		SELECT id, name, days, start_time, end_time, blocked_apps, enabled
		FROM focus_schedules ORDER BY name, id`)
	if err != nil {
		return nil, domain.NewStoreError("schedules", err)
	}
	defer rows.Close()

	var out []domain.FocusSchedule
	for rows.Next() {
		var sc domain.FocusSchedule
		var days, blocked string
		var enabled int
		if err := rows.Scan(&sc.ID, &sc.Name, &days, &sc.StartTime, &sc.EndTime,
			&blocked, &enabled); err != nil {
			return nil, domain.NewStoreError("schedules", err)
		}
		sc.Days = decodeDays(days)
		if blocked != "" {
			sc.BlockedApps = strings.Split(blocked, "\x1f")
		}
		sc.Enabled = enabled != 0
		out = append(out, sc)
	}
	return out, domain.NewStoreError("schedules", rows.Err())
}

// SaveAchievements persists achievements and streak stats together. Earned
// dates only move from empty to set; they are never cleared here because
// callers pass back what LoadAchievements returned, updated monotonically.
func (s *Store) SaveAchievements(achievements []domain.Achievement, stats domain.GoalStats) error {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.NewStoreError("save achievements", err)
	}
	defer tx.Rollback()

	for _, a := range achievements {
		if _, err := tx.Exec(`
			INSERT OR REPLACE INTO achievements
				(id, name, description, progress, target, earned_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Description, a.Progress, a.Target, a.EarnedAt); err != nil {
			return domain.NewStoreError("save achievements", err)
		}
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return domain.NewStoreError("save achievements", err)
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
		goalStatsKey, string(data)); err != nil {
		return domain.NewStoreError("save achievements", err)
	}

	return domain.NewStoreError("save achievements", tx.Commit())
}

// LoadAchievements returns persisted achievements and streak stats. A fresh
// database yields no achievements and zero stats.
func (s *Store) LoadAchievements() ([]domain.Achievement, domain.GoalStats, error) {
	var stats domain.GoalStats
	if err := s.LoadSettings(goalStatsKey, &stats); err != nil {
		return nil, stats, err
	}

	rows, err := s.db.Query(`
		SELECT id, name, description, progress, target, earned_at
		FROM achievements ORDER BY id`)
	if err != nil {
		return nil, stats, domain.NewStoreError("load achievements", err)
	}
	defer rows.Close()

	var out []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Progress, &a.Target, &a.EarnedAt); err != nil {
			return nil, stats, domain.NewStoreError("load achievements", err)
		}
		out = append(out, a)
	}
	return out, stats, domain.NewStoreError("load achievements", rows.Err())
}

// encodeDays stores weekdays as a comma-separated list of ints (0=Sunday).
func encodeDays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = fmt.Sprintf("%d", int(d))
	}
	return strings.Join(parts, ",")
}

func decodeDays(encoded string) []time.Weekday {
	if encoded == "" {
		return nil
	}
	var out []time.Weekday
	for _, p := range strings.Split(encoded, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		out = append(out, time.Weekday(n))
	}
	return out
}
