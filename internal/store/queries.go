package store

import (
	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// Day boundaries follow the machine's local time zone: the user's "today"
// is the wall-clock day, not the UTC day.
const todayFilter = `date(s.start_time, 'unixepoch', 'localtime') = date('now', 'localtime')`

// UsageToday returns accumulated seconds for one app since local midnight.
// Open sessions count through their last recorded progress.
func (s *Store) UsageToday(appName string) (int64, error) {
	var total int64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(s.duration_seconds), 0)
		FROM usage_sessions s
		JOIN apps a ON a.id = s.app_id
		WHERE a.name = ? AND `+todayFilter,
		appName).Scan(&total)
	if err != nil {
		return 0, domain.NewStoreError("usage today", err)
	}
	return total, nil
}

// DailyUsage returns today's per-app breakdown, busiest app first.
func (s *Store) DailyUsage() ([]domain.AppUsage, error) {
	rows, err := s.db.Query(`
		SELECT a.name, COALESCE(a.category, ''), SUM(s.duration_seconds), COUNT(s.id)
		FROM usage_sessions s
		JOIN apps a ON a.id = s.app_id
		WHERE ` + todayFilter + `
		GROUP BY a.id
		ORDER BY SUM(s.duration_seconds) DESC`)
	if err != nil {
		return nil, domain.NewStoreError("daily usage", err)
	}
	defer rows.Close()

	var out []domain.AppUsage
	for rows.Next() {
		var u domain.AppUsage
		if err := rows.Scan(&u.AppName, &u.Category, &u.DurationSeconds, &u.SessionCount); err != nil {
			return nil, domain.NewStoreError("daily usage", err)
		}
		out = append(out, u)
	}
	return out, domain.NewStoreError("daily usage", rows.Err())
}

// WeeklyStats returns per-day totals for the trailing seven local days,
// oldest first. Days with no usage are absent.
func (s *Store) WeeklyStats() ([]domain.DayUsage, error) {
	return s.dayTotals(`
		SELECT date(s.start_time, 'unixepoch', 'localtime'), SUM(s.duration_seconds)
		FROM usage_sessions s
		WHERE date(s.start_time, 'unixepoch', 'localtime') >= date('now', 'localtime', '-6 days')
		GROUP BY date(s.start_time, 'unixepoch', 'localtime')
		ORDER BY 1`)
}

// HourlyUsage returns today's totals bucketed by local hour of day.
func (s *Store) HourlyUsage() ([]domain.HourUsage, error) {
	rows, err := s.db.Query(`
		SELECT CAST(strftime('%H', s.start_time, 'unixepoch', 'localtime') AS INTEGER),
		       SUM(s.duration_seconds)
		FROM usage_sessions s
		WHERE ` + todayFilter + `
		GROUP BY 1
		ORDER BY 1`)
	if err != nil {
		return nil, domain.NewStoreError("hourly usage", err)
	}
	defer rows.Close()

	var out []domain.HourUsage
	for rows.Next() {
		var h domain.HourUsage
		if err := rows.Scan(&h.Hour, &h.TotalSeconds); err != nil {
			return nil, domain.NewStoreError("hourly usage", err)
		}
		out = append(out, h)
	}
	return out, domain.NewStoreError("hourly usage", rows.Err())
}

// CategoryUsage returns today's totals grouped by category. Apps without a
// category land in "uncategorized".
func (s *Store) CategoryUsage() ([]domain.CategoryUsage, error) {
	return s.categoryTotals(`
		SELECT COALESCE(NULLIF(a.category, ''), 'uncategorized'),
		       SUM(s.duration_seconds), COUNT(DISTINCT a.id)
		FROM usage_sessions s
		JOIN apps a ON a.id = s.app_id
		WHERE ` + todayFilter + `
		GROUP BY 1
		ORDER BY 2 DESC`)
}

// DailyTotalsInRange returns per-day totals between startDate and endDate
// (YYYY-MM-DD, inclusive, local time), oldest first.
func (s *Store) DailyTotalsInRange(startDate, endDate string) ([]domain.DayUsage, error) {
	return s.dayTotals(`
		SELECT date(s.start_time, 'unixepoch', 'localtime'), SUM(s.duration_seconds)
		FROM usage_sessions s
		WHERE date(s.start_time, 'unixepoch', 'localtime') BETWEEN ? AND ?
		GROUP BY date(s.start_time, 'unixepoch', 'localtime')
		ORDER BY 1`, startDate, endDate)
}

// AppUsageInRange returns per-app totals over the date range, busiest first.
func (s *Store) AppUsageInRange(startDate, endDate string) ([]domain.AppUsage, error) {
	rows, err := s.db.Query(`
		SELECT a.name, COALESCE(a.category, ''), SUM(s.duration_seconds), COUNT(s.id)
		FROM usage_sessions s
		JOIN apps a ON a.id = s.app_id
		WHERE date(s.start_time, 'unixepoch', 'localtime') BETWEEN ? AND ?
		GROUP BY a.id
		ORDER BY SUM(s.duration_seconds) DESC`,
		startDate, endDate)
	if err != nil {
		return nil, domain.NewStoreError("app usage in range", err)
	}
	defer rows.Close()

	var out []domain.AppUsage
	for rows.Next() {
		var u domain.AppUsage
		if err := rows.Scan(&u.AppName, &u.Category, &u.DurationSeconds, &u.SessionCount); err != nil {
			return nil, domain.NewStoreError("app usage in range", err)
		}
		out = append(out, u)
	}
	return out, domain.NewStoreError("app usage in range", rows.Err())
}

// CategoryUsageInRange returns per-category totals over the date range.
func (s *Store) CategoryUsageInRange(startDate, endDate string) ([]domain.CategoryUsage, error) {
	return s.categoryTotals(`
		SELECT COALESCE(NULLIF(a.category, ''), 'uncategorized'),
		       SUM(s.duration_seconds), COUNT(DISTINCT a.id)
		FROM usage_sessions s
		JOIN apps a ON a.id = s.app_id
		WHERE date(s.start_time, 'unixepoch', 'localtime') BETWEEN ? AND ?
		GROUP BY 1
		ORDER BY 2 DESC`, startDate, endDate)
}

func (s *Store) dayTotals(query string, args ...any) ([]domain.DayUsage, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, domain.NewStoreError("day totals", err)
	}
	defer rows.Close()

	var out []domain.DayUsage
	for rows.Next() {
		var d domain.DayUsage
		if err := rows.Scan(&d.Date, &d.TotalSeconds); err != nil {
			return nil, domain.NewStoreError("day totals", err)
		}
		out = append(out, d)
	}
	return out, domain.NewStoreError("day totals", rows.Err())
}

func (s *Store) categoryTotals(query string, args ...any) ([]domain.CategoryUsage, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, domain.NewStoreError("category totals", err)
	}
	defer rows.Close()

	var out []domain.CategoryUsage
	for rows.Next() {
		var c domain.CategoryUsage
		if err := rows.Scan(&c.Category, &c.TotalSeconds, &c.AppCount); err != nil {
			return nil, domain.NewStoreError("category totals", err)
		}
		out = append(out, c)
	}
	return out, domain.NewStoreError("category totals", rows.Err())
}
