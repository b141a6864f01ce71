package store

import (
	"database/sql"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// SetLimit creates or replaces the daily limit for an app. One limit per
// app name.
func (s *Store) SetLimit(limit domain.AppLimit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.NewStoreError("set limit", err)
	}
	defer tx.Rollback()

	appID, err := getOrCreateApp(tx, limit.AppName)
	if err != nil {
		return domain.NewStoreError("set limit", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO app_limits (app_id, daily_limit_minutes, block_when_exceeded)
		VALUES (?, ?, ?)
		ON CONFLICT(app_id) DO UPDATE SET
			daily_limit_minutes = excluded.daily_limit_minutes,
			block_when_exceeded = excluded.block_when_exceeded`,
		appID, limit.DailyLimitMinutes, boolToInt(limit.BlockWhenExceeded)); err != nil {
		return domain.NewStoreError("set limit", err)
	}

	return domain.NewStoreError("set limit", tx.Commit())
}

// RemoveLimit deletes the limit for appName and clears any durable block
// intent left by it.
func (s *Store) RemoveLimit(appName string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.NewStoreError("remove limit", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		DELETE FROM app_limits
		WHERE app_id IN (SELECT id FROM apps WHERE name = ?)`, appName)
	if err != nil {
		return domain.NewStoreError("remove limit", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &domain.NotFoundError{Kind: "limit", Name: appName}
	}

	if _, err := tx.Exec(`UPDATE apps SET is_blocked = 0 WHERE name = ?`, appName); err != nil {
		return domain.NewStoreError("remove limit", err)
	}

	return domain.NewStoreError("remove limit", tx.Commit())
}

// Limits returns all configured limits.
func (s *Store) Limits() ([]domain.AppLimit, error) {
	rows, err := s.db.Query(`
		SELECT l.id, a.name, l.daily_limit_minutes, l.block_when_exceeded
		FROM app_limits l
		JOIN apps a ON a.id = l.app_id
		ORDER BY a.name`)
	if err != nil {
		return nil, domain.NewStoreError("limits", err)
	}
	defer rows.Close()

	var out []domain.AppLimit
	for rows.Next() {
		var l domain.AppLimit
		var block int
		if err := rows.Scan(&l.ID, &l.AppName, &l.DailyLimitMinutes, &block); err != nil {
			return nil, domain.NewStoreError("limits", err)
		}
		l.BlockWhenExceeded = block != 0
		out = append(out, l)
	}
	return out, domain.NewStoreError("limits", rows.Err())
}

// AllLimitStatus joins every limit with its usage accumulated since local
// midnight. One query feeds the whole limit evaluation pass.
func (s *Store) AllLimitStatus() ([]domain.LimitStatus, error) {
	rows, err := s.db.Query(`
		SELECT a.name, l.daily_limit_minutes, l.block_when_exceeded,
		       COALESCE((
		           SELECT SUM(s.duration_seconds)
		           FROM usage_sessions s
		           WHERE s.app_id = a.id AND ` + todayFilter + `
		       ), 0)
		FROM app_limits l
		JOIN apps a ON a.id = l.app_id
		ORDER BY a.name`)
	if err != nil {
		return nil, domain.NewStoreError("limit status", err)
	}
	defer rows.Close()

	var out []domain.LimitStatus
	for rows.Next() {
		var st domain.LimitStatus
		var block int
		if err := rows.Scan(&st.AppName, &st.DailyLimitMinutes, &block, &st.UsedSeconds); err != nil {
			return nil, domain.NewStoreError("limit status", err)
		}
		st.BlockWhenExceeded = block != 0
		out = append(out, st)
	}
	return out, domain.NewStoreError("limit status", rows.Err())
}

// IsLimitExceeded reports whether appName has a limit and today's usage has
// reached it. Apps without a limit are never exceeded.
func (s *Store) IsLimitExceeded(appName string) (bool, error) {
	var limitMinutes int
	err := s.db.QueryRow(`
		SELECT l.daily_limit_minutes
		FROM app_limits l
		JOIN apps a ON a.id = l.app_id
		WHERE a.name = ?`, appName).Scan(&limitMinutes)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, domain.NewStoreError("limit exceeded", err)
	}

	used, err := s.UsageToday(appName)
	if err != nil {
		return false, err
	}
	return used >= int64(limitMinutes)*60, nil
}

// MarkBlocked records durable block intent for appName. Written before any
// termination attempt so a crash leaves a recoverable state.
func (s *Store) MarkBlocked(appName string, blocked bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.NewStoreError("mark blocked", err)
	}
	defer tx.Rollback()

	if _, err := getOrCreateApp(tx, appName); err != nil {
		return domain.NewStoreError("mark blocked", err)
	}
	if _, err := tx.Exec(`UPDATE apps SET is_blocked = ? WHERE name = ?`,
		boolToInt(blocked), appName); err != nil {
		return domain.NewStoreError("mark blocked", err)
	}

	return domain.NewStoreError("mark blocked", tx.Commit())
}

// BlockedAppNames returns apps with durable block intent set.
func (s *Store) BlockedAppNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM apps WHERE is_blocked = 1 ORDER BY name`)
	if err != nil {
		return nil, domain.NewStoreError("blocked apps", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, domain.NewStoreError("blocked apps", err)
		}
		out = append(out, name)
	}
	return out, domain.NewStoreError("blocked apps", rows.Err())
}

// SetCategory assigns a category to an app, creating the app row if needed.
func (s *Store) SetCategory(appName, category string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.NewStoreError("set category", err)
	}
	defer tx.Rollback()

	if _, err := getOrCreateApp(tx, appName); err != nil {
		return domain.NewStoreError("set category", err)
	}
	if _, err := tx.Exec(`UPDATE apps SET category = ? WHERE name = ?`,
		category, appName); err != nil {
		return domain.NewStoreError("set category", err)
	}

	return domain.NewStoreError("set category", tx.Commit())
}

// Apps returns every known app.
func (s *Store) Apps() ([]domain.App, error) {
	rows, err := s.db.Query(`
		SELECT id, name, COALESCE(category, ''), is_blocked, created_at
		FROM apps ORDER BY name`)
	if err != nil {
		return nil, domain.NewStoreError("apps", err)
	}
	defer rows.Close()

	var out []domain.App
	for rows.Next() {
		var a domain.App
		var blocked int
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &blocked, &a.CreatedAt); err != nil {
			return nil, domain.NewStoreError("apps", err)
		}
		a.IsBlocked = blocked != 0
		out = append(out, a)
	}
	return out, domain.NewStoreError("apps", rows.Err())
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
