package store

import (
	"fmt"
	"time"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// RecordUsage atomically records a finished session of the given duration
// ending now. The app row and session row commit in one transaction: a
// crash mid-write never leaves a partially-applied session.
func (s *Store) RecordUsage(appName string, duration time.Duration) error {
	secs := int64(duration.Seconds())
	if secs < 0 {
		return domain.NewStoreError("record usage", fmt.Errorf("negative duration %s", duration))
	}
	if secs == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return domain.NewStoreError("record usage", err)
	}
	defer tx.Rollback()

	appID, err := getOrCreateApp(tx, appName)
	if err != nil {
		return domain.NewStoreError("record usage", err)
	}

	now := time.Now().Unix()
	if _, err := tx.Exec(`
		INSERT INTO usage_sessions (app_id, start_time, end_time, duration_seconds)
		VALUES (?, ?, ?, ?)`,
		appID, now-secs, now, secs); err != nil {
		return domain.NewStoreError("record usage", err)
	}

	return domain.NewStoreError("record usage", tx.Commit())
}

// StartSession opens a session row for app at start with zero duration.
// The sampler keeps exactly one session open at a time.
func (s *Store) StartSession(appName string, start int64) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, domain.NewStoreError("start session", err)
	}
	defer tx.Rollback()

	appID, err := getOrCreateApp(tx, appName)
	if err != nil {
		return 0, domain.NewStoreError("start session", err)
	}

	res, err := tx.Exec(`
		INSERT INTO usage_sessions (app_id, start_time, end_time, duration_seconds)
		VALUES (?, ?, ?, 0)`,
		appID, start, start)
	if err != nil {
		return 0, domain.NewStoreError("start session", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.NewStoreError("start session", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.NewStoreError("start session", err)
	}
	return id, nil
}

// UpdateSessionProgress advances the open session's end time so aggregates
// see usage accruing before the session closes. Duration never decreases.
func (s *Store) UpdateSessionProgress(sessionID int64, end int64) error {
	_, err := s.db.Exec(`
		UPDATE usage_sessions
		SET end_time = ?, duration_seconds = MAX(duration_seconds, ? - start_time)
		WHERE id = ?`,
		end, end, sessionID)
	return domain.NewStoreError("update session", err)
}

// CloseSession finalizes a session's duration at end.
func (s *Store) CloseSession(sessionID int64, end int64) error {
	res, err := s.db.Exec(`
		UPDATE usage_sessions
		SET end_time = ?, duration_seconds = MAX(0, ? - start_time)
		WHERE id = ?`,
		end, end, sessionID)
	if err != nil {
		return domain.NewStoreError("close session", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &domain.NotFoundError{Kind: "session", Name: fmt.Sprintf("%d", sessionID)}
	}
	return nil
}
