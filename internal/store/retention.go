package store

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// CleanupOldSessions deletes sessions older than retentionDays and reports
// how many rows went. Orphaned app rows stay: categories and limits outlive
// their history.
func (s *Store) CleanupOldSessions(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, domain.NewStoreError("cleanup",
			fmt.Errorf("retention days must be positive, got %d", retentionDays))
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays).Unix()
	res, err := s.db.Exec(`DELETE FROM usage_sessions WHERE start_time < ?`, cutoff)
	if err != nil {
		return 0, domain.NewStoreError("cleanup", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStoreError("cleanup", err)
	}

	if deleted > 0 {
		s.logger.Info("retention cleanup removed old sessions",
			zap.Int64("deleted", deleted),
			zap.Int("retention_days", retentionDays))
		if _, err := s.db.Exec(`VACUUM`); err != nil {
			// Reclaiming pages is best effort; the delete already landed.
			s.logger.Warn("vacuum after cleanup failed", zap.Error(err))
		}
	}

	return deleted, nil
}

// Stats reports session count, oldest retained session, and database size.
func (s *Store) Stats() (domain.StorageStats, error) {
	var st domain.StorageStats

	var oldest sql.NullInt64
	err := s.db.QueryRow(`SELECT COUNT(*), MIN(start_time) FROM usage_sessions`).
		Scan(&st.SessionCount, &oldest)
	if err != nil {
		return st, domain.NewStoreError("stats", err)
	}
	if oldest.Valid {
		st.OldestStart = oldest.Int64
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRow(`PRAGMA page_count`).Scan(&pageCount); err != nil {
		return st, domain.NewStoreError("stats", err)
	}
	if err := s.db.QueryRow(`PRAGMA page_size`).Scan(&pageSize); err != nil {
		return st, domain.NewStoreError("stats", err)
	}
	st.SizeBytes = pageCount * pageSize

	return st, nil
}
