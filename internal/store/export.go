package store

import (
	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// Export returns flat per-(date, app) rows for the inclusive date range,
// ordered by date then app name.
func (s *Store) Export(startDate, endDate string) ([]domain.ExportRecord, error) {
	rows, err := s.db.Query(`
		SELECT date(s.start_time, 'unixepoch', 'localtime'),
		       a.name, COALESCE(a.category, ''),
		       SUM(s.duration_seconds), COUNT(s.id)
		FROM usage_sessions s
		JOIN apps a ON a.id = s.app_id
		WHERE date(s.start_time, 'unixepoch', 'localtime') BETWEEN ? AND ?
		GROUP BY 1, a.id
		ORDER BY 1, a.name`,
		startDate, endDate)
	if err != nil {
		return nil, domain.NewStoreError("export", err)
	}
	defer rows.Close()

	var out []domain.ExportRecord
	for rows.Next() {
		var r domain.ExportRecord
		if err := rows.Scan(&r.Date, &r.AppName, &r.Category, &r.DurationSeconds, &r.SessionCount); err != nil {
			return nil, domain.NewStoreError("export", err)
		}
		out = append(out, r)
	}
	return out, domain.NewStoreError("export", rows.Err())
}
