package store

import (
	"strings"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// schemaVersion is the current schema version. Increment when adding a
// migration.
const schemaVersion = 4

// migration is one versioned, named schema change. Statements must be safe
// to re-run: IF NOT EXISTS guards, or column additions whose duplicate
// errors are tolerated.
type migration struct {
	version     int
	description string
	sql         string
}

var migrations = []migration{
	{
		version:     1,
		description: "base tables: apps, usage_sessions, app_limits",
		sql: `
			CREATE TABLE IF NOT EXISTS apps (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				category TEXT,
				is_blocked INTEGER DEFAULT 0,
				created_at INTEGER DEFAULT (strftime('%s', 'now'))
			);
			CREATE TABLE IF NOT EXISTS usage_sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				app_id INTEGER NOT NULL,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				duration_seconds INTEGER NOT NULL,
				FOREIGN KEY (app_id) REFERENCES apps(id)
			);
			CREATE TABLE IF NOT EXISTS app_limits (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				app_id INTEGER NOT NULL UNIQUE,
				daily_limit_minutes INTEGER NOT NULL,
				block_when_exceeded INTEGER DEFAULT 0,
				FOREIGN KEY (app_id) REFERENCES apps(id)
			);
		`,
	},
	{
		version:     2,
		description: "query indexes",
		sql: `
			CREATE INDEX IF NOT EXISTS idx_apps_name ON apps(name);
			CREATE INDEX IF NOT EXISTS idx_apps_category ON apps(category);
			CREATE INDEX IF NOT EXISTS idx_sessions_app_start ON usage_sessions(app_id, start_time);
			CREATE INDEX IF NOT EXISTS idx_sessions_date ON usage_sessions(start_time);
		`,
	},
	{
		version:     3,
		description: "durable policy configuration: goals, focus schedules, achievements, settings",
		sql: `
			CREATE TABLE IF NOT EXISTS goals (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				goal_type TEXT NOT NULL,
				app_name TEXT DEFAULT '',
				category TEXT DEFAULT '',
				target_minutes INTEGER NOT NULL,
				days TEXT DEFAULT '',
				enabled INTEGER DEFAULT 1,
				created_at TEXT NOT NULL
			);
			CREATE TABLE IF NOT EXISTS focus_schedules (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				days TEXT DEFAULT '',
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				blocked_apps TEXT DEFAULT '',
				enabled INTEGER DEFAULT 1
			);
			CREATE TABLE IF NOT EXISTS achievements (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL,
				progress INTEGER DEFAULT 0,
				target INTEGER NOT NULL,
				earned_at TEXT DEFAULT ''
			);
			CREATE TABLE IF NOT EXISTS settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);
		`,
	},
	{
		version:     4,
		description: "daemon liveness state",
		sql: `
			CREATE TABLE IF NOT EXISTS daemon_state (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				pid INTEGER NOT NULL,
				started_at INTEGER NOT NULL,
				last_heartbeat INTEGER NOT NULL,
				app_version TEXT DEFAULT ''
			);
		`,
	},
}

// migrate applies all pending migrations in order. The recorded version only
// moves forward, one migration at a time; a statement failure other than a
// tolerated duplicate aborts with a MigrationError.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER DEFAULT (strftime('%s', 'now')),
			description TEXT
		)`); err != nil {
		return &domain.MigrationError{Version: 0, Description: "init version table", Err: err}
	}

	current, err := s.SchemaVersion()
	if err != nil {
		return &domain.MigrationError{Version: 0, Description: "read version", Err: err}
	}

	s.logger.Info("checking database migrations",
		zap.Int("current_version", current),
		zap.Int("target_version", schemaVersion))

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		s.logger.Info("applying migration",
			zap.Int("version", m.version),
			zap.String("description", m.description))

		for _, stmt := range strings.Split(m.sql, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := s.db.Exec(stmt); err != nil {
				// ALTER TABLE ADD COLUMN on a partially-migrated schema
				// reports a duplicate column; that state is fine.
				if strings.Contains(err.Error(), "duplicate column") {
					s.logger.Debug("column already exists, skipping", zap.String("stmt", stmt))
					continue
				}
				return &domain.MigrationError{Version: m.version, Description: m.description, Err: err}
			}
		}

		if _, err := s.db.Exec(
			`INSERT INTO schema_version (version, description) VALUES (?, ?)`,
			m.version, m.description); err != nil {
			return &domain.MigrationError{Version: m.version, Description: m.description, Err: err}
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v)
	if err != nil {
		return 0, domain.NewStoreError("schema version", err)
	}
	return v, nil
}
