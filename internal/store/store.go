// Package store implements the durable usage store on an encrypted SQLite
// database. It is the single synchronization point for all durable writes:
// the tick loop is the only writer, and read-only queries from the command
// surface rely on the database's transaction isolation.
package store

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Ensure sqlcipher driver is registered.
	_ "github.com/mutecomm/go-sqlcipher/v4"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

const dbFileName = "usage.db"

// Store implements domain.UsageStore backed by SQLCipher.
type Store struct {
	db     *sql.DB
	dbPath string
	logger *zap.Logger
}

// Open opens (or creates) the encrypted usage database in dataDir and runs
// all pending migrations. A migration failure aborts: we never operate
// against an unknown schema.
func Open(dataDir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	key, err := ensureKey(dataDir)
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096",
		dbPath, hex.EncodeToString(key))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, domain.NewStoreError("open", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, domain.NewStoreError("open", err)
	}

	// One writer by design; serialize the pool to keep SQLite happy.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: dbPath, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// getOrCreateApp returns the app row id for name, inserting it if unknown.
// Runs inside the caller's transaction when tx is non-nil.
func getOrCreateApp(q queryer, name string) (int64, error) {
	var id int64
	err := q.QueryRow(`SELECT id FROM apps WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := q.Exec(`INSERT INTO apps (name, created_at) VALUES (?, ?)`,
		name, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// queryer is the subset of *sql.DB / *sql.Tx the helpers need.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// --- settings (durable key/value configuration) ---

// SaveSettings stores value as JSON under key, replacing any previous value.
// Policy configuration mutations are whole-record replace-then-persist.
func (s *Store) SaveSettings(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return domain.NewStoreError("save settings", err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
		key, string(data))
	return domain.NewStoreError("save settings", err)
}

// LoadSettings unmarshals the stored JSON for key into value. A missing key
// leaves value untouched so callers keep their defaults.
func (s *Store) LoadSettings(key string, value any) error {
	var data string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return domain.NewStoreError("load settings", err)
	}
	return domain.NewStoreError("load settings", json.Unmarshal([]byte(data), value))
}

// --- daemon state ---

// RegisterDaemon records the running daemon for the status command.
func (s *Store) RegisterDaemon(state domain.DaemonState) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO daemon_state (id, pid, started_at, last_heartbeat, app_version)
		VALUES (1, ?, ?, ?, ?)`,
		state.PID, state.StartedAt, state.LastHeartbeat, state.AppVersion)
	return domain.NewStoreError("register daemon", err)
}

// Heartbeat updates the daemon liveness timestamp.
func (s *Store) Heartbeat(pid int) error {
	res, err := s.db.Exec(`UPDATE daemon_state SET last_heartbeat = ? WHERE id = 1 AND pid = ?`,
		time.Now().Unix(), pid)
	if err != nil {
		return domain.NewStoreError("heartbeat", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.NewStoreError("heartbeat", fmt.Errorf("daemon pid %d not registered", pid))
	}
	return nil
}

// Daemon returns the last registered daemon state, or nil if none.
func (s *Store) Daemon() (*domain.DaemonState, error) {
	var st domain.DaemonState
	err := s.db.QueryRow(`SELECT pid, started_at, last_heartbeat, app_version FROM daemon_state WHERE id = 1`).
		Scan(&st.PID, &st.StartedAt, &st.LastHeartbeat, &st.AppVersion)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("daemon state", err)
	}
	return &st, nil
}

// Ensure Store implements domain.UsageStore.
var _ domain.UsageStore = (*Store)(nil)
