package domain

import "time"

// ProcessManager handles OS process operations.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// FindByExactName returns PIDs whose process name equals name
	// (case-insensitive full-string match, never a substring match).
	FindByExactName(name string) ([]int, error)

	// Terminate sends SIGTERM to a process by PID.
	Terminate(pid int) error

	// IsRunning checks if a PID exists and is running.
	IsRunning(pid int) bool

	// GetCurrentPID returns the current process PID.
	GetCurrentPID() int
}

// WindowQuerier reports the raw identifier of the foreground application.
type WindowQuerier interface {
	// ActiveWindow returns the raw window class or title of the current
	// foreground app. Empty string with nil error means no determinable
	// foreground app (locked screen, desktop focused).
	ActiveWindow() (string, error)
}

// Notifier delivers a desktop notification. The decision to notify is made
// by the policy layer; rendering is delegated to the OS.
type Notifier interface {
	Notify(title, body string, critical bool) error
}

// UsageStore is the durable persistence boundary. All session writes go
// through it; its transaction semantics are the only synchronization point.
type UsageStore interface {
	// RecordUsage atomically inserts a finished session for app. Either the
	// session row and its aggregate effects commit together or nothing does.
	RecordUsage(appName string, duration time.Duration) error

	// Open-session lifecycle used by the sampler.
	StartSession(appName string, start int64) (int64, error)
	UpdateSessionProgress(sessionID int64, end int64) error
	CloseSession(sessionID int64, end int64) error

	// Aggregates over today (local time).
	UsageToday(appName string) (int64, error)
	DailyUsage() ([]AppUsage, error)
	WeeklyStats() ([]DayUsage, error)
	HourlyUsage() ([]HourUsage, error)
	CategoryUsage() ([]CategoryUsage, error)

	// Historical range variants; dates are YYYY-MM-DD inclusive.
	DailyTotalsInRange(startDate, endDate string) ([]DayUsage, error)
	AppUsageInRange(startDate, endDate string) ([]AppUsage, error)
	CategoryUsageInRange(startDate, endDate string) ([]CategoryUsage, error)
	Export(startDate, endDate string) ([]ExportRecord, error)

	// Limits.
	SetLimit(limit AppLimit) error
	RemoveLimit(appName string) error
	Limits() ([]AppLimit, error)
	AllLimitStatus() ([]LimitStatus, error)
	IsLimitExceeded(appName string) (bool, error)

	// Durable block intent (apps.is_blocked). Written before any
	// termination attempt so a crash leaves a recoverable state.
	MarkBlocked(appName string, blocked bool) error
	BlockedAppNames() ([]string, error)

	SetCategory(appName, category string) error
	Apps() ([]App, error)

	// Durable policy configuration.
	SaveGoal(goal Goal) error
	DeleteGoal(goalID string) error
	Goals() ([]Goal, error)
	SaveSchedule(schedule FocusSchedule) error
	DeleteSchedule(scheduleID string) error
	Schedules() ([]FocusSchedule, error)
	SaveSettings(key string, value any) error
	LoadSettings(key string, value any) error
	SaveAchievements(achievements []Achievement, stats GoalStats) error
	LoadAchievements() ([]Achievement, GoalStats, error)

	// Maintenance.
	CleanupOldSessions(retentionDays int) (deleted int64, err error)
	Stats() (StorageStats, error)
	SchemaVersion() (int, error)

	// Daemon liveness for the status command.
	RegisterDaemon(state DaemonState) error
	Heartbeat(pid int) error
	Daemon() (*DaemonState, error)

	Close() error
}
