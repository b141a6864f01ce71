// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// Session is a contiguous interval during which one application was the
// tracked foreground app. Owned exclusively by the usage store.
type Session struct {
	ID              int64
	AppName         string
	StartTime       int64 // Unix seconds (wall clock)
	EndTime         int64
	DurationSeconds int64
}

// App is a tracked application known to the store.
type App struct {
	ID        int64
	Name      string
	Category  string
	IsBlocked bool
	CreatedAt int64
}

// AppLimit is a per-app daily usage limit. One limit per app name.
type AppLimit struct {
	ID                int64
	AppName           string
	DailyLimitMinutes int
	BlockWhenExceeded bool
}

// LimitStatus is one row of the joined limit/usage query: everything the
// limit evaluator needs for one app without a per-limit query.
type LimitStatus struct {
	AppName           string
	DailyLimitMinutes int
	UsedSeconds       int64
	BlockWhenExceeded bool
}

// GoalType identifies what a goal measures.
type GoalType string

const (
	GoalDailyLimit        GoalType = "daily_limit"
	GoalAppLimit          GoalType = "app_limit"
	GoalCategoryLimit     GoalType = "category_limit"
	GoalMinimumProductive GoalType = "minimum_productive"
)

// IsLimiting reports whether lower usage is better for this goal type.
func (t GoalType) IsLimiting() bool {
	return t != GoalMinimumProductive
}

// Goal is a user-defined usage goal. Goals track progress; they never
// trigger enforcement.
type Goal struct {
	ID            string
	Name          string
	Type          GoalType
	AppName       string // for app_limit goals
	Category      string // for category_limit / minimum_productive goals
	TargetMinutes int
	Days          []time.Weekday // empty = every day
	Enabled       bool
	CreatedAt     string // YYYY-MM-DD
}

// AppliesOn reports whether the goal is evaluated on the given weekday.
func (g Goal) AppliesOn(day time.Weekday) bool {
	if len(g.Days) == 0 {
		return true
	}
	for _, d := range g.Days {
		if d == day {
			return true
		}
	}
	return false
}

// GoalStatus is the evaluated state of a goal for today.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not_started"
	GoalOnTrack    GoalStatus = "on_track"
	GoalWarning    GoalStatus = "warning"
	GoalExceeded   GoalStatus = "exceeded"
	GoalAchieved   GoalStatus = "achieved"
)

// GoalProgress is a goal plus its computed progress for display.
type GoalProgress struct {
	GoalID          string
	GoalName        string
	Type            GoalType
	TargetMinutes   int
	CurrentMinutes  int
	ProgressPercent int // clipped to 0-100 for display
	IsMet           bool
	Status          GoalStatus
}

// Achievement is a milestone unlocked by meeting goals. Once EarnedAt is
// set it is never cleared.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Progress    int
	Target      int
	EarnedAt    string // YYYY-MM-DD, empty if not earned
}

// GoalStats aggregates streak counters across all goals.
type GoalStats struct {
	CurrentStreak          int
	LongestStreak          int
	TotalGoalsMet          int
	FocusSessionsCompleted int
}

// FocusSchedule is a recurring focus window. EndTime earlier than StartTime
// denotes a window wrapping past midnight.
type FocusSchedule struct {
	ID          string
	Name        string
	Days        []time.Weekday
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	BlockedApps []string
	Enabled     bool
}

// FocusSession is the transient state of an ongoing focus session.
// At most one session is active at a time.
type FocusSession struct {
	IsActive         bool
	StartTime        int64
	EndTime          int64 // 0 for open-ended (scheduled or indefinite manual)
	DurationMinutes  int   // 0 for open-ended
	MinutesRemaining int
	BlockedApps      []string
	IsScheduled      bool
	ScheduleName     string
}

// FocusSettings is the durable focus-mode configuration.
type FocusSettings struct {
	BlockedApps            []string
	DefaultDurationMinutes int
	NotifyOnStart          bool
	NotifyOnEnd            bool
}

// BreakSettings configures break reminders.
type BreakSettings struct {
	Enabled      bool
	WorkMinutes  int
	BreakMinutes int
	Notify       bool
}

// BreakStatus is the transient break reminder state.
type BreakStatus struct {
	Enabled       bool
	MinutesWorked int
	WorkMinutes   int
	IsOnBreak     bool
}

// NotificationSettings configures threshold alerts and the DND window.
type NotificationSettings struct {
	Enabled           bool
	WarningThreshold  int // percent, e.g. 80
	ExceededThreshold int // percent, e.g. 100
	DNDEnabled        bool
	DNDStartHour      int // 0-23
	DNDEndHour        int // 0-23
}

// BlockReason says why an app is in the blocked registry.
type BlockReason string

const (
	BlockReasonLimit BlockReason = "limit"
	BlockReasonFocus BlockReason = "focus"
)

// BlockedApp is one entry of the transient blocked registry. Presence in
// the registry is the sole source of truth for "currently blocked".
type BlockedApp struct {
	AppName   string
	Reason    BlockReason
	BlockedAt time.Time
}

// LimitLevel classifies accumulated usage against a limit.
type LimitLevel string

const (
	LimitOK       LimitLevel = "ok"
	LimitWarning  LimitLevel = "warning"
	LimitExceeded LimitLevel = "exceeded"
)

// LimitDecision is the limit evaluator's output for one app.
type LimitDecision struct {
	AppName          string
	Level            LimitLevel
	LimitMinutes     int
	UsedSeconds      int64
	RemainingMinutes int
	RequestBlock     bool
}

// AppUsage is the per-app daily breakdown.
type AppUsage struct {
	AppName         string
	Category        string
	DurationSeconds int64
	SessionCount    int64
}

// DayUsage is one day's total for weekly and range queries.
type DayUsage struct {
	Date         string // YYYY-MM-DD local
	TotalSeconds int64
}

// HourUsage is one hour-of-day total.
type HourUsage struct {
	Hour         int // 0-23 local
	TotalSeconds int64
}

// CategoryUsage is the per-category breakdown.
type CategoryUsage struct {
	Category     string
	TotalSeconds int64
	AppCount     int64
}

// ExportRecord is a flat per-(date, app) row for export.
type ExportRecord struct {
	Date            string `json:"date"`
	AppName         string `json:"app_name"`
	Category        string `json:"category"`
	DurationSeconds int64  `json:"duration_seconds"`
	SessionCount    int64  `json:"session_count"`
}

// StorageStats reports store size after retention cleanup.
type StorageStats struct {
	SessionCount int64
	OldestStart  int64
	SizeBytes    int64
}

// DaemonState records the running daemon for the status command.
type DaemonState struct {
	PID           int
	StartedAt     int64
	LastHeartbeat int64
	AppVersion    string
}
