package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
	"github.com/eliteGoblin/wellbeingd/internal/policy"
)

// Settings keys shared between the CLI and the daemon. Both sides go
// through the same database, which is the only IPC channel.
const (
	SettingsNotifications        = "notification_settings"
	SettingsFocus                = "focus_settings"
	SettingsBreaks               = "break_settings"
	SettingsProductiveCategories = "productive_categories"
	SettingsControlRequest       = "control_request"
	SettingsFocusState           = "focus_state"
)

// Control actions the CLI can ask the daemon to perform.
const (
	ControlEmergency   = "emergency"
	ControlBlock       = "block"
	ControlFocusStart  = "focus_start"
	ControlFocusStop   = "focus_stop"
	ControlFocusExtend = "focus_extend"
	ControlBreakStart  = "break_start"
	ControlBreakEnd    = "break_end"
	ControlBreakReset  = "break_reset"
)

// ControlRequest is a CLI command destined for the running daemon,
// consumed on its next evaluation tick. Last writer wins; a single
// pending slot is enough for a single interactive user.
type ControlRequest struct {
	Action      string `json:"action"`
	AppName     string `json:"app_name,omitempty"`
	Minutes     int    `json:"minutes,omitempty"`
	RequestedAt int64  `json:"requested_at"`
}

// Service is the typed command surface over the store. The CLI constructs
// one per invocation; the daemon holds one for its own bookkeeping.
type Service struct {
	store  domain.UsageStore
	logger *zap.Logger
}

func NewService(store domain.UsageStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// --- usage reporting ---

func (s *Service) DailyUsage() ([]domain.AppUsage, error)      { return s.store.DailyUsage() }
func (s *Service) WeeklyStats() ([]domain.DayUsage, error)     { return s.store.WeeklyStats() }
func (s *Service) HourlyUsage() ([]domain.HourUsage, error)    { return s.store.HourlyUsage() }
func (s *Service) CategoryUsage() ([]domain.CategoryUsage, error) {
	return s.store.CategoryUsage()
}

// RangeReport validates the date range and returns its daily totals.
func (s *Service) RangeReport(startDate, endDate string) ([]domain.DayUsage, error) {
	if err := validateDateRange(startDate, endDate); err != nil {
		return nil, err
	}
	return s.store.DailyTotalsInRange(startDate, endDate)
}

// --- limits ---

func (s *Service) SetLimit(appName string, minutes int, blockWhenExceeded bool) error {
	if err := ValidateAppName(appName); err != nil {
		return err
	}
	if minutes <= 0 {
		return &domain.ValidationError{Name: appName, Reason: "limit minutes must be positive"}
	}
	return s.store.SetLimit(domain.AppLimit{
		AppName:           appName,
		DailyLimitMinutes: minutes,
		BlockWhenExceeded: blockWhenExceeded,
	})
}

func (s *Service) RemoveLimit(appName string) error {
	return s.store.RemoveLimit(appName)
}

func (s *Service) LimitStatus() ([]domain.LimitStatus, error) {
	return s.store.AllLimitStatus()
}

// --- categories ---

func (s *Service) SetCategory(appName, category string) error {
	if err := ValidateAppName(appName); err != nil {
		return err
	}
	return s.store.SetCategory(appName, category)
}

func (s *Service) Apps() ([]domain.App, error) { return s.store.Apps() }

// --- goals ---

func (s *Service) AddGoal(name string, goalType domain.GoalType, targetMinutes int,
	appName, category string, days []time.Weekday) (domain.Goal, error) {

	if name == "" {
		return domain.Goal{}, &domain.ValidationError{Name: name, Reason: "goal name required"}
	}
	if targetMinutes <= 0 {
		return domain.Goal{}, &domain.ValidationError{Name: name, Reason: "target minutes must be positive"}
	}
	switch goalType {
	case domain.GoalDailyLimit, domain.GoalAppLimit, domain.GoalCategoryLimit, domain.GoalMinimumProductive:
	default:
		return domain.Goal{}, &domain.ValidationError{Name: name, Reason: fmt.Sprintf("unknown goal type %q", goalType)}
	}
	if goalType == domain.GoalAppLimit {
		if err := ValidateAppName(appName); err != nil {
			return domain.Goal{}, err
		}
	}

	g := domain.Goal{
		ID:            uuid.NewString(),
		Name:          name,
		Type:          goalType,
		AppName:       appName,
		Category:      category,
		TargetMinutes: targetMinutes,
		Days:          days,
		Enabled:       true,
		CreatedAt:     time.Now().Format("2006-01-02"),
	}
	if err := s.store.SaveGoal(g); err != nil {
		return domain.Goal{}, err
	}
	return g, nil
}

func (s *Service) DeleteGoal(goalID string) error { return s.store.DeleteGoal(goalID) }

// GoalReport evaluates every applicable goal against today's usage.
func (s *Service) GoalReport(warningPercent int) ([]domain.GoalProgress, error) {
	goals, err := s.store.Goals()
	if err != nil {
		return nil, err
	}
	daily, err := s.store.DailyUsage()
	if err != nil {
		return nil, err
	}
	productive, err := s.ProductiveCategories()
	if err != nil {
		return nil, err
	}

	snap := policy.SnapshotFromUsage(daily, productive)
	eval := policy.NewGoalEvaluator(warningPercent)
	return eval.Evaluate(goals, snap, time.Now().Weekday()), nil
}

// Achievements returns the merged achievement catalog and streak stats.
func (s *Service) Achievements() ([]domain.Achievement, domain.GoalStats, error) {
	persisted, stats, err := s.store.LoadAchievements()
	if err != nil {
		return nil, stats, err
	}
	return policy.MergeAchievements(persisted), stats, nil
}

// --- schedules ---

func (s *Service) AddSchedule(name, startTime, endTime string, days []time.Weekday,
	blockedApps []string) (domain.FocusSchedule, error) {

	if name == "" {
		return domain.FocusSchedule{}, &domain.ValidationError{Name: name, Reason: "schedule name required"}
	}
	for _, app := range blockedApps {
		if err := ValidateAppName(app); err != nil {
			return domain.FocusSchedule{}, err
		}
	}
	sc := domain.FocusSchedule{
		ID:          uuid.NewString(),
		Name:        name,
		Days:        days,
		StartTime:   startTime,
		EndTime:     endTime,
		BlockedApps: blockedApps,
		Enabled:     true,
	}
	if err := policy.ValidateWindow(startTime, endTime); err != nil {
		return domain.FocusSchedule{}, &domain.ValidationError{Name: name, Reason: err.Error()}
	}
	if err := s.store.SaveSchedule(sc); err != nil {
		return domain.FocusSchedule{}, err
	}
	return sc, nil
}

func (s *Service) DeleteSchedule(id string) error { return s.store.DeleteSchedule(id) }
func (s *Service) Schedules() ([]domain.FocusSchedule, error) {
	return s.store.Schedules()
}

// --- settings ---

func (s *Service) NotificationSettings() (domain.NotificationSettings, error) {
	ns := domain.NotificationSettings{
		Enabled:           true,
		WarningThreshold:  80,
		ExceededThreshold: 100,
	}
	err := s.store.LoadSettings(SettingsNotifications, &ns)
	return ns, err
}

func (s *Service) SaveNotificationSettings(ns domain.NotificationSettings) error {
	if ns.DNDStartHour < 0 || ns.DNDStartHour > 23 || ns.DNDEndHour < 0 || ns.DNDEndHour > 23 {
		return &domain.ValidationError{Name: "dnd", Reason: "hours must be 0-23"}
	}
	if ns.WarningThreshold < 1 || ns.WarningThreshold > 100 {
		return &domain.ValidationError{Name: "notifications", Reason: "warning threshold must be 1-100"}
	}
	if ns.ExceededThreshold < ns.WarningThreshold {
		return &domain.ValidationError{Name: "notifications", Reason: "exceeded threshold must not be below warning"}
	}
	return s.store.SaveSettings(SettingsNotifications, ns)
}

func (s *Service) FocusSettings() (domain.FocusSettings, error) {
	fs := domain.FocusSettings{DefaultDurationMinutes: 25, NotifyOnStart: true, NotifyOnEnd: true}
	err := s.store.LoadSettings(SettingsFocus, &fs)
	return fs, err
}

func (s *Service) SaveFocusSettings(fs domain.FocusSettings) error {
	for _, app := range fs.BlockedApps {
		if err := ValidateAppName(app); err != nil {
			return err
		}
	}
	return s.store.SaveSettings(SettingsFocus, fs)
}

func (s *Service) BreakSettings() (domain.BreakSettings, error) {
	bs := domain.BreakSettings{WorkMinutes: 50, BreakMinutes: 10, Notify: true}
	err := s.store.LoadSettings(SettingsBreaks, &bs)
	return bs, err
}

func (s *Service) SaveBreakSettings(bs domain.BreakSettings) error {
	if bs.WorkMinutes <= 0 || bs.BreakMinutes <= 0 {
		return &domain.ValidationError{Name: "breaks", Reason: "work and break minutes must be positive"}
	}
	return s.store.SaveSettings(SettingsBreaks, bs)
}

func (s *Service) ProductiveCategories() ([]string, error) {
	cats := []string{"development", "productivity"}
	err := s.store.LoadSettings(SettingsProductiveCategories, &cats)
	return cats, err
}

func (s *Service) SaveProductiveCategories(cats []string) error {
	return s.store.SaveSettings(SettingsProductiveCategories, cats)
}

// --- daemon control ---

// RequestEmergency asks the daemon for temporary access to a blocked app.
func (s *Service) RequestEmergency(appName string) error {
	if err := ValidateAppName(appName); err != nil {
		return err
	}
	return s.fileControl(ControlRequest{Action: ControlEmergency, AppName: appName})
}

// RequestBlock asks the daemon to block an app immediately.
func (s *Service) RequestBlock(appName string) error {
	if err := ValidateAppName(appName); err != nil {
		return err
	}
	return s.fileControl(ControlRequest{Action: ControlBlock, AppName: appName})
}

// RequestFocusStart asks the daemon to begin a manual focus session.
// minutes 0 applies the configured default length; an open-ended session
// needs that default itself set to zero.
func (s *Service) RequestFocusStart(minutes int) error {
	if minutes < 0 {
		return &domain.ValidationError{Name: "focus", Reason: "minutes must not be negative"}
	}
	return s.fileControl(ControlRequest{Action: ControlFocusStart, Minutes: minutes})
}

func (s *Service) RequestFocusStop() error {
	return s.fileControl(ControlRequest{Action: ControlFocusStop})
}

func (s *Service) RequestFocusExtend(minutes int) error {
	if minutes <= 0 {
		return &domain.ValidationError{Name: "focus", Reason: "minutes must be positive"}
	}
	return s.fileControl(ControlRequest{Action: ControlFocusExtend, Minutes: minutes})
}

func (s *Service) RequestBreakStart() error {
	return s.fileControl(ControlRequest{Action: ControlBreakStart})
}

func (s *Service) RequestBreakEnd() error {
	return s.fileControl(ControlRequest{Action: ControlBreakEnd})
}

func (s *Service) RequestBreakReset() error {
	return s.fileControl(ControlRequest{Action: ControlBreakReset})
}

// BlockedApps lists apps with durable block intent.
func (s *Service) BlockedApps() ([]string, error) {
	return s.store.BlockedAppNames()
}

// SaveFocusState publishes the daemon's current focus session so one-shot
// CLI invocations can display it. The daemon writes it on every focus
// transition; an inactive session is stored as the zero value.
func (s *Service) SaveFocusState(fs domain.FocusSession) error {
	return s.store.SaveSettings(SettingsFocusState, fs)
}

func (s *Service) FocusState() (domain.FocusSession, error) {
	var fs domain.FocusSession
	err := s.store.LoadSettings(SettingsFocusState, &fs)
	return fs, err
}

func (s *Service) fileControl(req ControlRequest) error {
	req.RequestedAt = time.Now().Unix()
	s.logger.Info("control request filed",
		zap.String("action", req.Action), zap.String("app", req.AppName))
	return s.store.SaveSettings(SettingsControlRequest, req)
}

// TakeControlRequest returns and clears a pending request. Requests older
// than a minute are dropped as stale: the user has moved on.
func (s *Service) TakeControlRequest(now time.Time) (*ControlRequest, error) {
	var req ControlRequest
	if err := s.store.LoadSettings(SettingsControlRequest, &req); err != nil {
		return nil, err
	}
	if req.Action == "" {
		return nil, nil
	}
	if err := s.store.SaveSettings(SettingsControlRequest, ControlRequest{}); err != nil {
		return nil, err
	}
	if now.Unix()-req.RequestedAt > 60 {
		return nil, nil
	}
	return &req, nil
}

// --- export and maintenance ---

// ExportUsage renders the date range as "csv" or "json".
func (s *Service) ExportUsage(startDate, endDate, format string) (string, error) {
	if err := validateDateRange(startDate, endDate); err != nil {
		return "", err
	}
	records, err := s.store.Export(startDate, endDate)
	if err != nil {
		return "", err
	}
	switch format {
	case "csv":
		return formatCSV(records), nil
	case "json":
		return formatJSON(records)
	default:
		return "", &domain.ValidationError{Name: format, Reason: "format must be csv or json"}
	}
}

func (s *Service) Cleanup(retentionDays int) (int64, error) {
	return s.store.CleanupOldSessions(retentionDays)
}

func (s *Service) StorageStats() (domain.StorageStats, error) { return s.store.Stats() }

// DaemonStatus returns the registered daemon state and whether its
// heartbeat is recent enough to call it alive.
func (s *Service) DaemonStatus(now time.Time, staleAfter time.Duration) (*domain.DaemonState, bool, error) {
	st, err := s.store.Daemon()
	if err != nil || st == nil {
		return st, false, err
	}
	alive := now.Unix()-st.LastHeartbeat <= int64(staleAfter.Seconds())
	return st, alive, nil
}

func validateDateRange(startDate, endDate string) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return &domain.ValidationError{Name: startDate, Reason: "dates must be YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return &domain.ValidationError{Name: endDate, Reason: "dates must be YYYY-MM-DD"}
	}
	if end.Before(start) {
		return &domain.ValidationError{Name: startDate, Reason: "end date precedes start date"}
	}
	return nil
}
