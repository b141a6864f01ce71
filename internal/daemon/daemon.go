// Package daemon runs the tracking loop: sampling the foreground app,
// evaluating policy, enforcing blocks, and housekeeping, all from a single
// goroutine so the store only ever has one writer.
package daemon

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/config"
	"github.com/eliteGoblin/wellbeingd/internal/domain"
	"github.com/eliteGoblin/wellbeingd/internal/policy"
	"github.com/eliteGoblin/wellbeingd/internal/usecase"
)

const heartbeatInterval = 30 * time.Second
const rolloverInterval = time.Minute

// Version is stamped at build time.
var Version = "dev"

// Daemon owns every moving part of the tracking loop.
type Daemon struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    domain.UsageStore
	notifier domain.Notifier
	procs    domain.ProcessManager

	sampler  *usecase.Sampler
	actuator *usecase.Actuator
	service  *usecase.Service

	focus   *policy.FocusManager
	breaks  *policy.BreakReminder
	gate    *policy.NotificationGate
	limits  *policy.LimitEvaluator
	goals   *policy.GoalEvaluator
	tracker policy.AchievementTracker

	notifySettings domain.NotificationSettings
	breakSettings  domain.BreakSettings
	today          string
}

// New wires the daemon from its dependencies. Settings are loaded from the
// store; missing keys fall back to defaults.
func New(cfg *config.Config, store domain.UsageStore, windows domain.WindowQuerier,
	procs domain.ProcessManager, notifier domain.Notifier, logger *zap.Logger) (*Daemon, error) {

	service := usecase.NewService(store, logger)

	ns, err := service.NotificationSettings()
	if err != nil {
		return nil, err
	}
	bs, err := service.BreakSettings()
	if err != nil {
		return nil, err
	}

	warnPct, exceedPct := limitThresholds(ns, cfg)
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		notifier: notifier,
		procs:    procs,
		sampler:  usecase.NewSampler(windows, store, cfg.SelfAppName, logger),
		actuator: usecase.NewActuator(procs, store, cfg.SelfAppName, logger),
		service:  service,
		focus:    policy.NewFocusManager(),
		breaks:   policy.NewBreakReminder(bs),
		gate:     policy.NewNotificationGate(ns),
		limits:   policy.NewLimitEvaluator(warnPct, exceedPct),
		goals:    policy.NewGoalEvaluator(cfg.WarningThresholdPercent),

		notifySettings: ns,
		breakSettings:  bs,
		today:          time.Now().Format("2006-01-02"),
	}
	return d, nil
}

// Run performs startup housekeeping and blocks in the tick loop until ctx
// is cancelled. Per-tick failures are logged, never fatal; only startup
// errors abort.
func (d *Daemon) Run(ctx context.Context) error {
	if deleted, err := d.store.CleanupOldSessions(d.cfg.RetentionDays); err != nil {
		d.logger.Warn("retention cleanup failed", zap.Error(err))
	} else if deleted > 0 {
		d.logger.Info("retention cleanup done", zap.Int64("deleted", deleted))
	}

	if err := d.actuator.Rebuild(); err != nil {
		return fmt.Errorf("rebuild block registry: %w", err)
	}

	pid := d.procs.GetCurrentPID()
	now := time.Now().Unix()
	if err := d.store.RegisterDaemon(domain.DaemonState{
		PID: pid, StartedAt: now, LastHeartbeat: now, AppVersion: Version,
	}); err != nil {
		return fmt.Errorf("register daemon: %w", err)
	}

	d.logger.Info("daemon started",
		zap.Int("pid", pid),
		zap.Duration("sample_interval", d.cfg.SampleInterval()),
		zap.Duration("evaluate_interval", d.cfg.EvaluateInterval()))

	sampleTicker := time.NewTicker(d.cfg.SampleInterval())
	defer sampleTicker.Stop()
	evalTicker := time.NewTicker(d.cfg.EvaluateInterval())
	defer evalTicker.Stop()
	heartbeatTicker := time.NewTicker(heartbeatInterval)
	defer heartbeatTicker.Stop()
	rolloverTicker := time.NewTicker(rolloverInterval)
	defer rolloverTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopping")
			d.sampler.Close()
			return nil

		case <-sampleTicker.C:
			d.sampler.Tick()

		case <-evalTicker.C:
			d.Evaluate(time.Now())

		case <-heartbeatTicker.C:
			if err := d.store.Heartbeat(pid); err != nil {
				d.logger.Warn("heartbeat failed", zap.Error(err))
			}

		case <-rolloverTicker.C:
			d.checkRollover(time.Now())
		}
	}
}

// Evaluate is one policy pass: control requests, focus transitions, limit
// decisions, break reminders, enforcement.
func (d *Daemon) Evaluate(now time.Time) {
	d.reloadSettings()
	d.handleControlRequest(now)
	d.tickFocus(now)
	d.tickLimits(now)
	d.tickBreaks(now)
	d.actuator.EnforceTick(now)
}

// IsBlocked reports whether enforcement is active for app at now.
func (d *Daemon) IsBlocked(app string, now time.Time) bool {
	return d.actuator.IsBlocked(app, now)
}

// Rebuild restores the in-memory block registry from durable state.
func (d *Daemon) Rebuild() error {
	return d.actuator.Rebuild()
}

// limitThresholds picks the persisted notification thresholds, falling back
// to the config file where a stored value is absent.
func limitThresholds(ns domain.NotificationSettings, cfg *config.Config) (int, int) {
	warn, exceed := ns.WarningThreshold, ns.ExceededThreshold
	if warn <= 0 {
		warn = cfg.WarningThresholdPercent
	}
	if exceed <= 0 {
		exceed = cfg.ExceededThresholdPercent
	}
	return warn, exceed
}

func (d *Daemon) reloadSettings() {
	if ns, err := d.service.NotificationSettings(); err == nil && ns != d.notifySettings {
		d.notifySettings = ns
		d.gate.Configure(ns)
		d.limits = policy.NewLimitEvaluator(limitThresholds(ns, d.cfg))
		d.logger.Info("notification settings reloaded")
	}
	if bs, err := d.service.BreakSettings(); err == nil && bs != d.breakSettings {
		d.breakSettings = bs
		d.breaks.Configure(bs)
		d.logger.Info("break settings reloaded")
	}
}

func (d *Daemon) handleControlRequest(now time.Time) {
	req, err := d.service.TakeControlRequest(now)
	if err != nil {
		d.logger.Warn("control request read failed", zap.Error(err))
		return
	}
	if req == nil {
		return
	}

	d.logger.Info("control request received",
		zap.String("action", req.Action), zap.String("app", req.AppName))

	switch req.Action {
	case usecase.ControlEmergency:
		if err := d.actuator.GrantEmergency(req.AppName, d.cfg.EmergencyGrant(), now); err != nil {
			d.logger.Warn("emergency grant refused",
				zap.String("app", req.AppName), zap.Error(err))
			return
		}
		d.notify("Emergency access granted",
			fmt.Sprintf("%s is usable for %d minutes", req.AppName, d.cfg.EmergencyGrantMinutes), false)

	case usecase.ControlBlock:
		if err := d.actuator.Block(req.AppName, domain.BlockReasonLimit); err != nil {
			d.logger.Warn("manual block failed",
				zap.String("app", req.AppName), zap.Error(err))
		}

	case usecase.ControlFocusStart:
		fs, err := d.service.FocusSettings()
		if err != nil {
			d.logger.Warn("focus settings load failed", zap.Error(err))
			return
		}
		// Zero minutes means "use my default"; an open-ended session needs
		// an explicitly zero default.
		minutes := req.Minutes
		if minutes == 0 {
			minutes = fs.DefaultDurationMinutes
		}
		ev, err := d.focus.StartManual(minutes, fs.BlockedApps, now)
		if err != nil {
			d.logger.Warn("focus start refused", zap.Error(err))
			return
		}
		d.applyFocusEvent(ev, fs, now)

	case usecase.ControlFocusStop:
		ev, err := d.focus.Stop(now)
		if err != nil {
			d.logger.Warn("focus stop refused", zap.Error(err))
			return
		}
		fs, _ := d.service.FocusSettings()
		d.applyFocusEvent(ev, fs, now)

	case usecase.ControlFocusExtend:
		if err := d.focus.Extend(req.Minutes, now); err != nil {
			d.logger.Warn("focus extend refused", zap.Error(err))
		}

	case usecase.ControlBreakStart:
		d.breaks.StartBreak(now)

	case usecase.ControlBreakEnd:
		d.breaks.EndBreak(now)

	case usecase.ControlBreakReset:
		d.breaks.Reset()

	default:
		d.logger.Warn("unknown control action", zap.String("action", req.Action))
	}
}

func (d *Daemon) tickFocus(now time.Time) {
	schedules, err := d.store.Schedules()
	if err != nil {
		d.logger.Warn("schedule load failed", zap.Error(err))
		schedules = nil
	}

	fs, err := d.service.FocusSettings()
	if err != nil {
		d.logger.Warn("focus settings load failed", zap.Error(err))
	}

	for _, ev := range d.focus.Tick(now, schedules) {
		d.applyFocusEvent(ev, fs, now)
	}
}

func (d *Daemon) applyFocusEvent(ev policy.FocusEvent, fs domain.FocusSettings, now time.Time) {
	switch ev.Type {
	case policy.FocusStarted:
		for _, app := range ev.BlockedApps {
			if err := d.actuator.Block(app, domain.BlockReasonFocus); err != nil {
				d.logger.Warn("focus block failed", zap.String("app", app), zap.Error(err))
			}
		}
		if fs.NotifyOnStart {
			d.notify("Focus session started", focusBody(ev), false)
		}
		d.publishFocusState(d.focus.Status(now))

	case policy.FocusEnded:
		d.actuator.UnblockByReason(domain.BlockReasonFocus)
		if ev.Completed {
			d.recordFocusCompletion(now)
		}
		if fs.NotifyOnEnd {
			d.notify("Focus session ended", focusBody(ev), false)
		}
		d.publishFocusState(domain.FocusSession{})
	}
}

// publishFocusState mirrors the in-memory focus session into the store so
// one-shot CLI commands can show it.
func (d *Daemon) publishFocusState(fs domain.FocusSession) {
	if err := d.service.SaveFocusState(fs); err != nil {
		d.logger.Warn("focus state publish failed", zap.Error(err))
	}
}

func focusBody(ev policy.FocusEvent) string {
	if ev.Name != "" {
		return ev.Name
	}
	if len(ev.BlockedApps) > 0 {
		return fmt.Sprintf("%d apps blocked", len(ev.BlockedApps))
	}
	return "stay on task"
}

func (d *Daemon) recordFocusCompletion(now time.Time) {
	achievements, stats, err := d.service.Achievements()
	if err != nil {
		d.logger.Warn("achievement load failed", zap.Error(err))
		return
	}
	d.tracker.FocusSessionCompleted(achievements, &stats, now.Format("2006-01-02"))
	if err := d.store.SaveAchievements(achievements, stats); err != nil {
		d.logger.Warn("achievement save failed", zap.Error(err))
	}
}

func (d *Daemon) tickLimits(now time.Time) {
	statuses, err := d.store.AllLimitStatus()
	if err != nil {
		d.logger.Warn("limit status query failed", zap.Error(err))
		return
	}

	for _, decision := range d.limits.Evaluate(statuses) {
		switch decision.Level {
		case domain.LimitWarning:
			if d.gate.Allow(decision.AppName, policy.NotifyWarning, now) {
				d.notify("Usage limit approaching",
					fmt.Sprintf("%s: %d minutes left today", decision.AppName, decision.RemainingMinutes),
					false)
			}

		case domain.LimitExceeded:
			if d.gate.Allow(decision.AppName, policy.NotifyExceeded, now) {
				d.notify("Usage limit reached",
					fmt.Sprintf("%s: %d minute daily limit used up", decision.AppName, decision.LimitMinutes),
					true)
			}
			if decision.RequestBlock && !d.actuator.IsRegistered(decision.AppName) {
				if err := d.actuator.Block(decision.AppName, domain.BlockReasonLimit); err != nil {
					d.logger.Warn("limit block failed",
						zap.String("app", decision.AppName), zap.Error(err))
				}
			}
		}
	}
}

func (d *Daemon) tickBreaks(now time.Time) {
	remind, breakDone := d.breaks.Tick(now, d.sampler.CurrentApp() != "")
	if remind && d.breakSettings.Notify {
		d.notify("Time for a break",
			fmt.Sprintf("You have been at the screen for %d minutes", d.breakSettings.WorkMinutes),
			false)
	}
	if breakDone && d.breakSettings.Notify {
		d.notify("Break complete", "Fresh stretch starts now", false)
	}
}

// checkRollover detects the local-date change and closes out the previous
// day: streaks and achievements are settled, limit blocks and notification
// dedup reset. Focus blocks survive rollover.
func (d *Daemon) checkRollover(now time.Time) {
	day := now.Format("2006-01-02")
	if day == d.today {
		return
	}

	d.logger.Info("day rollover", zap.String("from", d.today), zap.String("to", day))
	closed := d.today
	d.today = day

	d.settleDay(closed, now)
	d.actuator.ResetDay()
}

// settleDay evaluates yesterday's goals and limits into streaks and
// achievements. Usage queried here still reflects the closed day only when
// the rollover tick fires promptly; the one-minute ticker keeps the drift
// to at most a minute of the new day.
func (d *Daemon) settleDay(closedDay string, now time.Time) {
	goals, err := d.store.Goals()
	if err != nil {
		d.logger.Warn("goal load failed at rollover", zap.Error(err))
		return
	}

	daily, err := d.store.AppUsageInRange(closedDay, closedDay)
	if err != nil {
		d.logger.Warn("usage query failed at rollover", zap.Error(err))
		return
	}
	productive, err := d.service.ProductiveCategories()
	if err != nil {
		d.logger.Warn("productive categories load failed", zap.Error(err))
	}
	snap := policy.SnapshotFromUsage(daily, productive)

	closedDate, err := time.ParseInLocation("2006-01-02", closedDay, time.Local)
	if err != nil {
		d.logger.Warn("rollover date parse failed", zap.Error(err))
		return
	}

	allMet, hadGoals := true, false
	for _, g := range goals {
		if !g.Enabled || !g.AppliesOn(closedDate.Weekday()) {
			continue
		}
		hadGoals = true
		if !d.goals.Progress(g, policy.CurrentMinutes(g, snap)).IsMet {
			allMet = false
		}
	}

	// Limits are judged against the closed day's usage, not the new day's.
	underAllLimits := true
	limits, err := d.store.Limits()
	if err != nil {
		d.logger.Warn("limit load failed at rollover", zap.Error(err))
	} else {
		usedByApp := make(map[string]int64, len(daily))
		for _, u := range daily {
			usedByApp[u.AppName] += u.DurationSeconds
		}
		for _, l := range limits {
			if usedByApp[l.AppName] >= int64(l.DailyLimitMinutes)*60 {
				underAllLimits = false
			}
		}
	}

	weekStart := closedDate.AddDate(0, 0, -6).Format("2006-01-02")
	weekProductive := 0
	if weekUsage, err := d.store.AppUsageInRange(weekStart, closedDay); err == nil {
		weekProductive = policy.SnapshotFromUsage(weekUsage, productive).ProductiveMinutes
	}

	achievements, stats, err := d.service.Achievements()
	if err != nil {
		d.logger.Warn("achievement load failed at rollover", zap.Error(err))
		return
	}
	d.tracker.DayClosed(achievements, &stats, allMet, hadGoals, underAllLimits, weekProductive, closedDay)
	if err := d.store.SaveAchievements(achievements, stats); err != nil {
		d.logger.Warn("achievement save failed at rollover", zap.Error(err))
	}
}

func (d *Daemon) notify(title, body string, critical bool) {
	if err := d.notifier.Notify(title, body, critical); err != nil {
		d.logger.Warn("notification failed", zap.String("title", title), zap.Error(err))
	}
}
