package usecase

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// blockStore is the slice of the usage store the actuator needs: durable
// block intent plus the limit join used to rebuild after a restart.
type blockStore interface {
	MarkBlocked(appName string, blocked bool) error
	BlockedAppNames() ([]string, error)
	AllLimitStatus() ([]domain.LimitStatus, error)
}

// Actuator enforces blocks against running processes. The in-memory
// registry is the sole runtime truth for "currently blocked"; the durable
// is_blocked flag only records intent so a restart can rebuild it.
type Actuator struct {
	procs   domain.ProcessManager
	store   blockStore
	logger  *zap.Logger
	selfApp string

	mu      sync.Mutex
	blocked map[string]domain.BlockedApp
	grants  map[string]time.Time // app -> grant expiry
}

func NewActuator(procs domain.ProcessManager, store blockStore, selfApp string, logger *zap.Logger) *Actuator {
	return &Actuator{
		procs:   procs,
		store:   store,
		logger:  logger,
		selfApp: selfApp,
		blocked: make(map[string]domain.BlockedApp),
		grants:  make(map[string]time.Time),
	}
}

// Block validates the app name, records durable intent, registers the app,
// and terminates its running processes. Durable intent is written before
// any termination so a crash mid-block leaves a recoverable state.
func (a *Actuator) Block(appName string, reason domain.BlockReason) error {
	if err := ValidateAppName(appName); err != nil {
		return err
	}
	if appName == a.selfApp {
		return &domain.ValidationError{Name: appName, Reason: "refusing to block the tracking daemon"}
	}

	if reason == domain.BlockReasonLimit {
		if err := a.store.MarkBlocked(appName, true); err != nil {
			return err
		}
	}

	a.mu.Lock()
	if _, ok := a.blocked[appName]; !ok {
		a.blocked[appName] = domain.BlockedApp{
			AppName:   appName,
			Reason:    reason,
			BlockedAt: time.Now(),
		}
	}
	a.mu.Unlock()

	a.logger.Info("app blocked",
		zap.String("app", appName), zap.String("reason", string(reason)))
	return a.terminate(appName)
}

// Unblock drops the app from the registry and clears durable intent.
func (a *Actuator) Unblock(appName string) error {
	a.mu.Lock()
	delete(a.blocked, appName)
	delete(a.grants, appName)
	a.mu.Unlock()

	if err := a.store.MarkBlocked(appName, false); err != nil {
		return err
	}
	a.logger.Info("app unblocked", zap.String("app", appName))
	return nil
}

// UnblockByReason drops every registry entry with the given reason. Used
// when a focus session ends: focus blocks go, limit blocks stay.
func (a *Actuator) UnblockByReason(reason domain.BlockReason) {
	a.mu.Lock()
	for name, b := range a.blocked {
		if b.Reason == reason {
			delete(a.blocked, name)
		}
	}
	a.mu.Unlock()
}

// Blocked returns a snapshot of the registry.
func (a *Actuator) Blocked() []domain.BlockedApp {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.BlockedApp, 0, len(a.blocked))
	for _, b := range a.blocked {
		out = append(out, b)
	}
	return out
}

// IsRegistered reports whether app is in the registry at all, active
// grant or not. Evaluators use this to avoid re-filing a block that an
// emergency grant is currently suspending.
func (a *Actuator) IsRegistered(appName string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.blocked[appName]
	return ok
}

// IsBlocked reports whether app is in the registry with no active grant.
func (a *Actuator) IsBlocked(appName string, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.blocked[appName]; !ok {
		return false
	}
	return now.After(a.grants[appName])
}

// GrantEmergency suspends enforcement for a blocked app until now+grant.
// The block itself remains; when the grant lapses the next enforcement
// tick re-terminates.
func (a *Actuator) GrantEmergency(appName string, grant time.Duration, now time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.blocked[appName]; !ok {
		return &domain.NotFoundError{Kind: "blocked app", Name: appName}
	}
	a.grants[appName] = now.Add(grant)
	a.logger.Info("emergency access granted",
		zap.String("app", appName), zap.Duration("grant", grant))
	return nil
}

// GrantExpiry returns the grant expiry for app and whether one exists.
func (a *Actuator) GrantExpiry(appName string) (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	exp, ok := a.grants[appName]
	return exp, ok
}

// EnforceTick re-terminates processes of every blocked app whose grant, if
// any, has lapsed. Lapsed grants are dropped.
func (a *Actuator) EnforceTick(now time.Time) {
	a.mu.Lock()
	targets := make([]string, 0, len(a.blocked))
	for name := range a.blocked {
		exp, granted := a.grants[name]
		if granted && now.Before(exp) {
			continue
		}
		if granted {
			delete(a.grants, name)
			a.logger.Info("emergency access expired", zap.String("app", name))
		}
		targets = append(targets, name)
	}
	a.mu.Unlock()

	for _, name := range targets {
		if err := a.terminate(name); err != nil {
			a.logger.Warn("enforcement failed", zap.String("app", name), zap.Error(err))
		}
	}
}

// Rebuild restores the registry after a restart: durable intent is kept
// only for limits still exceeded today, stale intent is cleared.
func (a *Actuator) Rebuild() error {
	names, err := a.store.BlockedAppNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	statuses, err := a.store.AllLimitStatus()
	if err != nil {
		return err
	}
	exceeded := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		if st.BlockWhenExceeded && st.UsedSeconds >= int64(st.DailyLimitMinutes)*60 {
			exceeded[st.AppName] = true
		}
	}

	for _, name := range names {
		if exceeded[name] {
			a.mu.Lock()
			a.blocked[name] = domain.BlockedApp{
				AppName:   name,
				Reason:    domain.BlockReasonLimit,
				BlockedAt: time.Now(),
			}
			a.mu.Unlock()
			continue
		}
		// Intent outlived its cause, likely a day rollover while down.
		if err := a.store.MarkBlocked(name, false); err != nil {
			a.logger.Warn("clearing stale block intent failed",
				zap.String("app", name), zap.Error(err))
		}
	}

	a.logger.Info("block registry rebuilt",
		zap.Int("durable_intents", len(names)), zap.Int("restored", len(a.blocked)))
	return nil
}

// ResetDay clears limit blocks and their durable intent at day rollover.
func (a *Actuator) ResetDay() {
	a.mu.Lock()
	var cleared []string
	for name, b := range a.blocked {
		if b.Reason == domain.BlockReasonLimit {
			delete(a.blocked, name)
			delete(a.grants, name)
			cleared = append(cleared, name)
		}
	}
	a.mu.Unlock()

	for _, name := range cleared {
		if err := a.store.MarkBlocked(name, false); err != nil {
			a.logger.Warn("clearing block intent failed",
				zap.String("app", name), zap.Error(err))
		}
	}
	if len(cleared) > 0 {
		a.logger.Info("daily limit blocks reset", zap.Strings("apps", cleared))
	}
}

func (a *Actuator) terminate(appName string) error {
	pids, err := a.procs.FindByExactName(appName)
	if err != nil {
		return &domain.ProcessError{AppName: appName, Err: err}
	}
	if len(pids) == 0 {
		return nil
	}

	self := a.procs.GetCurrentPID()
	for _, pid := range pids {
		if pid == self {
			continue
		}
		if err := a.procs.Terminate(pid); err != nil {
			a.logger.Warn("terminate failed",
				zap.String("app", appName), zap.Int("pid", pid), zap.Error(err))
			continue
		}
		a.logger.Info("process terminated",
			zap.String("app", appName), zap.Int("pid", pid))
	}
	return nil
}
