// Package usecase wires policy decisions to infrastructure: sampling the
// foreground app into the store, enforcing blocks against processes, and
// exposing the typed command surface the CLI calls.
package usecase

import (
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
	"github.com/eliteGoblin/wellbeingd/internal/normalize"
)

// sessionStore is the slice of the usage store the sampler writes through.
type sessionStore interface {
	StartSession(appName string, start int64) (int64, error)
	UpdateSessionProgress(sessionID int64, end int64) error
	CloseSession(sessionID int64, end int64) error
}

// Sampler polls the foreground app and maintains the single open session.
// Durations come from the monotonic clock so wall-clock jumps (NTP, DST)
// never inflate or negate a session.
type Sampler struct {
	windows domain.WindowQuerier
	store   sessionStore
	logger  *zap.Logger
	selfApp string

	currentApp string
	sessionID  int64
	startWall  int64
	startMono  time.Time
}

func NewSampler(windows domain.WindowQuerier, store sessionStore, selfApp string, logger *zap.Logger) *Sampler {
	return &Sampler{
		windows: windows,
		store:   store,
		logger:  logger,
		selfApp: selfApp,
	}
}

// CurrentApp returns the canonical name of the app being tracked, or ""
// when no session is open.
func (s *Sampler) CurrentApp() string {
	return s.currentApp
}

// Tick samples once. A changed foreground app closes the open session and
// starts a new one; an indeterminate foreground (locked screen, desktop)
// closes without starting. Errors are logged and the tick skipped; the
// next tick retries.
func (s *Sampler) Tick() {
	raw, err := s.windows.ActiveWindow()
	if err != nil {
		s.logger.Warn("active window query failed", zap.Error(err))
		return
	}

	app := ""
	if raw != "" {
		app = normalize.Canonical(raw)
	}
	if app == s.selfApp {
		app = ""
	}

	if app == s.currentApp {
		if s.sessionID != 0 {
			if err := s.store.UpdateSessionProgress(s.sessionID, s.sessionEnd()); err != nil {
				s.logger.Warn("session progress update failed",
					zap.String("app", s.currentApp), zap.Error(err))
			}
		}
		return
	}

	s.closeCurrent()

	if app == "" {
		return
	}

	now := time.Now()
	id, err := s.store.StartSession(app, now.Unix())
	if err != nil {
		s.logger.Warn("session start failed", zap.String("app", app), zap.Error(err))
		return
	}

	s.currentApp = app
	s.sessionID = id
	s.startWall = now.Unix()
	s.startMono = now

	s.logger.Debug("foreground app changed", zap.String("app", app))
}

// Close ends the open session, if any. Called on shutdown so the last
// stretch of usage is not lost.
func (s *Sampler) Close() {
	s.closeCurrent()
}

func (s *Sampler) closeCurrent() {
	if s.sessionID == 0 {
		s.currentApp = ""
		return
	}
	if err := s.store.CloseSession(s.sessionID, s.sessionEnd()); err != nil {
		s.logger.Warn("session close failed",
			zap.String("app", s.currentApp), zap.Error(err))
	}
	s.currentApp = ""
	s.sessionID = 0
}

// sessionEnd derives the end timestamp from monotonic elapsed time anchored
// at the session's wall-clock start.
func (s *Sampler) sessionEnd() int64 {
	return s.startWall + int64(time.Since(s.startMono).Seconds())
}
