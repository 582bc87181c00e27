// Package daemon implements the auto-save daemon.
package daemon

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// Capturer takes and saves one snapshot.
type Capturer interface {
	Capture(ctx context.Context) (*domain.Snapshot, error)
}

// SettingsSource exposes the persisted settings.
type SettingsSource interface {
	Load() error
	Current() domain.Settings
}

// AutoSaver captures the desktop every save_interval while auto-save is
// enabled. Settings are re-read whenever the changes channel fires.
type AutoSaver struct {
	capturer Capturer
	settings SettingsSource
	changes  <-chan struct{}
	unit     time.Duration // Length of one save_interval unit
	registry domain.DaemonRegistry
	version  string
	logger   *zap.Logger
}

// NewAutoSaver creates an auto-saver. changes may be nil.
func NewAutoSaver(capturer Capturer, settings SettingsSource, changes <-chan struct{}, logger *zap.Logger) *AutoSaver {
	return &AutoSaver{
		capturer: capturer,
		settings: settings,
		changes:  changes,
		unit:     time.Second,
		logger:   logger,
	}
}

// WithTimeUnit scales save_interval (for testing).
func (a *AutoSaver) WithTimeUnit(unit time.Duration) *AutoSaver {
	a.unit = unit
	return a
}

// WithRegistry publishes the daemon's status and heartbeats to r.
func (a *AutoSaver) WithRegistry(r domain.DaemonRegistry, version string) *AutoSaver {
	a.registry = r
	a.version = version
	return a
}

func (a *AutoSaver) interval(s domain.Settings) time.Duration {
	return time.Duration(domain.ClampInterval(s.SaveInterval)) * a.unit
}

// Run blocks until ctx is cancelled.
func (a *AutoSaver) Run(ctx context.Context) error {
	current := a.settings.Current()
	interval := a.interval(current)

	a.logger.Info("auto-save daemon started",
		zap.Bool("enabled", current.AutoSaveEnabled),
		zap.Int("interval_seconds", current.SaveInterval))

	if a.registry != nil {
		if err := a.registry.Register(domain.DaemonStatus{
			PID:       os.Getpid(),
			Version:   a.version,
			StartedAt: time.Now(),
		}); err != nil {
			a.logger.Warn("failed to register auto-save daemon", zap.Error(err))
		}
		defer func() {
			if err := a.registry.Clear(); err != nil {
				a.logger.Warn("failed to clear auto-save registry", zap.Error(err))
			}
		}()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("auto-save daemon stopping")
			return ctx.Err()

		case <-ticker.C:
			a.tick(ctx)

		case <-a.changes:
			if err := a.settings.Load(); err != nil {
				a.logger.Warn("failed to reload settings", zap.Error(err))
				continue
			}
			next := a.settings.Current()
			if d := a.interval(next); d != interval {
				interval = d
				ticker.Reset(interval)
			}
			a.logger.Info("settings reloaded",
				zap.Bool("enabled", next.AutoSaveEnabled),
				zap.Int("interval_seconds", next.SaveInterval))
		}
	}
}

func (a *AutoSaver) tick(ctx context.Context) {
	if !a.settings.Current().AutoSaveEnabled {
		a.logger.Debug("auto-save disabled, skipping")
		return
	}

	snap, err := a.capturer.Capture(ctx)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Error("auto-save failed", zap.Error(err))
		}
		return
	}
	a.logger.Debug("auto-save completed",
		zap.String("name", snap.Name),
		zap.Int("windows", snap.WindowCount))

	if a.registry != nil {
		if err := a.registry.Heartbeat(snap.Name, time.Now()); err != nil {
			a.logger.Warn("failed to record heartbeat", zap.Error(err))
		}
	}
}
