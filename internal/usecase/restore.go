package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// RestoreConfig holds restore timing.
type RestoreConfig struct {
	SettleDelay time.Duration // Wait after launching a process before looking for its window
	RetryDelay  time.Duration // Wait between window match attempts
	MaxAttempts int           // Window match attempts per record
}

// DefaultRestoreConfig returns default restore timing.
func DefaultRestoreConfig() RestoreConfig {
	return RestoreConfig{
		SettleDelay: 2 * time.Second,
		RetryDelay:  1 * time.Second,
		MaxAttempts: 5,
	}
}

// RestoreEngine relaunches missing processes and repositions their windows.
type RestoreEngine struct {
	config    RestoreConfig
	desktop   domain.Desktop
	processes domain.ProcessManager
	launcher  domain.Launcher
	waiter    domain.Waiter
	logger    *zap.Logger
}

// NewRestoreEngine creates a restore engine.
func NewRestoreEngine(
	config RestoreConfig,
	desktop domain.Desktop,
	pm domain.ProcessManager,
	launcher domain.Launcher,
	waiter domain.Waiter,
	logger *zap.Logger,
) *RestoreEngine {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultRestoreConfig().MaxAttempts
	}
	if waiter == nil {
		waiter = TimerWaiter{}
	}
	return &RestoreEngine{
		config:    config,
		desktop:   desktop,
		processes: pm,
		launcher:  launcher,
		waiter:    waiter,
		logger:    logger,
	}
}

// Restore processes every record in order and always returns a report with
// one entry per record. Cancelling ctx marks the current and remaining
// records cancelled; finished entries keep their outcome.
func (e *RestoreEngine) Restore(ctx context.Context, snap domain.Snapshot) domain.RestoreReport {
	report := domain.RestoreReport{
		Snapshot:  snap.Name,
		StartedAt: time.Now(),
		Entries:   make([]domain.RestoreEntry, len(snap.Windows)),
	}

	for i, rec := range snap.Windows {
		if err := ctx.Err(); err != nil {
			report.Entries[i] = cancelledEntry(rec, err)
			continue
		}
		report.Entries[i] = e.restoreOne(ctx, rec)
	}

	report.FinishedAt = time.Now()
	counts := report.Counts()
	e.logger.Info("restore finished",
		zap.String("snapshot", snap.Name),
		zap.Int("windows", len(snap.Windows)),
		zap.Int("restored", counts[domain.OutcomeRestored]),
		zap.Int("launch_failed", counts[domain.OutcomeProcessLaunchFailed]),
		zap.Int("not_found", counts[domain.OutcomeWindowNotFound]),
		zap.Int("cancelled", counts[domain.OutcomeCancelled]))
	return report
}

// RestoreAsync runs Restore in a goroutine and delivers the report once.
func (e *RestoreEngine) RestoreAsync(ctx context.Context, snap domain.Snapshot) <-chan domain.RestoreReport {
	ch := make(chan domain.RestoreReport, 1)
	go func() {
		defer close(ch)
		ch <- e.Restore(ctx, snap)
	}()
	return ch
}

func cancelledEntry(rec domain.WindowRecord, err error) domain.RestoreEntry {
	return domain.RestoreEntry{
		Title:       rec.Title,
		ProcessName: rec.ProcessName,
		Outcome:     domain.OutcomeCancelled,
		Error:       err.Error(),
	}
}

func (e *RestoreEngine) restoreOne(ctx context.Context, rec domain.WindowRecord) domain.RestoreEntry {
	entry := domain.RestoreEntry{
		Title:       rec.Title,
		ProcessName: rec.ProcessName,
	}

	running, err := e.processes.IsNameRunning(rec.ProcessName)
	if err != nil {
		e.logger.Debug("process listing failed, assuming not running",
			zap.String("process", rec.ProcessName),
			zap.Error(err))
	}

	if !running {
		pid, err := e.launcher.Launch(rec.ExecutablePath)
		if err != nil {
			e.logger.Warn("failed to start process",
				zap.String("process", rec.ProcessName),
				zap.String("exe", rec.ExecutablePath),
				zap.Error(err))
			entry.Outcome = domain.OutcomeProcessLaunchFailed
			entry.Error = err.Error()
			return entry
		}
		e.logger.Info("started process",
			zap.String("process", rec.ProcessName),
			zap.Int("pid", pid))
		entry.Launched = true

		if err := e.waiter.Wait(ctx, e.config.SettleDelay); err != nil {
			cancelled := cancelledEntry(rec, err)
			cancelled.Launched = true
			return cancelled
		}
	}

	var applyErr error
	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		entry.Attempts = attempt

		h, found := e.findWindow(rec)
		if found {
			err := e.desktop.SetPlacement(h, rec.Placement)
			if err == nil {
				e.logger.Info("restored window",
					zap.String("title", rec.Title),
					zap.Int("attempt", attempt))
				entry.Outcome = domain.OutcomeRestored
				return entry
			}
			applyErr = err
			e.logger.Warn("failed to set window placement",
				zap.String("title", rec.Title),
				zap.Error(err))
		}

		if attempt == e.config.MaxAttempts {
			break
		}
		if err := e.waiter.Wait(ctx, e.config.RetryDelay); err != nil {
			cancelled := cancelledEntry(rec, err)
			cancelled.Attempts = attempt
			cancelled.Launched = entry.Launched
			return cancelled
		}
	}

	if applyErr != nil {
		entry.Outcome = domain.OutcomePlacementFailed
		entry.Error = applyErr.Error()
		return entry
	}
	e.logger.Warn("window not found",
		zap.String("title", rec.Title),
		zap.Int("attempts", entry.Attempts))
	entry.Outcome = domain.OutcomeWindowNotFound
	return entry
}

// findWindow returns the window titled exactly rec.Title. Among duplicate
// titles, one owned by rec.ProcessName wins; otherwise the first in
// enumeration order.
func (e *RestoreEngine) findWindow(rec domain.WindowRecord) (domain.WindowHandle, bool) {
	windows, err := e.desktop.VisibleWindows()
	if err != nil {
		e.logger.Debug("window enumeration failed", zap.Error(err))
		return 0, false
	}

	var matches []domain.WindowHandle
	for _, w := range windows {
		if w.Title == rec.Title {
			matches = append(matches, w.Handle)
		}
	}

	switch len(matches) {
	case 0:
		return 0, false
	case 1:
		return matches[0], true
	}

	for _, h := range matches {
		pid, err := e.desktop.WindowPID(h)
		if err != nil {
			continue
		}
		if name, err := e.processes.NameOf(pid); err == nil && name == rec.ProcessName {
			return h, true
		}
	}
	return matches[0], true
}
