package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// Coordinator runs capture, restore and delete one at a time. The
// in-process semaphore covers the daemon's timer and user actions; the
// optional OperationLock extends that across processes.
type Coordinator struct {
	sem        chan struct{}
	lock       domain.OperationLock
	capture    *CaptureService
	restore    *RestoreEngine
	workspaces *Workspaces
	history    domain.RestoreHistory
	notifier   domain.Notifier
	logger     *zap.Logger
}

// CoordinatorDeps are the collaborators of a Coordinator. Lock, History and
// Notifier may be nil; so may Capture and Restore when only Delete is used.
type CoordinatorDeps struct {
	Capture    *CaptureService
	Restore    *RestoreEngine
	Workspaces *Workspaces
	Lock       domain.OperationLock
	History    domain.RestoreHistory
	Notifier   domain.Notifier
}

// NewCoordinator creates a coordinator.
func NewCoordinator(deps CoordinatorDeps, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		sem:        make(chan struct{}, 1),
		lock:       deps.Lock,
		capture:    deps.Capture,
		restore:    deps.Restore,
		workspaces: deps.Workspaces,
		history:    deps.History,
		notifier:   deps.Notifier,
		logger:     logger,
	}
}

func (c *Coordinator) acquire(ctx context.Context) (func(), error) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if c.lock == nil {
		return func() { <-c.sem }, nil
	}
	release, err := c.lock.Acquire(ctx)
	if err != nil {
		<-c.sem
		return nil, fmt.Errorf("another capture or restore is in progress: %w", err)
	}
	return func() {
		release()
		<-c.sem
	}, nil
}

func (c *Coordinator) notify(title, message string) {
	if c.notifier != nil {
		c.notifier.Notify(title, message)
	}
}

// Capture takes and saves a snapshot.
func (c *Coordinator) Capture(ctx context.Context) (*domain.Snapshot, error) {
	release, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	snap, err := c.capture.CaptureNow(ctx)
	if err != nil {
		c.notify("Error", fmt.Sprintf("Failed to save workspace: %v", err))
		return nil, err
	}
	c.notify("Workspace Saved", fmt.Sprintf("Saved %d windows to %s", snap.WindowCount, snap.Name))
	return snap, nil
}

// Restore restores the named snapshot. The error is non-nil only when the
// snapshot is unknown or the operation could not start; per-window
// failures are in the report.
func (c *Coordinator) Restore(ctx context.Context, name string) (domain.RestoreReport, error) {
	snap, err := c.workspaces.Get(name)
	if err != nil {
		return domain.RestoreReport{}, err
	}

	release, err := c.acquire(ctx)
	if err != nil {
		return domain.RestoreReport{}, err
	}
	defer release()

	c.notify("Restoring Workspace", fmt.Sprintf("Restoring %d windows...", len(snap.Windows)))
	report := c.restore.Restore(ctx, snap)
	if ctx.Err() != nil {
		counts := report.Counts()
		c.notify("Restore Interrupted", fmt.Sprintf("Stopped restoring workspace %s: %d of %d windows not processed",
			name, counts[domain.OutcomeCancelled], len(report.Entries)))
	} else {
		c.notify("Workspace Restored", fmt.Sprintf("Finished restoring workspace: %s", name))
	}

	if c.history != nil {
		if err := c.history.Record(report); err != nil {
			c.logger.Warn("failed to record restore history",
				zap.String("snapshot", name),
				zap.Error(err))
		}
	}
	return report, nil
}

// Delete removes the named snapshot from disk and the index.
func (c *Coordinator) Delete(ctx context.Context, name string) error {
	release, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := c.workspaces.Delete(name); err != nil {
		c.notify("Error", fmt.Sprintf("Failed to delete workspace: %s", name))
		return err
	}
	c.notify("Workspace Deleted", fmt.Sprintf("Deleted workspace: %s", name))
	return nil
}
