package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// CaptureService produces and persists snapshots of the current desktop.
type CaptureService struct {
	enumerator *WindowEnumerator
	workspaces *Workspaces
	exclusions ExclusionSource
	now        func() time.Time
	logger     *zap.Logger
}

// NewCaptureService creates a capture service using the wall clock.
func NewCaptureService(
	enumerator *WindowEnumerator,
	workspaces *Workspaces,
	exclusions ExclusionSource,
	logger *zap.Logger,
) *CaptureService {
	return &CaptureService{
		enumerator: enumerator,
		workspaces: workspaces,
		exclusions: exclusions,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock overrides the capture clock (for testing).
func (c *CaptureService) WithClock(now func() time.Time) *CaptureService {
	c.now = now
	return c
}

// CaptureNow enumerates windows and saves them as a new snapshot. Names are
// unique: a second capture within the same clock second gets a _2 suffix.
func (c *CaptureService) CaptureNow(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	at := c.now()
	exclusions := c.exclusions.Exclusions()

	records, err := c.enumerator.Enumerate(exclusions)
	if err != nil {
		return nil, err
	}

	name := c.workspaces.Reserve(domain.SnapshotName(at))
	snap := domain.NewSnapshot(name, at, records)

	if err := c.workspaces.Save(snap); err != nil {
		return nil, fmt.Errorf("save snapshot %s: %w", name, err)
	}

	c.logger.Info("snapshot saved",
		zap.String("name", snap.Name),
		zap.Int("windows", snap.WindowCount),
		zap.Int("excluded_names", exclusions.Len()))
	return &snap, nil
}
