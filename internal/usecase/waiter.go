package usecase

import (
	"context"
	"time"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// TimerWaiter implements domain.Waiter with a cancellable timer.
type TimerWaiter struct{}

// Wait returns nil after d, or ctx.Err() if ctx is done first.
func (TimerWaiter) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ domain.Waiter = TimerWaiter{}
