package laads

import (
	"context"
	"errors"
	"time"

	"ladsync/internal/services"
)

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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

// IsRetriable reports whether err warrants another attempt. Expected remote
// absence and fatal classifications never do; everything else is assumed to
// be a transient network or server condition.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, services.ErrNotFound) || services.IsFatal(err) {
		return false
	}
	return true
}

// Retry runs op and, while it fails retriably, reruns it up to budget more
// times with delay between attempts. A retry budget of 5 therefore allows at
// most 6 total attempts. The last error is returned unchanged so its
// classification survives.
func Retry(ctx context.Context, budget int, delay time.Duration, op func(context.Context) error) error {
	err := op(ctx)
	for attempt := 1; attempt <= budget && IsRetriable(err); attempt++ {
		if sleepErr := SleepWithContext(ctx, delay); sleepErr != nil {
			return sleepErr
		}
		err = op(ctx)
	}
	return err
}
