package laads

import (
	"context"
	"errors"
	"testing"
	"time"

	"ladsync/internal/services"
)

func TestRetryStopsAtBudget(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 5, 0, func(context.Context) error {
		attempts++
		return services.Wrap(services.ErrTransient, "laads", "op", "", nil)
	})
	if attempts != 6 {
		t.Fatalf("expected 6 total attempts with budget 5, got %d", attempts)
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient classification to survive, got %v", err)
	}
}

func TestRetryDoesNotRetryNotFound(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 5, 0, func(context.Context) error {
		attempts++
		return services.Wrap(services.ErrNotFound, "laads", "op", "", nil)
	})
	if attempts != 1 {
		t.Fatalf("not-found must not consume the retry budget, got %d attempts", attempts)
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRetryDoesNotRetryAuthFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 5, 0, func(context.Context) error {
		attempts++
		return services.Wrap(services.ErrAuth, "laads", "op", "", nil)
	})
	if attempts != 1 {
		t.Fatalf("auth failures must propagate immediately, got %d attempts", attempts)
	}
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRetrySucceedsMidway(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 5, 0, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return services.Wrap(services.ErrTransient, "laads", "op", "", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestSleepWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SleepWithContext(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
