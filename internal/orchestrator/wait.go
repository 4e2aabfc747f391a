package orchestrator

import (
	"context"
	"fmt"
	"time"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
)

// Condition reports whether the awaited remote state has been reached.
// A non-nil error aborts the wait.
type Condition func(ctx context.Context) (bool, error)

// WaitFor polls cond every interval until it holds, it fails, the context ends
// or timeout elapses. A timeout is reported as ConvergenceTimeout.
func WaitFor(ctx context.Context, what string, interval, timeout time.Duration, cond Condition) error {
	done, err := cond(ctx)
	if err != nil || done {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	deadline := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return appErrors.ErrConvergenceTimeout(
				fmt.Sprintf("timed out after %s waiting for %s", timeout, what), nil)
		case <-ticker.C:
			done, err = cond(ctx)
			if err != nil || done {
				return err
			}
		}
	}
}

// Sleeper blocks for d or until ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
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
