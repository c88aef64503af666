// Package testutil holds helpers shared by tests that wait on background
// work, such as store watchers and cleanup schedulers.
package testutil

import (
	"context"
	"fmt"
	"time"
)

// DefaultTimeout bounds every wait that does not pick its own.
const DefaultTimeout = 5 * time.Second

// Poll calls condition every interval until it returns true, ctx is done,
// or timeout elapses.
func Poll(ctx context.Context, condition func() bool, timeout, interval time.Duration) error {
	_, err := WaitForState(ctx, condition, func(ok bool) bool { return ok }, timeout, interval)
	return err
}

// WaitForState calls getter every interval until predicate accepts its
// result, and returns that result. On timeout or cancellation it returns
// the last value seen along with the error.
func WaitForState[T any](ctx context.Context, getter func() T, predicate func(T) bool, timeout, interval time.Duration) (T, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		state := getter()
		if predicate(state) {
			return state, nil
		}
		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-deadline.C:
			return state, fmt.Errorf("timed out after %v waiting for state; last %T: %+v", timeout, state, state)
		case <-tick.C:
		}
	}
}
