// Package wait polls a condition a bounded number of times, it replaces
// the "loop until the element shows up" pattern so that a page that never
// loads cannot keep a caller busy forever.
package wait

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrNotReady is returned by a condition to signal that it should be polled
// again, it is also what Until returns once every attempt has been used up.
var ErrNotReady = errors.New("not ready")

type Options struct {
	// Attempts is the total number of times the condition is evaluated.
	Attempts int
	Interval time.Duration
}

// Until evaluates cond until it returns a nil error, a non-ErrNotReady error,
// the attempts run out or ctx is done.
func Until[T any](ctx context.Context, opts Options, cond func(context.Context) (T, error)) (T, error) {
	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(opts.Interval),
			uint64(attempts-1),
		),
		ctx,
	)

	return backoff.RetryWithData(func() (T, error) {
		value, err := cond(ctx)
		if err != nil && !errors.Is(err, ErrNotReady) {
			return value, backoff.Permanent(err)
		}
		return value, err
	}, policy)
}
