// Package retry wraps a single fallible operation in a bounded retry loop
// with a fixed delay between attempts.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a bounded retry with fixed delay.
type Policy struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int

	// Delay is the pause between two attempts.
	Delay time.Duration
}

// Notify is called after a failed attempt that will be retried.
type Notify func(attempt int, err error, next time.Duration)

// Permanent wraps err so Do stops retrying and returns it unchanged.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a permanent error, the context is
// done, or the attempts are exhausted. It returns the number of attempts made
// and the last error.
func (p Policy) Do(ctx context.Context, op func(attempt int) error, notify Notify) (int, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)),
		ctx,
	)

	n := 0
	err := backoff.RetryNotify(func() error {
		n++
		return op(n)
	}, b, func(err error, next time.Duration) {
		if notify != nil {
			notify(n, err, next)
		}
	})

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	return n, err
}
