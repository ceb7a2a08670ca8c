// Package retry provides the bounded constant-backoff primitive shared by
// provider adapters that lack a push-style readiness signal.
//
// Some wallet provider integrations initialize their login adapters
// asynchronously with no completion event, so a poll-with-timeout is the only
// robust synchronization primitive available. Centralizing the policy here
// keeps timers out of the workflow code.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Bounded runs op until it succeeds or (attempts-1) retries have been spent,
// sleeping delay between attempts. Context cancellation aborts the wait.
func Bounded(ctx context.Context, attempts int, delay time.Duration, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(attempts-1)),
		ctx,
	)
	return backoff.Retry(op, policy)
}

// Permanent marks err so Bounded stops retrying immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
