package llm

import (
	"context"
	"math/rand"
	"time"
)

// Policy is the single retry policy shared by every advisory call: bounded
// attempts with exponential backoff and jitter.
type Policy struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultPolicy returns the baseline advisory retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseBackoff: 200 * time.Millisecond,
		MaxBackoff:  2 * time.Second,
	}
}

// Do runs fn under the policy. Non-retryable errors and context cancellation
// end the loop immediately; otherwise the last error is returned after the
// final attempt.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoffFor(policy, attempt)); err != nil {
				return err
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// backoffFor computes the delay before the given attempt (1-based for the
// first retry): base·2^(n-1), half-to-full jittered, capped at MaxBackoff.
func backoffFor(policy Policy, attempt int) time.Duration {
	backoff := policy.BaseBackoff << (attempt - 1)
	if policy.MaxBackoff > 0 && backoff > policy.MaxBackoff {
		backoff = policy.MaxBackoff
	}
	if backoff <= 0 {
		return 0
	}
	half := backoff / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

func sleep(ctx context.Context, d time.Duration) error {
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
