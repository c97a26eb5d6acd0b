package resilience

import (
	"context"
	"math"
	"time"
)

// MaxBackoff is the wait Backoff saturates at once base * 2^attempt no longer fits a Duration
const MaxBackoff = time.Duration(math.MaxInt64)

// RetryOptions configures Retry
type RetryOptions struct {
	// MaxRetries is the number of attempts after the first one; zero means a single attempt
	MaxRetries int
	// Delay is the base backoff; attempt i waits Delay * 2^i
	Delay time.Duration
	// Sleep waits between attempts; defaults to a context-aware timer
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry is called before each wait
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultRetryOptions returns 3 retries with a 1s base delay
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{MaxRetries: 3, Delay: time.Second}
}

// Backoff returns the wait before the retry following attempt (zero based)
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 62 || base > MaxBackoff>>uint(attempt) {
		return MaxBackoff
	}
	return base << uint(attempt)
}

// Retry runs op until it succeeds or the retry budget is spent.
// The last error is returned unchanged; cancelling ctx during a wait returns ctx.Err().
func Retry[T any](ctx context.Context, op func(context.Context) (T, error), opts RetryOptions) (T, error) {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}

		delay := Backoff(opts.Delay, attempt)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt+1, delay, err)
		}
		if err := sleep(ctx, delay); err != nil {
			var zero T
			return zero, err
		}
	}

	var zero T
	return zero, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
