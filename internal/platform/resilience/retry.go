package resilience

import (
	"context"
	"time"
)

// RetryPolicy retries with a linear delay: BaseDelay before the second attempt,
// 2×BaseDelay before the third, and so on. No jitter is applied.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Sleep waits for d or until ctx is done. Defaults to SleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Delay is the wait before retry number n (1-based).
func (p RetryPolicy) Delay(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	return p.BaseDelay * time.Duration(n)
}

// Do calls fn until it succeeds, returns a non-retryable error, or MaxAttempts is reached.
// onRetry is called before each wait. The last error is returned.
func (p RetryPolicy) Do(
	ctx context.Context,
	fn func(ctx context.Context, attempt int) error,
	retryable func(error) bool,
	onRetry func(attempt int, delay time.Duration, err error),
) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if attempt == maxAttempts || retryable == nil || !retryable(err) {
			return err
		}

		delay := p.Delay(attempt)
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}

func SleepContext(ctx context.Context, d time.Duration) error {
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
