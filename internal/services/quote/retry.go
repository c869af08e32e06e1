package quote

import (
	"context"
	"time"
)

// RetryConfig defines simple retry behavior for provider calls.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 2,
		Delay:       500 * time.Millisecond,
	}
}

// RetryWithBackoff executes fn with fixed-delay retries. Config and
// validation failures are not retried.
func RetryWithBackoff(ctx context.Context, config *RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if qErr, ok := err.(*QuoteError); ok {
			if qErr.Type == ErrTypeConfig || qErr.Type == ErrTypeValidation {
				return err
			}
		}

		if attempt < config.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(config.Delay):
			}
		}
	}

	return lastErr
}
