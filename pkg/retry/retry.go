package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls the backoff schedule.
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig caps the whole retry loop at one minute.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// Do runs fn with exponential backoff until it succeeds, the attempt
// budget is spent, or ctx is cancelled.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return DoWithLog(ctx, cfg, "retry", fn, nil)
}

// DoWithLog is Do with a per-attempt callback. logFn receives the attempt
// number, the error it produced, and the delay before the next attempt;
// pass nil to skip logging. serviceName prefixes returned errors.
func DoWithLog(ctx context.Context, cfg Config, serviceName string, fn func() error, logFn func(attempt int, err error, nextDelay time.Duration)) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return abortErr(serviceName, attempt-1, err, lastErr)
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		if logFn != nil {
			logFn(attempt, lastErr, delay)
		}

		select {
		case <-ctx.Done():
			return abortErr(serviceName, attempt, ctx.Err(), lastErr)
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("%s: max retry attempts (%d) exceeded: %w", serviceName, cfg.MaxAttempts, lastErr)
}

func abortErr(serviceName string, attempts int, ctxErr, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("%s: retry aborted after %d attempts: %w (last error: %v)", serviceName, attempts, ctxErr, lastErr)
	}
	return fmt.Errorf("%s: retry aborted: %w", serviceName, ctxErr)
}
