package retry

import (
	"context"
	"time"
)

type Operation func() error
type IsRetryableError func(error) bool

type RetryConfig struct {
	MaxRetries    int
	Delays        []time.Duration
	IsRetryableFn IsRetryableError
}

// Do выполняет op не более MaxRetries+1 раз.
// Паузы берутся из Delays; если попыток больше, чем пауз, повторяется последняя.
func Do(ctx context.Context, cfg RetryConfig, op Operation) error {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	if cfg.Delays == nil {
		cfg.Delays = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}
	}

	if cfg.IsRetryableFn == nil {
		cfg.IsRetryableFn = func(error) bool { return false }
	}

	totalAttempts := cfg.MaxRetries + 1

	var lastErr error

	for i := 0; i < totalAttempts; i++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := op()
		if err == nil {
			return nil
		}

		if !cfg.IsRetryableFn(err) {
			return err
		}

		lastErr = err

		if i == totalAttempts-1 {
			break
		}

		select {
		case <-time.After(delayFor(cfg.Delays, i)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

func delayFor(delays []time.Duration, attempt int) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	if attempt < len(delays) {
		return delays[attempt]
	}
	return delays[len(delays)-1]
}

// ExponentialDelays строит список пауз base, 2*base, 4*base...
func ExponentialDelays(base time.Duration, n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		delays = append(delays, base<<i)
	}
	return delays
}

// Always считает любую ошибку временной.
func Always(error) bool { return true }
