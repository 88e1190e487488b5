package utils

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"
)

// RetryConfig controls WithRetry. An error is retried only when its message
// contains one of RetryableErrors, compared case-insensitively.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	Timeout         time.Duration // per attempt
	RetryableErrors []string
}

type RetryableFunc[T any] func(ctx context.Context) (T, error)

// DefaultRetryConfig retries transient network failures a few times.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2,
		Timeout:       30 * time.Second,
		RetryableErrors: []string{
			"timeout",
			"connection reset",
			"connection refused",
			"broken pipe",
			"eof",
		},
	}
}

// StartupRetryConfig waits longer, for Postgres and Redis still coming up
// next to the service.
func StartupRetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = 8
	cfg.InitialDelay = 500 * time.Millisecond
	cfg.MaxDelay = 8 * time.Second
	cfg.Timeout = 10 * time.Second
	cfg.RetryableErrors = append(cfg.RetryableErrors,
		"no such host",
		"the database system is starting up",
		"loading the dataset in memory",
	)
	return cfg
}

func IsRetryableError(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// backoff is the wait after the given failed attempt (1-based), capped at
// MaxDelay, plus up to 10% jitter.
func (c RetryConfig) backoff(attempt int) time.Duration {
	d := time.Duration(float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1)))
	d = min(d, c.MaxDelay)
	if j := int64(d) / 10; j > 0 {
		d += time.Duration(rand.Int63n(j))
	}
	return d
}

// WithRetry runs operation until it succeeds, fails with a non-retryable
// error, or MaxAttempts is reached. Each attempt gets its own Timeout.
func WithRetry[T any](ctx context.Context, operation RetryableFunc[T], config RetryConfig) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, config.Timeout)
		result, err := operation(attemptCtx)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == config.MaxAttempts || !IsRetryableError(err, config.RetryableErrors) {
			break
		}

		select {
		case <-time.After(config.backoff(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
