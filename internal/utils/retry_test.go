package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	patterns := []string{"timeout", "rate limit"}

	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("request timeout"), true},
		{errors.New("Rate Limit exceeded"), true},
		{errors.New("not found"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsRetryableError(tt.err, patterns); got != tt.want {
			t.Errorf("IsRetryableError(%v) = %v; want %v", tt.err, got, tt.want)
		}
	}
}

func TestStartupRetryConfig(t *testing.T) {
	cfg := StartupRetryConfig()
	if cfg.MaxAttempts <= DefaultRetryConfig().MaxAttempts {
		t.Errorf("startup config should retry more than the default, got %d", cfg.MaxAttempts)
	}

	tests := []struct {
		msg  string
		want bool
	}{
		{"dial tcp 127.0.0.1:5432: connect: connection refused", true},
		{"FATAL: the database system is starting up (SQLSTATE 57P03)", true},
		{"LOADING Redis is loading the dataset in memory", true},
		{"dial tcp: lookup postgres: no such host", true},
		{"password authentication failed for user \"sous\"", false},
	}
	for _, tt := range tests {
		if got := IsRetryableError(errors.New(tt.msg), cfg.RetryableErrors); got != tt.want {
			t.Errorf("IsRetryableError(%q) = %v; want %v", tt.msg, got, tt.want)
		}
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2}

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 300 * time.Millisecond},
		{6, 300 * time.Millisecond},
	}
	for _, tt := range tests {
		got := cfg.backoff(tt.attempt)
		if got < tt.base || got > tt.base+tt.base/10 {
			t.Errorf("backoff(%d) = %v; want within [%v, %v]", tt.attempt, got, tt.base, tt.base+tt.base/10)
		}
	}
}

func TestWithRetry(t *testing.T) {
	errTransient := errors.New("read: connection reset by peer")
	errFatal := errors.New("permission denied")

	tests := []struct {
		name         string
		failures     int
		failWith     error
		wantAttempts int
		wantErr      error
	}{
		{"first try", 0, nil, 1, nil},
		{"recovers after transient failures", 2, errTransient, 3, nil},
		{"gives up after max attempts", 10, errTransient, 3, errTransient},
		{"stops on non-retryable error", 10, errFatal, 1, errFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			got, err := WithRetry(context.Background(), func(ctx context.Context) (int, error) {
				attempts++
				if attempts <= tt.failures {
					return 0, tt.failWith
				}
				return attempts, nil
			}, fastConfig())

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v; want %v", err, tt.wantErr)
			}
			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d; want %d", attempts, tt.wantAttempts)
			}
			if err == nil && got != tt.wantAttempts {
				t.Errorf("result = %d; want %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = 50 * time.Millisecond

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, func(ctx context.Context) (string, error) {
		return "", errors.New("timeout")
	}, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWithRetry_AttemptDeadline(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 2
	cfg.Timeout = 10 * time.Millisecond

	_, err := WithRetry(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}, cfg)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
