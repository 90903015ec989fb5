// Package retry provides retry logic with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"
)

// ErrInvalidConfig is returned when MaxAttempts is not positive.
var ErrInvalidConfig = errors.New("retry: MaxAttempts must be greater than 0")

// Config holds retry strategy configuration.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first one.
	MaxAttempts int
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration
	// Multiplier is the exponential backoff multiplier.
	Multiplier float64
	// RetryableErrors lists case-insensitive message fragments worth retrying.
	// Empty means every error is retried.
	RetryableErrors []string
	// OnRetry, when set, is called before sleeping ahead of each retry.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     5,
		InitialDelay:    1 * time.Second,
		MaxDelay:        30 * time.Second,
		Multiplier:      2.0,
		RetryableErrors: []string{},
	}
}

// PostgresConfig returns a configuration for establishing PostgreSQL connections.
func PostgresConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryableErrors = TransientErrors()
	return cfg
}

// QueryConfig returns a short configuration for read queries issued while
// serving a request: one quick retry on transient connection errors.
func QueryConfig() Config {
	return Config{
		MaxAttempts:     2,
		InitialDelay:    50 * time.Millisecond,
		MaxDelay:        200 * time.Millisecond,
		Multiplier:      2.0,
		RetryableErrors: TransientErrors(),
	}
}

// TransientErrors returns error fragments that indicate a temporary
// database or network condition.
func TransientErrors() []string {
	return []string{
		"connection refused",
		"connection reset",
		"i/o timeout",
		"server closed the connection",
		"too many connections",
		"database system is starting up",
		"no connection could be made",
		"network is unreachable",
		"dial tcp",
		"connection timed out",
		"bad connection",
	}
}

// Do executes fn with retry logic.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes fn with retry logic and returns its result.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		return zero, ErrInvalidConfig
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryableError(err, cfg) || attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := addJitter(calculateDelay(attempt, cfg))
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// calculateDelay returns InitialDelay * Multiplier^attempt capped at MaxDelay.
func calculateDelay(attempt int, cfg Config) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}

// addJitter spreads delay by ±10%.
func addJitter(delay time.Duration) time.Duration {
	//nolint:gosec // jitter has no security requirement
	jitter := float64(delay) * 0.1 * (rand.Float64()*2 - 1)
	return delay + time.Duration(jitter)
}

// IsRetryableError reports whether err should trigger a retry under cfg.
// Context cancellation is never retried.
func IsRetryableError(err error, cfg Config) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if len(cfg.RetryableErrors) == 0 {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range cfg.RetryableErrors {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
