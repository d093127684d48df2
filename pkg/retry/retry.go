// Package retry provides marker-error based retry with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts int           // Total attempts including the first (0 = single attempt)
	InitialWait time.Duration // Wait before the second attempt
	MaxWait     time.Duration // Ceiling for the backoff wait
	Multiplier  float64       // Backoff multiplier between attempts
}

// None disables retries: the first failure is final.
func None() Config {
	return Config{MaxAttempts: 1}
}

// Once allows a single retry after the first failure.
func Once() Config {
	return Config{
		MaxAttempts: 2,
		InitialWait: 200 * time.Millisecond,
		MaxWait:     2 * time.Second,
		Multiplier:  2.0,
	}
}

// markedError tags an error as retryable.
type markedError struct {
	err error
}

func (e markedError) Error() string { return e.err.Error() }
func (e markedError) Unwrap() error { return e.err }

// Retryable marks an error as retryable.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return markedError{err: err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var m markedError
	return errors.As(err, &m)
}

// Do executes fn, retrying marked errors up to cfg.MaxAttempts total
// attempts with exponential backoff. Unmarked errors and context
// cancellation end the loop immediately.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult is Do for functions that return a value.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == attempts {
			return zero, lastErr
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt-1))
		if cfg.MaxWait > 0 && wait > float64(cfg.MaxWait) {
			wait = float64(cfg.MaxWait)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(wait)):
		}
	}

	return zero, lastErr
}
