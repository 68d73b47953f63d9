package httputil

import (
	"context"
	"errors"
	"time"
)

// Client defaults for [Retry].
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second

	// MaxDelay caps the wait between two attempts.
	MaxDelay = 8 * time.Second
)

// RetryableError marks a failure worth another attempt, such as a dropped
// connection or a 5xx from the plotter server.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err in a RetryableError. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err wraps a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry calls fn until it succeeds, fails with an error that is not
// [Retryable], or has been called attempts times. The wait starts at delay
// and doubles up to [MaxDelay]. When ctx ends during a wait, ctx.Err() is
// returned; otherwise the last error from fn is.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for left := max(attempts, 1); ; delay = nextDelay(delay) {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if left--; left == 0 {
			return err
		}
		if werr := wait(ctx, delay); werr != nil {
			return werr
		}
	}
}

func nextDelay(d time.Duration) time.Duration {
	return min(2*d, MaxDelay)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
