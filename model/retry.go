package model

import (
	"context"
	"errors"
	"time"
)

// MaxAttempts is the hard cap on attempts per request (1 initial + 4 retries).
// It bounds spend on a failing provider; policies cannot raise it.
const MaxAttempts = 5

// RetryPolicy decides whether a failed attempt should be retried.
// It holds no per-request state, so one value can serve every request.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts allowed, clamped to [1, MaxAttempts].
	MaxAttempts int

	// BaseDelay is the wait before the first retry. Zero retries immediately.
	BaseDelay time.Duration

	// MaxDelay caps the doubled delay. Zero means no cap.
	MaxDelay time.Duration

	// Retryable classifies errors. Nil treats every error as retryable.
	// Cancellation is never retried regardless of this func. A deadline
	// error alone is not cancellation: HTTP client timeouts carry one.
	Retryable func(error) bool
}

// DefaultRetryPolicy retries up to the cap with a short doubling backoff.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: MaxAttempts,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    4 * time.Second,
}

// Decision is the outcome of RetryPolicy.Decide.
type Decision struct {
	Retry bool
	Delay time.Duration
}

// Attempts returns the effective attempt limit.
func (p RetryPolicy) Attempts() int {
	switch {
	case p.MaxAttempts <= 0 || p.MaxAttempts > MaxAttempts:
		return MaxAttempts
	default:
		return p.MaxAttempts
	}
}

// Decide reports whether to make another attempt after attempt number
// attempt (1-based) failed with err, and how long to wait first.
func (p RetryPolicy) Decide(attempt int, err error) Decision {
	if err == nil || attempt >= p.Attempts() {
		return Decision{}
	}
	if errors.Is(err, context.Canceled) {
		return Decision{}
	}
	if p.Retryable != nil && !p.Retryable(err) {
		return Decision{}
	}
	return Decision{Retry: true, Delay: p.Backoff(attempt)}
}

// Backoff returns the delay before the retry that follows attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if p.BaseDelay <= 0 || attempt < 1 {
		return 0
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}
