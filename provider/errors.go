package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/randalmurphal/llmrouter/model"
)

// Sentinel errors for provider operations.
var (
	// ErrUnknownProvider indicates no factory is registered under the name.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrProviderNotConfigured indicates the provider lacks credentials.
	// It is the same value as model.ErrProviderNotConfigured.
	ErrProviderNotConfigured = model.ErrProviderNotConfigured

	// ErrProviderCallFailed indicates a network, HTTP, or provider-side error.
	ErrProviderCallFailed = errors.New("provider call failed")

	// ErrEmptyResponse indicates the provider replied without usable content.
	ErrEmptyResponse = errors.New("empty response")

	// ErrRetriesExhausted indicates every allowed attempt failed.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrInvalidRequest indicates the request is malformed before sending.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRateLimited indicates the provider rejected the call with a rate limit.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the call timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrUnavailable indicates the provider returned a server error.
	ErrUnavailable = errors.New("LLM service unavailable")

	// ErrAuth indicates the provider rejected the credentials.
	ErrAuth = errors.New("authentication failed")
)

// Error wraps provider errors with context.
type Error struct {
	Provider   model.Provider // Provider name ("gemini", "openai", ...)
	Op         string         // Operation that failed ("complete", "decode")
	StatusCode int            // HTTP status, 0 when no response was received
	Err        error          // Underlying error
	Retryable  bool           // Whether the router may try again
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new provider error.
func NewError(p model.Provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  p,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// CallError builds the error for a failed upstream call. Transport errors
// and error payloads are both retryable; the status narrows the sentinel.
func CallError(p model.Provider, op string, status int, cause error) *Error {
	var kind error
	switch {
	case status == http.StatusTooManyRequests:
		kind = ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrAuth
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = ErrTimeout
	case status == 0 && errors.Is(cause, context.DeadlineExceeded):
		kind = ErrTimeout
	case status >= 500:
		kind = ErrUnavailable
	}

	var err error
	switch {
	case kind != nil && cause != nil:
		err = fmt.Errorf("%w: %w: %w", ErrProviderCallFailed, kind, cause)
	case kind != nil:
		err = fmt.Errorf("%w: %w", ErrProviderCallFailed, kind)
	case cause != nil:
		err = fmt.Errorf("%w: %w", ErrProviderCallFailed, cause)
	default:
		err = fmt.Errorf("%w: status %d", ErrProviderCallFailed, status)
	}

	return &Error{
		Provider:   p,
		Op:         op,
		StatusCode: status,
		Err:        err,
		Retryable:  true,
	}
}

// EmptyResponseError builds the error for a reply with no usable content.
func EmptyResponseError(p model.Provider, reason string) *Error {
	err := ErrEmptyResponse
	if reason != "" {
		err = fmt.Errorf("%w: %s", ErrEmptyResponse, reason)
	}
	return NewError(p, "complete", err, true)
}

// IsRetryable checks if an error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}

	return errors.Is(err, ErrProviderCallFailed) ||
		errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsConfigError checks if an error is a configuration problem that must
// surface to the caller instead of being absorbed into a result.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrProviderNotConfigured) ||
		errors.Is(err, ErrUnknownProvider) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, model.ErrInvalidTier) ||
		errors.Is(err, model.ErrInvalidProvider)
}
