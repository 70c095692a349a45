package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Provider errors are classified into one of these so the
// retry policy can decide between waiting and falling back.
var (
	ErrRateLimited         = errors.New("rate limited by provider")
	ErrUpstreamUnavailable = errors.New("provider unavailable")
	ErrMalformedResponse   = errors.New("malformed provider response")
	ErrGenerationFailure   = errors.New("content generation failed")
	ErrMissingCredentials  = errors.New("missing provider credentials")
	ErrUnknownProvider     = errors.New("unknown provider")
)

// GenerationError reports that every configured provider failed.
type GenerationError struct {
	// Provider is the last provider tried.
	Provider string
	// Err is the last provider error.
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrGenerationFailure, e.Err)
}

// Unwrap exposes both ErrGenerationFailure and the last provider error.
func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailure, e.Err}
}

// classifyStatus maps an HTTP status from a provider to a sentinel.
func classifyStatus(provider string, status int, err error) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s: %v", ErrRateLimited, provider, err)
	}
	return fmt.Errorf("%w: %s: status %d: %v", ErrUpstreamUnavailable, provider, status, err)
}

// classifyTransport wraps a non-HTTP failure (network, timeout). Context
// errors stay visible through errors.Is.
func classifyTransport(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, provider, err)
}
