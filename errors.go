package govdraft

import (
	"errors"

	"github.com/alnah/go-govdraft/internal/gateway"
	"github.com/alnah/go-govdraft/internal/synthesis"
)

// Sentinel errors for library operations.
var (
	// ErrInvalidInput is the root of every validation failure; the
	// sentinels below are wrapped together with it.
	ErrInvalidInput       = synthesis.ErrInvalidInput
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrEmptyBody          = errors.New("body cannot be empty")
	ErrInvalidContentType = synthesis.ErrInvalidContentType
	ErrUnsupportedFormat  = errors.New("unsupported export format")

	ErrExport     = errors.New("export failed")
	ErrUnexpected = errors.New("unexpected internal error")
)

// Generation errors, re-exported from the gateway.
var (
	ErrRateLimited         = gateway.ErrRateLimited
	ErrUpstreamUnavailable = gateway.ErrUpstreamUnavailable
	ErrMalformedResponse   = gateway.ErrMalformedResponse
	ErrGenerationFailure   = gateway.ErrGenerationFailure
	ErrMissingCredentials  = gateway.ErrMissingCredentials
)

// GenerationError reports that every provider failed.
type GenerationError = gateway.GenerationError
