package main

import (
	"errors"
	"os"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/assets"
	"github.com/alnah/go-govdraft/internal/config"
)

// Exit codes for the govdraft CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful run
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitUpstream = 4 // Generation provider or search errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Upstream errors (exit 4)
	if errors.Is(err, govdraft.ErrGenerationFailure) ||
		errors.Is(err, govdraft.ErrRateLimited) ||
		errors.Is(err, govdraft.ErrUpstreamUnavailable) ||
		errors.Is(err, govdraft.ErrMalformedResponse) {
		return ExitUpstream
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, govdraft.ErrInvalidInput) ||
		errors.Is(err, govdraft.ErrMissingCredentials) ||
		errors.Is(err, govdraft.ErrSearchNotConfigured) ||
		errors.Is(err, govdraft.ErrExport) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
