package gateway

import "context"

// Request is one completion request, independent of provider.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// GeneratedText is a normalized completion.
type GeneratedText struct {
	Text     string
	Provider string
}

// Provider performs a single completion attempt. Implementations return
// errors classified with ErrRateLimited, ErrUpstreamUnavailable or
// ErrMalformedResponse.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (GeneratedText, error)
}

// Completer is the contract consumers depend on.
type Completer interface {
	Complete(ctx context.Context, req Request) (GeneratedText, error)
}
