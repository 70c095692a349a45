// Package gateway calls external content-generation providers with a
// retry and fallback policy:
//   - rate-limited attempts are retried with exponential backoff
//   - any other failure switches once to the secondary provider
//   - when both fail the caller gets a *GenerationError
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/logger"
)

// Gateway applies the retry and fallback policy over one or two providers.
type Gateway struct {
	primary   Provider
	secondary Provider

	maxRetries     int
	baseDelay      time.Duration
	attemptTimeout time.Duration
	limiter        *rate.Limiter
	log            *logger.Logger
}

var _ Completer = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(*Gateway)

// WithSecondary sets the fallback provider.
func WithSecondary(p Provider) Option {
	return func(g *Gateway) {
		g.secondary = p
	}
}

// WithMaxRetries sets how many times a rate-limited call is retried.
func WithMaxRetries(n int) Option {
	return func(g *Gateway) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

// WithBaseDelay sets the first backoff delay; it doubles on each retry.
func WithBaseDelay(d time.Duration) Option {
	return func(g *Gateway) {
		if d >= 0 {
			g.baseDelay = d
		}
	}
}

// WithAttemptTimeout bounds each provider call.
func WithAttemptTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.attemptTimeout = d
		}
	}
}

// WithLimiter throttles provider calls.
func WithLimiter(l *rate.Limiter) Option {
	return func(g *Gateway) {
		g.limiter = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a Gateway around primary.
func New(primary Provider, opts ...Option) *Gateway {
	g := &Gateway{
		primary:        primary,
		maxRetries:     config.DefaultMaxRetries,
		baseDelay:      config.DefaultBaseDelay,
		attemptTimeout: config.DefaultAttemptTimeout,
		log:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Complete asks the primary provider, then the secondary, for a completion.
// Cancelling ctx stops all work and returns ctx.Err().
func (g *Gateway) Complete(ctx context.Context, req Request) (GeneratedText, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedText{}, err
	}

	out, err := g.callWithRetry(ctx, g.primary, req)
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return GeneratedText{}, ctxErr
	}

	last := g.primary.Name()
	if g.secondary != nil {
		g.log.Warn("primary provider failed, falling back",
			"primary", g.primary.Name(), "secondary", g.secondary.Name(), "error", err)

		out, err = g.callWithRetry(ctx, g.secondary, req)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return GeneratedText{}, ctxErr
		}
		last = g.secondary.Name()
	}

	g.log.Error("all providers failed", "provider", last, "error", err)
	return GeneratedText{}, &GenerationError{Provider: last, Err: err}
}

// callWithRetry retries rate-limited calls with base*2^attempt backoff.
// Other failures return immediately.
func (g *Gateway) callWithRetry(ctx context.Context, p Provider, req Request) (GeneratedText, error) {
	for attempt := 0; ; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return GeneratedText{}, err
			}
		}

		out, err := g.attempt(ctx, p, req)
		if err == nil {
			if attempt > 0 {
				g.log.Info("provider call succeeded after retry", "provider", p.Name(), "attempt", attempt+1)
			}
			return out, nil
		}
		if !errors.Is(err, ErrRateLimited) || attempt >= g.maxRetries {
			return GeneratedText{}, err
		}

		delay := g.baseDelay << attempt
		g.log.Warn("rate limited, backing off",
			"provider", p.Name(), "attempt", attempt+1, "delay", delay.String())
		if err := sleep(ctx, delay); err != nil {
			return GeneratedText{}, err
		}
	}
}

func (g *Gateway) attempt(ctx context.Context, p Provider, req Request) (GeneratedText, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	g.log.Debug("calling provider", "provider", p.Name(), "maxTokens", req.MaxTokens)
	out, err := p.Complete(attemptCtx, req)
	if err != nil {
		return GeneratedText{}, err
	}
	out.Text = strings.TrimSpace(out.Text)
	if out.Text == "" {
		return GeneratedText{}, fmt.Errorf("%w: %s returned empty text", ErrMalformedResponse, p.Name())
	}
	if out.Provider == "" {
		out.Provider = p.Name()
	}
	return out, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
