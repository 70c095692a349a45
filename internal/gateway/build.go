package gateway

import (
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/logger"
)

// NewProvider builds the named provider from configuration.
func NewProvider(name string, cfg config.ProvidersConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch name {
	case config.ProviderMistral:
		p, err = asProvider(NewMistral(cfg.Mistral))
	case config.ProviderAzure:
		p, err = asProvider(NewAzure(cfg.Azure))
	case config.ProviderAnthropic:
		p, err = asProvider(NewAnthropic(cfg.Anthropic))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// asProvider keeps a failed constructor from yielding a typed-nil interface.
func asProvider[P Provider](p P, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FromConfig builds a Gateway from configuration. The primary provider
// must have credentials; a secondary without credentials is skipped with
// a warning.
func FromConfig(cfg *config.Config, log *logger.Logger) (*Gateway, error) {
	if log == nil {
		log = logger.Nop()
	}

	primary, err := NewProvider(cfg.Providers.Primary, cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("primary provider: %w", err)
	}

	opts := []Option{
		WithLogger(log.With("component", "gateway")),
		WithMaxRetries(cfg.Retry.MaxRetries),
		WithBaseDelay(cfg.Retry.BaseDelay),
		WithAttemptTimeout(cfg.Retry.Timeout),
	}
	if cfg.Retry.RateLimit > 0 {
		burst := max(int(cfg.Retry.RateLimit), 1)
		opts = append(opts, WithLimiter(rate.NewLimiter(rate.Limit(cfg.Retry.RateLimit), burst)))
	}

	if cfg.Providers.Secondary != "" {
		secondary, err := NewProvider(cfg.Providers.Secondary, cfg.Providers)
		switch {
		case err == nil:
			opts = append(opts, WithSecondary(secondary))
		case errors.Is(err, ErrMissingCredentials):
			log.Warn("secondary provider not configured, running without fallback",
				"secondary", cfg.Providers.Secondary)
		default:
			return nil, fmt.Errorf("secondary provider: %w", err)
		}
	}

	return New(primary, opts...), nil
}
