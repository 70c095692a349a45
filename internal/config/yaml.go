package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrEmptyData     = errors.New("empty config data")
	ErrInputTooLarge = errors.New("config input exceeds maximum size")
)

// unmarshalStrict decodes YAML into v, rejecting unknown fields.
func unmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML with credentials masked.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return out, nil
}

const maskedSecret = "********"

// Redacted returns a copy with every API key masked.
func (c *Config) Redacted() *Config {
	cp := *c
	cp.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	mask := func(s *string) {
		if *s != "" {
			*s = maskedSecret
		}
	}
	mask(&cp.Providers.Mistral.APIKey)
	mask(&cp.Providers.Azure.APIKey)
	mask(&cp.Providers.Anthropic.APIKey)
	mask(&cp.Search.APIKey)
	return &cp
}
