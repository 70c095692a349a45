package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-govdraft/internal/dateutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAPIKeyLength  = 512
	MaxURLLength     = 2048 // Browser limit
	MaxModelLength   = 100
	MaxVersionLength = 50   // "2024-02-15-preview"
	MaxAddrLength    = 255  // host:port
	MaxPathLength    = 4096 // PATH_MAX
	MaxOrigins       = 50
)

// Provider names.
const (
	ProviderMistral   = "mistral"
	ProviderAzure     = "azure"
	ProviderAnthropic = "anthropic"
)

// Default endpoints and models.
const (
	DefaultMistralBaseURL    = "https://api.mistral.ai/v1"
	DefaultMistralModel      = "mistral-medium"
	DefaultAzureDeployment   = "gpt-4o-mini"
	DefaultAzureAPIVersion   = "2024-02-15-preview"
	DefaultAnthropicModel    = "claude-haiku-4-5"
	DefaultSearchEndpoint    = "https://api.search.brave.com/res/v1/web/search"
	DefaultSearchSite        = "gov.uk"
	DefaultServerAddr        = ":8080"
	DefaultFrontendOrigin    = "http://localhost:3000"
	DefaultMaxRetries        = 3
	DefaultBaseDelay         = time.Second
	DefaultAttemptTimeout    = 30 * time.Second
	DefaultSearchCount       = 10
	DefaultSearchCacheTTL    = 10 * time.Minute
	DefaultSearchTimeout     = 10 * time.Second
	DefaultServerRateLimit   = 10.0
	DefaultServerBurst       = 20
	DefaultShutdownTimeout   = 10 * time.Second
	MaxRetriesLimit          = 10
	MaxSearchCount           = 20
	defaultConfigDirName     = "govdraft"
	maxRetryDelayMultiplier  = 60
	maxAttemptTimeoutSeconds = 600
)

// Config holds all runtime configuration.
type Config struct {
	Providers ProvidersConfig `yaml:"providers"`
	Retry     RetryConfig     `yaml:"retry"`
	Search    SearchConfig    `yaml:"search"`
	Server    ServerConfig    `yaml:"server"`
	Export    ExportConfig    `yaml:"export"`
}

// ProvidersConfig selects and configures the generation providers.
type ProvidersConfig struct {
	Primary   string          `yaml:"primary"`   // mistral, azure or anthropic
	Secondary string          `yaml:"secondary"` // empty = no fallback
	Mistral   MistralConfig   `yaml:"mistral"`
	Azure     AzureConfig     `yaml:"azure"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// MistralConfig configures the Mistral chat completions provider.
type MistralConfig struct {
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseURL"`
}

// AzureConfig configures the Azure OpenAI provider.
type AzureConfig struct {
	APIKey     string `yaml:"apiKey"`
	Endpoint   string `yaml:"endpoint"`
	Deployment string `yaml:"deployment"`
	APIVersion string `yaml:"apiVersion"`
}

// AnthropicConfig configures the Anthropic messages provider.
type AnthropicConfig struct {
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseURL"` // empty = SDK default
}

// RetryConfig controls the gateway retry policy.
type RetryConfig struct {
	MaxRetries int           `yaml:"maxRetries"`
	BaseDelay  time.Duration `yaml:"baseDelay"`
	Timeout    time.Duration `yaml:"timeout"`   // per attempt
	RateLimit  float64       `yaml:"rateLimit"` // requests per second, 0 = unlimited
}

// SearchConfig configures the web search client.
type SearchConfig struct {
	APIKey   string        `yaml:"apiKey"`
	Endpoint string        `yaml:"endpoint"`
	Site     string        `yaml:"site"` // restricts results with "site:"
	Count    int           `yaml:"count"`
	CacheTTL time.Duration `yaml:"cacheTTL"` // 0 disables caching
	Timeout  time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
	RateLimit       float64       `yaml:"rateLimit"` // requests per second, 0 = unlimited
	Burst           int           `yaml:"burst"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// ExportConfig configures document export.
type ExportConfig struct {
	CSS       string `yaml:"css"`       // extra stylesheet file for HTML export
	AssetsDir string `yaml:"assetsDir"` // empty = embedded assets
	Highlight bool   `yaml:"highlight"` // chroma-highlight code fences in HTML

	// DateFormat is a token format or preset for the publication date.
	DateFormat string `yaml:"dateFormat"`
}

// Validate checks provider names, numeric ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := c.Providers.validate(); err != nil {
		return err
	}
	if err := c.Retry.validate(); err != nil {
		return err
	}
	if err := c.Search.validate(); err != nil {
		return err
	}
	if err := c.Server.validate(); err != nil {
		return err
	}
	if err := validateFieldLength("export.css", c.Export.CSS, MaxPathLength); err != nil {
		return err
	}
	if c.Export.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.Export.DateFormat); err != nil {
			return fmt.Errorf("%w: export.dateFormat: %w", ErrInvalidValue, err)
		}
	}
	return validateFieldLength("export.assetsDir", c.Export.AssetsDir, MaxPathLength)
}

func (p *ProvidersConfig) validate() error {
	if !isProvider(p.Primary) {
		return fmt.Errorf("%w: providers.primary %q (must be mistral, azure, or anthropic)", ErrInvalidValue, p.Primary)
	}
	if p.Secondary != "" {
		if !isProvider(p.Secondary) {
			return fmt.Errorf("%w: providers.secondary %q (must be mistral, azure, anthropic, or empty)", ErrInvalidValue, p.Secondary)
		}
		if p.Secondary == p.Primary {
			return fmt.Errorf("%w: providers.secondary must differ from providers.primary", ErrInvalidValue)
		}
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"providers.mistral.apiKey", p.Mistral.APIKey, MaxAPIKeyLength},
		{"providers.mistral.model", p.Mistral.Model, MaxModelLength},
		{"providers.mistral.baseURL", p.Mistral.BaseURL, MaxURLLength},
		{"providers.azure.apiKey", p.Azure.APIKey, MaxAPIKeyLength},
		{"providers.azure.endpoint", p.Azure.Endpoint, MaxURLLength},
		{"providers.azure.deployment", p.Azure.Deployment, MaxModelLength},
		{"providers.azure.apiVersion", p.Azure.APIVersion, MaxVersionLength},
		{"providers.anthropic.apiKey", p.Anthropic.APIKey, MaxAPIKeyLength},
		{"providers.anthropic.model", p.Anthropic.Model, MaxModelLength},
		{"providers.anthropic.baseURL", p.Anthropic.BaseURL, MaxURLLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

func (r *RetryConfig) validate() error {
	if r.MaxRetries < 0 || r.MaxRetries > MaxRetriesLimit {
		return fmt.Errorf("%w: retry.maxRetries must be between 0 and %d, got %d", ErrInvalidValue, MaxRetriesLimit, r.MaxRetries)
	}
	if r.BaseDelay < 0 || r.BaseDelay > maxRetryDelayMultiplier*time.Second {
		return fmt.Errorf("%w: retry.baseDelay must be between 0 and %ds, got %s", ErrInvalidValue, maxRetryDelayMultiplier, r.BaseDelay)
	}
	if r.Timeout < 0 || r.Timeout > maxAttemptTimeoutSeconds*time.Second {
		return fmt.Errorf("%w: retry.timeout must be between 0 and %ds, got %s", ErrInvalidValue, maxAttemptTimeoutSeconds, r.Timeout)
	}
	if r.RateLimit < 0 {
		return fmt.Errorf("%w: retry.rateLimit must not be negative", ErrInvalidValue)
	}
	return nil
}

func (s *SearchConfig) validate() error {
	if s.Count < 0 || s.Count > MaxSearchCount {
		return fmt.Errorf("%w: search.count must be between 0 and %d, got %d", ErrInvalidValue, MaxSearchCount, s.Count)
	}
	if s.CacheTTL < 0 || s.Timeout < 0 {
		return fmt.Errorf("%w: search durations must not be negative", ErrInvalidValue)
	}
	if err := validateFieldLength("search.apiKey", s.APIKey, MaxAPIKeyLength); err != nil {
		return err
	}
	if err := validateFieldLength("search.site", s.Site, MaxAddrLength); err != nil {
		return err
	}
	return validateFieldLength("search.endpoint", s.Endpoint, MaxURLLength)
}

func (s *ServerConfig) validate() error {
	if err := validateFieldLength("server.addr", s.Addr, MaxAddrLength); err != nil {
		return err
	}
	if len(s.AllowedOrigins) > MaxOrigins {
		return fmt.Errorf("%w: server.allowedOrigins has %d entries (max %d)", ErrInvalidValue, len(s.AllowedOrigins), MaxOrigins)
	}
	for i, origin := range s.AllowedOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.allowedOrigins[%d]", i), origin, MaxURLLength); err != nil {
			return err
		}
	}
	if s.RateLimit < 0 || s.Burst < 0 || s.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.rateLimit, burst and shutdownTimeout must not be negative", ErrInvalidValue)
	}
	return nil
}

func isProvider(name string) bool {
	switch name {
	case ProviderMistral, ProviderAzure, ProviderAnthropic:
		return true
	default:
		return false
	}
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the built-in configuration: Mistral primary, Azure
// secondary, no credentials.
func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			Primary:   ProviderMistral,
			Secondary: ProviderAzure,
			Mistral:   MistralConfig{Model: DefaultMistralModel, BaseURL: DefaultMistralBaseURL},
			Azure:     AzureConfig{Deployment: DefaultAzureDeployment, APIVersion: DefaultAzureAPIVersion},
			Anthropic: AnthropicConfig{Model: DefaultAnthropicModel},
		},
		Retry: RetryConfig{
			MaxRetries: DefaultMaxRetries,
			BaseDelay:  DefaultBaseDelay,
			Timeout:    DefaultAttemptTimeout,
		},
		Search: SearchConfig{
			Endpoint: DefaultSearchEndpoint,
			Site:     DefaultSearchSite,
			Count:    DefaultSearchCount,
			CacheTTL: DefaultSearchCacheTTL,
			Timeout:  DefaultSearchTimeout,
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			AllowedOrigins:  []string{DefaultFrontendOrigin},
			RateLimit:       DefaultServerRateLimit,
			Burst:           DefaultServerBurst,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/govdraft/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, defaultConfigDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
