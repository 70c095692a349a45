package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-govdraft/internal/config"
)

// Provider credential variables, read without the GOVDRAFT_ prefix.
const (
	envMistralKey      = "MISTRAL_API_KEY"
	envAzureKey        = "AZURE_OPENAI_API_KEY"
	envAzureEndpoint   = "AZURE_OPENAI_ENDPOINT"
	envAzureDeployment = "AZURE_OPENAI_DEPLOYMENT"
	envAzureVersion    = "AZURE_OPENAI_API_VERSION"
	envAnthropicKey    = "ANTHROPIC_API_KEY"
	envBraveKey        = "BRAVE_API_KEY"
)

// envConfig holds configuration from environment variables.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // GOVDRAFT_CONFIG: config file name or path
	LogFormat  string // GOVDRAFT_LOG_FORMAT: console or json

	// Tier 2 - Providers
	Primary    string        // GOVDRAFT_PRIMARY
	Secondary  string        // GOVDRAFT_SECONDARY ("none" disables fallback)
	MaxRetries int           // GOVDRAFT_MAX_RETRIES
	Timeout    time.Duration // GOVDRAFT_TIMEOUT: per attempt

	// Tier 3 - Server and export
	Addr           string   // GOVDRAFT_ADDR
	AllowedOrigins []string // GOVDRAFT_ALLOWED_ORIGINS: comma-separated
	CSS            string   // GOVDRAFT_CSS: extra stylesheet path

	// Credentials
	MistralKey      string
	AzureKey        string
	AzureEndpoint   string
	AzureDeployment string
	AzureVersion    string
	AnthropicKey    string
	BraveKey        string
}

// knownEnvVars lists valid GOVDRAFT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"GOVDRAFT_CONFIG":          true,
	"GOVDRAFT_LOG_FORMAT":      true,
	"GOVDRAFT_PRIMARY":         true,
	"GOVDRAFT_SECONDARY":       true,
	"GOVDRAFT_MAX_RETRIES":     true,
	"GOVDRAFT_TIMEOUT":         true,
	"GOVDRAFT_ADDR":            true,
	"GOVDRAFT_ALLOWED_ORIGINS": true,
	"GOVDRAFT_CSS":             true,
}

// loadEnvConfig reads configuration through getenv.
// Malformed numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:      getenv("GOVDRAFT_CONFIG"),
		LogFormat:       getenv("GOVDRAFT_LOG_FORMAT"),
		Primary:         strings.ToLower(getenv("GOVDRAFT_PRIMARY")),
		Secondary:       strings.ToLower(getenv("GOVDRAFT_SECONDARY")),
		Addr:            getenv("GOVDRAFT_ADDR"),
		CSS:             getenv("GOVDRAFT_CSS"),
		MistralKey:      getenv(envMistralKey),
		AzureKey:        getenv(envAzureKey),
		AzureEndpoint:   getenv(envAzureEndpoint),
		AzureDeployment: getenv(envAzureDeployment),
		AzureVersion:    getenv(envAzureVersion),
		AnthropicKey:    getenv(envAnthropicKey),
		BraveKey:        getenv(envBraveKey),
	}

	if v := getenv("GOVDRAFT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := getenv("GOVDRAFT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := getenv("GOVDRAFT_ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg
}

// warnUnknownEnvVars warns about unrecognized GOVDRAFT_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "GOVDRAFT_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays set environment values onto cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	p := &cfg.Providers
	if env.Primary != "" {
		p.Primary = env.Primary
	}
	switch env.Secondary {
	case "":
	case "none":
		p.Secondary = ""
	default:
		p.Secondary = env.Secondary
	}

	override(&p.Mistral.APIKey, env.MistralKey)
	override(&p.Azure.APIKey, env.AzureKey)
	override(&p.Azure.Endpoint, env.AzureEndpoint)
	override(&p.Azure.Deployment, env.AzureDeployment)
	override(&p.Azure.APIVersion, env.AzureVersion)
	override(&p.Anthropic.APIKey, env.AnthropicKey)
	override(&cfg.Search.APIKey, env.BraveKey)

	if env.MaxRetries > 0 {
		cfg.Retry.MaxRetries = env.MaxRetries
	}
	if env.Timeout > 0 {
		cfg.Retry.Timeout = env.Timeout
	}

	override(&cfg.Server.Addr, env.Addr)
	if len(env.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = env.AllowedOrigins
	}
	override(&cfg.Export.CSS, env.CSS)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// credentialEnvVars maps a provider to the variables that configure it.
func credentialEnvVars(provider string) []string {
	switch provider {
	case config.ProviderMistral:
		return []string{envMistralKey}
	case config.ProviderAzure:
		return []string{envAzureKey, envAzureEndpoint}
	case config.ProviderAnthropic:
		return []string{envAnthropicKey}
	}
	return nil
}
