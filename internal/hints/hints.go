// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-govdraft/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForMissingAPIKey names the environment variables to set for missing
// provider or search credentials.
func ForMissingAPIKey(envVars ...string) string {
	if len(envVars) == 0 {
		return ""
	}
	return format("set " + strings.Join(envVars, ", ") + " in the environment or a .env file")
}

// ForRateLimited returns advice for provider rate limiting.
func ForRateLimited() string {
	return format("the provider is rate limiting requests; wait a minute and retry, or raise retry.baseDelay")
}

// ForUpstream returns advice when every provider failed.
func ForUpstream() string {
	return format("check network access and provider status; run 'govdraft doctor' to review configured providers")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/govdraft/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/govdraft") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForListenAddr warns when a loopback address is used inside a container,
// where it is unreachable from the host.
func ForListenAddr(addr string) string {
	if !IsInContainer() {
		return ""
	}
	host, _, _ := strings.Cut(addr, ":")
	if host == "localhost" || strings.HasPrefix(host, "127.") {
		return format("inside a container bind to :PORT or 0.0.0.0:PORT instead of " + addr)
	}
	return ""
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
