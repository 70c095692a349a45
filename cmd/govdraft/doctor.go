package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alnah/go-govdraft/internal/assets"
	"github.com/alnah/go-govdraft/internal/config"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string         `json:"status"` // "ready", "warnings", "errors"
	Providers []providerInfo `json:"providers"`
	Search    searchInfo     `json:"search"`
	Assets    assetInfo      `json:"assets"`
	Env       envInfo        `json:"environment"`
	System    systemInfo     `json:"system"`
	Warnings  []string       `json:"warnings,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
}

// providerInfo reports one generation provider. Secrets are never shown.
type providerInfo struct {
	Name       string `json:"name"`
	Role       string `json:"role"` // primary or secondary
	Configured bool   `json:"configured"`
	Model      string `json:"model,omitempty"`
}

type searchInfo struct {
	Configured bool   `json:"configured"`
	Endpoint   string `json:"endpoint"`
	Site       string `json:"site"`
}

type assetInfo struct {
	Source   string `json:"source"` // embedded or a directory
	Loadable bool   `json:"loadable"`
}

type envInfo struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad config.
func runDoctorCmd(args []string, env *Environment) int {
	var f commonFlags
	jsonOutput := false
	fs := newDoctorFlagSet(&f, &jsonOutput)
	if _, err := parseWith(fs, args); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	f.quiet = true

	s, err := newSession(f, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, formatError(err))
		return exitCodeFor(err)
	}

	result := runDoctor(s.cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks against cfg.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env:    envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	checkProviders(result, cfg.Providers)
	checkSearch(result, cfg.Search)
	checkAssets(result, cfg.Export.AssetsDir)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

func checkProviders(result *doctorResult, p config.ProvidersConfig) {
	primary := describeProvider(p.Primary, "primary", p)
	result.Providers = append(result.Providers, primary)
	if !primary.Configured {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"Primary provider %s has no credentials. Set %v", p.Primary, credentialEnvVars(p.Primary)))
	}

	if p.Secondary == "" {
		result.Warnings = append(result.Warnings, "No secondary provider: generation has no fallback")
		return
	}
	secondary := describeProvider(p.Secondary, "secondary", p)
	result.Providers = append(result.Providers, secondary)
	if !secondary.Configured {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Secondary provider %s has no credentials and will be skipped. Set %v", p.Secondary, credentialEnvVars(p.Secondary)))
	}
}

func describeProvider(name, role string, p config.ProvidersConfig) providerInfo {
	info := providerInfo{Name: name, Role: role}
	switch name {
	case config.ProviderMistral:
		info.Configured = p.Mistral.APIKey != ""
		info.Model = p.Mistral.Model
	case config.ProviderAzure:
		info.Configured = p.Azure.APIKey != "" && p.Azure.Endpoint != ""
		info.Model = p.Azure.Deployment
	case config.ProviderAnthropic:
		info.Configured = p.Anthropic.APIKey != ""
		info.Model = p.Anthropic.Model
	}
	return info
}

func checkSearch(result *doctorResult, s config.SearchConfig) {
	result.Search = searchInfo{Configured: s.APIKey != "", Endpoint: s.Endpoint, Site: s.Site}
	if !result.Search.Configured {
		result.Warnings = append(result.Warnings, "Search not configured: set "+envBraveKey+" to enable research")
	}
}

// checkAssets verifies the stylesheet and templates load.
func checkAssets(result *doctorResult, dir string) {
	result.Assets.Source = "embedded"

	loader, err := assets.NewAssetResolver(dir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset directory unusable: %v", err))
		return
	}
	if loader.HasCustomLoader() {
		result.Assets.Source = dir
	}
	for _, load := range []func() error{
		func() error { _, err := loader.LoadStyle(assets.DefaultStyleName); return err },
		func() error { _, err := loader.LoadTemplate(assets.HTMLTemplateName); return err },
		func() error { _, err := loader.LoadTemplate(assets.MDTemplateName); return err },
	} {
		if err := load(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Asset not loadable: %v", err))
			return
		}
	}
	result.Assets.Loadable = true
}

// checkSystem verifies the temp directory is writable for atomic writes.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "govdraft-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "govdraft doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Providers")
	for _, p := range r.Providers {
		if p.Configured {
			fmt.Fprintf(w, "  [OK] %s (%s): %s\n", p.Name, p.Role, p.Model)
		} else {
			fmt.Fprintf(w, "  [MISSING] %s (%s): no credentials\n", p.Name, p.Role)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Search")
	if r.Search.Configured {
		fmt.Fprintf(w, "  [OK] Brave (site:%s)\n", r.Search.Site)
	} else {
		fmt.Fprintln(w, "  [MISSING] Brave: no API key")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	if r.Assets.Loadable {
		fmt.Fprintf(w, "  [OK] Stylesheet and templates (%s)\n", r.Assets.Source)
	} else {
		fmt.Fprintf(w, "  [ERROR] Not loadable (%s)\n", r.Assets.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
