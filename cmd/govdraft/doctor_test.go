package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-govdraft/internal/config"
)

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(*config.Config)
		wantStatus string
	}{
		{
			name:       "defaults without credentials",
			wantStatus: "errors",
		},
		{
			name: "fully configured",
			setup: func(c *config.Config) {
				c.Providers.Mistral.APIKey = "m"
				c.Providers.Azure.APIKey = "a"
				c.Providers.Azure.Endpoint = "https://example.openai.azure.com"
				c.Search.APIKey = "b"
			},
			wantStatus: "ready",
		},
		{
			name: "no fallback",
			setup: func(c *config.Config) {
				c.Providers.Mistral.APIKey = "m"
				c.Providers.Secondary = ""
				c.Search.APIKey = "b"
			},
			wantStatus: "warnings",
		},
		{
			name: "missing asset directory",
			setup: func(c *config.Config) {
				c.Providers.Mistral.APIKey = "m"
				c.Export.AssetsDir = "/nonexistent/govdraft-assets"
			},
			wantStatus: "errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			if tt.setup != nil {
				tt.setup(cfg)
			}
			got := runDoctor(cfg)
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q (errors=%v warnings=%v)", got.Status, tt.wantStatus, got.Errors, got.Warnings)
			}
		})
	}
}

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Providers.Mistral.APIKey = "m"

	var buf bytes.Buffer
	printDoctorResult(&buf, runDoctor(cfg))

	out := buf.String()
	for _, want := range []string{"[OK] mistral (primary)", "[MISSING] azure (secondary)", "Status: Ready with warnings"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
