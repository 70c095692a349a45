package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/alnah/go-govdraft/internal/search"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, time.March, 6, 14, 30, 0, 0, time.UTC)

// stubCompleter answers titles (MaxTokens 50) and everything else
// with fixed text.
type stubCompleter struct {
	title string
	text  string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, req govdraft.GenerationRequest) (govdraft.GeneratedText, error) {
	if s.err != nil {
		return govdraft.GeneratedText{}, s.err
	}
	if req.MaxTokens == 50 {
		return govdraft.GeneratedText{Text: s.title, Provider: "stub"}, nil
	}
	return govdraft.GeneratedText{Text: s.text, Provider: "stub"}, nil
}

type stubSearcher struct {
	results []govdraft.SearchResult
}

func (s *stubSearcher) Search(context.Context, string) []govdraft.SearchResult {
	return s.results
}

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv builds an isolated environment; vars replaces the process
// environment.
func newTestEnv(vars map[string]string, gen govdraft.Completer, searcher search.Searcher) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewCompleter: func(*config.Config, *logger.Logger) (govdraft.Completer, error) {
			if gen == nil {
				return nil, govdraft.ErrMissingCredentials
			}
			return gen, nil
		},
		NewSearcher: func(config.SearchConfig, *logger.Logger) search.Searcher {
			return searcher
		},
	}
	return &testEnv{Environment: env, stdout: stdout, stderr: stderr}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestRun_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitUsage, "", "Usage: govdraft"},
		{"unknown", []string{"convert"}, ExitUsage, "", "Unknown command: convert"},
		{"version", []string{"version"}, ExitSuccess, "govdraft dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help export", []string{"help", "export"}, ExitSuccess, "--format", ""},
		{"bad flag", []string{"export", "--nope"}, ExitUsage, "", "invalid usage"},
		{"export without input", []string{"export", "-q"}, ExitUsage, "", "exactly one input"},
		{"generate without topic", []string{"generate", "-q"}, ExitUsage, "", "needs a topic"},
		{"bad shell", []string{"completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil, nil, nil)
			code := run(context.Background(), tt.args, env.Environment)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr.String())
			}
			if !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", env.stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", env.stderr.String(), tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

func TestExportCommand_Markdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "post.md", "# Test Post\n\nHello world.")
	outDir := filepath.Join(dir, "out") + string(filepath.Separator)

	env := newTestEnv(nil, nil, nil)
	code := run(context.Background(), []string{"export", input, "-f", "markdown", "-o", outDir, "-q"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("code = %d, stderr = %s", code, env.stderr.String())
	}

	got, err := os.ReadFile(filepath.Join(dir, "out", "Test Post.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(got), "# Test Post\n\n> **Blog**\n> **Published:** 6 March 2024") {
		t.Errorf("content = %q", got)
	}
}

func TestExportCommand_HTMLWithByline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md", "Some **notes**.")
	out := filepath.Join(dir, "notes.html")

	env := newTestEnv(nil, nil, nil)
	code := run(context.Background(), []string{
		"export", input, "-o", out, "-t", "news", "--title", "Weekly notes",
		"--author-name", "Jane Doe", "--category", "Policy",
	}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("code = %d, stderr = %s", code, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), "Wrote "+out) {
		t.Errorf("stdout = %q", env.stdout.String())
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Weekly notes", "Jane Doe", "Policy", "<strong>notes</strong>"} {
		if !strings.Contains(string(got), want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestExportCommand_PreviewFromStdin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, nil, nil)
	env.Stdin = strings.NewReader("==marked==")

	code := run(context.Background(), []string{"export", "-", "--preview", "-q"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("code = %d, stderr = %s", code, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), "<mark>marked</mark>") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestExportCommand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "post.md", "# T\n\nBody")

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"missing file", []string{"export", filepath.Join(dir, "nope.md"), "-q"}, ExitIO},
		{"bad format", []string{"export", input, "-f", "docx", "-q"}, ExitUsage},
		{"bad type", []string{"export", input, "-t", "podcast", "-q"}, ExitUsage},
		{"missing css", []string{"export", input, "--css", filepath.Join(dir, "x.css"), "-q"}, ExitIO},
		{"bad asset path", []string{"export", input, "--asset-path", filepath.Join(dir, "missing"), "-q"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(nil, nil, nil)
			if code := run(context.Background(), tt.args, env.Environment); code != tt.wantCode {
				t.Errorf("code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr.String())
			}
		})
	}
}

func TestResolveExportPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		output string
		want   string
	}{
		{"", "Budget 2024.html"},
		{dir, filepath.Join(dir, "Budget 2024.html")},
		{filepath.Join(dir, "custom.html"), filepath.Join(dir, "custom.html")},
	}
	for _, tt := range tests {
		if got := resolveExportPath(tt.output, "Budget 2024", "Budget 2024.html"); got != tt.want {
			t.Errorf("resolveExportPath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
	if got := resolveExportPath("", "a/b", "a/b.md"); got != "a-b.md" {
		t.Errorf("unsafe title path = %q", got)
	}
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	if got := extractTitle("intro\n\n## Sub\n# Main title \n"); got != "Main title" {
		t.Errorf("extractTitle() = %q", got)
	}
	if got := extractTitle("no heading"); got != "" {
		t.Errorf("extractTitle() = %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// generate, title
// ---------------------------------------------------------------------------

func TestGenerateCommand(t *testing.T) {
	t.Parallel()

	gen := &stubCompleter{title: `"Energy bill support."`, text: "## Who can apply\n\nEveryone."}
	env := newTestEnv(nil, gen, nil)

	code := run(context.Background(), []string{"generate", "-q", "-t", "news", "energy", "bills"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("code = %d, stderr = %s", code, env.stderr.String())
	}
	want := "# Energy bill support\n\n## Who can apply\n\nEveryone.\n"
	if env.stdout.String() != want {
		t.Errorf("stdout = %q, want %q", env.stdout.String(), want)
	}
}

func TestTitleCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, &stubCompleter{title: "## Pension changes"}, nil)
	if code := run(context.Background(), []string{"title", "-q", "pensions"}, env.Environment); code != ExitSuccess {
		t.Fatalf("code = %d, stderr = %s", code, env.stderr.String())
	}
	if env.stdout.String() != "Pension changes\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestGenerateCommand_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(nil, nil, nil)
		code := run(context.Background(), []string{"title", "-q", "x"}, env.Environment)
		if code != ExitUsage {
			t.Errorf("code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(env.stderr.String(), "hint: set MISTRAL_API_KEY") {
			t.Errorf("stderr = %q", env.stderr.String())
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		t.Parallel()

		genErr := &govdraft.GenerationError{Provider: "mistral", Err: govdraft.ErrRateLimited}
		env := newTestEnv(nil, &stubCompleter{err: genErr}, nil)
		code := run(context.Background(), []string{"generate", "-q", "--title", "T", "x"}, env.Environment)
		if code != ExitUpstream {
			t.Errorf("code = %d, want %d", code, ExitUpstream)
		}
		if !strings.Contains(env.stderr.String(), "rate limiting") {
			t.Errorf("stderr = %q", env.stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// research, search
// ---------------------------------------------------------------------------

func TestResearchCommand(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []govdraft.SearchResult{
		{Title: "Pension credit", Description: "Extra money.", URL: "https://www.gov.uk/pension-credit"},
	}}
	env := newTestEnv(nil, &stubCompleter{text: "Pension credit tops up income."}, searcher)

	code := run(context.Background(), []string{"research", "pension", "credit"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("code = %d, stderr = %s", code, env.stderr.String())
	}
	if env.stdout.String() != "Pension credit tops up income.\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), "[complete]") {
		t.Errorf("stage progress missing: %q", env.stderr.String())
	}
}

func TestResearchCommand_JSON(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []govdraft.SearchResult{{Title: "A", URL: "https://a.gov.uk"}}}
	env := newTestEnv(nil, &stubCompleter{text: "text"}, searcher)

	if code := run(context.Background(), []string{"research", "-q", "--json", "a"}, env.Environment); code != ExitSuccess {
		t.Fatalf("code = %d, stderr = %s", code, env.stderr.String())
	}
	var got govdraft.SynthesisResult
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", env.stdout.String(), err)
	}
	if len(got.References) != 1 || got.References[0].URL != "https://a.gov.uk" {
		t.Errorf("references = %+v", got.References)
	}
}

func TestSearchCommand(t *testing.T) {
	t.Parallel()

	searcher := &stubSearcher{results: []govdraft.SearchResult{
		{Title: "Pension credit", Description: "Extra money.", URL: "https://www.gov.uk/pension-credit"},
	}}
	env := newTestEnv(nil, nil, searcher)

	if code := run(context.Background(), []string{"search", "-q", "pension"}, env.Environment); code != ExitSuccess {
		t.Fatalf("code = %d, stderr = %s", code, env.stderr.String())
	}
	want := "1. Pension credit\n   https://www.gov.uk/pension-credit\n   Extra money.\n"
	if env.stdout.String() != want {
		t.Errorf("stdout = %q, want %q", env.stdout.String(), want)
	}
}

func TestSearchCommand_NotConfigured(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, nil, nil)
	code := run(context.Background(), []string{"search", "-q", "x"}, env.Environment)
	if code != ExitUsage {
		t.Errorf("code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(env.stderr.String(), "BRAVE_API_KEY") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// doctor, completion
// ---------------------------------------------------------------------------

func TestDoctor_JSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(map[string]string{envMistralKey: "secret-key-value"}, nil, nil)
	code := run(context.Background(), []string{"doctor", "--json"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("code = %d, stdout = %s", code, env.stdout.String())
	}
	if strings.Contains(env.stdout.String(), "secret-key-value") {
		t.Fatal("doctor output leaks a secret")
	}

	var got doctorResult
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "warnings" {
		t.Errorf("status = %q, want warnings (azure and search missing)", got.Status)
	}
	if len(got.Providers) != 2 || !got.Providers[0].Configured || got.Providers[1].Configured {
		t.Errorf("providers = %+v", got.Providers)
	}
	if !got.Assets.Loadable || got.Assets.Source != "embedded" {
		t.Errorf("assets = %+v", got.Assets)
	}
}

func TestDoctor_MissingPrimary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, nil, nil)
	if code := run(context.Background(), []string{"doctor"}, env.Environment); code != ExitGeneral {
		t.Errorf("code = %d, want %d", code, ExitGeneral)
	}
	if !strings.Contains(env.stdout.String(), "Status: Not ready") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"complete -F _govdraft govdraft", "--format", "blog news announcement"}},
		{"zsh", []string{"#compdef govdraft", "'export:Export markdown as a GOV.UK document'", ":value:(html markdown pdf)"}},
		{"fish", []string{"complete -c govdraft -f", "-a research -d", "__fish_seen_subcommand_from serve' -l addr -s a"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, Shell(tt.shell)); err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Exit codes
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generation", &govdraft.GenerationError{Provider: "azure", Err: govdraft.ErrUpstreamUnavailable}, ExitUpstream},
		{"not exist", os.ErrNotExist, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"validation", govdraft.ErrInvalidInput, ExitUsage},
		{"credentials", govdraft.ErrMissingCredentials, ExitUsage},
		{"other", errors.New("boom"), ExitGeneral},
	}
	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("%s: exitCodeFor() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
