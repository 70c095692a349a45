package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-govdraft/internal/assets"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, time.March, 6, 14, 30, 0, 0, time.UTC)

func newTestRenderer(t *testing.T, opts ...Option) *TemplateRenderer {
	t.Helper()

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	r, err := New(assets.NewEmbeddedLoader(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func fullDocument() Document {
	return Document{
		Title:       "Test Post",
		Type:        "blog",
		Author:      &Author{Name: "Jane Doe", Role: "Editor"},
		Categories:  []string{"Policy", "Digital"},
		PublishedAt: time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC),
	}
}

// stubLoader serves fixed assets and fails on demand.
type stubLoader struct {
	failTemplate bool
}

func (s *stubLoader) LoadStyle(string) (string, error) { return "body{}", nil }

func (s *stubLoader) LoadTemplate(name string) (string, error) {
	if s.failTemplate {
		return "", assets.ErrTemplateNotFound
	}
	return assets.NewEmbeddedLoader().LoadTemplate(name)
}

func (s *stubLoader) LoadPrompt(string) (string, error) { return "", nil }

// ---------------------------------------------------------------------------
// Markdown
// ---------------------------------------------------------------------------

func TestRender_Markdown(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	body := "Hello world.\n\n### Section\n\nMore text."

	got, err := r.Render(context.Background(), fullDocument(), body, FormatMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "# Test Post\n\n" +
		"> **Blog**\n" +
		"> **Author:** Jane Doe (Editor)\n" +
		"> **Published:** 5 March 2024\n" +
		"> **Categories:** `Policy`, `Digital`\n\n" +
		"---\n" +
		"Hello world.\n\n### Section\n\nMore text.\n\n" +
		"---\n\n" +
		"<details>\n" +
		"<summary>Document Information</summary>\n\n" +
		"- Last updated: 6 March 2024 at 14:30\n" +
		"- Format: Markdown\n" +
		"- Content Type: Blog\n" +
		"- Categories: Policy, Digital\n" +
		"</details>"
	if got != want {
		t.Errorf("Render() =\n%s\n---want---\n%s", got, want)
	}
}

func TestRender_MarkdownMinimal(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	doc := Document{Title: "Notice", Type: "announcement"}

	got, err := r.Render(context.Background(), doc, "Body.", FormatMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "> **Announcement**\n> **Published:** 6 March 2024\n\n---") {
		t.Errorf("metadata block wrong:\n%s", got)
	}
	for _, unwanted := range []string{"**Author:**", "**Categories:**", "- Categories:"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("unexpected %q in:\n%s", unwanted, got)
		}
	}
}

func TestRender_AuthorWithoutRole(t *testing.T) {
	t.Parallel()

	doc := fullDocument()
	doc.Author = &Author{Name: "Sam"}

	got, err := newTestRenderer(t).Render(context.Background(), doc, "x", FormatMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "> **Author:** Sam\n") {
		t.Errorf("author line wrong:\n%s", got)
	}
}

// ---------------------------------------------------------------------------
// HTML
// ---------------------------------------------------------------------------

func TestRender_HTML(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	body := "<p>Hello <strong>world</strong></p>"

	got, err := r.Render(context.Background(), fullDocument(), body, FormatHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Test Post - GOV.UK</title>",
		`<h1 class="govuk-heading-xl">Test Post</h1>`,
		"Published: 5 March 2024",
		`From: <a href="#" class="govuk-link">Jane Doe</a>`,
		"<br>Editor",
		"Part of:",
		`>Policy</a>, <a href="#" class="govuk-link govuk-!-margin-left-1">Digital</a>`,
		body,
		"Crown copyright",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestRender_HTMLEscapesMetadata(t *testing.T) {
	t.Parallel()

	doc := Document{Title: "<script>alert(1)</script>", Type: "news"}
	got, err := newTestRenderer(t).Render(context.Background(), doc, "<p>ok</p>", FormatHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "<script>alert(1)</script>") {
		t.Error("title was not escaped")
	}
	if strings.Contains(got, "Part of:") || strings.Contains(got, "From:") {
		t.Error("optional metadata rendered without data")
	}
}

func TestRender_HTMLUserCSS(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithUserCSS(".app-content{max-width:40em}"))
	got, err := r.Render(context.Background(), fullDocument(), "<p>x</p>", FormatHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "<style>.app-content{max-width:40em}</style></head>") {
		t.Errorf("user CSS not injected before </head>")
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	for _, format := range []Format{FormatHTML, FormatMarkdown} {
		first, err := r.Render(context.Background(), fullDocument(), "<p>x</p>", format)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _ := r.Render(context.Background(), fullDocument(), "<p>x</p>", format)
		if first != second {
			t.Errorf("%s output not deterministic", format)
		}
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	if _, err := r.Render(context.Background(), fullDocument(), "", Format("docx")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, fullDocument(), "", FormatHTML); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRender_DateFormat(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithDateFormat("iso"))
	got, err := r.Render(context.Background(), fullDocument(), "Body", FormatMarkdown)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, "> **Published:** 2024-03-05") {
		t.Errorf("published line not in iso form:\n%s", got)
	}

	if _, err := New(assets.NewEmbeddedLoader(), WithDateFormat("[oops")); err == nil {
		t.Error("expected error for invalid date format")
	}
}

func TestNew_TemplateLoadFailure(t *testing.T) {
	t.Parallel()

	_, err := New(&stubLoader{failTemplate: true})
	if !errors.Is(err, ErrTemplateLoad) {
		t.Errorf("error = %v, want ErrTemplateLoad", err)
	}
}

func TestTypeLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"blog":         "Blog",
		"news":         "News",
		"announcement": "Announcement",
		"":             "",
	}
	for in, want := range tests {
		if got := TypeLabel(in); got != want {
			t.Errorf("TypeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
