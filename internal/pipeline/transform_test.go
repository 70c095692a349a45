package pipeline

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Markdown target
// ---------------------------------------------------------------------------

func TestTransform_Markdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		title string
		want  string
	}{
		{
			name:  "title stripped and heading promoted",
			body:  "# Test Post\n\nHello world.\n\n## Section\n\nMore text.",
			title: "Test Post",
			want:  "Hello world.\n\n### Section\n\nMore text.",
		},
		{
			name: "only the first heading line is promoted",
			body: "## One\n## Two",
			want: "### One\n## Two",
		},
		{
			name: "nested list reindented",
			body: "- a\n    - b\n        - c\n- d",
			want: "- a\n  - b\n    - c\n- d",
		},
		{
			name: "ordered list renumbered",
			body: "1. first\n5. second\n3. third",
			want: "1. first\n2. second\n3. third",
		},
		{
			name: "nested ordered list numbered per level",
			body: "1. a\n   1. a1\n   7. a2\n2. b",
			want: "1. a\n  1. a1\n  2. a2\n2. b",
		},
		{
			name: "table separator synthesized",
			body: "| Name | Role |\n| Ada | Engineer |",
			want: "| Name | Role |\n|:---:|:---:|\n| Ada | Engineer |",
		},
		{
			name: "existing separator kept",
			body: "| A | B |\n|---|---|\n| 1 | 2 |",
			want: "| A | B |\n|---|---|\n| 1 | 2 |",
		},
		{
			name: "blockquote lines prefixed",
			body: "> first\nsecond",
			want: "> first\n> second",
		},
		{
			name: "code fence default language",
			body: "```\nx := 1\n```",
			want: "```plaintext\nx := 1\n```",
		},
		{
			name: "code fence keeps blank lines",
			body: "```go\na()\n\nb()\n```",
			want: "```go\na()\n\nb()\n```",
		},
		{
			name: "highlight becomes bold",
			body: "This is ==important== text.",
			want: "This is **important** text.",
		},
		{
			name: "highlight inside code span untouched",
			body: "Use `a==b==c` here.",
			want: "Use `a==b==c` here.",
		},
		{
			name: "dash rule removed",
			body: "Intro\n\n------------------\n\nOutro",
			want: "Intro\n\nOutro",
		},
	}

	tr := NewBlockTransformer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tr.Transform(tt.body, tt.title, TargetMarkdown); got != tt.want {
				t.Errorf("Transform() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestTransform_TableOfContents(t *testing.T) {
	t.Parallel()

	tr := NewBlockTransformer()

	t.Run("three headings produce a TOC", func(t *testing.T) {
		t.Parallel()

		got := tr.Transform("# Overview\n\nText\n\n## Key Facts\n\n## What's next?", "", TargetMarkdown)
		wantPrefix := "\n## Table of Contents\n\n" +
			"- [Overview](#overview)\n" +
			"  - [Key Facts](#key-facts)\n" +
			"  - [What's next?](#whats-next)\n\n---\n\n" +
			"## Overview"
		if !strings.HasPrefix(got, wantPrefix) {
			t.Errorf("Transform() =\n%q\nwant prefix\n%q", got, wantPrefix)
		}
	})

	t.Run("two headings produce no TOC", func(t *testing.T) {
		t.Parallel()

		got := tr.Transform("## One\n\nText\n\n## Two", "", TargetMarkdown)
		if strings.Contains(got, "Table of Contents") {
			t.Errorf("unexpected TOC in %q", got)
		}
	})

	t.Run("headings in code fences are not counted", func(t *testing.T) {
		t.Parallel()

		got := tr.Transform("## One\n\n```\n# a\n# b\n```\n\n## Two", "", TargetMarkdown)
		if strings.Contains(got, "Table of Contents") {
			t.Errorf("unexpected TOC in %q", got)
		}
	})
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"What's new in 2024?", "whats-new-in-2024"},
		{"Already-hyphenated  words", "already-hyphenated-words"},
		{"**Bold**", "bold"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInlineMarkdown_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain",
		"==mark== and **bold**",
		"`code ==x==` then ==y==",
		"[link](https://www.gov.uk)",
	}
	for _, in := range inputs {
		once := InlineMarkdown(in)
		if twice := InlineMarkdown(once); twice != once {
			t.Errorf("InlineMarkdown not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// ---------------------------------------------------------------------------
// HTML target
// ---------------------------------------------------------------------------

func TestTransform_HTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unordered list",
			body: "- a\n- b\n- c",
			want: "<ul><li>a</li><li>b</li><li>c</li></ul>",
		},
		{
			name: "ordered list",
			body: "1. a\n2. b",
			want: "<ol><li>a</li><li>b</li></ol>",
		},
		{
			name: "nested items flattened",
			body: "- a\n  - b",
			want: "<ul><li>a</li><li>b</li></ul>",
		},
		{
			name: "headings",
			body: "# One\n\n## Two\n\n### Three",
			want: "<h1>One</h1>\n\n<h2>Two</h2>\n\n<h3>Three</h3>",
		},
		{
			name: "only the first quote line converted",
			body: "> first\n> second",
			want: "<blockquote>first</blockquote>\n&gt; second",
		},
		{
			name: "code escaped",
			body: "```go\nif a < b {}\n```",
			want: "<pre><code>if a &lt; b {}</code></pre>",
		},
		{
			name: "paragraph with inline spans",
			body: "Read **this** and *that*, ~~not this~~, `<tag>` and ==key==.",
			want: "<p>Read <strong>this</strong> and <em>that</em>, <del>not this</del>, <code>&lt;tag&gt;</code> and <strong>key</strong>.</p>",
		},
		{
			name: "link",
			body: "Visit [GOV.UK](https://www.gov.uk).",
			want: `<p>Visit <a href="https://www.gov.uk" class="govuk-link">GOV.UK</a>.</p>`,
		},
		{
			name: "tag-prefixed paragraph escaped, not wrapped",
			body: "<div>raw</div>",
			want: "&lt;div&gt;raw&lt;/div&gt;",
		},
		{
			name: "empty blocks dropped",
			body: "a\n\n   \n\nb",
			want: "<p>a</p>\n\n<p>b</p>",
		},
	}

	tr := NewBlockTransformer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tr.Transform(tt.body, "", TargetHTML); got != tt.want {
				t.Errorf("Transform() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestTransform_HTMLTable(t *testing.T) {
	t.Parallel()

	got := NewBlockTransformer().Transform("| A | B |\n|---|---|\n| 1 | 2 |", "", TargetHTML)

	for _, want := range []string{
		`<table class="govuk-table">`,
		`<th scope="col" class="govuk-table__header">A</th>`,
		`<td class="govuk-table__cell">2</td>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if n := strings.Count(got, `<tr class="govuk-table__row">`); n != 2 {
		t.Errorf("rows = %d, want 2 (separator row must be skipped)", n)
	}
}

func TestTransform_SyntaxHighlighting(t *testing.T) {
	t.Parallel()

	body := "```go\nfunc main() {}\n```"

	plain := NewBlockTransformer().Transform(body, "", TargetHTML)
	if !strings.HasPrefix(plain, "<pre><code>") {
		t.Errorf("default output = %q, want plain pre/code", plain)
	}

	highlighted := NewBlockTransformer(WithSyntaxHighlighting(true)).Transform(body, "", TargetHTML)
	if !strings.Contains(highlighted, `class="chroma"`) {
		t.Errorf("highlighted output = %q, want chroma classes", highlighted)
	}
}

func TestTransform_Deterministic(t *testing.T) {
	t.Parallel()

	body := "# Doc\n\n## A\n\n- x\n- y\n\n| a | b |\n| 1 | 2 |\n\n> q\n\n```\ncode\n```"
	tr := NewBlockTransformer()
	for _, target := range []Target{TargetMarkdown, TargetHTML} {
		first := tr.Transform(body, "Doc", target)
		for i := 0; i < 3; i++ {
			if got := tr.Transform(body, "Doc", target); got != first {
				t.Fatalf("%s output changed between runs", target)
			}
		}
	}
}

func TestTransform_InvalidUTF8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body  string
		title string
	}{
		{"0", "\xe8"},
		{"# \xe8\n\n## \xff\xfe\n\n- \xc3\n\n| \x80 | b |", "\xe8"},
		{"> \xed\xa0\x80 quote", "\xf0\x28"},
	}

	tr := NewBlockTransformer()
	for _, tt := range tests {
		for _, target := range []Target{TargetMarkdown, TargetHTML} {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("Transform(%q, %q, %s) panicked: %v", tt.body, tt.title, target, r)
					}
				}()
				_ = tr.Transform(tt.body, tt.title, target)
			}()
		}
	}
}

func TestInlineHTML_Escaping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "script text escaped",
			in:   "Hi <script>alert(1)</script>",
			want: "Hi &lt;script&gt;alert(1)&lt;/script&gt;",
		},
		{
			name: "markup inside emphasis escaped",
			in:   "**<b>x</b>** & *\"y\"*",
			want: "<strong>&lt;b&gt;x&lt;/b&gt;</strong> &amp; <em>&#34;y&#34;</em>",
		},
		{
			name: "javascript link reduced to text",
			in:   "[click](javascript:alert(1))",
			want: "click)",
		},
		{
			name: "javascript link without parens reduced to text",
			in:   "[click](javascript:void)",
			want: "click",
		},
		{
			name: "data link reduced to text",
			in:   "[img](data:text/html;base64,PHNjcmlwdD4=)",
			want: "img",
		},
		{
			name: "mixed-case scheme rejected",
			in:   "[x](JaVaScRiPt:void)",
			want: "x",
		},
		{
			name: "relative link reduced to text",
			in:   "[x](/guidance)",
			want: "x",
		},
		{
			name: "mailto kept",
			in:   "[email](mailto:help@example.gov.uk)",
			want: `<a href="mailto:help@example.gov.uk" class="govuk-link">email</a>`,
		},
		{
			name: "quote in href cannot break the attribute",
			in:   `[x](https://a.gov.uk/"onmouseover="y)`,
			want: `<a href="https://a.gov.uk/&#34;onmouseover=&#34;y" class="govuk-link">x</a>`,
		},
		{
			name: "query ampersand escaped",
			in:   "[q](https://a.gov.uk/?a=1&b=2)",
			want: `<a href="https://a.gov.uk/?a=1&amp;b=2" class="govuk-link">q</a>`,
		},
		{
			name: "link text escaped",
			in:   "[<i>x</i>](https://a.gov.uk)",
			want: `<a href="https://a.gov.uk" class="govuk-link">&lt;i&gt;x&lt;/i&gt;</a>`,
		},
		{
			name: "code span escaped once",
			in:   "`a & b`",
			want: "<code>a &amp; b</code>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InlineHTML(tt.in); got != tt.want {
				t.Errorf("InlineHTML(%q) =\n%q\nwant\n%q", tt.in, got, tt.want)
			}
		})
	}
}
