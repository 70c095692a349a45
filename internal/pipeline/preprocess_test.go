package pipeline

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// StripTitle
// ---------------------------------------------------------------------------

func TestStripTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		title string
		want  string
	}{
		{
			name:  "duplicated title removed",
			body:  "# Test Post\n\nHello world.",
			title: "Test Post",
			want:  "Hello world.",
		},
		{
			name:  "no space after hash",
			body:  "#Test Post\nHello",
			title: "Test Post",
			want:  "Hello",
		},
		{
			name:  "only the first line is considered",
			body:  "Intro\n\n# Test Post\n\nBody",
			title: "Test Post",
			want:  "Intro\n\n# Test Post\n\nBody",
		},
		{
			name:  "different heading kept",
			body:  "# Another Title\n\nBody",
			title: "Test Post",
			want:  "# Another Title\n\nBody",
		},
		{
			name:  "regex characters in title are literal",
			body:  "# C++ (beta) guide?\n\nBody",
			title: "C++ (beta) guide?",
			want:  "Body",
		},
		{
			name:  "crlf normalized",
			body:  "# Test Post\r\n\r\nHello",
			title: "Test Post",
			want:  "Hello",
		},
		{
			name:  "level-two heading kept",
			body:  "## Test Post\n\nBody",
			title: "Test Post",
			want:  "## Test Post\n\nBody",
		},
		{
			name:  "invalid utf-8 title",
			body:  "# \xe8\n\nBody",
			title: "\xe8",
			want:  "Body",
		},
		{
			name:  "invalid utf-8 title not in body",
			body:  "0",
			title: "\xe8",
			want:  "0",
		},
		{
			name:  "empty title only trims",
			body:  "\n\n# Heading\n\n",
			title: "",
			want:  "# Heading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StripTitle(tt.body, tt.title); got != tt.want {
				t.Errorf("StripTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// CleanDashes
// ---------------------------------------------------------------------------

func TestCleanDashes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "dash-only line removed",
			in:   "Before\n------------------\nAfter",
			want: "Before\n\nAfter",
		},
		{
			name: "heading trailing dashes",
			in:   "## Section ---",
			want: "## Section",
		},
		{
			name: "text trailing dashes",
			in:   "Some text -----",
			want: "Some text",
		},
		{
			name: "dashes glued to text",
			in:   "Summary---",
			want: "Summary",
		},
		{
			name: "double dash run",
			in:   "Some text --- ---",
			want: "Some text",
		},
		{
			name: "table separator kept",
			in:   "| A | B |\n|---|---|",
			want: "| A | B |\n|---|---|",
		},
		{
			name: "hyphenated words kept",
			in:   "A well-known long-term plan",
			want: "A well-known long-term plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CleanDashes(tt.in); got != tt.want {
				t.Errorf("CleanDashes(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// SplitBlocks
// ---------------------------------------------------------------------------

func TestSplitBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "paragraphs",
			in:   "one\n\ntwo\n\nthree",
			want: []string{"one", "two", "three"},
		},
		{
			name: "blank line inside fence",
			in:   "a\n\n```go\nx := 1\n\ny := 2\n```\n\nb",
			want: []string{"a", "```go\nx := 1\n\ny := 2\n```", "b"},
		},
		{
			name: "unclosed fence swallows the rest",
			in:   "```\ncode\n\nmore",
			want: []string{"```\ncode\n\nmore"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SplitBlocks(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitBlocks() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("block[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if joined := strings.Join(got, "\n\n"); joined != tt.in {
				t.Errorf("join = %q, want %q", joined, tt.in)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Preview preprocessing
// ---------------------------------------------------------------------------

func TestPreprocessPreview(t *testing.T) {
	t.Parallel()

	got := ConvertMarkPlaceholders(PreprocessPreview("a ==b== c\r\n\r\n\r\n\r\nd"))
	want := "a <mark>b</mark> c\n\nd"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
