package pipeline

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		wantKind BlockKind
		wantLang string
	}{
		{name: "heading 1", raw: "# Title", wantKind: KindHeading1},
		{name: "heading 2", raw: "## Title", wantKind: KindHeading2},
		{name: "heading 3", raw: "### Title", wantKind: KindHeading3},
		{name: "heading 4 is a paragraph", raw: "#### Title", wantKind: KindParagraph},
		{name: "heading wins over list", raw: "## Steps\n- one\n- two", wantKind: KindHeading2},
		{name: "unordered list", raw: "- a\n- b", wantKind: KindUnorderedList},
		{name: "star and plus markers", raw: "* a\n+ b", wantKind: KindUnorderedList},
		{name: "ordered list", raw: "1. a\n2. b", wantKind: KindOrderedList},
		{name: "nested mixed list takes first line", raw: "- a\n  1. b", wantKind: KindUnorderedList},
		{name: "list with trailing text is a paragraph", raw: "- a\nplain", wantKind: KindParagraph},
		{name: "bold is not a list", raw: "**Bold** text", wantKind: KindParagraph},
		{name: "code fence with language", raw: "```go\nx := 1\n```", wantKind: KindCodeFence, wantLang: "go"},
		{name: "code fence default language", raw: "```\nx\n```", wantKind: KindCodeFence, wantLang: "plaintext"},
		{name: "blockquote", raw: "> quoted\nmore", wantKind: KindBlockquote},
		{name: "table", raw: "| a | b |\n| 1 | 2 |", wantKind: KindTable},
		{name: "single pipe line is a paragraph", raw: "a | b", wantKind: KindParagraph},
		{name: "paragraph", raw: "Hello world.", wantKind: KindParagraph},
		{name: "whitespace only", raw: " \n\t", wantKind: KindRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.raw)
			if got.Kind != tt.wantKind {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.wantKind)
			}
			if got.Language != tt.wantLang {
				t.Errorf("Classify(%q).Language = %q, want %q", tt.raw, got.Language, tt.wantLang)
			}
			if got.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.raw)
			}
		})
	}
}

func TestBlockKind_String(t *testing.T) {
	t.Parallel()

	if got := KindCodeFence.String(); got != "code-fence" {
		t.Errorf("String() = %q", got)
	}
	if got := BlockKind(99).String(); got != "unknown" {
		t.Errorf("String() = %q", got)
	}
	if KindHeading2.HeadingLevel() != 2 || KindParagraph.HeadingLevel() != 0 {
		t.Error("unexpected heading levels")
	}
}
