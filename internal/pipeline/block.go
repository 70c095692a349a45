package pipeline

import (
	"regexp"
	"strings"
)

// BlockKind identifies how a block of markdown is rewritten.
type BlockKind int

const (
	// KindRaw is a whitespace-only block; writers drop it.
	KindRaw BlockKind = iota
	KindHeading1
	KindHeading2
	KindHeading3
	KindUnorderedList
	KindOrderedList
	KindCodeFence
	KindBlockquote
	KindTable
	KindParagraph
)

var blockKindNames = map[BlockKind]string{
	KindRaw:           "raw",
	KindHeading1:      "heading1",
	KindHeading2:      "heading2",
	KindHeading3:      "heading3",
	KindUnorderedList: "unordered-list",
	KindOrderedList:   "ordered-list",
	KindCodeFence:     "code-fence",
	KindBlockquote:    "blockquote",
	KindTable:         "table",
	KindParagraph:     "paragraph",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// HeadingLevel returns 1-3 for heading kinds and 0 otherwise.
func (k BlockKind) HeadingLevel() int {
	switch k {
	case KindHeading1:
		return 1
	case KindHeading2:
		return 2
	case KindHeading3:
		return 3
	default:
		return 0
	}
}

// Block is one blank-line separated chunk of the body.
type Block struct {
	Kind BlockKind
	Raw  string

	// Language is the code fence language, "plaintext" when absent.
	Language string
}

var (
	unorderedItem = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
	orderedItem   = regexp.MustCompile(`^(\s*)\d+\.\s+(.*)$`)
)

const defaultFenceLang = "plaintext"

// Classify determines the kind of a raw block. Checks run in a fixed order
// and the first match wins, so a block starting with a heading line is a
// heading even when list lines follow it.
func Classify(raw string) Block {
	text := strings.Trim(raw, "\n")
	b := Block{Raw: raw}

	switch {
	case strings.TrimSpace(text) == "":
		b.Kind = KindRaw
	case strings.HasPrefix(text, "# "):
		b.Kind = KindHeading1
	case strings.HasPrefix(text, "## "):
		b.Kind = KindHeading2
	case strings.HasPrefix(text, "### "):
		b.Kind = KindHeading3
	case isList(text):
		b.Kind = KindUnorderedList
		if orderedItem.MatchString(firstLine(text)) {
			b.Kind = KindOrderedList
		}
	case strings.HasPrefix(text, "```"):
		b.Kind = KindCodeFence
		b.Language = fenceLang(firstLine(text))
	case strings.HasPrefix(text, ">"):
		b.Kind = KindBlockquote
	case isTable(text):
		b.Kind = KindTable
	default:
		b.Kind = KindParagraph
	}
	return b
}

// ClassifyAll splits content into blocks and classifies each one.
func ClassifyAll(content string) []Block {
	raws := SplitBlocks(content)
	blocks := make([]Block, 0, len(raws))
	for _, raw := range raws {
		blocks = append(blocks, Classify(raw))
	}
	return blocks
}

// isList reports whether every non-blank line is a list item.
func isList(text string) bool {
	seen := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !unorderedItem.MatchString(line) && !orderedItem.MatchString(line) {
			return false
		}
		seen = true
	}
	return seen
}

// isTable reports whether at least two lines contain a pipe.
func isTable(text string) bool {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "|") {
			n++
		}
	}
	return n >= 2
}

func fenceLang(line string) string {
	lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
	if lang == "" {
		return defaultFenceLang
	}
	if fields := strings.Fields(lang); len(fields) > 0 {
		return fields[0]
	}
	return defaultFenceLang
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
