package pipeline

import (
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters so they pass
// through goldmark unchanged; ConvertMarkPlaceholders turns them into <mark>.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)

	// Dash artifacts left by generation.
	dashOnlyLine    = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)
	headingDashTail = regexp.MustCompile(`(?m)^(#+[ \t]+.*?)[ \t]*-{3,}[ \t]*$`)
	doubleDashTail  = regexp.MustCompile(`(?m)^(.*?\S)[ \t]*-{3,}[ \t]*-{3,}[ \t]*$`)
	lineDashTail    = regexp.MustCompile(`(?m)^(.*?\S)[ \t]*-{3,}[ \t]*$`)
)

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// StripTitle removes the first line when it repeats the document title as a
// level-one heading. Only the very first line is considered.
func StripTitle(body, title string) string {
	body = normalizeLineEndings(body)
	title = strings.TrimSpace(title)
	if title == "" {
		return strings.TrimSpace(body)
	}

	first, rest, _ := strings.Cut(body, "\n")
	if heading, ok := strings.CutPrefix(strings.TrimSpace(first), "#"); ok && strings.TrimSpace(heading) == title {
		body = rest
	}
	return strings.TrimSpace(body)
}

// CleanDashes removes horizontal-rule artifacts: lines made only of dashes
// are blanked and trailing dash runs are cut from headings and text lines.
func CleanDashes(content string) string {
	content = dashOnlyLine.ReplaceAllString(content, "")
	content = headingDashTail.ReplaceAllString(content, "$1")
	content = doubleDashTail.ReplaceAllString(content, "$1")
	content = lineDashTail.ReplaceAllString(content, "$1")
	return content
}

// Preprocess applies title stripping and dash cleanup.
func Preprocess(body, title string) string {
	return CleanDashes(StripTitle(body, title))
}

// SplitBlocks splits content on blank-line boundaries. A blank line inside
// an open code fence does not split, so strings.Join(blocks, "\n\n")
// always reconstructs content.
func SplitBlocks(content string) []string {
	if content == "" {
		return nil
	}
	parts := strings.Split(content, "\n\n")
	blocks := make([]string, 0, len(parts))

	var pending strings.Builder
	open := false
	for _, part := range parts {
		if open {
			pending.WriteString("\n\n")
			pending.WriteString(part)
		} else {
			pending.Reset()
			pending.WriteString(part)
		}
		if countFences(part)%2 == 1 {
			open = !open
		}
		if !open {
			blocks = append(blocks, pending.String())
		}
	}
	if open {
		blocks = append(blocks, pending.String())
	}
	return blocks
}

// countFences counts lines that open or close a code fence.
func countFences(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			n++
		}
	}
	return n
}

// PreprocessPreview prepares editor markdown for goldmark: normalized line
// endings, ==highlight== placeholders, at most one blank line in a row.
func PreprocessPreview(content string) string {
	content = normalizeLineEndings(content)
	content = highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// ConvertMarkPlaceholders converts highlight placeholders to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
