package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	headingLine    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	separatorRow   = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?\s*$`)
	slugStrip      = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// minTOCHeadings is the heading count above which a table of contents is
// generated.
const minTOCHeadings = 2

// writeMarkdown rewrites one classified block as markdown.
func writeMarkdown(b Block) string {
	text := strings.Trim(b.Raw, "\n")

	switch b.Kind {
	case KindRaw:
		return ""
	case KindHeading1, KindHeading2, KindHeading3:
		return InlineMarkdown("#" + text)
	case KindUnorderedList, KindOrderedList:
		return markdownList(text)
	case KindCodeFence:
		return markdownFence(text, b.Language)
	case KindBlockquote:
		return markdownQuote(text)
	case KindTable:
		return markdownTable(text)
	default:
		return InlineMarkdown(text)
	}
}

type listItem struct {
	level   int
	ordered bool
	text    string
}

// parseList reads list lines and derives nesting levels from their
// leading whitespace. A line indented deeper than its predecessor opens a
// new level; a shallower line closes levels until its indent fits.
func parseList(text string) []listItem {
	var (
		items   []listItem
		indents []int
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		item := listItem{}
		var indent string
		if m := orderedItem.FindStringSubmatch(line); m != nil {
			indent, item.text, item.ordered = m[1], m[2], true
		} else if m := unorderedItem.FindStringSubmatch(line); m != nil {
			indent, item.text = m[1], m[2]
		} else {
			continue
		}
		width := indentWidth(indent)

		for len(indents) > 0 && width < indents[len(indents)-1] {
			indents = indents[:len(indents)-1]
		}
		if len(indents) == 0 || width > indents[len(indents)-1] {
			indents = append(indents, width)
		}
		item.level = len(indents) - 1
		item.text = strings.TrimSpace(item.text)
		items = append(items, item)
	}
	return items
}

func indentWidth(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += 4
			continue
		}
		n++
	}
	return n
}

func markdownList(text string) string {
	items := parseList(text)
	lines := make([]string, 0, len(items))
	counters := []int{}

	for _, it := range items {
		if len(counters) > it.level+1 {
			counters = counters[:it.level+1]
		}
		for len(counters) < it.level+1 {
			counters = append(counters, 0)
		}

		marker := "-"
		if it.ordered {
			counters[it.level]++
			marker = strconv.Itoa(counters[it.level]) + "."
		}
		lines = append(lines, strings.Repeat("  ", it.level)+marker+" "+InlineMarkdown(it.text))
	}
	return strings.Join(lines, "\n")
}

// splitFence separates a fenced block into its code and any text that
// follows the closing fence. A missing closing fence takes the rest.
func splitFence(text string) (code, trailing string) {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return "", ""
	}
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
			return strings.Join(lines[1:i], "\n"), strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	return strings.Join(lines[1:], "\n"), ""
}

func markdownFence(text, lang string) string {
	code, trailing := splitFence(text)
	var sb strings.Builder
	sb.WriteString("```" + lang + "\n")
	if code != "" {
		sb.WriteString(code + "\n")
	}
	sb.WriteString("```")
	if trailing != "" {
		sb.WriteString("\n" + InlineMarkdown(trailing))
	}
	return sb.String()
}

func markdownQuote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, ">"):
		case strings.TrimSpace(line) == "":
			line = ">"
		default:
			line = "> " + line
		}
		lines[i] = InlineMarkdown(line)
	}
	return strings.Join(lines, "\n")
}

func markdownTable(text string) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = InlineMarkdown(lines[i])
	}
	if len(lines) > 1 && separatorRow.MatchString(lines[1]) {
		return strings.Join(lines, "\n")
	}

	sep := "|" + strings.Repeat(":---:|", len(tableCells(lines[0])))
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[0], sep)
	out = append(out, lines[1:]...)
	return strings.Join(out, "\n")
}

// tableCells splits a table row into trimmed cells, ignoring outer pipes.
func tableCells(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	cells := strings.Split(row, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// TOCEntry is one heading found in a formatted markdown body.
type TOCEntry struct {
	Level int
	Text  string
	Slug  string
}

// Headings lists heading lines outside code fences, in document order.
// Level is the number of '#' minus one, never below zero.
func Headings(markdown string) []TOCEntry {
	var (
		entries []TOCEntry
		inFence bool
	)
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		entries = append(entries, TOCEntry{
			Level: max(len(m[1])-1, 0),
			Text:  text,
			Slug:  Slugify(text),
		})
	}
	return entries
}

// Slugify builds a heading anchor: lower case, punctuation stripped,
// whitespace runs replaced by hyphens.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = slugStrip.ReplaceAllString(s, "")
	return slugWhitespace.ReplaceAllString(strings.TrimSpace(s), "-")
}

// TableOfContents returns the TOC block for a formatted markdown body, or
// "" when it has two headings or fewer.
func TableOfContents(markdown string) string {
	headings := Headings(markdown)
	if len(headings) <= minTOCHeadings {
		return ""
	}

	entries := make([]string, 0, len(headings))
	for _, h := range headings {
		indent := strings.Repeat("  ", max(h.Level-1, 0))
		entries = append(entries, fmt.Sprintf("%s- [%s](#%s)", indent, h.Text, h.Slug))
	}
	return "\n## Table of Contents\n\n" + strings.Join(entries, "\n") + "\n\n---\n\n"
}
