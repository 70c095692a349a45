package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	headingPrefix = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
	quotePrefix   = regexp.MustCompile(`^>\s?(.*)$`)
)

// writeHTML rewrites one classified block as an HTML fragment.
func (t *BlockTransformer) writeHTML(b Block) string {
	text := strings.Trim(b.Raw, "\n")

	switch b.Kind {
	case KindRaw:
		return ""
	case KindHeading1, KindHeading2, KindHeading3:
		return htmlHeading(text)
	case KindUnorderedList:
		return htmlList(text, "ul")
	case KindOrderedList:
		return htmlList(text, "ol")
	case KindCodeFence:
		return t.htmlFence(text, b.Language)
	case KindBlockquote:
		return htmlQuote(text)
	case KindTable:
		return htmlTable(text)
	default:
		return htmlParagraph(text)
	}
}

// htmlHeading converts the first line only; the rest of the block stays
// as inline-converted text.
func htmlHeading(text string) string {
	first, rest, hasRest := strings.Cut(text, "\n")
	m := headingPrefix.FindStringSubmatch(first)
	if m == nil {
		return htmlParagraph(text)
	}
	tag := "h" + strconv.Itoa(len(m[1]))
	out := "<" + tag + ">" + InlineHTML(strings.TrimSpace(m[2])) + "</" + tag + ">"
	if hasRest {
		out += "\n" + InlineHTML(rest)
	}
	return out
}

// htmlList flattens nested items into siblings of a single list.
func htmlList(text, tag string) string {
	var sb strings.Builder
	sb.WriteString("<" + tag + ">")
	for _, it := range parseList(text) {
		sb.WriteString("<li>" + InlineHTML(it.text) + "</li>")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

func (t *BlockTransformer) htmlFence(text, lang string) string {
	code, trailing := splitFence(text)
	code = strings.TrimSpace(code)

	out := ""
	if t.highlight {
		if highlighted, err := highlightCode(code, lang); err == nil {
			out = highlighted
		}
	}
	if out == "" {
		out = "<pre><code>" + html.EscapeString(code) + "</code></pre>"
	}
	if trailing != "" {
		out += "\n" + htmlParagraph(trailing)
	}
	return out
}

// htmlQuote converts the first quoted line only; later lines are kept.
func htmlQuote(text string) string {
	first, rest, hasRest := strings.Cut(text, "\n")
	m := quotePrefix.FindStringSubmatch(first)
	if m == nil {
		return htmlParagraph(text)
	}
	out := "<blockquote>" + InlineHTML(m[1]) + "</blockquote>"
	if hasRest {
		out += "\n" + InlineHTML(rest)
	}
	return out
}

func htmlTable(text string) string {
	lines := strings.Split(text, "\n")

	var sb strings.Builder
	sb.WriteString(`<table class="govuk-table">`)
	sb.WriteString(`<thead class="govuk-table__head"><tr class="govuk-table__row">`)
	for _, cell := range tableCells(lines[0]) {
		sb.WriteString(`<th scope="col" class="govuk-table__header">` + InlineHTML(cell) + "</th>")
	}
	sb.WriteString("</tr></thead>")

	sb.WriteString(`<tbody class="govuk-table__body">`)
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" || (i == 0 && separatorRow.MatchString(line)) {
			continue
		}
		sb.WriteString(`<tr class="govuk-table__row">`)
		for _, cell := range tableCells(line) {
			sb.WriteString(`<td class="govuk-table__cell">` + InlineHTML(cell) + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

func htmlParagraph(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	converted := InlineHTML(text)
	if strings.HasPrefix(text, "<") {
		return converted
	}
	return "<p>" + converted + "</p>"
}
