package pipeline

import (
	"html"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	codeSpan      = regexp.MustCompile("`([^`\n]+)`")
	boldSpan      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	highlightSpan = regexp.MustCompile(`==([^=\n]+)==`)
	italicSpan    = regexp.MustCompile(`\*([^*\n]+)\*`)
	linkSpan      = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\s]+)\)`)
	strikeSpan    = regexp.MustCompile(`~~([^~\n]+)~~`)

	codeToken = regexp.MustCompile("\uE002(\\d+)\uE003")
)

// linkSchemes are the href schemes InlineHTML keeps.
var linkSchemes = []string{"http", "https", "mailto"}

// protectCode swaps code spans for numbered tokens so inline rules do not
// touch their content. The returned slice holds the original span bodies.
func protectCode(s string) (string, []string) {
	var spans []string
	out := codeSpan.ReplaceAllStringFunc(s, func(m string) string {
		spans = append(spans, codeSpan.FindStringSubmatch(m)[1])
		return "\uE002" + strconv.Itoa(len(spans)-1) + "\uE003"
	})
	return out, spans
}

func restoreCode(s string, spans []string, render func(string) string) string {
	if len(spans) == 0 {
		return s
	}
	return codeToken.ReplaceAllStringFunc(s, func(m string) string {
		i, err := strconv.Atoi(codeToken.FindStringSubmatch(m)[1])
		if err != nil || i >= len(spans) {
			return m
		}
		return render(spans[i])
	})
}

// InlineHTML converts inline markdown to HTML. All text is escaped, and a
// link whose target is not http, https or mailto is reduced to its text.
func InlineHTML(s string) string {
	s, spans := protectCode(s)
	s = html.EscapeString(s)
	s = boldSpan.ReplaceAllString(s, "<strong>$1</strong>")
	s = highlightSpan.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicSpan.ReplaceAllString(s, "<em>$1</em>")
	s = linkSpan.ReplaceAllStringFunc(s, htmlLink)
	s = strikeSpan.ReplaceAllString(s, "<del>$1</del>")
	return restoreCode(s, spans, func(code string) string {
		return "<code>" + html.EscapeString(code) + "</code>"
	})
}

// htmlLink renders an already escaped [text](href) match.
func htmlLink(m string) string {
	sub := linkSpan.FindStringSubmatch(m)
	text, href := sub[1], sub[2]
	u, err := url.Parse(html.UnescapeString(href))
	if err != nil || !slices.Contains(linkSchemes, strings.ToLower(u.Scheme)) {
		return text
	}
	return `<a href="` + href + `" class="govuk-link">` + text + `</a>`
}

// InlineMarkdown normalizes inline markdown. Only ==highlight== is
// rewritten (as bold); applying it twice changes nothing.
func InlineMarkdown(s string) string {
	if !strings.Contains(s, "==") {
		return s
	}
	s, spans := protectCode(s)
	s = highlightSpan.ReplaceAllString(s, "**$1**")
	return restoreCode(s, spans, func(code string) string {
		return "`" + code + "`"
	})
}
