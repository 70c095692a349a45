package pipeline

import (
	"context"
	"strings"
)

// CSSInjector adds a stylesheet to a rendered HTML document.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection inserts CSS as a <style> block.
type CSSInjection struct{}

var _ CSSInjector = (*CSSInjection)(nil)

// InjectCSS inserts a <style> block before </head>, after <body>, or at the
// start of the document, whichever is found first.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if strings.TrimSpace(cssContent) == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			pos := idx + closeIdx + 1
			return htmlContent[:pos] + styleBlock + htmlContent[pos:]
		}
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the CSS cannot close the style element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
