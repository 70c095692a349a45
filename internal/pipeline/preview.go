package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrPreviewConversion indicates the preview renderer failed.
var ErrPreviewConversion = errors.New("preview conversion failed")

// Previewer renders editor markdown as an HTML fragment.
type Previewer interface {
	Preview(ctx context.Context, markdown string) (string, error)
}

// GoldmarkPreviewer renders CommonMark with GFM using goldmark.
type GoldmarkPreviewer struct {
	md goldmark.Markdown
}

var _ Previewer = (*GoldmarkPreviewer)(nil)

// NewGoldmarkPreviewer creates a previewer with GFM, footnotes, heading IDs
// and class-based code highlighting.
func NewGoldmarkPreviewer() *GoldmarkPreviewer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// Raw HTML stays escaped; ==highlight== goes through placeholders.
		),
	)
	return &GoldmarkPreviewer{md: md}
}

// Preview converts markdown to an HTML fragment. Goldmark has no context
// support, so conversion runs in a goroutine and the caller stops waiting
// on cancellation.
func (p *GoldmarkPreviewer) Preview(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := p.md.Convert([]byte(PreprocessPreview(markdown)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrPreviewConversion, err)}
			return
		}
		done <- result{html: ConvertMarkPlaceholders(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
