package pipeline

import "strings"

// Target selects the output dialect of the transformer.
type Target int

const (
	TargetMarkdown Target = iota
	TargetHTML
)

func (t Target) String() string {
	if t == TargetHTML {
		return "html"
	}
	return "markdown"
}

// Transformer rewrites a markdown body for export.
type Transformer interface {
	Transform(body, title string, target Target) string
}

// BlockTransformer classifies blank-line separated blocks and rewrites
// each one independently.
type BlockTransformer struct {
	highlight bool
}

// Compile-time interface check.
var _ Transformer = (*BlockTransformer)(nil)

// Option configures a BlockTransformer.
type Option func(*BlockTransformer)

// WithSyntaxHighlighting renders HTML code fences through chroma.
func WithSyntaxHighlighting(enabled bool) Option {
	return func(t *BlockTransformer) {
		t.highlight = enabled
	}
}

// NewBlockTransformer creates a transformer. Highlighting is off by default.
func NewBlockTransformer(opts ...Option) *BlockTransformer {
	t := &BlockTransformer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform preprocesses body, then rewrites every block for target.
// Markdown output gets a table of contents when it has more than two
// headings. Empty blocks are dropped.
func (t *BlockTransformer) Transform(body, title string, target Target) string {
	blocks := ClassifyAll(Preprocess(body, title))

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var out string
		if target == TargetHTML {
			out = t.writeHTML(b)
		} else {
			out = writeMarkdown(b)
		}
		if strings.TrimSpace(out) == "" {
			continue
		}
		parts = append(parts, out)
	}

	joined := strings.Join(parts, "\n\n")
	if target == TargetMarkdown {
		return TableOfContents(joined) + joined
	}
	return joined
}
