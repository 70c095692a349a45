package govdraft

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-govdraft/internal/dateutil"
	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/alnah/go-govdraft/internal/pipeline"
	"github.com/alnah/go-govdraft/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.Transformer = (*pipeline.BlockTransformer)(nil)
	_ pipeline.Previewer   = (*pipeline.GoldmarkPreviewer)(nil)
	_ render.Renderer      = (*render.TemplateRenderer)(nil)
)

// Exporter turns content items into styled HTML or Markdown documents.
// It holds no per-request state and is safe for concurrent use.
type Exporter struct {
	transformer pipeline.Transformer
	renderer    render.Renderer
	previewer   pipeline.Previewer
	log         *logger.Logger
}

// NewExporter creates an Exporter. Returns an error if the asset path is
// invalid or the document templates cannot be parsed.
func NewExporter(opts ...Option) (*Exporter, error) {
	o := applyOptions(opts)

	loader, err := o.loader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	renderer, err := render.New(loader,
		render.WithUserCSS(o.css),
		render.WithClock(o.now),
		render.WithDateFormat(o.dateFmt),
	)
	if errors.Is(err, dateutil.ErrInvalidDateFormat) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	return &Exporter{
		transformer: pipeline.NewBlockTransformer(pipeline.WithSyntaxHighlighting(o.highlight)),
		renderer:    renderer,
		previewer:   pipeline.NewGoldmarkPreviewer(),
		log:         o.log,
	}, nil
}

// Export validates item and renders it in format. The pdf format yields the
// HTML document under a .pdf filename.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Exporter) Export(ctx context.Context, item ContentItem, format Format) (result *ExportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("export panicked", "panic", fmt.Sprint(r))
			result, err = nil, fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	spec, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrUnsupportedFormat, format)
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, renderFormat := pipeline.TargetHTML, render.FormatHTML
	if spec.markdown {
		target, renderFormat = pipeline.TargetMarkdown, render.FormatMarkdown
	}

	body := e.transformer.Transform(item.Body, item.Title, target)
	doc, err := e.renderer.Render(ctx, toDocument(item), body, renderFormat)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	e.log.Debug("content exported", "format", string(format), "bytes", len(doc))
	return &ExportResult{
		Content:  doc,
		Filename: item.Title + "." + spec.extension,
		MIMEType: spec.mimeType,
	}, nil
}

// Preview renders markdown to an HTML fragment for on-screen preview.
func (e *Exporter) Preview(ctx context.Context, markdown string) (string, error) {
	return e.previewer.Preview(ctx, markdown)
}

func toDocument(item ContentItem) render.Document {
	doc := render.Document{
		Title:       item.Title,
		Type:        string(item.Type),
		Categories:  item.Categories,
		PublishedAt: item.CreatedAt,
	}
	if item.Author != nil && item.Author.Name != "" {
		doc.Author = &render.Author{Name: item.Author.Name, Role: item.Author.Role}
	}
	return doc
}
