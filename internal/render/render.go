// Package render wraps a transformed body and its metadata into a complete
// GOV.UK styled HTML page or a Markdown document.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/alnah/go-govdraft/internal/assets"
	"github.com/alnah/go-govdraft/internal/dateutil"
	"github.com/alnah/go-govdraft/internal/pipeline"
)

// Sentinel errors.
var (
	ErrUnknownFormat  = errors.New("unknown render format")
	ErrTemplateLoad   = errors.New("loading document template failed")
	ErrTemplateRender = errors.New("document template rendering failed")
)

// Format is the document dialect produced by Render.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Author identifies who wrote the document.
type Author struct {
	Name string
	Role string
}

// Document carries the metadata rendered around the body.
type Document struct {
	Title      string
	Type       string
	Author     *Author
	Categories []string

	// PublishedAt is the publication date; zero means now.
	PublishedAt time.Time
}

// Renderer produces complete documents from a transformed body.
type Renderer interface {
	Render(ctx context.Context, doc Document, body string, format Format) (string, error)
}

// TemplateRenderer renders documents with the embedded templates.
type TemplateRenderer struct {
	html     *htmltemplate.Template
	markdown *texttemplate.Template
	style    string

	userCSS    string
	dateFormat string
	injector   pipeline.CSSInjector
	now        func() time.Time
}

var _ Renderer = (*TemplateRenderer)(nil)

// Option configures a TemplateRenderer.
type Option func(*TemplateRenderer)

// WithUserCSS appends a user stylesheet to HTML documents.
func WithUserCSS(css string) Option {
	return func(r *TemplateRenderer) {
		r.userCSS = css
	}
}

// WithClock sets the time source for "now" fields.
func WithClock(now func() time.Time) Option {
	return func(r *TemplateRenderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithDateFormat sets the token format (or preset name) of the
// publication date. The default is the en-GB long date.
func WithDateFormat(format string) Option {
	return func(r *TemplateRenderer) {
		r.dateFormat = format
	}
}

// New loads and parses the document templates and the GOV.UK stylesheet.
func New(loader assets.AssetLoader, opts ...Option) (*TemplateRenderer, error) {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}

	style, err := loader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	htmlSrc, err := loader.LoadTemplate(assets.HTMLTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	mdSrc, err := loader.LoadTemplate(assets.MDTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}

	htmlTmpl, err := htmltemplate.New(assets.HTMLTemplateName).Parse(htmlSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateLoad, assets.HTMLTemplateName, err)
	}
	mdTmpl, err := texttemplate.New(assets.MDTemplateName).Parse(mdSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateLoad, assets.MDTemplateName, err)
	}

	r := &TemplateRenderer{
		html:     htmlTmpl,
		markdown: mdTmpl,
		style:    style,
		injector: &pipeline.CSSInjection{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.dateFormat != "" {
		if _, err := dateutil.ParseDateFormat(r.dateFormat); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render wraps body in the document template for format. Output depends
// only on its inputs and the clock.
func (r *TemplateRenderer) Render(ctx context.Context, doc Document, body string, format Format) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch format {
	case FormatHTML:
		return r.renderHTML(ctx, doc, body)
	case FormatMarkdown:
		return r.renderMarkdown(doc, body)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type htmlData struct {
	Title      string
	Style      htmltemplate.CSS
	Published  string
	Author     *Author
	Categories []string
	Body       htmltemplate.HTML
}

func (r *TemplateRenderer) renderHTML(ctx context.Context, doc Document, body string) (string, error) {
	data := htmlData{
		Title:      doc.Title,
		Style:      htmltemplate.CSS(r.style), // #nosec G203 -- embedded stylesheet
		Published:  r.publishedDate(doc),
		Author:     doc.Author,
		Categories: doc.Categories,
		Body:       htmltemplate.HTML(body), // #nosec G203 -- body is produced by the transformer
	}

	var buf bytes.Buffer
	if err := r.html.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return r.injector.InjectCSS(ctx, buf.String(), r.userCSS), nil
}

type markdownData struct {
	Title          string
	Metadata       string
	Body           string
	LastUpdated    string
	TypeLabel      string
	CategoriesLine string
}

func (r *TemplateRenderer) renderMarkdown(doc Document, body string) (string, error) {
	label := TypeLabel(doc.Type)
	data := markdownData{
		Title:       doc.Title,
		Metadata:    r.metadataBlock(doc, label),
		Body:        body,
		LastUpdated: dateutil.FormatLongTimestamp(r.now()),
		TypeLabel:   label,
	}
	if len(doc.Categories) > 0 {
		data.CategoriesLine = "- Categories: " + strings.Join(doc.Categories, ", ")
	}

	var buf bytes.Buffer
	if err := r.markdown.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}

// metadataBlock builds the quoted header: type, author, date, categories.
func (r *TemplateRenderer) metadataBlock(doc Document, label string) string {
	lines := []string{"> **" + label + "**"}
	if doc.Author != nil && doc.Author.Name != "" {
		author := "> **Author:** " + doc.Author.Name
		if doc.Author.Role != "" {
			author += " (" + doc.Author.Role + ")"
		}
		lines = append(lines, author)
	}
	lines = append(lines, "> **Published:** "+r.publishedDate(doc))
	if len(doc.Categories) > 0 {
		quoted := make([]string, len(doc.Categories))
		for i, c := range doc.Categories {
			quoted[i] = "`" + c + "`"
		}
		lines = append(lines, "> **Categories:** "+strings.Join(quoted, ", "))
	}
	return strings.Join(lines, "\n")
}

func (r *TemplateRenderer) publishedDate(doc Document) string {
	t := r.publishedAt(doc)
	if r.dateFormat == "" {
		return dateutil.FormatLong(t)
	}
	s, err := dateutil.Format(t, r.dateFormat)
	if err != nil {
		return dateutil.FormatLong(t)
	}
	return s
}

func (r *TemplateRenderer) publishedAt(doc Document) time.Time {
	if doc.PublishedAt.IsZero() {
		return r.now()
	}
	return doc.PublishedAt
}

// TypeLabel capitalizes a content type key for display: "blog" -> "Blog".
func TypeLabel(contentType string) string {
	if contentType == "" {
		return ""
	}
	return strings.ToUpper(contentType[:1]) + contentType[1:]
}
