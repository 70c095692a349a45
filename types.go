package govdraft

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-govdraft/internal/synthesis"
)

// ContentType selects template wording and generation prompts.
type ContentType = synthesis.ContentType

// Content types.
const (
	ContentBlog         = synthesis.ContentBlog
	ContentNews         = synthesis.ContentNews
	ContentAnnouncement = synthesis.ContentAnnouncement
)

// ContentTypes lists the supported content types.
func ContentTypes() []ContentType {
	return append([]ContentType(nil), synthesis.ContentTypes...)
}

// Author is the optional byline of a content item.
type Author struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// ContentItem is the unit that gets exported.
type ContentItem struct {
	Title      string      `json:"title"`
	Body       string      `json:"content"` // markdown
	Type       ContentType `json:"type"`
	Author     *Author     `json:"author,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	Images     []string    `json:"images,omitempty"` // carried, not rendered

	// CreatedAt is the publication date; zero means now.
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Validate checks that the item can be exported.
func (c *ContentItem) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyTitle)
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyTitle)
	}
	if strings.TrimSpace(c.Body) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrEmptyBody)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidContentType, c.Type)
	}
	return nil
}

// Format is an export format.
type Format string

// Export formats. FormatPDF produces print-ready HTML; no binary PDF is
// rendered.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// formatSpec describes how a format is produced and delivered.
type formatSpec struct {
	markdown  bool
	mimeType  string
	extension string
}

var formats = map[Format]formatSpec{
	FormatHTML:     {mimeType: "text/html", extension: "html"},
	FormatMarkdown: {markdown: true, mimeType: "text/markdown", extension: "md"},
	FormatPDF:      {mimeType: "text/html", extension: "pdf"},
}

// ParseFormat validates s as an export format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := formats[f]; !ok {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatHTML, FormatMarkdown, FormatPDF}
}

// ExportResult is an exported document ready for download.
type ExportResult struct {
	Content  string
	Filename string // "{title}.{ext}"
	MIMEType string
}
