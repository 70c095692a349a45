package assets

// Built-in asset names.
const (
	DefaultStyleName = "govuk"
	HTMLTemplateName = "document-html"
	MDTemplateName   = "document-markdown"
)

// kind describes one family of assets: where it lives and how it is named.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".tmpl", notFound: ErrTemplateNotFound}
	promptKind   = kind{dir: "prompts", ext: ".txt", notFound: ErrPromptNotFound}
)

// AssetLoader defines the contract for loading styles, templates and prompts.
type AssetLoader interface {
	// LoadStyle loads a CSS stylesheet by name (without extension).
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a document template by name (without extension).
	LoadTemplate(name string) (string, error)

	// LoadPrompt loads a prompt text by name (without extension).
	LoadPrompt(name string) (string, error)
}
