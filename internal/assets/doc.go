// Package assets provides the stylesheet, document templates and prompt texts
// used to render exports and drive generation.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - custom directory on disk
//	    └── AssetResolver     - custom first, embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/{name}.css        # stylesheets (govuk)
//	├── templates/{name}.tmpl    # document-html, document-markdown
//	└── prompts/{name}.txt       # system-*, title-*, structure-*
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
