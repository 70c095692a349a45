package assets

import "errors"

// AssetResolver tries a custom directory first and falls back to the
// embedded assets when the custom one does not carry the requested asset.
type AssetResolver struct {
	custom   AssetLoader // nil when no custom path is configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath means
// embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

func (r *AssetResolver) LoadPrompt(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadPrompt(name) })
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

func (r *AssetResolver) loadWithFallback(load func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded)
	}
	content, err := load(r.custom)
	if err == nil {
		return content, nil
	}
	// Validation and I/O errors are not masked by the fallback.
	if !isNotFoundError(err) {
		return "", err
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrPromptNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)
