package govdraft

import (
	"time"

	"github.com/alnah/go-govdraft/internal/assets"
	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/alnah/go-govdraft/internal/search"
	"github.com/alnah/go-govdraft/internal/synthesis"
)

// Option configures an Exporter or a Drafter. Options that do not apply to
// the value being built are ignored.
type Option func(*options)

type options struct {
	css       string
	assetPath string
	highlight bool
	dateFmt   string
	now       func() time.Time
	log       *logger.Logger
	searcher  search.Searcher
	observer  synthesis.Observer
}

func defaultOptions() options {
	return options{
		now: time.Now,
		log: logger.Nop(),
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// loader returns the asset loader for the configured asset path.
func (o options) loader() (assets.AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(o.assetPath)
	if err != nil {
		return nil, err
	}
	return resolver, nil
}

// WithCSS appends custom CSS to exported HTML documents.
func WithCSS(css string) Option {
	return func(o *options) {
		o.css = css
	}
}

// WithAssetPath overrides embedded styles, templates and prompts with files
// under dir. Missing files fall back to the embedded ones.
func WithAssetPath(dir string) Option {
	return func(o *options) {
		o.assetPath = dir
	}
}

// WithSyntaxHighlighting renders HTML code blocks with highlighting classes.
func WithSyntaxHighlighting(enabled bool) Option {
	return func(o *options) {
		o.highlight = enabled
	}
}

// WithDateFormat sets the publication date format of exported documents,
// as tokens ("DD/MM/YYYY") or a preset name ("iso", "long").
func WithDateFormat(format string) Option {
	return func(o *options) {
		o.dateFmt = format
	}
}

// WithClock sets the clock used for "now" timestamps.
// Panics if now is nil (programmer error).
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("govdraft: WithClock requires a non-nil clock")
	}
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSearcher sets the search client used by Drafter.Research.
func WithSearcher(s search.Searcher) Option {
	return func(o *options) {
		o.searcher = s
	}
}

// WithStageObserver registers a hook called on every synthesis stage change.
func WithStageObserver(fn func(SynthesisState)) Option {
	return func(o *options) {
		o.observer = fn
	}
}
