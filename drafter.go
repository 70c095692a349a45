package govdraft

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-govdraft/internal/gateway"
	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/alnah/go-govdraft/internal/search"
	"github.com/alnah/go-govdraft/internal/synthesis"
)

// ErrSearchNotConfigured is returned by Research without a search client.
var ErrSearchNotConfigured = errors.New("search is not configured")

// Research and generation types.
type (
	SearchResult    = synthesis.SearchResult
	Reference       = synthesis.Reference
	SynthesisInput  = synthesis.Input
	SynthesisResult = synthesis.Result
	SynthesisState  = synthesis.State
	Stage           = synthesis.Stage
	Point           = synthesis.Point
	DraftRequest    = synthesis.DraftRequest
	DraftAuthor     = synthesis.DraftAuthor

	// Completer generates text; the provider gateway implements it.
	Completer         = gateway.Completer
	GenerationRequest = gateway.Request
	GeneratedText     = gateway.GeneratedText
)

// Degraded synthesis outputs.
const (
	NoInformationSummary = synthesis.NoInformationSummary
	FailedSummary        = synthesis.FailedSummary
)

// Drafter generates titles, drafts and research summaries.
type Drafter struct {
	pipeline *synthesis.Pipeline
	searcher search.Searcher
	log      *logger.Logger
}

// NewDrafter creates a Drafter that generates through gen.
func NewDrafter(gen Completer, opts ...Option) (*Drafter, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: no content generator", ErrMissingCredentials)
	}
	o := applyOptions(opts)

	loader, err := o.loader()
	if err != nil {
		return nil, err
	}

	pipelineOpts := []synthesis.Option{
		synthesis.WithPromptLoader(loader),
		synthesis.WithLogger(o.log.With("component", "synthesis")),
	}
	if o.observer != nil {
		pipelineOpts = append(pipelineOpts, synthesis.WithObserver(o.observer))
	}

	return &Drafter{
		pipeline: synthesis.New(gen, pipelineOpts...),
		searcher: o.searcher,
		log:      o.log,
	}, nil
}

// GenerateTitle returns a cleaned single-line title for topic.
func (d *Drafter) GenerateTitle(ctx context.Context, contentType ContentType, topic string) (string, error) {
	return d.pipeline.GenerateTitle(ctx, contentType, topic)
}

// GenerateContent returns a markdown draft body.
func (d *Drafter) GenerateContent(ctx context.Context, req DraftRequest) (string, error) {
	return d.pipeline.GenerateContent(ctx, req)
}

// Synthesize runs the analyze, synthesize and generate stages on
// existing search results. Input without a topic or with an unsupported
// content type is rejected before any provider call; past that point
// stages degrade instead of failing.
func (d *Drafter) Synthesize(ctx context.Context, in SynthesisInput) (SynthesisResult, error) {
	if err := in.Validate(); err != nil {
		return SynthesisResult{}, err
	}
	return d.pipeline.Run(ctx, in), nil
}

// AnalyzeStream emits one key point per search result, in order.
func (d *Drafter) AnalyzeStream(ctx context.Context, in SynthesisInput, emit func(Point) error) error {
	if err := in.Validate(); err != nil {
		return err
	}
	return d.pipeline.AnalyzeStream(ctx, in, emit)
}

// Summarize merges points into one summary.
func (d *Drafter) Summarize(ctx context.Context, points []string, contentType ContentType) (string, error) {
	if !contentType.Valid() {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidContentType, contentType)
	}
	return d.pipeline.Synthesize(ctx, points, contentType), nil
}

// Search returns web results for query; empty when search is not configured.
func (d *Drafter) Search(ctx context.Context, query string) []SearchResult {
	if d.searcher == nil {
		return []SearchResult{}
	}
	return d.searcher.Search(ctx, query)
}

// Research searches for query and synthesizes the results.
func (d *Drafter) Research(ctx context.Context, query string, contentType ContentType) (SynthesisResult, error) {
	if d.searcher == nil {
		return SynthesisResult{}, ErrSearchNotConfigured
	}
	if strings.TrimSpace(query) == "" {
		return SynthesisResult{}, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if !contentType.Valid() {
		return SynthesisResult{}, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidContentType, contentType)
	}
	return search.Aggregate(ctx, d.searcher, d.pipeline, query, contentType), nil
}

// FallbackContent builds a placeholder draft from research material.
func FallbackContent(title string, contentType ContentType, points []string, summary string, refs []Reference) string {
	return synthesis.FallbackContent(title, contentType, points, summary, refs)
}
