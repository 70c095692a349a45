// Package synthesis turns research into drafts through the generation
// gateway: analyze search results into key points, synthesize a summary,
// then generate a draft. Every stage degrades to a placeholder instead of
// failing the run.
package synthesis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-govdraft/internal/assets"
	"github.com/alnah/go-govdraft/internal/gateway"
	"github.com/alnah/go-govdraft/internal/logger"
)

// Degraded stage outputs.
const (
	NoInformationSummary = "No relevant information found."
	FailedSummary        = "Failed to synthesize information."
)

const (
	analyzeSystemPrompt    = "You are an expert at analyzing and extracting key points from search results."
	extractSystemPrompt    = "You are an expert at extracting the single most relevant key point from a piece of content. Reply with one sentence."
	synthesizeSystemPrompt = "You are an expert at synthesizing information into coherent summaries."

	analyzeTemperature    = 0.3
	synthesizeTemperature = 0.4
	generateTemperature   = 0.5

	analyzeMaxTokens    = 1000
	extractMaxTokens    = 200
	synthesizeMaxTokens = 1000
)

var formatGuidance = map[ContentType]string{
	ContentBlog:         "a detailed blog post with clear sections, examples, and practical insights",
	ContentNews:         "a news article following the inverted pyramid style, with key information first",
	ContentAnnouncement: "a clear, concise announcement with key points and next steps",
}

const defaultGuidance = "a clear, well-structured article"

const generatePromptTemplate = `Based on this summary about %s:
%s

Create %s. The content should:
1. Follow GOV.UK style guidelines
2. Be clear and accessible
3. Include relevant facts and figures
4. Provide practical information
5. End with clear next steps or calls to action

The tone should be professional but approachable, and the content should be structured for easy reading.`

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Pipeline runs the analyze, synthesize and generate stages.
type Pipeline struct {
	gen      gateway.Completer
	prompts  assets.AssetLoader
	observer Observer
	log      *logger.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver registers a hook called on every stage change.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// WithPromptLoader overrides where draft prompts are loaded from.
func WithPromptLoader(l assets.AssetLoader) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.prompts = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a Pipeline that generates through gen.
func New(gen gateway.Completer, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:     gen,
		prompts: assets.NewEmbeddedLoader(),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every stage in order and always returns a result.
func (p *Pipeline) Run(ctx context.Context, in Input) Result {
	state := State{Stage: StageAnalyzing, References: References(in.SearchResults)}
	p.notify(state)

	state.RelevantPoints = p.AnalyzeBatch(ctx, in)
	state.Stage = StageSynthesizing
	p.notify(state)

	state.Summary = p.Synthesize(ctx, state.RelevantPoints, in.ContentType)
	state.Stage = StageGenerating
	p.notify(state)

	var content string
	if state.Summary != NoInformationSummary {
		content = p.Generate(ctx, GenerateInput{
			Summary:     state.Summary,
			ContentType: in.ContentType,
			Topic:       in.Topic,
			Points:      state.RelevantPoints,
			References:  state.References,
		})
	}
	state.Stage = StageComplete
	p.notify(state)

	return Result{
		RelevantPoints:   state.RelevantPoints,
		Summary:          state.Summary,
		SuggestedContent: content,
		References:       state.References,
	}
}

func (p *Pipeline) notify(s State) {
	if p.observer == nil {
		return
	}
	s.RelevantPoints = append([]string(nil), s.RelevantPoints...)
	s.References = append([]Reference(nil), s.References...)
	p.observer(s)
}

// AnalyzeBatch extracts key points relevant to in.Topic from all of
// in.SearchResults in one call. It returns an empty slice on empty input
// or on failure.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, in Input) []string {
	points := []string{}
	results := in.SearchResults
	if len(results) == 0 {
		return points
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %q\n", in.Topic)
	if in.Context != "" {
		fmt.Fprintf(&sb, "Additional context: %s\n", in.Context)
	}
	sb.WriteString("\nAnalyze these search results and extract the points most relevant to the topic and context:\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "\n%s\n%s\n%s\n", r.Title, r.Description, r.URL)
	}

	out, err := p.gen.Complete(ctx, gateway.Request{
		SystemPrompt: analyzeSystemPrompt,
		UserPrompt:   sb.String(),
		Temperature:  analyzeTemperature,
		MaxTokens:    analyzeMaxTokens,
	})
	if err != nil {
		p.log.Warn("analysis failed", "results", len(results), "error", err)
		return points
	}

	for _, line := range strings.Split(out.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			points = append(points, line)
		}
	}
	return points
}

// AnalyzeStream extracts one point per result, in input order, calling emit
// after each. Results are processed sequentially. When ctx is cancelled no
// further point is emitted and ctx.Err() is returned. An emit error stops
// the stream and is returned.
func (p *Pipeline) AnalyzeStream(ctx context.Context, in Input, emit func(Point) error) error {
	for i, r := range in.SearchResults {
		if err := ctx.Err(); err != nil {
			return err
		}

		point := p.extractPoint(ctx, in, r)
		if err := ctx.Err(); err != nil {
			return err
		}
		if point == "" {
			continue
		}
		if err := emit(Point{Text: point}); err != nil {
			p.log.Debug("analysis stream stopped", "index", i, "error", err)
			return err
		}
	}
	return nil
}

func (p *Pipeline) extractPoint(ctx context.Context, in Input, r SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze this content about %q\n", in.Topic)
	if in.Context != "" {
		fmt.Fprintf(&sb, "\nAdditional context: %s\n", in.Context)
	}
	fmt.Fprintf(&sb, "\nContent: %s\n", r.Description)
	sb.WriteString("\nExtract a key point that is most relevant to the topic and context.")

	out, err := p.gen.Complete(ctx, gateway.Request{
		SystemPrompt: extractSystemPrompt,
		UserPrompt:   sb.String(),
		Temperature:  analyzeTemperature,
		MaxTokens:    extractMaxTokens,
	})
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warn("point extraction failed, using first sentence", "url", r.URL, "error", err)
		}
		return firstSentence(r.Description)
	}
	return strings.TrimSpace(out.Text)
}

// firstSentence returns the first non-empty sentence of s, trimmed.
func firstSentence(s string) string {
	for _, part := range sentenceBreak.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			return part
		}
	}
	return ""
}

// Synthesize merges points into one summary. It returns
// NoInformationSummary without calling out when points is empty, and
// FailedSummary when generation fails.
func (p *Pipeline) Synthesize(ctx context.Context, points []string, contentType ContentType) string {
	if len(points) == 0 {
		return NoInformationSummary
	}

	out, err := p.gen.Complete(ctx, gateway.Request{
		SystemPrompt: synthesizeSystemPrompt,
		UserPrompt: fmt.Sprintf("Synthesize these key points into a coherent summary suitable for a %s:\n%s",
			contentType, strings.Join(points, "\n")),
		Temperature: synthesizeTemperature,
		MaxTokens:   synthesizeMaxTokens,
	})
	if err != nil {
		p.log.Warn("synthesis failed", "points", len(points), "error", err)
		return FailedSummary
	}
	return strings.TrimSpace(out.Text)
}

// GenerateInput carries what the generate stage needs, including the
// material for a fallback draft.
type GenerateInput struct {
	Summary     string
	ContentType ContentType
	Topic       string
	Points      []string
	References  []Reference
}

// Generate writes a draft from the summary. On failure it returns the
// FallbackContent draft built from the same material.
func (p *Pipeline) Generate(ctx context.Context, in GenerateInput) string {
	guidance, ok := formatGuidance[in.ContentType]
	if !ok {
		guidance = defaultGuidance
	}

	out, err := p.gen.Complete(ctx, gateway.Request{
		UserPrompt:  fmt.Sprintf(generatePromptTemplate, in.Topic, in.Summary, guidance),
		Temperature: generateTemperature,
	})
	if err != nil {
		p.log.Warn("draft generation failed, using fallback content",
			"contentType", string(in.ContentType), "error", err)
		return FallbackContent(in.Topic, in.ContentType, in.Points, in.Summary, in.References)
	}
	return strings.TrimSpace(out.Text)
}

// References projects results to {title, url} in input order. It never
// filters or deduplicates.
func References(results []SearchResult) []Reference {
	refs := make([]Reference, 0, len(results))
	for _, r := range results {
		refs = append(refs, Reference{Title: r.Title, URL: r.URL})
	}
	return refs
}
