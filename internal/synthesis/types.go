package synthesis

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for draft generation.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidContentType = errors.New("invalid content type")
)

// ContentType selects the prompt profile and the export wording.
type ContentType string

// Supported content types.
const (
	ContentBlog         ContentType = "blog"
	ContentNews         ContentType = "news"
	ContentAnnouncement ContentType = "announcement"
)

// ContentTypes lists the supported types in display order.
var ContentTypes = []ContentType{ContentBlog, ContentNews, ContentAnnouncement}

// Valid reports whether c is one of the supported content types.
func (c ContentType) Valid() bool {
	switch c {
	case ContentBlog, ContentNews, ContentAnnouncement:
		return true
	}
	return false
}

// ParseContentType validates s as a content type.
func ParseContentType(s string) (ContentType, error) {
	c := ContentType(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidContentType, s)
	}
	return c, nil
}

// SearchResult is one web-search hit used as research input.
type SearchResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
}

// Reference is the {title, url} projection of a SearchResult.
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Stage is the step a synthesis run is in.
type Stage string

// Stages in the order a run moves through them.
const (
	StageAnalyzing    Stage = "analyzing"
	StageSynthesizing Stage = "synthesizing"
	StageGenerating   Stage = "generating"
	StageComplete     Stage = "complete"
)

// State is the per-request progress of a run. It is never persisted.
type State struct {
	Stage          Stage
	RelevantPoints []string
	Summary        string
	References     []Reference
}

// Observer receives a copy of the state on every stage change.
type Observer func(State)

// Input is what a synthesis run starts from.
type Input struct {
	SearchResults []SearchResult
	ContentType   ContentType
	Topic         string
	Context       string
}

// Validate reports a missing topic or an unsupported content type.
func (in Input) Validate() error {
	switch {
	case strings.TrimSpace(in.Topic) == "":
		return fmt.Errorf("%w: topic is required", ErrInvalidInput)
	case in.ContentType == "":
		return fmt.Errorf("%w: content type is required", ErrInvalidInput)
	case !in.ContentType.Valid():
		return fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidContentType, in.ContentType)
	}
	return nil
}

// Result is the output of a full run.
type Result struct {
	RelevantPoints   []string    `json:"relevantPoints"`
	Summary          string      `json:"summary"`
	SuggestedContent string      `json:"suggestedContent"`
	References       []Reference `json:"references"`
}

// Point is one key point emitted by the streaming analysis.
type Point struct {
	Text string `json:"point"`
}
