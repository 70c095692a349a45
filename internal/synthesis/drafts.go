package synthesis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-govdraft/internal/fileutil"
	"github.com/alnah/go-govdraft/internal/gateway"
)

// profile holds the generation settings for one content type.
type profile struct {
	temperature float64
	maxTokens   int
}

var profiles = map[ContentType]profile{
	ContentBlog:         {temperature: 0.2, maxTokens: 2000},
	ContentNews:         {temperature: 0.2, maxTokens: 1500},
	ContentAnnouncement: {temperature: 0.6, maxTokens: 1000},
}

const (
	titleTemperature = 0.7
	titleMaxTokens   = 50
	maxTitleLength   = 100
)

const markdownInstruction = "\nIMPORTANT: Generate content in markdown format. Do not include the title. Start directly with the main content."

var (
	surroundingQuote = regexp.MustCompile(`^["']|["']$`)
	leadingHashes    = regexp.MustCompile(`^#+ `)
	trailingPeriod   = regexp.MustCompile(`\.$`)
	titleNote        = regexp.MustCompile(`(?i)Note:|PS:|P\.S\.:|N\.B\.:|Explanation:`)
)

// DraftAuthor is the optional byline passed to content generation.
type DraftAuthor struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// DraftRequest describes the content draft to generate.
type DraftRequest struct {
	ContentType ContentType
	Topic       string
	Title       string
	Author      *DraftAuthor
	Categories  []string
}

func (r DraftRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Topic) == "":
		return fmt.Errorf("%w: topic is required", ErrInvalidInput)
	case r.ContentType == "":
		return fmt.Errorf("%w: content type is required", ErrInvalidInput)
	case !r.ContentType.Valid():
		return fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidContentType, r.ContentType)
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: title is required for content generation", ErrInvalidInput)
	}
	return nil
}

// GenerateTitle asks for a title and cleans the reply into one short line.
func (p *Pipeline) GenerateTitle(ctx context.Context, contentType ContentType, topic string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	if !contentType.Valid() {
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidContentType, contentType)
	}

	system, err := p.prompts.LoadPrompt("title-" + string(contentType))
	if err != nil {
		return "", fmt.Errorf("loading title prompt: %w", err)
	}

	out, err := p.gen.Complete(ctx, gateway.Request{
		SystemPrompt: system,
		UserPrompt:   fmt.Sprintf("Generate a %s title for this topic: %s", contentType, topic),
		Temperature:  titleTemperature,
		MaxTokens:    titleMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return CleanTitle(out.Text), nil
}

// CleanTitle strips quotes, markdown markers, trailing periods and any
// appended notes from a generated title, and caps its length.
func CleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = surroundingQuote.ReplaceAllString(s, "")
	s = leadingHashes.ReplaceAllString(s, "")
	s = trailingPeriod.ReplaceAllString(s, "")

	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	if loc := titleNote.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = strings.TrimSpace(s)

	if len(s) > maxTitleLength {
		s = strings.TrimSpace(truncateRunes(s, maxTitleLength))
	}
	return s
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	for n > 0 && n < len(s) && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// GenerateContent writes a markdown draft body for req.
func (p *Pipeline) GenerateContent(ctx context.Context, req DraftRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	system, err := p.prompts.LoadPrompt("system-" + string(req.ContentType))
	if err != nil {
		return "", fmt.Errorf("loading system prompt: %w", err)
	}
	structure, err := p.prompts.LoadPrompt("structure-" + string(req.ContentType))
	if err != nil {
		return "", fmt.Errorf("loading structure prompt: %w", err)
	}

	prof := profiles[req.ContentType]
	out, err := p.gen.Complete(ctx, gateway.Request{
		SystemPrompt: strings.TrimRight(system, "\n") + markdownInstruction,
		UserPrompt:   draftContext(req, strings.TrimSpace(structure)),
		Temperature:  prof.temperature,
		MaxTokens:    prof.maxTokens,
	})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

func draftContext(req DraftRequest, structure string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n\n", req.Title)
	fmt.Fprintf(&sb, "Content Type: %s\n\n", req.ContentType)
	fmt.Fprintf(&sb, "Structure: %s\n\n", structure)
	fmt.Fprintf(&sb, "Topic Details: %s\n\n", req.Topic)
	if req.Author != nil && req.Author.Name != "" {
		fmt.Fprintf(&sb, "Author: %s (%s)\n\n", req.Author.Name, req.Author.Role)
	}
	if len(req.Categories) > 0 {
		fmt.Fprintf(&sb, "Categories: %s\n\n", strings.Join(req.Categories, ", "))
	}
	return sb.String()
}

// fallbackSections names the two sections of a fallback draft and its
// closing note, per content type.
var fallbackSections = map[ContentType]struct {
	points, sources, sourcePrefix, note string
}{
	ContentBlog: {
		points:       "Key Facts",
		sources:      "Verified Information",
		sourcePrefix: "Source: ",
		note:         "Note: All information in this content is sourced from verified GOV.UK sources.",
	},
	ContentNews: {
		points:  "Latest Verified Updates",
		sources: "Sources",
		note:    "Note: This news update contains only verified information from official sources.",
	},
	ContentAnnouncement: {
		points:  "Official Information",
		sources: "References",
		note:    "Note: This announcement contains only verified information from official sources.",
	},
}

// FallbackContent builds a placeholder draft from research material. Only
// points that appear in a reference title are listed. References without
// an http(s) URL are listed as plain text.
func FallbackContent(title string, contentType ContentType, points []string, summary string, refs []Reference) string {
	sections, ok := fallbackSections[contentType]
	if !ok {
		sections = fallbackSections[ContentAnnouncement]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n\n## %s\n", title, summary, sections.points)
	for _, point := range verifiedPoints(points, refs) {
		fmt.Fprintf(&sb, "- %s\n", point)
	}

	fmt.Fprintf(&sb, "\n## %s\n", sections.sources)
	for _, ref := range refs {
		if fileutil.IsURL(ref.URL) {
			fmt.Fprintf(&sb, "- %s[%s](%s)\n", sections.sourcePrefix, ref.Title, ref.URL)
		} else {
			fmt.Fprintf(&sb, "- %s%s\n", sections.sourcePrefix, ref.Title)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(sections.note)
	return sb.String()
}

func verifiedPoints(points []string, refs []Reference) []string {
	var out []string
	for _, point := range points {
		lp := strings.ToLower(point)
		for _, ref := range refs {
			if strings.Contains(strings.ToLower(ref.Title), lp) {
				out = append(out, point)
				break
			}
		}
	}
	return out
}
