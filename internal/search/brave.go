// Package search queries the Brave web search API for research material.
// Search never fails: every error path logs a warning and yields no results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"

	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/alnah/go-govdraft/internal/synthesis"
)

// Defaults for fields missing from an API result.
const (
	DefaultTitle       = "Untitled"
	DefaultDescription = "No description available"
)

// maxResponseSize caps how much of a response body is decoded.
const maxResponseSize = 4 << 20

// Searcher returns research results for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) []synthesis.SearchResult
}

// HTTPDoer is the subset of *http.Client used by Brave.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Brave is a Searcher backed by the Brave web search API.
type Brave struct {
	apiKey   string
	endpoint string
	site     string
	count    int
	timeout  time.Duration

	client HTTPDoer
	cache  *cache.Cache
	log    *logger.Logger
}

var _ Searcher = (*Brave)(nil)

// Option configures a Brave client.
type Option func(*Brave)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(b *Brave) {
		if c != nil {
			b.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Brave) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBrave creates a Brave client from configuration. A zero CacheTTL
// disables the result cache.
func NewBrave(cfg config.SearchConfig, opts ...Option) *Brave {
	b := &Brave{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		site:     cfg.Site,
		count:    cfg.Count,
		timeout:  cfg.Timeout,
		client:   http.DefaultClient,
		log:      logger.Nop(),
	}
	if b.endpoint == "" {
		b.endpoint = config.DefaultSearchEndpoint
	}
	if b.count <= 0 {
		b.count = config.DefaultSearchCount
	}
	if b.timeout <= 0 {
		b.timeout = config.DefaultSearchTimeout
	}
	if cfg.CacheTTL > 0 {
		b.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Configured reports whether an API key is set.
func (b *Brave) Configured() bool { return b.apiKey != "" }

// Search returns results for query, or an empty slice on any failure.
func (b *Brave) Search(ctx context.Context, query string) []synthesis.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []synthesis.SearchResult{}
	}
	if b.apiKey == "" {
		b.log.Warn("search API key is not configured")
		return []synthesis.SearchResult{}
	}

	key := cacheKey(query)
	if b.cache != nil {
		if cached, ok := b.cache.Get(key); ok {
			b.log.Debug("search cache hit", "query", query)
			return cloneResults(cached.([]synthesis.SearchResult))
		}
	}

	results, err := b.fetch(ctx, query)
	if err != nil {
		b.log.Warn("search failed", "query", query, "error", err)
		return []synthesis.SearchResult{}
	}

	if b.cache != nil {
		b.cache.SetDefault(key, cloneResults(results))
	}
	return results
}

func cacheKey(query string) string {
	return "brave:" + strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func cloneResults(r []synthesis.SearchResult) []synthesis.SearchResult {
	return append([]synthesis.SearchResult{}, r...)
}

// apiResponse is the part of the Brave response that is used.
type apiResponse struct {
	Web struct {
		Results []apiResult `json:"results"`
	} `json:"web"`
}

type apiResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       *struct {
		URL string `json:"url"`
	} `json:"image"`
	Thumbnail *struct {
		Src string `json:"src"`
	} `json:"thumbnail"`
}

func (b *Brave) fetch(ctx context.Context, query string) ([]synthesis.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	q := query
	if b.site != "" {
		q = "site:" + b.site + " " + query
	}
	params := url.Values{
		"q":          {q},
		"count":      {strconv.Itoa(b.count)},
		"format":     {"json"},
		"safesearch": {"moderate"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	results := make([]synthesis.SearchResult, 0, len(decoded.Web.Results))
	for _, r := range decoded.Web.Results {
		results = append(results, normalize(r))
	}
	return results, nil
}

// normalize applies field defaults and strips markup from the description.
func normalize(r apiResult) synthesis.SearchResult {
	out := synthesis.SearchResult{
		Title:       stripHTML(r.Title),
		Description: stripHTML(r.Description),
		URL:         r.URL,
	}
	if out.Title == "" {
		out.Title = DefaultTitle
	}
	if out.Description == "" {
		out.Description = DefaultDescription
	}
	switch {
	case r.Image != nil && r.Image.URL != "":
		out.Image = r.Image.URL
	case r.Thumbnail != nil:
		out.Image = r.Thumbnail.Src
	}
	return out
}

// stripHTML returns the text content of an HTML fragment.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// Aggregate searches for query and runs the synthesis pipeline on the
// results, using query as the topic.
func Aggregate(ctx context.Context, s Searcher, p *synthesis.Pipeline, query string, contentType synthesis.ContentType) synthesis.Result {
	results := s.Search(ctx, query)
	return p.Run(ctx, synthesis.Input{
		SearchResults: results,
		ContentType:   contentType,
		Topic:         strings.TrimSpace(query),
	})
}
