package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/alnah/go-govdraft/internal/workflow"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type handlers struct {
	exporter      Exporter
	drafter       Drafter
	workflow      *workflow.Workflow
	searchEnabled bool
	log           *logger.Logger
}

func newRouter(cfg config.ServerConfig, deps Deps) *gin.Engine {
	h := &handlers{
		exporter:      deps.Exporter,
		drafter:       deps.Drafter,
		workflow:      deps.Workflow,
		searchEnabled: deps.SearchEnabled,
		log:           deps.Log,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLog(deps.Log))
	r.Use(corsMiddleware(cfg.AllowedOrigins))
	r.Use(rateLimit(cfg.RateLimit, cfg.Burst))

	r.GET("/healthz", h.health)

	api := r.Group("/api")
	{
		api.POST("/export-content", h.exportContent)
		api.POST("/preview", h.preview)
		api.POST("/content/:id/publish", h.publish)

		gen := api.Group("", h.requireDrafter)
		gen.POST("/generate-content", h.generateContent)
		gen.POST("/process-chain-of-thought", h.chainOfThought)
		gen.POST("/process-chain-of-thought/analyze", h.analyze)
		gen.POST("/process-chain-of-thought/synthesize", h.synthesize)
		gen.POST("/brave-search", h.braveSearch)
	}
	return r
}

// bind decodes a JSON body into dst, answering 400 on failure.
func bind(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *handlers) health(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

func (h *handlers) requireDrafter(c *gin.Context) {
	if h.drafter == nil {
		respondError(c, http.StatusServiceUnavailable, "Content generation is not configured")
		return
	}
	c.Next()
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

type exportRequest struct {
	Format  string               `json:"format"`
	Content govdraft.ContentItem `json:"content"`
}

func (h *handlers) exportContent(c *gin.Context) {
	var req exportRequest
	if !bind(c, &req) {
		return
	}
	format, err := govdraft.ParseFormat(req.Format)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Unsupported format")
		return
	}

	res, err := h.exporter.Export(c.Request.Context(), req.Content, format)
	if err != nil {
		if errors.Is(err, govdraft.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("export failed", "error", err, "format", format)
		respondError(c, http.StatusInternalServerError, "Failed to export content")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Data(http.StatusOK, res.MIMEType, []byte(res.Content))
}

type previewRequest struct {
	Content string `json:"content"`
}

func (h *handlers) preview(c *gin.Context) {
	var req previewRequest
	if !bind(c, &req) {
		return
	}
	html, err := h.exporter.Preview(c.Request.Context(), req.Content)
	if err != nil {
		h.log.Error("preview failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to render preview")
		return
	}
	respondOK(c, gin.H{"html": html})
}

// ---------------------------------------------------------------------------
// Generation
// ---------------------------------------------------------------------------

type generateRequest struct {
	ContentType string           `json:"contentType"`
	Context     string           `json:"context"`
	Title       string           `json:"title"`
	IsTitle     bool             `json:"isTitle"`
	Author      *govdraft.Author `json:"author"`
	Categories  []string         `json:"categories"`
}

func (h *handlers) generateContent(c *gin.Context) {
	var req generateRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Context) == "" || req.ContentType == "" {
		respondError(c, http.StatusBadRequest, "Missing required fields: context and contentType are required")
		return
	}
	ct := govdraft.ContentType(req.ContentType)
	if !ct.Valid() {
		respondError(c, http.StatusBadRequest, "Invalid content type: "+req.ContentType)
		return
	}

	ctx := c.Request.Context()
	if req.IsTitle {
		title, err := h.drafter.GenerateTitle(ctx, ct, req.Context)
		if err != nil {
			h.generationFailed(c, err)
			return
		}
		respondOK(c, gin.H{"content": title})
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		respondError(c, http.StatusBadRequest, "Missing required field: title is required for content generation")
		return
	}
	draft := govdraft.DraftRequest{
		ContentType: ct,
		Topic:       req.Context,
		Title:       req.Title,
		Categories:  req.Categories,
	}
	if req.Author != nil && req.Author.Name != "" {
		draft.Author = &govdraft.DraftAuthor{Name: req.Author.Name, Role: req.Author.Role}
	}

	content, err := h.drafter.GenerateContent(ctx, draft)
	if err != nil {
		h.generationFailed(c, err)
		return
	}
	respondOK(c, gin.H{"content": content})
}

func (h *handlers) generationFailed(c *gin.Context, err error) {
	h.log.Error("generation failed", "error", err, "request_id", c.GetString(requestIDKey))
	if errors.Is(err, govdraft.ErrInvalidInput) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}

// ---------------------------------------------------------------------------
// Chain of thought
// ---------------------------------------------------------------------------

type chainRequest struct {
	SearchResults []govdraft.SearchResult `json:"searchResults"`
	ContentType   string                  `json:"contentType"`
	Topic         string                  `json:"topic"`
	Context       string                  `json:"context"`
}

func (r chainRequest) input() govdraft.SynthesisInput {
	return govdraft.SynthesisInput{
		SearchResults: r.SearchResults,
		ContentType:   govdraft.ContentType(r.ContentType),
		Topic:         r.Topic,
		Context:       r.Context,
	}
}

func (h *handlers) chainOfThought(c *gin.Context) {
	var req chainRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.drafter.Synthesize(c.Request.Context(), req.input())
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	respondOK(c, res)
}

// analyze streams one NDJSON line per extracted point.
func (h *handlers) analyze(c *gin.Context) {
	var req chainRequest
	if !bind(c, &req) {
		return
	}
	in := req.input()
	if err := in.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	err := h.drafter.AnalyzeStream(c.Request.Context(), in, func(p govdraft.Point) error {
		if err := enc.Encode(p); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		h.log.Debug("analyze stream stopped", "error", err, "request_id", c.GetString(requestIDKey))
	}
}

type synthesizeRequest struct {
	Points      []string `json:"points"`
	ContentType string   `json:"contentType"`
}

func (h *handlers) synthesize(c *gin.Context) {
	var req synthesizeRequest
	if !bind(c, &req) {
		return
	}
	if len(req.Points) == 0 {
		respondError(c, http.StatusBadRequest, "Points are required")
		return
	}
	summary, err := h.drafter.Summarize(c.Request.Context(), req.Points, govdraft.ContentType(req.ContentType))
	if err != nil {
		h.respondDraftError(c, err)
		return
	}
	respondOK(c, gin.H{"summary": summary})
}

// respondDraftError maps validation failures to 400 and anything else
// to 500.
func (h *handlers) respondDraftError(c *gin.Context, err error) {
	if errors.Is(err, govdraft.ErrInvalidInput) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error("draft request failed", "error", err, "request_id", c.GetString(requestIDKey))
	respondError(c, http.StatusInternalServerError, err.Error())
}

// ---------------------------------------------------------------------------
// Search and publish
// ---------------------------------------------------------------------------

type searchRequest struct {
	Query string `json:"query"`
}

func (h *handlers) braveSearch(c *gin.Context) {
	var req searchRequest
	if !bind(c, &req) {
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		respondError(c, http.StatusBadRequest, "Query parameter is required")
		return
	}
	if !h.searchEnabled {
		respondError(c, http.StatusInternalServerError, "Brave Search API key is not configured")
		return
	}

	results := h.drafter.Search(c.Request.Context(), query)
	respondOK(c, gin.H{"results": results, "total": len(results), "query": query})
}

type publishRequest struct {
	Type       workflow.ActionType `json:"type"`
	Comment    string              `json:"comment"`
	ReviewedBy string              `json:"reviewedBy"`
	Status     workflow.Status     `json:"status"` // current status, empty = draft
}

func (h *handlers) publish(c *gin.Context) {
	var req publishRequest
	if !bind(c, &req) {
		return
	}
	action := workflow.Action{Type: req.Type, Comment: req.Comment, ReviewedBy: req.ReviewedBy}

	tr, err := h.workflow.Apply(c.Param("id"), req.Status, action)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Info("content status changed", "id", tr.ID, "from", tr.From, "to", tr.Status)
	respondOK(c, tr)
}
