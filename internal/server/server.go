// Package server exposes the drafting and export operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/alnah/go-govdraft/internal/workflow"
)

// Exporter renders content items and previews.
type Exporter interface {
	Export(ctx context.Context, item govdraft.ContentItem, format govdraft.Format) (*govdraft.ExportResult, error)
	Preview(ctx context.Context, markdown string) (string, error)
}

// Drafter generates and researches content.
type Drafter interface {
	GenerateTitle(ctx context.Context, contentType govdraft.ContentType, topic string) (string, error)
	GenerateContent(ctx context.Context, req govdraft.DraftRequest) (string, error)
	Synthesize(ctx context.Context, in govdraft.SynthesisInput) (govdraft.SynthesisResult, error)
	AnalyzeStream(ctx context.Context, in govdraft.SynthesisInput, emit func(govdraft.Point) error) error
	Summarize(ctx context.Context, points []string, contentType govdraft.ContentType) (string, error)
	Search(ctx context.Context, query string) []govdraft.SearchResult
}

var (
	_ Exporter = (*govdraft.Exporter)(nil)
	_ Drafter  = (*govdraft.Drafter)(nil)
)

// Deps are the handlers' collaborators. A nil Drafter disables the
// generation routes; SearchEnabled gates the search route.
type Deps struct {
	Exporter      Exporter
	Drafter       Drafter
	Workflow      *workflow.Workflow
	SearchEnabled bool
	Log           *logger.Logger
}

// Server is the HTTP API.
type Server struct {
	Engine *gin.Engine
	cfg    config.ServerConfig
	log    *logger.Logger
}

// New builds the router for cfg.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Workflow == nil {
		deps.Workflow = workflow.New(nil)
	}
	return &Server{
		Engine: newRouter(cfg, deps),
		cfg:    cfg,
		log:    deps.Log,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
