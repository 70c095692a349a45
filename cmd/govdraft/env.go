package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/gateway"
	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/alnah/go-govdraft/internal/search"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and client construction.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// NewCompleter builds the text generator from configuration.
	NewCompleter func(cfg *config.Config, log *logger.Logger) (govdraft.Completer, error)
	// NewSearcher returns nil when search is not configured.
	NewSearcher func(cfg config.SearchConfig, log *logger.Logger) search.Searcher
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		Environ:      os.Environ,
		NewCompleter: newGatewayCompleter,
		NewSearcher:  newBraveSearcher,
	}
}

func newGatewayCompleter(cfg *config.Config, log *logger.Logger) (govdraft.Completer, error) {
	g, err := gateway.FromConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func newBraveSearcher(cfg config.SearchConfig, log *logger.Logger) search.Searcher {
	if cfg.APIKey == "" {
		return nil
	}
	return search.NewBrave(cfg, search.WithLogger(log.With("component", "search")))
}
