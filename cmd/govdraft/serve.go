package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/hints"
	"github.com/alnah/go-govdraft/internal/server"
	"github.com/alnah/go-govdraft/internal/workflow"
)

// runServe starts the HTTP API and blocks until ctx is cancelled.
// Without provider credentials the export routes still work.
func runServe(ctx context.Context, args []string, env *Environment) error {
	var f serveFlags
	positional, err := parseWith(newServeFlagSet(&f), args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}

	s, err := newSession(f.common, env)
	if err != nil {
		return err
	}
	defer s.log.Sync()
	override(&s.cfg.Server.Addr, f.addr)

	exp, err := s.exporter(assetFlags{})
	if err != nil {
		return err
	}
	deps := server.Deps{
		Exporter: exp,
		Workflow: workflow.New(env.Now),
		Log:      s.log.With("component", "server"),
	}

	d, err := s.drafter()
	switch {
	case err == nil:
		deps.Drafter = d
		deps.SearchEnabled = s.cfg.Search.APIKey != ""
	case errors.Is(err, govdraft.ErrMissingCredentials):
		s.log.Warn("generation routes disabled: no provider credentials",
			"primary", s.cfg.Providers.Primary)
	default:
		return err
	}

	if hint := hints.ForListenAddr(s.cfg.Server.Addr); hint != "" {
		fmt.Fprintln(env.Stderr, "warning: loopback listen address"+hint)
	}
	return server.New(s.cfg.Server, deps).Run(ctx)
}
