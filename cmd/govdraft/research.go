package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alnah/go-govdraft"
)

// runResearch searches GOV.UK for a query and synthesizes a draft.
func runResearch(ctx context.Context, args []string, env *Environment) error {
	var f researchFlags
	positional, err := parseWith(newResearchFlagSet("research", &f), args)
	if err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(positional, " "))
	if query == "" {
		return fmt.Errorf("%w: research needs a query", ErrUsage)
	}
	ct, err := parseContentType(f.contentType)
	if err != nil {
		return err
	}

	s, err := newSession(f.common, env)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	var opts []govdraft.Option
	if !f.common.quiet {
		opts = append(opts, govdraft.WithStageObserver(func(st govdraft.SynthesisState) {
			fmt.Fprintf(env.Stderr, "[%s] %d points\n", st.Stage, len(st.RelevantPoints))
		}))
	}
	d, err := s.drafter(opts...)
	if err != nil {
		return err
	}

	res, err := d.Research(ctx, query, ct)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if f.json {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(f.output, string(out), env.Stdout)
	}
	return writeOutput(f.output, researchMarkdown(res), env.Stdout)
}

// researchMarkdown prints the suggested draft, or the summary when no
// draft could be produced.
func researchMarkdown(res govdraft.SynthesisResult) string {
	if res.SuggestedContent != "" {
		return res.SuggestedContent
	}
	return res.Summary
}

// runSearch prints GOV.UK search results for a query.
func runSearch(ctx context.Context, args []string, env *Environment) error {
	var f researchFlags
	positional, err := parseWith(newResearchFlagSet("search", &f), args)
	if err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(positional, " "))
	if query == "" {
		return fmt.Errorf("%w: search needs a query", ErrUsage)
	}

	s, err := newSession(f.common, env)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	searcher := env.NewSearcher(s.cfg.Search, s.log)
	if searcher == nil {
		return govdraft.ErrSearchNotConfigured
	}
	results := searcher.Search(ctx, query)

	if f.json {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(f.output, string(out), env.Stdout)
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Description)
	}
	if len(results) == 0 {
		b.WriteString("No results found.\n")
	}
	return writeOutput(f.output, b.String(), env.Stdout)
}
