package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-govdraft"
)

// runGenerate drafts content on a topic. Without --title, a title is
// generated first and written as the document heading.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	var f generateFlags
	positional, err := parseWith(newGenerateFlagSet("generate", &f), args)
	if err != nil {
		return err
	}
	topic := strings.TrimSpace(strings.Join(positional, " "))
	if topic == "" {
		return fmt.Errorf("%w: generate needs a topic", ErrUsage)
	}
	ct, err := parseContentType(f.content.contentType)
	if err != nil {
		return err
	}

	s, err := newSession(f.common, env)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	d, err := s.drafter()
	if err != nil {
		return err
	}

	title := strings.TrimSpace(f.content.title)
	if title == "" {
		if title, err = d.GenerateTitle(ctx, ct, topic); err != nil {
			return err
		}
		s.log.Info("title generated", "title", title)
	}

	req := govdraft.DraftRequest{
		ContentType: ct,
		Topic:       topic,
		Title:       title,
		Categories:  f.content.categories,
	}
	if f.content.authorName != "" {
		req.Author = &govdraft.DraftAuthor{Name: f.content.authorName, Role: f.content.authorRole}
	}

	body, err := d.GenerateContent(ctx, req)
	if err != nil {
		return err
	}
	return writeOutput(f.output, "# "+title+"\n\n"+body, env.Stdout)
}

// runTitle prints a generated title for a topic.
func runTitle(ctx context.Context, args []string, env *Environment) error {
	var f generateFlags
	positional, err := parseWith(newGenerateFlagSet("title", &f), args)
	if err != nil {
		return err
	}
	topic := strings.TrimSpace(strings.Join(positional, " "))
	if topic == "" {
		return fmt.Errorf("%w: title needs a topic", ErrUsage)
	}
	ct, err := parseContentType(f.content.contentType)
	if err != nil {
		return err
	}

	s, err := newSession(f.common, env)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	d, err := s.drafter()
	if err != nil {
		return err
	}
	title, err := d.GenerateTitle(ctx, ct, topic)
	if err != nil {
		return err
	}
	return writeOutput(f.output, title, env.Stdout)
}
