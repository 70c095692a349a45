package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/fileutil"
)

// runExport renders a markdown file as a GOV.UK document.
func runExport(ctx context.Context, args []string, env *Environment) error {
	var f exportFlags
	positional, err := parseWith(newExportFlagSet(&f), args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: export takes exactly one input file (use - for stdin)", ErrUsage)
	}
	input := positional[0]

	s, err := newSession(f.common, env)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	markdown, err := readInput(input, env.Stdin)
	if err != nil {
		return err
	}
	exp, err := s.exporter(f.assets)
	if err != nil {
		return err
	}

	if f.preview {
		html, err := exp.Preview(ctx, markdown)
		if err != nil {
			return err
		}
		return writeOutput(f.output, html, env.Stdout)
	}

	format, err := govdraft.ParseFormat(f.format)
	if err != nil {
		return err
	}
	ct, err := parseContentType(f.content.contentType)
	if err != nil {
		return err
	}

	item := govdraft.ContentItem{
		Title:      firstNonEmpty(f.content.title, extractTitle(markdown), titleFromPath(input)),
		Body:       markdown,
		Type:       ct,
		Categories: f.content.categories,
		CreatedAt:  env.Now(),
	}
	if f.content.authorName != "" {
		item.Author = &govdraft.Author{Name: f.content.authorName, Role: f.content.authorRole}
	}

	res, err := exp.Export(ctx, item, format)
	if err != nil {
		return err
	}

	outPath := resolveExportPath(f.output, item.Title, res.Filename)
	if err := writeOutput(outPath, res.Content, env.Stdout); err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Wrote %s (%s)\n", outPath, res.MIMEType)
	}
	s.log.Debug("exported", "format", format, "path", outPath, "bytes", len(res.Content))
	return nil
}

// extractTitle returns the first level-1 heading of markdown.
func extractTitle(markdown string) string {
	for line := range strings.SplitSeq(markdown, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

func titleFromPath(path string) string {
	if path == "-" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// resolveExportPath picks the output file: the flag value, a file named
// after the title inside a directory flag, or the title in the cwd.
func resolveExportPath(output, title, filename string) string {
	name := fileutil.SanitizeFilename(title) + filepath.Ext(filename)
	if output == "" {
		return name
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	if strings.HasSuffix(output, string(filepath.Separator)) {
		return filepath.Join(output, name)
	}
	return output
}
