// Package govdraft drafts and exports GOV.UK-style content.
//
// # Exporting
//
// An Exporter rewrites a markdown body block by block and wraps it in a
// styled document:
//
//	exp, err := govdraft.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := exp.Export(ctx, govdraft.ContentItem{
//	    Title: "Cost of living support",
//	    Body:  "## Who can apply\n\n- pensioners\n- carers",
//	    Type:  govdraft.ContentNews,
//	}, govdraft.FormatHTML)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, []byte(res.Content), 0o644)
//
// The export pipeline runs these stages:
//
//  1. Preprocessing (leading title line and stray dash rules removed)
//  2. Block classification (headings, lists, code, quotes, tables, paragraphs)
//  3. Block rewriting to HTML or enriched Markdown, with a table of
//     contents for longer Markdown documents
//  4. Template rendering with the GOV.UK stylesheet and metadata
//
// The pdf format returns the print-ready HTML document; no binary PDF is
// produced.
//
// # Drafting
//
// A Drafter generates titles, drafts and research summaries through a
// Completer, usually the provider gateway built by the command:
//
//	d, err := govdraft.NewDrafter(gen, govdraft.WithSearcher(brave))
//	title, err := d.GenerateTitle(ctx, govdraft.ContentBlog, "digital services")
//	res, err := d.Research(ctx, "universal credit", govdraft.ContentNews)
//
// Research and Synthesize reject a missing topic or content type with
// ErrInvalidInput before calling out. Past that check they never fail on
// upstream errors: each stage degrades to a placeholder (no points,
// NoInformationSummary, FailedSummary, or a fallback draft).
//
// # Errors
//
// Validation failures wrap ErrInvalidInput together with a specific
// sentinel such as ErrEmptyTitle or ErrUnsupportedFormat. Generation
// failures wrap ErrGenerationFailure:
//
//	if errors.Is(err, govdraft.ErrInvalidInput) {
//	    // fix the request
//	}
package govdraft
