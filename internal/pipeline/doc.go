// Package pipeline turns generated markdown into export-ready bodies.
//
// The transformer is a best-effort text pipeline, not a strict parser:
//   - Preprocessing strips a duplicated title line and dash artifacts
//   - Blocks are split on blank lines and classified (heading, list, code
//     fence, blockquote, table, paragraph)
//   - Each block is rewritten as enriched Markdown or as HTML
//
// Unrecognized constructs fall through as paragraph text; the transformer
// never returns an error.
//
// The package also carries the goldmark-based preview renderer used by
// the editor and the CSS injection used when exporting HTML.
package pipeline
