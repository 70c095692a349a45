package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: govdraft <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export      Export markdown as a GOV.UK document")
	fmt.Fprintln(w, "  generate    Generate a draft on a topic")
	fmt.Fprintln(w, "  title       Generate a title for a topic")
	fmt.Fprintln(w, "  research    Search GOV.UK and synthesize a draft")
	fmt.Fprintln(w, "  search      Search GOV.UK")
	fmt.Fprintln(w, "  serve       Run the HTTP API")
	fmt.Fprintln(w, "  doctor      Check configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'govdraft help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --log-format <s>      Log format: console, json")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

func printContentFlags(w io.Writer) {
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "  -t, --type <s>            Content type: blog, news, announcement")
	fmt.Fprintln(w, "      --title <s>           Document title")
	fmt.Fprintln(w, "      --author-name <s>     Author name")
	fmt.Fprintln(w, "      --author-role <s>     Author role")
	fmt.Fprintln(w, "      --category <s>        Category (repeatable)")
}

func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: govdraft export <input.md|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export markdown as a GOV.UK-styled HTML or Markdown document.")
	fmt.Fprintln(w, "The pdf format writes print-ready HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -f, --format <s>          Format: html, markdown, pdf (default html)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "      --preview             Write a plain HTML preview instead")
	fmt.Fprintln(w)
	printContentFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file")
	fmt.Fprintln(w, "      --asset-path <dir>    Override styles and templates")
	fmt.Fprintln(w, "      --highlight           Highlight code fences")
	fmt.Fprintln(w, "      --date-format <s>     Date format: tokens (DD/MM/YYYY) or iso, european, us, long")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: govdraft generate <topic> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a markdown draft. Without --title a title is generated first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default stdout)")
	fmt.Fprintln(w)
	printContentFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printResearchUsage(w io.Writer, name, desc string) {
	fmt.Fprintf(w, "Usage: govdraft %s <query> [flags]\n", name)
	fmt.Fprintln(w)
	fmt.Fprintln(w, desc)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -t, --type <s>            Content type (default news)")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default stdout)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	w := env.Stdout
	switch args[0] {
	case "export":
		printExportUsage(w)
	case "generate":
		printGenerateUsage(w)
	case "title":
		fmt.Fprintln(w, "Usage: govdraft title <topic> [-t type]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Generate a single-line title for a topic.")
	case "research":
		printResearchUsage(w, "research", "Search GOV.UK for a query, extract key points and synthesize a draft.")
	case "search":
		printResearchUsage(w, "search", "Search GOV.UK and print the results.")
	case "serve":
		fmt.Fprintln(w, "Usage: govdraft serve [--addr host:port]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run the HTTP API until interrupted.")
	case "doctor":
		fmt.Fprintln(w, "Usage: govdraft doctor [--json] [--config name]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Report configured providers, search and assets. Secrets are never printed.")
	case "completion":
		printCompletionUsage(w)
	case "version":
		fmt.Fprintln(w, "Usage: govdraft version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: govdraft help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
