package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-govdraft"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	logFormat string
	quiet     bool
	verbose   bool
}

// contentFlags holds the content type and byline flags.
type contentFlags struct {
	contentType string
	title       string
	authorName  string
	authorRole  string
	categories  []string
}

// assetFlags holds styling flags for exports.
type assetFlags struct {
	css        string // extra stylesheet file
	assetPath  string // override asset directory
	dateFormat string
	highlight  bool
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common  commonFlags
	content contentFlags
	assets  assetFlags
	format  string
	output  string
	preview bool
}

// generateFlags holds flags for the generate and title commands.
type generateFlags struct {
	common  commonFlags
	content contentFlags
	output  string
}

// researchFlags holds flags for the research and search commands.
type researchFlags struct {
	common      commonFlags
	contentType string
	json        bool
	output      string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

func addContentFlags(fs *flag.FlagSet, f *contentFlags) {
	fs.StringVarP(&f.contentType, "type", "t", string(govdraft.ContentBlog), "content type: blog, news, announcement")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.authorName, "author-name", "", "author name")
	fs.StringVar(&f.authorRole, "author-role", "", "author role")
	fs.StringSliceVar(&f.categories, "category", nil, "category (repeatable)")
}

func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.css, "css", "", "extra CSS file for HTML output")
	fs.StringVar(&f.assetPath, "asset-path", "", "override asset directory")
	fs.BoolVar(&f.highlight, "highlight", false, "highlight code fences in HTML output")
	fs.StringVar(&f.dateFormat, "date-format", "", "publication date format: tokens or iso, european, us, long")
}

func newExportFlagSet(f *exportFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringVarP(&f.format, "format", "f", string(govdraft.FormatHTML), "output format: html, markdown, pdf")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.preview, "preview", false, "write a plain goldmark HTML preview")
	addCommonFlags(fs, &f.common)
	addContentFlags(fs, &f.content)
	addAssetFlags(fs, &f.assets)
	return fs
}

func newGenerateFlagSet(name string, f *generateFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	addCommonFlags(fs, &f.common)
	addContentFlags(fs, &f.content)
	return fs
}

func newResearchFlagSet(name string, f *researchFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVarP(&f.contentType, "type", "t", string(govdraft.ContentNews), "content type: blog, news, announcement")
	fs.BoolVar(&f.json, "json", false, "print JSON")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	addCommonFlags(fs, &f.common)
	return fs
}

func newServeFlagSet(f *serveFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default from config)")
	addCommonFlags(fs, &f.common)
	return fs
}

func newDoctorFlagSet(f *commonFlags, jsonOutput *bool) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.BoolVar(jsonOutput, "json", false, "print JSON")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	return fs
}

// parseWith parses args and returns positional arguments.
func parseWith(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return fs.Args(), nil
}
