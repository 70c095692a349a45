package govdraft_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-govdraft"
)

// Example exports a markdown draft as a GOV.UK-styled Markdown document.
func Example() {
	exp, err := govdraft.NewExporter(govdraft.WithClock(func() time.Time {
		return time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := exp.Export(context.Background(), govdraft.ContentItem{
		Title: "Cost of living support",
		Body:  "Help is available.",
		Type:  govdraft.ContentNews,
	}, govdraft.FormatMarkdown)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.Filename)
	fmt.Println(strings.SplitN(res.Content, "\n", 2)[0])
	// Output:
	// Cost of living support.md
	// # Cost of living support
}

// Example_html renders the same draft as a standalone HTML page.
func Example_html() {
	exp, err := govdraft.NewExporter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res, err := exp.Export(context.Background(), govdraft.ContentItem{
		Title: "Service update",
		Body:  "## Changes\n\n- New opening hours",
		Type:  govdraft.ContentAnnouncement,
	}, govdraft.FormatHTML)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.MIMEType, strings.Contains(res.Content, "<li>New opening hours</li>"))
	// Output: text/html true
}

// Example_errorHandling shows how to classify validation failures.
func Example_errorHandling() {
	exp, err := govdraft.NewExporter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_, err = exp.Export(context.Background(), govdraft.ContentItem{
		Title: "Draft",
		Body:  "Body",
		Type:  govdraft.ContentBlog,
	}, "docx")

	switch {
	case errors.Is(err, govdraft.ErrUnsupportedFormat):
		fmt.Println("unsupported format")
	case errors.Is(err, govdraft.ErrInvalidInput):
		fmt.Println("invalid input")
	}
	// Output: unsupported format
}

// ExampleFallbackContent builds a placeholder draft when generation fails.
func ExampleFallbackContent() {
	out := govdraft.FallbackContent("Energy bills", govdraft.ContentBlog,
		nil, "Support is available.", nil)
	fmt.Println(strings.SplitN(out, "\n", 2)[0])
	// Output: # Energy bills
}
