package pipeline

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlightStyle matches the preview renderer's code style.
const highlightStyle = "github"

var codeFormatter = chromahtml.New(chromahtml.WithClasses(true))

// highlightCode renders code as chroma HTML with CSS classes. Unknown
// languages use the fallback lexer.
func highlightCode(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s code: %w", lang, err)
	}

	var buf bytes.Buffer
	if err := codeFormatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s code: %w", lang, err)
	}
	return buf.String(), nil
}
