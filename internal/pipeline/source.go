package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrHighlight indicates source highlighting failed.
var ErrHighlight = errors.New("source highlighting failed")

// DefaultHighlightStyle is the Chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// SourceHighlighter renders raw generator markup as highlighted TeX.
type SourceHighlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewSourceHighlighter creates a highlighter using the named Chroma style.
// Unknown or empty names fall back to DefaultHighlightStyle.
func NewSourceHighlighter(styleName string) *SourceHighlighter {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	lexer := lexers.Get("tex")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	return &SourceHighlighter{
		lexer: chroma.Coalesce(lexer),
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithLineNumbers(true),
		),
	}
}

// Highlight returns source as a highlighted <pre> block. Styling comes from
// CSS.
func (h *SourceHighlighter) Highlight(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	it, err := h.lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return b.String(), nil
}

// CSS returns the stylesheet for highlighted blocks, code fences in
// comments included.
func (h *SourceHighlighter) CSS() (string, error) {
	var b strings.Builder
	if err := h.formatter.WriteCSS(&b, h.style); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return b.String(), nil
}
