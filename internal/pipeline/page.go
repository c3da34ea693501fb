package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Sentinel errors for page assembly.
var (
	ErrPageRender   = errors.New("page template rendering failed")
	ErrParamsRender = errors.New("parameter panel rendering failed")
)

// PageData fills the page template. HTML fields are inserted as is and
// must come from the normalizer or another trusted stage.
type PageData struct {
	Lang       string
	Title      string
	KaTeX      *KaTeXData // nil leaves formulas as source text
	Content    template.HTML
	Correction template.HTML
	Feedback   template.HTML
	Params     template.HTML
	Source     template.HTML
}

// KaTeXData locates the formula renderer files.
type KaTeXData struct {
	BaseURL template.URL // directory holding katex.min.js, katex.min.css and contrib/
}

// ParamsData fills the parameter panel template.
type ParamsData struct {
	Seed    string
	Comment template.HTML
	Fields  []ParamField
}

// ParamField is one form input of the parameter panel.
type ParamField struct {
	Key         string
	Label       string
	Type        string // "checkbox", "number" or "text"
	Value       string
	Placeholder string
	Helper      string
	Checked     bool
}

// PageBuilder assembles exercise pages from a template set.
type PageBuilder struct {
	page   *template.Template
	params *template.Template
}

var pageFuncs = template.FuncMap{
	"lines": formatLines,
}

// NewPageBuilder parses the page and parameter panel templates.
func NewPageBuilder(pageTmpl, paramsTmpl string) (*PageBuilder, error) {
	page, err := template.New("page").Funcs(pageFuncs).Parse(pageTmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	params, err := template.New("params").Funcs(pageFuncs).Parse(paramsTmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing params template: %w", err)
	}
	return &PageBuilder{page: page, params: params}, nil
}

// BuildParams renders the parameter panel.
func (b *PageBuilder) BuildParams(ctx context.Context, data *ParamsData) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		data = &ParamsData{}
	}

	var buf bytes.Buffer
	if err := b.params.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParamsRender, err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- output of html/template
}

// Build renders the full page.
func (b *PageBuilder) Build(ctx context.Context, data *PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data.Lang == "" {
		data.Lang = "fr"
	}

	var buf bytes.Buffer
	if err := b.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// formatLines escapes s and turns newlines into <br>.
func formatLines(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")) // #nosec G203 -- escaped above
}
