package exrender

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/alnah/go-exrender/internal/assets"
	"github.com/alnah/go-exrender/internal/fileutil"
	"github.com/alnah/go-exrender/internal/pipeline"
	"github.com/alnah/go-exrender/internal/texnorm"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector   = (*pipeline.CSSInjection)(nil)
	_ pdfConverter           = (*rodConverter)(nil)
	_ pdfRenderer            = (*rodRenderer)(nil)
)

// Renderer turns generated exercises into standalone HTML pages and PDFs.
// Create with NewRenderer, use Render for each exercise, and Close when done.
// A Renderer holds one browser; use RendererPool for parallel work.
type Renderer struct {
	cfg               rendererConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	normalizer        *texnorm.Normalizer
	htmlConverter     pipeline.HTMLConverter
	highlighter       *pipeline.SourceHighlighter
	pageBuilder       *pipeline.PageBuilder
	cssInjector       pipeline.CSSInjector
	pdfConverter      pdfConverter
}

// publicToInternalAdapter wraps public AssetLoader to internal assets.AssetLoader.
type publicToInternalAdapter struct {
	pub AssetLoader
}

func (a *publicToInternalAdapter) LoadStyle(name string) (string, error) {
	return a.pub.LoadStyle(name)
}

func (a *publicToInternalAdapter) LoadTemplateSet(name string) (*assets.TemplateSet, error) {
	ts, err := a.pub.LoadTemplateSet(name)
	if err != nil {
		return nil, err
	}
	return &assets.TemplateSet{
		Name:   ts.Name,
		Page:   ts.Page,
		Params: ts.Params,
	}, nil
}

// NewRenderer creates a Renderer with default configuration.
// Returns an error if asset loading or template parsing fails.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:  defaultTimeout,
			maxDepth: texnorm.DefaultMaxDepth,
		},
		assetLoader:   assets.NewEmbeddedLoader(),
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		r.assetLoader = resolver
	}
	if r.publicAssetLoader != nil {
		r.assetLoader = &publicToInternalAdapter{pub: r.publicAssetLoader}
	}

	if err := r.resolveStyle(); err != nil {
		return nil, err
	}

	templateSet := r.cfg.templateSet
	if templateSet == nil {
		var err error
		templateSet, err = r.assetLoader.LoadTemplateSet(assets.DefaultTemplateSetName)
		if err != nil {
			return nil, fmt.Errorf("loading default template set: %w", err)
		}
	}

	builder, err := pipeline.NewPageBuilder(templateSet.Page, templateSet.Params)
	if err != nil {
		return nil, fmt.Errorf("initializing page builder: %w", err)
	}
	r.pageBuilder = builder

	r.normalizer = texnorm.New(texnorm.WithMaxDepth(r.cfg.maxDepth))
	r.highlighter = pipeline.NewSourceHighlighter(r.cfg.highlightStyle)

	if r.pdfConverter == nil {
		r.pdfConverter = newRodConverter(r.cfg.timeout)
	}

	return r, nil
}

// Normalize converts legacy exercise markup to an HTML fragment using the
// renderer's depth ceiling.
func (r *Renderer) Normalize(content string) string {
	return r.normalizer.Normalize(content)
}

// Render builds the page for one exercise and, unless input.HTMLOnly is set,
// prints it to PDF. Internal panics are recovered into errors.
func (r *Renderer) Render(ctx context.Context, input Input) (result *RenderResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	ex := input.Exercise

	content, fields, err := r.renderContent(ex, input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLRendering, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := &pipeline.PageData{
		Title:   ex.Title(),
		KaTeX:   r.katexData(),
		Content: template.HTML(content), // #nosec G203 -- normalizer output
	}

	if input.ShowCorrection && strings.TrimSpace(ex.Correction) != "" {
		correction, err := r.renderFragment(ex.Correction, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("%w: correction: %v", ErrHTMLRendering, err)
		}
		data.Correction = template.HTML(correction) // #nosec G203 -- normalizer output
	}

	var score *Score
	if input.Answers != nil {
		score = CheckAnswers(ex, input.Answers)
		data.Feedback = template.HTML(score.FeedbackHTML()) // #nosec G203 -- escaped in FeedbackHTML
	}

	if input.ShowParameters {
		panel, err := r.renderParams(ctx, ex)
		if err != nil {
			return nil, err
		}
		data.Params = panel
	}

	if input.ShowSource {
		source, err := r.highlighter.Highlight(ctx, ex.Content)
		if err != nil {
			return nil, fmt.Errorf("highlighting source: %w", err)
		}
		data.Source = template.HTML(source) // #nosec G203 -- chroma output
	}

	page, err := r.pageBuilder.Build(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLRendering, err)
	}

	css, err := r.pageCSS(input)
	if err != nil {
		return nil, err
	}
	page = r.cssInjector.InjectCSS(ctx, page, css)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &RenderResult{
		HTML:    []byte(page),
		Content: content,
		Fields:  fields,
		Score:   score,
	}
	if input.HTMLOnly {
		return res, nil
	}

	pdf, err := r.pdfConverter.ToPDF(ctx, page, &pdfOptions{Page: input.Page})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdf
	return res, nil
}

// renderContent normalizes the exercise body, focuses its first answer
// field and lists the answer fields.
func (r *Renderer) renderContent(ex *Exercise, sourceDir string) (string, []AnswerField, error) {
	if !ex.HasContent() {
		return EmptyContentHTML, nil, nil
	}

	content, err := r.renderFragment(ex.Content, sourceDir)
	if err != nil {
		return "", nil, err
	}
	content, err = pipeline.FocusFirstField(content)
	if err != nil {
		return "", nil, fmt.Errorf("focusing answer field: %w", err)
	}

	found, err := pipeline.ListAnswerFields(content)
	if err != nil {
		return "", nil, fmt.Errorf("listing answer fields: %w", err)
	}
	fields := make([]AnswerField, len(found))
	for i, f := range found {
		fields[i] = AnswerField(f)
	}
	return content, fields, nil
}

// renderFragment normalizes markup and rewrites its relative paths.
func (r *Renderer) renderFragment(markup, sourceDir string) (string, error) {
	fragment := r.normalizer.Normalize(markup)
	if sourceDir == "" {
		return fragment, nil
	}
	fragment, err := pipeline.RewriteRelativePaths(fragment, sourceDir)
	if err != nil {
		return "", fmt.Errorf("rewriting relative paths: %w", err)
	}
	return fragment, nil
}

// renderParams builds the parameter panel: seed, author comment and one
// input per parameter.
func (r *Renderer) renderParams(ctx context.Context, ex *Exercise) (template.HTML, error) {
	data := &pipeline.ParamsData{Seed: ex.Seed}

	if strings.TrimSpace(ex.Comment) != "" {
		comment, err := r.htmlConverter.ToHTML(ctx, ex.Comment)
		if err != nil {
			return "", fmt.Errorf("converting comment: %w", err)
		}
		data.Comment = template.HTML(comment) // #nosec G203 -- goldmark output, raw HTML disabled
	}

	for _, f := range Parameters(ex) {
		data.Fields = append(data.Fields, toParamField(f))
	}

	panel, err := r.pageBuilder.BuildParams(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLRendering, err)
	}
	return panel, nil
}

func toParamField(f ParameterField) pipeline.ParamField {
	return pipeline.ParamField{
		Key:         f.Key,
		Label:       f.Label,
		Type:        f.InputType(),
		Value:       f.ValueText(),
		Placeholder: f.Placeholder(),
		Helper:      f.Helper,
		Checked:     f.Kind == FieldCheckbox && f.Checked(),
	}
}

// katexData returns the formula renderer location, nil when disabled.
func (r *Renderer) katexData() *pipeline.KaTeXData {
	if r.cfg.katex.Disabled {
		return nil
	}
	base := strings.TrimRight(r.cfg.katex.BaseURL, "/")
	if base == "" {
		base = DefaultKaTeXBaseURL
	}
	return &pipeline.KaTeXData{BaseURL: template.URL(base)} // #nosec G203 -- configured by the caller
}

// pageCSS combines the style, highlighting rules and user CSS.
// Order matters: user CSS comes last so it can override.
func (r *Renderer) pageCSS(input Input) (string, error) {
	parts := []string{r.cfg.resolvedStyle}
	if input.ShowSource || input.ShowParameters {
		css, err := r.highlighter.CSS()
		if err != nil {
			return "", fmt.Errorf("building highlight CSS: %w", err)
		}
		parts = append(parts, css)
	}
	if input.CSS != "" {
		parts = append(parts, input.CSS)
	}
	return strings.Join(parts, "\n"), nil
}

// Close releases resources (headless Chrome browser).
func (r *Renderer) Close() error {
	if r.pdfConverter != nil {
		return r.pdfConverter.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. An empty input selects the default style.
func (r *Renderer) resolveStyle() error {
	input := r.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	switch fileutil.ClassifyStyle(input) {
	case fileutil.StyleFile:
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		r.cfg.resolvedStyle = string(content)
		return nil
	case fileutil.StyleCSS:
		r.cfg.resolvedStyle = input
		return nil
	}

	css, err := r.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	r.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
func validateInput(input Input) error {
	if input.Exercise == nil {
		return ErrNilExercise
	}
	return input.Page.Validate()
}
