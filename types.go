package exrender

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-exrender/internal/assets"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// EmptyContentHTML replaces the exercise body when the generator produced
// nothing.
const EmptyContentHTML = "<em>Aucun contenu généré</em>"

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Input contains the parameters of one rendering.
type Input struct {
	Exercise       *Exercise      // Generated exercise (required)
	SourceDir      string         // Directory for resolving relative image paths (optional)
	CSS            string         // Custom CSS appended after the style (optional)
	ShowCorrection bool           // Include the normalized correction
	ShowParameters bool           // Include the parameter panel
	ShowSource     bool           // Include the highlighted raw markup
	Answers        map[int]string // Submitted answers by question index; enables feedback
	Page           *PageSettings  // Page settings (optional, nil = defaults)
	HTMLOnly       bool           // Skip PDF generation
}

// RenderResult contains the output of a rendering.
type RenderResult struct {
	HTML    []byte        // Standalone HTML page
	PDF     []byte        // PDF bytes (nil when HTMLOnly)
	Content string        // Normalized exercise body fragment
	Fields  []AnswerField // Answer fields found in the body
	Score   *Score        // Answer check (nil without Input.Answers)
}

// AnswerField is an answer input found in the normalized body.
type AnswerField struct {
	ID       string // element id
	Tag      string // "math-field" or "input"
	Question int    // question index parsed from the id, -1 if none
}

// KaTeXSettings configures the formula renderer loaded by the page.
type KaTeXSettings struct {
	Disabled bool   // Do not load KaTeX
	BaseURL  string // Directory holding katex.min.js, katex.min.css and contrib/auto-render.min.js
}

// DefaultKaTeXBaseURL is the CDN directory used when no base URL is set.
const DefaultKaTeXBaseURL = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist"

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout        time.Duration
	styleInput     string
	resolvedStyle  string
	assetPath      string
	templateSet    *assets.TemplateSet
	maxDepth       int
	katex          KaTeXSettings
	highlightStyle string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("exrender: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithStyle sets the page style. The value may be a built-in style name,
// a path to a CSS file, or literal CSS.
func WithStyle(style string) Option {
	return func(r *Renderer) {
		r.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles and templates take precedence
// over the built-in ones.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader.
func WithAssetLoader(loader AssetLoader) Option {
	return func(r *Renderer) {
		r.publicAssetLoader = loader
	}
}

// WithTemplateSet sets the page templates directly.
func WithTemplateSet(ts *TemplateSet) Option {
	return func(r *Renderer) {
		if ts == nil {
			return
		}
		r.cfg.templateSet = &assets.TemplateSet{
			Name:   ts.Name,
			Page:   ts.Page,
			Params: ts.Params,
		}
	}
}

// WithMaxDepth sets the markup nesting ceiling.
// Panics if depth < 0 (programmer error).
func WithMaxDepth(depth int) Option {
	if depth < 0 {
		panic("exrender: WithMaxDepth depth must not be negative")
	}
	return func(r *Renderer) {
		r.cfg.maxDepth = depth
	}
}

// WithKaTeX configures the formula renderer.
func WithKaTeX(k KaTeXSettings) Option {
	return func(r *Renderer) {
		r.cfg.katex = k
	}
}

// WithHighlightStyle sets the chroma style used for code and source views.
func WithHighlightStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.highlightStyle = name
	}
}
