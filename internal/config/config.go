package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-exrender/internal/fileutil"
	"github.com/alnah/go-exrender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// configDirName is the directory searched under the user config dir.
const configDirName = "go-exrender"

// Field length limits for multi-tenant safety.
const (
	MaxPathLength        = 4096 // PATH_MAX on Linux
	MaxURLLength         = 2048 // Browser limit
	MaxStyleLength       = 256  // Style name or path
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxDurationLength    = 20   // "30s", "2m30s"
)

// Range limits.
const (
	MinMargin  = 0.25
	MaxMargin  = 3.0
	MaxDepth   = 50
	MaxWorkers = 32
	MinTimeout = time.Second
)

// Config holds all configuration for exercise rendering.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	CSS     CSSConfig     `yaml:"css"`
	Assets  AssetsConfig  `yaml:"assets"`
	KaTeX   KaTeXConfig   `yaml:"katex"`
	Page    PageConfig    `yaml:"page"`
	Render  RenderConfig  `yaml:"render"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Format     string `yaml:"format"`     // "pdf" or "html" (default: "pdf")
}

// CSSConfig defines CSS styling options.
type CSSConfig struct {
	Style string `yaml:"style"` // Style name, CSS file path (empty = default style)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// KaTeXConfig defines where the formula renderer is loaded from.
type KaTeXConfig struct {
	Disabled bool   `yaml:"disabled"`
	BaseURL  string `yaml:"baseURL"` // Empty = public CDN
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// RenderConfig defines what a rendered page shows and how it is produced.
type RenderConfig struct {
	ShowCorrection bool   `yaml:"showCorrection"`
	ShowParameters bool   `yaml:"showParameters"`
	ShowSource     bool   `yaml:"showSource"`
	MaxDepth       int    `yaml:"maxDepth"`       // 0 = default ceiling
	Timeout        string `yaml:"timeout"`        // Go duration, e.g. "45s" (empty = default)
	Workers        int    `yaml:"workers"`        // 0 = auto
	HighlightStyle string `yaml:"highlightStyle"` // Chroma style for the source view
}

// CatalogConfig locates the exercise index and the code registry.
type CatalogConfig struct {
	Path     string `yaml:"path"`     // Catalog document (list of {code, niveau, titre})
	Registry string `yaml:"registry"` // Registry document (list of codes)
}

// TimeoutDuration parses Render.Timeout. Returns 0 when unset.
func (r RenderConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout: %v", ErrInvalidValue, err)
	}
	if d < MinTimeout {
		return 0, fmt.Errorf("%w: render.timeout: must be at least %s, got %s", ErrInvalidValue, MinTimeout, d)
	}
	return d, nil
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"css.style", c.CSS.Style, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"katex.baseURL", c.KaTeX.BaseURL, MaxURLLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"render.timeout", c.Render.Timeout, MaxDurationLength},
		{"render.highlightStyle", c.Render.HighlightStyle, MaxStyleLength},
		{"catalog.path", c.Catalog.Path, MaxPathLength},
		{"catalog.registry", c.Catalog.Registry, MaxPathLength},
	}
	for _, f := range lengths {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := validateChoice("output.format", c.Output.Format, "pdf", "html"); err != nil {
		return err
	}
	if err := validateChoice("page.size", c.Page.Size, "letter", "a4", "legal"); err != nil {
		return err
	}
	if err := validateChoice("page.orientation", c.Page.Orientation, "portrait", "landscape"); err != nil {
		return err
	}
	if c.Page.Margin != 0 && (c.Page.Margin < MinMargin || c.Page.Margin > MaxMargin) {
		return fmt.Errorf("%w: page.margin: must be between %.2f and %.2f, got %.2f", ErrInvalidValue, MinMargin, MaxMargin, c.Page.Margin)
	}

	if c.KaTeX.BaseURL != "" && !fileutil.IsURL(c.KaTeX.BaseURL) && !fileutil.IsFileURL(c.KaTeX.BaseURL) {
		return fmt.Errorf("%w: katex.baseURL: must be an http(s) or file URL, got %q", ErrInvalidValue, c.KaTeX.BaseURL)
	}

	if c.Render.MaxDepth < 0 || c.Render.MaxDepth > MaxDepth {
		return fmt.Errorf("%w: render.maxDepth: must be between 0 and %d, got %d", ErrInvalidValue, MaxDepth, c.Render.MaxDepth)
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}
	if _, err := c.Render.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateChoice accepts an empty value or one of choices, case-insensitively.
func validateChoice(fieldName, value string, choices ...string) error {
	if value == "" {
		return nil
	}
	for _, c := range choices {
		if strings.EqualFold(value, c) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(choices, ", "))
}

// DefaultConfig returns a neutral configuration: PDF output, embedded
// assets, no debug panels.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: "pdf"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-exrender/
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, configDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
