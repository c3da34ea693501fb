package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"

	exrender "github.com/alnah/go-exrender"
	"github.com/alnah/go-exrender/internal/config"
	"github.com/alnah/go-exrender/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage           = errors.New("invalid usage")
	ErrNoInput         = errors.New("no input specified")
	ErrReadInput       = errors.New("failed to read input")
	ErrReadCSS         = errors.New("failed to read CSS file")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrInvalidOverride = errors.New("invalid parameter override")
	ErrInvalidAnswer   = errors.New("invalid answer")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// renderParams groups the per-page settings shared across a batch.
type renderParams struct {
	css            string
	page           *exrender.PageSettings
	showCorrection bool
	showParameters bool
	showSource     bool
	answers        map[int]string
	overrides      map[string]string
	htmlOnly       bool
	htmlOutput     bool
	katexURL       string // for hints
}

// runRender orchestrates a render run: config, discovery, pool, batch.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if flags.common.verbose {
		warnUnknownEnvVars(env.Stderr)
	}
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	env.Config = cfg

	inputPaths, err := resolveInputPaths(positional, cfg)
	if err != nil {
		return err
	}
	files, err := discoverFiles(inputPaths, resolveOutputDir(flags.output, cfg))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no exercise documents found in %s", ErrNoInput, strings.Join(inputPaths, ", "))
	}

	params, err := buildRenderParams(flags, cfg)
	if err != nil {
		return err
	}
	opts, err := buildRendererOptions(cfg)
	if err != nil {
		return err
	}

	poolSize := min(exrender.ResolvePoolSize(cfg.Render.Workers), len(files))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	rp := exrender.NewRendererPool(poolSize, opts...)
	defer rp.Close()
	pool := &poolAdapter{pool: rp}

	// Surface asset and template errors once instead of per file.
	r, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", withHint(err, params.katexURL))
	}
	pool.Release(r)

	results := renderBatch(ctx, pool, files, params, env.Now)
	return summarize(results, flags.common.quiet, flags.common.verbose, env)
}

// mergeRenderFlags merges CLI flags into config. CLI values override config values.
func mergeRenderFlags(flags *renderFlags, cfg *config.Config) {
	if flags.assets.style != "" {
		cfg.CSS.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.katex.baseURL != "" {
		cfg.KaTeX.BaseURL = flags.katex.baseURL
	}
	if flags.katex.disabled {
		cfg.KaTeX.Disabled = true
	}

	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}

	if flags.timeout != "" {
		cfg.Render.Timeout = flags.timeout
	}
	if flags.workers > 0 {
		cfg.Render.Workers = flags.workers
	}
	if flags.maxDepth > 0 {
		cfg.Render.MaxDepth = flags.maxDepth
	}
	if flags.sections.correction {
		cfg.Render.ShowCorrection = true
	}
	if flags.sections.parameters {
		cfg.Render.ShowParameters = true
	}
	if flags.sections.source {
		cfg.Render.ShowSource = true
	}
	if flags.sections.highlightStyle != "" {
		cfg.Render.HighlightStyle = flags.sections.highlightStyle
	}

	if flags.outputMode.htmlOnly {
		cfg.Output.Format = "html"
	}
}

// resolveInputPaths determines the input paths from args or config.
func resolveInputPaths(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// buildRenderParams resolves the per-page settings from flags and config.
func buildRenderParams(flags *renderFlags, cfg *config.Config) (*renderParams, error) {
	css, err := readCSSFile(flags.assets.css)
	if err != nil {
		return nil, err
	}
	page, err := buildPageSettings(cfg)
	if err != nil {
		return nil, err
	}
	overrides, err := parseOverridePairs(flags.overrides)
	if err != nil {
		return nil, err
	}

	var answers map[int]string
	if flags.answers != "" {
		if answers, err = loadAnswers(flags.answers); err != nil {
			return nil, err
		}
	}

	return &renderParams{
		css:            css,
		page:           page,
		showCorrection: cfg.Render.ShowCorrection,
		showParameters: cfg.Render.ShowParameters,
		showSource:     cfg.Render.ShowSource,
		answers:        answers,
		overrides:      overrides,
		htmlOnly:       cfg.Output.Format == "html",
		htmlOutput:     flags.outputMode.html,
		katexURL:       cfg.KaTeX.BaseURL,
	}, nil
}

// buildRendererOptions translates config into renderer options.
func buildRendererOptions(cfg *config.Config) ([]exrender.Option, error) {
	var opts []exrender.Option

	if cfg.CSS.Style != "" {
		opts = append(opts, exrender.WithStyle(cfg.CSS.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, exrender.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Render.MaxDepth > 0 {
		opts = append(opts, exrender.WithMaxDepth(cfg.Render.MaxDepth))
	}
	if cfg.Render.HighlightStyle != "" {
		opts = append(opts, exrender.WithHighlightStyle(cfg.Render.HighlightStyle))
	}
	if cfg.KaTeX.Disabled || cfg.KaTeX.BaseURL != "" {
		opts = append(opts, exrender.WithKaTeX(exrender.KaTeXSettings{
			Disabled: cfg.KaTeX.Disabled,
			BaseURL:  cfg.KaTeX.BaseURL,
		}))
	}

	timeout, err := cfg.Render.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, exrender.WithTimeout(timeout))
	}

	return opts, nil
}

// buildPageSettings creates page settings from config, or nil when the
// config sets nothing.
func buildPageSettings(cfg *config.Config) (*exrender.PageSettings, error) {
	if cfg.Page.Size == "" && cfg.Page.Orientation == "" && cfg.Page.Margin == 0 {
		return nil, nil
	}

	ps := exrender.DefaultPageSettings()
	if cfg.Page.Size != "" {
		ps.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		ps.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin > 0 {
		ps.Margin = cfg.Page.Margin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// readCSSFile reads the extra CSS file, "" when none is given.
func readCSSFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// parseOverridePairs parses key=value overrides. Later pairs win.
func parseOverridePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q (want key=value)", ErrInvalidOverride, pair)
		}
		out[key] = value
	}
	return out, nil
}

// parameterOverrides converts key=value pairs into exercise overrides.
// Pairs naming a parameter, by descriptor or current-value key, are typed
// the way a submitted parameter form is; other pairs are stored as text.
func parameterOverrides(ex *exrender.Exercise, pairs map[string]string) map[string]any {
	rest := make(map[string]any, len(pairs))
	for key, value := range pairs {
		rest[key] = value
	}

	var fields []exrender.ParameterField
	values := make(map[string]string)
	for _, f := range exrender.Parameters(ex) {
		for _, key := range []string{f.Key, f.SupKey} {
			value, ok := pairs[key]
			if key == "" || !ok {
				continue
			}
			fields = append(fields, f)
			values[f.Key] = value
			delete(rest, key)
			break
		}
	}

	overrides := exrender.ParseOverrides(fields, values)
	maps.Copy(overrides, rest)
	return overrides
}

// loadAnswers reads an answers document: an object mapping zero-based
// question indexes to answers.
func loadAnswers(path string) (map[int]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	var doc map[string]any
	if err := yamlutil.UnmarshalDocument(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAnswer, path, err)
	}

	answers := make(map[int]string, len(doc))
	for key, value := range doc {
		i, err := parseQuestionIndex(key)
		if err != nil {
			return nil, err
		}
		answers[i] = answerText(value)
	}
	return answers, nil
}

// parseAnswerPairs parses index=value pairs into answers.
func parseAnswerPairs(pairs []string) (map[int]string, error) {
	answers := make(map[int]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q (want index=value)", ErrInvalidAnswer, pair)
		}
		i, err := parseQuestionIndex(key)
		if err != nil {
			return nil, err
		}
		answers[i] = value
	}
	return answers, nil
}

func parseQuestionIndex(key string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: question index %q must be a non-negative integer", ErrInvalidAnswer, key)
	}
	return i, nil
}

func answerText(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	default:
		return fmt.Sprint(a)
	}
}

// usageError marks flag parsing errors as usage errors. Help requests
// pass through unchanged.
func usageError(err error) error {
	if errors.Is(err, errHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
