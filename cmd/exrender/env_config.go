package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-exrender/internal/config"
)

// envPrefix starts every environment variable the CLI reads.
const envPrefix = "EXRENDER_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // EXRENDER_CONFIG: config file name or path
	Style      string        // EXRENDER_STYLE: CSS style name or path
	Timeout    time.Duration // EXRENDER_TIMEOUT: per-page timeout
	Workers    int           // EXRENDER_WORKERS: parallel workers

	InputDir  string // EXRENDER_INPUT_DIR: default input directory
	OutputDir string // EXRENDER_OUTPUT_DIR: default output directory
	PageSize  string // EXRENDER_PAGE_SIZE: a4, letter, legal
	KaTeXURL  string // EXRENDER_KATEX_URL: KaTeX dist URL
	Catalog   string // EXRENDER_CATALOG: catalog document
	Registry  string // EXRENDER_REGISTRY: code registry document
}

// knownEnvVars lists valid EXRENDER_* variables, used to catch typos.
var knownEnvVars = map[string]bool{
	"EXRENDER_CONFIG":     true,
	"EXRENDER_STYLE":      true,
	"EXRENDER_TIMEOUT":    true,
	"EXRENDER_WORKERS":    true,
	"EXRENDER_INPUT_DIR":  true,
	"EXRENDER_OUTPUT_DIR": true,
	"EXRENDER_PAGE_SIZE":  true,
	"EXRENDER_KATEX_URL":  true,
	"EXRENDER_CATALOG":    true,
	"EXRENDER_REGISTRY":   true,
	"EXRENDER_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("EXRENDER_CONFIG"),
		Style:      os.Getenv("EXRENDER_STYLE"),
		InputDir:   os.Getenv("EXRENDER_INPUT_DIR"),
		OutputDir:  os.Getenv("EXRENDER_OUTPUT_DIR"),
		PageSize:   os.Getenv("EXRENDER_PAGE_SIZE"),
		KaTeXURL:   os.Getenv("EXRENDER_KATEX_URL"),
		Catalog:    os.Getenv("EXRENDER_CATALOG"),
		Registry:   os.Getenv("EXRENDER_REGISTRY"),
	}

	if timeout := os.Getenv("EXRENDER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := os.Getenv("EXRENDER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized EXRENDER_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config values that are still empty from env.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by the command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.CSS.Style == "" {
		cfg.CSS.Style = env.Style
	}
	if env.Timeout > 0 && cfg.Render.Timeout == "" {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 && cfg.Render.Workers == 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.KaTeXURL != "" && cfg.KaTeX.BaseURL == "" {
		cfg.KaTeX.BaseURL = env.KaTeXURL
	}
	if env.Catalog != "" && cfg.Catalog.Path == "" {
		cfg.Catalog.Path = env.Catalog
	}
	if env.Registry != "" && cfg.Catalog.Registry == "" {
		cfg.Catalog.Registry = env.Registry
	}
}

// loadConfig loads the config named by the flag, or by EXRENDER_CONFIG,
// then fills the gaps from the environment. Missing-config errors carry
// a hint.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, fmt.Errorf("loading config: %w%s", err, configHint(err, name))
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}
