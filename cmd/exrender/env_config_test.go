package main

// Notes:
// - These tests use t.Setenv and therefore cannot run in parallel.

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-exrender/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("EXRENDER_CONFIG", "school")
	t.Setenv("EXRENDER_STYLE", "print")
	t.Setenv("EXRENDER_TIMEOUT", "45s")
	t.Setenv("EXRENDER_WORKERS", "3")
	t.Setenv("EXRENDER_PAGE_SIZE", "letter")
	t.Setenv("EXRENDER_KATEX_URL", "file:///opt/katex")
	t.Setenv("EXRENDER_CATALOG", "catalog.yaml")

	env := loadEnvConfig()

	if env.ConfigPath != "school" || env.Style != "print" || env.PageSize != "letter" {
		t.Errorf("strings = %+v", env)
	}
	if env.Timeout != 45*time.Second || env.Workers != 3 {
		t.Errorf("Timeout = %v, Workers = %d", env.Timeout, env.Workers)
	}
	if env.KaTeXURL != "file:///opt/katex" || env.Catalog != "catalog.yaml" {
		t.Errorf("KaTeXURL = %q, Catalog = %q", env.KaTeXURL, env.Catalog)
	}
}

func TestLoadEnvConfig_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("EXRENDER_TIMEOUT", "soon")
	t.Setenv("EXRENDER_WORKERS", "-2")

	env := loadEnvConfig()
	if env.Timeout != 0 || env.Workers != 0 {
		t.Errorf("Timeout = %v, Workers = %d, want zero values", env.Timeout, env.Workers)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("EXRENDER_STYEL", "print")
	t.Setenv("EXRENDER_STYLE", "print")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	if !strings.Contains(buf.String(), "EXRENDER_STYEL") {
		t.Errorf("warning missing for typo: %q", buf.String())
	}
	if strings.Contains(buf.String(), "EXRENDER_STYLE ") {
		t.Errorf("known variable reported: %q", buf.String())
	}
}

func TestApplyEnvConfig_FillsOnlyEmptyFields(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.CSS.Style = "default"
	cfg.Render.Workers = 2

	applyEnvConfig(&envConfig{
		Style:     "print",
		Workers:   8,
		Timeout:   time.Minute,
		OutputDir: "out",
		Registry:  "codes.json",
	}, cfg)

	if cfg.CSS.Style != "default" || cfg.Render.Workers != 2 {
		t.Errorf("config values were overwritten: %+v %+v", cfg.CSS, cfg.Render)
	}
	if cfg.Render.Timeout != "1m0s" || cfg.Output.DefaultDir != "out" || cfg.Catalog.Registry != "codes.json" {
		t.Errorf("empty fields not filled: %+v %+v %+v", cfg.Render, cfg.Output, cfg.Catalog)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	fromFlag := writeFile(t, dir, "flag.yaml", "css:\n  style: print\n")
	fromEnv := writeFile(t, dir, "env.yaml", "css:\n  style: default\npage:\n  size: letter\n")

	cfg, err := loadConfig(fromFlag, &envConfig{ConfigPath: fromEnv, PageSize: "legal"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.CSS.Style != "print" {
		t.Errorf("Style = %q, want the flag config's", cfg.CSS.Style)
	}
	if cfg.Page.Size != "legal" {
		t.Errorf("Page.Size = %q, want env fill-in", cfg.Page.Size)
	}

	cfg, err = loadConfig("", &envConfig{ConfigPath: fromEnv})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Page.Size != "letter" {
		t.Errorf("Page.Size = %q, want the env config's", cfg.Page.Size)
	}
}

func TestLoadConfig_NotFoundCarriesHint(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), &envConfig{})
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}

	_, err = loadConfig("no-such-config-name", &envConfig{})
	if !errors.Is(err, config.ErrConfigNotFound) || !strings.Contains(err.Error(), "no-such-config-name.yaml") {
		t.Errorf("error = %v, want search paths in the hint", err)
	}
}

func TestRunRender_EnvInputDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "6C10.json", sampleExercise)
	out := filepath.Join(t.TempDir(), "out")
	t.Setenv("EXRENDER_INPUT_DIR", dir)
	t.Setenv("EXRENDER_OUTPUT_DIR", out)

	env, _, stderr := testEnv("")
	if code := runMain(t.Context(), []string{"exrender", "render", "--html-only", "--no-katex"}, env); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}
	matches, _ := filepath.Glob(filepath.Join(out, "*.html"))
	if len(matches) != 1 {
		t.Errorf("outputs = %v, want 6C10.html", matches)
	}
}
