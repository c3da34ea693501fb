package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	exrender "github.com/alnah/go-exrender"
	"github.com/alnah/go-exrender/internal/config"
	"github.com/alnah/go-exrender/internal/hints"
)

// withHint appends an actionable hint to err when one applies.
// The result still wraps err.
func withHint(err error, katexURL string) error {
	var hint string
	switch {
	case err == nil:
		return nil
	case errors.Is(err, exrender.ErrBrowserConnect):
		hint = hints.ForBrowserConnect()
	case errors.Is(err, exrender.ErrFormulaRender):
		hint = hints.ForFormulaRender(katexURL)
	case errors.Is(err, context.DeadlineExceeded):
		hint = hints.ForTimeout()
	case errors.Is(err, exrender.ErrStyleNotFound):
		hint = hints.ForStyleNotFound(exrender.StyleNames())
	case errors.Is(err, os.ErrPermission):
		hint = hints.ForOutputDirectory()
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// configHint returns the hint for a config loading error.
func configHint(err error, name string) string {
	if errors.Is(err, config.ErrConfigNotFound) {
		return hints.ForConfigNotFound(config.SearchPaths(name))
	}
	return ""
}
