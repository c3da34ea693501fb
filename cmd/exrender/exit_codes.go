package main

import (
	"errors"
	"os"

	exrender "github.com/alnah/go-exrender"
	"github.com/alnah/go-exrender/internal/config"
)

// Exit codes for the exrender CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All exercises rendered or checked
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, unreadable document
	ExitBrowser = 4 // Browser/Chrome or formula rendering errors
)

// exitCodeFor returns the exit code for an error.
// It uses errors.Is, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, exrender.ErrBrowserConnect) ||
		errors.Is(err, exrender.ErrPageCreate) ||
		errors.Is(err, exrender.ErrPageLoad) ||
		errors.Is(err, exrender.ErrFormulaRender) ||
		errors.Is(err, exrender.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, exrender.ErrExerciseRead) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, exrender.ErrInvalidExercise) ||
		errors.Is(err, exrender.ErrInvalidCatalog) ||
		errors.Is(err, exrender.ErrEmptyCatalog) ||
		errors.Is(err, exrender.ErrUnknownCode) ||
		errors.Is(err, exrender.ErrInvalidPageSize) ||
		errors.Is(err, exrender.ErrInvalidOrientation) ||
		errors.Is(err, exrender.ErrInvalidMargin) ||
		errors.Is(err, exrender.ErrStyleNotFound) ||
		errors.Is(err, exrender.ErrTemplateSetNotFound) ||
		errors.Is(err, exrender.ErrIncompleteTemplateSet) ||
		errors.Is(err, exrender.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidOverride) ||
		errors.Is(err, ErrInvalidAnswer) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
