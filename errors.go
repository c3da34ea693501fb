package exrender

import "errors"

// Sentinel errors for library operations.
var (
	ErrNilExercise    = errors.New("exercise cannot be nil")
	ErrHTMLRendering  = errors.New("HTML rendering failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrFormulaRender  = errors.New("formula rendering did not complete")

	// Exercise document errors.
	ErrInvalidExercise = errors.New("invalid exercise document")
	ErrExerciseRead    = errors.New("failed to read exercise document")

	// Catalog errors.
	ErrInvalidCatalog = errors.New("invalid exercise catalog")
	ErrEmptyCatalog   = errors.New("exercise catalog is empty")
	ErrUnknownCode    = errors.New("unknown exercise code")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
