// Package fileutil holds the file and path helpers shared by the renderer,
// the CLI and the config loader: exercise document detection, temporary
// pages for the browser, and classification of style and asset inputs.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNotExercise is returned for files that are not exercise documents.
var ErrNotExercise = errors.New("file must have .json, .yaml or .yml extension")

// ExerciseExtensions lists the extensions of exercise documents.
var ExerciseExtensions = []string{".json", ".yaml", ".yml"}

// IsExercise reports whether path names an exercise document.
// The extension is matched case-insensitively.
func IsExercise(path string) bool {
	return slices.Contains(ExerciseExtensions, strings.ToLower(filepath.Ext(path)))
}

// CheckExercise returns ErrNotExercise when path is not an exercise document.
func CheckExercise(path string) error {
	if !IsExercise(path) {
		return fmt.Errorf("%w: got %q", ErrNotExercise, filepath.Ext(path))
	}
	return nil
}

// TempPagePattern names the temporary pages handed to the browser.
const TempPagePattern = "exrender-*.html"

// WriteTempPage writes an HTML page to the temp directory.
// Returns the file path and a cleanup function removing the file.
func WriteTempPage(content string) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", TempPagePattern)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp page: %w", err)
	}

	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp page: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp page: %w", err)
	}
	return path, cleanup, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a
// name: it contains a path separator.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true for http and https URLs.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsFileURL returns true for file URLs.
func IsFileURL(s string) bool {
	return strings.HasPrefix(s, "file://")
}

// StyleKind tells how a style input is resolved.
type StyleKind int

const (
	StyleName StyleKind = iota // embedded or configured style, e.g. "print"
	StyleFile                  // CSS file on disk
	StyleCSS                   // inline CSS content
)

// ClassifyStyle classifies a style input. Paths win over inline CSS, so a
// path is never read as a rule set.
func ClassifyStyle(s string) StyleKind {
	switch {
	case IsFilePath(s):
		return StyleFile
	case strings.Contains(s, "{"):
		return StyleCSS
	default:
		return StyleName
	}
}
