package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-exrender/internal/config"
	"github.com/alnah/go-exrender/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = fileutil.ErrNotExercise
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToRender is one exercise document and where its output goes.
type FileToRender struct {
	InputPath  string
	OutputPath string // PDF path; the HTML path is derived from it
}

// discoverFiles finds the exercise documents under each input path.
// A file input must carry an exercise extension; directories are walked
// and keep their layout under outputDir.
func discoverFiles(inputPaths []string, outputDir string) ([]FileToRender, error) {
	var files []FileToRender
	for _, inputPath := range inputPaths {
		found, err := discoverPath(inputPath, outputDir, len(inputPaths) == 1)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func discoverPath(inputPath, outputDir string, single bool) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := fileutil.CheckExercise(inputPath); err != nil {
			return nil, err
		}
		// An explicit .pdf output only makes sense for a single file.
		dir := outputDir
		if !single && strings.HasSuffix(dir, ".pdf") {
			dir = filepath.Dir(dir)
		}
		return []FileToRender{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, dir, "")}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsExercise(path) {
			return nil
		}
		files = append(files, FileToRender{
			InputPath:  path,
			OutputPath: resolveOutputPath(path, outputDir, inputPath),
		})
		return nil
	})
	return files, err
}

// resolveOutputPath determines the PDF output path for an exercise file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, ".pdf") + ".html"
}
