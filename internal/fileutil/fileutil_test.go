package fileutil_test

// Notes:
// - TestWriteTempPage_CreateTempError sets TMPDIR and cannot run in parallel.
// - The WriteString and Close error branches of WriteTempPage are not covered:
//   triggering disk write failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-exrender/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestIsExercise - Exercise document detection
// ---------------------------------------------------------------------------

func TestIsExercise(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"6C10.json", true},
		{"exercices/5e/5G20.yaml", true},
		{"6C10.yml", true},
		{"6C10.JSON", true},
		{"C:\\exos\\4A10.Yaml", true},
		{"catalog.json.bak", false},
		{"notes.txt", false},
		{"page.html", false},
		{"json", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsExercise(tt.path); got != tt.want {
				t.Errorf("IsExercise(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckExercise(t *testing.T) {
	t.Parallel()

	if err := fileutil.CheckExercise("6C10.yaml"); err != nil {
		t.Errorf("CheckExercise(6C10.yaml) error = %v", err)
	}

	err := fileutil.CheckExercise("6C10.txt")
	if !errors.Is(err, fileutil.ErrNotExercise) {
		t.Fatalf("CheckExercise(6C10.txt) error = %v, want ErrNotExercise", err)
	}
	if !strings.Contains(err.Error(), `".txt"`) {
		t.Errorf("error %q should name the extension", err)
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempPage - Pages handed to the browser
// ---------------------------------------------------------------------------

func TestWriteTempPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"exercise page", `<h2 id="questionTitleEl">Exercice 6C10 (k3f9)</h2><p>Calculer $\dfrac{3}{4}$.</p>`},
		{"empty page", ""},
		{"large page", strings.Repeat("<li>Question</li>", 100_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, cleanup, err := fileutil.WriteTempPage(tt.content)
			if err != nil {
				t.Fatalf("WriteTempPage() error = %v", err)
			}
			defer cleanup()

			if matched, _ := filepath.Match(fileutil.TempPagePattern, filepath.Base(path)); !matched {
				t.Errorf("page name %q does not match %q", filepath.Base(path), fileutil.TempPagePattern)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading page: %v", err)
			}
			if string(got) != tt.content {
				t.Errorf("page content length = %d, want %d", len(got), len(tt.content))
			}
		})
	}
}

func TestWriteTempPage_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempPage("<p>x</p>")
	if err != nil {
		t.Fatalf("WriteTempPage() error = %v", err)
	}
	cleanup()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("page %s still exists after cleanup", path)
	}
	cleanup() // second call is harmless
}

func TestWriteTempPage_CreateTempError(t *testing.T) {
	t.Setenv("TMPDIR", filepath.Join(t.TempDir(), "missing"))

	_, cleanup, err := fileutil.WriteTempPage("<p>x</p>")
	if cleanup != nil {
		cleanup()
	}
	if err == nil || !strings.Contains(err.Error(), "creating temp page") {
		t.Errorf("WriteTempPage() error = %v, want a creating temp page error", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular files only
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "6C10.json")
	if err := os.WriteFile(doc, []byte(`{"titre":"Additions"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"exercise document", doc, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "5G20.yaml"), false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestURLs - KaTeX locations
// ---------------------------------------------------------------------------

func TestURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		wantURL  bool
		wantFile bool
	}{
		{"https://cdn.jsdelivr.net/npm/katex@0.16.11/dist", true, false},
		{"http://localhost:8080/katex", true, false},
		{"file:///usr/share/katex/dist", false, true},
		{"/usr/share/katex/dist", false, false},
		{"cdn.jsdelivr.net/npm/katex", false, false},
		{"ftp://mirror/katex", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsURL(tt.input); got != tt.wantURL {
				t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.wantURL)
			}
			if got := fileutil.IsFileURL(tt.input); got != tt.wantFile {
				t.Errorf("IsFileURL(%q) = %v, want %v", tt.input, got, tt.wantFile)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestClassifyStyle - Style names, files and inline CSS
// ---------------------------------------------------------------------------

func TestClassifyStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  fileutil.StyleKind
	}{
		{"embedded default", "default", fileutil.StyleName},
		{"embedded print", "print", fileutil.StyleName},
		{"hyphenated name", "grands-caracteres", fileutil.StyleName},
		{"relative file", "./styles/classe.css", fileutil.StyleFile},
		{"windows file", `C:\styles\classe.css`, fileutil.StyleFile},
		{"inline rule", "body { font-size: 14pt; }", fileutil.StyleCSS},
		{"path containing a brace", "./odd{name}.css", fileutil.StyleFile},
		{"empty", "", fileutil.StyleName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.ClassifyStyle(tt.input); got != tt.want {
				t.Errorf("ClassifyStyle(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]bool{
		"exrender":               false,
		"classe":                 false,
		"./exrender.yaml":        true,
		"configs/exrender.yaml":  true,
		`C:\configs\classe.yaml`: true,
	} {
		if got := fileutil.IsFilePath(input); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", input, got, want)
		}
	}
}
