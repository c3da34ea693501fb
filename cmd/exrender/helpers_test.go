package main

// Notes:
// - Test infrastructure shared across command tests: a recording renderer,
//   a fixed-size pool around it, and exercise document fixtures.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	exrender "github.com/alnah/go-exrender"
	"github.com/alnah/go-exrender/internal/config"
)

// ---------------------------------------------------------------------------
// Mock renderer and pool
// ---------------------------------------------------------------------------

type mockRenderer struct {
	mu     sync.Mutex
	inputs []exrender.Input
	result *exrender.RenderResult
	err    error
}

func (m *mockRenderer) Render(_ context.Context, input exrender.Input) (*exrender.RenderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &exrender.RenderResult{HTML: []byte("<html></html>"), PDF: []byte("%PDF-1.4 mock")}, nil
}

func (m *mockRenderer) calls() []exrender.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]exrender.Input(nil), m.inputs...)
}

type mockPool struct {
	renderer   *mockRenderer
	size       int
	acquireErr error
	acquired   atomic.Int32
	released   atomic.Int32
}

var _ Pool = (*mockPool)(nil)

func (p *mockPool) Acquire(context.Context) (PageRenderer, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired.Add(1)
	return p.renderer, nil
}

func (p *mockPool) Release(PageRenderer) { p.released.Add(1) }

func (p *mockPool) Size() int { return p.size }

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const sampleExercise = `{
  "id": "6C10",
  "seed": "k3f9",
  "contenu": "\\textbf{Calculer} : \\begin{itemize}\\item $2+3$ <input id=\"champTexteEx0Q0\">\\end{itemize}",
  "contenuCorrection": "$2+3=5$",
  "besoinFormulaire2Numerique": ["Nombre de termes", 4],
  "sup2": 2,
  "besoinFormulaireCaseACocher": ["Avec décimaux", false],
  "sup": false,
  "autoCorrection": [{"reponse": {"valeur": "5"}}]
}`

// writeFile writes content under dir, creating parents.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// testEnv returns an environment writing to buffers with a fixed clock.
func testEnv(stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return &Environment{
		Now:    func() time.Time { return fixed },
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
	}, &stdout, &stderr
}

func defaultParams() *renderParams {
	return &renderParams{}
}
