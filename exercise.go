package exrender

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/alnah/go-exrender/internal/yamlutil"
)

// Document keys read from generator output.
const (
	keyContent        = "contenu"
	keyCorrection     = "contenuCorrection"
	keyComment        = "comment"
	keySeed           = "seed"
	keyAutoCorrection = "autoCorrection"
	keyAnswer         = "reponse"
)

// idKeys lists the keys that may carry the exercise identifier, by priority.
var idKeys = []string{"id", "idExercice", "uuid"}

// Exercise is one generated exercise as emitted by a generator.
// The typed fields mirror the document; Field gives access to the rest,
// including parameter descriptors and their current values.
type Exercise struct {
	ID             string
	Seed           string
	Content        string // body markup
	Correction     string // correction markup
	Comment        string // Markdown note from the exercise author
	AutoCorrection []any  // one entry per question, each holding a "reponse" node

	fields map[string]any
}

// NewExercise builds an Exercise from a decoded document.
// The map is copied; later changes to it are not seen.
func NewExercise(fields map[string]any) *Exercise {
	e := &Exercise{fields: maps.Clone(fields)}
	if e.fields == nil {
		e.fields = make(map[string]any)
	}
	e.refresh()
	return e
}

// ParseExercise decodes an exercise document written as JSON or YAML.
func ParseExercise(data []byte) (*Exercise, error) {
	var doc map[string]any
	if err := yamlutil.UnmarshalDocument(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExercise, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrInvalidExercise)
	}
	return NewExercise(doc), nil
}

// LoadExercise reads and decodes the exercise document at path.
func LoadExercise(path string) (*Exercise, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExerciseRead, err)
	}
	ex, err := ParseExercise(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ex, nil
}

// Field returns a raw document value.
func (e *Exercise) Field(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// Fields returns a copy of the raw document.
func (e *Exercise) Fields() map[string]any {
	return maps.Clone(e.fields)
}

// Title returns the page title, "Exercice <id> (<seed>)".
func (e *Exercise) Title() string {
	return fmt.Sprintf("Exercice %s (%s)", e.ID, e.Seed)
}

// HasContent reports whether the body holds anything but whitespace.
func (e *Exercise) HasContent() bool {
	return strings.TrimSpace(e.Content) != ""
}

// ApplyOverrides stores submitted parameter values. Keys naming a parameter
// descriptor (besoinFormulaire...) are redirected to that parameter's
// current-value key; other keys are stored as given.
func (e *Exercise) ApplyOverrides(overrides map[string]any) {
	for key, value := range overrides {
		target := key
		if spec, ok := parseParameterKey(key); ok {
			target = spec.supKey
		}
		e.fields[target] = value
	}
	e.refresh()
}

// refresh re-reads the typed fields from the raw document.
func (e *Exercise) refresh() {
	e.ID = ""
	for _, k := range idKeys {
		if v := scalarText(e.fields[k]); v != "" {
			e.ID = v
			break
		}
	}
	e.Seed = scalarText(e.fields[keySeed])
	e.Content = scalarText(e.fields[keyContent])
	e.Correction = scalarText(e.fields[keyCorrection])
	e.Comment = scalarText(e.fields[keyComment])

	e.AutoCorrection = nil
	if list, ok := e.fields[keyAutoCorrection].([]any); ok {
		e.AutoCorrection = list
	}
}
