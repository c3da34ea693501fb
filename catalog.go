package exrender

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/alnah/go-exrender/internal/yamlutil"
)

// CodeRegistry reports which exercise codes a generator bundle provides.
type CodeRegistry interface {
	Has(code string) bool
}

// CodeSet is a fixed CodeRegistry.
type CodeSet map[string]struct{}

var _ CodeRegistry = CodeSet(nil)

// NewCodeSet returns a registry holding codes. Blank codes are ignored.
func NewCodeSet(codes ...string) CodeSet {
	set := make(CodeSet, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			set[code] = struct{}{}
		}
	}
	return set
}

// Has reports whether code is registered.
func (s CodeSet) Has(code string) bool {
	if code == "" {
		return false
	}
	_, ok := s[code]
	return ok
}

// Codes returns the registered codes in natural order.
func (s CodeSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	slices.SortFunc(codes, naturalCompare)
	return codes
}

// ParseCodeSet decodes a registry document: either a list of codes or an
// object whose keys are the codes.
func ParseCodeSet(data []byte) (CodeSet, error) {
	var doc any
	if err := yamlutil.UnmarshalDocument(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	switch d := doc.(type) {
	case []any:
		codes := make([]string, 0, len(d))
		for _, v := range d {
			if s, ok := v.(string); ok {
				codes = append(codes, s)
			}
		}
		return NewCodeSet(codes...), nil
	case map[string]any:
		codes := make([]string, 0, len(d))
		for k := range d {
			codes = append(codes, k)
		}
		return NewCodeSet(codes...), nil
	default:
		return nil, fmt.Errorf("%w: code registry must be a list or an object", ErrInvalidCatalog)
	}
}

// LoadCodeSet reads a registry document from path.
func LoadCodeSet(path string) (CodeSet, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	set, err := ParseCodeSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// CatalogEntry is one exercise listed in the catalog.
type CatalogEntry struct {
	Code         string // code as listed
	Niveau       string // school level, e.g. "5e"
	Titre        string // title
	ResolvedCode string // code the registry provides, see ResolveCode
}

// Chosen returns the code used to generate the exercise.
func (e CatalogEntry) Chosen() string {
	if e.ResolvedCode != "" {
		return e.ResolvedCode
	}
	return e.Code
}

var (
	levelDigit   = regexp.MustCompile(`\d`)
	levelledCode = regexp.MustCompile(`^e[A-Za-z0-9]`)
)

// ResolveCode returns the registry code for a listed exercise. A code the
// registry knows is returned as is. Codes written "eXYZ" whose level holds a
// digit are tried as "<digit>XYZ". Otherwise the trimmed code is returned.
// A nil registry knows no code.
func ResolveCode(code, niveau string, registry CodeRegistry) string {
	raw := strings.TrimSpace(code)
	if raw == "" || registry == nil {
		return raw
	}
	if registry.Has(raw) {
		return raw
	}

	digit := levelDigit.FindString(niveau)
	if digit != "" && levelledCode.MatchString(raw) {
		if corrected := digit + raw[1:]; registry.Has(corrected) {
			return corrected
		}
	}
	return raw
}

// Catalog is an ordered exercise index with a "next exercise" pointer.
// It is safe for concurrent use.
type Catalog struct {
	mu      sync.Mutex
	entries []CatalogEntry
	pointer int
}

// NewCatalog resolves entry codes against registry and drops entries
// without a code.
func NewCatalog(entries []CatalogEntry, registry CodeRegistry) *Catalog {
	c := &Catalog{entries: make([]CatalogEntry, 0, len(entries))}
	for _, e := range entries {
		e.Code = strings.TrimSpace(e.Code)
		if e.Code == "" {
			continue
		}
		e.ResolvedCode = ResolveCode(e.Code, e.Niveau, registry)
		c.entries = append(c.entries, e)
	}
	return c
}

// ParseCatalog decodes a catalog document: a list of objects with code,
// niveau and titre keys. Non-string values are ignored.
func ParseCatalog(data []byte, registry CodeRegistry) (*Catalog, error) {
	var doc any
	if err := yamlutil.UnmarshalDocument(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: catalog must be a list", ErrInvalidCatalog)
	}

	entries := make([]CatalogEntry, 0, len(list))
	for _, item := range list {
		meta, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, CatalogEntry{
			Code:   stringField(meta, "code"),
			Niveau: stringField(meta, "niveau"),
			Titre:  stringField(meta, "titre"),
		})
	}
	return NewCatalog(entries, registry), nil
}

// LoadCatalog reads a catalog document from path.
func LoadCatalog(path string, registry CodeRegistry) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	c, err := ParseCatalog(data, registry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Entries returns a copy of the entries.
func (c *Catalog) Entries() []CatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Find returns the first entry whose resolved or listed code is code.
func (c *Catalog) Find(code string) (int, CatalogEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.find(code)
	if i < 0 {
		return -1, CatalogEntry{}, false
	}
	return i, c.entries[i], true
}

func (c *Catalog) find(code string) int {
	return slices.IndexFunc(c.entries, func(e CatalogEntry) bool {
		return e.ResolvedCode == code || e.Code == code
	})
}

// Next returns the entry under the pointer and advances it, wrapping
// around at the end.
func (c *Catalog) Next() (CatalogEntry, error) {
	return c.Select("", false)
}

// Select returns the entry for code, or the entry under the pointer when
// code is empty. The pointer then moves past the returned entry, unless
// keep is set, in which case it is left where it was.
func (c *Catalog) Select(code string, keep bool) (CatalogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	if n == 0 {
		return CatalogEntry{}, ErrEmptyCatalog
	}
	if c.pointer < 0 || c.pointer >= n {
		c.pointer = 0
	}

	target := c.pointer
	if code != "" {
		if target = c.find(code); target < 0 {
			return CatalogEntry{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
		}
	}

	if !keep {
		c.pointer = (target + 1) % n
	}
	return c.entries[target], nil
}
