package texnorm

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxDepth is the deepest nested run performed before a fragment is
// returned unchanged.
const DefaultMaxDepth = 10

// Held fragments are replaced by tokens built from Private Use Area
// characters. Generator output never uses them, and the directive patterns
// cannot match across them.
const (
	heldOpen  = "\uE010" // U+E010: Private Use Area
	heldClose = "\uE011" // U+E011: Private Use Area
)

var heldToken = regexp.MustCompile(heldOpen + `([0-9]+)` + heldClose)

// Normalizer converts legacy exercise markup to HTML.
// The zero value is not usable; create one with New.
type Normalizer struct {
	maxDepth int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithMaxDepth sets the recursion ceiling.
// Panics if depth is negative (programmer error).
func WithMaxDepth(depth int) Option {
	if depth < 0 {
		panic("texnorm: WithMaxDepth depth must not be negative")
	}
	return func(n *Normalizer) {
		n.maxDepth = depth
	}
}

// New creates a Normalizer with DefaultMaxDepth unless overridden.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize converts content with the default Normalizer.
func Normalize(content string) string {
	return defaultNormalizer.Normalize(content)
}

// NormalizeDepth converts content as if it were nested depth levels deep,
// using the default Normalizer.
func NormalizeDepth(content string, depth int) string {
	return defaultNormalizer.NormalizeDepth(content, depth)
}

// MaxDepth returns the recursion ceiling.
func (n *Normalizer) MaxDepth() int {
	return n.maxDepth
}

// Normalize converts content starting at depth 0.
func (n *Normalizer) Normalize(content string) string {
	return n.NormalizeDepth(content, 0)
}

// NormalizeDepth converts content starting at the given depth.
// Empty content yields "". Content deeper than the ceiling is returned
// unchanged. A negative depth counts as 0.
func (n *Normalizer) NormalizeDepth(content string, depth int) string {
	if content == "" {
		return ""
	}
	if depth < 0 {
		depth = 0
	}
	if depth > n.maxDepth {
		return content
	}

	p := &pass{maxDepth: n.maxDepth}
	out := p.run(p.holdFormulas(content), depth)
	return p.release(out)
}

// heldText is a fragment set aside during a pass.
// Verbatim fragments come from the input and are restored without looking
// inside them; the others are pass output that may contain further tokens.
type heldText struct {
	text     string
	verbatim bool
}

// pass carries the fragments held during one top-level call.
type pass struct {
	maxDepth int
	held     []heldText
}

// run applies every stage in order. Order matters: inline styles are resolved
// before any environment extracts its body, and lists are converted before
// spacing blocks so that list bodies can drop their spacing wrappers.
func (p *pass) run(s string, depth int) string {
	if s == "" {
		return ""
	}
	if depth > p.maxDepth {
		return s
	}

	s = convertInline(s)
	s = p.convertMulticols(s, depth)
	s = p.convertLists(s, depth)
	s = p.convertSpacing(s, depth)
	s = convertSkips(s)
	s = p.convertMarginNotes(s, depth)
	s = convertLiterals(s)
	s = convertResidualBreaks(s)
	return s
}

// nested runs the pipeline over an extracted fragment one level deeper and
// holds the result so that the remaining stages of the current level leave
// it alone.
func (p *pass) nested(s string, depth int) string {
	return p.hold(p.run(s, depth+1), false)
}

// hold stores s and returns the token standing in for it.
func (p *pass) hold(s string, verbatim bool) string {
	p.held = append(p.held, heldText{text: s, verbatim: verbatim})
	return heldOpen + strconv.Itoa(len(p.held)-1) + heldClose
}

// release replaces every token in s with the text it stands for.
func (p *pass) release(s string) string {
	if len(p.held) == 0 || !strings.Contains(s, heldOpen) {
		return s
	}
	return heldToken.ReplaceAllStringFunc(s, func(token string) string {
		idx, err := strconv.Atoi(token[len(heldOpen) : len(token)-len(heldClose)])
		if err != nil || idx >= len(p.held) {
			return token
		}
		h := p.held[idx]
		if h.verbatim {
			return h.text
		}
		return p.release(h.text)
	})
}
