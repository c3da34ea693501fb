package texnorm

import (
	"regexp"
	"strings"
)

// envPattern matches the begin and end markers of one environment,
// case-insensitively and tolerant of spaces inside the braces.
// Group 1 holds "begin" or "end".
func envPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\\(begin|end)\s*\{\s*` + regexp.QuoteMeta(name) + `\s*\}`)
}

var (
	enumerateEnv = envPattern("enumerate")
	itemizeEnv   = envPattern("itemize")
	spacingEnv   = envPattern("spacing")
	multicolsEnv = envPattern("multicols")

	// anyEnv matches the markers of any environment. Group 2 holds the name.
	anyEnv = regexp.MustCompile(`(?i)\\(begin|end)\s*\{\s*([a-z]+\*?)\s*\}`)

	// itemScan finds item separators and the environment markers needed to
	// tell top-level separators from nested ones.
	itemScan = regexp.MustCompile(`(?i)\\(begin|end)\s*\{[^{}]*\}|\\item\b\s*`)
)

// envSpan locates one environment occurrence.
// bodyEnd is -1 when the begin marker has no matching end.
type envSpan struct {
	start     int // first byte of \begin
	bodyStart int // first byte after the begin marker
	bodyEnd   int // first byte of the matching \end
	end       int // first byte after the end marker
}

func (e envSpan) closed() bool {
	return e.bodyEnd >= 0
}

// scanEnv returns every begin marker of an environment in order, each paired
// with its matching end. Markers of the same environment nest. End markers
// with no open begin are ignored. The markers are read in one pass.
func scanEnv(s string, pat *regexp.Regexp) []envSpan {
	var (
		spans []envSpan
		open  []int
	)
	for _, loc := range pat.FindAllStringSubmatchIndex(s, -1) {
		if strings.EqualFold(s[loc[2]:loc[3]], "begin") {
			open = append(open, len(spans))
			spans = append(spans, envSpan{start: loc[0], bodyStart: loc[1], bodyEnd: -1, end: -1})
			continue
		}
		if len(open) == 0 {
			continue
		}
		i := open[len(open)-1]
		open = open[:len(open)-1]
		spans[i].bodyEnd, spans[i].end = loc[0], loc[1]
	}
	return spans
}

// rewriteEnv replaces every outermost occurrence of an environment with the
// output of conv, which receives the raw body. When conv declines, or the
// begin marker is unmatched, the marker is kept as text and scanning resumes
// right after it.
func rewriteEnv(s string, pat *regexp.Regexp, conv func(body string) (string, bool)) string {
	var b strings.Builder
	pos := 0
	for _, env := range scanEnv(s, pat) {
		if env.start < pos {
			continue
		}
		if env.closed() {
			if out, converted := conv(s[env.bodyStart:env.bodyEnd]); converted {
				b.WriteString(s[pos:env.start])
				b.WriteString(out)
				pos = env.end
				continue
			}
		}
		b.WriteString(s[pos:env.bodyStart])
		pos = env.bodyStart
	}
	if pos == 0 {
		return s
	}
	b.WriteString(s[pos:])
	return b.String()
}

// matchBrace returns the index of the '}' closing the '{' at open, or -1.
// Escaped braces do not count.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// readGroup reads a leading {..} argument, skipping whitespace before it.
// ok is false when s does not start with a balanced group.
func readGroup(s string) (arg, rest string, ok bool) {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(trimmed, "{") {
		return "", s, false
	}
	end := matchBrace(trimmed, 0)
	if end < 0 {
		return "", s, false
	}
	return trimmed[1:end], trimmed[end+1:], true
}

// splitItems cuts body at its top-level \item separators. Separators inside
// nested environments stay with their item. intro is the trimmed text before
// the first separator; items holds the trimmed, non-empty segments after it.
// found reports whether any top-level separator exists.
func splitItems(body string) (intro string, items []string, found bool) {
	var cuts [][2]int
	depth := 0
	for _, loc := range itemScan.FindAllStringSubmatchIndex(body, -1) {
		if loc[2] >= 0 {
			if strings.EqualFold(body[loc[2]:loc[3]], "begin") {
				depth++
			} else if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 {
			cuts = append(cuts, [2]int{loc[0], loc[1]})
		}
	}
	if len(cuts) == 0 {
		return strings.TrimSpace(body), nil, false
	}

	intro = strings.TrimSpace(body[:cuts[0][0]])
	for k, cut := range cuts {
		end := len(body)
		if k+1 < len(cuts) {
			end = cuts[k+1][0]
		}
		if item := strings.TrimSpace(body[cut[1]:end]); item != "" {
			items = append(items, item)
		}
	}
	return intro, items, true
}

// stripSpacingMarkers drops spacing begin markers (with their ratio argument)
// and spacing end markers that sit at the top level of body. Markers inside
// other nested environments are kept.
func stripSpacingMarkers(body string) string {
	var b strings.Builder
	depth, pos := 0, 0
	for _, loc := range anyEnv.FindAllStringSubmatchIndex(body, -1) {
		if loc[0] < pos {
			continue
		}
		isBegin := strings.EqualFold(body[loc[2]:loc[3]], "begin")
		if !strings.EqualFold(body[loc[4]:loc[5]], "spacing") {
			if isBegin {
				depth++
			} else if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 {
			continue
		}
		b.WriteString(body[pos:loc[0]])
		pos = loc[1]
		if isBegin {
			if _, rest, ok := readGroup(body[pos:]); ok {
				pos = len(body) - len(rest)
			}
		}
	}
	if pos == 0 {
		return body
	}
	b.WriteString(body[pos:])
	return b.String()
}
