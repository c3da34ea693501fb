package texnorm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CSS classes emitted by the normalizer. Page stylesheets target them.
const (
	OrderedListClass   = "list-decimal ml-6 space-y-1"
	UnorderedListClass = "list-disc ml-6 space-y-1"
	SpacingClass       = "leading-relaxed space-y-2"
	MarginNoteClass    = "margin-note"
)

var (
	inlineStyle = regexp.MustCompile(`(?i)\\(textbf|textit|emph)\s*\{`)
	marginPar   = regexp.MustCompile(`(?i)\\marginpar\s*\{`)
	fontSize    = regexp.MustCompile(`(?i)\\footnotesize\b[ \t]*`)
	skipSize    = regexp.MustCompile(`(?i)\\(small|med|big)skip\b[ \t]*`)

	// ratioJunk matches everything a spacing ratio may not contain.
	ratioJunk = regexp.MustCompile(`[^0-9.,\-]`)
)

var inlineTags = map[string]string{
	"textbf": "strong",
	"textit": "em",
	"emph":   "em",
}

var skipClasses = map[string]string{
	"small": `<div class="skip skip-small"></div>`,
	"med":   `<div class="skip skip-medium"></div>`,
	"big":   `<div class="skip skip-large"></div>`,
}

// literalDirectives are replaced without looking at any argument.
// Trailing horizontal whitespace goes with the directive. A stray \item
// also eats the line break after it.
var literalDirectives = []struct {
	pattern *regexp.Regexp
	html    string
}{
	{regexp.MustCompile(`(?i)\\newline\b[ \t]*`), "<br>"},
	{regexp.MustCompile(`(?i)\\newpage\b[ \t]*`), `<hr class="page-break">`},
	{regexp.MustCompile(`(?i)\\noindent\b[ \t]*`), ""},
	{regexp.MustCompile(`(?i)\\hfill\b[ \t]*`), `<span class="hfill"></span>`},
	{fontSize, ""},
	{regexp.MustCompile(`(?i)\\item\b\s*`), "<br>• "},
	{regexp.MustCompile(`(?i)\\columnbreak\b[ \t]*`), `<span class="column-break"></span>`},
}

// breakKeep lists what may follow \\ for it to stay a LaTeX construct
// rather than a line break. Compared case-insensitively as prefixes.
var breakKeep = []string{
	"begin", "end", "item",
	"[", "]", "(", ")",
	"frac", "text",
	"mathbb", "mathbf", "mathrm",
	"left", "right",
	"overline", "underline",
	"hat", "bar",
	"cdot", "times",
}

// convertInline turns \textbf, \textit and \emph into <strong> and <em>.
// Arguments are converted recursively. A directive without a balanced
// argument is left as text.
func convertInline(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	pos := 0
	for {
		loc := inlineStyle.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		open := pos + loc[1] - 1
		end := matchBrace(s, open)
		if end < 0 {
			b.WriteString(s[pos : pos+loc[1]])
			pos += loc[1]
			continue
		}
		tag := inlineTags[strings.ToLower(s[pos+loc[2]:pos+loc[3]])]
		b.WriteString(s[pos : pos+loc[0]])
		b.WriteString("<" + tag + ">" + convertInline(s[open+1:end]) + "</" + tag + ">")
		pos = end + 1
	}
	if pos == 0 {
		return s
	}
	b.WriteString(s[pos:])
	return b.String()
}

// convertMulticols turns multicols blocks into column containers. The first
// argument must be an integer; blocks without one are left as text.
func (p *pass) convertMulticols(s string, depth int) string {
	return rewriteEnv(s, multicolsEnv, func(body string) (string, bool) {
		arg, rest, ok := readGroup(body)
		if !ok {
			return "", false
		}
		cols, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return "", false
		}
		cols = max(cols, 1)
		return `<div class="columns-` + strconv.Itoa(cols) + ` gap-6">` + p.nested(rest, depth) + `</div>`, true
	})
}

// convertLists turns enumerate and itemize blocks into <ol> and <ul>.
// Enumerate goes first so that an enumerate inside an itemize is already
// HTML when the itemize body is split.
func (p *pass) convertLists(s string, depth int) string {
	s = p.convertList(s, depth, enumerateEnv, "ol", OrderedListClass)
	return p.convertList(s, depth, itemizeEnv, "ul", UnorderedListClass)
}

func (p *pass) convertList(s string, depth int, env *regexp.Regexp, tag, class string) string {
	return rewriteEnv(s, env, func(body string) (string, bool) {
		intro, items, _ := splitItems(stripSpacingMarkers(body))
		if intro != "" {
			items = append([]string{intro}, items...)
		}
		return p.listHTML(tag, class, items, depth), true
	})
}

// listHTML renders items as a list element. Zero items still yield an
// empty list.
func (p *pass) listHTML(tag, class string, items []string, depth int) string {
	var b strings.Builder
	b.WriteString("<" + tag + ` class="` + class + `">`)
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(p.nested(item, depth))
		b.WriteString("</li>")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

// convertSpacing turns spacing blocks into styled containers. When the body
// holds top-level items, the text before the first one becomes an intro
// block and the items become a bulleted list.
func (p *pass) convertSpacing(s string, depth int) string {
	return rewriteEnv(s, spacingEnv, func(body string) (string, bool) {
		ratio, rest, ok := readGroup(body)
		if !ok {
			ratio, rest = "", body
		}

		var b strings.Builder
		b.WriteString(spacingOpenTag(ratio))
		intro, items, found := splitItems(rest)
		if found {
			if intro != "" {
				b.WriteString("<div>" + p.nested(intro, depth) + "</div>")
			}
			b.WriteString(p.listHTML("ul", UnorderedListClass, items, depth))
		} else {
			b.WriteString(p.nested(rest, depth))
		}
		b.WriteString("</div>")
		return b.String(), true
	})
}

// spacingOpenTag builds the container opening tag for a raw ratio argument.
// The sanitized ratio is exposed as data-spacing; a line-height is set only
// when it parses as a positive number (comma accepted as decimal point).
func spacingOpenTag(raw string) string {
	clean := ratioJunk.ReplaceAllString(raw, "")

	var b strings.Builder
	b.WriteString(`<div class="` + SpacingClass + `"`)
	if v, ok := parseRatio(clean); ok {
		b.WriteString(` style="line-height:` + strconv.FormatFloat(v, 'f', -1, 64) + `"`)
	}
	if clean != "" {
		b.WriteString(` data-spacing="` + clean + `"`)
	}
	b.WriteString(">")
	return b.String()
}

func parseRatio(clean string) (float64, bool) {
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(clean, ",", "."), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// convertSkips turns vertical skips into empty spacer blocks.
func convertSkips(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return skipSize.ReplaceAllStringFunc(s, func(m string) string {
		sub := skipSize.FindStringSubmatch(m)
		return skipClasses[strings.ToLower(sub[1])]
	})
}

// convertMarginNotes turns \marginpar{..} into a margin note span, dropping
// font-size directives inside it. Empty notes disappear.
func (p *pass) convertMarginNotes(s string, depth int) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	pos := 0
	for {
		loc := marginPar.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		open := pos + loc[1] - 1
		end := matchBrace(s, open)
		if end < 0 {
			b.WriteString(s[pos : pos+loc[1]])
			pos += loc[1]
			continue
		}
		b.WriteString(s[pos : pos+loc[0]])
		note := strings.TrimSpace(fontSize.ReplaceAllString(s[open+1:end], ""))
		if note != "" {
			b.WriteString(`<span class="` + MarginNoteClass + `">` + p.nested(note, depth) + `</span>`)
		}
		pos = end + 1
	}
	if pos == 0 {
		return s
	}
	b.WriteString(s[pos:])
	return b.String()
}

// convertLiterals replaces argument-less directives.
func convertLiterals(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	for _, d := range literalDirectives {
		s = d.pattern.ReplaceAllLiteralString(s, d.html)
	}
	return s
}

// convertResidualBreaks turns the remaining \\ into <br>, except where it is
// followed by a construct listed in breakKeep.
func convertResidualBreaks(s string) string {
	if !strings.Contains(s, `\\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\\' {
			if keepsBreak(s[i+2:]) {
				b.WriteString(`\\`)
			} else {
				b.WriteString("<br>")
			}
			i += 2
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func keepsBreak(rest string) bool {
	for _, kw := range breakKeep {
		if len(rest) >= len(kw) && strings.EqualFold(rest[:len(kw)], kw) {
			return true
		}
	}
	return false
}
