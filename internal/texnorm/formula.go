package texnorm

import "strings"

// holdFormulas replaces every formula region with a verbatim token.
// Recognized regions: $$..$$, $..$, \[..\] and \(..\). A doubled backslash
// is an escaped backslash, so \\[ does not open display math, and \$ is a
// literal dollar. Unterminated openers are left as text.
//
// Stray token characters already present in the input are held too, so the
// only tokens the stages ever see are the ones this pass created.
func (p *pass) holdFormulas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	flush := func(start, end int, verbatim string) {
		b.WriteString(s[last:start])
		b.WriteString(p.hold(verbatim, true))
		last = end
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			switch s[i+1] {
			case '\\', '$':
				i += 2
				continue
			case '[', '(':
				closer := byte(']')
				if s[i+1] == '(' {
					closer = ')'
				}
				if end := indexEscaped(s, i+2, closer); end >= 0 {
					flush(i, end+2, s[i:end+2])
					i = end + 2
					continue
				}
			}
			i++

		case s[i] == '$':
			if strings.HasPrefix(s[i:], "$$") {
				if end := strings.Index(s[i+2:], "$$"); end >= 0 {
					stop := i + 2 + end + 2
					flush(i, stop, s[i:stop])
					i = stop
					continue
				}
				i += 2
				continue
			}
			if end := indexDollar(s, i+1); end > i+1 {
				flush(i, end+1, s[i:end+1])
				i = end + 1
				continue
			}
			i++

		case strings.HasPrefix(s[i:], heldOpen):
			flush(i, i+len(heldOpen), heldOpen)
			i += len(heldOpen)

		case strings.HasPrefix(s[i:], heldClose):
			flush(i, i+len(heldClose), heldClose)
			i += len(heldClose)

		default:
			i++
		}
	}

	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// indexEscaped returns the index of the backslash in the first `\c` at or
// after from, skipping other escaped characters. Returns -1 if none.
func indexEscaped(s string, from int, c byte) int {
	for j := from; j+1 < len(s); j++ {
		if s[j] != '\\' {
			continue
		}
		if s[j+1] == c {
			return j
		}
		j++
	}
	return -1
}

// indexDollar returns the index of the first unescaped '$' at or after from,
// or -1.
func indexDollar(s string, from int) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '$':
			return j
		}
	}
	return -1
}
