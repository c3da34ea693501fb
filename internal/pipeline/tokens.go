package pipeline

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// startTagRewriter inspects one start tag. It returns the replacement
// markup and true to replace the tag, or false to keep its bytes.
type startTagRewriter func(raw []byte, tok html.Token) (string, bool)

// rewriteStartTags streams content through the HTML tokenizer and lets rw
// replace start tags. Every other token is copied byte for byte, so text
// (formulas included) is never re-encoded.
func rewriteStartTags(content string, rw startTagRewriter) (string, error) {
	var b strings.Builder
	b.Grow(len(content))

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil
		}

		raw := z.Raw()
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			kept := append([]byte(nil), raw...)
			if replaced, ok := rw(kept, z.Token()); ok {
				b.WriteString(replaced)
				continue
			}
			b.Write(kept)
			continue
		}
		b.Write(raw)
	}
}

// insertAttr adds a bare attribute before the end of a raw start tag.
func insertAttr(raw []byte, attr string) string {
	s := string(raw)
	end := len(s) - 1
	if strings.HasSuffix(s, "/>") {
		end = len(s) - 2
	}
	if end < 0 {
		return s
	}
	return s[:end] + " " + attr + s[end:]
}

func hasAttr(tok html.Token, key string) bool {
	for _, a := range tok.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
