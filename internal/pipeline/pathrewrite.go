package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRelativePaths converts relative img[src] and a[href] values to
// absolute file:// URLs under sourceDir, so a page written to a temporary
// file still finds the exercise's figures. If sourceDir is empty, returns
// the HTML unchanged.
//
// URLs, anchors, absolute paths and paths escaping sourceDir are left as
// they are. Only the rewritten tags are re-serialized.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	return rewriteStartTags(htmlContent, func(_ []byte, tok html.Token) (string, bool) {
		var attrName string
		switch tok.DataAtom {
		case atom.Img:
			attrName = "src"
		case atom.A:
			attrName = "href"
		default:
			return "", false
		}
		if !rewriteAttr(&tok, attrName, absSourceDir) {
			return "", false
		}
		return tok.String(), true
	})
}

// rewriteAttr rewrites attribute attrName of tok if it is a relative path
// under sourceDir. Reports whether tok changed.
func rewriteAttr(tok *html.Token, attrName, sourceDir string) bool {
	changed := false
	for i, attr := range tok.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		absPath := filepath.Join(sourceDir, attr.Val)
		if !isPathUnderDir(absPath, sourceDir) {
			continue
		}

		tok.Attr[i].Val = pathToFileURL(absPath)
		changed = true
	}
	return changed
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	for _, prefix := range []string{"http://", "https://", "file://", "data:", "//", "#", "mailto:"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
