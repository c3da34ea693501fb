package assets

import "fmt"

// TemplateSet holds the html/template sources used to build an exercise page.
type TemplateSet struct {
	Name   string // Identifier (name or directory path)
	Page   string // Full page template
	Params string // Parameter panel template
}

// Template file names inside a template set directory.
const (
	PageTemplateFile   = "page.html"
	ParamsTemplateFile = "params.html"
)

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in screen style.
const DefaultStyleName = "default"

// PrintStyleName is the name of the built-in style tuned for PDF output.
const PrintStyleName = "print"

// buildTemplateSet assembles a set from the read results of its two files.
// missing reports whether a read failed because the file does not exist.
func buildTemplateSet(name string, page, params []byte, pageErr, paramsErr error, missing func(error) bool) (*TemplateSet, error) {
	if missing(pageErr) && missing(paramsErr) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}

	for _, r := range []struct {
		file string
		err  error
	}{{PageTemplateFile, pageErr}, {ParamsTemplateFile, paramsErr}} {
		if r.err == nil {
			continue
		}
		if missing(r.err) {
			return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, r.file)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, r.file, r.err)
	}

	return &TemplateSet{
		Name:   name,
		Page:   string(page),
		Params: string(params),
	}, nil
}
