package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads the built-in assets.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a built-in CSS style by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := validateName(kindStyle, name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadTemplateSet loads a built-in template set by name.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := validateName(kindTemplateSet, name); err != nil {
		return nil, err
	}

	dir := path.Join("templates", name)
	page, pageErr := templates.ReadFile(path.Join(dir, PageTemplateFile))
	params, paramsErr := templates.ReadFile(path.Join(dir, ParamsTemplateFile))

	return buildTemplateSet(name, page, params, pageErr, paramsErr, func(err error) bool {
		return errors.Is(err, fs.ErrNotExist)
	})
}

// StyleNames lists the built-in styles.
func (e *EmbeddedLoader) StyleNames() []string {
	entries, err := styles.ReadDir("styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if ext := path.Ext(entry.Name()); ext == ".css" {
			names = append(names, entry.Name()[:len(entry.Name())-len(ext)])
		}
	}
	return names
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
