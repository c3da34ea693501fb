package assets

// AssetLoader loads page styles and template sets by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the templates stored under templates/{name}/.
	// Returns ErrTemplateSetNotFound if no template of the set exists and
	// ErrIncompleteTemplateSet if only some do.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
