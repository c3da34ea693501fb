package assets

import (
	"fmt"
	"strings"
)

// Asset kinds, as named in validation errors.
const (
	kindStyle       = "style"
	kindTemplateSet = "template set"
)

// maxNameLength bounds style and template set names.
const maxNameLength = 64

// validateName checks that a style or template set name can be joined to an
// asset directory. Names must be non-empty and short, and hold no path
// separator, dot or NUL byte.
func validateName(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty %s name", ErrInvalidAssetName, kind)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: %s name longer than %d bytes", ErrInvalidAssetName, kind, maxNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %s %q", ErrInvalidAssetName, kind, name)
	}
	return nil
}
