package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Dots are rejected so callers cannot pick another extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
