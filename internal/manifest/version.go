package manifest

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// SchemaVersion is written to every new manifest.
const SchemaVersion = "v1.0.0"

// IsCompatibleVersion reports whether a manifest written with stored can be
// used by code at current. Major versions must match.
func IsCompatibleVersion(stored, current string) (bool, error) {
	if !semver.IsValid(stored) {
		return false, fmt.Errorf("invalid manifest version: %q", stored)
	}
	if !semver.IsValid(current) {
		return false, fmt.Errorf("invalid schema version: %q", current)
	}

	return semver.Major(stored) == semver.Major(current), nil
}
