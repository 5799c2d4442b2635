// Package pathx holds path helpers for the provider's file namespace.
package pathx

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMount is the storage root under which key and certificate files
// live from the caller's point of view. The provider expects paths relative
// to it.
const DefaultMount = "/flash"

var ErrNotUnderMount = errors.New("path not under mount")

// TrimMountPrefix strips mount from the front of path and returns the
// provider-relative remainder. It fails when path is shorter than the mount
// or does not start with it; it never indexes past the end of the string.
func TrimMountPrefix(path, mount string) (string, error) {
	if mount == "" {
		return path, nil
	}

	rest, ok := strings.CutPrefix(path, mount)
	if !ok {
		return "", fmt.Errorf("%w: %q is not under %q", ErrNotUnderMount, path, mount)
	}
	return rest, nil
}
