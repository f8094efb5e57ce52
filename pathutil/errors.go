package pathutil

import "errors"

// Sentinel errors for package pathutil.
var (
	// Mapping errors
	ErrRelativePath = errors.New("path must be empty or start with '/'")
	ErrNoRoot       = errors.New("mapper context has no root")

	// Resolution errors
	ErrAboveRoot = errors.New("relative path climbs above the root")
)
