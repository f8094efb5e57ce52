package urlnav

import "errors"

// Sentinel errors for package urlnav.
var (
	// URL errors
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrInvalidURL        = errors.New("invalid URL")

	// Tree errors
	ErrNotFound     = errors.New("no such file or entry")
	ErrNotDirectory = errors.New("not a directory")

	errLimitReached = errors.New("limit reached")
)
