package jarinfo

import "errors"

// Sentinel errors for package jarinfo.
var (
	// Entry errors
	ErrEntryNotFound = errors.New("entry not found in archive")
	ErrIsDirectory   = errors.New("entry is a directory")
	ErrOutsideRoot   = errors.New("entry name points outside the archive")

	// Manifest errors
	ErrNoManifest        = errors.New("archive has no manifest")
	ErrMalformedManifest = errors.New("malformed manifest")
)
