package urlnav

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dendrascience/portalnav/jarinfo"
)

const (
	SchemeFile = "file"
	SchemeJar  = "jar"

	jarSeparator = "!/"
)

// FileURL returns the file: URL of an absolute path. Directory URLs end
// with a slash.
func FileURL(p string, dir bool) *url.URL {
	p = filepath.ToSlash(p)
	if dir && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return &url.URL{Scheme: SchemeFile, Path: p}
}

// FilePath returns the local path named by a file: URL.
func FilePath(u *url.URL) (string, error) {
	if u.Scheme != SchemeFile {
		return "", fmt.Errorf("%w: %s is not a file URL", ErrInvalidURL, u)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: %s names a remote host", ErrInvalidURL, u)
	}
	if !strings.HasPrefix(u.Path, "/") {
		return "", fmt.Errorf("%w: %s is not absolute", ErrInvalidURL, u)
	}
	return filepath.FromSlash(u.Path), nil
}

// JarURL returns the jar: URL of an entry inside the archive at jarPath.
// An empty entry names the root of the archive.
func JarURL(jarPath, entry string) *url.URL {
	escaped := (&url.URL{Path: entry}).EscapedPath()
	return &url.URL{
		Scheme: SchemeJar,
		Opaque: FileURL(jarPath, false).String() + jarSeparator + escaped,
	}
}

// ParseJarURL splits a jar: URL into the archive path and the entry name.
func ParseJarURL(u *url.URL) (jarPath, entry string, err error) {
	if u.Scheme != SchemeJar || u.Opaque == "" {
		return "", "", fmt.Errorf("%w: %s is not a jar URL", ErrInvalidURL, u)
	}
	archive, rest, ok := strings.Cut(u.Opaque, jarSeparator)
	if !ok {
		return "", "", fmt.Errorf("%w: %s has no %q separator", ErrInvalidURL, u, jarSeparator)
	}
	inner, err := url.Parse(archive)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	jarPath, err = FilePath(inner)
	if err != nil {
		return "", "", err
	}
	entry, err = url.PathUnescape(rest)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return jarPath, entry, nil
}

// ParseLocation accepts either a URL or a local path. Local paths may use
// the "lib.jar!/entry" shorthand; a path naming an archive becomes the URL
// of the archive's root.
func ParseLocation(s string) (*url.URL, error) {
	if strings.HasPrefix(s, SchemeFile+":") || strings.HasPrefix(s, SchemeJar+":") {
		return url.Parse(s)
	}

	if archive, entry, ok := strings.Cut(s, jarSeparator); ok {
		abs, err := filepath.Abs(archive)
		if err != nil {
			return nil, err
		}
		return JarURL(abs, entry), nil
	}

	abs, err := filepath.Abs(s)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	switch {
	case err != nil:
		return FileURL(abs, false), nil
	case info.IsDir():
		return FileURL(abs, true), nil
	case jarinfo.IsArchive(abs):
		return JarURL(abs, ""), nil
	default:
		return FileURL(abs, false), nil
	}
}

// Parent returns the URL of the directory holding u. The filesystem root
// and the root of an archive have no parent.
func Parent(u *url.URL) (*url.URL, bool) {
	switch u.Scheme {
	case SchemeFile:
		p := strings.TrimSuffix(u.Path, "/")
		if p == "" {
			return nil, false
		}
		return FileURL(path.Dir(p), true), true
	case SchemeJar:
		jarPath, entry, err := ParseJarURL(u)
		if err != nil {
			return nil, false
		}
		parent, ok := jarinfo.ParseEntryName(entry).ParentName()
		if !ok {
			return nil, false
		}
		return JarURL(jarPath, parent), true
	}
	return nil, false
}
