package jarinfo

import (
	"slices"
	"strings"
	"time"

	"github.com/dendrascience/portalnav/pathutil"
	"github.com/klauspost/compress/zip"
)

// EntryInfo is a decomposed archive entry name.
type EntryInfo struct {
	segments []string
	dir      bool
	file     *zip.File // nil for the root and synthesized directories
	index    int       // position in JarInfo.entries
	escapes  bool
}

// ParseEntryName decomposes a slash-delimited entry name. Empty and "."
// segments are dropped and ".." removes the segment before it. A name
// ending in a slash, "." or ".." is a directory, and a name with no
// segments denotes the root directory. A name whose ".." segments climb
// above the root is reported by Escapes and treated as the root.
func ParseEntryName(name string) *EntryInfo {
	segments, err := pathutil.ResolveRelative(nil, name)
	if err != nil {
		return &EntryInfo{dir: true, escapes: true}
	}
	last := name[strings.LastIndexByte(name, '/')+1:]
	return &EntryInfo{
		segments: segments,
		dir:      len(segments) == 0 || last == "" || last == "." || last == "..",
	}
}

// Escapes reports whether the parsed name pointed outside the archive,
// as "../evil.txt" does. Such entries are never part of a JarInfo.
func (e *EntryInfo) Escapes() bool {
	return e.escapes
}

// Name is the canonical entry name, with a trailing slash for directories
// and "" for the root.
func (e *EntryInfo) Name() string {
	name := strings.Join(e.segments, "/")
	if e.dir && name != "" {
		name += "/"
	}
	return name
}

func (e *EntryInfo) String() string {
	if e.IsRoot() {
		return "/"
	}
	return e.Name()
}

// BaseName returns the last segment, or "" for the root.
func (e *EntryInfo) BaseName() string {
	if len(e.segments) == 0 {
		return ""
	}
	return e.segments[len(e.segments)-1]
}

// Segments returns a copy of the segment list.
func (e *EntryInfo) Segments() []string {
	return slices.Clone(e.segments)
}

// Depth is the number of segments; the root has depth 0.
func (e *EntryInfo) Depth() int { return len(e.segments) }

// IsDir reports whether the entry is a directory. The root always is.
func (e *EntryInfo) IsDir() bool { return e.dir }

func (e *EntryInfo) IsRoot() bool {
	return len(e.segments) == 0
}

// Synthesized reports whether the entry was added to fill a gap in the
// archive's directory structure rather than read from it.
func (e *EntryInfo) Synthesized() bool {
	return e.file == nil && !e.IsRoot()
}

// Size is the uncompressed size recorded in the archive.
func (e *EntryInfo) Size() int64 {
	if e.file == nil {
		return 0
	}
	return int64(e.file.UncompressedSize64)
}

// Modified is the modification time recorded in the archive.
func (e *EntryInfo) Modified() time.Time {
	if e.file == nil {
		return time.Time{}
	}
	return e.file.Modified
}

// ParentName returns the canonical name of the enclosing directory. The
// root has no parent and reports false.
func (e *EntryInfo) ParentName() (string, bool) {
	if e.IsRoot() {
		return "", false
	}
	parent := &EntryInfo{segments: e.segments[:len(e.segments)-1], dir: true}
	return parent.Name(), true
}

func (e *EntryInfo) hasPrefix(o *EntryInfo) bool {
	return len(e.segments) >= len(o.segments) && slices.Equal(e.segments[:len(o.segments)], o.segments)
}

// IsParentOf reports whether o sits directly inside e.
func (e *EntryInfo) IsParentOf(o *EntryInfo) bool {
	return e.dir && len(o.segments) == len(e.segments)+1 && o.hasPrefix(e)
}

// IsChildOf reports whether e sits directly inside o.
func (e *EntryInfo) IsChildOf(o *EntryInfo) bool {
	return o.IsParentOf(e)
}

// IsAncestorOf reports whether o sits anywhere below e.
func (e *EntryInfo) IsAncestorOf(o *EntryInfo) bool {
	return e.dir && len(o.segments) > len(e.segments) && o.hasPrefix(e)
}

// IsDescendantOf reports whether e sits anywhere below o.
func (e *EntryInfo) IsDescendantOf(o *EntryInfo) bool {
	return o.IsAncestorOf(e)
}

// Compare orders entries depth first. Segments compare lexically one by
// one; when one list is a prefix of the other, a directory sorts before
// everything below it and a file sorts after. A directory and a file with
// the same segments sort directory first, which keeps every directory's
// descendants contiguous.
func Compare(a, b *EntryInfo) int {
	n := min(len(a.segments), len(b.segments))
	for i := 0; i < n; i++ {
		if c := strings.Compare(a.segments[i], b.segments[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a.segments) < len(b.segments):
		if a.dir {
			return -1
		}
		return 1
	case len(a.segments) > len(b.segments):
		if b.dir {
			return 1
		}
		return -1
	case a.dir == b.dir:
		return 0
	case a.dir:
		return -1
	default:
		return 1
	}
}
