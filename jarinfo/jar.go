package jarinfo

import (
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/klauspost/compress/zip"
)

// JarInfo is the sorted entry tree of an archive.
type JarInfo struct {
	Path string // empty when built from a reader

	reader   *zip.Reader
	closer   io.Closer
	entries  []*EntryInfo // depth-first order, entries[0] is the root
	byName   map[string]*EntryInfo
	children map[*EntryInfo][]*EntryInfo
	skipped  []string
}

// Open reads the central directory of the archive at path.
func Open(path string) (*JarInfo, error) {
	rc, err := zip.OpenReader(path)
	if rc == nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	// A reader returned along with an error holds names that point
	// outside the archive. newJarInfo skips those entries.
	j := newJarInfo(&rc.Reader)
	j.Path = path
	j.closer = rc
	return j, nil
}

// New builds a JarInfo over an archive held in r.
func New(r io.ReaderAt, size int64) (*JarInfo, error) {
	zr, err := zip.NewReader(r, size)
	if zr == nil {
		return nil, err
	}
	return newJarInfo(zr), nil
}

// IsArchive reports whether the file at path can be read as a zip archive.
func IsArchive(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	rc, _ := zip.OpenReader(path)
	if rc == nil {
		return false
	}
	rc.Close()
	return true
}

func newJarInfo(zr *zip.Reader) *JarInfo {
	root := ParseEntryName("")
	j := &JarInfo{
		reader:   zr,
		byName:   map[string]*EntryInfo{"": root},
		children: make(map[*EntryInfo][]*EntryInfo),
	}
	j.entries = append(j.entries, root)

	for _, f := range zr.File {
		e := ParseEntryName(f.Name)
		if e.Escapes() {
			j.skipped = append(j.skipped, f.Name)
			continue
		}
		if e.IsRoot() {
			continue
		}
		name := e.Name()
		if existing, dup := j.byName[name]; dup {
			// First occurrence wins, as with the JDK's JarFile.
			if existing.Synthesized() {
				existing.file = f
			}
			continue
		}
		e.file = f
		j.add(name, e)

		// Fill in directories the archiver left out.
		for i := 1; i < len(e.segments); i++ {
			dir := &EntryInfo{segments: e.segments[:i], dir: true}
			if _, ok := j.byName[dir.Name()]; !ok {
				j.add(dir.Name(), dir)
			}
		}
	}

	slices.SortFunc(j.entries, Compare)
	for i, e := range j.entries {
		e.index = i
		if parentName, ok := e.ParentName(); ok {
			parent := j.byName[parentName]
			j.children[parent] = append(j.children[parent], e)
		}
	}
	return j
}

func (j *JarInfo) add(name string, e *EntryInfo) {
	j.byName[name] = e
	j.entries = append(j.entries, e)
}

// Close releases the underlying file when the JarInfo was opened from a
// path.
func (j *JarInfo) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}

// Root is the directory holding every top-level entry.
func (j *JarInfo) Root() *EntryInfo {
	return j.entries[0]
}

// Len is the number of entries, not counting the root.
func (j *JarInfo) Len() int {
	return len(j.entries) - 1
}

// Entry looks up an entry by name. A name without a trailing slash that
// does not name a file falls back to the directory of that name.
func (j *JarInfo) Entry(name string) (*EntryInfo, bool) {
	parsed := ParseEntryName(name)
	if parsed.Escapes() {
		return nil, false
	}
	canonical := parsed.Name()
	if e, ok := j.byName[canonical]; ok {
		return e, true
	}
	e, ok := j.byName[canonical+"/"]
	return e, ok
}

// Skipped lists the raw names of entries left out because they point
// outside the archive.
func (j *JarInfo) Skipped() []string {
	return j.skipped
}

// Iterate yields every entry other than the root in depth-first order.
func (j *JarInfo) Iterate(yield func(*EntryInfo) bool) {
	for _, e := range j.entries[1:] {
		if !yield(e) {
			return
		}
	}
}

// Children returns the entries directly inside e, in order.
func (j *JarInfo) Children(e *EntryInfo) []*EntryInfo {
	return j.children[e]
}

// Parent returns the directory holding e.
func (j *JarInfo) Parent(e *EntryInfo) (*EntryInfo, bool) {
	name, ok := e.ParentName()
	if !ok {
		return nil, false
	}
	p, ok := j.byName[name]
	return p, ok
}

// Descendants yields everything below e in depth-first order.
func (j *JarInfo) Descendants(e *EntryInfo) iter.Seq[*EntryInfo] {
	return func(yield func(*EntryInfo) bool) {
		if e.index >= len(j.entries) || j.entries[e.index] != e {
			return
		}
		for _, d := range j.entries[e.index+1:] {
			if !e.IsAncestorOf(d) || !yield(d) {
				return
			}
		}
	}
}

// Open returns a reader over the content of a file entry.
func (j *JarInfo) Open(e *EntryInfo) (io.ReadCloser, error) {
	if e.dir {
		return nil, ErrIsDirectory
	}
	if e.file == nil {
		return nil, ErrEntryNotFound
	}
	return e.file.Open()
}

// ReadFile returns the content of the named file entry.
func (j *JarInfo) ReadFile(name string) ([]byte, error) {
	e, ok := j.Entry(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
	}
	rc, err := j.Open(e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
