package pathutil

import (
	"io/fs"
	"path"
	"strings"
)

// DirNode is a node of a directory tree as seen by DirContext.
type DirNode struct {
	Path  string // slash separated, "." for the root
	IsDir bool
}

// DirContext maps paths onto a directory tree.
type DirContext struct {
	FS fs.FS
}

// Root returns the top of the tree. It reports false when the tree cannot
// be read.
func (c DirContext) Root() (DirNode, bool) {
	info, err := fs.Stat(c.FS, ".")
	if err != nil || !info.IsDir() {
		return DirNode{}, false
	}
	return DirNode{Path: ".", IsDir: true}, true
}

// Child looks name up inside parent. Names that are not a single path
// element, such as "..", never match.
func (c DirContext) Child(parent DirNode, name string) (DirNode, bool) {
	if !parent.IsDir || name == "." || name == ".." || strings.ContainsRune(name, '/') {
		return DirNode{}, false
	}
	p := path.Join(parent.Path, name)
	if !fs.ValidPath(p) {
		return DirNode{}, false
	}
	info, err := fs.Stat(c.FS, p)
	if err != nil {
		return DirNode{}, false
	}
	return DirNode{Path: p, IsDir: info.IsDir()}, true
}
