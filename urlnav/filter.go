package urlnav

import (
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar"
)

// Filter decides which directories a visit enters and which files it
// reports.
type Filter interface {
	AcceptDir(n Node) bool
	AcceptFile(n Node) bool
}

type acceptAll struct{}

func (acceptAll) AcceptDir(Node) bool  { return true }
func (acceptAll) AcceptFile(Node) bool { return true }

// AcceptAll enters every directory and reports every file.
var AcceptAll Filter = acceptAll{}

// FilterFuncs adapts plain functions to a Filter. A nil function accepts
// everything.
type FilterFuncs struct {
	Dir  func(Node) bool
	File func(Node) bool
}

func (f FilterFuncs) AcceptDir(n Node) bool {
	return f.Dir == nil || f.Dir(n)
}

func (f FilterFuncs) AcceptFile(n Node) bool {
	return f.File == nil || f.File(n)
}

// GlobFilter matches node paths against doublestar patterns such as
// "org/**/*.class". A node matching any exclude pattern is rejected. Files
// must otherwise match an include pattern, unless there are none.
// Directories are only pruned by exclude patterns, since an include pattern
// may match something below them.
type GlobFilter struct {
	include []string
	exclude []string
}

// NewGlobFilter validates the patterns and builds a GlobFilter.
func NewGlobFilter(include, exclude []string) (*GlobFilter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		// path.Match reports syntax errors anywhere in the pattern, even
		// when the name does not match.
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
	}
	return &GlobFilter{include: include, exclude: exclude}, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// AcceptDir rejects directories matching an exclude pattern.
func (g *GlobFilter) AcceptDir(n Node) bool {
	return !matchAny(g.exclude, n.Path)
}

// AcceptFile applies the exclude patterns, then the include patterns.
func (g *GlobFilter) AcceptFile(n Node) bool {
	if matchAny(g.exclude, n.Path) {
		return false
	}
	return len(g.include) == 0 || matchAny(g.include, n.Path)
}
