// Package classpath indexes the resources reachable through a classpath of
// JAR archives and directories.
package classpath

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/dendrascience/portalnav/jarinfo"
	"github.com/dendrascience/portalnav/urlnav"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Element is one entry of a classpath.
type Element struct {
	Path      string
	URL       *url.URL
	IsArchive bool
	// ReferencedBy is the archive whose manifest Class-Path added this
	// element, or "" for elements given to Scan.
	ReferencedBy string
}

func (e Element) String() string {
	return e.Path
}

// Options tune Scan.
type Options struct {
	// Workers bounds how many elements are indexed at once. Zero means
	// runtime.NumCPU().
	Workers int
	// FollowManifest adds the archives named by each archive's manifest
	// Class-Path, resolved against the referring archive's directory.
	FollowManifest bool
	// Filter restricts the indexed resources. Nil indexes everything.
	Filter urlnav.Filter
	Logger *zap.Logger
}

// Index maps resource names to the classpath elements providing them.
type Index struct {
	Elements  []Element
	resources map[string][]int
}

// Scan expands and indexes a classpath. Elements that do not exist are
// skipped, as a class loader would.
func Scan(ctx context.Context, nav *urlnav.Navigator, paths []string, opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	elements := expand(paths, opts.FollowManifest, logger)
	results := make([][]string, len(elements))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, el := range elements {
		g.Go(func() error {
			var c urlnav.Collector
			c.FilesOnly = true
			if err := nav.Visit(gctx, el.URL, &c, opts.Filter); err != nil {
				return fmt.Errorf("failed to index %s: %w", el.Path, err)
			}
			results[i] = c.Paths()
			logger.Debug("indexed classpath element",
				zap.String("path", el.Path),
				zap.Int("resources", len(results[i])))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix := &Index{Elements: elements, resources: make(map[string][]int)}
	for i, names := range results {
		for _, name := range names {
			ix.resources[name] = append(ix.resources[name], i)
		}
	}
	return ix, nil
}

func expand(paths []string, follow bool, logger *zap.Logger) []Element {
	var (
		out  []Element
		seen = make(map[string]bool)
		add  func(path, referencedBy string)
	)
	add = func(path, referencedBy string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			logger.Warn("skipping classpath element", zap.String("path", path), zap.Error(err))
			return
		}
		if seen[abs] {
			return
		}
		seen[abs] = true

		info, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("classpath element does not exist", zap.String("path", abs))
			return
		}
		if err != nil {
			logger.Warn("skipping classpath element", zap.String("path", abs), zap.Error(err))
			return
		}
		if info.IsDir() {
			out = append(out, Element{Path: abs, URL: urlnav.FileURL(abs, true), ReferencedBy: referencedBy})
			return
		}
		if !jarinfo.IsArchive(abs) {
			logger.Warn("classpath element is neither a directory nor an archive", zap.String("path", abs))
			return
		}
		out = append(out, Element{Path: abs, URL: urlnav.JarURL(abs, ""), IsArchive: true, ReferencedBy: referencedBy})
		if !follow {
			return
		}
		for _, ref := range manifestClassPath(abs, logger) {
			add(filepath.Join(filepath.Dir(abs), filepath.FromSlash(ref)), abs)
		}
	}

	for _, p := range paths {
		add(p, "")
	}
	return out
}

func manifestClassPath(jarPath string, logger *zap.Logger) []string {
	j, err := jarinfo.Open(jarPath)
	if err != nil {
		logger.Warn("failed to open archive", zap.String("path", jarPath), zap.Error(err))
		return nil
	}
	defer j.Close()
	m, err := j.Manifest()
	if errors.Is(err, jarinfo.ErrNoManifest) {
		return nil
	}
	if err != nil {
		logger.Warn("failed to read manifest", zap.String("path", jarPath), zap.Error(err))
		return nil
	}
	var refs []string
	for _, ref := range m.ClassPath() {
		// Class-Path entries are relative URLs.
		if u, err := url.Parse(ref); err == nil && u.Scheme == "" {
			refs = append(refs, u.Path)
		}
	}
	return refs
}

// Len is the number of distinct resources.
func (ix *Index) Len() int {
	return len(ix.resources)
}

// Find returns the element a class loader would load resource from: the
// first element, in classpath order, that holds it.
func (ix *Index) Find(resource string) (Element, bool) {
	idx, ok := ix.resources[resource]
	if !ok {
		return Element{}, false
	}
	return ix.Elements[idx[0]], true
}

// FindAll returns every element holding resource, in classpath order.
func (ix *Index) FindAll(resource string) []Element {
	var out []Element
	for _, i := range ix.resources[resource] {
		out = append(out, ix.Elements[i])
	}
	return out
}

// ResourceCounts returns how many indexed resources each element provides,
// in the order of Elements.
func (ix *Index) ResourceCounts() []int {
	counts := make([]int, len(ix.Elements))
	for _, idx := range ix.resources {
		for _, i := range idx {
			counts[i]++
		}
	}
	return counts
}

// Resources returns every indexed resource name, sorted.
func (ix *Index) Resources() []string {
	out := make([]string, 0, len(ix.resources))
	for name := range ix.resources {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Duplicate is a resource provided by more than one element. The first
// element shadows the rest.
type Duplicate struct {
	Resource string
	Elements []Element
}

// Duplicates lists shadowed resources, sorted by name.
func (ix *Index) Duplicates() []Duplicate {
	var out []Duplicate
	for _, name := range ix.Resources() {
		if len(ix.resources[name]) > 1 {
			out = append(out, Duplicate{Resource: name, Elements: ix.FindAll(name)})
		}
	}
	return out
}
