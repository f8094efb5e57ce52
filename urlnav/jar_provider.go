package urlnav

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dendrascience/portalnav/jarinfo"
	"go.uber.org/zap"
)

// JarProvider navigates the entries of JAR archives. Archives are opened
// through a jarinfo.Cache.
type JarProvider struct {
	cache  *jarinfo.Cache
	logger *zap.Logger
}

// NewJarProvider returns a provider for jar: URLs that opens archives
// through cache.
func NewJarProvider(cache *jarinfo.Cache, logger *zap.Logger) *JarProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JarProvider{cache: cache, logger: logger}
}

type jarVisit struct {
	jar     *jarinfo.JarInfo
	jarPath string
	start   *jarinfo.EntryInfo
}

func (p *JarProvider) open(u *url.URL) (*jarVisit, func(), error) {
	jarPath, entry, err := ParseJarURL(u)
	if err != nil {
		return nil, nil, err
	}
	j, release, err := p.cache.Acquire(jarPath)
	if err != nil {
		return nil, nil, err
	}
	e, ok := j.Entry(entry)
	if !ok {
		release()
		return nil, nil, fmt.Errorf("%s: %w", u, ErrNotFound)
	}
	return &jarVisit{jar: j, jarPath: jarPath, start: e}, release, nil
}

func (jv *jarVisit) node(e *jarinfo.EntryInfo) Node {
	rel := e.BaseName()
	if e != jv.start || e.IsDir() {
		rel = strings.TrimSuffix(strings.TrimPrefix(e.Name(), jv.start.Name()), "/")
	}
	return Node{
		URL:      JarURL(jv.jarPath, e.Name()),
		Name:     e.BaseName(),
		Path:     rel,
		IsDir:    e.IsDir(),
		Size:     e.Size(),
		Modified: e.Modified(),
	}
}

// Stat describes the archive entry u names.
func (p *JarProvider) Stat(ctx context.Context, u *url.URL) (Node, error) {
	jv, release, err := p.open(u)
	if err != nil {
		return Node{}, err
	}
	defer release()
	return jv.node(jv.start), nil
}

// Children lists the entries directly inside the directory entry u.
func (p *JarProvider) Children(ctx context.Context, u *url.URL) ([]Node, error) {
	jv, release, err := p.open(u)
	if err != nil {
		return nil, err
	}
	defer release()
	if !jv.start.IsDir() {
		return nil, fmt.Errorf("%s: %w", u, ErrNotDirectory)
	}
	children := jv.jar.Children(jv.start)
	out := make([]Node, 0, len(children))
	for _, c := range children {
		out = append(out, jv.node(c))
	}
	return out, nil
}

// Visit walks the entries below u depth first, holding the archive open
// for the whole visit.
func (p *JarProvider) Visit(ctx context.Context, u *url.URL, v Visitor, f Filter) error {
	jv, release, err := p.open(u)
	if err != nil {
		return err
	}
	defer release()
	p.logger.Debug("visiting archive", zap.String("url", u.String()), zap.Int("entries", jv.jar.Len()))

	root := jv.node(jv.start)
	if !root.IsDir {
		if f.AcceptFile(root) {
			return v.File(root)
		}
		return nil
	}
	if err := v.StartDir(root); err != nil {
		return err
	}
	if err := p.walk(ctx, jv, jv.start, v, f); err != nil {
		return err
	}
	return v.EndDir(root)
}

func (p *JarProvider) walk(ctx context.Context, jv *jarVisit, dir *jarinfo.EntryInfo, v Visitor, f Filter) error {
	for _, e := range jv.jar.Children(dir) {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := jv.node(e)
		if !n.IsDir {
			if f.AcceptFile(n) {
				if err := v.File(n); err != nil {
					return err
				}
			}
			continue
		}
		if !f.AcceptDir(n) {
			continue
		}
		if err := v.StartDir(n); err != nil {
			return err
		}
		if err := p.walk(ctx, jv, e, v, f); err != nil {
			return err
		}
		if err := v.EndDir(n); err != nil {
			return err
		}
	}
	return nil
}
