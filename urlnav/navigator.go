package urlnav

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dendrascience/portalnav/jarinfo"
	"go.uber.org/zap"
)

// Provider navigates the trees addressed by one URL scheme.
type Provider interface {
	// Stat describes the node u points at.
	Stat(ctx context.Context, u *url.URL) (Node, error)
	// Children lists the nodes directly inside the directory u.
	Children(ctx context.Context, u *url.URL) ([]Node, error)
	// Visit walks the tree rooted at u depth first.
	Visit(ctx context.Context, u *url.URL, v Visitor, f Filter) error
}

// Navigator dispatches to a Provider by URL scheme.
type Navigator struct {
	providers map[string]Provider
	cache     *jarinfo.Cache
	logger    *zap.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger handed to the built-in providers.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Navigator) { n.logger = logger }
}

// WithCache shares an archive cache with the jar provider.
func WithCache(c *jarinfo.Cache) Option {
	return func(n *Navigator) { n.cache = c }
}

// WithProvider registers p for scheme, replacing any built-in provider.
func WithProvider(scheme string, p Provider) Option {
	return func(n *Navigator) { n.providers[scheme] = p }
}

// NewNavigator returns a Navigator handling file: and jar: URLs.
func NewNavigator(opts ...Option) (*Navigator, error) {
	n := &Navigator{
		providers: make(map[string]Provider),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.cache == nil {
		c, err := jarinfo.NewCache(jarinfo.DefaultCacheSize, n.logger)
		if err != nil {
			return nil, err
		}
		n.cache = c
	}
	if _, ok := n.providers[SchemeFile]; !ok {
		n.providers[SchemeFile] = NewFileProvider(n.logger)
	}
	if _, ok := n.providers[SchemeJar]; !ok {
		n.providers[SchemeJar] = NewJarProvider(n.cache, n.logger)
	}
	return n, nil
}

func (n *Navigator) provider(u *url.URL) (Provider, error) {
	p, ok := n.providers[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return p, nil
}

// Stat describes the node u points at.
func (n *Navigator) Stat(ctx context.Context, u *url.URL) (Node, error) {
	p, err := n.provider(u)
	if err != nil {
		return Node{}, err
	}
	return p.Stat(ctx, u)
}

// Children lists the nodes directly inside the directory u.
func (n *Navigator) Children(ctx context.Context, u *url.URL) ([]Node, error) {
	p, err := n.provider(u)
	if err != nil {
		return nil, err
	}
	return p.Children(ctx, u)
}

// Visit walks the tree rooted at u. A nil filter accepts everything.
func (n *Navigator) Visit(ctx context.Context, u *url.URL, v Visitor, f Filter) error {
	p, err := n.provider(u)
	if err != nil {
		return err
	}
	if f == nil {
		f = AcceptAll
	}
	return p.Visit(ctx, u, v, f)
}

// Close releases the archives held open by the navigator's cache.
func (n *Navigator) Close() {
	n.cache.Purge()
}
