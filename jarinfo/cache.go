package jarinfo

import (
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of archives a Cache keeps open.
const DefaultCacheSize = 32

type cachedJar struct {
	jar     *JarInfo
	refs    int
	evicted bool
}

// Cache keeps recently used archives open. An archive pushed out of the
// cache is closed once every caller holding it has released it.
type Cache struct {
	mu     sync.Mutex
	jars   *lru.Cache[string, *cachedJar]
	logger *zap.Logger
}

// NewCache creates a cache holding up to size archives.
func NewCache(size int, logger *zap.Logger) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{logger: logger}
	jars, err := lru.NewWithEvict(size, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.jars = jars
	return c, nil
}

// onEvict runs with c.mu held, from inside Add or Purge.
func (c *Cache) onEvict(path string, cj *cachedJar) {
	cj.evicted = true
	if cj.refs == 0 {
		c.close(path, cj)
	}
}

func (c *Cache) close(path string, cj *cachedJar) {
	if err := cj.jar.Close(); err != nil {
		c.logger.Warn("failed to close archive", zap.String("path", path), zap.Error(err))
		return
	}
	c.logger.Debug("closed archive", zap.String("path", path))
}

// Acquire returns the archive at path, opening it on a cache miss. The
// caller must call release when done with the archive.
func (c *Cache) Acquire(path string) (jar *JarInfo, release func(), err error) {
	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}

	c.mu.Lock()
	cj, ok := c.jars.Get(path)
	if ok {
		cj.refs++
		c.mu.Unlock()
		return cj.jar, c.releaser(path, cj), nil
	}
	c.mu.Unlock()

	// Open without holding the lock so concurrent callers can open
	// different archives at once.
	j, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("opened archive", zap.String("path", path), zap.Int("entries", j.Len()))
	if skipped := j.Skipped(); len(skipped) > 0 {
		c.logger.Warn("skipped entries outside the archive root",
			zap.String("path", path), zap.Strings("entries", skipped))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.jars.Get(path); ok {
		// Another caller opened it first.
		if err := j.Close(); err != nil {
			c.logger.Warn("failed to close archive", zap.String("path", path), zap.Error(err))
		}
		existing.refs++
		return existing.jar, c.releaser(path, existing), nil
	}
	cj = &cachedJar{jar: j}
	c.jars.Add(path, cj)
	cj.refs++
	return cj.jar, c.releaser(path, cj), nil
}

// releaser returns the release func for one reference to cj.
func (c *Cache) releaser(path string, cj *cachedJar) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			cj.refs--
			if cj.evicted && cj.refs == 0 {
				c.close(path, cj)
			}
		})
	}
}

// Len is the number of archives currently cached.
func (c *Cache) Len() int {
	return c.jars.Len()
}

// Purge drops every cached archive.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jars.Purge()
}
