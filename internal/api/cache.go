package api

import (
	"context"
	"os"
	"path"
	"strconv"
	"sync"

	"github.com/dorifit/dorifit/pkg/masterdata"
)

// CatalogCache is a thread-safe LRU cache of parsed master-data bundles,
// keyed by master-data version.
type CatalogCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	bundle *masterdata.Bundle
}

// NewCatalogCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 4.
func NewCatalogCache(maxSize int) *CatalogCache {
	if maxSize <= 0 {
		maxSize = 4
	}
	return &CatalogCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// NewCatalogCacheFromEnv creates a cache with size from CATALOG_CACHE_SIZE env var.
func NewCatalogCacheFromEnv() *CatalogCache {
	size := 4
	if v := os.Getenv("CATALOG_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewCatalogCache(size)
}

// Get retrieves a bundle from the cache, or nil if not found.
func (c *CatalogCache) Get(version string) *masterdata.Bundle {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[version]
	if !ok {
		return nil
	}

	c.moveToEnd(version)
	return entry.bundle
}

// Put adds a bundle to the cache, evicting the oldest if full.
func (c *CatalogCache) Put(version string, bundle *masterdata.Bundle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[version]; ok {
		c.entries[version] = &cacheEntry{bundle: bundle}
		c.moveToEnd(version)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[version] = &cacheEntry{bundle: bundle}
	c.order = append(c.order, version)
}

// Len returns the number of cached bundles.
func (c *CatalogCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *CatalogCache) moveToEnd(version string) {
	for i, k := range c.order {
		if k == version {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, version)
			return
		}
	}
}

// versionedSource reads master files from a version's subdirectory. The
// empty version reads the unversioned files.
type versionedSource struct {
	src     masterdata.Source
	version string
}

func (v versionedSource) GetMaster(ctx context.Context, name string) ([]byte, error) {
	if v.version == "" {
		return v.src.GetMaster(ctx, name)
	}
	return v.src.GetMaster(ctx, path.Join(v.version, name))
}
