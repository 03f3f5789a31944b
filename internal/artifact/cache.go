package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Cache stores fetched artifacts on disk so repeated loads of a remote
// source do not refetch unchanged files.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// NewCache creates a cache rooted at dir. An empty dir disables caching.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// CacheKey derives the cache key for artifact p of the source identified by
// namespace (typically its location).
func CacheKey(namespace, p string) string {
	h := sha256.New()
	writeString(h, namespace)
	writeString(h, p)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached artifact for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.cachePath(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores an artifact under key.
func (c *Cache) Put(key string, data []byte) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(c.cachePath(key), data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached artifacts. It refuses to delete a directory that
// holds anything other than cache files.
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
		}
		if filepath.Ext(entry.Name()) != ".json" {
			return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// CachedSource serves artifacts from a Cache and falls through to the
// wrapped source on a miss. Misses that return ErrNotFound are not cached.
// Under WithRefresh every fetch goes to the wrapped source.
type CachedSource struct {
	inner     Source
	cache     *Cache
	namespace string
	logger    *slog.Logger
}

// NewCachedSource wraps inner with cache.
func NewCachedSource(inner Source, cache *Cache, namespace string, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{inner: inner, cache: cache, namespace: namespace, logger: logger}
}

type refreshKey struct{}

// WithRefresh returns a context under which a CachedSource skips cache reads,
// fetches every artifact from the wrapped source and stores the fresh copy.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func refreshing(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// Fetch implements Source.
func (s *CachedSource) Fetch(ctx context.Context, p string) ([]byte, error) {
	key := CacheKey(s.namespace, p)
	if !refreshing(ctx) {
		if data, ok := s.cache.Get(key); ok {
			s.logger.Debug("artifact cache hit", "path", p)
			return data, nil
		}
	}

	data, err := s.inner.Fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(key, data); err != nil {
		s.logger.Warn("failed to cache artifact", "path", p, "error", err)
	}
	return data, nil
}

var _ Source = (*CachedSource)(nil)

func writeString(w io.Writer, s string) {
	// null delimiter keeps ("ab","c") and ("a","bc") apart
	_, _ = w.Write([]byte(s + "\x00"))
}
