// Package lru implements locallm.Cache as a byte- and item-bounded LRU cache
// of extracted document text that is invalidated by file modification time.
package lru

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/locallm"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Ensure Cache implements locallm.Cache.
var _ locallm.Cache = (*Cache)(nil)

// Default bounds.
const (
	DefaultMaxSize  = 100 << 20
	DefaultMaxItems = 50
)

type entry struct {
	path     string
	content  string
	size     int64
	mtime    time.Time
	cachedAt time.Time
}

// Cache is a thread-safe LRU cache of document contents.
type Cache struct {
	mu       sync.Mutex
	items    *simplelru.LRU[string, *entry]
	size     int64
	maxSize  int64
	maxItems int
	hits     int64
	misses   int64

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCache returns a cache bounded by maxSize bytes and maxItems entries.
// Non-positive bounds select the defaults.
func NewCache(maxSize int64, maxItems int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	c := &Cache{maxSize: maxSize, maxItems: maxItems, Now: time.Now}
	// maxItems is positive so construction cannot fail.
	c.items, _ = simplelru.NewLRU[string, *entry](maxItems, c.evicted)
	return c
}

// evicted keeps the byte total in step with the underlying list. It runs
// with c.mu held.
func (c *Cache) evicted(_ string, e *entry) {
	c.size -= e.size
}

// Key returns the cache key for path: a hash of its resolved absolute path.
func Key(path string) string {
	resolved := path
	if abs, err := filepath.Abs(path); err == nil {
		resolved = abs
	}
	if real, err := filepath.EvalSymlinks(resolved); err == nil {
		resolved = real
	}
	return strconv.FormatUint(xxhash.Sum64String(resolved), 16)
}

func modTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Get returns the cached content for path. An entry whose recorded mtime no
// longer matches the file is evicted and reported as a miss.
func (c *Cache) Get(path string) (string, bool) {
	key := Key(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items.Peek(key)
	if !ok {
		c.misses++
		return "", false
	}

	mtime, ok := modTime(path)
	if !ok || !mtime.Equal(e.mtime) {
		c.items.Remove(key)
		c.misses++
		return "", false
	}

	c.items.Get(key)
	c.hits++
	return e.content, true
}

// Put stores content for path under the file's current modification time.
func (c *Cache) Put(path, content string) {
	mtime, _ := modTime(path)
	c.PutWithModTime(path, content, mtime)
}

// PutWithModTime stores content for path under mtime, the modification time
// observed before the content was read. A file rewritten since then fails
// the check in Get. Least recently used entries are evicted one at a time
// until the new entry fits both bounds; an entry larger than the byte bound
// evicts everything else and is still admitted.
func (c *Cache) PutWithModTime(path, content string, mtime time.Time) {
	key := Key(path)
	e := &entry{
		path:     path,
		content:  content,
		size:     int64(len(content)),
		mtime:    mtime,
		cachedAt: c.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Remove(key)
	for c.items.Len() > 0 && (c.size+e.size > c.maxSize || c.items.Len() >= c.maxItems) {
		c.items.RemoveOldest()
	}
	c.items.Add(key, e)
	c.size += e.size
}

// Invalidate drops the entry for path if present.
func (c *Cache) Invalidate(path string) {
	key := Key(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Remove(key)
}

// Clear drops every entry and resets the hit and miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Purge()
	c.size = 0
	c.hits = 0
	c.misses = 0
}

// Stats returns a snapshot of the cache.
func (c *Cache) Stats() locallm.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := c.items.Values()
	paths := make([]string, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		paths = append(paths, values[i].path)
	}

	return locallm.CacheStats{
		Size:     c.size,
		MaxSize:  c.maxSize,
		Items:    c.items.Len(),
		MaxItems: c.maxItems,
		Hits:     c.hits,
		Misses:   c.misses,
		Paths:    paths,
	}
}
