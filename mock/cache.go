package mock

import (
	"time"

	"github.com/fwojciec/locallm"
)

var _ locallm.Cache = (*Cache)(nil)

// Cache is a mock implementation of locallm.Cache.
type Cache struct {
	GetFn        func(path string) (string, bool)
	PutFn        func(path, content string)
	PutModTimeFn func(path, content string, mtime time.Time)
	InvalidateFn func(path string)
	ClearFn      func()
	StatsFn      func() locallm.CacheStats
}

func (c *Cache) Get(path string) (string, bool) {
	return c.GetFn(path)
}

func (c *Cache) Put(path, content string) {
	c.PutFn(path, content)
}

func (c *Cache) PutWithModTime(path, content string, mtime time.Time) {
	c.PutModTimeFn(path, content, mtime)
}

func (c *Cache) Invalidate(path string) {
	c.InvalidateFn(path)
}

func (c *Cache) Clear() {
	c.ClearFn()
}

func (c *Cache) Stats() locallm.CacheStats {
	return c.StatsFn()
}
