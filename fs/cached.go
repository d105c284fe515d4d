package fs

import (
	"context"
	"os"

	"github.com/fwojciec/locallm"
)

// Ensure CachedReader implements locallm.DocumentReader.
var _ locallm.DocumentReader = (*CachedReader)(nil)

// CachedReader serves document text from a cache, reading through to the
// wrapped reader on a miss.
type CachedReader struct {
	next  locallm.DocumentReader
	cache locallm.Cache
}

// NewCachedReader creates a new CachedReader.
func NewCachedReader(next locallm.DocumentReader, cache locallm.Cache) *CachedReader {
	return &CachedReader{next: next, cache: cache}
}

// ReadDocument returns cached content when valid, otherwise reads and stores.
// Content is stored under the modification time seen before the read, so a
// file rewritten mid-read is read again next time. Failed reads are not
// cached.
func (r *CachedReader) ReadDocument(ctx context.Context, path string) (string, error) {
	if content, ok := r.cache.Get(path); ok {
		return content, nil
	}

	info, statErr := os.Stat(path)
	content, err := r.next.ReadDocument(ctx, path)
	if err != nil {
		return "", err
	}
	if statErr != nil {
		r.cache.Put(path, content)
		return content, nil
	}
	r.cache.PutWithModTime(path, content, info.ModTime())
	return content, nil
}
