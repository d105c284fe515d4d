package locallm

import "time"

// Cache holds extracted document text keyed by file path.
type Cache interface {
	// Get returns the cached content for path if the file has not been
	// modified since it was stored.
	Get(path string) (string, bool)

	// Put stores content for path, evicting least recently used entries
	// as needed. The entry is tied to the file's current modification time.
	Put(path, content string)

	// PutWithModTime stores content read from path when the file had
	// modification time mtime.
	PutWithModTime(path, content string, mtime time.Time)

	// Invalidate drops the entry for path.
	Invalidate(path string)

	// Clear drops all entries and resets the counters.
	Clear()

	// Stats returns a snapshot of the cache counters.
	Stats() CacheStats
}

// CacheStats is a snapshot of cache occupancy and effectiveness.
type CacheStats struct {
	Size     int64
	MaxSize  int64
	Items    int
	MaxItems int
	Hits     int64
	Misses   int64

	// Paths of cached documents, most recently used first.
	Paths []string
}

// HitRate returns the fraction of lookups served from the cache.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
