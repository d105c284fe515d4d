package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/locallm"
)

var _ locallm.ChangeDetector = (*Watcher)(nil)

// summaryLimit is the number of names listed per change category.
const summaryLimit = 3

// Watcher detects added, modified and deleted documents by comparing
// snapshots of modification times.
type Watcher struct {
	dir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu        sync.Mutex
	snapshot  map[string]float64
	lastCheck time.Time
}

// NewWatcher snapshots the documents currently in dir.
func NewWatcher(dir string) *Watcher {
	w := &Watcher{dir: dir, Now: time.Now}
	w.snapshot = w.scan()
	w.lastCheck = w.Now()
	return w
}

// NewWatcherFromMap seeds the snapshot from the modification times recorded
// in m, so the first check reports drift since the map was built at builtAt.
// Documents on disk that the map does not list and that were last modified
// no later than builtAt were skipped by the build and join the baseline
// instead of being reported as added. A zero builtAt seeds only the map.
func NewWatcherFromMap(m *locallm.KnowledgeMap, builtAt time.Time) *Watcher {
	w := &Watcher{dir: m.Directory, Now: time.Now}
	w.snapshot = make(map[string]float64, len(m.Documents))
	for _, doc := range m.Documents {
		w.snapshot[filepath.Join(m.Directory, doc.Path)] = doc.LastUpdated
	}
	if !builtAt.IsZero() {
		cutoff := locallm.EpochSeconds(builtAt)
		for path, mtime := range w.scan() {
			if _, ok := w.snapshot[path]; !ok && mtime <= cutoff {
				w.snapshot[path] = mtime
			}
		}
	}
	w.lastCheck = w.Now()
	return w
}

// scan records the modification time of every supported document. Files
// that cannot be stat'ed are left out.
func (w *Watcher) scan() map[string]float64 {
	snapshot := make(map[string]float64)
	paths, err := Discover(w.dir)
	if err != nil {
		return snapshot
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		snapshot[path] = locallm.EpochSeconds(info.ModTime())
	}
	return snapshot
}

// CheckForChanges rescans the directory, diffs against the stored snapshot
// and replaces it. Each category is sorted. Concurrent calls are serialized
// so every change is reported exactly once.
func (w *Watcher) CheckForChanges() locallm.ChangeSet {
	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.scan()

	var cs locallm.ChangeSet
	for path, mtime := range current {
		prev, ok := w.snapshot[path]
		if !ok {
			cs.Added = append(cs.Added, path)
		} else if prev != mtime {
			cs.Modified = append(cs.Modified, path)
		}
	}
	for path := range w.snapshot {
		if _, ok := current[path]; !ok {
			cs.Deleted = append(cs.Deleted, path)
		}
	}
	sort.Strings(cs.Added)
	sort.Strings(cs.Modified)
	sort.Strings(cs.Deleted)

	w.snapshot = current
	w.lastCheck = w.Now()
	return cs
}

// HasChanges reports whether anything changed since the last check.
func (w *Watcher) HasChanges() bool {
	return !w.CheckForChanges().Empty()
}

// ShouldRebuild reports false if less than minInterval passed since the last
// check, otherwise whether anything changed.
func (w *Watcher) ShouldRebuild(minInterval time.Duration) bool {
	w.mu.Lock()
	elapsed := w.Now().Sub(w.lastCheck)
	w.mu.Unlock()

	if elapsed < minInterval {
		return false
	}
	return w.HasChanges()
}

// Summary renders cs for display, naming up to three files per category.
func Summary(cs locallm.ChangeSet) string {
	if cs.Empty() {
		return "No changes detected"
	}

	var lines []string
	section := func(label, mark string, paths []string) {
		if len(paths) == 0 {
			return
		}
		lines = append(lines, fmt.Sprintf("%s: %d file(s)", label, len(paths)))
		for i, path := range paths {
			if i == summaryLimit {
				lines = append(lines, fmt.Sprintf("  ... and %d more", len(paths)-summaryLimit))
				break
			}
			lines = append(lines, "  "+mark+" "+filepath.Base(path))
		}
	}
	section("Added", "+", cs.Added)
	section("Modified", "~", cs.Modified)
	section("Deleted", "-", cs.Deleted)
	return strings.Join(lines, "\n")
}
