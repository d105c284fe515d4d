// Package fsnotify pushes document drift notifications for an indexed
// directory using filesystem events.
package fsnotify

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/locallm"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum time between two change checks.
const DefaultInterval = 2 * time.Second

// Notifier watches a directory tree and reports document drift.
//
// Filesystem events only trigger a check. The reported set always comes from
// the Detector, so editor temp files and map writes never reach OnChange.
type Notifier struct {
	Dir      string
	Detector locallm.ChangeDetector
	OnChange func(locallm.ChangeSet)

	// Interval is the minimum time between checks. Defaults to DefaultInterval.
	Interval time.Duration

	Logger *slog.Logger
}

// NewNotifier returns a Notifier for dir that reports changes found by
// detector to onChange.
func NewNotifier(dir string, detector locallm.ChangeDetector, onChange func(locallm.ChangeSet)) *Notifier {
	return &Notifier{
		Dir:      dir,
		Detector: detector,
		OnChange: onChange,
		Interval: DefaultInterval,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation and an
// error only if the watch cannot be established.
func (n *Notifier) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return locallm.Errorf(locallm.EINTERNAL, "create watcher: %v", err)
	}
	defer watcher.Close()

	if err := n.addTree(watcher, n.Dir); err != nil {
		return err
	}

	interval := n.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			n.track(watcher, event)

			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			if !n.drain(watcher) {
				return nil
			}

			cs := n.Detector.CheckForChanges()
			if !cs.Empty() {
				n.logger().Debug("documents changed", "dir", n.Dir, "count", cs.Len())
				n.OnChange(cs)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			n.logger().Warn("watch error", "dir", n.Dir, "err", err)
		}
	}
}

// drain consumes events queued while waiting on the limiter. It reports
// false if the event channel was closed.
func (n *Notifier) drain(watcher *fsnotify.Watcher) bool {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return false
			}
			n.track(watcher, event)
		default:
			return true
		}
	}
}

// track starts watching directories created after Run began.
func (n *Notifier) track(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	if err := n.addTree(watcher, event.Name); err != nil {
		n.logger().Debug("watch new path", "path", event.Name, "err", err)
	}
}

// addTree adds root and every non-hidden directory below it.
func (n *Notifier) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			if path == root {
				return err
			}
			n.logger().Debug("watch directory", "path", path, "err", err)
		}
		return nil
	})
}

func (n *Notifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return n.Logger
}
