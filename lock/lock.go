// Package lock implements locallm.Locker with an advisory lock on a marker
// file holding the owner's process id.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/locallm"
)

// Ensure Lock implements locallm.Locker.
var _ locallm.Locker = (*Lock)(nil)

// Filename is the name of the marker file inside the guarded directory.
const Filename = ".knowledge_map.lock"

// Defaults.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

const removeAttempts = 3

// errWouldBlock is returned by the platform lock when another handle holds
// the lock.
var errWouldBlock = errors.New("lock held by another handle")

// Lock guards a directory against concurrent knowledge map rebuilds.
type Lock struct {
	path string

	// Timeout bounds a blocking Acquire.
	Timeout time.Duration

	// PollInterval is the delay between acquisition attempts.
	PollInterval time.Duration

	mu   sync.Mutex
	file *os.File
}

// New returns a lock for dir. A non-positive timeout selects DefaultTimeout.
func New(dir string, timeout time.Duration) *Lock {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Lock{
		path:         filepath.Join(dir, Filename),
		Timeout:      timeout,
		PollInterval: DefaultPollInterval,
	}
}

// Path returns the marker file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock. A blocking call retries every PollInterval until
// Timeout elapses and then reports false. Calling Acquire on a lock this
// handle already holds reports true.
func (l *Lock) Acquire(blocking bool) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("creating lock directory: %w", err)
	}

	deadline := time.Now().Add(l.Timeout)
	for {
		file, err := l.tryAcquire()
		if err == nil {
			l.file = file
			return true, nil
		}
		if !errors.Is(err, errWouldBlock) {
			return false, err
		}
		if !blocking || !time.Now().Before(deadline) {
			return false, nil
		}
		time.Sleep(l.PollInterval)
	}
}

// tryAcquire makes one attempt to lock the marker file and record the
// current process id in it.
func (l *Lock) tryAcquire() (*os.File, error) {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := lockFile(file); err != nil {
		_ = file.Close()
		return nil, err
	}

	// The previous owner may have removed the marker between our open and
	// lock, leaving us holding an unlinked file.
	if !l.sameFile(file) {
		_ = unlockFile(file)
		_ = file.Close()
		return nil, errWouldBlock
	}

	if err := writePID(file); err != nil {
		_ = unlockFile(file)
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

func (l *Lock) sameFile(file *os.File) bool {
	held, err := file.Stat()
	if err != nil {
		return false
	}
	current, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	return os.SameFile(held, current)
}

func writePID(file *os.File) error {
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncating lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("seeking lock file: %w", err)
	}
	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("writing PID to lock file: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing lock file: %w", err)
	}
	return nil
}

// Release unlocks and closes the marker file and removes it. Removal is
// retried a few times and failures are ignored. Release is a no-op when the
// lock is not held and is safe to call on a nil Lock.
func (l *Lock) Release() {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	if removeWhileLocked {
		l.removeMarker()
		_ = unlockFile(l.file)
		_ = l.file.Close()
	} else {
		_ = unlockFile(l.file)
		_ = l.file.Close()
		l.removeMarker()
	}
	l.file = nil
}

func (l *Lock) removeMarker() {
	for attempt := 0; attempt < removeAttempts; attempt++ {
		err := os.Remove(l.path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return
		}
		time.Sleep(l.PollInterval)
	}
}

// With runs fn while holding the lock, waiting up to Timeout for it.
// Returns ETIMEOUT if the lock could not be acquired. The lock is released
// on every exit path, including a panic in fn.
func (l *Lock) With(fn func() error) error {
	ok, err := l.Acquire(true)
	if err != nil {
		return err
	}
	if !ok {
		return locallm.Errorf(locallm.ETIMEOUT, "timed out after %s waiting for %s", l.Timeout, l.path)
	}
	defer l.Release()
	return fn()
}

// HeldByOtherProcess reports whether the process recorded in the marker file
// is still running. A missing marker reports false; an unreadable or garbled
// marker reports true.
func (l *Lock) HeldByOtherProcess() bool {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	} else if err != nil {
		return true
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return true
	}
	return ProcessAlive(pid)
}

// Steal removes a marker whose recorded owner is no longer alive. Returns
// ECONFLICT if the owner is still running.
func (l *Lock) Steal() error {
	if l.HeldByOtherProcess() {
		return locallm.Errorf(locallm.ECONFLICT, "lock %s is held by a running process", l.path)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale lock: %w", err)
	}
	return nil
}

// ProcessAlive reports whether a process with the given id exists.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return processAlive(pid)
}
