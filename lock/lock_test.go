package lock_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nonexistentPID is above the largest pid Linux and macOS hand out.
const nonexistentPID = 99999999

func newLock(dir string) *lock.Lock {
	l := lock.New(dir, 300*time.Millisecond)
	l.PollInterval = 10 * time.Millisecond
	return l
}

func TestLock_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("writes process id into marker", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		l := newLock(dir)

		ok, err := l.Acquire(false)
		require.NoError(t, err)
		require.True(t, ok)
		defer l.Release()

		data, err := os.ReadFile(filepath.Join(dir, lock.Filename))
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))
	})

	t.Run("sequential cycles by the same owner succeed", func(t *testing.T) {
		t.Parallel()

		l := newLock(t.TempDir())

		for i := 0; i < 2; i++ {
			ok, err := l.Acquire(true)
			require.NoError(t, err)
			assert.True(t, ok)
			l.Release()
		}
	})

	t.Run("second holder is refused while first holds", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		first := newLock(dir)
		second := newLock(dir)

		ok, err := first.Acquire(false)
		require.NoError(t, err)
		require.True(t, ok)
		defer first.Release()

		ok, err = second.Acquire(false)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("blocking acquire gives up after timeout", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		first := newLock(dir)
		second := newLock(dir)
		ok, err := first.Acquire(false)
		require.NoError(t, err)
		require.True(t, ok)
		defer first.Release()

		begin := time.Now()
		ok, err = second.Acquire(true)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.GreaterOrEqual(t, time.Since(begin), 300*time.Millisecond)
	})

	t.Run("blocking acquire succeeds once holder releases", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		first := newLock(dir)
		second := lock.New(dir, 5*time.Second)
		second.PollInterval = 10 * time.Millisecond
		ok, err := first.Acquire(false)
		require.NoError(t, err)
		require.True(t, ok)

		go func() {
			time.Sleep(50 * time.Millisecond)
			first.Release()
		}()

		ok, err = second.Acquire(true)
		require.NoError(t, err)
		assert.True(t, ok)
		second.Release()
	})
}

func TestLock_Release(t *testing.T) {
	t.Parallel()

	t.Run("removes marker file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		l := newLock(dir)
		ok, err := l.Acquire(false)
		require.NoError(t, err)
		require.True(t, ok)

		l.Release()

		_, err = os.Stat(filepath.Join(dir, lock.Filename))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("is safe when not held", func(t *testing.T) {
		t.Parallel()

		l := newLock(t.TempDir())

		assert.NotPanics(t, func() {
			l.Release()
			l.Release()
		})
	})

	t.Run("is safe on nil lock", func(t *testing.T) {
		t.Parallel()

		var l *lock.Lock

		assert.NotPanics(t, l.Release)
	})
}

func TestLock_With(t *testing.T) {
	t.Parallel()

	t.Run("runs function while holding the lock", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		l := newLock(dir)
		var heldDuring bool

		err := l.With(func() error {
			_, statErr := os.Stat(filepath.Join(dir, lock.Filename))
			heldDuring = statErr == nil
			return nil
		})

		require.NoError(t, err)
		assert.True(t, heldDuring)
		_, err = os.Stat(filepath.Join(dir, lock.Filename))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("returns timeout when lock is busy", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		holder := newLock(dir)
		ok, err := holder.Acquire(false)
		require.NoError(t, err)
		require.True(t, ok)
		defer holder.Release()
		called := false

		err = newLock(dir).With(func() error {
			called = true
			return nil
		})

		assert.Equal(t, locallm.ETIMEOUT, locallm.ErrorCode(err))
		assert.False(t, called)
	})

	t.Run("propagates function error and releases", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		l := newLock(dir)

		err := l.With(func() error { return errors.New("build failed") })

		assert.EqualError(t, err, "build failed")
		ok, err := newLock(dir).Acquire(false)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("releases when function panics", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		l := newLock(dir)

		assert.Panics(t, func() {
			_ = l.With(func() error { panic("boom") })
		})

		other := newLock(dir)
		ok, err := other.Acquire(false)
		require.NoError(t, err)
		assert.True(t, ok)
		other.Release()
	})
}

func TestLock_MutualExclusion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var inside, maxInside, entered int32
	var wg sync.WaitGroup

	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := lock.New(dir, 10*time.Second)
			l.PollInterval = 5 * time.Millisecond
			err := l.With(func() error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				atomic.AddInt32(&entered, 1)
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, int32(6), entered)
}

func TestLock_HeldByOtherProcess(t *testing.T) {
	t.Parallel()

	t.Run("false without marker", func(t *testing.T) {
		t.Parallel()

		assert.False(t, newLock(t.TempDir()).HeldByOtherProcess())
	})

	t.Run("true for live owner", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		holder := newLock(dir)
		ok, err := holder.Acquire(false)
		require.NoError(t, err)
		require.True(t, ok)
		defer holder.Release()

		assert.True(t, newLock(dir).HeldByOtherProcess())
	})

	t.Run("false for dead owner", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, lock.Filename), []byte(strconv.Itoa(nonexistentPID)), 0o644))

		assert.False(t, newLock(dir).HeldByOtherProcess())
	})

	t.Run("true for garbled marker", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, lock.Filename), []byte("not-a-pid"), 0o644))

		assert.True(t, newLock(dir).HeldByOtherProcess())
	})
}

func TestLock_Steal(t *testing.T) {
	t.Parallel()

	t.Run("removes marker of dead owner", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		marker := filepath.Join(dir, lock.Filename)
		require.NoError(t, os.WriteFile(marker, []byte(strconv.Itoa(nonexistentPID)), 0o644))
		l := newLock(dir)

		require.NoError(t, l.Steal())

		_, err := os.Stat(marker)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		ok, err := l.Acquire(false)
		require.NoError(t, err)
		assert.True(t, ok)
		l.Release()
	})

	t.Run("refuses when owner is alive", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		holder := newLock(dir)
		ok, err := holder.Acquire(false)
		require.NoError(t, err)
		require.True(t, ok)
		defer holder.Release()

		err = newLock(dir).Steal()

		assert.Equal(t, locallm.ECONFLICT, locallm.ErrorCode(err))
	})
}

func TestProcessAlive(t *testing.T) {
	t.Parallel()

	assert.True(t, lock.ProcessAlive(os.Getpid()))
	assert.False(t, lock.ProcessAlive(nonexistentPID))
	assert.False(t, lock.ProcessAlive(0))
}
