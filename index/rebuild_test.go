package index_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/index"
	"github.com/fwojciec/locallm/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Rebuild(t *testing.T) {
	t.Parallel()

	newGuarded := func(t *testing.T, l *mock.Locker) (*index.Builder, string) {
		t.Helper()
		dir := t.TempDir()
		writeDoc(t, dir, "a.txt", "alpha content")
		b := newBuilder(respond(strings.Replace(goodResponse, "%s", longDescription, 1)))
		b.Locks = func(string) locallm.Locker { return l }
		return b, dir
	}

	t.Run("builds while holding the lock", func(t *testing.T) {
		t.Parallel()

		var blocking, released bool
		l := &mock.Locker{
			AcquireFn: func(b bool) (bool, error) {
				blocking = b
				return true, nil
			},
			ReleaseFn: func() { released = true },
		}
		b, dir := newGuarded(t, l)

		m, _, err := b.Rebuild(context.Background(), dir, locallm.BuildModeFull, true, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, m.TotalDocuments)
		assert.True(t, blocking)
		assert.True(t, released)
	})

	t.Run("times out when another process holds the lock", func(t *testing.T) {
		t.Parallel()

		released := false
		l := &mock.Locker{
			AcquireFn:            func(bool) (bool, error) { return false, nil },
			ReleaseFn:            func() { released = true },
			HeldByOtherProcessFn: func() bool { return true },
		}
		b, dir := newGuarded(t, l)

		_, _, err := b.Rebuild(context.Background(), dir, locallm.BuildModeFull, false, nil)

		assert.Equal(t, locallm.ETIMEOUT, locallm.ErrorCode(err))
		assert.False(t, released)
		assert.NoFileExists(t, dir+"/"+locallm.DefaultKnowledgeMapFilename)
	})

	t.Run("steals a stale lock", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		stolen, released := false, false
		l := &mock.Locker{
			AcquireFn: func(bool) (bool, error) {
				attempts++
				return attempts > 1, nil
			},
			ReleaseFn:            func() { released = true },
			HeldByOtherProcessFn: func() bool { return false },
			StealFn: func() error {
				stolen = true
				return nil
			},
		}
		b, dir := newGuarded(t, l)

		_, _, err := b.Rebuild(context.Background(), dir, locallm.BuildModeFull, false, nil)

		require.NoError(t, err)
		assert.True(t, stolen)
		assert.True(t, released)
		assert.Equal(t, 2, attempts)
	})

	t.Run("releases the lock when build fails", func(t *testing.T) {
		t.Parallel()

		released := false
		l := &mock.Locker{
			AcquireFn: func(bool) (bool, error) { return true, nil },
			ReleaseFn: func() { released = true },
		}
		b, dir := newGuarded(t, l)
		b.Maps = &mock.KnowledgeMapService{
			SaveKnowledgeMapFn: func(ctx context.Context, m *locallm.KnowledgeMap) error {
				return errors.New("disk full")
			},
		}

		_, _, err := b.Rebuild(context.Background(), dir, locallm.BuildModeFull, false, nil)

		assert.Error(t, err)
		assert.True(t, released)
	})

	t.Run("returns acquire errors", func(t *testing.T) {
		t.Parallel()

		l := &mock.Locker{
			AcquireFn: func(bool) (bool, error) { return false, errors.New("permission denied") },
		}
		b, dir := newGuarded(t, l)

		_, _, err := b.Rebuild(context.Background(), dir, locallm.BuildModeFull, false, nil)

		assert.ErrorContains(t, err, "permission denied")
	})
}
