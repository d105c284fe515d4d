package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/locallm/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic File Replacement
// Readers see either the old or the new file, never a partial write.

func TestWriteFileAtomic_ReplacesExistingFile(t *testing.T) {
	t.Parallel()

	// Given an existing file
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge_map.yaml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	// When I write new content atomically
	err := fs.WriteFileAtomic(path, []byte("new"), 0o644)

	// Then the file holds the new content
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	// And no temporary files remain
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_SetsPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "map.yaml")

	require.NoError(t, fs.WriteFileAtomic(path, []byte("x"), 0o600))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteFileAtomic_FailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	// Given a target inside a directory that does not exist
	path := filepath.Join(t.TempDir(), "missing", "map.yaml")

	// When I write
	err := fs.WriteFileAtomic(path, []byte("x"), 0o644)

	// Then an error is returned and nothing is created
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(statErr))
}
