package main_test

import (
	"testing"

	main "github.com/fwojciec/locallm/cmd/locallm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists documents with type, size and path", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		writeFile(t, e.dir, "papers/report.md", "# Report")

		err := (&main.ListCmd{}).Run(e.deps)

		require.NoError(t, err)
		out := e.stdout.String()
		assert.Contains(t, out, "FILE NAME")
		assert.Contains(t, out, "notes.txt")
		assert.Contains(t, out, "TXT")
		assert.Contains(t, out, "report.md")
		assert.Contains(t, out, "papers/report.md")
		assert.Contains(t, out, "2 document(s)")
	})

	t.Run("shows helpful message when no documents exist", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		e.deps.Dir = t.TempDir()

		err := (&main.ListCmd{}).Run(e.deps)

		require.NoError(t, err)
		assert.Contains(t, e.stdout.String(), "No documents found in this directory")
		assert.Contains(t, e.stdout.String(), "Supported formats")
	})

	t.Run("returns error for missing directory", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		e.deps.Dir = e.dir + "/missing"

		err := (&main.ListCmd{}).Run(e.deps)

		require.Error(t, err)
		assert.Contains(t, e.stderr.String(), "error:")
	})
}
