package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/locallm"
	main "github.com/fwojciec/locallm/cmd/locallm"
	"github.com/fwojciec/locallm/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"ask", "chat", "list", "search", "rebuild", "models", "history"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range commands {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

// newMain returns a Main with a temporary database and an empty config file,
// so the user's own configuration does not leak into the test.
func newMain(t *testing.T, model locallm.Model) (*main.Main, string) {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "history.db")
	m.Model = model
	m.Stdin = strings.NewReader("")
	return m, writeFile(t, t.TempDir(), "config.yaml", "")
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t, nil)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		for _, cmd := range commands {
			assert.Contains(t, stdout.String(), cmd)
		}
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "Flags:")
		assert.Contains(t, stdout.String(), ".html")
	})

	t.Run("lists documents in the given directory", func(t *testing.T) {
		t.Parallel()

		m, cfg := newMain(t, nil)
		dir := t.TempDir()
		writeFile(t, dir, "report.md", "# Report")
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"list", "-C", dir, "--config", cfg}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "report.md")
		assert.Contains(t, stdout.String(), "1 document(s)")
	})

	t.Run("rejects a missing directory", func(t *testing.T) {
		t.Parallel()

		m, cfg := newMain(t, nil)

		err := m.Run(context.Background(), []string{"list", "-C", filepath.Join(t.TempDir(), "gone"), "--config", cfg}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, locallm.ENOTFOUND, locallm.ErrorCode(err))
	})

	t.Run("rejects an unknown provider", func(t *testing.T) {
		t.Parallel()

		m, cfg := newMain(t, nil)

		err := m.Run(context.Background(), []string{"list", "--provider", "openai", "--config", cfg}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, locallm.EINVALID, locallm.ErrorCode(err))
	})

	t.Run("records asked questions in history", func(t *testing.T) {
		t.Parallel()

		model := &mock.Model{
			GenerateFn: func(context.Context, locallm.GenerateRequest) (string, error) {
				return `{"description": "Budget notes", "key_concepts": ["budget"]}`, nil
			},
			ChatFn: func(_ context.Context, _ locallm.ChatRequest, fn locallm.FragmentFunc) error {
				return fn("Final Answer: Project Alpha uses 8GB.")
			},
		}
		m, cfg := newMain(t, model)
		dir := t.TempDir()
		writeFile(t, dir, "notes.txt", "Project Alpha uses 8GB budget.")

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"ask", "-C", dir, "--config", cfg, "What", "budget?"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Project Alpha uses 8GB.")

		m2 := main.NewMain()
		m2.DBPath = m.DBPath
		stdout.Reset()
		err = m2.Run(context.Background(), []string{"history", "-C", dir, "--config", cfg}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Q: What budget?")
		assert.Contains(t, stdout.String(), "A: Project Alpha uses 8GB.")
	})
}
