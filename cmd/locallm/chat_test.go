package main_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/locallm"
	main "github.com/fwojciec/locallm/cmd/locallm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runChat(t *testing.T, e *env, input string, cmd *main.ChatCmd) string {
	t.Helper()
	e.deps.Stdin = strings.NewReader(input)
	require.NoError(t, cmd.Run(e.deps))
	return e.stdout.String()
}

func TestChatCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("answers a message and exits", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, offline("Final Answer: Project Alpha uses 8GB."))
		exchanges, recorded := recorder()
		e.deps.Exchanges = exchanges

		out := runChat(t, e, "What budget?\nexit\n", &main.ChatCmd{})

		assert.Contains(t, out, "You:")
		assert.Contains(t, out, "Final Answer: Project Alpha uses 8GB.")
		assert.Contains(t, out, "Goodbye!")
		require.Len(t, *recorded, 1)
		assert.Equal(t, "What budget?", (*recorded)[0].Question)
		assert.Equal(t, "Project Alpha uses 8GB.", (*recorded)[0].Answer)
		assert.Equal(t, locallm.StatusAnswered, (*recorded)[0].Status)
	})

	t.Run("ends at end of input", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, offline())

		out := runChat(t, e, "", &main.ChatCmd{})

		assert.Contains(t, out, "Ready! Chat with test-model (1 documents)")
		assert.Contains(t, out, "Goodbye!")
	})

	t.Run("prints degraded answer when generation fails", func(t *testing.T) {
		t.Parallel()

		model := offline()
		model.ChatFn = func(context.Context, locallm.ChatRequest, locallm.FragmentFunc) error {
			return errors.New("boom")
		}
		e := newEnv(t, model)

		out := runChat(t, e, "Project budget?\n", &main.ChatCmd{})

		assert.Contains(t, out, "Error during response generation: boom")
		assert.Contains(t, out, "Fallback search results (keyword: 'project')")
	})

	t.Run("converses without tools", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, offline("Hi there"))
		exchanges, recorded := recorder()
		e.deps.Exchanges = exchanges

		out := runChat(t, e, "hello\n", &main.ChatCmd{NoTools: true})

		assert.Contains(t, out, "Hi there")
		require.Len(t, *recorded, 1)
		assert.Equal(t, "Hi there", (*recorded)[0].Answer)
		assert.Zero(t, (*recorded)[0].Steps)
	})
}

func TestChatCmd_SlashCommands(t *testing.T) {
	t.Parallel()

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		out := runChat(t, newEnv(t, offline()), "/help\n", &main.ChatCmd{})

		assert.Contains(t, out, "Available Slash Commands")
		assert.Contains(t, out, "/rebuild --fast")
		assert.Contains(t, out, "/stats")
	})

	t.Run("list shows indexed documents", func(t *testing.T) {
		t.Parallel()

		out := runChat(t, newEnv(t, offline()), "/list\n", &main.ChatCmd{})

		assert.Contains(t, out, "Found 1 document(s):")
		assert.Contains(t, out, "• notes")
		assert.Contains(t, out, "notes.txt")
		assert.Contains(t, out, "Key concepts:")
	})

	t.Run("search finds matches", func(t *testing.T) {
		t.Parallel()

		out := runChat(t, newEnv(t, offline()), "/search budget\n/search\n", &main.ChatCmd{})

		assert.Contains(t, out, "Searching for: budget")
		assert.Contains(t, out, "Found 1 match(es) for 'budget'")
		assert.Contains(t, out, "Usage: /search <keyword>")
	})

	t.Run("models marks current model", func(t *testing.T) {
		t.Parallel()

		out := runChat(t, newEnv(t, offline()), "/models\n", &main.ChatCmd{})

		assert.Contains(t, out, "test-model")
		assert.Contains(t, out, "other-model")
		assert.Contains(t, out, "2.0 GB")
		assert.Contains(t, out, "✓")
	})

	t.Run("model switches the session model", func(t *testing.T) {
		t.Parallel()

		var models []string
		model := offline()
		model.ChatFn = func(_ context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error {
			models = append(models, req.Model)
			return fn("Final Answer: ok")
		}
		e := newEnv(t, model)

		out := runChat(t, e, "/model\n/model llama3\nhello\n", &main.ChatCmd{})

		assert.Contains(t, out, "Usage: /model <model_name>")
		assert.Contains(t, out, "Switched from test-model to llama3")
		assert.Equal(t, []string{"llama3"}, models)
	})

	t.Run("clear forgets the conversation", func(t *testing.T) {
		t.Parallel()

		var sizes []int
		model := offline()
		model.ChatFn = func(_ context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error {
			sizes = append(sizes, len(req.Messages))
			return fn("Final Answer: ok")
		}
		e := newEnv(t, model)

		out := runChat(t, e, "first\n/clear\nsecond\n", &main.ChatCmd{})

		assert.Contains(t, out, "Conversation history cleared")
		assert.Equal(t, []int{2, 2}, sizes)
	})

	t.Run("rebuild reloads the map", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, offline())
		e.build(t)
		writeFile(t, e.dir, "extra.md", "# Extra\n\nMore notes.")

		out := runChat(t, e, "/rebuild --fast\n/list\n", &main.ChatCmd{})

		assert.Contains(t, out, "Rebuilding knowledge map (fast mode)...")
		assert.Contains(t, out, "Loaded 2 documents")
		assert.Contains(t, out, "Found 2 document(s):")
	})

	t.Run("stats shows cache counters", func(t *testing.T) {
		t.Parallel()

		out := runChat(t, newEnv(t, offline()), "/stats\n", &main.ChatCmd{})

		assert.Contains(t, out, "Statistics")
		assert.Contains(t, out, "Model")
		assert.Contains(t, out, "Cache hits")
		assert.Contains(t, out, "Hit rate")
	})

	t.Run("unknown and exit commands", func(t *testing.T) {
		t.Parallel()

		out := runChat(t, newEnv(t, offline()), "/bogus\n/exit\n", &main.ChatCmd{})

		assert.Contains(t, out, "Unknown command: /bogus")
		assert.Contains(t, out, "Use 'exit' or 'quit' without slash to exit chat mode")
	})
}
