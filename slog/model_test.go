package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/mock"
	locslog "github.com/fwojciec/locallm/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingModel_Chat(t *testing.T) {
	t.Parallel()

	t.Run("logs fragments and passes them through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Model{
			ChatFn: func(ctx context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error {
				if err := fn("Hello"); err != nil {
					return err
				}
				return fn(", world")
			},
		}

		model := locslog.NewLoggingModel(inner, logger)
		var got []string
		err := model.Chat(context.Background(), locallm.ChatRequest{
			Model:    "qwen3",
			Messages: []locallm.Message{{Role: locallm.RoleUser, Content: "hi"}},
		}, func(s string) error {
			got = append(got, s)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"Hello", ", world"}, got)
		output := buf.String()
		assert.Contains(t, output, "model chat")
		assert.Contains(t, output, "model=qwen3")
		assert.Contains(t, output, "messages=1")
		assert.Contains(t, output, "fragments=2")
		assert.Contains(t, output, "bytes=12")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Model{
			ChatFn: func(ctx context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error {
				return errors.New("connection refused")
			},
		}

		model := locslog.NewLoggingModel(inner, logger)
		err := model.Chat(context.Background(), locallm.ChatRequest{}, func(string) error { return nil })

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"connection refused\"")
	})
}

func TestLoggingModel_Generate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Model{
		GenerateFn: func(ctx context.Context, req locallm.GenerateRequest) (string, error) {
			return `{"description":"ok"}`, nil
		},
	}

	model := locslog.NewLoggingModel(inner, logger)
	out, err := model.Generate(context.Background(), locallm.GenerateRequest{Model: "qwen3", Prompt: "summarize"})

	require.NoError(t, err)
	assert.Equal(t, `{"description":"ok"}`, out)
	output := buf.String()
	assert.Contains(t, output, "model generate")
	assert.Contains(t, output, "prompt_bytes=9")
	assert.Contains(t, output, "bytes=20")
}

func TestLoggingModel_ListModels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Model{
		ListModelsFn: func(ctx context.Context) ([]locallm.ModelInfo, error) {
			return []locallm.ModelInfo{{Name: "qwen3:latest"}, {Name: "llama3"}}, nil
		},
	}

	models, err := locslog.NewLoggingModel(inner, logger).ListModels(context.Background())

	require.NoError(t, err)
	assert.Len(t, models, 2)
	assert.Contains(t, buf.String(), "count=2")
}
