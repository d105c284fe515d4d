package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(sqlite.MemoryPath)
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func createExchange(t *testing.T, svc *sqlite.ExchangeService, dir, question string) *locallm.Exchange {
	t.Helper()
	e := &locallm.Exchange{
		Directory: dir,
		Model:     "qwen3:1.7b",
		Question:  question,
		Answer:    "answer to " + question,
		Status:    locallm.StatusAnswered,
		Steps:     1,
	}
	require.NoError(t, svc.CreateExchange(context.Background(), e))
	return e
}

func questions(exchanges []*locallm.Exchange) []string {
	out := make([]string, len(exchanges))
	for i, e := range exchanges {
		out[i] = e.Question
	}
	return out
}

func TestExchangeService_CreateExchange(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))
		before := time.Now().UTC().Add(-time.Second)

		e := createExchange(t, svc, "/docs", "What is the budget?")

		assert.Len(t, e.ID, 36)
		assert.True(t, e.CreatedAt.After(before))
	})

	t.Run("generates distinct IDs", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))

		a := createExchange(t, svc, "/docs", "first")
		b := createExchange(t, svc, "/docs", "second")

		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects exchange without question", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))

		err := svc.CreateExchange(context.Background(), &locallm.Exchange{Directory: "/docs"})

		require.Error(t, err)
		assert.Equal(t, locallm.EINVALID, locallm.ErrorCode(err))
	})

	t.Run("rejects exchange without directory", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))

		err := svc.CreateExchange(context.Background(), &locallm.Exchange{Question: "q"})

		require.Error(t, err)
		assert.Equal(t, locallm.EINVALID, locallm.ErrorCode(err))
	})
}

func TestExchangeService_FindExchanges(t *testing.T) {
	t.Parallel()

	t.Run("round trips all fields", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))
		ctx := context.Background()
		want := &locallm.Exchange{
			Directory: "/docs",
			Model:     "gemini-2.5-flash",
			Question:  "预算是多少？",
			Answer:    "8GB\n\n-----\nSources:\n- notes.txt",
			Status:    locallm.StatusMaxIterationsExceeded,
			Steps:     10,
		}
		require.NoError(t, svc.CreateExchange(ctx, want))

		got, err := svc.FindExchanges(ctx, locallm.ExchangeFilter{})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, want.ID, got[0].ID)
		assert.Equal(t, want.Directory, got[0].Directory)
		assert.Equal(t, want.Model, got[0].Model)
		assert.Equal(t, want.Question, got[0].Question)
		assert.Equal(t, want.Answer, got[0].Answer)
		assert.Equal(t, want.Status, got[0].Status)
		assert.Equal(t, want.Steps, got[0].Steps)
		assert.True(t, want.CreatedAt.Equal(got[0].CreatedAt))
	})

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))
		createExchange(t, svc, "/docs", "first")
		createExchange(t, svc, "/docs", "second")
		createExchange(t, svc, "/docs", "third")

		got, err := svc.FindExchanges(context.Background(), locallm.ExchangeFilter{})

		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, questions(got))
	})

	t.Run("filters by directory", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))
		createExchange(t, svc, "/docs", "in docs")
		createExchange(t, svc, "/papers", "in papers")

		dir := "/papers"
		got, err := svc.FindExchanges(context.Background(), locallm.ExchangeFilter{Directory: &dir})

		require.NoError(t, err)
		assert.Equal(t, []string{"in papers"}, questions(got))
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))
		for _, q := range []string{"a", "b", "c", "d"} {
			createExchange(t, svc, "/docs", q)
		}

		got, err := svc.FindExchanges(context.Background(), locallm.ExchangeFilter{Limit: 2, Offset: 1})

		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b"}, questions(got))
	})

	t.Run("returns empty for unknown directory", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewExchangeService(setupTestDB(t))
		createExchange(t, svc, "/docs", "q")

		dir := "/elsewhere"
		got, err := svc.FindExchanges(context.Background(), locallm.ExchangeFilter{Directory: &dir})

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestExchangeService_FindExchanges_OffsetOnly(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewExchangeService(setupTestDB(t))
	for _, q := range []string{"a", "b", "c"} {
		createExchange(t, svc, "/docs", q)
	}

	got, err := svc.FindExchanges(context.Background(), locallm.ExchangeFilter{Offset: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, questions(got))
}
