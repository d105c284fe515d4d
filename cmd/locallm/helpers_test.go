package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/locallm"
	main "github.com/fwojciec/locallm/cmd/locallm"
	"github.com/fwojciec/locallm/etree"
	"github.com/fwojciec/locallm/fs"
	"github.com/fwojciec/locallm/goquery"
	"github.com/fwojciec/locallm/htmltomarkdown"
	"github.com/fwojciec/locallm/index"
	"github.com/fwojciec/locallm/lru"
	"github.com/fwojciec/locallm/mock"
	"github.com/fwojciec/locallm/pdf"
	"github.com/fwojciec/locallm/yaml"
	"github.com/stretchr/testify/require"
)

// env is a command environment over a temporary document directory.
type env struct {
	deps   *main.Dependencies
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dir    string
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// offline returns a model whose generate calls fail, so maps are built from
// deterministic fallbacks, and whose chat streams turns word by word.
func offline(turns ...string) *mock.Model {
	var calls int
	return &mock.Model{
		GenerateFn: func(context.Context, locallm.GenerateRequest) (string, error) {
			return "", errors.New("model offline")
		},
		ChatFn: func(ctx context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error {
			if len(turns) == 0 {
				return nil
			}
			turn := turns[min(calls, len(turns)-1)]
			calls++
			for _, fragment := range strings.SplitAfter(turn, " ") {
				if err := fn(fragment); err != nil {
					return err
				}
			}
			return nil
		},
		ListModelsFn: func(context.Context) ([]locallm.ModelInfo, error) {
			return []locallm.ModelInfo{
				{Name: "test-model", Size: 2 << 30, ModifiedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)},
				{Name: "other-model", Size: 500 << 20},
			}, nil
		},
	}
}

func newEnv(t *testing.T, model locallm.Model) *env {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "Project Alpha uses 8GB budget.")

	reader := fs.NewDocumentReader(pdf.NewReader(), etree.NewReader(), htmltomarkdown.NewReader(goquery.NewExtractor()))
	cache := lru.NewCache(0, 0)
	maps := yaml.NewKnowledgeMapService("")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	deps := &main.Dependencies{
		Ctx:       context.Background(),
		Stdin:     strings.NewReader(""),
		Stdout:    stdout,
		Stderr:    stderr,
		Dir:       dir,
		Config:    main.DefaultConfig(),
		Model:     model,
		ModelName: "test-model",
		Reader:    fs.NewCachedReader(reader, cache),
		Cache:     cache,
		Maps:      maps,
		Builder: &index.Builder{
			Reader:      reader,
			Model:       model,
			Maps:        maps,
			ModelName:   "test-model",
			RetryDelays: []time.Duration{},
		},
		Interrupts: &main.Interrupts{},
	}
	return &env{deps: deps, stdout: stdout, stderr: stderr, dir: dir}
}

// build writes the knowledge map for the environment's directory.
func (e *env) build(t *testing.T) *locallm.KnowledgeMap {
	t.Helper()
	m, _, err := e.deps.Builder.Build(context.Background(), e.dir, locallm.BuildModeFull, nil)
	require.NoError(t, err)
	return m
}

// recorder returns an exchange service that keeps created exchanges.
func recorder() (*mock.ExchangeService, *[]*locallm.Exchange) {
	var exchanges []*locallm.Exchange
	return &mock.ExchangeService{
		CreateExchangeFn: func(_ context.Context, e *locallm.Exchange) error {
			exchanges = append(exchanges, e)
			return nil
		},
	}, &exchanges
}
