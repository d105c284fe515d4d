package mock

import (
	"context"

	"github.com/fwojciec/locallm"
)

var _ locallm.Model = (*Model)(nil)

// Model is a mock implementation of locallm.Model.
type Model struct {
	ChatFn       func(ctx context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error
	GenerateFn   func(ctx context.Context, req locallm.GenerateRequest) (string, error)
	ListModelsFn func(ctx context.Context) ([]locallm.ModelInfo, error)
}

func (m *Model) Chat(ctx context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error {
	return m.ChatFn(ctx, req, fn)
}

func (m *Model) Generate(ctx context.Context, req locallm.GenerateRequest) (string, error) {
	return m.GenerateFn(ctx, req)
}

func (m *Model) ListModels(ctx context.Context) ([]locallm.ModelInfo, error) {
	return m.ListModelsFn(ctx)
}
