package mock

import (
	"context"

	"github.com/fwojciec/locallm"
)

var _ locallm.KnowledgeMapService = (*KnowledgeMapService)(nil)

// KnowledgeMapService is a mock implementation of locallm.KnowledgeMapService.
type KnowledgeMapService struct {
	LoadKnowledgeMapFn func(ctx context.Context, dir string) (*locallm.KnowledgeMap, error)
	SaveKnowledgeMapFn func(ctx context.Context, m *locallm.KnowledgeMap) error
}

func (s *KnowledgeMapService) LoadKnowledgeMap(ctx context.Context, dir string) (*locallm.KnowledgeMap, error) {
	return s.LoadKnowledgeMapFn(ctx, dir)
}

func (s *KnowledgeMapService) SaveKnowledgeMap(ctx context.Context, m *locallm.KnowledgeMap) error {
	return s.SaveKnowledgeMapFn(ctx, m)
}
