package mock

import (
	"context"

	"github.com/fwojciec/locallm"
)

var _ locallm.ExchangeService = (*ExchangeService)(nil)

// ExchangeService is a mock implementation of locallm.ExchangeService.
type ExchangeService struct {
	CreateExchangeFn func(ctx context.Context, e *locallm.Exchange) error
	FindExchangesFn  func(ctx context.Context, filter locallm.ExchangeFilter) ([]*locallm.Exchange, error)
}

func (s *ExchangeService) CreateExchange(ctx context.Context, e *locallm.Exchange) error {
	return s.CreateExchangeFn(ctx, e)
}

func (s *ExchangeService) FindExchanges(ctx context.Context, filter locallm.ExchangeFilter) ([]*locallm.Exchange, error) {
	return s.FindExchangesFn(ctx, filter)
}
