package locallm

import (
	"context"
	"time"
)

// Exchange is a recorded question and its answer.
type Exchange struct {
	ID        string    `json:"id"`
	Directory string    `json:"directory"`
	Model     string    `json:"model"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Status    Status    `json:"status"`
	Steps     int       `json:"steps"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the exchange contains invalid fields.
func (e *Exchange) Validate() error {
	if e.Directory == "" {
		return Errorf(EINVALID, "exchange directory required")
	}
	if e.Question == "" {
		return Errorf(EINVALID, "exchange question required")
	}
	return nil
}

// ExchangeService represents a service for managing recorded exchanges.
type ExchangeService interface {
	// CreateExchange records a new exchange.
	CreateExchange(ctx context.Context, e *Exchange) error

	// FindExchanges retrieves exchanges matching the filter, newest first.
	FindExchanges(ctx context.Context, filter ExchangeFilter) ([]*Exchange, error)
}

// ExchangeFilter represents a filter for FindExchanges.
type ExchangeFilter struct {
	Directory *string `json:"directory"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
