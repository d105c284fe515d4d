package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/locallm"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ locallm.ExchangeService = (*ExchangeService)(nil)

// ExchangeService implements locallm.ExchangeService using SQLite.
type ExchangeService struct {
	db *DB
}

// NewExchangeService creates a new ExchangeService.
func NewExchangeService(db *DB) *ExchangeService {
	return &ExchangeService{db: db}
}

// CreateExchange records an exchange with a generated ID and timestamp.
func (s *ExchangeService) CreateExchange(ctx context.Context, e *locallm.Exchange) error {
	if err := e.Validate(); err != nil {
		return err
	}

	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (id, directory, model, question, answer, status, steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Directory, e.Model, e.Question, e.Answer, string(e.Status), e.Steps,
		e.CreatedAt.Format(time.RFC3339))

	return err
}

// FindExchanges retrieves exchanges matching the filter, newest first.
func (s *ExchangeService) FindExchanges(ctx context.Context, filter locallm.ExchangeFilter) ([]*locallm.Exchange, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, directory, model, question, answer, status, steps, created_at FROM exchanges WHERE 1=1")

	if filter.Directory != nil {
		query.WriteString(" AND directory = ?")
		args = append(args, *filter.Directory)
	}

	// rowid breaks ties between exchanges recorded within the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exchanges []*locallm.Exchange
	for rows.Next() {
		var e locallm.Exchange
		var status, createdAt string

		if err := rows.Scan(&e.ID, &e.Directory, &e.Model, &e.Question, &e.Answer,
			&status, &e.Steps, &createdAt); err != nil {
			return nil, err
		}

		e.Status = locallm.Status(status)
		e.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		exchanges = append(exchanges, &e)
	}

	return exchanges, rows.Err()
}
