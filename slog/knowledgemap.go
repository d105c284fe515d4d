package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locallm"
)

// Ensure LoggingKnowledgeMapService implements locallm.KnowledgeMapService.
var _ locallm.KnowledgeMapService = (*LoggingKnowledgeMapService)(nil)

// LoggingKnowledgeMapService wraps a KnowledgeMapService with logging.
type LoggingKnowledgeMapService struct {
	next   locallm.KnowledgeMapService
	logger *slog.Logger
}

// NewLoggingKnowledgeMapService creates a new LoggingKnowledgeMapService.
func NewLoggingKnowledgeMapService(next locallm.KnowledgeMapService, logger *slog.Logger) *LoggingKnowledgeMapService {
	return &LoggingKnowledgeMapService{next: next, logger: logger}
}

// LoadKnowledgeMap delegates to the wrapped service and logs the operation.
func (s *LoggingKnowledgeMapService) LoadKnowledgeMap(ctx context.Context, dir string) (m *locallm.KnowledgeMap, err error) {
	defer func(begin time.Time) {
		var documents int
		if m != nil {
			documents = m.TotalDocuments
		}
		s.logger.Info("knowledge map load",
			"dir", dir,
			"documents", documents,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadKnowledgeMap(ctx, dir)
}

// SaveKnowledgeMap delegates to the wrapped service and logs the operation.
func (s *LoggingKnowledgeMapService) SaveKnowledgeMap(ctx context.Context, m *locallm.KnowledgeMap) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("knowledge map save",
			"dir", m.Directory,
			"documents", m.TotalDocuments,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveKnowledgeMap(ctx, m)
}
