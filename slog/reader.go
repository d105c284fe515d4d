package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locallm"
)

// Ensure LoggingDocumentReader implements locallm.DocumentReader.
var _ locallm.DocumentReader = (*LoggingDocumentReader)(nil)

// LoggingDocumentReader wraps a DocumentReader with debug logging.
type LoggingDocumentReader struct {
	next   locallm.DocumentReader
	logger *slog.Logger
}

// NewLoggingDocumentReader creates a new LoggingDocumentReader.
func NewLoggingDocumentReader(next locallm.DocumentReader, logger *slog.Logger) *LoggingDocumentReader {
	return &LoggingDocumentReader{next: next, logger: logger}
}

// ReadDocument delegates to the wrapped reader and logs the operation.
func (r *LoggingDocumentReader) ReadDocument(ctx context.Context, path string) (content string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("document read",
			"path", path,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadDocument(ctx, path)
}
