// Package slog provides logging decorators for locallm services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locallm"
)

// Ensure LoggingModel implements locallm.Model.
var _ locallm.Model = (*LoggingModel)(nil)

// LoggingModel wraps a Model with logging of every call.
type LoggingModel struct {
	next   locallm.Model
	logger *slog.Logger
}

// NewLoggingModel creates a new LoggingModel.
func NewLoggingModel(next locallm.Model, logger *slog.Logger) *LoggingModel {
	return &LoggingModel{next: next, logger: logger}
}

// Chat delegates to the wrapped model and logs the streamed volume.
func (m *LoggingModel) Chat(ctx context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) (err error) {
	var fragments, bytes int
	defer func(begin time.Time) {
		m.logger.Info("model chat",
			"model", req.Model,
			"messages", len(req.Messages),
			"fragments", fragments,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Chat(ctx, req, func(s string) error {
		fragments++
		bytes += len(s)
		return fn(s)
	})
}

// Generate delegates to the wrapped model and logs the operation.
func (m *LoggingModel) Generate(ctx context.Context, req locallm.GenerateRequest) (out string, err error) {
	defer func(begin time.Time) {
		m.logger.Info("model generate",
			"model", req.Model,
			"prompt_bytes", len(req.Prompt),
			"bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Generate(ctx, req)
}

// ListModels delegates to the wrapped model and logs the operation.
func (m *LoggingModel) ListModels(ctx context.Context) (models []locallm.ModelInfo, err error) {
	defer func(begin time.Time) {
		m.logger.Info("model list",
			"count", len(models),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.ListModels(ctx)
}
