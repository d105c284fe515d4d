package locallm

import (
	"context"
	"time"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "qwen3:latest"

// Message is one turn of a conversation with a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelOptions holds sampling options. Zero values leave the model default.
type ModelOptions struct {
	Temperature float64
	NumCtx      int
	NumPredict  int
}

// ChatRequest is a streaming conversation request.
type ChatRequest struct {
	Model    string
	Messages []Message
	Options  ModelOptions
}

// GenerateRequest is a single-shot completion request.
type GenerateRequest struct {
	Model   string
	System  string
	Prompt  string
	Options ModelOptions
}

// FragmentFunc receives streamed output fragments in order.
// Returning an error stops the stream and is returned by the caller.
type FragmentFunc func(fragment string) error

// ModelInfo describes a model available from a provider.
type ModelInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// Model is the inference boundary.
type Model interface {
	// Chat streams the reply to a conversation through fn.
	// Returns EUNAVAILABLE if the inference service cannot be reached.
	Chat(ctx context.Context, req ChatRequest, fn FragmentFunc) error

	// Generate returns the complete reply to a single prompt.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// ListModels returns the models the provider can serve.
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
