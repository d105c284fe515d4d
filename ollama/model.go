// Package ollama implements locallm.Model on a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/locallm"
	"github.com/ollama/ollama/api"
)

// DefaultHost is the address of a locally running Ollama server.
const DefaultHost = "http://127.0.0.1:11434"

// DefaultTimeout bounds a single request, including a streamed response.
const DefaultTimeout = 120 * time.Second

// Ensure Model implements locallm.Model at compile time.
var _ locallm.Model = (*Model)(nil)

// Model implements locallm.Model using the Ollama HTTP API.
type Model struct {
	client *api.Client
	host   string
}

// NewClient returns an Ollama API client for host. A host without a scheme
// is assumed to be plain HTTP.
func NewClient(host string, timeout time.Duration) (*api.Client, error) {
	if host == "" {
		host = DefaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, locallm.Errorf(locallm.EINVALID, "invalid ollama host %q: %v", host, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return api.NewClient(base, &http.Client{Timeout: timeout}), nil
}

// NewModel creates a new Model. host is used in error messages only.
func NewModel(client *api.Client, host string) *Model {
	return &Model{client: client, host: host}
}

// Chat streams a chat completion, passing each content fragment to fn.
func (m *Model) Chat(ctx context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error {
	messages := make([]api.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, api.Message{Role: msg.Role, Content: msg.Content})
	}

	stream := true
	err := m.client.Chat(ctx, &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Options:  BuildOptions(req.Options),
	}, func(resp api.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		return fn(resp.Message.Content)
	})
	return m.mapError(ctx, req.Model, err)
}

// Generate returns a complete, non-streamed completion for a single prompt.
func (m *Model) Generate(ctx context.Context, req locallm.GenerateRequest) (string, error) {
	stream := false
	var sb strings.Builder
	err := m.client.Generate(ctx, &api.GenerateRequest{
		Model:   req.Model,
		System:  req.System,
		Prompt:  req.Prompt,
		Stream:  &stream,
		Options: BuildOptions(req.Options),
	}, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", m.mapError(ctx, req.Model, err)
	}
	return sb.String(), nil
}

// ListModels returns the models installed on the server.
func (m *Model) ListModels(ctx context.Context) ([]locallm.ModelInfo, error) {
	resp, err := m.client.List(ctx)
	if err != nil {
		return nil, m.mapError(ctx, "", err)
	}

	models := make([]locallm.ModelInfo, 0, len(resp.Models))
	for _, model := range resp.Models {
		name := model.Name
		if name == "" {
			name = model.Model
		}
		models = append(models, locallm.ModelInfo{
			Name:       name,
			Size:       model.Size,
			ModifiedAt: model.ModifiedAt,
		})
	}
	return models, nil
}

// BuildOptions converts model options to Ollama's option map. Zero values
// are left to the server defaults.
func BuildOptions(opts locallm.ModelOptions) map[string]any {
	options := map[string]any{"temperature": opts.Temperature}
	if opts.NumCtx > 0 {
		options["num_ctx"] = opts.NumCtx
	}
	if opts.NumPredict > 0 {
		options["num_predict"] = opts.NumPredict
	}
	return options
}

// mapError converts transport failures to application errors. Cancellation
// and errors returned by callbacks pass through unchanged.
func (m *Model) mapError(ctx context.Context, model string, err error) error {
	if err == nil || ctx.Err() != nil {
		return err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return locallm.Errorf(locallm.EUNAVAILABLE, "cannot reach ollama at %s: is `ollama serve` running?", m.host)
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound {
			return locallm.Errorf(locallm.ENOTFOUND, "model %q not found: run `ollama pull %s`", model, model)
		}
		return fmt.Errorf("ollama: %w", err)
	}
	return err
}
