// Package gemini implements locallm.Model using Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/locallm"
	"google.golang.org/genai"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-2.5-flash"

// Ensure Model implements locallm.Model at compile time.
var _ locallm.Model = (*Model)(nil)

// Model implements locallm.Model using the Gemini API.
type Model struct {
	client *genai.Client
}

// NewModel creates a new Model.
func NewModel(client *genai.Client) *Model {
	return &Model{client: client}
}

// Chat streams a reply to the conversation, passing each text chunk to fn.
func (m *Model) Chat(ctx context.Context, req locallm.ChatRequest, fn locallm.FragmentFunc) error {
	contents, system := BuildContents(req.Messages)
	if len(contents) == 0 {
		return locallm.Errorf(locallm.EINVALID, "at least one user message required")
	}

	stream := m.client.Models.GenerateContentStream(ctx, modelName(req.Model), contents, BuildConfig(system, req.Options))
	for resp, err := range stream {
		if err != nil {
			return err
		}
		if resp == nil {
			continue
		}
		if text := resp.Text(); text != "" {
			if err := fn(text); err != nil {
				return err
			}
		}
	}
	return nil
}

// Generate returns a complete reply to a single prompt.
func (m *Model) Generate(ctx context.Context, req locallm.GenerateRequest) (string, error) {
	if req.Prompt == "" {
		return "", locallm.Errorf(locallm.EINVALID, "prompt required")
	}

	result, err := m.client.Models.GenerateContent(ctx, modelName(req.Model),
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		BuildConfig(req.System, req.Options),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", locallm.Errorf(locallm.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// ListModels returns the first page of models available to the API key.
func (m *Model) ListModels(ctx context.Context) ([]locallm.ModelInfo, error) {
	page, err := m.client.Models.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	models := make([]locallm.ModelInfo, 0, len(page.Items))
	for _, model := range page.Items {
		models = append(models, locallm.ModelInfo{Name: strings.TrimPrefix(model.Name, "models/")})
	}
	return models, nil
}

// BuildContents converts messages to Gemini contents. System messages are
// joined and returned separately for the system instruction; assistant
// turns use the "model" role.
func BuildContents(messages []locallm.Message) ([]*genai.Content, string) {
	var system []string
	var contents []*genai.Content
	for _, msg := range messages {
		role := "user"
		switch msg.Role {
		case locallm.RoleSystem:
			system = append(system, msg.Content)
			continue
		case locallm.RoleAssistant:
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents, strings.Join(system, "\n\n")
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(system string, opts locallm.ModelOptions) *genai.GenerateContentConfig {
	temp := float32(opts.Temperature)
	config := &genai.GenerateContentConfig{Temperature: &temp}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if opts.NumPredict > 0 {
		config.MaxOutputTokens = int32(opts.NumPredict)
	}
	return config
}

func modelName(name string) string {
	if name == "" {
		return DefaultModel
	}
	return name
}
