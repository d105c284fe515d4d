// Package agent answers questions about a document folder with a bounded
// tool-calling loop against a language model.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/locallm"
)

// Streaming limits for a single model turn.
const (
	DefaultMaxFragments = 2000
	DefaultMaxLength    = 16000

	chatNumCtx = 8192
)

// Inline markers appended when a streaming limit is hit.
const (
	TruncatedFragments = "\n\n[Response truncated: exceeded maximum chunks]"
	TruncatedLength    = "\n\n[Response truncated: exceeded maximum length]"
)

// errLimit stops consumption of a stream that hit a limit.
var errLimit = errors.New("stream limit reached")

// Ensure Agent implements locallm.Asker at compile time.
var _ locallm.Asker = (*Agent)(nil)

// Agent implements locallm.Asker by letting the model read documents
// through a Toolbox until it produces an answer.
type Agent struct {
	Model   locallm.Model
	Tools   *Toolbox
	Session *Session

	// Map is the knowledge map shown to the model. May be nil.
	Map *locallm.KnowledgeMap

	MaxFragments      int
	MaxLength         int
	IncompletePhrases []string

	Logger *slog.Logger
}

// New returns an agent with default limits.
func New(model locallm.Model, tools *Toolbox, session *Session) *Agent {
	return &Agent{
		Model:             model,
		Tools:             tools,
		Session:           session,
		MaxFragments:      DefaultMaxFragments,
		MaxLength:         DefaultMaxLength,
		IncompletePhrases: DefaultIncompletePhrases,
	}
}

func (a *Agent) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// Ask answers question. Each iteration streams one model turn; a tool
// directive is executed and its observation fed back, a final answer or a
// turn without a directive ends the loop. Answered turns are added to the
// session. Cancelling ctx returns an interrupted answer with EINTERRUPTED.
func (a *Agent) Ask(ctx context.Context, question string, fn locallm.FragmentFunc) (*locallm.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, locallm.Errorf(locallm.EINVALID, "question required")
	}

	system, err := SystemPrompt(a.Map, question)
	if err != nil {
		return nil, err
	}
	messages := []locallm.Message{{Role: locallm.RoleSystem, Content: system}}
	messages = append(messages, a.Session.Messages()...)
	messages = append(messages, locallm.Message{Role: locallm.RoleUser, Content: question})

	maxIterations := a.Session.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	answer := &locallm.Answer{}
	var utterance string
	for i := range maxIterations {
		answer.Iterations = i + 1
		a.logger().Debug("agent iteration", "iteration", i+1)

		utterance, err = a.generate(ctx, messages, fn)
		if ctx.Err() != nil {
			answer.Text = utterance
			answer.Status = locallm.StatusInterrupted
			return answer, locallm.Errorf(locallm.EINTERRUPTED, "generation interrupted")
		}
		if err != nil {
			if utterance == "" {
				return a.degrade(ctx, answer, question, err)
			}
			a.logger().Warn("generation failed, keeping partial response", "err", err)
		}
		messages = append(messages, locallm.Message{Role: locallm.RoleAssistant, Content: utterance})

		if d, ok := ParseDirective(utterance); ok {
			if i == maxIterations-1 {
				break
			}
			observation := a.Tools.Dispatch(ctx, d.Action, d.Input)
			a.logger().Debug("tool call", "action", d.Action, "input", d.Input)
			answer.Steps = append(answer.Steps, locallm.Step{
				Action:      d.Action,
				Input:       d.Input,
				Observation: observation,
			})
			messages = append(messages, locallm.Message{Role: locallm.RoleUser, Content: "Observation: " + observation})
			continue
		}

		text, ok := FinalAnswer(utterance)
		if !ok {
			text = utterance
		}
		answer.Text = text
		answer.Status = locallm.StatusAnswered
		a.Session.AddExchange(question, text)
		return answer, nil
	}

	answer.Text = utterance
	answer.Status = locallm.StatusMaxIterationsExceeded
	if IsIncomplete(utterance, a.IncompletePhrases) {
		answer.Fallback = a.Tools.KeywordFallback(ctx, question)
		answer.Text = utterance + "\n\n" + answer.Fallback
	}
	return answer, nil
}

// degrade builds the answer for a turn whose generation failed before
// producing any text. An unreachable service is also returned as an error.
func (a *Agent) degrade(ctx context.Context, answer *locallm.Answer, question string, err error) (*locallm.Answer, error) {
	a.logger().Warn("generation failed", "err", err)

	answer.Fallback = a.Tools.KeywordFallback(ctx, question)
	answer.Text = fmt.Sprintf("Error during response generation: %s\n\n%s", locallm.ErrorMessage(err), answer.Fallback)
	answer.Status = locallm.StatusErrored
	if locallm.ErrorCode(err) == locallm.EUNAVAILABLE {
		return answer, err
	}
	return answer, nil
}

// Chat streams a plain conversational reply without tools. The exchange is
// added to the session only when the reply completes.
func (a *Agent) Chat(ctx context.Context, message string, fn locallm.FragmentFunc) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", locallm.Errorf(locallm.EINVALID, "message required")
	}

	messages := []locallm.Message{{Role: locallm.RoleSystem, Content: chatPrompt}}
	messages = append(messages, a.Session.Messages()...)
	messages = append(messages, locallm.Message{Role: locallm.RoleUser, Content: message})

	reply, err := a.generate(ctx, messages, fn)
	if ctx.Err() != nil {
		return reply, locallm.Errorf(locallm.EINTERRUPTED, "generation interrupted")
	}
	if err != nil {
		return "", err
	}
	a.Session.AddExchange(message, reply)
	return reply, nil
}

// generate streams one model turn and returns the accumulated text. The
// fragment and length limits truncate the turn with an inline marker.
func (a *Agent) generate(ctx context.Context, messages []locallm.Message, fn locallm.FragmentFunc) (string, error) {
	maxFragments := a.MaxFragments
	if maxFragments <= 0 {
		maxFragments = DefaultMaxFragments
	}
	maxLength := a.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	var sb strings.Builder
	var fragments, length int
	var marker string
	err := a.Model.Chat(ctx, locallm.ChatRequest{
		Model:    a.Session.model(),
		Messages: messages,
		Options: locallm.ModelOptions{
			Temperature: a.Session.Temperature,
			NumCtx:      chatNumCtx,
		},
	}, func(fragment string) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		fragments++
		switch {
		case fragments > maxFragments:
			marker = TruncatedFragments
			return errLimit
		case length > maxLength:
			marker = TruncatedLength
			return errLimit
		}

		fragment = strings.ToValidUTF8(fragment, "")
		sb.WriteString(fragment)
		length += utf8.RuneCountInString(fragment)
		if fn != nil && fragment != "" {
			return fn(fragment)
		}
		return nil
	})

	if errors.Is(err, errLimit) {
		sb.WriteString(marker)
		if fn != nil {
			_ = fn(marker)
		}
		err = nil
	}
	return sb.String(), err
}
