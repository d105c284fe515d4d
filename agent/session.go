package agent

import (
	"sync"

	"github.com/fwojciec/locallm"
)

// Session defaults.
const (
	DefaultTemperature   = 0.3
	DefaultMaxIterations = 10
)

// Session is the conversation state carried between turns.
type Session struct {
	Model         string
	Temperature   float64
	MaxIterations int

	mu       sync.Mutex
	messages []locallm.Message
}

// NewSession returns an empty session for model with default sampling.
func NewSession(model string) *Session {
	if model == "" {
		model = locallm.DefaultModel
	}
	return &Session{
		Model:         model,
		Temperature:   DefaultTemperature,
		MaxIterations: DefaultMaxIterations,
	}
}

// Messages returns a copy of the conversation history.
func (s *Session) Messages() []locallm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]locallm.Message(nil), s.messages...)
}

// AddExchange records a completed question and answer.
func (s *Session) AddExchange(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages,
		locallm.Message{Role: locallm.RoleUser, Content: question},
		locallm.Message{Role: locallm.RoleAssistant, Content: answer},
	)
}

// Len returns the number of messages in the history.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Clear forgets the conversation history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// SetModel switches the model used for later turns.
func (s *Session) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = model
}

func (s *Session) model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Model
}
