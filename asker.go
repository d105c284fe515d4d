package locallm

import "context"

// Status is the terminal state of a question-answering turn.
type Status string

// Turn statuses.
const (
	StatusAnswered              Status = "answered"
	StatusErrored               Status = "errored"
	StatusMaxIterationsExceeded Status = "max_iterations_exceeded"
	StatusInterrupted           Status = "interrupted"
)

// Step records one tool call made while answering.
type Step struct {
	Action      string `json:"action"`
	Input       string `json:"input"`
	Observation string `json:"observation"`
}

// Answer is the outcome of a question-answering turn.
type Answer struct {
	// Text is the user-visible answer, including any appended fallback.
	Text string

	// Fallback holds the keyword-search text appended to Text, if any.
	Fallback string

	Steps      []Step
	Status     Status
	Iterations int
}

// Asker answers natural language questions about a document folder.
type Asker interface {
	// Ask answers question, streaming model output through fn when non-nil.
	// Returns EINTERRUPTED together with a partial answer when ctx is
	// cancelled during generation.
	Ask(ctx context.Context, question string, fn FragmentFunc) (*Answer, error)
}
