package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/locallm"
)

// stepInputWidth truncates tool inputs in the verbose step listing.
const stepInputWidth = 60

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	question := strings.TrimSpace(strings.Join(c.Question, " "))
	if question == "" {
		return locallm.Errorf(locallm.EINVALID, "question required")
	}
	styles := NewStyles(deps.Stdout)

	fmt.Fprintf(deps.Stdout, "%s %s\n\n", paint(styles.Title, "Question:"), question)

	ctx, done := deps.Interrupts.Begin(deps.Ctx)
	defer done()

	m, err := loadOrBuildMap(ctx, deps)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(deps.Stderr, paint(styles.Warning, "Initialization cancelled"))
			return nil
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", locallm.ErrorMessage(err))
		return err
	}
	warnDrift(deps, m)
	fmt.Fprintln(deps.Stderr, paint(styles.Muted, fmt.Sprintf("Loaded %d documents", m.TotalDocuments)))

	a := newAgent(deps, m)

	var stream locallm.FragmentFunc
	var renderer *StreamRenderer
	if deps.Verbose {
		renderer = NewStreamRenderer(deps.Stderr, NewStyles(deps.Stderr))
		stream = renderer.Write
	}

	answer, err := a.Ask(ctx, question, stream)
	if renderer != nil {
		_ = renderer.Flush()
		fmt.Fprintln(deps.Stderr)
	}
	if locallm.ErrorCode(err) == locallm.EINTERRUPTED {
		fmt.Fprintln(deps.Stderr, paint(styles.Warning, "\nInterrupted."))
		return nil
	}
	if answer == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locallm.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, paint(styles.Success, "Answer:"))
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, answer.Text)
	fmt.Fprintln(deps.Stdout)

	if answer.Status == locallm.StatusMaxIterationsExceeded {
		fmt.Fprintln(deps.Stderr, paint(styles.Warning, fmt.Sprintf("Stopped after %d reasoning steps without a final answer.", answer.Iterations)))
	}
	if deps.Verbose && len(answer.Steps) > 0 {
		printSteps(deps, styles, answer.Steps)
	}

	recordExchange(deps.Ctx, deps, a.Session.Model, question, answer)

	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: make sure the model service is running (ollama serve)")
		return err
	}
	return nil
}

func printSteps(deps *Dependencies, styles *Styles, steps []locallm.Step) {
	fmt.Fprintln(deps.Stdout, paint(styles.Label, "Reasoning steps:"))
	for i, step := range steps {
		input := step.Input
		if r := []rune(input); len(r) > stepInputWidth {
			input = string(r[:stepInputWidth]) + "..."
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s  %s\n", i+1, step.Action, input)
	}
	fmt.Fprintln(deps.Stdout)
}
