package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/agent"
	"github.com/fwojciec/locallm/fs"
	"github.com/fwojciec/locallm/fsnotify"
)

// maxInputLine bounds a single line of chat input.
const maxInputLine = 1 << 20

// chat holds the state of an interactive session.
type chat struct {
	deps    *Dependencies
	styles  *Styles
	agent   *agent.Agent
	watcher *fs.Watcher
	noTools bool

	mu    sync.Mutex
	drift locallm.ChangeSet
}

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	styles := NewStyles(deps.Stdout)
	printWelcome(deps, styles)

	fmt.Fprintln(deps.Stdout, paint(styles.Title, fmt.Sprintf("Initializing AI (%s)...", deps.ModelName)))

	ctx, done := deps.Interrupts.Begin(deps.Ctx)
	m, err := loadOrBuildMap(ctx, deps)
	done()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locallm.ErrorMessage(err))
		return err
	}

	s := &chat{
		deps:    deps,
		styles:  styles,
		agent:   newAgent(deps, m),
		noTools: c.NoTools,
	}
	s.watcher = warnDrift(deps, m)
	fmt.Fprintln(deps.Stdout, paint(styles.Success, fmt.Sprintf("Ready! Chat with %s (%d documents)", deps.ModelName, m.TotalDocuments)))
	fmt.Fprintln(deps.Stdout)

	watchCtx, stopWatching := context.WithCancel(deps.Ctx)
	watchDone := make(chan struct{})
	notifier := fsnotify.NewNotifier(deps.Dir, s.watcher, s.noteDrift)
	notifier.Logger = deps.Logger
	go func() {
		defer close(watchDone)
		if err := notifier.Run(watchCtx); err != nil && deps.Logger != nil {
			deps.Logger.Debug("change notifications unavailable", "err", err)
		}
	}()
	defer func() {
		stopWatching()
		<-watchDone
	}()

	return s.loop()
}

func printWelcome(deps *Dependencies, styles *Styles) {
	fmt.Fprintln(deps.Stdout, paint(styles.Title, "LocalLM - Local Knowledge Base"))
	fmt.Fprintln(deps.Stdout, paint(styles.Muted, "Location: "+deps.Dir))
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, paint(styles.Muted, "Type 'exit' or 'quit' to end the conversation"))
	fmt.Fprintln(deps.Stdout, paint(styles.Muted, "Press Ctrl+C once to interrupt, twice to exit"))
	fmt.Fprintln(deps.Stdout, paint(styles.Muted, "Type '/help' to see available slash commands"))
	fmt.Fprintln(deps.Stdout)
}

// noteDrift records changes reported by the notifier. They are shown before
// the next prompt so they never interleave with a streamed answer.
func (s *chat) noteDrift(cs locallm.ChangeSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drift.Added = append(s.drift.Added, cs.Added...)
	s.drift.Modified = append(s.drift.Modified, cs.Modified...)
	s.drift.Deleted = append(s.drift.Deleted, cs.Deleted...)
}

func (s *chat) takeDrift() locallm.ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.drift
	s.drift = locallm.ChangeSet{}
	return cs
}

func (s *chat) loop() error {
	deps := s.deps
	scanner := bufio.NewScanner(deps.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)

	for {
		if cs := s.takeDrift(); !cs.Empty() {
			printDrift(deps.Stdout, s.styles, cs)
		}

		fmt.Fprint(deps.Stdout, paint(s.styles.Label, "You:")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(deps.Stdout)
			fmt.Fprintln(deps.Stdout, paint(s.styles.Warning, "Goodbye!"))
			return scanner.Err()
		}
		deps.Interrupts.Reset()

		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case isExit(input):
			fmt.Fprintln(deps.Stdout, paint(s.styles.Warning, "Goodbye!"))
			return nil
		case strings.HasPrefix(input, "/"):
			s.command(input)
			continue
		}

		fmt.Fprintln(deps.Stdout)
		s.turn(input)
		fmt.Fprintln(deps.Stdout)
	}
}

func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "bye":
		return true
	}
	return false
}

// turn answers one message, streaming the reply.
func (s *chat) turn(input string) {
	deps := s.deps
	renderer := NewStreamRenderer(deps.Stdout, s.styles)

	ctx, done := deps.Interrupts.Begin(deps.Ctx)
	defer done()

	if s.noTools {
		reply, err := s.agent.Chat(ctx, input, renderer.Write)
		_ = renderer.Flush()
		fmt.Fprintln(deps.Stdout)
		if s.reportError(err) {
			return
		}
		recordExchange(deps.Ctx, deps, s.agent.Session.Model, input, &locallm.Answer{
			Text:   reply,
			Status: locallm.StatusAnswered,
		})
		return
	}

	answer, err := s.agent.Ask(ctx, input, renderer.Write)
	_ = renderer.Flush()
	fmt.Fprintln(deps.Stdout)
	if answer == nil || locallm.ErrorCode(err) == locallm.EINTERRUPTED {
		s.reportError(err)
		return
	}

	switch {
	case !renderer.Wrote() || answer.Status == locallm.StatusErrored:
		fmt.Fprintln(deps.Stdout, answer.Text)
	case answer.Fallback != "":
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, answer.Fallback)
	}
	if answer.Status == locallm.StatusMaxIterationsExceeded {
		fmt.Fprintln(deps.Stdout, paint(s.styles.Warning, fmt.Sprintf("Stopped after %d reasoning steps without a final answer.", answer.Iterations)))
	}
	s.reportError(err)

	recordExchange(deps.Ctx, deps, s.agent.Session.Model, input, answer)
}

// reportError prints err for the user and reports whether there was one.
func (s *chat) reportError(err error) bool {
	switch locallm.ErrorCode(err) {
	case "":
		return false
	case locallm.EINTERRUPTED:
		fmt.Fprintln(s.deps.Stdout, paint(s.styles.Warning, "Interrupted! Press Ctrl+C again to exit."))
	case locallm.EUNAVAILABLE:
		fmt.Fprintln(s.deps.Stdout, paint(s.styles.Error, "Error: "+locallm.ErrorMessage(err)))
		fmt.Fprintln(s.deps.Stdout, paint(s.styles.Muted, "Make sure Ollama is running: ollama serve"))
	default:
		fmt.Fprintln(s.deps.Stdout, paint(s.styles.Error, "Error: "+locallm.ErrorMessage(err)))
	}
	return true
}
