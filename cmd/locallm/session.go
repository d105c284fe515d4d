package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/agent"
	"github.com/fwojciec/locallm/fs"
	"github.com/fwojciec/locallm/index"
)

// loadOrBuildMap returns the knowledge map of deps.Dir, building it first
// when it is missing or malformed.
func loadOrBuildMap(ctx context.Context, deps *Dependencies) (*locallm.KnowledgeMap, error) {
	styles := NewStyles(deps.Stderr)

	if deps.Locks != nil && deps.Locks(deps.Dir).HeldByOtherProcess() {
		fmt.Fprintln(deps.Stderr, paint(styles.Warning, "A knowledge map rebuild is in progress in another process. Answers may be based on an outdated map."))
	}

	m, err := deps.Maps.LoadKnowledgeMap(ctx, deps.Dir)
	switch locallm.ErrorCode(err) {
	case "":
		return m, nil
	case locallm.ENOTFOUND:
		fmt.Fprintln(deps.Stderr, paint(styles.Warning, "No knowledge map found. Building one now..."))
	case locallm.EINVALID:
		fmt.Fprintf(deps.Stderr, "%s\n", paint(styles.Warning, "Knowledge map is unreadable ("+locallm.ErrorMessage(err)+"). Rebuilding..."))
	default:
		return nil, err
	}

	m, res, err := deps.Builder.Rebuild(ctx, deps.Dir, locallm.BuildModeFull, true, progressPrinter(deps.Stderr, styles))
	if err != nil {
		return nil, fmt.Errorf("building knowledge map: %w", err)
	}
	printBuildResult(deps.Stderr, styles, res)
	return m, nil
}

// warnDrift reports documents changed since m was built and returns a
// watcher primed with the current state of the directory.
func warnDrift(deps *Dependencies, m *locallm.KnowledgeMap) *fs.Watcher {
	w := fs.NewWatcherFromMap(m, mapBuiltAt(deps, m))
	if cs := w.CheckForChanges(); !cs.Empty() {
		printDrift(deps.Stderr, NewStyles(deps.Stderr), cs)
	}
	return w
}

// mapBuiltAt returns the modification time of the map file of m, or the zero
// time if it cannot be stat'ed.
func mapBuiltAt(deps *Dependencies, m *locallm.KnowledgeMap) time.Time {
	filename := locallm.DefaultKnowledgeMapFilename
	if deps.Config != nil && deps.Config.KnowledgeMap.Filename != "" {
		filename = deps.Config.KnowledgeMap.Filename
	}
	info, err := os.Stat(filepath.Join(m.Directory, filename))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func printDrift(w io.Writer, styles *Styles, cs locallm.ChangeSet) {
	fmt.Fprintln(w, paint(styles.Warning, "Document changes detected:\n"+fs.Summary(cs)))
	fmt.Fprintln(w, paint(styles.Muted, "Consider running 'locallm rebuild' to update the knowledge base."))
	fmt.Fprintln(w)
}

// progressPrinter reports build progress one document per line.
func progressPrinter(w io.Writer, styles *Styles) index.ProgressFunc {
	return func(event index.ProgressEvent) {
		switch event.Type {
		case index.ProgressStarted:
			fmt.Fprintf(w, "Found %d document(s)\n", event.Total)
		case index.ProgressIndexed:
			fmt.Fprintf(w, "[%d/%d] %s\n", event.Completed, event.Total, filepath.Base(event.Path))
		case index.ProgressSkipped:
			fmt.Fprintf(w, "[%d/%d] %s\n", event.Completed, event.Total,
				paint(styles.Warning, "skipped "+filepath.Base(event.Path)+": "+locallm.ErrorMessage(event.Error)))
		}
	}
}

func printBuildResult(w io.Writer, styles *Styles, res *index.Result) {
	fmt.Fprintln(w, paint(styles.Success, fmt.Sprintf("Indexed %d document(s)", res.Indexed)))
	if res.Skipped > 0 {
		fmt.Fprintf(w, "Skipped: %d\n", res.Skipped)
	}
	if res.Fallbacks > 0 {
		fmt.Fprintf(w, "Descriptions generated without the model: %d\n", res.Fallbacks)
	}
	fmt.Fprintln(w)
}

// newAgent returns an agent over deps.Dir configured from deps.Config.
func newAgent(deps *Dependencies, m *locallm.KnowledgeMap) *agent.Agent {
	session := agent.NewSession(deps.ModelName)
	if deps.Config != nil {
		session.Temperature = deps.Config.Ollama.Temperature
		session.MaxIterations = deps.Config.Agent.MaxIterations
	}

	a := agent.New(deps.Model, agent.NewToolbox(deps.Dir, deps.Reader), session)
	a.Map = m
	a.Logger = deps.Logger
	if deps.Config != nil && len(deps.Config.Agent.IncompletePhrases) > 0 {
		a.IncompletePhrases = deps.Config.Agent.IncompletePhrases
	}
	return a
}

// recordExchange stores a finished turn. History is best effort: a failure is
// logged and otherwise ignored.
func recordExchange(ctx context.Context, deps *Dependencies, model, question string, answer *locallm.Answer) {
	if deps.Exchanges == nil || answer == nil {
		return
	}
	err := deps.Exchanges.CreateExchange(ctx, &locallm.Exchange{
		Directory: deps.Dir,
		Model:     model,
		Question:  question,
		Answer:    answer.Text,
		Status:    answer.Status,
		Steps:     len(answer.Steps),
	})
	if err != nil && deps.Logger != nil {
		deps.Logger.Warn("recording question history", "err", err)
	}
}
