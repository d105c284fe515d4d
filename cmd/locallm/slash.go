package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/locallm"
)

// slashCommands lists the chat commands shown by /help.
var slashCommands = [][2]string{
	{"/help", "Show this help message"},
	{"/list", "List all documents in the knowledge base"},
	{"/search <keyword>", "Search for keyword in documents"},
	{"/models", "List available models"},
	{"/model <name>", "Switch to a different model"},
	{"/rebuild", "Rebuild knowledge map"},
	{"/rebuild --fast", "Rebuild knowledge map (fast mode)"},
	{"/clear", "Clear conversation history"},
	{"/stats", "Show cache and session statistics"},
	{"exit or quit", "Exit chat mode"},
}

// command runs a slash command typed in the chat loop.
func (s *chat) command(input string) {
	name, args, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	args = strings.TrimSpace(args)
	out := s.deps.Stdout

	fmt.Fprintln(out)
	switch strings.ToLower(name) {
	case "help":
		s.help()
	case "list":
		s.list()
	case "search":
		s.search(args)
	case "models":
		s.models()
	case "model":
		s.switchModel(args)
	case "rebuild":
		s.rebuild(strings.Contains(args, "--fast"))
	case "clear":
		s.agent.Session.Clear()
		fmt.Fprintln(out, paint(s.styles.Success, "Conversation history cleared"))
	case "stats":
		s.stats()
	case "exit", "quit":
		fmt.Fprintln(out, paint(s.styles.Warning, "Use 'exit' or 'quit' without slash to exit chat mode"))
	default:
		fmt.Fprintln(out, paint(s.styles.Warning, "Unknown command: /"+name))
		fmt.Fprintln(out, paint(s.styles.Muted, "Type /help to see available commands"))
	}
	fmt.Fprintln(out)
}

func (s *chat) help() {
	out := s.deps.Stdout
	fmt.Fprintln(out, paint(s.styles.Title, "Available Slash Commands"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, cmd := range slashCommands {
		fmt.Fprintf(w, "  %s\t%s\n", cmd[0], cmd[1])
	}
	_ = w.Flush()
}

func (s *chat) list() {
	out := s.deps.Stdout
	docs := s.agent.Map.Documents
	fmt.Fprintln(out, paint(s.styles.Title, fmt.Sprintf("Found %d document(s):", len(docs))))
	fmt.Fprintln(out)
	for _, doc := range docs {
		fmt.Fprintf(out, "  • %s\n", paint(s.styles.Label, doc.Title))
		fmt.Fprintf(out, "    %s\n", paint(s.styles.Muted, doc.Path))
		if len(doc.KeyConcepts) > 0 {
			concepts := doc.KeyConcepts[:min(5, len(doc.KeyConcepts))]
			fmt.Fprintf(out, "    %s %s\n", paint(s.styles.Warning, "Key concepts:"), strings.Join(concepts, ", "))
		}
		fmt.Fprintln(out)
	}
}

func (s *chat) search(keyword string) {
	out := s.deps.Stdout
	if keyword == "" {
		fmt.Fprintln(out, paint(s.styles.Warning, "Usage: /search <keyword>"))
		return
	}

	fmt.Fprintln(out, paint(s.styles.Title, "Searching for: "+keyword))
	fmt.Fprintln(out)
	found, err := searchDocuments(s.deps.Ctx, out, s.styles, s.agent.Tools, s.deps.Dir, keyword)
	if err != nil {
		fmt.Fprintln(out, paint(s.styles.Error, "Error: "+locallm.ErrorMessage(err)))
		return
	}
	if found == 0 {
		fmt.Fprintln(out, paint(s.styles.Muted, "No results found"))
	}
}

func (s *chat) models() {
	out := s.deps.Stdout
	models, err := s.deps.Model.ListModels(s.deps.Ctx)
	if err != nil {
		fmt.Fprintln(out, paint(s.styles.Error, "Error listing models: "+locallm.ErrorMessage(err)))
		return
	}
	fmt.Fprintln(out, paint(s.styles.Title, "Available Models:"))
	_ = printModels(out, models, s.agent.Session.Model)
	fmt.Fprintln(out)
	fmt.Fprintln(out, paint(s.styles.Muted, "Use /model <name> to switch model in chat, or use -m flag: locallm chat -m <model_name>"))
}

func (s *chat) switchModel(name string) {
	out := s.deps.Stdout
	if name == "" {
		fmt.Fprintln(out, paint(s.styles.Warning, "Usage: /model <model_name>"))
		fmt.Fprintln(out, paint(s.styles.Muted, "Use /models to see available models"))
		return
	}
	old := s.agent.Session.Model
	s.agent.Session.SetModel(name)
	fmt.Fprintln(out, paint(s.styles.Success, fmt.Sprintf("Switched from %s to %s", old, name)))
}

func (s *chat) rebuild(fast bool) {
	out := s.deps.Stdout
	mode := locallm.BuildModeFull
	label := "Rebuilding knowledge map..."
	if fast {
		mode = locallm.BuildModeFast
		label = "Rebuilding knowledge map (fast mode)..."
	}
	fmt.Fprintln(out, paint(s.styles.Title, label))

	ctx, done := s.deps.Interrupts.Begin(s.deps.Ctx)
	defer done()

	m, res, err := s.deps.Builder.Rebuild(ctx, s.deps.Dir, mode, false, progressPrinter(out, s.styles))
	if err != nil {
		fmt.Fprintln(out, paint(s.styles.Error, "Error: "+locallm.ErrorMessage(err)))
		return
	}
	printBuildResult(out, s.styles, res)

	s.agent.Map = m
	// Resync so documents indexed by this rebuild are not reported as drift.
	s.watcher.CheckForChanges()
	s.takeDrift()
	fmt.Fprintln(out, paint(s.styles.Muted, fmt.Sprintf("Loaded %d documents", m.TotalDocuments)))
}

func (s *chat) stats() {
	out := s.deps.Stdout
	fmt.Fprintln(out, paint(s.styles.Title, "Statistics"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Model\t%s\n", s.agent.Session.Model)
	fmt.Fprintf(w, "  Documents\t%d\n", s.agent.Map.TotalDocuments)
	fmt.Fprintf(w, "  Conversation turns\t%d\n", s.agent.Session.Len()/2)
	if s.deps.Cache != nil {
		st := s.deps.Cache.Stats()
		fmt.Fprintf(w, "  Cached documents\t%d / %d\n", st.Items, st.MaxItems)
		fmt.Fprintf(w, "  Cache size\t%.2f / %.0f MB\n", float64(st.Size)/(1<<20), float64(st.MaxSize)/(1<<20))
		fmt.Fprintf(w, "  Cache hits\t%d\n", st.Hits)
		fmt.Fprintf(w, "  Cache misses\t%d\n", st.Misses)
		fmt.Fprintf(w, "  Hit rate\t%.1f%%\n", st.HitRate()*100)
	}
	_ = w.Flush()
}
