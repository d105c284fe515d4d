package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/index"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Dir is the absolute path of the directory being queried.
	Dir     string
	Config  *Config
	Logger  *slog.Logger
	Verbose bool

	Model     locallm.Model
	ModelName string
	Reader    locallm.DocumentReader
	Cache     locallm.Cache
	Maps      locallm.KnowledgeMapService
	Builder   *index.Builder
	Locks     func(dir string) locallm.Locker
	Exchanges locallm.ExchangeService

	Interrupts *Interrupts
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Dir      string `short:"C" default:"." help:"Directory of documents to work in"`
	Model    string `short:"m" env:"LOCALLM_MODEL" help:"Model to use (overrides config)"`
	Provider string `env:"LOCALLM_PROVIDER" help:"Model provider: ollama or gemini (overrides config)"`
	Host     string `env:"OLLAMA_HOST" help:"Ollama server address (overrides config)"`
	Config   string `env:"LOCALLM_CONFIG" help:"Config file path"`
	Verbose  bool   `short:"v" help:"Show reasoning steps and debug logs"`

	Ask     AskCmd     `cmd:"" help:"Ask the knowledge base a question"`
	Chat    ChatCmd    `cmd:"" help:"Start an interactive chat session"`
	List    ListCmd    `cmd:"" help:"List all documents in the knowledge base, including saved web pages"`
	Search  SearchCmd  `cmd:"" help:"Search for a keyword in documents"`
	Rebuild RebuildCmd `cmd:"" help:"Rebuild the knowledge map for the directory"`
	Models  ModelsCmd  `cmd:"" help:"List available models"`
	History HistoryCmd `cmd:"" help:"Show previously asked questions"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question []string `arg:"" help:"Question to ask"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	NoTools bool `help:"Converse without reading documents"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Keyword string `arg:"" help:"Keyword or regular expression to search for"`
	File    string `short:"f" help:"Search in specific file only"`
}

// RebuildCmd is the "rebuild" subcommand.
type RebuildCmd struct {
	Fast bool `help:"Fast mode: the model reads only the abstract or table of contents"`
	Wait bool `help:"Wait for a rebuild running in another process to finish"`
}

// ModelsCmd is the "models" subcommand.
type ModelsCmd struct{}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int  `short:"n" default:"20" help:"Number of entries to show"`
	All   bool `help:"Show questions asked in every directory"`
}
