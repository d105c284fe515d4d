package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/etree"
	"github.com/fwojciec/locallm/fs"
	"github.com/fwojciec/locallm/gemini"
	"github.com/fwojciec/locallm/goquery"
	"github.com/fwojciec/locallm/htmltomarkdown"
	"github.com/fwojciec/locallm/index"
	"github.com/fwojciec/locallm/lock"
	"github.com/fwojciec/locallm/lru"
	"github.com/fwojciec/locallm/ollama"
	"github.com/fwojciec/locallm/pdf"
	"github.com/fwojciec/locallm/readability"
	locslog "github.com/fwojciec/locallm/slog"
	"github.com/fwojciec/locallm/sqlite"
	"github.com/fwojciec/locallm/trafilatura"
	"github.com/fwojciec/locallm/yaml"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	go HandleInterrupts(signals, m.Interrupts, os.Stderr, os.Exit)

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database holding question history.
	DB *sqlite.DB

	// Stdin feeds the chat loop. Defaults to os.Stdin.
	Stdin io.Reader

	// Interrupts receives Ctrl+C from main.
	Interrupts *Interrupts

	// Model replaces the configured provider for end-to-end testing.
	Model locallm.Model

	// Services for end-to-end testing.
	ExchangeService locallm.ExchangeService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     os.Getenv("LOCALLM_DB"),
		Stdin:      os.Stdin,
		Interrupts: &Interrupts{},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:        ctx,
		Stdin:      m.Stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		Interrupts: m.Interrupts,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("locallm"),
		kong.Description("Ask questions about a folder of documents using a local language model. Indexes PDF, Word (.docx), text and Markdown files, plus saved web pages (.html, .htm)."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Without a command the program starts a chat session.
	if len(args) == 0 {
		args = []string{"chat"}
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, cfgPath, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}
	if err := cli.Apply(cfg); err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	dir, err := filepath.Abs(cli.Dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", cli.Dir, err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return locallm.Errorf(locallm.ENOTFOUND, "directory %s not found", dir)
	}

	deps.Dir = dir
	deps.Config = cfg
	deps.Logger = logger
	deps.Verbose = cli.Verbose

	deps.Cache = lru.NewCache(cfg.CacheMaxSize(), cfg.Cache.MaxItems)
	deps.Reader = locslog.NewLoggingDocumentReader(
		fs.NewCachedReader(fs.NewDocumentReader(pdf.NewReader(), etree.NewReader(), newHTMLReader()), deps.Cache),
		logger,
	)
	deps.Maps = locslog.NewLoggingKnowledgeMapService(yaml.NewKnowledgeMapService(cfg.KnowledgeMap.Filename), logger)
	deps.Locks = func(dir string) locallm.Locker {
		return lock.New(dir, cfg.LockTimeout())
	}

	switch cmd {
	case "ask", "chat", "rebuild", "models":
		model, err := m.openModel(ctx, cfg, stderr)
		if err != nil {
			return err
		}
		deps.Model = locslog.NewLoggingModel(model, logger)
		deps.ModelName = cfg.ModelName()
	}

	deps.Builder = &index.Builder{
		Reader:      deps.Reader,
		Model:       deps.Model,
		Maps:        deps.Maps,
		ModelName:   deps.ModelName,
		Filename:    cfg.KnowledgeMap.Filename,
		Locks:       deps.Locks,
		Concurrency: cfg.KnowledgeMap.Concurrency,
		Logger:      logger,
	}

	switch cmd {
	case "ask", "chat", "history":
		if err := m.openHistory(cfg); err != nil {
			if cmd == "history" {
				fmt.Fprintf(stderr, "Hint: Set LOCALLM_DB to use a different database path\n")
				return err
			}
			logger.Warn("question history disabled", "err", err)
		}
		defer m.Close()
		deps.Exchanges = m.ExchangeService
	}

	return kongCtx.Run(deps)
}

// Apply overrides cfg with the values given on the command line.
func (c *CLI) Apply(cfg *Config) error {
	if c.Provider != "" {
		cfg.Provider = c.Provider
	}
	switch cfg.Provider {
	case "", ProviderOllama:
		cfg.Provider = ProviderOllama
	case ProviderGemini:
	default:
		return locallm.Errorf(locallm.EINVALID, "unknown provider %q: use ollama or gemini", cfg.Provider)
	}

	if c.Model != "" {
		if cfg.Provider == ProviderGemini {
			cfg.Gemini.Model = c.Model
		} else {
			cfg.Ollama.Model = c.Model
		}
	}
	if c.Host != "" {
		cfg.Ollama.Host = c.Host
	}
	return nil
}

// newHTMLReader reads saved web pages, trying trafilatura, then readability,
// then plain landmark selectors.
func newHTMLReader() *htmltomarkdown.Reader {
	return htmltomarkdown.NewReader(
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
		goquery.NewExtractor(),
	)
}

// openModel connects to the configured provider unless a model was injected.
func (m *Main) openModel(ctx context.Context, cfg *Config, stderr io.Writer) (locallm.Model, error) {
	if m.Model != nil {
		return m.Model, nil
	}

	if cfg.Provider == ProviderGemini {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewModel(client), nil
	}

	client, err := ollama.NewClient(cfg.Ollama.Host, cfg.Timeout())
	if err != nil {
		return nil, err
	}
	return ollama.NewModel(client, cfg.Ollama.Host), nil
}

// openHistory opens the question history database unless a service was
// injected.
func (m *Main) openHistory(cfg *Config) error {
	if m.ExchangeService != nil {
		return nil
	}

	path := m.DBPath
	if path == "" {
		path = cfg.History.DB
	}
	if path == "" {
		path = defaultDBPath()
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.ExchangeService = sqlite.NewExchangeService(m.DB)
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "locallm.db"
	}
	return filepath.Join(home, ".locallm", "history.db")
}
