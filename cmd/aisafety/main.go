package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/diogo-cruz/aisafety"
	"github.com/diogo-cruz/aisafety/crawl"
	"github.com/diogo-cruz/aisafety/fs"
	"github.com/diogo-cruz/aisafety/goquery"
	aishttp "github.com/diogo-cruz/aisafety/http"
	aislog "github.com/diogo-cruz/aisafety/slog"
	"github.com/diogo-cruz/aisafety/yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher retrieves pages. Defaults to an HTTP fetcher built from the
	// configured timeout. Set before calling Run().
	Fetcher aisafety.Fetcher

	// Registry resolves publishers. Defaults to goquery.DefaultRegistry.
	Registry aisafety.AdapterRegistry

	// Clock stamps records and metadata. Defaults to the wall clock.
	Clock clock.Clock
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Publisher string `arg:"" optional:"" help:"Publisher name, host or URL (default: every publisher)"`

	OutputDir string        `short:"o" name:"output-dir" help:"Directory for output files"`
	Config    string        `short:"c" env:"AISAFETY_CONFIG" help:"YAML config file"`
	Timeout   time.Duration `short:"t" help:"HTTP request timeout (e.g. 30s)"`
	Delay     time.Duration `help:"Politeness delay for every publisher (e.g. 2s; 0 keeps each publisher's own)"`
	MaxPages  int           `name:"max-pages" help:"Listing pages walked per section"`
	Parallel  int           `short:"p" help:"Publishers crawled concurrently"`
	Retries   int           `help:"Extra attempts for a failed request"`
	LogLevel  string        `name:"log-level" help:"One of debug, info, warn, error"`
	List      bool          `short:"l" help:"List supported publishers and exit"`
	Discover  bool          `short:"d" help:"Print content URLs without scraping"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("aisafety"),
		kong.Description("Scrape AI safety publishers into JSON documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := cli.config(setFlags(kctx))
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cfg.LogLevel)

	registry := m.Registry
	if registry == nil {
		registry = goquery.DefaultRegistry()
	}
	registry = aislog.NewLoggingRegistry(registry, logger)

	if cli.List {
		for _, name := range registry.List() {
			a := registry.Get(name)
			fmt.Fprintf(stdout, "%-10s %s\n", name, a.BaseURL())
		}
		return nil
	}

	adapters, err := selectAdapters(registry, cli.Publisher)
	if err != nil {
		return err
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = aishttp.NewFetcher(aishttp.WithTimeout(cfg.Timeout))
	}

	crawler := &crawl.Crawler{
		Fetcher: aislog.NewLoggingFetcher(fetcher, logger),
		Store:   aislog.NewLoggingStore(fs.NewStore(cfg.OutputDir), logger),
		Config:  cfg,
		Clock:   m.Clock,
		Logger:  logger,
	}

	if cli.Discover {
		return discover(ctx, crawler, adapters, stdout)
	}
	return scrape(ctx, crawler, adapters, cfg.Parallel, stdout, stderr)
}

// setFlags returns the names of the flags given on the command line.
func setFlags(kctx *kong.Context) map[string]bool {
	set := make(map[string]bool)
	for _, p := range kctx.Path {
		if p.Flag != nil && !p.Resolved {
			set[p.Flag.Name] = true
		}
	}
	return set
}

// config loads the config file and applies the flags that were given,
// zero values included.
func (c *CLI) config(set map[string]bool) (aisafety.Config, error) {
	cfg, err := yaml.LoadConfig(c.Config)
	if err != nil {
		return cfg, err
	}

	if set["output-dir"] {
		cfg.OutputDir = c.OutputDir
	}
	if set["timeout"] {
		cfg.Timeout = c.Timeout
	}
	if set["delay"] {
		cfg.Delay = c.Delay
	}
	if set["max-pages"] {
		cfg.MaxPages = c.MaxPages
	}
	if set["parallel"] {
		cfg.Parallel = c.Parallel
	}
	if set["retries"] {
		cfg.Retries = c.Retries
	}
	if set["log-level"] {
		cfg.LogLevel = strings.ToLower(c.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// selectAdapters resolves the requested publisher, or returns every
// registered publisher when none was named.
func selectAdapters(registry aisafety.AdapterRegistry, identifier string) ([]aisafety.Adapter, error) {
	if identifier == "" {
		var adapters []aisafety.Adapter
		for _, name := range registry.List() {
			adapters = append(adapters, registry.Get(name))
		}
		return adapters, nil
	}

	a, err := registry.Resolve(identifier)
	if err != nil {
		return nil, fmt.Errorf("%s; supported publishers: %s",
			aisafety.ErrorMessage(err), strings.Join(registry.List(), ", "))
	}
	return []aisafety.Adapter{a}, nil
}

func discover(ctx context.Context, crawler *crawl.Crawler, adapters []aisafety.Adapter, stdout io.Writer) error {
	for _, a := range adapters {
		urls, err := crawler.Discover(ctx, a)
		if err != nil {
			return fmt.Errorf("discover %s: %w", a.Name(), err)
		}
		for _, u := range urls {
			fmt.Fprintln(stdout, u)
		}
	}
	return nil
}

// scrape crawls every adapter, up to parallel at a time. Publishers fail
// independently; an error is returned only when all of them failed.
// maxURLWidth bounds URLs in skip lines.
const maxURLWidth = 80

func scrape(ctx context.Context, crawler *crawl.Crawler, adapters []aisafety.Adapter, parallel int, stdout, stderr io.Writer) error {
	var (
		mu     sync.Mutex
		failed error
		nfail  int
	)
	printf := func(w io.Writer, format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressStarted:
			printf(stdout, "%s: %s: %d urls\n", e.Publisher, e.Section, e.Total)
		case crawl.ProgressFailed:
			printf(stderr, "%s: skip %s: %s\n", e.Publisher, crawl.TruncateURL(e.URL, maxURLWidth), e.Reason)
		case crawl.ProgressFinished:
			printf(stdout, "%s: %s: done (%s)\n", e.Publisher, e.Section, crawl.FormatProgress(e))
		}
	}

	var g errgroup.Group
	g.SetLimit(max(parallel, 1))
	for _, a := range adapters {
		g.Go(func() error {
			printf(stdout, "%s: scraping %s\n", a.Name(), a.BaseURL())
			path, err := crawler.Run(ctx, a, "", progress)
			if err != nil {
				mu.Lock()
				failed = multierror.Append(failed, err)
				nfail++
				mu.Unlock()
				printf(stderr, "%s: failed: %v\n", a.Name(), err)
				return nil
			}
			if info, err := os.Stat(path); err == nil {
				printf(stdout, "%s: saved %s (%s)\n", a.Name(), path, crawl.FormatBytes(info.Size()))
			} else {
				printf(stdout, "%s: saved %s\n", a.Name(), path)
			}
			return nil
		})
	}
	_ = g.Wait()

	if nfail == 0 {
		return nil
	}
	if nfail == len(adapters) {
		return failed
	}
	printf(stderr, "%d of %d publishers failed\n", nfail, len(adapters))
	return nil
}
