package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/diogo-cruz/aisafety/json"
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
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Source string `arg:"" help:"Source to filter: anthropic, deepmind, cser or chai"`
	Input  string `short:"i" help:"Input file (default: the source's output file)"`
	Output string `short:"o" help:"Output file (default: <input>_filtered.json)"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(_ context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jsonfilter"),
		kong.Description("Filter a scraped document by date and strip bulky fields"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no source specified; use one of %s", strings.Join(json.SourceNames(), ", "))
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	source, err := json.LookupSource(cli.Source)
	if err != nil {
		return err
	}

	output, summary, err := source.FilterFile(cli.Input, cli.Output)
	if err != nil {
		return err
	}
	for _, line := range summary {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintf(stdout, "saved filtered data to %s\n", output)
	return nil
}
