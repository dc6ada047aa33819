package main

import (
	"context"
	"fmt"
	"io"
	"os"

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
	Input string `arg:"" help:"JSON file to split"`
	Parts int    `short:"n" default:"5" help:"Number of parts"`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(_ context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jsonsplit"),
		kong.Description("Split a JSON document into parts along its longest array"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no input file specified")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	written, chunks, err := json.SplitFile(cli.Input, cli.Parts)
	if err != nil {
		return err
	}
	for i, path := range written {
		fmt.Fprintf(stdout, "created %s with %d items\n", path, chunks[i].Items)
	}
	return nil
}
