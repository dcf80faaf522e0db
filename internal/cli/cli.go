// Package cli implements the svgtrace command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"github.com/sicmundu/cli-trace/internal/config"
	"github.com/sicmundu/cli-trace/trace"
)

type command struct {
	name, summary string
	// setup registers the flags of the command, and returns the
	// function running it once they are parsed.
	setup func(fs *flag.FlagSet, e *env) func(ctx context.Context) error
}

var commands = map[string]command{
	"live":   {"live", "play the animation in the terminal", setupLive},
	"export": {"export", "write frames as PNG, SVG or a PDF contact sheet", setupExport},
	"html":   {"html", "write a standalone HTML page animated with CSS", setupHTML},
	"info":   {"info", "describe the paths", setupInfo},
	"serve":  {"serve", "serve a live preview over HTTP", setupServe},
}

// env is shared by the commands.
type env struct {
	stdout, stderr io.Writer
	cfg            *config.Config
	in             input
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: svgtrace <command> [flags]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-7s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w, "\nRun 'svgtrace <command> -h' for the flags of a command.")
}

// Run executes the command line args, without the program name,
// and returns the exit code. Interrupts cancel the running command.
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RunContext(ctx, args, stdout, stderr)
}

// RunContext is like Run, with an explicit context.
func RunContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 1
	}
	switch args[0] {
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "svgtrace: unknown command %q\n", args[0])
		usage(stderr)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		return fail(stderr, fmt.Errorf("reading the environment: %w", err))
	}
	e := &env{stdout: stdout, stderr: stderr, cfg: cfg}
	fs := flag.NewFlagSet("svgtrace "+cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	e.in.register(fs, cfg)
	run := cmd.setup(fs, e)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 0 {
		return fail(stderr, fmt.Errorf("unexpected arguments %q", fs.Args()))
	}

	level := slog.LevelWarn
	if e.in.verbose {
		level = slog.LevelDebug
	}
	trace.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer trace.SetLogger(nil)

	if err := run(ctx); err != nil {
		return fail(stderr, err)
	}
	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "svgtrace: %s\n", err)
	return 1
}
