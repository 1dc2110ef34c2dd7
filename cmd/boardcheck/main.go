// Package main implements boardcheck, a hardware-in-the-loop smoke test that
// drives arduino-cli through index update, core install, sketch creation,
// compilation and upload for every attached board.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Options holds the flags shared by all subcommands.
type Options struct {
	Verbose    bool   // enables debug logging on stderr
	JSON       bool   // JSON output and JSON logs
	CLIPath    string // arduino-cli binary
	DataDir    string // scratch directory for the CLI's data and the sketch
	BoardsFile string // YAML board fixtures instead of detection
}

const (
	exitFailed = 1
	exitError  = 2
)

var (
	// Set via ldflags during build.
	version   = "dev"
	gitCommit = "unknown"
)

var opts Options

func main() {
	rootCmd := &cobra.Command{
		Use:   "boardcheck",
		Short: "Compile and upload a sketch to every attached board",
		Long: `boardcheck runs the arduino-cli upload smoke test against real hardware.

It refreshes the core index once, then for each detected board installs its
core, creates a sketch, compiles it and uploads it. The first failing command
stops the run. On CI machines the run is skipped.`,
		Example: `  boardcheck run                          # Detect boards and run the check
  boardcheck run --boards boards.yaml     # Use a board fixture file
  boardcheck run --timeout 5m --preflight # Bound hung uploads, probe ports first
  boardcheck boards                       # List detected boards
  boardcheck boards --save boards.yaml    # Save detected boards as a fixture file
  boardcheck config --global --timeout 5m # Persist a setting
  boardcheck history                      # Show previous runs`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("boardcheck version %s\n  commit: %s\n", version, gitCommit))

	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&opts.CLIPath, "cli", "", "Path to the arduino-cli binary (default from config, then PATH)")
	rootCmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "Data directory for the CLI and the sketch (default: a new temporary directory)")
	rootCmd.PersistentFlags().StringVar(&opts.BoardsFile, "boards", "", "YAML file listing boards instead of detecting them")

	rootCmd.AddCommand(newRunCmd(), newBoardsCmd(), newPortsCmd(), newHistoryCmd(), newConfigCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		var cErr *codedError
		if errors.As(err, &cErr) {
			os.Exit(cErr.code)
		}
		os.Exit(exitError)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	// Disable logger unless verbose flag is set.
	slog.SetDefault(slog.New(slog.DiscardHandler))
	if opts.Verbose {
		handlerOpts := &slog.HandlerOptions{Level: slog.LevelDebug}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOpts)
		if opts.JSON {
			handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
		}
		slog.SetDefault(slog.New(handler))
	}
	return nil
}

func errWithCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}
