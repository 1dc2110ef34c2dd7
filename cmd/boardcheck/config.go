package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/buckleypaul/boardcheck/internal/config"
)

type configFlags struct {
	global        bool
	sketchName    string
	timeout       string
	preflight     bool
	probeBaudRate int
	history       bool
}

func newConfigCmd() *cobra.Command {
	var cf configFlags
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective config, or persist settings given as flags",
		Long: `Without setting flags, config prints the merged configuration.

With setting flags it updates one config layer: the data dir's
.boardcheck/config.json (requires --data-dir), or the global
~/.config/boardcheck/config.json with --global. --cli and --boards are
persisted as well when given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed := func(name string) bool {
				return cmd.Flags().Changed(name)
			}
			if !anyChanged(changed, "sketch-name", "timeout", "preflight", "probe-baud-rate", "history", "cli", "boards") {
				return printJSON(loadConfig())
			}
			path, err := writeConfig(&cf, changed)
			if err != nil {
				return errWithCode(err, exitError)
			}
			slog.Info("saved config", "path", path)
			if !opts.JSON {
				fmt.Println(path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cf.global, "global", false, "Write the global config instead of the data dir's")
	cmd.Flags().StringVar(&cf.sketchName, "sketch-name", "", "Sketch name")
	cmd.Flags().StringVar(&cf.timeout, "timeout", "", "Per-command timeout, e.g. 5m")
	cmd.Flags().BoolVar(&cf.preflight, "preflight", false, "Probe serial ports before uploading")
	cmd.Flags().IntVar(&cf.probeBaudRate, "probe-baud-rate", 0, "Baud rate used to open a port when probing")
	cmd.Flags().BoolVar(&cf.history, "history", true, "Record runs")
	return cmd
}

func anyChanged(changed func(string) bool, names ...string) bool {
	for _, n := range names {
		if changed(n) {
			return true
		}
	}
	return false
}

// writeConfig applies the changed flags on top of one config layer and saves
// it. Settings not given as flags keep their stored values.
func writeConfig(cf *configFlags, changed func(string) bool) (string, error) {
	path, err := config.Path(opts.DataDir, cf.global)
	if err != nil {
		return "", fmt.Errorf("config: %w (use --data-dir or --global)", err)
	}
	cfg, err := config.ReadFile(path)
	if err != nil {
		return "", err
	}

	if changed("cli") {
		cfg.CLIPath = opts.CLIPath
	}
	if changed("boards") {
		cfg.BoardsFile = opts.BoardsFile
	}
	if changed("sketch-name") {
		cfg.SketchName = cf.sketchName
	}
	if changed("timeout") {
		cfg.CommandTimeout = cf.timeout
		if _, err := cfg.Timeout(); err != nil {
			return "", err
		}
	}
	if changed("preflight") {
		cfg.Preflight = &cf.preflight
	}
	if changed("probe-baud-rate") {
		if cf.probeBaudRate <= 0 {
			return "", fmt.Errorf("probe-baud-rate: must be positive, got %d", cf.probeBaudRate)
		}
		cfg.ProbeBaudRate = cf.probeBaudRate
	}
	if changed("history") {
		cfg.History = &cf.history
	}

	if err := config.Save(cfg, opts.DataDir, cf.global); err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	return path, nil
}
