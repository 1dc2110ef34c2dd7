package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/buckleypaul/boardcheck/internal/app"
	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/ci"
	"github.com/buckleypaul/boardcheck/internal/cli"
	"github.com/buckleypaul/boardcheck/internal/harness"
	"github.com/buckleypaul/boardcheck/internal/serial"
	"github.com/buckleypaul/boardcheck/internal/store"
	"github.com/buckleypaul/boardcheck/internal/ui"
)

type runFlags struct {
	sketchName string
	timeout    string
	preflight  bool
	force      bool
	tui        bool
	noHistory  bool
}

func newRunCmd() *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the upload check on every attached board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, &rf)
		},
	}

	cmd.Flags().StringVar(&rf.sketchName, "sketch-name", "", fmt.Sprintf("Name of the sketch created in the data dir (default %q)", harness.DefaultSketchName))
	cmd.Flags().StringVar(&rf.timeout, "timeout", "", "Per-command timeout, e.g. 5m (default: wait forever)")
	cmd.Flags().BoolVar(&rf.preflight, "preflight", false, "Probe each board's serial port before uploading")
	cmd.Flags().BoolVar(&rf.force, "force", false, "Run even when a CI environment is detected")
	cmd.Flags().BoolVar(&rf.tui, "tui", isTerminal(), "Show live progress")
	cmd.Flags().BoolVar(&rf.noHistory, "no-history", false, "Do not record this run")
	return cmd
}

func runCheck(cmd *cobra.Command, rf *runFlags) error {
	ctx := cmd.Context()

	cfg := loadConfig()
	if rf.sketchName != "" {
		cfg.SketchName = rf.sketchName
	}
	if rf.timeout != "" {
		cfg.CommandTimeout = rf.timeout
	}
	if cmd.Flags().Changed("preflight") {
		cfg.Preflight = &rf.preflight
	}
	if rf.noHistory {
		no := false
		cfg.History = &no
	}
	if _, err := cfg.Timeout(); err != nil {
		return errWithCode(err, exitError)
	}

	detector := ci.Detector(os.LookupEnv)
	if rf.force {
		detector = func() bool { return false }
	}
	if name := ci.Match(os.LookupEnv); name != "" {
		slog.Info("CI environment detected", "var", name, "force", rf.force)
	}

	f := harness.Fixtures{CIDetector: detector}
	var runner cli.Runner = cli.DefaultRunner{}
	if !harness.ShouldSkip(f) {
		dir, err := dataDir()
		if err != nil {
			return errWithCode(err, exitError)
		}
		f.DataDir = dir

		r, err := newRunner(cfg, dir)
		if err != nil {
			return errWithCode(err, exitError)
		}
		runner = r

		f.DetectedBoards, err = harness.ResolveBoards(ctx, runner, cfg.BoardsFile)
		if err != nil {
			return errWithCode(err, exitError)
		}
		warnMissingPorts(f.DetectedBoards)
	}

	hopts := harness.Options{SketchName: cfg.SketchName, Observer: harness.LogObserver{}}
	if cfg.PreflightEnabled() {
		hopts.Preflight = serial.NewProber(cfg.ProbeBaudRate).Probe
	}
	h := harness.New(runner, hopts)

	start := time.Now()
	var rep harness.Report
	if rf.tui && !opts.JSON && !opts.Verbose {
		var err error
		rep, err = app.Run(ctx, h, f)
		if err != nil {
			return errWithCode(fmt.Errorf("progress view: %w", err), exitError)
		}
	} else {
		rep = h.Run(ctx, f)
	}

	rec := newRunRecord(rep, start)
	if cfg.HistoryEnabled() && rep.Outcome != harness.Skipped {
		rec = saveRun(rec, rep)
	}

	if opts.JSON {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return errWithCode(fmt.Errorf("marshaling json output: %w", err), exitError)
		}
		fmt.Println(string(data))
	} else if !rf.tui || opts.Verbose {
		fmt.Print(ui.RenderReport(rep, terminalWidth()))
	}

	if rep.Outcome == harness.Failed {
		return errWithCode(nil, exitFailed)
	}
	return nil
}

// warnMissingPorts logs boards whose serial address is not currently enumerated.
func warnMissingPorts(list []boards.Board) {
	ports, err := serial.ListPorts()
	if err != nil {
		slog.Debug("cannot enumerate serial ports", "err", err)
		return
	}
	_, missing := boards.FilterPresent(list, ports)
	for _, b := range missing {
		slog.Warn("board address not among serial ports", "board", b.String())
	}
}

func newRunRecord(rep harness.Report, start time.Time) store.RunRecord {
	rec := store.RunRecord{
		Timestamp: start,
		Outcome:   rep.Outcome.String(),
		Reason:    rep.Reason,
		Duration:  rep.Duration.Round(time.Millisecond).String(),
		Boards:    []string{},
	}
	for _, b := range rep.Boards {
		rec.Boards = append(rec.Boards, b.String())
	}
	for _, sr := range rep.Steps {
		sRec := store.StepRecord{
			Step:     sr.Step.String(),
			Args:     sr.Result.Args,
			ExitCode: sr.Result.ExitCode,
			Success:  sr.Result.Success(),
			Duration: sr.Result.Duration.Round(time.Millisecond).String(),
		}
		if sr.Board != nil {
			sRec.Board = sr.Board.String()
		}
		rec.Steps = append(rec.Steps, sRec)
	}
	if failed, ok := rep.FailedStep(); ok {
		rec.FailedStep = failed.Step.String()
	}
	return rec
}

// saveRun records the run and its failure log, returning rec with LogFile
// set when a log was written.
func saveRun(rec store.RunRecord, rep harness.Report) store.RunRecord {
	st, err := openStore()
	if err != nil {
		slog.Warn("history disabled", "err", err)
		return rec
	}
	if failed, ok := rep.FailedStep(); ok && failed.Result.Output != "" {
		path, err := st.WriteLog(rec.Timestamp, failed.Step.String(), failed.Result.Output)
		if err != nil {
			slog.Warn("cannot save failure log", "err", err)
		} else {
			rec.LogFile = path
		}
	}
	if err := st.AddRun(rec); err != nil {
		slog.Warn("cannot record run", "err", err)
	}
	return rec
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
