package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/cli"
	"github.com/buckleypaul/boardcheck/internal/config"
	"github.com/buckleypaul/boardcheck/internal/harness"
)

// withOptions sets the shared flags for one test.
func withOptions(t *testing.T, o Options) {
	t.Helper()
	prev := opts
	opts = o
	t.Cleanup(func() { opts = prev })
}

func changedSet(names ...string) func(string) bool {
	return func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

func TestCodedError(t *testing.T) {
	err := errWithCode(nil, exitFailed)
	require.Equal(t, "", err.Error())

	var cErr *codedError
	require.True(t, errors.As(err, &cErr))
	require.Equal(t, exitFailed, cErr.code)

	inner := errors.New("boom")
	err = errWithCode(inner, exitError)
	require.ErrorIs(t, err, inner)
	require.Equal(t, "boom", err.Error())
}

func TestNewRunRecord(t *testing.T) {
	uno := boards.Board{Core: "arduino:avr", FQBN: "arduino:avr:uno", Address: "/dev/ttyACM0"}
	rep := harness.Report{
		Outcome: harness.Failed,
		Reason:  "compile for arduino:avr:uno@/dev/ttyACM0 failed: exit status 1",
		Boards:  []boards.Board{uno},
		Steps: []harness.StepResult{
			{Step: harness.StepUpdateIndex, Result: cli.Result{Args: []string{"core", "update-index"}, Duration: 1500 * time.Millisecond}},
			{Step: harness.StepCompile, Board: &uno, Result: cli.Result{Args: []string{"compile", "-b", "arduino:avr:uno", "/tmp/foo"}, ExitCode: 1}},
		},
		Duration: 2 * time.Second,
	}
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	rec := newRunRecord(rep, start)

	require.Equal(t, start, rec.Timestamp)
	require.Equal(t, "failed", rec.Outcome)
	require.Equal(t, "2s", rec.Duration)
	require.Equal(t, []string{"arduino:avr:uno@/dev/ttyACM0"}, rec.Boards)
	require.Equal(t, "compile", rec.FailedStep)
	require.Len(t, rec.Steps, 2)
	require.True(t, rec.Steps[0].Success)
	require.Equal(t, "1.5s", rec.Steps[0].Duration)
	require.Empty(t, rec.Steps[0].Board)
	require.False(t, rec.Steps[1].Success)
	require.Equal(t, 1, rec.Steps[1].ExitCode)
	require.Equal(t, "arduino:avr:uno@/dev/ttyACM0", rec.Steps[1].Board)
}

func TestNewRunRecordSkipped(t *testing.T) {
	rec := newRunRecord(harness.Report{Outcome: harness.Skipped, Reason: "running on CI"}, time.Now())

	require.Equal(t, "skipped", rec.Outcome)
	require.Empty(t, rec.Steps)
	require.Empty(t, rec.FailedStep)
	require.NotNil(t, rec.Boards)
}

func TestSaveRunReturnsLogFile(t *testing.T) {
	dir := t.TempDir()
	withOptions(t, Options{DataDir: dir})

	uno := boards.Board{Core: "arduino:avr", FQBN: "arduino:avr:uno", Address: "/dev/ttyACM0"}
	rep := harness.Report{
		Outcome: harness.Failed,
		Boards:  []boards.Board{uno},
		Steps: []harness.StepResult{
			{Step: harness.StepUpload, Board: &uno, Result: cli.Result{Args: []string{"upload"}, ExitCode: 1, Output: "avrdude: timeout\n"}},
		},
	}
	rec := saveRun(newRunRecord(rep, time.Now()), rep)

	require.NotEmpty(t, rec.LogFile)
	data, err := os.ReadFile(rec.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "avrdude: timeout")

	st, err := openStore()
	require.NoError(t, err)
	runs, err := st.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, rec.LogFile, runs[0].LogFile)
}

func TestWriteConfigUpdatesOnlyChangedSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	withOptions(t, Options{DataDir: dir, CLIPath: "/opt/arduino-cli"})

	_, err := writeConfig(&configFlags{sketchName: "blink", timeout: "5m"}, changedSet("sketch-name", "timeout", "cli"))
	require.NoError(t, err)

	path, err := writeConfig(&configFlags{preflight: false}, changedSet("preflight"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, config.DirName, "config.json"), path)

	cfg := config.Load(dir)
	require.Equal(t, "blink", cfg.SketchName)
	require.Equal(t, "/opt/arduino-cli", cfg.CLIPath)
	require.Equal(t, "5m", cfg.CommandTimeout)
	require.NotNil(t, cfg.Preflight)
	require.False(t, cfg.PreflightEnabled())
}

func TestWriteConfigRejectsBadValues(t *testing.T) {
	withOptions(t, Options{DataDir: t.TempDir()})

	_, err := writeConfig(&configFlags{timeout: "soon"}, changedSet("timeout"))
	require.Error(t, err)

	_, err = writeConfig(&configFlags{probeBaudRate: -1}, changedSet("probe-baud-rate"))
	require.Error(t, err)
}

func TestWriteConfigNeedsDataDir(t *testing.T) {
	withOptions(t, Options{})

	_, err := writeConfig(&configFlags{sketchName: "blink"}, changedSet("sketch-name"))
	require.Error(t, err)
}
