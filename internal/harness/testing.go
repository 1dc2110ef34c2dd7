package harness

import (
	"context"
	"strings"
	"testing"

	"github.com/buckleypaul/boardcheck/internal/ci"
	"github.com/buckleypaul/boardcheck/internal/cli"
)

// SetupOptions configure Setup.
type SetupOptions struct {
	Runner     cli.Runner
	DataDir    string      // defaults to t.TempDir()
	BoardsFile string      // YAML fixture file; empty detects boards with the CLI
	CIDetector func() bool // defaults to ci.Detect
}

// Setup builds fixtures for a hardware test. On CI it returns without
// running any command and without boards, so the run is skipped.
func Setup(ctx context.Context, t testing.TB, opts SetupOptions) Fixtures {
	t.Helper()

	f := Fixtures{DataDir: opts.DataDir, CIDetector: opts.CIDetector}
	if f.DataDir == "" {
		f.DataDir = t.TempDir()
	}
	if f.CIDetector == nil {
		f.CIDetector = ci.Detect
	}
	if ShouldSkip(f) {
		return f
	}

	found, err := ResolveBoards(ctx, opts.Runner, opts.BoardsFile)
	if err != nil {
		t.Fatalf("resolve boards: %v", err)
		return f
	}
	f.DetectedBoards = found
	return f
}

// RunT runs h and reports the outcome through t: skipped runs call t.Skip,
// failed runs call t.Fatalf with the failing command and its output.
func RunT(ctx context.Context, t testing.TB, h *Harness, f Fixtures) Report {
	t.Helper()

	rep := h.Run(ctx, f)
	switch rep.Outcome {
	case Skipped:
		t.Skip(rep.Reason)
	case Failed:
		sr, _ := rep.FailedStep()
		t.Fatalf("%v\n$ %s\n%s", rep.Err(), strings.Join(sr.Result.Args, " "), sr.Result.Output)
	}
	return rep
}
