// Package harness drives the external CLI through the hardware upload
// check: one index update, then install, sketch, compile and upload for each
// attached board, stopping at the first command that fails.
package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/ci"
	"github.com/buckleypaul/boardcheck/internal/cli"
)

// DefaultSketchName is the sketch directory created inside the data dir.
const DefaultSketchName = "foo"

// Step identifies one command in the upload sequence.
type Step int

const (
	StepUpdateIndex Step = iota
	StepCoreInstall
	StepSketchNew
	StepCompile
	StepUpload
)

func (s Step) String() string {
	switch s {
	case StepUpdateIndex:
		return "update-index"
	case StepCoreInstall:
		return "core-install"
	case StepSketchNew:
		return "sketch-new"
	case StepCompile:
		return "compile"
	case StepUpload:
		return "upload"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Fixtures is everything a run needs from its environment.
type Fixtures struct {
	DataDir        string
	DetectedBoards []boards.Board
	CIDetector     func() bool // nil uses ci.Detect
}

// ShouldSkip reports whether the fixtures describe an environment without
// hardware, in which case no command may run.
func ShouldSkip(f Fixtures) bool {
	if f.CIDetector == nil {
		return ci.Detect()
	}
	return f.CIDetector()
}

// Options tune a Harness.
type Options struct {
	SketchName string

	// Preflight, when set, is called with a board's address before upload.
	// An error fails the upload step without running the CLI.
	Preflight func(address string) error

	Observer Observer
}

// Harness runs the upload sequence against a cli.Runner.
type Harness struct {
	runner cli.Runner
	opts   Options
}

// New creates a Harness.
func New(r cli.Runner, opts Options) *Harness {
	if opts.SketchName == "" {
		opts.SketchName = DefaultSketchName
	}
	return &Harness{runner: r, opts: opts}
}

// WithObserver returns a copy of h that also notifies o.
func (h *Harness) WithObserver(o Observer) *Harness {
	c := *h
	c.opts.Observer = Observers(h.opts.Observer, o)
	return &c
}

// SketchPath returns where the sketch is created for a given data dir.
func (h *Harness) SketchPath(dataDir string) string {
	return filepath.Join(dataDir, h.opts.SketchName)
}

type plannedStep struct {
	step Step
	args []string
}

// plan returns the per-board command sequence in execution order.
func plan(b boards.Board, core, sketch string) []plannedStep {
	return []plannedStep{
		{StepCoreInstall, cli.CoreInstallArgs(core)},
		{StepSketchNew, cli.SketchNewArgs(sketch)},
		{StepCompile, cli.CompileArgs(b.FQBN, sketch)},
		{StepUpload, cli.UploadArgs(b.FQBN, b.Address, sketch)},
	}
}

// Run executes the check. It never retries and never cleans up what the CLI
// created; the returned report says which step, if any, failed.
func (h *Harness) Run(ctx context.Context, f Fixtures) Report {
	start := time.Now()
	rep := Report{Boards: f.DetectedBoards}

	if ShouldSkip(f) {
		rep.Outcome = Skipped
		rep.Reason = "running on CI: no serial ports available"
		rep.Duration = time.Since(start)
		return rep
	}

	if !h.exec(ctx, &rep, StepUpdateIndex, nil, cli.UpdateIndexArgs()) {
		return rep.finish(start)
	}

	sketch := h.SketchPath(f.DataDir)
	for i := range f.DetectedBoards {
		b := f.DetectedBoards[i]

		core, err := b.CoreID()
		if err != nil {
			h.fail(&rep, StepCoreInstall, &b, nil, err)
			return rep.finish(start)
		}

		for _, ps := range plan(b, core, sketch) {
			if ps.step == StepUpload && h.opts.Preflight != nil {
				if err := h.opts.Preflight(b.Address); err != nil {
					h.fail(&rep, ps.step, &b, ps.args, fmt.Errorf("preflight %s: %w", b.Address, err))
					return rep.finish(start)
				}
			}
			if !h.exec(ctx, &rep, ps.step, &b, ps.args) {
				return rep.finish(start)
			}
		}
	}

	rep.Outcome = Passed
	return rep.finish(start)
}

// exec runs one step and records it. It returns false when the run must stop.
func (h *Harness) exec(ctx context.Context, rep *Report, step Step, b *boards.Board, args []string) bool {
	if h.opts.Observer != nil {
		h.opts.Observer.StepStarted(step, b, args)
	}
	res := h.runner.Run(ctx, args...)
	if res.Args == nil {
		res.Args = args
	}
	return h.record(rep, StepResult{Step: step, Board: b, Result: res})
}

// fail records a step that failed before the CLI was invoked.
func (h *Harness) fail(rep *Report, step Step, b *boards.Board, args []string, err error) {
	if h.opts.Observer != nil {
		h.opts.Observer.StepStarted(step, b, args)
	}
	h.record(rep, StepResult{Step: step, Board: b, Result: cli.Result{Args: args, ExitCode: -1, Err: err}})
}

func (h *Harness) record(rep *Report, sr StepResult) bool {
	rep.Steps = append(rep.Steps, sr)
	if h.opts.Observer != nil {
		h.opts.Observer.StepFinished(sr)
	}
	if !sr.Result.Success() {
		rep.Outcome = Failed
		rep.Reason = sr.Err().Error()
		return false
	}
	return true
}
