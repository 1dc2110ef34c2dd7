package harness

import (
	"fmt"
	"strings"
	"time"

	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/cli"
)

// Outcome is the final state of a run.
type Outcome int

const (
	Skipped Outcome = iota
	Passed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// StepResult is one executed step. Board is nil for the index update.
type StepResult struct {
	Step   Step
	Board  *boards.Board
	Result cli.Result
}

// Err describes a failed step; it returns nil for a successful one.
func (sr StepResult) Err() error {
	if sr.Result.Success() {
		return nil
	}
	return &StepError{Step: sr.Step, Board: sr.Board, Result: sr.Result}
}

// StepError reports the step that ended a failed run.
type StepError struct {
	Step   Step
	Board  *boards.Board
	Result cli.Result
}

func (e *StepError) Error() string {
	var b strings.Builder
	b.WriteString(e.Step.String())
	if e.Board != nil {
		fmt.Fprintf(&b, " for %s", e.Board)
	}
	b.WriteString(" failed: ")
	if e.Result.Err != nil {
		b.WriteString(e.Result.Err.Error())
	} else {
		fmt.Fprintf(&b, "exit status %d", e.Result.ExitCode)
	}
	return b.String()
}

func (e *StepError) Unwrap() error {
	return e.Result.Err
}

// Report summarises a run.
type Report struct {
	Outcome  Outcome
	Reason   string
	Boards   []boards.Board
	Steps    []StepResult
	Duration time.Duration
}

func (r Report) finish(start time.Time) Report {
	r.Duration = time.Since(start)
	return r
}

// FailedStep returns the step that failed the run.
func (r Report) FailedStep() (StepResult, bool) {
	if r.Outcome != Failed || len(r.Steps) == 0 {
		return StepResult{}, false
	}
	return r.Steps[len(r.Steps)-1], true
}

// Err returns the failing step's error, or nil unless the run failed.
func (r Report) Err() error {
	sr, ok := r.FailedStep()
	if !ok {
		return nil
	}
	return sr.Err()
}
