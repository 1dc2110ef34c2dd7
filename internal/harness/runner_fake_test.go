package harness

import (
	"context"
	"strings"

	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/cli"
)

// fakeRunner records every invocation and fails those matched by failOn.
type fakeRunner struct {
	calls  [][]string
	failOn func(args []string) bool
	stdout map[string]string // keyed by joined args
}

func (f *fakeRunner) Run(_ context.Context, args ...string) cli.Result {
	copied := append([]string(nil), args...)
	f.calls = append(f.calls, copied)

	res := cli.Result{Args: copied, Output: "ok"}
	if out, ok := f.stdout[strings.Join(args, " ")]; ok {
		res.Stdout = out
	}
	if f.failOn != nil && f.failOn(copied) {
		res.ExitCode = 1
		res.Output = "Error: " + strings.Join(copied, " ")
	}
	return res
}

func (f *fakeRunner) verbs() []string {
	var out []string
	for _, c := range f.calls {
		verb := c[0]
		if verb == "core" || verb == "sketch" || verb == "board" {
			verb += " " + c[1]
		}
		out = append(out, verb)
	}
	return out
}

func failVerb(verb string) func([]string) bool {
	return func(args []string) bool {
		return strings.HasPrefix(strings.Join(args, " "), verb)
	}
}

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) StepStarted(step Step, board *boards.Board, _ []string) {
	name := "start " + step.String()
	if board != nil {
		name += " " + board.FQBN
	}
	r.events = append(r.events, name)
}

func (r *recordingObserver) StepFinished(sr StepResult) {
	status := "ok"
	if !sr.Result.Success() {
		status = "fail"
	}
	r.events = append(r.events, "finish "+sr.Step.String()+" "+status)
}

func neverCI() bool  { return false }
func alwaysCI() bool { return true }

var (
	uno  = boards.Board{Core: "arduino:avr", FQBN: "arduino:avr:uno", Address: "/dev/ttyACM0"}
	mkr  = boards.Board{Core: "arduino:samd", FQBN: "arduino:samd:mkr1000", Address: "/dev/ttyACM1"}
	mega = boards.Board{FQBN: "arduino:avr:mega", Address: "COM4"}
)
