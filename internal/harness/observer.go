package harness

import (
	"log/slog"

	"github.com/buckleypaul/boardcheck/internal/boards"
)

// Observer is notified around every step. It cannot change the run.
type Observer interface {
	StepStarted(step Step, board *boards.Board, args []string)
	StepFinished(result StepResult)
}

type multiObserver []Observer

func (m multiObserver) StepStarted(step Step, board *boards.Board, args []string) {
	for _, o := range m {
		o.StepStarted(step, board, args)
	}
}

func (m multiObserver) StepFinished(result StepResult) {
	for _, o := range m {
		o.StepFinished(result)
	}
}

// Observers combines observers, ignoring nils.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}

// LogObserver logs steps through slog.
type LogObserver struct{}

func (LogObserver) StepStarted(step Step, board *boards.Board, args []string) {
	attrs := []any{"step", step, "args", args}
	if board != nil {
		attrs = append(attrs, "board", board.String())
	}
	slog.Info("step started", attrs...)
}

func (LogObserver) StepFinished(sr StepResult) {
	attrs := []any{"step", sr.Step, "exit_code", sr.Result.ExitCode, "duration", sr.Result.Duration}
	if sr.Board != nil {
		attrs = append(attrs, "board", sr.Board.String())
	}
	if err := sr.Err(); err != nil {
		slog.Error("step failed", append(attrs, "err", err, "output", sr.Result.Output)...)
		return
	}
	slog.Info("step passed", attrs...)
}
