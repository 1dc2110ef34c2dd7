// Package app shows a live view of an upload check while it runs.
package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/harness"
	"github.com/buckleypaul/boardcheck/internal/ui"
)

// StepStartedMsg is sent when the harness starts a step.
type StepStartedMsg struct {
	Step  harness.Step
	Board *boards.Board
	Args  []string
}

// StepFinishedMsg is sent when a step completes.
type StepFinishedMsg struct {
	Result harness.StepResult
}

// RunFinishedMsg is sent once with the final report.
type RunFinishedMsg struct {
	Report harness.Report
}

type Model struct {
	spinner  spinner.Model
	steps    []harness.StepResult
	current  *StepStartedMsg
	report   *harness.Report
	cancel   context.CancelFunc
	aborting bool
	width    int
}

// New creates the progress model. cancel aborts the run on the first
// abort key press; a second press quits without waiting.
func New(cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.PendingStyle
	return Model{spinner: s, cancel: cancel}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if !key.Matches(msg, GlobalKeys.Abort) {
			return m, nil
		}
		if m.aborting {
			return m, tea.Quit
		}
		m.aborting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil

	case StepStartedMsg:
		m.current = &msg
		return m, nil

	case StepFinishedMsg:
		m.steps = append(m.steps, msg.Result)
		m.current = nil
		return m, nil

	case RunFinishedMsg:
		m.report = &msg.Report
		m.current = nil
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.report != nil {
		return ui.RenderReport(*m.report, m.width)
	}

	var b strings.Builder
	b.WriteString(ui.Title("Upload check"))
	b.WriteString("\n")
	for _, sr := range m.steps {
		b.WriteString(ui.StepLine(sr))
		b.WriteString("\n")
	}
	if m.current != nil {
		b.WriteString(ui.PendingLine(m.spinner.View(), m.current.Step, m.current.Board))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.aborting {
		b.WriteString(ui.DimStyle.Render("aborting, waiting for the current command to stop..."))
	} else {
		b.WriteString(ui.StatusKey("q", "abort"))
	}
	b.WriteString("\n")
	return b.String()
}

// Report returns the final report once the run has finished.
func (m Model) Report() (harness.Report, bool) {
	if m.report == nil {
		return harness.Report{}, false
	}
	return *m.report, true
}

// programObserver forwards harness events into a running program.
type programObserver struct {
	p *tea.Program
}

func (o programObserver) StepStarted(step harness.Step, board *boards.Board, args []string) {
	o.p.Send(StepStartedMsg{Step: step, Board: board, Args: args})
}

func (o programObserver) StepFinished(sr harness.StepResult) {
	o.p.Send(StepFinishedMsg{Result: sr})
}

// Run executes h in the background while showing its progress, and returns
// the report once both the run and the program have finished.
func Run(ctx context.Context, h *harness.Harness, f harness.Fixtures, opts ...tea.ProgramOption) (harness.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(cancel), opts...)

	done := make(chan harness.Report, 1)
	go func() {
		rep := h.WithObserver(programObserver{p: p}).Run(ctx, f)
		done <- rep
		p.Send(RunFinishedMsg{Report: rep})
	}()

	_, err := p.Run()
	cancel()
	rep := <-done
	return rep, err
}
