package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/cli"
	"github.com/buckleypaul/boardcheck/internal/harness"
	"github.com/buckleypaul/boardcheck/internal/serial"
	"github.com/buckleypaul/boardcheck/internal/store"
)

// outputTail is how many lines of a failed command's output are shown.
const outputTail = 20

// OutcomeBadge renders the outcome as a colored badge.
func OutcomeBadge(o harness.Outcome) string {
	label := strings.ToUpper(o.String())
	switch o {
	case harness.Passed:
		return SuccessBadge(label)
	case harness.Failed:
		return ErrorBadge(label)
	default:
		return WarningBadge(label)
	}
}

// StepLine renders one finished step.
func StepLine(sr harness.StepResult) string {
	mark := PassStyle.Render("✓")
	if !sr.Result.Success() {
		mark = FailStyle.Render("✗")
	}
	return fmt.Sprintf("%s %s %s", mark, stepLabel(sr.Step, sr.Board), DimStyle.Render(round(sr.Result.Duration).String()))
}

// PendingLine renders a step that is still running; spin is the spinner frame.
func PendingLine(spin string, step harness.Step, board *boards.Board) string {
	return fmt.Sprintf("%s %s", PendingStyle.Render(spin), stepLabel(step, board))
}

func stepLabel(step harness.Step, board *boards.Board) string {
	label := BoldStyle.Render(fmt.Sprintf("%-12s", step))
	if board != nil {
		label += " " + AccentStyle.Render(board.String())
	}
	return label
}

// RenderReport renders a finished run for the terminal.
func RenderReport(rep harness.Report, width int) string {
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(Title("Upload check"))
	b.WriteString("\n")

	for _, sr := range rep.Steps {
		b.WriteString(StepLine(sr))
		b.WriteString("\n")
	}

	if failed, ok := rep.FailedStep(); ok {
		b.WriteString("\n")
		title := commandLine(failed.Result)
		b.WriteString(Panel(title, tail(failed.Result.Output, outputTail), width, 0, true))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(OutcomeBadge(rep.Outcome))
	if rep.Reason != "" {
		b.WriteString(" " + rep.Reason)
	}
	b.WriteString(DimStyle.Render(fmt.Sprintf("  (%d boards, %s)", len(rep.Boards), round(rep.Duration))))
	b.WriteString("\n")
	return b.String()
}

// RenderBoards renders a board table.
func RenderBoards(list []boards.Board) string {
	if len(list) == 0 {
		return DimStyle.Render("No boards found.") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", BoldStyle.Render(fmt.Sprintf("%-20s %-30s %-16s %s", "ADDRESS", "FQBN", "CORE", "NAME")))
	for _, bd := range list {
		fmt.Fprintf(&b, "%-20s %-30s %-16s %s\n", bd.Address, bd.FQBN, bd.Core, bd.Name)
	}
	return b.String()
}

// RenderPorts renders a serial port table.
func RenderPorts(ports []serial.PortInfo) string {
	if len(ports) == 0 {
		return DimStyle.Render("No serial ports found.") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", BoldStyle.Render(fmt.Sprintf("%-20s %-5s %-6s %-6s %s", "PORT", "USB", "VID", "PID", "PRODUCT")))
	for _, p := range ports {
		usb := "no"
		if p.IsUSB {
			usb = "yes"
		}
		fmt.Fprintf(&b, "%-20s %-5s %-6s %-6s %s\n", p.Name, usb, p.VID, p.PID, p.Product)
	}
	return b.String()
}

// RenderHistory renders stored runs, newest first.
func RenderHistory(runs []store.RunRecord) string {
	if len(runs) == 0 {
		return DimStyle.Render("No runs recorded.") + "\n"
	}
	var b strings.Builder
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		status := PassStyle.Render(r.Outcome)
		switch r.Outcome {
		case harness.Failed.String():
			status = FailStyle.Render(r.Outcome)
		case harness.Skipped.String():
			status = PendingStyle.Render(r.Outcome)
		}
		fmt.Fprintf(&b, "%s  %-8s %8s  %s", r.Timestamp.Local().Format("2006-01-02 15:04:05"), status, r.Duration, strings.Join(r.Boards, ", "))
		if r.FailedStep != "" {
			fmt.Fprintf(&b, "  %s", DimStyle.Render("at "+r.FailedStep))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func round(d time.Duration) time.Duration {
	return d.Round(10 * time.Millisecond)
}

// commandLine renders a result as the shell command that produced it.
func commandLine(res cli.Result) string {
	words := res.Args
	if res.Binary != "" {
		words = append([]string{filepath.Base(res.Binary)}, res.Args...)
	}
	return "$ " + strings.Join(words, " ")
}
