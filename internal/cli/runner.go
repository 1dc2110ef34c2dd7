package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

// DefaultBinary is the CLI executable looked up on PATH when none is configured.
const DefaultBinary = "arduino-cli"

// DefaultWaitDelay bounds how long Run waits for output pipes to close after
// the command's context is done. Uploaders started by the CLI may inherit
// the pipes and outlive it.
const DefaultWaitDelay = 5 * time.Second

// Result is the outcome of a single CLI invocation.
type Result struct {
	Binary   string
	Args     []string
	Output   string // stdout and stderr interleaved
	Stdout   string
	ExitCode int
	Duration time.Duration
	Err      error // set when the process could not start or was cancelled
}

// Success reports whether the process ran and exited with status zero.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner executes the CLI with a structured argument list.
type Runner interface {
	Run(ctx context.Context, args ...string) Result
}

// DefaultRunner runs a real CLI binary as a subprocess.
type DefaultRunner struct {
	Binary  string
	Env     *Env
	Timeout time.Duration // per command; zero waits forever

	// WaitDelay overrides DefaultWaitDelay when positive.
	WaitDelay time.Duration
}

// Run executes the binary, waits for it to exit and captures its output.
func (r DefaultRunner) Run(ctx context.Context, args ...string) Result {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, bin, args...)
	r.Env.apply(cmd)
	cmd.WaitDelay = DefaultWaitDelay
	if r.WaitDelay > 0 {
		cmd.WaitDelay = r.WaitDelay
	}

	var stdout bytes.Buffer
	combined := &lockedBuffer{}
	cmd.Stdout = io.MultiWriter(&stdout, combined)
	cmd.Stderr = combined

	err := cmd.Run()
	res := Result{
		Binary:   bin,
		Args:     append([]string(nil), args...),
		Output:   combined.String(),
		Stdout:   stdout.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			res.ExitCode = -1
			res.Err = fmt.Errorf("%s: %w", bin, ctx.Err())
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrWaitDelay):
			// Exited cleanly while a child still held the output pipes.
			res.ExitCode = cmd.ProcessState.ExitCode()
		default:
			res.ExitCode = -1
			res.Err = fmt.Errorf("%s: %w", bin, err)
		}
	}

	slog.Debug("cli command finished",
		"binary", bin,
		"args", args,
		"exit_code", res.ExitCode,
		"duration", res.Duration,
		"err", res.Err)
	return res
}

// Capture runs a command and returns its stdout, or an error carrying the
// combined output when the command does not succeed.
func Capture(ctx context.Context, r Runner, args ...string) (string, error) {
	res := r.Run(ctx, args...)
	if res.Err != nil {
		return res.Stdout, res.Err
	}
	if res.ExitCode != 0 {
		return res.Stdout, fmt.Errorf("%v: exit status %d: %s", args, res.ExitCode, bytes.TrimSpace([]byte(res.Output)))
	}
	return res.Stdout, nil
}

// lockedBuffer lets stdout and stderr copiers share one buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
