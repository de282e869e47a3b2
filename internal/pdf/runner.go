package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes an external tool and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ToolError describes a failed external tool invocation.
type ToolError struct {
	Tool     string
	Missing  bool
	TimedOut bool
	Output   string
	Err      error
}

func (e *ToolError) Error() string {
	switch {
	case e.Missing:
		return fmt.Sprintf("%s not found in PATH", e.Tool)
	case e.TimedOut:
		return fmt.Sprintf("%s timed out", e.Tool)
	case e.Output != "":
		return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Output)
	default:
		return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// waitDelay bounds how long Run waits for output after the tool is killed.
const waitDelay = 2 * time.Second

// ExecRunner runs tools as subprocesses, each bounded by Timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner creates a runner with the given per-invocation timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Run implements Runner. Parent cancellation is returned as ctx.Err() so
// callers can tell it apart from a tool failure.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	// Helpers such as gs inherit the output pipe; kill the whole group and
	// stop waiting on the pipe shortly after.
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil {
		return out.Bytes(), nil
	}

	if ctx.Err() != nil {
		return out.Bytes(), ctx.Err()
	}

	toolErr := &ToolError{
		Tool:   name,
		Output: strings.TrimSpace(out.String()),
		Err:    err,
	}
	switch {
	case errors.Is(err, exec.ErrNotFound):
		toolErr.Missing = true
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		toolErr.TimedOut = true
	}
	return out.Bytes(), toolErr
}
