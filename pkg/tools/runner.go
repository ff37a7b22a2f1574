// Package tools shells out to optional Python analysis tools (radon,
// bandit, pylint, safety). Every tool is best-effort: a missing or
// failing tool degrades the analysis instead of aborting it, and the
// outcome is recorded so the report can state which tools contributed.
package tools

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/avelaro/vitals/pkg/config"
)

// Status classifies how a tool invocation ended.
type Status string

const (
	StatusOK        Status = "ok"
	StatusMissing   Status = "not_installed"
	StatusFailed    Status = "failed"
	StatusTimeout   Status = "timeout"
	StatusMalformed Status = "malformed_output"
)

// Outcome is the result of one tool invocation.
type Outcome struct {
	Tool   string
	Status Status
	Reason string // empty when Status is StatusOK
}

// Runner executes external tools with per-tool timeouts.
type Runner struct {
	timeout     time.Duration // radon, safety
	slowTimeout time.Duration // bandit, pylint walk the whole tree
}

// New builds a Runner from the tool configuration.
func New(cfg config.ToolConfig) *Runner {
	r := &Runner{
		timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
		slowTimeout: time.Duration(cfg.SlowTimeoutSecs) * time.Second,
	}
	if r.timeout <= 0 {
		r.timeout = 30 * time.Second
	}
	if r.slowTimeout <= 0 {
		r.slowTimeout = 60 * time.Second
	}
	return r
}

// run executes the command and captures stdout. Linters conventionally
// exit non-zero when they find issues, so a non-zero exit with output on
// stdout still counts as success.
func (r *Runner) run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) ([]byte, Outcome) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	err := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded {
		return nil, Outcome{Tool: name, Status: StatusTimeout, Reason: "timed out"}
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, Outcome{Tool: name, Status: StatusMissing, Reason: "not installed"}
		}
		if stdout.Len() > 0 {
			return stdout.Bytes(), Outcome{Tool: name, Status: StatusOK}
		}
		return nil, Outcome{Tool: name, Status: StatusFailed, Reason: "non-zero exit code"}
	}
	if stdout.Len() == 0 {
		return nil, Outcome{Tool: name, Status: StatusFailed, Reason: "no output"}
	}
	return stdout.Bytes(), Outcome{Tool: name, Status: StatusOK}
}
