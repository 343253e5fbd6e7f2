package localsched

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// ExecResult is the outcome of a finished shell command.
type ExecResult struct {
	Output   []byte
	ExitCode int
	Wall     time.Duration
}

// ExecFunc executes a job command and reports how it exited. It returns an
// error only when the command could not be run to completion.
type ExecFunc func(ctx context.Context, cmd string) (ExecResult, error)

// RunShell runs cmd with `sh -c`, capturing stdout and stderr together.
func RunShell(ctx context.Context, cmd string) (ExecResult, error) {
	c := exec.CommandContext(ctx, "sh", "-c", cmd)

	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out

	start := time.Now()
	err := c.Run()
	res := ExecResult{Output: out.Bytes(), Wall: time.Since(start)}

	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}
