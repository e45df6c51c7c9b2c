package runner

// This file contains subprocess execution with captured and mirrored output.

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// ExecOptions controls a single subprocess invocation.
type ExecOptions struct {
	// Silent disables mirroring of the output to the terminal
	Silent bool
}

// ExecResult is the outcome of a subprocess that started.
type ExecResult struct {
	ExitCode int
	Stdout   string // trimmed
	Stderr   string // trimmed
}

// Executor runs external programs. Arguments are passed as a list, never
// through a shell.
type Executor interface {
	// LookPath resolves name to an executable on PATH.
	LookPath(name string) (string, error)
	// Run executes name and waits for it. A nonzero exit code is reported
	// in the result; an error means the process could not be run.
	Run(ctx context.Context, name string, args []string, opts ExecOptions) (ExecResult, error)
}

// OSExecutor runs programs with os/exec.
type OSExecutor struct {
	stdout io.Writer
	stderr io.Writer
}

// NewOSExecutor returns an executor that mirrors subprocess output to
// stdout and stderr unless a call is silent.
func NewOSExecutor(stdout, stderr io.Writer) *OSExecutor {
	return &OSExecutor{stdout: stdout, stderr: stderr}
}

func (e *OSExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *OSExecutor) Run(ctx context.Context, name string, args []string, opts ExecOptions) (ExecResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	// Capture stdout and stderr for the report
	var stdoutBuf, stderrBuf bytes.Buffer
	if opts.Silent {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	} else {
		cmd.Stdout = io.MultiWriter(e.stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(e.stderr, &stderrBuf)
	}

	err := cmd.Run()
	result := ExecResult{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}

	if err != nil {
		// Failed checks exit nonzero, that is a result and not an error
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, errors.Wrapf(err, "failed to execute %s", name)
	}

	return result, nil
}
