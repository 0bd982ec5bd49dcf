// Package executor runs extracted commands on the host shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/ports"
)

// LocalExecutor runs commands sequentially via the host shell.
type LocalExecutor struct {
	shell string
}

// NewLocalExecutor builds a new executor, shell defaults to $SHELL then /bin/sh.
func NewLocalExecutor(shell string) *LocalExecutor {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalExecutor{shell: shell}
}

// Shell returns the interpreter in use.
func (e *LocalExecutor) Shell() string {
	return e.shell
}

// Execute implements ports.CommandExecutor. A non-zero exit is reported in the
// result, not as an error; the error return is reserved for failures to spawn
// the process at all.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	c := exec.CommandContext(ctx, e.shell, "-c", command)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	duration := time.Since(start).Milliseconds()

	result := domain.ExecutionResult{
		Ran:        true,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: duration,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Err = err
		return result, nil
	}
	if err != nil {
		result.Ran = false
		result.ExitCode = -1
		result.Err = err
		return result, err
	}
	return result, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
