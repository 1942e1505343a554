package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

const (
	ExitTimeout  = 124
	ExitNotFound = 127
)

// Result holds the buffered output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
	ExitCode int
}

// Run executes name with args in dir and waits for it to exit. Stdout and
// stderr are captured in full. A non-zero exit is reported both in
// Result.ExitCode and as an *exec.ExitError.
func Run(ctx context.Context, name string, args []string, dir string) (Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = 1
		}

		if ctx.Err() == context.DeadlineExceeded {
			res.ExitCode = ExitTimeout
		} else if errors.Is(err, exec.ErrNotFound) {
			res.ExitCode = ExitNotFound
		}
	}

	return res, err
}

// IsExitError reports whether err only says the process exited non-zero.
func IsExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
