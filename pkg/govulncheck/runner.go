package govulncheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imjasonh/govulncheck-action/config"
	"github.com/imjasonh/govulncheck-action/internal/exec"
)

const (
	binary  = "govulncheck"
	pkgPath = "golang.org/x/vuln/cmd/govulncheck@latest"
)

// ErrDependencyResolution is returned when govulncheck could not load the
// packages of the scanned module.
var ErrDependencyResolution = errors.New("dependency resolution failed")

// stderr fragments that mean the scan could not see the code at all
var resolutionFailures = []string{
	"missing go.sum entry",
	"could not import",
	"cannot find module providing package",
	"no required module provides package",
	"invalid package name",
}

// Output is the buffered result of one govulncheck run.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

type execFunc func(ctx context.Context, name string, args []string, dir string) (exec.Result, error)

// Runner installs and invokes the govulncheck binary.
type Runner struct {
	Log config.Logger

	run execFunc
}

func NewRunner(log config.Logger) *Runner {
	return &Runner{Log: log, run: exec.Run}
}

// Install makes sure govulncheck is on PATH, installing it with go install
// when it is missing.
func (r *Runner) Install(ctx context.Context) error {
	if res, err := r.run(ctx, binary, []string{"-version"}, ""); err == nil {
		r.Log.Infof("govulncheck is already installed")
		r.Log.Debugf("%s", strings.TrimSpace(res.Stdout))
		return nil
	}

	r.Log.Infof("govulncheck not found, installing %s", pkgPath)
	res, err := r.run(ctx, "go", []string{"install", pkgPath}, "")
	if err != nil {
		return fmt.Errorf("install govulncheck: %w: %s", err, strings.TrimSpace(res.Stderr))
	}

	return nil
}

// Run scans ./... of dir. The exit code is not an error: govulncheck exits
// non-zero whenever it finds something. Only a failure to start the binary
// or a dependency resolution message on stderr is returned as an error.
func (r *Runner) Run(ctx context.Context, dir string) (Output, error) {
	res, err := r.run(ctx, binary, []string{"-json", "./..."}, dir)
	out := Output{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}

	if err != nil && !exec.IsExitError(err) {
		return out, fmt.Errorf("run govulncheck: %w", err)
	}

	if err := CheckStderr(out.Stderr); err != nil {
		return out, err
	}

	return out, nil
}

// CheckStderr reports a dependency resolution failure found in stderr.
func CheckStderr(stderr string) error {
	for _, line := range strings.Split(stderr, "\n") {
		for _, pattern := range resolutionFailures {
			if strings.Contains(line, pattern) {
				return fmt.Errorf("%w: %s", ErrDependencyResolution, strings.TrimSpace(line))
			}
		}
	}
	return nil
}
