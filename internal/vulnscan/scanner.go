package vulnscan

import (
	"context"

	"github.com/imjasonh/govulncheck-action/config"
	"github.com/imjasonh/govulncheck-action/pkg/govulncheck"
	"github.com/imjasonh/govulncheck-action/pkg/manifest"
)

// Runner invokes the external scanner in a directory.
type Runner interface {
	Install(ctx context.Context) error
	Run(ctx context.Context, dir string) (govulncheck.Output, error)
}

// Target is the result of scanning one directory.
type Target struct {
	Path     string
	Manifest *manifest.Manifest
	Findings []govulncheck.Finding
}

// Scanner runs govulncheck over every target and keeps one finding per
// vulnerability id.
type Scanner struct {
	Runner      Runner
	Parser      *govulncheck.Parser
	Log         config.Logger
	SkipInstall bool

	Targets         []*Target
	Vulns           []govulncheck.Finding
	Vulnerabilities int
}

func NewScanner(runner Runner, log config.Logger) *Scanner {
	return &Scanner{
		Runner: runner,
		Parser: govulncheck.NewParser(log),
		Log:    log,
	}
}

// Manifest returns the manifest read for target, nil when it is unknown
// or could not be read.
func (s *Scanner) Manifest(target string) *manifest.Manifest {
	for _, t := range s.Targets {
		if t.Path == target {
			return t.Manifest
		}
	}
	return nil
}
