package vulnscan

import (
	"context"
	"fmt"

	"github.com/imjasonh/govulncheck-action/config"
	"github.com/imjasonh/govulncheck-action/pkg/govulncheck"
	"github.com/imjasonh/govulncheck-action/pkg/manifest"
)

// Scan processes targets one after the other. A missing target is skipped
// with a warning; any scan failure aborts the whole run.
func (s *Scanner) Scan(ctx context.Context, targets []string) error {
	if !s.SkipInstall {
		s.Log.Infof("Installing govulncheck...")
		if err := s.Runner.Install(ctx); err != nil {
			return err
		}
	}

	var all []govulncheck.Finding
	for _, path := range targets {
		if !isDir(path) {
			s.Log.Warnf("Working directory %s does not exist, skipping", config.Yellow(path))
			continue
		}

		t, err := s.scanTarget(ctx, path)
		if err != nil {
			return fmt.Errorf("govulncheck failed in %s: %w", path, err)
		}

		s.Targets = append(s.Targets, t)
		all = append(all, t.Findings...)
	}

	s.Vulns = Dedupe(all)
	s.Vulnerabilities = len(s.Vulns)

	return nil
}

func (s *Scanner) scanTarget(ctx context.Context, path string) (*Target, error) {
	t := &Target{Path: path}

	err := withDir(path, func() error {
		s.Log.Infof("Running govulncheck in %s", config.Green(path))

		out, err := s.Runner.Run(ctx, "")
		if err != nil {
			return err
		}

		if out.Stderr != "" {
			s.Log.Warnf("govulncheck stderr: %s", out.Stderr)
		}

		for _, f := range s.Parser.Parse(out.Stdout) {
			t.Findings = append(t.Findings, f.WithTarget(path))
		}

		m, err := manifest.Read(".")
		if err != nil {
			s.Log.Warnf("%v", err)
		} else {
			t.Manifest = m
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.Infof("%s: %d findings, %d vulnerable modules, %d call sites",
		path, len(t.Findings),
		len(govulncheck.ExtractModules(t.Findings)),
		len(govulncheck.ExtractCallSites(t.Findings)))

	return t, nil
}

// Dedupe keeps the first finding of every vulnerability id in input order.
// Findings without an id cannot be compared and are always kept.
func Dedupe(findings []govulncheck.Finding) []govulncheck.Finding {
	seen := make(map[string]struct{}, len(findings))
	unique := make([]govulncheck.Finding, 0, len(findings))

	for _, f := range findings {
		if f.OSV != "" {
			if _, ok := seen[f.OSV]; ok {
				continue
			}
			seen[f.OSV] = struct{}{}
		}
		unique = append(unique, f)
	}

	return unique
}
