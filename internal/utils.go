package internal

import (
	"context"

	"github.com/imjasonh/govulncheck-action/config"
	"github.com/imjasonh/govulncheck-action/internal/report"
	"github.com/imjasonh/govulncheck-action/internal/vulnscan"
)

// Session holds everything one run publishes to.
type Session struct {
	Options   *config.Options
	Runner    vulnscan.Runner
	Annotator report.Annotator
	Document  report.Document
	Log       config.Logger

	// GitHubOutput is the step outputs file, empty outside of Actions.
	GitHubOutput string
}

// DoScan scans every configured target, annotates the deduplicated
// findings, writes the summary and publishes the step outputs.
func DoScan(ctx context.Context, sess *Session) (*vulnscan.Scanner, error) {
	log := sess.Log
	targets := config.ParseTargets(sess.Options.WorkingDirectory)

	log.Infof("Begin to scan %d target(s)", len(targets))

	scanner := vulnscan.NewScanner(sess.Runner, log)
	scanner.SkipInstall = sess.Options.SkipInstall

	if err := scanner.Scan(ctx, targets); err != nil {
		return nil, err
	}

	composer := &report.Composer{
		Annotator: sess.Annotator,
		Document:  sess.Document,
		Log:       log,
	}

	composer.Annotate(scanner)

	if err := composer.Summarize(scanner); err != nil {
		return nil, err
	}

	if sess.Options.Output != "" {
		if err := report.ScanToJson(log, sess.Options.Output, scanner); err != nil {
			return nil, err
		}
	}

	if err := report.SetOutputs(log, sess.GitHubOutput, scanner); err != nil {
		return nil, err
	}

	return scanner, nil
}
