package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/imjasonh/govulncheck-action/config"
	"github.com/imjasonh/govulncheck-action/internal"
	"github.com/imjasonh/govulncheck-action/internal/report"
	"github.com/imjasonh/govulncheck-action/pkg/govulncheck"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	envWorkingDirectory = "INPUT_WORKING-DIRECTORY"
	envStepSummary      = "GITHUB_STEP_SUMMARY"
	envOutput           = "GITHUB_OUTPUT"
	envActions          = "GITHUB_ACTIONS"
)

var (
	workingDirectory string
	configFile       string
	outfile          string
	summaryFile      string
	format           string
	skipInstall      bool
	logLevel         string
)

func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [OPTIONS]",
		Short: "Scan Go modules with govulncheck",
		Long: `Examples:
  # Scan the module in the current directory
  $ govulncheck-action scan

  # Scan several modules of a monorepo
  $ govulncheck-action scan -d "api, worker"

  # Print a colored report instead of workflow commands
  $ govulncheck-action scan --format text

  # Load options from a file and save the findings
  $ govulncheck-action scan --config govulncheck.yaml -o output/vulns.json`,
		Args:         NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd, os.Getenv)
			if err != nil {
				return err
			}
			return runScan(opts, os.Stdout, os.Stderr)
		},
	}

	scanCmd.Flags().StringVarP(&workingDirectory, "working-directory", "d", "", "directories to scan, comma or space separated")
	scanCmd.Flags().StringVar(&configFile, "config", "", "YAML option file")
	scanCmd.Flags().StringVarP(&outfile, "output", "o", "", "save the findings as JSON")
	scanCmd.Flags().StringVar(&summaryFile, "summary", "", "markdown summary file, defaults to $"+envStepSummary)
	scanCmd.Flags().StringVar(&format, "format", "", "annotation format, github or text")
	scanCmd.Flags().BoolVar(&skipInstall, "skip-install", false, "do not install govulncheck")
	scanCmd.Flags().StringVar(&logLevel, "log-level", "", "log level")

	return scanCmd
}

// resolveOptions merges the option file, explicit flags and the environment,
// in increasing order of precedence for flags and as fallback for the rest.
func resolveOptions(cmd *cobra.Command, getenv func(string) string) (*config.Options, error) {
	opts := &config.Options{}
	if configFile != "" {
		loaded, err := config.LoadOptions(configFile)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("working-directory") {
		opts.WorkingDirectory = workingDirectory
	}
	if flags.Changed("output") {
		opts.Output = outfile
	}
	if flags.Changed("summary") {
		opts.Summary = summaryFile
	}
	if flags.Changed("format") {
		opts.Format = format
	}
	if flags.Changed("skip-install") {
		opts.SkipInstall = skipInstall
	}
	if flags.Changed("log-level") {
		opts.LogLevel = logLevel
	}

	if opts.WorkingDirectory == "" {
		opts.WorkingDirectory = getenv(envWorkingDirectory)
	}
	if opts.Summary == "" {
		opts.Summary = getenv(envStepSummary)
	}
	if opts.Format == "" {
		opts.Format = config.FormatText
		if getenv(envActions) == "true" {
			opts.Format = config.FormatGitHub
		}
	}
	if opts.Format != config.FormatGitHub && opts.Format != config.FormatText {
		return nil, fmt.Errorf("unknown format %q", opts.Format)
	}
	if opts.LogLevel == "" {
		opts.LogLevel = logrus.InfoLevel.String()
	}

	return opts, nil
}

func runScan(opts *config.Options, stdout, stderr io.Writer) error {
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		return err
	}
	log := config.NewLogger(level, stderr)

	sess := &internal.Session{
		Options:      opts,
		Runner:       govulncheck.NewRunner(log),
		Log:          log,
		GitHubOutput: os.Getenv(envOutput),
	}

	workflow := report.NewWorkflowAnnotator(stdout)
	if opts.Format == config.FormatGitHub {
		sess.Annotator = workflow
	} else {
		sess.Annotator = report.NewConsoleAnnotator(stdout)
	}

	if opts.Summary != "" {
		f, err := os.OpenFile(opts.Summary, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open summary %s: %w", opts.Summary, err)
		}
		defer f.Close()
		sess.Document = report.NewMarkdownDocument(f)
	} else {
		sess.Document = report.NewConsoleDocument(stdout)
	}

	if _, err := internal.DoScan(config.Ctx, sess); err != nil {
		return fail(opts.Format, workflow, err)
	}

	return nil
}

// reportedError is a failure already published as a workflow error command.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// Reported reports whether err was already shown to the user.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

func fail(format string, workflow *report.WorkflowAnnotator, err error) error {
	if format != config.FormatGitHub {
		return err
	}
	workflow.Error(err.Error())
	return reportedError{err}
}
