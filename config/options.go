package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options is the scan configuration. It can be loaded from a YAML file and
// is then overridden by explicit command line flags.
type Options struct {
	WorkingDirectory string `yaml:"working-directory"`
	Output           string `yaml:"output"`
	Summary          string `yaml:"summary"`
	Format           string `yaml:"format"`
	SkipInstall      bool   `yaml:"skip-install"`
	LogLevel         string `yaml:"log-level"`
}

// LoadOptions reads a YAML option file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	opts := &Options{}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if opts.Format != "" && opts.Format != FormatGitHub && opts.Format != FormatText {
		return nil, fmt.Errorf("parse config %s: unknown format %q", path, opts.Format)
	}

	return opts, nil
}

// ParseTargets splits a comma or whitespace delimited list of directories,
// dropping duplicates while keeping the first occurrence order.
func ParseTargets(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	seen := make(map[string]struct{}, len(fields))
	targets := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		targets = append(targets, f)
	}

	if len(targets) == 0 {
		return []string{DefaultTarget}
	}

	return targets
}
