package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imjasonh/govulncheck-action/config"
	"github.com/imjasonh/govulncheck-action/internal/vulnscan"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ScanToJson saves the deduplicated findings to outfile.
func ScanToJson(log config.Logger, outfile string, s *vulnscan.Scanner) error {
	folder := filepath.Dir(outfile)
	if !exists(folder) {
		if err := os.MkdirAll(folder, os.FileMode(0755)); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(s.Vulns, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outfile, data, 0644); err != nil {
		return err
	}

	log.Infof("Output file is saved in: %s", config.Yellow(outfile))

	return nil
}

// SetOutputs publishes the run results. When outfile is empty they are
// only logged, otherwise they are appended as name=value lines, the
// format of the GITHUB_OUTPUT file.
func SetOutputs(log config.Logger, outfile string, s *vulnscan.Scanner) error {
	found := s.Vulnerabilities > 0

	if found {
		log.Warnf("Found %s vulnerabilities", config.Red(s.Vulnerabilities))
	} else {
		log.Infof("%s", config.Green("No vulnerabilities found"))
	}

	if outfile == "" {
		return nil
	}

	f, err := os.OpenFile(outfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "vulnerabilities-found=%t\nvulnerability-count=%d\n", found, s.Vulnerabilities)
	return err
}
