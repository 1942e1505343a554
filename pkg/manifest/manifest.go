package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imjasonh/govulncheck-action/config"

	version "github.com/hashicorp/go-version"
)

// Manifest is the line oriented content of a go.mod file.
type Manifest struct {
	Path  string
	Lines []string
}

// Read loads the go.mod of dir.
func Read(dir string) (*Manifest, error) {
	path := filepath.Join(dir, config.ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", config.ManifestName, err)
	}

	return Parse(path, string(data)), nil
}

func Parse(path, content string) *Manifest {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return &Manifest{
		Path:  path,
		Lines: strings.Split(content, "\n"),
	}
}

// Find returns the 1-based number and text of the first line containing
// module.
func (m *Manifest) Find(module string) (int, string, bool) {
	if m == nil || module == "" {
		return 0, "", false
	}

	for i, line := range m.Lines {
		if strings.Contains(line, module) {
			return i + 1, line, true
		}
	}

	return 0, "", false
}

// Upgrade rewrites the version that follows module on line to fixed. It
// reports false when line does not declare module with a version, or when
// fixed is not newer than the declared version.
func Upgrade(line, module, fixed string) (string, bool) {
	fields := strings.Fields(line)

	current := ""
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == module {
			current = fields[i+1]
			break
		}
	}
	if current == "" {
		return "", false
	}

	cv, err := version.NewVersion(current)
	if err != nil {
		return "", false
	}
	fv, err := version.NewVersion(fixed)
	if err != nil || !fv.GreaterThan(cv) {
		return "", false
	}

	start := strings.Index(line, module) + len(module)
	rest := line[start:]
	at := strings.Index(rest, current)

	return line[:start] + rest[:at] + fixed + rest[at+len(current):], true
}

// Newest returns the highest of versions by semantic ordering, skipping
// values that are not versions. It is empty when none parse.
func Newest(versions []string) string {
	var (
		newest string
		best   *version.Version
	)
	for _, v := range versions {
		parsed, err := version.NewVersion(v)
		if err != nil {
			continue
		}
		if best == nil || parsed.GreaterThan(best) {
			best, newest = parsed, v
		}
	}
	return newest
}
