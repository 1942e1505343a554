package report

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/imjasonh/govulncheck-action/config"
	"github.com/imjasonh/govulncheck-action/internal/vulnscan"
	"github.com/imjasonh/govulncheck-action/pkg/govulncheck"
	"github.com/imjasonh/govulncheck-action/pkg/manifest"
)

const noSummary = "No summary available"

// Composer turns deduplicated findings into annotations and a summary.
type Composer struct {
	Annotator Annotator
	Document  Document
	Log       config.Logger
}

// Annotate emits one warning per vulnerable module on its go.mod line, a
// suggested fix notice for modules whose vulnerable code is reached, and
// one warning per distinct call site.
func (c *Composer) Annotate(s *vulnscan.Scanner) {
	sites := govulncheck.ExtractCallSites(s.Vulns)

	reached := make(map[string]struct{})
	for _, site := range sites {
		if site.OSV != "" {
			reached[site.OSV] = struct{}{}
		}
	}

	for _, target := range findingTargets(s.Vulns) {
		findings := byTarget(s.Vulns, target)
		modules := govulncheck.ExtractModules(findings)
		if len(modules) == 0 {
			continue
		}

		m := s.Manifest(target)
		if m == nil {
			c.Log.Infof("No %s for %s, skipping module annotations", config.ManifestName, target)
			continue
		}

		for _, module := range modules {
			c.annotateModule(m, target, module, byModule(findings, module), reached)
		}
	}

	c.annotateCallSites(sites)
}

func (c *Composer) annotateModule(m *manifest.Manifest, target, module string, findings []govulncheck.Finding, reached map[string]struct{}) {
	line, text, ok := m.Find(module)
	if !ok {
		c.Log.Debugf("%s not found in %s", module, m.Path)
		return
	}

	props := Properties{
		Title:     "Vulnerable module: " + module,
		File:      displayPath(target, config.ManifestName),
		StartLine: line,
		EndLine:   line,
	}
	c.Annotator.Warning(moduleMessage(module, findings), props)

	var ids, fixes []string
	for _, f := range findings {
		if _, ok := reached[f.OSV]; ok && f.FixedVersion != "" {
			ids = append(ids, f.OSV)
			fixes = append(fixes, f.FixedVersion)
		}
	}
	if len(fixes) == 0 {
		return
	}

	fix := manifest.Newest(fixes)
	if fix == "" {
		c.Log.Debugf("No valid fixed version for %s in %v", module, fixes)
		return
	}
	replacement, ok := manifest.Upgrade(text, module, fix)
	if !ok {
		c.Log.Debugf("No version to replace for %s on %s:%d", module, m.Path, line)
		return
	}

	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "Update %s to %s to fix vulnerabilities reachable from your code: %s\n\n",
		module, fix, strings.Join(ids, ", "))
	fmt.Fprintf(&b, "Current:   %s\n", strings.TrimSpace(text))
	fmt.Fprintf(&b, "Suggested: %s", strings.TrimSpace(replacement))

	props.Title = fmt.Sprintf("Suggested fix: %s %s", module, fix)
	c.Annotator.Notice(b.String(), props)
}

func (c *Composer) annotateCallSites(sites []govulncheck.CallSite) {
	seen := make(map[string]struct{}, len(sites))

	for _, site := range sites {
		file := displayPath(site.Target, site.Filename)
		key := fmt.Sprintf("%s:%d:%s", file, site.Line, site.OSV)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		c.Annotator.Warning(callSiteMessage(site), Properties{
			Title:     "Vulnerable call: " + site.VulnerableFunction,
			File:      file,
			StartLine: site.Line,
			EndLine:   site.Line,
		})
	}
}

func moduleMessage(module string, findings []govulncheck.Finding) string {
	findings = sortByID(findings)

	var b strings.Builder
	if len(findings) == 1 {
		fmt.Fprintf(&b, "Module %s has 1 known vulnerability.\n", module)
	} else {
		fmt.Fprintf(&b, "Module %s has %d known vulnerabilities.\n", module, len(findings))
	}

	for _, f := range findings {
		fmt.Fprintf(&b, "\n%s: %s\n", idOrUnknown(f.OSV), summary(f.Detail))
		if cves := f.Detail.CVEs(); len(cves) > 0 {
			fmt.Fprintf(&b, "  CVEs: %s\n", strings.Join(cves, ", "))
		}
		if f.OSV != "" {
			fmt.Fprintf(&b, "  More info: %s\n", govulncheck.URL(f.OSV))
		}
		if f.FixedVersion != "" {
			fmt.Fprintf(&b, "  Fixed in: %s\n", f.FixedVersion)
		}
	}

	if fix := latestFix(findings); fix != "" {
		fmt.Fprintf(&b, "\nRecommended: update %s to %s or later", module, fix)
	} else {
		b.WriteString("\nNo fixed version is available yet.")
	}

	return b.String()
}

func callSiteMessage(site govulncheck.CallSite) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s calls vulnerable function %s", site.Function, site.VulnerableFunction)
	if site.OSV != "" {
		fmt.Fprintf(&b, " (%s)", site.OSV)
	}
	b.WriteString("\n")

	if site.Detail != nil {
		fmt.Fprintf(&b, "\n%s\n", summary(site.Detail))
		if site.Detail.Details != "" {
			fmt.Fprintf(&b, "\n%s\n", site.Detail.Details)
		}
		if cves := site.Detail.CVEs(); len(cves) > 0 {
			fmt.Fprintf(&b, "\nCVEs: %s\n", strings.Join(cves, ", "))
		}
	}

	if site.OSV != "" {
		fmt.Fprintf(&b, "More info: %s\n", govulncheck.URL(site.OSV))
	}

	if site.FixedVersion != "" {
		fmt.Fprintf(&b, "Fix: update to %s or later", site.FixedVersion)
	} else {
		b.WriteString("No fixed version is available yet.")
	}

	return b.String()
}

// displayPath renders file relative to the repository when target is not
// the default working directory.
func displayPath(target, file string) string {
	if target == "" || target == config.DefaultTarget {
		return file
	}
	return path.Join(filepath.ToSlash(target), file)
}

// latestFix returns the lexicographically last fixed version.
func latestFix(findings []govulncheck.Finding) string {
	fix := ""
	for _, f := range findings {
		if f.FixedVersion > fix {
			fix = f.FixedVersion
		}
	}
	return fix
}

func summary(d *govulncheck.Detail) string {
	if d == nil || d.Summary == "" {
		return noSummary
	}
	return d.Summary
}

func idOrUnknown(id string) string {
	if id == "" {
		return "unknown vulnerability"
	}
	return id
}

func sortByID(findings []govulncheck.Finding) []govulncheck.Finding {
	sorted := make([]govulncheck.Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OSV < sorted[j].OSV
	})
	return sorted
}

// findingTargets lists targets in the order they first produced a finding.
func findingTargets(findings []govulncheck.Finding) []string {
	var targets []string
	seen := make(map[string]struct{})
	for _, f := range findings {
		if _, ok := seen[f.Target]; ok {
			continue
		}
		seen[f.Target] = struct{}{}
		targets = append(targets, f.Target)
	}
	return targets
}

func byTarget(findings []govulncheck.Finding, target string) []govulncheck.Finding {
	var out []govulncheck.Finding
	for _, f := range findings {
		if f.Target == target {
			out = append(out, f)
		}
	}
	return out
}

func byModule(findings []govulncheck.Finding, module string) []govulncheck.Finding {
	var out []govulncheck.Finding
	for _, f := range findings {
		if f.Module() == module {
			out = append(out, f)
		}
	}
	return out
}
