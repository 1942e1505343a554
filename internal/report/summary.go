package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imjasonh/govulncheck-action/internal/vulnscan"
	"github.com/imjasonh/govulncheck-action/pkg/govulncheck"
)

const (
	reportTitle   = "🔍 Govulncheck Security Report"
	noVulns       = "✅ No vulnerabilities found!"
	noRecommend   = "No specific version recommendations available."
	notSpecified  = "Not specified"
	unknownModule = "unknown module"

	summaryLimit = 60
)

// Summarize writes the human readable report of s to the document.
func (c *Composer) Summarize(s *vulnscan.Scanner) error {
	doc := c.Document
	findings := s.Vulns

	doc.Heading(reportTitle, 1)

	if len(findings) == 0 {
		doc.Raw(noVulns)
		doc.EOL()
		return doc.Write()
	}

	modules := govulncheck.ExtractModules(findings)
	sites := govulncheck.ExtractCallSites(findings)

	grouped := make(map[string][]govulncheck.Finding)
	for _, f := range findings {
		m := f.Module()
		if m == "" {
			m = unknownModule
		}
		grouped[m] = append(grouped[m], f)
	}

	names := make([]string, 0, len(grouped))
	for m := range grouped {
		names = append(names, m)
	}
	sort.Strings(names)

	doc.Heading("📊 Overview", 2)
	doc.List([]string{
		fmt.Sprintf("Total vulnerabilities found: %d", len(findings)),
		fmt.Sprintf("Vulnerable modules: %d", len(modules)),
		fmt.Sprintf("Vulnerable code locations: %d", len(sites)),
	})

	doc.Heading("📦 Vulnerable Modules", 2)
	for _, m := range names {
		c.summarizeModule(m, sortByID(grouped[m]))
	}

	if len(sites) > 0 {
		c.summarizeCallSites(sites)
	}

	doc.Heading("💡 Recommendations", 2)

	var recommendations []string
	for _, m := range names {
		if m == unknownModule {
			continue
		}
		if fix := latestFix(grouped[m]); fix != "" {
			recommendations = append(recommendations, fmt.Sprintf("Update %s to version %s or later", m, fix))
		}
	}

	if len(recommendations) > 0 {
		doc.List(recommendations)
	} else {
		doc.Raw(noRecommend)
		doc.EOL()
	}

	doc.Separator()
	doc.Raw("🔗 Learn more about these vulnerabilities:")
	doc.EOL()
	doc.Raw("• ")
	doc.Link("Go Vulnerability Database", "https://pkg.go.dev/vuln/")
	doc.EOL()
	doc.Raw("• ")
	doc.Link("Govulncheck Documentation", "https://pkg.go.dev/golang.org/x/vuln/cmd/govulncheck")
	doc.EOL()

	return doc.Write()
}

func (c *Composer) summarizeModule(module string, findings []govulncheck.Finding) {
	doc := c.Document

	doc.Heading(module, 3)
	if v := findings[0].Trace; len(v) > 0 && v[0].Version != "" {
		doc.Raw("Current version: " + v[0].Version)
		doc.EOL()
		doc.EOL()
	}

	rows := [][]string{{"Vulnerability", "Summary", "Fixed Version", "Details"}}
	for _, f := range findings {
		fixed := f.FixedVersion
		if fixed == "" {
			fixed = notSpecified
		}

		details := ""
		if cves := f.Detail.CVEs(); len(cves) > 0 {
			details = "CVE: " + strings.Join(cves, ", ")
		}

		rows = append(rows, []string{idOrUnknown(f.OSV), truncate(summary(f.Detail), summaryLimit), fixed, details})
	}
	doc.Table(rows)

	doc.Raw("Links: ")
	first := true
	for _, f := range findings {
		if f.OSV == "" {
			continue
		}
		if !first {
			doc.Raw(" | ")
		}
		first = false
		doc.Link(f.OSV, govulncheck.URL(f.OSV))
	}
	doc.EOL()
	doc.EOL()
}

func (c *Composer) summarizeCallSites(sites []govulncheck.CallSite) {
	doc := c.Document

	doc.Heading("🚨 Vulnerable Code Locations", 2)

	byFile := make(map[string][]govulncheck.CallSite)
	var files []string
	for _, site := range sites {
		file := displayPath(site.Target, site.Filename)
		if _, ok := byFile[file]; !ok {
			files = append(files, file)
		}
		byFile[file] = append(byFile[file], site)
	}
	sort.Strings(files)

	for _, file := range files {
		doc.Heading("📄 "+file, 3)
		for _, site := range byFile[file] {
			doc.Raw(fmt.Sprintf("• Line %d: calls %s", site.Line, site.VulnerableFunction))
			if site.OSV != "" {
				doc.Raw(" - ")
				doc.Link(site.OSV, govulncheck.URL(site.OSV))
			}
			doc.EOL()
		}
		doc.EOL()
	}
}

// truncate caps s at limit runes and marks the cut with an ellipsis.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
