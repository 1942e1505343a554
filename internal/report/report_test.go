package report

import (
	"fmt"
	"strings"

	"github.com/imjasonh/govulncheck-action/config"
	"github.com/imjasonh/govulncheck-action/internal/vulnscan"
	"github.com/imjasonh/govulncheck-action/pkg/govulncheck"
	"github.com/imjasonh/govulncheck-action/pkg/manifest"
)

type annotation struct {
	level   string
	message string
	props   Properties
}

type fakeAnnotator struct {
	annotations []annotation
}

func (f *fakeAnnotator) Warning(message string, props Properties) {
	f.annotations = append(f.annotations, annotation{"warning", message, props})
}

func (f *fakeAnnotator) Notice(message string, props Properties) {
	f.annotations = append(f.annotations, annotation{"notice", message, props})
}

func (f *fakeAnnotator) level(level string) []annotation {
	var out []annotation
	for _, a := range f.annotations {
		if a.level == level {
			out = append(out, a)
		}
	}
	return out
}

// recordDocument keeps every write operation as a readable string.
type recordDocument struct {
	ops    []string
	tables [][][]string
	writes int
}

func (d *recordDocument) Heading(text string, level int) {
	d.ops = append(d.ops, fmt.Sprintf("heading%d:%s", level, text))
}
func (d *recordDocument) Raw(text string) { d.ops = append(d.ops, "raw:"+text) }
func (d *recordDocument) EOL()            { d.ops = append(d.ops, "eol") }
func (d *recordDocument) List(items []string) {
	d.ops = append(d.ops, "list:"+strings.Join(items, "|"))
}
func (d *recordDocument) Table(rows [][]string) {
	d.ops = append(d.ops, "table")
	d.tables = append(d.tables, rows)
}
func (d *recordDocument) Link(text, href string) { d.ops = append(d.ops, "link:"+text+"="+href) }
func (d *recordDocument) Separator()             { d.ops = append(d.ops, "separator") }
func (d *recordDocument) Write() error {
	d.writes++
	return nil
}

func (d *recordDocument) has(op string) bool {
	for _, o := range d.ops {
		if o == op {
			return true
		}
	}
	return false
}

func (d *recordDocument) count(prefix string) int {
	n := 0
	for _, o := range d.ops {
		if strings.HasPrefix(o, prefix) {
			n++
		}
	}
	return n
}

// newScanner builds the state of a finished scan from raw streams keyed by
// target, in scan order.
func newScanner(targets []string, streams map[string]string, manifests map[string]string) *vulnscan.Scanner {
	log := config.DiscardLogger()
	p := govulncheck.NewParser(log)
	s := &vulnscan.Scanner{Log: log, Parser: p}

	var all []govulncheck.Finding
	for _, target := range targets {
		t := &vulnscan.Target{Path: target}
		for _, f := range p.Parse(streams[target]) {
			t.Findings = append(t.Findings, f.WithTarget(target))
		}
		if content, ok := manifests[target]; ok {
			t.Manifest = manifest.Parse("go.mod", content)
		}
		s.Targets = append(s.Targets, t)
		all = append(all, t.Findings...)
	}

	s.Vulns = vulnscan.Dedupe(all)
	s.Vulnerabilities = len(s.Vulns)
	return s
}

func newComposer() (*Composer, *fakeAnnotator, *recordDocument) {
	a := &fakeAnnotator{}
	d := &recordDocument{}
	return &Composer{Annotator: a, Document: d, Log: config.DiscardLogger()}, a, d
}
