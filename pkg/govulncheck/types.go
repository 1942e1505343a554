package govulncheck

import (
	"strings"
)

const (
	// UnknownFunction names a frame that carries no function.
	UnknownFunction = "unknown function"

	cvePrefix = "CVE-"
	vulnURL   = "https://pkg.go.dev/vuln/"
)

// Position is a source location inside a frame.
type Position struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
}

// Frame is one entry of a finding trace. Index 0 of a trace is the
// vulnerable symbol, higher indexes walk outward to its callers.
type Frame struct {
	Module   string    `json:"module,omitempty"`
	Version  string    `json:"version,omitempty"`
	Package  string    `json:"package,omitempty"`
	Receiver string    `json:"receiver,omitempty"`
	Function string    `json:"function,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// Name returns the display name of the frame function.
func (f Frame) Name() string {
	if f.Function == "" {
		return UnknownFunction
	}

	var b strings.Builder
	if f.Package != "" {
		b.WriteString(f.Package)
		b.WriteByte('.')
	}
	if f.Receiver != "" {
		if strings.HasPrefix(f.Receiver, "*") {
			b.WriteString("(" + f.Receiver + ")")
		} else {
			b.WriteString(f.Receiver)
		}
		b.WriteByte('.')
	}
	b.WriteString(f.Function)

	return b.String()
}

// Detail is the OSV entry describing a vulnerability.
type Detail struct {
	ID      string   `json:"id"`
	Summary string   `json:"summary,omitempty"`
	Details string   `json:"details,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
}

// CVEs returns the aliases that are CVE identifiers, in alias order.
func (d *Detail) CVEs() []string {
	if d == nil {
		return nil
	}

	var cves []string
	for _, a := range d.Aliases {
		if strings.HasPrefix(a, cvePrefix) {
			cves = append(cves, a)
		}
	}
	return cves
}

// Finding is one reported vulnerability occurrence.
type Finding struct {
	OSV          string  `json:"osv"`
	FixedVersion string  `json:"fixed_version,omitempty"`
	Trace        []Frame `json:"trace,omitempty"`
	Detail       *Detail `json:"detail,omitempty"`

	// Target is the scan target that produced the finding.
	Target string `json:"target,omitempty"`
}

// Module returns the module of the vulnerable symbol, if known.
func (f Finding) Module() string {
	if len(f.Trace) == 0 {
		return ""
	}
	return f.Trace[0].Module
}

// WithTarget returns a copy of f produced by target.
func (f Finding) WithTarget(target string) Finding {
	f.Target = target
	return f
}

// CallSite is an application location that reaches a vulnerable function.
type CallSite struct {
	Filename           string
	Line               int
	Function           string
	VulnerableFunction string
	OSV                string
	Detail             *Detail
	FixedVersion       string
	Target             string
}

// URL returns the vulnerability database page of id.
func URL(id string) string {
	return vulnURL + id
}
