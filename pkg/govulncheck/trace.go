package govulncheck

import "sort"

// ExtractModules returns the sorted set of modules owning the vulnerable
// symbol of each finding.
func ExtractModules(findings []Finding) []string {
	seen := make(map[string]struct{})
	for _, f := range findings {
		if m := f.Module(); m != "" {
			seen[m] = struct{}{}
		}
	}

	modules := make([]string, 0, len(seen))
	for m := range seen {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	return modules
}

// ExtractCallSites returns one call site for every caller frame that has a
// source position. Frame 0 is the vulnerable symbol itself and is never a
// call site; all later frames with a filename are kept, in trace order.
func ExtractCallSites(findings []Finding) []CallSite {
	var sites []CallSite

	for _, f := range findings {
		if len(f.Trace) < 2 {
			continue
		}

		vulnerable := f.Trace[0].Name()
		for _, frame := range f.Trace[1:] {
			if frame.Position == nil || frame.Position.Filename == "" {
				continue
			}

			line := frame.Position.Line
			if line == 0 {
				line = 1
			}

			sites = append(sites, CallSite{
				Filename:           frame.Position.Filename,
				Line:               line,
				Function:           frame.Name(),
				VulnerableFunction: vulnerable,
				OSV:                f.OSV,
				Detail:             f.Detail,
				FixedVersion:       f.FixedVersion,
				Target:             f.Target,
			})
		}
	}

	return sites
}
