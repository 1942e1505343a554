package govulncheck

import (
	"strings"

	"github.com/imjasonh/govulncheck-action/config"

	"github.com/tidwall/gjson"
)

type elementKind int

const (
	unknownElement elementKind = iota
	findingElement
	detailElement
)

// element is one decoded value of the scanner stream.
type element struct {
	kind    elementKind
	finding Finding
	detail  Detail
}

// Parser decodes govulncheck -json output.
type Parser struct {
	Log config.Logger
}

func NewParser(log config.Logger) *Parser {
	return &Parser{Log: log}
}

// Parse returns the findings of a govulncheck stream in the order they
// appear, with their OSV details attached. The stream is either one JSON
// value per line or pretty printed objects starting at column 0. Values
// that are not findings or OSV entries, and chunks that are not valid
// JSON, are skipped.
func (p *Parser) Parse(output string) []Finding {
	chunks := splitLines(output)
	if len(chunks) > 0 && !gjson.Valid(chunks[0]) {
		chunks = splitBlocks(output)
		p.Log.Debugf("Parsing %d JSON objects of govulncheck output", len(chunks))
	} else {
		p.Log.Debugf("Parsing %d lines of govulncheck output", len(chunks))
	}

	var findings []Finding
	details := make(map[string]Detail)

	for _, chunk := range chunks {
		e := decode(chunk)
		switch e.kind {
		case findingElement:
			findings = append(findings, e.finding)
		case detailElement:
			details[e.detail.ID] = e.detail
		}
	}

	result := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if d, ok := details[f.OSV]; ok {
			d := d
			f.Detail = &d
		}
		p.Log.Debugf("Found vulnerability %s", f.OSV)
		result = append(result, f)
	}

	p.Log.Infof("Parsed %d vulnerabilities and %d OSV entries", len(result), len(details))

	return result
}

func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitBlocks cuts output before every line that starts with '{'.
func splitBlocks(output string) []string {
	var (
		blocks  []string
		current strings.Builder
	)

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			blocks = append(blocks, chunk)
		}
		current.Reset()
	}

	for i, line := range strings.Split(output, "\n") {
		if i > 0 && strings.HasPrefix(line, "{") {
			flush()
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()

	return blocks
}

func decode(chunk string) element {
	if !gjson.Valid(chunk) {
		return element{}
	}

	value := gjson.Parse(chunk)
	if !value.IsObject() {
		return element{}
	}

	if f := value.Get("finding"); f.Exists() && f.Type != gjson.Null {
		return element{kind: findingElement, finding: decodeFinding(f)}
	}

	if o := value.Get("osv"); o.IsObject() && o.Get("id").String() != "" {
		return element{kind: detailElement, detail: decodeDetail(o)}
	}

	return element{}
}

func decodeFinding(value gjson.Result) Finding {
	f := Finding{
		OSV:          value.Get("osv").String(),
		FixedVersion: value.Get("fixed_version").String(),
	}

	for _, fr := range value.Get("trace").Array() {
		frame := Frame{
			Module:   fr.Get("module").String(),
			Version:  fr.Get("version").String(),
			Package:  fr.Get("package").String(),
			Receiver: fr.Get("receiver").String(),
			Function: fr.Get("function").String(),
		}

		if pos := fr.Get("position"); pos.IsObject() {
			frame.Position = &Position{
				Filename: pos.Get("filename").String(),
				Line:     int(pos.Get("line").Int()),
			}
			if frame.Position.Line == 0 {
				frame.Position.Line = 1
			}
		}

		f.Trace = append(f.Trace, frame)
	}

	return f
}

func decodeDetail(value gjson.Result) Detail {
	d := Detail{
		ID:      value.Get("id").String(),
		Summary: value.Get("summary").String(),
		Details: value.Get("details").String(),
	}

	for _, a := range value.Get("aliases").Array() {
		d.Aliases = append(d.Aliases, a.String())
	}

	return d
}
