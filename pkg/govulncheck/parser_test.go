package govulncheck

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/imjasonh/govulncheck-action/config"
)

func osvIDs(findings []Finding) []string {
	ids := []string{}
	for _, f := range findings {
		ids = append(ids, f.OSV)
	}
	return ids
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "empty",
			output: "",
			want:   []string{},
		},
		{
			name:   "blank lines",
			output: "\n  \n\t\n",
			want:   []string{},
		},
		{
			name: "findings among progress",
			output: `
        {"finding":{"osv":"GO-2023-1234","trace":[{"module":"example.com/vulnerable"}]}}
        {"finding":{"osv":"GO-2023-5678","trace":[{"module":"another.com/package"}]}}
        {"progress":"scanning packages"}
      `,
			want: []string{"GO-2023-1234", "GO-2023-5678"},
		},
		{
			name: "non JSON lines",
			output: `{"config":{"db":"latest"}}
Invalid JSON line
{"finding":{"osv":"GO-2023-1234","trace":[{"module":"example.com/vulnerable"}]}}
{"finding":{"osv":"GO-2023-1234"
Another invalid line
["array", "value"]
{"finding":"not an object"}
{"finding":{"osv":"GO-2023-9999"}}`,
			want: []string{"GO-2023-1234", "GO-2023-9999"},
		},
		{
			name: "pretty printed",
			output: `{
  "progress": {
    "message": "Scanning..."
  }
}
{
  "finding": {
    "osv": "GO-2023-0001",
    "trace": [
      {
        "module": "example.com/lib"
      }
    ]
  }
}
{
  "finding": {
    "osv": "GO-2023-0002"
  }
}`,
			want: []string{"GO-2023-0001", "GO-2023-0002"},
		},
		{
			name: "leading log line",
			output: `Scanning your code...
{"finding":{"osv":"GO-2023-0001"}}
{"finding":{"osv":"GO-2023-0002"}}
`,
			want: []string{"GO-2023-0001", "GO-2023-0002"},
		},
	}

	p := NewParser(config.DiscardLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := osvIDs(p.Parse(tt.output))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStream(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "stream.jsonl"))
	if err != nil {
		t.Fatal(err)
	}

	p := NewParser(config.DiscardLogger())
	findings := p.Parse(string(data))

	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}

	detail := &Detail{
		ID:      "GO-2023-1988",
		Summary: "Improper rendering of text nodes in golang.org/x/net/html",
		Details: "Text nodes not in the HTML namespace are incorrectly literally rendered.",
		Aliases: []string{"CVE-2023-3978", "GHSA-2wrh-6pvc-2jm9"},
	}

	want := Finding{
		OSV:          "GO-2023-1988",
		FixedVersion: "v0.13.0",
		Detail:       detail,
		Trace: []Frame{
			{
				Module:   "golang.org/x/net",
				Version:  "v0.12.0",
				Package:  "golang.org/x/net/html",
				Function: "Render",
				Position: &Position{Filename: "render.go", Line: 48},
			},
			{
				Module:   "example.com/app",
				Package:  "example.com/app/web",
				Function: "Page",
				Position: &Position{Filename: "web/page.go", Line: 21},
			},
			{
				Module:   "example.com/app",
				Package:  "main",
				Function: "main",
				Position: &Position{Filename: "main.go", Line: 10},
			},
		},
	}

	if !reflect.DeepEqual(findings[1], want) {
		t.Errorf("Parse() got = %+v, want %+v", findings[1], want)
	}

	if !reflect.DeepEqual(findings[0].Detail, detail) {
		t.Errorf("expected module level finding to carry detail, got %+v", findings[0].Detail)
	}

	if findings[2].Detail != nil {
		t.Errorf("expected no detail for GO-2023-2102, got %+v", findings[2].Detail)
	}
}

func TestParseBlocksMatchLines(t *testing.T) {
	lines, err := os.ReadFile(filepath.Join("testdata", "stream.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	blocks, err := os.ReadFile(filepath.Join("testdata", "stream.json"))
	if err != nil {
		t.Fatal(err)
	}

	p := NewParser(config.DiscardLogger())
	fromLines := p.Parse(string(lines))
	fromBlocks := p.Parse(string(blocks))

	if len(fromBlocks) == 0 {
		t.Fatal("expected findings from pretty printed stream")
	}
	if !reflect.DeepEqual(fromLines, fromBlocks) {
		t.Errorf("block mode got = %+v, lines mode got %+v", fromBlocks, fromLines)
	}
}

func TestParseDetailJoin(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		summary string
	}{
		{
			name: "detail before finding",
			output: `{"osv":{"id":"GO-X","summary":"first"}}
{"finding":{"osv":"GO-X"}}`,
			summary: "first",
		},
		{
			name: "detail after finding",
			output: `{"finding":{"osv":"GO-X"}}
{"osv":{"id":"GO-X","summary":"late"}}`,
			summary: "late",
		},
		{
			name: "last detail wins",
			output: `{"osv":{"id":"GO-X","summary":"first"}}
{"finding":{"osv":"GO-X"}}
{"osv":{"id":"GO-X","summary":"second"}}`,
			summary: "second",
		},
		{
			name: "detail without id",
			output: `{"osv":{"summary":"anonymous"}}
{"finding":{"osv":"GO-X"}}`,
		},
		{
			name:   "no detail",
			output: `{"finding":{"osv":"GO-X"}}`,
		},
	}

	p := NewParser(config.DiscardLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := p.Parse(tt.output)
			if len(findings) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(findings))
			}

			d := findings[0].Detail
			if tt.summary == "" {
				if d != nil {
					t.Errorf("expected no detail, got %+v", d)
				}
				return
			}
			if d == nil || d.Summary != tt.summary {
				t.Errorf("expected detail summary %q, got %+v", tt.summary, d)
			}
		})
	}
}

func TestParsePositionDefaults(t *testing.T) {
	p := NewParser(config.DiscardLogger())
	findings := p.Parse(`{"finding":{"osv":"GO-X","trace":[{"module":"m"},{"position":{"filename":"a.go"}},{"position":{}}]}}`)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	trace := findings[0].Trace
	if len(trace) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(trace))
	}
	if trace[0].Position != nil {
		t.Errorf("expected no position on frame 0, got %+v", trace[0].Position)
	}
	if want := (&Position{Filename: "a.go", Line: 1}); !reflect.DeepEqual(trace[1].Position, want) {
		t.Errorf("frame 1 position got = %+v, want %+v", trace[1].Position, want)
	}
	if trace[1].Name() != UnknownFunction {
		t.Errorf("expected %q, got %q", UnknownFunction, trace[1].Name())
	}
}

func TestParseFindingShapes(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "object",
			output: `{"finding":{"osv":"GO-X"}}`,
			want:   []string{"GO-X"},
		},
		{
			name:   "scalar finding is kept",
			output: `{"finding":"GO-X"}`,
			want:   []string{""},
		},
		{
			name:   "empty object",
			output: `{"finding":{}}`,
			want:   []string{""},
		},
		{
			name:   "null finding is skipped",
			output: `{"finding":null}`,
			want:   []string{},
		},
	}

	p := NewParser(config.DiscardLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := osvIDs(p.Parse(tt.output)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() ids = %v, want %v", got, tt.want)
			}
		})
	}
}
