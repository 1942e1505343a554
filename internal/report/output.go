package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/imjasonh/govulncheck-action/config"

	"github.com/olekukonko/tablewriter"
)

// MarkdownDocument renders the summary as GitHub flavored markdown, the
// format of the job summary file.
type MarkdownDocument struct {
	out io.Writer
	buf bytes.Buffer
}

func NewMarkdownDocument(out io.Writer) *MarkdownDocument {
	return &MarkdownDocument{out: out}
}

func (d *MarkdownDocument) Heading(text string, level int) {
	fmt.Fprintf(&d.buf, "%s %s\n\n", strings.Repeat("#", level), text)
}

func (d *MarkdownDocument) Raw(text string) {
	d.buf.WriteString(text)
}

func (d *MarkdownDocument) EOL() {
	d.buf.WriteString("\n")
}

func (d *MarkdownDocument) List(items []string) {
	for _, item := range items {
		fmt.Fprintf(&d.buf, "- %s\n", item)
	}
	d.buf.WriteString("\n")
}

func (d *MarkdownDocument) Table(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	table := tablewriter.NewWriter(&d.buf)
	table.SetHeader(escapeCells(rows[0]))
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range rows[1:] {
		table.Append(escapeCells(row))
	}
	table.Render()

	d.buf.WriteString("\n")
}

func (d *MarkdownDocument) Link(text, href string) {
	fmt.Fprintf(&d.buf, "[%s](%s)", text, href)
}

func (d *MarkdownDocument) Separator() {
	d.buf.WriteString("\n---\n\n")
}

// Write flushes the rendered document.
func (d *MarkdownDocument) Write() error {
	_, err := d.buf.WriteTo(d.out)
	return err
}

func escapeCells(row []string) []string {
	cells := make([]string, len(row))
	for i, c := range row {
		c = strings.ReplaceAll(c, "|", "\\|")
		cells[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return cells
}

// ConsoleDocument renders the summary for a terminal.
type ConsoleDocument struct {
	out io.Writer
	buf bytes.Buffer
}

func NewConsoleDocument(out io.Writer) *ConsoleDocument {
	return &ConsoleDocument{out: out}
}

func (d *ConsoleDocument) Heading(text string, level int) {
	switch level {
	case 1:
		fmt.Fprintf(&d.buf, "\n%s\n\n", config.Bold(text))
	case 2:
		fmt.Fprintf(&d.buf, "\n%s\n", config.Yellow(text))
	default:
		fmt.Fprintf(&d.buf, "%s\n", config.Pink(text))
	}
}

func (d *ConsoleDocument) Raw(text string) {
	d.buf.WriteString(text)
}

func (d *ConsoleDocument) EOL() {
	d.buf.WriteString("\n")
}

func (d *ConsoleDocument) List(items []string) {
	for _, item := range items {
		fmt.Fprintf(&d.buf, "  • %s\n", item)
	}
}

func (d *ConsoleDocument) Table(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	table := tablewriter.NewWriter(&d.buf)
	table.SetHeader(rows[0])
	table.SetRowLine(true)
	table.AppendBulk(rows[1:])
	table.Render()
}

func (d *ConsoleDocument) Link(text, href string) {
	if text == href {
		d.buf.WriteString(href)
		return
	}
	fmt.Fprintf(&d.buf, "%s (%s)", text, href)
}

func (d *ConsoleDocument) Separator() {
	fmt.Fprintf(&d.buf, "\n%s\n", strings.Repeat("-", 60))
}

func (d *ConsoleDocument) Write() error {
	_, err := d.buf.WriteTo(d.out)
	return err
}
