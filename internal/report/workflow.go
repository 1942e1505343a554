package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/imjasonh/govulncheck-action/config"
)

// WorkflowAnnotator writes GitHub Actions workflow commands.
type WorkflowAnnotator struct {
	Out io.Writer
}

func NewWorkflowAnnotator(out io.Writer) *WorkflowAnnotator {
	return &WorkflowAnnotator{Out: out}
}

func (w *WorkflowAnnotator) Warning(message string, props Properties) {
	w.command("warning", message, props)
}

func (w *WorkflowAnnotator) Notice(message string, props Properties) {
	w.command("notice", message, props)
}

// Error marks the run as failed.
func (w *WorkflowAnnotator) Error(message string) {
	fmt.Fprintf(w.Out, "::error::%s\n", escapeData(message))
}

func (w *WorkflowAnnotator) command(name, message string, props Properties) {
	var params []string
	if props.File != "" {
		params = append(params, "file="+escapeProperty(props.File))
	}
	if props.StartLine > 0 {
		params = append(params, fmt.Sprintf("line=%d", props.StartLine))
	}
	if props.EndLine > 0 {
		params = append(params, fmt.Sprintf("endLine=%d", props.EndLine))
	}
	if props.Title != "" {
		params = append(params, "title="+escapeProperty(props.Title))
	}

	fmt.Fprintf(w.Out, "::%s %s::%s\n", name, strings.Join(params, ","), escapeData(message))
}

var (
	dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}

func escapeProperty(s string) string {
	return propEscaper.Replace(s)
}

// ConsoleAnnotator prints annotations for humans running locally.
type ConsoleAnnotator struct {
	Out io.Writer
}

func NewConsoleAnnotator(out io.Writer) *ConsoleAnnotator {
	return &ConsoleAnnotator{Out: out}
}

func (c *ConsoleAnnotator) Warning(message string, props Properties) {
	c.print(config.Yellow("[WARNING]"), message, props)
}

func (c *ConsoleAnnotator) Notice(message string, props Properties) {
	c.print(config.Green("[NOTICE]"), message, props)
}

func (c *ConsoleAnnotator) print(level, message string, props Properties) {
	fmt.Fprintf(c.Out, "%s %s\n", level, config.Bold(props.Title))
	if props.File != "" {
		fmt.Fprintf(c.Out, "  at %s:%d\n", props.File, props.StartLine)
	}
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
	fmt.Fprintln(c.Out)
}
