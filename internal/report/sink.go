package report

// Properties anchor an annotation to a file range.
type Properties struct {
	Title     string
	File      string
	StartLine int
	EndLine   int
}

// Annotator publishes inline source annotations.
type Annotator interface {
	Warning(message string, props Properties)
	Notice(message string, props Properties)
}

// Document receives the ordered write operations of the summary report.
// Nothing is published before Write.
type Document interface {
	Heading(text string, level int)
	Raw(text string)
	EOL()
	List(items []string)
	// Table takes the header as the first row.
	Table(rows [][]string)
	Link(text, href string)
	Separator()
	Write() error
}
