package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rodaine/table"

	"github.com/davidhauck/linkinator/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display: a short summary followed
// by a table of broken links, if any.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
//  1. It works in all terminals without compatibility issues
//  2. It's easier to pipe to files or other tools
//  3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose lists every checked link, not just the broken ones.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables listing every link rather than only failures.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	cw := &countingWriter{w: w.output}

	w.writeHeader(cw, report)

	if w.verbose {
		w.writeLinkTable(cw, report.Links, "All links")
	} else if broken := report.Broken(); len(broken) > 0 {
		w.writeLinkTable(cw, broken, "Broken links")
	}

	w.writeFooter(cw, report)
	return cw.n, cw.err
}

// writeHeader writes the summary block.
func (w *SimpleWriter) writeHeader(out io.Writer, report *model.Report) {
	ok, broken, skipped := report.Counts()

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        LINKINATOR REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target:    %s\n", report.Root))
	sb.WriteString(fmt.Sprintf("Scanned:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", report.Duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Links:     %d total - %d ok, %d broken, %d skipped\n",
		len(report.Links), ok, broken, skipped))

	if report.TimedOut {
		sb.WriteString("Status:    TIMED OUT (partial results)\n")
	}
	sb.WriteString("\n")

	_, _ = io.WriteString(out, sb.String())
}

// writeLinkTable writes a table of links with status and parent page.
func (w *SimpleWriter) writeLinkTable(out io.Writer, links []model.LinkResult, title string) {
	_, _ = fmt.Fprintf(out, "%s:\n\n", title)

	tbl := table.New("STATE", "STATUS", "URL", "FOUND ON").WithWriter(out)
	for _, l := range links {
		status := "-"
		if l.Status != 0 {
			status = fmt.Sprintf("%d", l.Status)
		} else if l.Err != "" {
			status = l.Err
		}
		parent := l.Parent
		if parent == "" {
			parent = "-"
		}
		tbl.AddRow(string(l.State), status, l.URL, parent)
	}
	tbl.Print()
	_, _ = io.WriteString(out, "\n")
}

// writeFooter writes the final verdict line.
func (w *SimpleWriter) writeFooter(out io.Writer, report *model.Report) {
	if report.Passed {
		_, _ = io.WriteString(out, "PASSED: no broken links found\n")
		return
	}
	_, broken, _ := report.Counts()
	_, _ = fmt.Fprintf(out, "FAILED: %d broken link(s) found\n", broken)
}

// countingWriter tracks bytes written and the first error, so the table
// renderer (which reports nothing) still contributes to the byte count.
type countingWriter struct {
	w   io.Writer
	n   int
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += n
	c.err = err
	return n, err
}
