package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/davidhauck/linkinator/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation, CI summaries and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown output
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeBroken(md, report)
	w.writeLinks(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Linkinator Report")
	md.PlainText("")

	ok, broken, skipped := report.Counts()
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Root + "`"},
			{"Scan Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Links Checked", strconv.Itoa(len(report.Links))},
			{"OK / Broken / Skipped", strconv.Itoa(ok) + " / " + strconv.Itoa(broken) + " / " + strconv.Itoa(skipped)},
			{"Result", w.verdict(report)},
		},
	})
	md.PlainText("")
}

// verdict returns the status cell text.
func (w *MarkdownWriter) verdict(report *model.Report) string {
	if report.TimedOut {
		return "⚠️ Timed out (partial results)"
	}
	if report.Passed {
		return "✅ Passed"
	}
	return "❌ Failed"
}

// writeBroken writes the broken-link table when there are failures.
func (w *MarkdownWriter) writeBroken(md *markdown.Markdown, report *model.Report) {
	broken := report.Broken()
	if len(broken) == 0 {
		return
	}

	md.H2("Broken Links")
	md.PlainText("")

	rows := make([][]string, 0, len(broken))
	for _, l := range broken {
		detail := strconv.Itoa(l.Status)
		if l.Status == 0 {
			detail = l.Err
		}
		rows = append(rows, []string{"`" + l.URL + "`", detail, "`" + l.Parent + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Found On"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeLinks writes the full link listing.
func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, report *model.Report) {
	md.H2("All Links")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Links))
	for _, l := range report.Links {
		status := "-"
		if l.Status != 0 {
			status = strconv.Itoa(l.Status)
		}
		rows = append(rows, []string{string(l.State), status, "`" + l.URL + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"State", "Status", "URL"},
		Rows:   rows,
	})
}
