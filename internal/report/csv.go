package report

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/davidhauck/linkinator/internal/model"
)

// csvRow is the flat per-link record emitted by the CSV writer.
type csvRow struct {
	URL     string `csv:"url"`
	State   string `csv:"state"`
	Status  string `csv:"status"`
	Parent  string `csv:"parent"`
	Details string `csv:"details"`
}

// CSVWriter outputs one row per checked link, for spreadsheets and
// ad-hoc processing with standard tooling.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report as CSV rows in discovery order.
func (w *CSVWriter) Write(report *model.Report) (int, error) {
	rows := make([]csvRow, 0, len(report.Links))
	for _, l := range report.Links {
		status := ""
		if l.Status != 0 {
			status = strconv.Itoa(l.Status)
		}
		rows = append(rows, csvRow{
			URL:     l.URL,
			State:   string(l.State),
			Status:  status,
			Parent:  l.Parent,
			Details: l.Err,
		})
	}

	cw := &countingWriter{w: w.output}
	if err := gocsv.Marshal(&rows, cw); err != nil {
		return cw.n, err
	}
	return cw.n, cw.err
}
