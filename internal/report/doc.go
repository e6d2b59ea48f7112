// Package report provides report rendering for crawl results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text output for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for documentation
//   - CSVWriter: spreadsheet-friendly rows, one per link
//
// Design decision: We separate report writing from report data
// structures (which live in the model package) to follow the single
// responsibility principle. New output formats can be added without
// touching the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-destination output.
package report
