// Package model defines the core data structures used throughout linkinator.
//
// This package contains the following main types:
//   - LinkState: Terminal classification of a checked link (OK, BROKEN, SKIPPED)
//   - LinkResult: The outcome of checking a single unique URL
//   - Report: The ordered collection of results for one crawl
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, report, database) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
