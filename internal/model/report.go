package model

import "time"

// Report is the sole externally visible artifact of a crawl.
// Links are ordered by discovery: the order in which URLs were first
// enqueued, not the order in which their checks completed.
type Report struct {
	// Root is the URL the crawl started from.
	Root string `json:"root"`

	// Passed is true iff no link in the report is broken.
	Passed bool `json:"passed"`

	// Links holds one result per unique URL, in discovery order.
	Links []LinkResult `json:"links"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total wall-clock time of the crawl.
	Duration time.Duration `json:"duration"`

	// TimedOut is true when a crawl-level deadline cut the crawl short.
	// The report then reflects only the work that completed.
	TimedOut bool `json:"timed_out,omitempty"`
}

// NewReport creates an empty report for the given root URL.
func NewReport(root string) *Report {
	return &Report{
		Root:      root,
		Links:     make([]LinkResult, 0),
		StartedAt: time.Now(),
	}
}

// Counts returns the number of links per state.
func (r *Report) Counts() (ok, broken, skipped int) {
	for _, l := range r.Links {
		switch l.State {
		case StateOK:
			ok++
		case StateBroken:
			broken++
		case StateSkipped:
			skipped++
		}
	}
	return ok, broken, skipped
}

// Broken returns the broken links in discovery order.
func (r *Report) Broken() []LinkResult {
	out := make([]LinkResult, 0)
	for _, l := range r.Links {
		if l.State == StateBroken {
			out = append(out, l)
		}
	}
	return out
}
