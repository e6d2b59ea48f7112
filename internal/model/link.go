package model

import "time"

// LinkState classifies the final outcome of checking a single link.
// A state is terminal: once assigned to a LinkResult it never changes.
type LinkState string

const (
	// StateOK means the link resolved to a live resource (status < 400).
	StateOK LinkState = "OK"

	// StateBroken means the link failed: the URL could not be parsed,
	// the request failed at the transport level, or the server answered
	// with a status code of 400 or higher.
	StateBroken LinkState = "BROKEN"

	// StateSkipped means the link was excluded by the skip policy or
	// carries a scheme that is never fetched (mailto:, data:, tel:, ...).
	StateSkipped LinkState = "SKIPPED"
)

// LinkResult is the visit record for one unique URL encountered during
// a crawl. Exactly one LinkResult exists per canonical URL per crawl,
// no matter how many pages reference it.
//
// Design decision: We keep the raw attribute text alongside the resolved
// URL because:
//  1. Skip substrings match against what the author actually wrote
//  2. Unresolvable references have no URL, only raw text
//  3. Error messages are clearer when they quote the original markup
type LinkResult struct {
	// URL is the resolved, fragment-free URL that was checked.
	// For references that could not be parsed it holds the raw text.
	URL string `json:"url"`

	// Raw is the literal attribute value as it appeared in markup.
	Raw string `json:"raw,omitempty"`

	// Parent is the URL of the page that first referenced this link.
	// Empty for the crawl root.
	Parent string `json:"parent,omitempty"`

	// State is the terminal classification of this link.
	State LinkState `json:"state"`

	// Status is the HTTP status code, if a response was received.
	// Zero when the link was skipped or failed before a response.
	Status int `json:"status,omitempty"`

	// Err holds the failure description for broken links that never
	// produced a status code (resolution or transport errors).
	Err string `json:"error,omitempty"`

	// DiscoveredAt is when the link was first enqueued.
	DiscoveredAt time.Time `json:"discovered_at"`
}
