// Package server provides the ephemeral local HTTP origin used to check
// filesystem targets.
//
// When the crawl target is a directory rather than a URL, the rest of
// the pipeline still only ever deals with URLs: Server binds an
// ephemeral listener serving static files rooted at the target and
// hands back its base URL.
//
// The listening socket is a scoped resource. Serve and Stop form an
// explicit acquire/release pair, and callers must release on every exit
// path of a crawl so listening ports never leak across runs. Stop is
// idempotent.
package server
