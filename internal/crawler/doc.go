// Package crawler implements the crawl-and-verify engine of linkinator.
//
// # Architecture
//
// The package is designed around the Checker type, which coordinates the
// crawl. It maintains a visited set keyed by canonical URL, schedules one
// worker per discovered link under a concurrency bound, and aggregates
// every outcome into a model.Report in discovery order.
//
// Design decision: We implement our own crawler rather than using a
// third-party library because:
//  1. Liveness checking wants HEAD-first fetching, which crawl frameworks
//     built around content extraction do not offer
//  2. The dedup identity (fragment-free canonical URL) and the recursion
//     gate must be controlled centrally to keep the exactly-once fetch
//     guarantee testable
//  3. Reduces external dependencies and potential security issues
//
// # Components
//
//   - Checker: orchestrates the crawl (queue, dedup, skip policy, recursion)
//   - ExtractLinks: HTML link extraction against the correct base URL
//   - Client: liveness checks with HEAD and a single GET fallback
//   - SkipPolicy: caller-supplied rules that exclude links from fetching
//
// # Usage
//
//	checker := crawler.NewChecker(httpClient, crawler.WithRecurse(true))
//	report, err := checker.Crawl(ctx, "https://example.com")
//
// For local filesystem targets, Check wraps Crawl and manages the
// ephemeral static-file origin:
//
//	report, err := crawler.Check(ctx, "./docs", httpClient)
package crawler
