package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no URL or path is given to check.
	ErrNoTarget = errors.New("no target specified: provide a URL or a local path")

	// ErrInvalidConcurrency is returned when the worker-pool size is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the per-request timeout is not
	// positive. A timeout of zero or negative would fail every request.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDeadline is returned when the crawl deadline is
	// negative. Use 0 for an unbounded crawl.
	ErrInvalidDeadline = errors.New("invalid deadline: must be non-negative")

	// ErrInvalidRate is returned when the request rate is negative.
	// Use 0 to disable rate limiting.
	ErrInvalidRate = errors.New("invalid request rate: must be non-negative")

	// ErrInvalidFormat is returned for unknown report formats.
	ErrInvalidFormat = errors.New("invalid format: must be one of text, json, markdown, csv")
)
