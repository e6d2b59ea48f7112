package crawler

import (
	"context"
	"strings"
)

// SkipPolicy decides whether a link should be excluded from fetching.
// A skipped link is classified without ever touching the network.
//
// Design decision: Skip is a single method taking a context because the
// caller-supplied rule may need to suspend (consulting a cache, an
// allowlist service, or any other slow source). Synchronous policies
// simply ignore the context. The orchestrator awaits the answer as an
// ordinary suspension point before deciding whether to fetch.
type SkipPolicy interface {
	// Skip reports whether the raw link should be skipped.
	// An error aborts the whole crawl: there is no safe classification
	// for a link whose skip decision could not be determined.
	Skip(ctx context.Context, rawURL string) (bool, error)
}

// SkipSubstrings skips any link whose raw text contains one of the
// configured literal substrings. The zero value skips nothing.
type SkipSubstrings []string

// Skip implements SkipPolicy.
func (s SkipSubstrings) Skip(_ context.Context, rawURL string) (bool, error) {
	for _, sub := range s {
		if sub != "" && strings.Contains(rawURL, sub) {
			return true, nil
		}
	}
	return false, nil
}

// SkipFunc adapts a plain function to the SkipPolicy interface.
type SkipFunc func(ctx context.Context, rawURL string) (bool, error)

// Skip implements SkipPolicy.
func (f SkipFunc) Skip(ctx context.Context, rawURL string) (bool, error) {
	return f(ctx, rawURL)
}
