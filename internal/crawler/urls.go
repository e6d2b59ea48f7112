package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// schemePrefix matches a URI scheme prefix per RFC 3986:
// a letter followed by letters, digits, "+", "-" or ".", then a colon.
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// ResolutionError reports an attribute value that could not be turned
// into a usable URL. It carries the original raw text so the failure can
// be reported against what actually appeared in markup.
//
// A ResolutionError is not fatal to a crawl; the orchestrator classifies
// the reference as broken and moves on.
type ResolutionError struct {
	// Raw is the literal attribute value from the markup.
	Raw string

	// Err is the underlying parse error, if any.
	Err error
}

// Error returns the error message.
func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve %q: %v", e.Raw, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q", e.Raw)
}

// Unwrap returns the underlying error.
func (e *ResolutionError) Unwrap() error { return e.Err }

// IsAbsolute reports whether a raw attribute value is an absolute URL.
// A value is absolute when it starts with a URI scheme prefix and is not
// a Windows-style drive path ("C:\..."), which satisfies the scheme
// grammar but is really a filesystem path.
func IsAbsolute(raw string) bool {
	if isWindowsDrivePath(raw) {
		return false
	}
	return schemePrefix.MatchString(raw)
}

// isWindowsDrivePath reports whether raw looks like "X:\path".
func isWindowsDrivePath(raw string) bool {
	if len(raw) < 3 {
		return false
	}
	c := raw[0]
	letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return letter && raw[1] == ':' && raw[2] == '\\'
}

// Resolve turns a raw attribute value into an absolute URL against base.
// Absolute values are parsed as-is; relative values (including
// Windows-style drive paths) are resolved against base. The fragment is
// always stripped from the result, since it never affects liveness.
//
// Malformed input yields a *ResolutionError carrying the raw text.
func Resolve(raw string, base *url.URL) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ResolutionError{Raw: raw}
	}

	var resolved *url.URL
	if IsAbsolute(trimmed) {
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, &ResolutionError{Raw: raw, Err: err}
		}
		resolved = u
	} else {
		ref, err := url.Parse(trimmed)
		if err != nil || ref.IsAbs() {
			// A relative value that still parsed with a scheme (for
			// example a drive path whose letter reads as a scheme) is
			// resolved as a plain path reference instead.
			ref = &url.URL{Path: trimmed}
		}
		if base == nil {
			return nil, &ResolutionError{Raw: raw, Err: err}
		}
		resolved = base.ResolveReference(ref)
	}

	resolved.Fragment = ""
	return resolved, nil
}

// CanonicalKey returns the dedup identity of a URL: scheme, host, port,
// path and query with the fragment removed. Two references with the same
// key are the same crawl target regardless of how they were spelled.
func CanonicalKey(u *url.URL) string {
	k := *u
	k.Fragment = ""
	k.Scheme = strings.ToLower(k.Scheme)
	k.Host = strings.ToLower(k.Host)

	// Empty path and "/" address the same resource.
	if k.Path == "" {
		k.Path = "/"
	}

	return k.String()
}

// SameOrigin reports whether two URLs share scheme, host and port.
func SameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

// IsFetchable reports whether the URL carries a scheme the fetch client
// can check. Everything that is not plain HTTP(S), such as mailto:,
// data:, irc: or tel:, is skipped without a network attempt.
func IsFetchable(u *url.URL) bool {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
