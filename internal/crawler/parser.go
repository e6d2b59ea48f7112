package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// linkAttrs maps an attribute name to the set of tags on which that
// attribute carries a URL. Attributes on unregistered tags are ignored
// even when present in markup.
//
// Design decision: We use an immutable package-level table rather than
// per-call configuration because:
//  1. The HTML specification fixes which attributes are URL-bearing
//  2. A single table keeps extraction behavior identical across crawls
//  3. Lookup stays allocation-free on the hot path
var linkAttrs = map[string]map[string]bool{
	"background":  {"body": true},
	"cite":        {"blockquote": true, "del": true, "ins": true, "q": true},
	"data":        {"object": true},
	"href":        {"a": true, "area": true, "embed": true, "link": true},
	"icon":        {"command": true},
	"longdesc":    {"frame": true, "iframe": true},
	"manifest":    {"html": true},
	"pluginspage": {"embed": true},
	"pluginurl":   {"embed": true},
	"poster":      {"video": true},
	"src": {
		"audio": true, "embed": true, "frame": true, "iframe": true,
		"img": true, "input": true, "script": true, "source": true,
		"track": true, "video": true,
	},
	"srcset": {"img": true, "source": true},
}

// RawReference is one URL-bearing attribute value found in a page,
// paired with its resolution outcome. It is never mutated after creation.
type RawReference struct {
	// Raw is the literal attribute value (for srcset, one candidate URL).
	Raw string

	// URL is the resolved, fragment-free URL. Nil when Err is set.
	URL *url.URL

	// Err is the resolution failure, if the value could not be parsed.
	Err error
}

// ExtractLinks parses HTML and returns every URL reference found in
// link-bearing attributes, resolved against the page's effective base.
//
// If the document declares a <base href>, the first such element becomes
// the base for every reference in the document, per HTML semantics. The
// base href itself is resolved against pageURL when it is relative.
func ExtractLinks(r io.Reader, pageURL *url.URL) ([]RawReference, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	// First pass collects raw candidates in document order. Resolution
	// happens afterwards because a <base> element may appear anywhere
	// in the head and governs the whole document.
	var candidates []string
	var baseHref string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "base" && baseHref == "" {
				// Only the first <base> is honored.
				baseHref = getAttr(n, "href")
			}
			candidates = append(candidates, elementLinks(n)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	base := pageURL
	if baseHref != "" {
		if resolved, err := Resolve(baseHref, pageURL); err == nil {
			base = resolved
		}
	}

	refs := make([]RawReference, 0, len(candidates))
	for _, raw := range candidates {
		u, err := Resolve(raw, base)
		if err != nil {
			refs = append(refs, RawReference{Raw: raw, Err: err})
			continue
		}
		refs = append(refs, RawReference{Raw: raw, URL: u})
	}
	return refs, nil
}

// elementLinks returns the raw URL values carried by one element.
func elementLinks(n *html.Node) []string {
	var out []string
	for _, attr := range n.Attr {
		tags, ok := linkAttrs[attr.Key]
		if !ok || !tags[n.Data] {
			continue
		}

		// dns-prefetch and preconnect hints name origins, not
		// resources; there is nothing real to validate behind them.
		if n.Data == "link" && attr.Key == "href" && isResourceHint(n) {
			continue
		}

		if attr.Key == "srcset" {
			out = append(out, srcsetURLs(attr.Val)...)
			continue
		}

		if v := strings.TrimSpace(attr.Val); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// isResourceHint reports whether a <link> element is a dns-prefetch or
// preconnect performance hint.
func isResourceHint(n *html.Node) bool {
	for _, rel := range strings.Fields(getAttr(n, "rel")) {
		switch strings.ToLower(rel) {
		case "dns-prefetch", "preconnect":
			return true
		}
	}
	return false
}

// srcsetURLs splits a srcset attribute into its URLs. Each
// comma-separated candidate is a URL optionally followed by a
// whitespace-delimited descriptor, which is discarded.
func srcsetURLs(val string) []string {
	var out []string
	for _, candidate := range strings.Split(val, ",") {
		fields := strings.Fields(candidate)
		if len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
