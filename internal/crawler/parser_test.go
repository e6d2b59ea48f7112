package crawler

import (
	"net/url"
	"strings"
	"testing"
)

// extract is a test helper that runs ExtractLinks over an HTML snippet
// and returns the resolved URL strings in document order.
func extract(t *testing.T, page, doc string) []string {
	t.Helper()

	base, err := url.Parse(page)
	if err != nil {
		t.Fatalf("failed to parse page URL: %v", err)
	}
	refs, err := ExtractLinks(strings.NewReader(doc), base)
	if err != nil {
		t.Fatalf("failed to extract links: %v", err)
	}

	var out []string
	for _, ref := range refs {
		if ref.Err != nil {
			out = append(out, "error:"+ref.Raw)
			continue
		}
		out = append(out, ref.URL.String())
	}
	return out
}

// TestExtractLinks tests link extraction from HTML documents.
func TestExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("extracts anchors and images", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<a href="/about">About</a>
			<img src="logo.png">
		</body></html>`

		got := extract(t, "http://example.com/index.html", doc)
		want := []string{
			"http://example.com/about",
			"http://example.com/logo.png",
		}
		assertLinks(t, got, want)
	})

	t.Run("extracts stylesheet and script references", func(t *testing.T) {
		t.Parallel()

		doc := `<html><head>
			<link rel="stylesheet" href="/css/main.css">
			<script src="/js/app.js"></script>
		</head><body></body></html>`

		got := extract(t, "http://example.com/", doc)
		want := []string{
			"http://example.com/css/main.css",
			"http://example.com/js/app.js",
		}
		assertLinks(t, got, want)
	})

	t.Run("ignores URL attributes on unregistered tags", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<div href="/not-a-link">text</div>
			<span src="/also-not"></span>
			<a href="/real">real</a>
		</body></html>`

		got := extract(t, "http://example.com/", doc)
		want := []string{"http://example.com/real"}
		assertLinks(t, got, want)
	})

	t.Run("splits srcset into candidate URLs", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<img srcset="small.jpg 480w, large.jpg 1080w, huge.jpg 2x">
		</body></html>`

		got := extract(t, "http://example.com/gallery/", doc)
		want := []string{
			"http://example.com/gallery/small.jpg",
			"http://example.com/gallery/large.jpg",
			"http://example.com/gallery/huge.jpg",
		}
		assertLinks(t, got, want)
	})

	t.Run("extracts source srcset inside picture", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body><picture>
			<source srcset="wide.webp 1200w">
			<img src="fallback.jpg">
		</picture></body></html>`

		got := extract(t, "http://example.com/", doc)
		want := []string{
			"http://example.com/wide.webp",
			"http://example.com/fallback.jpg",
		}
		assertLinks(t, got, want)
	})

	t.Run("honors first base href only", func(t *testing.T) {
		t.Parallel()

		doc := `<html><head>
			<base href="http://cdn.example.com/assets/">
			<base href="http://ignored.example.com/">
		</head><body>
			<a href="style.css">css</a>
		</body></html>`

		got := extract(t, "http://example.com/page.html", doc)
		want := []string{"http://cdn.example.com/assets/style.css"}
		assertLinks(t, got, want)
	})

	t.Run("relative base href resolves against page URL", func(t *testing.T) {
		t.Parallel()

		doc := `<html><head><base href="/static/"></head><body>
			<img src="pic.png">
		</body></html>`

		got := extract(t, "http://example.com/deep/page.html", doc)
		want := []string{"http://example.com/static/pic.png"}
		assertLinks(t, got, want)
	})

	t.Run("excludes dns-prefetch and preconnect hints", func(t *testing.T) {
		t.Parallel()

		doc := `<html><head>
			<link rel="dns-prefetch" href="//fast.example.net">
			<link rel="preconnect" href="https://fonts.example.com">
			<link rel="preload" href="/font.woff2">
			<link rel="stylesheet" href="/main.css">
		</head><body></body></html>`

		got := extract(t, "http://example.com/", doc)
		want := []string{
			"http://example.com/font.woff2",
			"http://example.com/main.css",
		}
		assertLinks(t, got, want)
	})

	t.Run("resource hint exclusion is rel-token based", func(t *testing.T) {
		t.Parallel()

		doc := `<html><head>
			<link rel="stylesheet preconnect" href="https://both.example.com/x.css">
		</head><body></body></html>`

		got := extract(t, "http://example.com/", doc)
		if len(got) != 0 {
			t.Errorf("expected hint link excluded, got %v", got)
		}
	})

	t.Run("empty attribute values are dropped", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<a href="">blank</a>
			<a href="   ">spaces</a>
			<a href="/kept">kept</a>
		</body></html>`

		got := extract(t, "http://example.com/", doc)
		want := []string{"http://example.com/kept"}
		assertLinks(t, got, want)
	})

	t.Run("non-http schemes are still extracted", func(t *testing.T) {
		t.Parallel()

		// Scheme filtering is the orchestrator's job, not the parser's.
		doc := `<html><body>
			<a href="mailto:admin@example.com">mail</a>
		</body></html>`

		got := extract(t, "http://example.com/", doc)
		want := []string{"mailto:admin@example.com"}
		assertLinks(t, got, want)
	})

	t.Run("extracts media and metadata attributes", func(t *testing.T) {
		t.Parallel()

		doc := `<html manifest="app.manifest"><body background="bg.jpg">
			<blockquote cite="/source">quote</blockquote>
			<object data="movie.swf"></object>
			<video poster="still.jpg" src="clip.mp4"></video>
			<iframe longdesc="desc.html" src="frame.html"></iframe>
		</body></html>`

		got := extract(t, "http://example.com/", doc)
		want := []string{
			"http://example.com/app.manifest",
			"http://example.com/bg.jpg",
			"http://example.com/source",
			"http://example.com/movie.swf",
			"http://example.com/still.jpg",
			"http://example.com/clip.mp4",
			"http://example.com/desc.html",
			"http://example.com/frame.html",
		}
		assertLinks(t, got, want)
	})

	t.Run("malformed URL yields reference with error", func(t *testing.T) {
		t.Parallel()

		base, err := url.Parse("http://example.com/")
		if err != nil {
			t.Fatalf("failed to parse base: %v", err)
		}
		doc := `<html><body><a href="http://exa mple.com/%zz">bad</a></body></html>`

		refs, err := ExtractLinks(strings.NewReader(doc), base)
		if err != nil {
			t.Fatalf("failed to extract links: %v", err)
		}
		if len(refs) != 1 {
			t.Fatalf("expected 1 reference, got %d", len(refs))
		}
		if refs[0].Err == nil {
			t.Errorf("expected resolution error for %q", refs[0].Raw)
		}
		if refs[0].URL != nil {
			t.Errorf("expected nil URL for unresolvable reference")
		}
	})

	t.Run("truncated markup still yields links", func(t *testing.T) {
		t.Parallel()

		// html.Parse is forgiving; a cut-off document parses anyway.
		doc := `<html><body><a href="/ok">ok</a><a href="/partial`

		got := extract(t, "http://example.com/", doc)
		if len(got) < 1 || got[0] != "http://example.com/ok" {
			t.Errorf("expected at least the complete link, got %v", got)
		}
	})
}

// assertLinks compares extracted link lists.
func assertLinks(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d links, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("link %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
