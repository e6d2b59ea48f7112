package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/davidhauck/linkinator/internal/model"
)

// DefaultConcurrency is the number of links checked simultaneously when
// no explicit limit is configured.
const DefaultConcurrency = 100

// Checker orchestrates a crawl: it owns the visited set and the work
// queue, drives the fetch client and the link extractor, applies skip
// and recursion policy, and bounds concurrency.
//
// A Checker is safe for reuse; each Crawl call runs with fresh state.
type Checker struct {
	// client performs the liveness checks.
	client *Client

	// recurse enables expansion of same-origin HTML pages beyond the
	// root. The root page itself is always expanded.
	recurse bool

	// concurrency bounds the number of simultaneously fetching workers.
	concurrency int

	// skipSubstrings excludes links containing any of these literals.
	skipSubstrings SkipSubstrings

	// skipFunc is an optional caller-supplied skip predicate. It is
	// evaluated after the substring list; a link is skipped when either
	// matches.
	skipFunc SkipPolicy

	// deadline bounds the whole crawl. Zero means no crawl-level limit.
	deadline time.Duration

	// limiter optionally rate-limits fetches across all workers.
	limiter *rate.Limiter

	// logger is used for per-link debug logging.
	logger *slog.Logger

	// clientOpts are applied to the fetch client at construction.
	clientOpts []ClientOption
}

// Option configures a Checker.
type Option func(*Checker)

// WithRecurse enables recursion into same-origin HTML pages.
func WithRecurse(recurse bool) Option {
	return func(c *Checker) {
		c.recurse = recurse
	}
}

// WithConcurrency sets the worker-pool size. Values below one fall back
// to the default.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithSkipSubstrings sets literal substrings that exclude matching
// links from being fetched.
func WithSkipSubstrings(subs []string) Option {
	return func(c *Checker) {
		c.skipSubstrings = SkipSubstrings(subs)
	}
}

// WithSkipPolicy sets a caller-supplied skip predicate. It runs in
// addition to any substring list; a link is skipped if either matches.
func WithSkipPolicy(p SkipPolicy) Option {
	return func(c *Checker) {
		c.skipFunc = p
	}
}

// WithDeadline bounds the whole crawl. When the deadline passes,
// remaining queued work is dropped and the report reflects whatever
// completed.
func WithDeadline(d time.Duration) Option {
	return func(c *Checker) {
		c.deadline = d
	}
}

// WithRequestsPerSecond limits the fetch rate across all workers.
// Zero or negative disables rate limiting.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Checker) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets a custom logger for crawl progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Checker) {
		if ua != "" {
			c.clientOpts = append(c.clientOpts, WithClientUserAgent(ua))
		}
	}
}

// NewChecker creates a Checker on top of the given HTTP client.
// If hc is nil, a default client with a 10 second timeout is used.
func NewChecker(hc *http.Client, opts ...Option) *Checker {
	c := &Checker{
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = NewClient(hc, c.clientOpts...)
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// item is one unit of crawl work: a single reference to classify.
type item struct {
	// raw is the attribute text as written, or the root URL string.
	raw string

	// u is the resolved URL. Nil when resErr is set.
	u *url.URL

	// resErr is the resolution failure carried from extraction.
	resErr error

	// parent is the page the reference was found on. Empty for the root.
	parent string

	// expand marks pages that may be parsed for children. True for the
	// root; for discovered links it mirrors the recurse flag.
	expand bool
}

// key returns the dedup identity for this item. Unresolvable references
// dedup on their raw text, since they have no canonical URL.
func (it item) key() string {
	if it.u == nil {
		return it.raw
	}
	return CanonicalKey(it.u)
}

// crawlRun holds the mutable state of one Crawl invocation.
//
// Design decision: Run state lives in its own struct rather than on the
// Checker because:
//  1. It makes the Checker reusable and trivially race-free across runs
//  2. Workers only ever touch run state through the aggregator's lock
//  3. Tests can drive a run with a synthetic root without global state
type crawlRun struct {
	checker    *Checker
	agg        *aggregator
	group      *errgroup.Group
	ctx        context.Context
	sem        chan struct{}
	rootOrigin *url.URL
}

// Crawl checks the given root URL and everything it references,
// returning a report in discovery order.
//
// The returned error is non-nil only for crawl-fatal conditions: an
// unusable root URL or a failing skip predicate. Per-link failures are
// classified in the report instead.
func (c *Checker) Crawl(ctx context.Context, rootURL string) (*model.Report, error) {
	root, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid root URL %q: %w", rootURL, err)
	}
	if !IsFetchable(root) {
		return nil, fmt.Errorf("unsupported scheme %q in root URL", root.Scheme)
	}
	root.Fragment = ""

	if c.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.deadline)
		defer cancel()
	}

	group, gctx := errgroup.WithContext(ctx)
	run := &crawlRun{
		checker:    c,
		agg:        newAggregator(),
		group:      group,
		ctx:        gctx,
		sem:        make(chan struct{}, c.concurrency),
		rootOrigin: root,
	}

	started := time.Now()
	run.schedule(item{raw: root.String(), u: root, expand: true})

	// Completion: every scheduled worker has returned, meaning the
	// queue drained or the context cut the crawl short.
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// The group's context is canceled as soon as Wait returns, so it
	// cannot distinguish a drained queue from a cut-short crawl. The
	// deadline context can.
	report := run.agg.finalize(root.String(), started)
	report.TimedOut = ctx.Err() != nil
	return report, nil
}

// schedule creates the visit record for an item and hands it to a
// worker. Items whose canonical key has already been seen are dropped:
// the check-and-insert is atomic, so two workers racing to enqueue the
// same child cannot both succeed.
func (r *crawlRun) schedule(it item) {
	if !r.agg.claim(it.key(), it.raw, it.parent) {
		return
	}
	r.group.Go(func() error {
		// Bound the number of simultaneously fetching workers.
		select {
		case r.sem <- struct{}{}:
		case <-r.ctx.Done():
			return nil
		}
		defer func() { <-r.sem }()

		return r.process(it)
	})
}

// process classifies a single item and, when the recursion gate allows,
// expands it into further work.
func (r *crawlRun) process(it item) error {
	if r.ctx.Err() != nil {
		// Deadline passed: drop unstarted work rather than mark it.
		return nil
	}

	log := r.checker.logger
	key := it.key()

	// Skip policy runs before any fetch. Substrings first (cheap and
	// synchronous), then the caller's predicate, which may suspend.
	if skip, _ := r.checker.skipSubstrings.Skip(r.ctx, it.raw); skip {
		log.Debug("link skipped by substring", "url", it.raw)
		r.agg.settle(key, model.StateSkipped, 0, "")
		return nil
	}
	if r.checker.skipFunc != nil {
		skip, err := r.checker.skipFunc.Skip(r.ctx, it.raw)
		if err != nil {
			// No safe classification exists for a link whose skip
			// decision failed; abort the crawl.
			return fmt.Errorf("skip predicate failed for %q: %w", it.raw, err)
		}
		if skip {
			log.Debug("link skipped by predicate", "url", it.raw)
			r.agg.settle(key, model.StateSkipped, 0, "")
			return nil
		}
	}

	// References that never resolved to a URL are broken by definition.
	if it.resErr != nil {
		log.Debug("unresolvable link", "raw", it.raw, "error", it.resErr)
		r.agg.settle(key, model.StateBroken, 0, it.resErr.Error())
		return nil
	}

	// Non-HTTP(S) schemes are never fetched.
	if !IsFetchable(it.u) {
		log.Debug("non-fetchable scheme", "url", it.u.String())
		r.agg.settle(key, model.StateSkipped, 0, "")
		return nil
	}

	if r.checker.limiter != nil {
		if err := r.checker.limiter.Wait(r.ctx); err != nil {
			return nil
		}
	}

	resp, err := r.fetch(it)
	if err != nil {
		if r.ctx.Err() != nil {
			// The crawl was cut short mid-flight; leave the record
			// unresolved so finalize drops it instead of guessing.
			return nil
		}
		log.Debug("fetch failed", "url", it.u.String(), "error", err)
		r.agg.settle(key, model.StateBroken, 0, err.Error())
		return nil
	}

	state := model.StateOK
	if resp.Status >= http.StatusBadRequest {
		state = model.StateBroken
	}
	r.agg.settle(key, state, resp.Status, "")
	log.Debug("link checked", "url", it.u.String(), "status", resp.Status, "state", state)

	if state == model.StateOK && resp.Body != nil && isHTML(resp.ContentType) {
		r.expand(it, resp.Body)
	}
	return nil
}

// fetch retrieves the item. Pages that pass the recursion gate are
// fetched with GET so their body can be parsed in the same round trip;
// everything else gets the lightweight HEAD check with its single GET
// fallback on method rejection.
func (r *crawlRun) fetch(it item) (*Response, error) {
	if it.expand && SameOrigin(it.u, r.rootOrigin) {
		return r.checker.client.Fetch(r.ctx, it.u.String())
	}
	return r.checker.client.Check(r.ctx, it.u.String())
}

// expand parses a page body and schedules every extracted reference.
// Cross-origin pages never reach here: they are liveness-checked but
// not parsed, and non-HTML bodies are filtered by the caller.
func (r *crawlRun) expand(parent item, body []byte) {
	refs, err := ExtractLinks(bytes.NewReader(body), parent.u)
	if err != nil {
		r.checker.logger.Warn("failed to parse page", "url", parent.u.String(), "error", err)
		return
	}
	for _, ref := range refs {
		r.schedule(item{
			raw:    ref.Raw,
			u:      ref.URL,
			resErr: ref.Err,
			parent: parent.u.String(),
			expand: r.checker.recurse,
		})
	}
}

// aggregator owns the visited set and the ordered visit records. It is
// the single serialization point for shared crawl state: the
// check-and-insert in claim and every record mutation happen under one
// lock.
type aggregator struct {
	mu sync.Mutex

	// visited is the set of canonical keys ever claimed.
	visited mapset.Set[string]

	// order preserves discovery order of claimed keys.
	order []string

	// records maps canonical key to its visit record.
	records map[string]*model.LinkResult
}

func newAggregator() *aggregator {
	return &aggregator{
		visited: mapset.NewThreadUnsafeSet[string](),
		order:   make([]string, 0),
		records: make(map[string]*model.LinkResult),
	}
}

// claim atomically records a canonical key as seen and creates its
// visit record. It returns false when the key was already claimed, in
// which case the reference must not be enqueued again.
func (a *aggregator) claim(key, raw, parent string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.visited.Add(key) {
		return false
	}
	a.order = append(a.order, key)
	a.records[key] = &model.LinkResult{
		URL:          key,
		Raw:          raw,
		Parent:       parent,
		DiscoveredAt: time.Now(),
	}
	return true
}

// settle assigns the terminal state for a claimed key. States are
// terminal: settle is called exactly once per fetched or skipped key.
func (a *aggregator) settle(key string, state model.LinkState, status int, errMsg string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.records[key]
	if !ok {
		return
	}
	rec.State = state
	rec.Status = status
	rec.Err = errMsg
}

// finalize produces the report. Records that never reached a terminal
// state (work dropped by a deadline) are omitted rather than marked.
func (a *aggregator) finalize(root string, started time.Time) *model.Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := model.NewReport(root)
	report.StartedAt = started
	for _, key := range a.order {
		rec := a.records[key]
		if rec.State == "" {
			continue
		}
		report.Links = append(report.Links, *rec)
	}
	report.Duration = time.Since(started)

	report.Passed = true
	for _, l := range report.Links {
		if l.State == model.StateBroken {
			report.Passed = false
			break
		}
	}
	return report
}
