package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/harvest"
	"golang.org/x/sync/errgroup"
)

// UnknownSource is the tally bucket for URLs no acquirer could be resolved
// for.
const UnknownSource = "unknown"

// Factory constructs a fresh Acquirer. It returns ECONFIG when a required
// setting such as a credential is missing.
type Factory func() (harvest.Acquirer, error)

type route struct {
	domain  string
	pattern *regexp.Regexp
	factory Factory
}

// Dispatcher routes URLs to acquirers by domain. Registration order defines
// match priority: the first matching domain wins.
type Dispatcher struct {
	routes []route

	// Concurrency is the number of URLs acquired in parallel by CrawlMany.
	// Values below 1 mean sequential processing.
	Concurrency int

	Logger *slog.Logger
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{Logger: slog.New(slog.DiscardHandler)}
}

// Register associates domain with factory. The domain may be given bare
// ("medium.com") or as a URL ("https://www.medium.com/"); it matches http
// and https URLs on that host with or without a "www." prefix.
func (d *Dispatcher) Register(domain string, factory Factory) error {
	host := normalizeDomain(domain)
	if host == "" {
		return harvest.Errorf(harvest.ECONFIG, "invalid domain %q", domain)
	}
	if factory == nil {
		return harvest.Errorf(harvest.ECONFIG, "nil factory for %q", host)
	}
	pattern := regexp.MustCompile(`^https?://(www\.)?` + regexp.QuoteMeta(host) + `(?:[/:?#]|$)`)
	d.routes = append(d.routes, route{domain: host, pattern: pattern, factory: factory})
	return nil
}

func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if u, err := url.Parse(domain); err == nil && u.Host != "" {
		domain = u.Host
	}
	domain = strings.TrimPrefix(domain, "www.")
	return strings.Trim(domain, "/")
}

func (d *Dispatcher) match(rawURL string) (route, bool) {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	for _, r := range d.routes {
		if r.pattern.MatchString(u) {
			return r, true
		}
	}
	return route{}, false
}

// Resolve returns a freshly constructed acquirer for rawURL.
// Returns EUNSUPPORTED if no registered domain matches.
func (d *Dispatcher) Resolve(rawURL string) (harvest.Acquirer, error) {
	r, ok := d.match(rawURL)
	if !ok {
		return nil, harvest.Errorf(harvest.EUNSUPPORTED, "unsupported URL: %s", rawURL)
	}
	return r.factory()
}

// CrawlMany acquires every URL for user and returns per-source counters.
// A failing URL is logged and counted; it never stops the batch. The only
// error returned is a configuration error found before any URL is
// attempted.
func (d *Dispatcher) CrawlMany(ctx context.Context, urls []string, user *harvest.User) (*Tally, error) {
	if err := d.preflight(urls); err != nil {
		return nil, err
	}

	tally := NewTally()

	var g errgroup.Group
	g.SetLimit(max(1, d.Concurrency))
	for _, u := range urls {
		g.Go(func() error {
			d.crawlOne(ctx, u, user, tally)
			return nil
		})
	}
	_ = g.Wait()

	d.Logger.Info("crawl finished", "succeeded", tally.Succeeded(), "attempted", tally.Attempted())
	return tally, nil
}

// preflight constructs every acquirer the batch will need once, so missing
// configuration is reported before any URL is attempted.
func (d *Dispatcher) preflight(urls []string) error {
	seen := make(map[string]bool)
	for _, u := range urls {
		r, ok := d.match(u)
		if !ok || seen[r.domain] {
			continue
		}
		seen[r.domain] = true
		if _, err := r.factory(); err != nil && harvest.ErrorCode(err) == harvest.ECONFIG {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) crawlOne(ctx context.Context, link string, user *harvest.User, tally *Tally) {
	acq, err := d.Resolve(link)
	if err != nil {
		d.Logger.Error("no acquirer for URL", "url", link, "error", err)
		tally.record(UnknownSource, false)
		return
	}

	source := string(acq.Platform())
	if err := acq.Acquire(ctx, link, user); err != nil {
		d.Logger.Error("acquisition failed", "url", link, "source", source, "error", err)
		tally.record(source, false)
		return
	}
	tally.record(source, true)
}

// Counter holds attempt and success counts for one source.
type Counter struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// Tally aggregates per-source counters. It is safe for concurrent use.
type Tally struct {
	mu      sync.Mutex
	sources map[string]Counter
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{sources: make(map[string]Counter)}
}

func (t *Tally) record(source string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.sources[source]
	c.Attempted++
	if ok {
		c.Succeeded++
	}
	t.sources[source] = c
}

// Source returns the counter for source.
func (t *Tally) Source(source string) Counter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sources[source]
}

// Sources returns the names of all sources with at least one attempt,
// sorted.
func (t *Tally) Sources() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.sources))
	for name := range t.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attempted returns the total number of attempted URLs.
func (t *Tally) Attempted() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.sources {
		n += c.Attempted
	}
	return n
}

// Succeeded returns the total number of successfully acquired URLs.
func (t *Tally) Succeeded() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.sources {
		n += c.Succeeded
	}
	return n
}
