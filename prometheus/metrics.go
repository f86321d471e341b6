// Package prometheus instruments newsdoc services with Prometheus metrics.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/newsdoc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SearchesTotal  *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	FetchesTotal   *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
	ArticlesTotal  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the application metrics with a new registry that also
// carries the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetricsWith(reg, reg)
}

// NewMetricsWith registers the application metrics with reg and serves them
// from gatherer.
func NewMetricsWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdoc_searches_total",
			Help: "The total number of news search calls, by outcome",
		}, []string{"outcome"}), // "ok", "upstream_<status>", "error"
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsdoc_search_duration_seconds",
			Help:    "Latency of news search calls",
			Buckets: prometheus.DefBuckets,
		}),
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdoc_page_fetches_total",
			Help: "The total number of article page fetches, by outcome",
		}, []string{"outcome"}), // "ok", "error"
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdoc_cache_lookups_total",
			Help: "The total number of cache lookups, by result",
		}, []string{"result"}), // "hit", "miss", "error"
		ArticlesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsdoc_articles_total",
			Help: "The total number of articles served, by whether a body was extracted",
		}, []string{"text"}), // "present", "missing"
		gatherer: gatherer,
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Ensure Searcher implements newsdoc.Searcher.
var _ newsdoc.Searcher = (*Searcher)(nil)

// Searcher counts and times search calls.
type Searcher struct {
	next    newsdoc.Searcher
	metrics *Metrics
}

// NewSearcher wraps next with metrics.
func NewSearcher(next newsdoc.Searcher, m *Metrics) *Searcher {
	return &Searcher{next: next, metrics: m}
}

func (s *Searcher) Search(ctx context.Context, term string) ([]*newsdoc.Item, error) {
	begin := time.Now()
	items, err := s.next.Search(ctx, term)
	s.metrics.SearchDuration.Observe(time.Since(begin).Seconds())

	label := outcome(err)
	if status := newsdoc.UpstreamStatus(err); status != 0 {
		label = "upstream_" + strconv.Itoa(status)
	}
	s.metrics.SearchesTotal.WithLabelValues(label).Inc()
	return items, err
}

// Ensure Fetcher implements newsdoc.Fetcher.
var _ newsdoc.Fetcher = (*Fetcher)(nil)

// Fetcher counts page fetches.
type Fetcher struct {
	next    newsdoc.Fetcher
	metrics *Metrics
}

// NewFetcher wraps next with metrics.
func NewFetcher(next newsdoc.Fetcher, m *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: m}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*newsdoc.Page, error) {
	page, err := f.next.Fetch(ctx, url)
	f.metrics.FetchesTotal.WithLabelValues(outcome(err)).Inc()
	return page, err
}

func (f *Fetcher) Close() error {
	return f.next.Close()
}

// Ensure Cache implements newsdoc.Cache.
var _ newsdoc.Cache = (*Cache)(nil)

// Cache counts cache hits and misses.
type Cache struct {
	next    newsdoc.Cache
	metrics *Metrics
}

// NewCache wraps next with metrics.
func NewCache(next newsdoc.Cache, m *Metrics) *Cache {
	return &Cache{next: next, metrics: m}
}

func (c *Cache) Get(ctx context.Context, term string) (*newsdoc.CacheEntry, error) {
	entry, err := c.next.Get(ctx, term)
	switch {
	case err == nil:
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	case newsdoc.ErrorCode(err) == newsdoc.ENOTFOUND:
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		c.metrics.CacheLookups.WithLabelValues("error").Inc()
	}
	return entry, err
}

func (c *Cache) Put(ctx context.Context, term string, articles []*newsdoc.Article) error {
	return c.next.Put(ctx, term, articles)
}

func (c *Cache) Expire(ctx context.Context, term string) error {
	return c.next.Expire(ctx, term)
}

// Ensure Resolver implements newsdoc.Resolver.
var _ newsdoc.Resolver = (*Resolver)(nil)

// Resolver counts resolved articles by whether a body was extracted.
type Resolver struct {
	next    newsdoc.Resolver
	metrics *Metrics
}

// NewResolver wraps next with metrics.
func NewResolver(next newsdoc.Resolver, m *Metrics) *Resolver {
	return &Resolver{next: next, metrics: m}
}

func (r *Resolver) Resolve(ctx context.Context, term string) ([]*newsdoc.Article, error) {
	articles, err := r.next.Resolve(ctx, term)
	for _, a := range articles {
		if a.ArticleText != nil {
			r.metrics.ArticlesTotal.WithLabelValues("present").Inc()
		} else {
			r.metrics.ArticlesTotal.WithLabelValues("missing").Inc()
		}
	}
	return articles, err
}
