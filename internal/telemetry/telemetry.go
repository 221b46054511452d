// Package telemetry provides OpenTelemetry instrumentation for the analyzer
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "analyzer"

// Metrics holds all analyzer Prometheus metrics.
type Metrics struct {
	// Run metrics
	RunsTotal     *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	PostsFetched  prometheus.Histogram
	PostsReturned prometheus.Histogram

	// Stage metrics: how many posts each filter stage discards
	PostsDropped *prometheus.CounterVec

	// Scraper metrics
	ScrapeDuration prometheus.Histogram
	ScrapeFailures prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Rule metrics
	RuleReloads    prometheus.Counter
	KeywordsLoaded prometheus.Gauge
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initRunMetrics(m)
	initStageMetrics(m)
	initScrapeMetrics(m)
	initCacheMetrics(m)
	initRuleMetrics(m)
	return m
}

func initRunMetrics(m *Metrics) {
	m.RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_runs_total",
		Help: "Total analysis runs by mode and outcome",
	}, []string{"mode", "status"})

	m.RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analyzer_run_duration_seconds",
		Help:    "End-to-end analysis run duration including scraping",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"mode"})

	m.PostsFetched = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_posts_fetched",
		Help:    "Posts delivered by the scraper per run",
		Buckets: []float64{0, 10, 25, 50, 100, 200, 500},
	})

	m.PostsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_posts_returned",
		Help:    "Posts surviving the pipeline per run",
		Buckets: []float64{0, 5, 10, 25, 50, 100, 200},
	})
}

func initStageMetrics(m *Metrics) {
	m.PostsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_posts_dropped_total",
		Help: "Posts discarded per pipeline stage (region, commercial, metrics)",
	}, []string{"stage"})
}

func initScrapeMetrics(m *Metrics) {
	m.ScrapeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_scrape_duration_seconds",
		Help:    "Scraping actor run duration",
		Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	m.ScrapeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_scrape_failures_total",
		Help: "Total scraping actor failures",
	})
}

func initCacheMetrics(m *Metrics) {
	m.CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_cache_hits_total",
		Help: "Analysis requests served from the result cache",
	})

	m.CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_cache_misses_total",
		Help: "Analysis requests that missed the result cache",
	})
}

func initRuleMetrics(m *Metrics) {
	m.RuleReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyzer_rule_reloads_total",
		Help: "Hot reloads of the scoring rule tables",
	})

	m.KeywordsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "analyzer_keywords_loaded",
		Help: "Positive keywords currently loaded in the classifier",
	})
}

// RecordRun records metrics for one completed analysis run.
func (p *Provider) RecordRun(mode string, success bool, duration time.Duration, fetched, returned int) {
	status := "ok"
	if !success {
		status = "error"
	}
	p.Metrics.RunsTotal.WithLabelValues(mode, status).Inc()
	p.Metrics.RunDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if success {
		p.Metrics.PostsFetched.Observe(float64(fetched))
		p.Metrics.PostsReturned.Observe(float64(returned))
	}
}

// RecordStageDrops records how many posts a pipeline stage discarded.
func (p *Provider) RecordStageDrops(stage string, dropped int) {
	if dropped > 0 {
		p.Metrics.PostsDropped.WithLabelValues(stage).Add(float64(dropped))
	}
}

// RecordScrape records scraping actor metrics.
func (p *Provider) RecordScrape(duration time.Duration, err error) {
	p.Metrics.ScrapeDuration.Observe(duration.Seconds())
	if err != nil {
		p.Metrics.ScrapeFailures.Inc()
	}
}

// RecordCacheLookup records a result cache hit or miss.
func (p *Provider) RecordCacheLookup(hit bool) {
	if hit {
		p.Metrics.CacheHits.Inc()
	} else {
		p.Metrics.CacheMisses.Inc()
	}
}

// RecordRuleReload records a rule table reload and the resulting keyword
// count.
func (p *Provider) RecordRuleReload(keywords int) {
	p.Metrics.RuleReloads.Inc()
	p.Metrics.KeywordsLoaded.Set(float64(keywords))
}
