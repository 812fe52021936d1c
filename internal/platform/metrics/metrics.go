package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the crawler.
type Metrics struct {
	// Rows read from each feed
	RowsProcessed *prometheus.CounterVec

	// Entities handed to the store by schema
	EntitiesEmitted *prometheus.CounterVec

	// Country lookups by result: "hit", "miss"
	CountryLookups *prometheus.CounterVec

	FetchDuration *prometheus.HistogramVec
	FetchRetries  *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec

	RunDuration    prometheus.Histogram
	RunFailures    prometheus.Counter
	LastRunSuccess prometheus.Gauge
}

// New creates and registers all crawler metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg, which lets tests use a
// private registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RowsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nsdc_crawler_rows_processed_total",
			Help: "Total source rows normalized by feed",
		}, []string{"feed"}),

		EntitiesEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nsdc_crawler_entities_emitted_total",
			Help: "Total entities emitted to the store by schema",
		}, []string{"schema"}),

		CountryLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nsdc_crawler_country_lookups_total",
			Help: "Country resolutions by result",
		}, []string{"result"}),

		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nsdc_crawler_fetch_duration_seconds",
			Help:    "Duration of source document downloads including retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"resource"}),

		FetchRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nsdc_crawler_fetch_retries_total",
			Help: "Retried fetch attempts by failure category",
		}, []string{"category"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nsdc_crawler_fetch_cache_lookups_total",
			Help: "Fetch cache lookups by result",
		}, []string{"result"}),

		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nsdc_crawler_run_duration_seconds",
			Help:    "Duration of a full crawl run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),

		RunFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "nsdc_crawler_run_failures_total",
			Help: "Total crawl runs that ended in an error",
		}),

		LastRunSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "nsdc_crawler_last_success_timestamp_seconds",
			Help: "Unix time of the last successful crawl run",
		}),
	}
}

func (m *Metrics) IncrementRows(feed string) {
	if m != nil {
		m.RowsProcessed.WithLabelValues(feed).Inc()
	}
}

func (m *Metrics) IncrementEmitted(schema string) {
	if m != nil {
		m.EntitiesEmitted.WithLabelValues(schema).Inc()
	}
}

// RecordCountryLookup counts a country resolution as a hit or a miss.
func (m *Metrics) RecordCountryLookup(hit bool) {
	if m != nil {
		m.CountryLookups.WithLabelValues(result(hit)).Inc()
	}
}

// ObserveFetch records the duration of downloading one resource.
func (m *Metrics) ObserveFetch(resource string, d time.Duration) {
	if m != nil {
		m.FetchDuration.WithLabelValues(resource).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementFetchRetry(category string) {
	if m != nil {
		m.FetchRetries.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result(hit)).Inc()
	}
}

// ObserveRun records a finished run. Failed runs only count as failures.
func (m *Metrics) ObserveRun(d time.Duration, err error, finished time.Time) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
	if err != nil {
		m.RunFailures.Inc()
		return
	}
	m.LastRunSuccess.Set(float64(finished.Unix()))
}

func result(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
