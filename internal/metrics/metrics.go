// Package metrics exposes tracker and HTTP counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "budget"

// Metrics owns its own registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	transactionsAdded   *prometheus.CounterVec
	transactionsRemoved prometheus.Counter
	categoriesAdded     prometheus.Counter
	categoriesDeleted   prometheus.Counter
	reassigned          prometheus.Counter
	storageFailures     *prometheus.CounterVec
	validationFailures  *prometheus.CounterVec
	ledgerSize          prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	rateLimited  prometheus.Counter
	cacheLookups *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		transactionsAdded: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_added_total",
				Help:      "Total number of transactions recorded, by kind",
			},
			[]string{"kind"},
		),
		transactionsRemoved: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_removed_total",
				Help:      "Total number of transactions deleted",
			},
		),
		categoriesAdded: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "categories_added_total",
				Help:      "Total number of categories created",
			},
		),
		categoriesDeleted: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "categories_deleted_total",
				Help:      "Total number of categories deleted",
			},
		),
		reassigned: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_reassigned_total",
				Help:      "Transactions moved to the fallback category by category deletes",
			},
		),
		storageFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_failures_total",
				Help:      "Failed storage operations",
			},
			[]string{"op"},
		),
		validationFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Rejected inputs, by field",
			},
			[]string{"field"},
		),
		ledgerSize: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ledger_transactions",
				Help:      "Current number of transactions in the ledger",
			},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		rateLimited: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_rate_limited_total",
				Help:      "Requests rejected by the rate limiter",
			},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_cache_lookups_total",
				Help:      "Summary cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) TransactionAdded(kind string) {
	m.transactionsAdded.WithLabelValues(kind).Inc()
}

func (m *Metrics) TransactionRemoved() {
	m.transactionsRemoved.Inc()
}

func (m *Metrics) CategoryAdded() {
	m.categoriesAdded.Inc()
}

func (m *Metrics) CategoryDeleted(reassigned int) {
	m.categoriesDeleted.Inc()
	m.reassigned.Add(float64(reassigned))
}

func (m *Metrics) StorageFailure(op string) {
	m.storageFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) ValidationFailure(field string) {
	m.validationFailures.WithLabelValues(field).Inc()
}

func (m *Metrics) LedgerSize(n int) {
	m.ledgerSize.Set(float64(n))
}

// ObserveHTTP records one finished request. route should be the mux
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RateLimited() {
	m.rateLimited.Inc()
}

// CacheLookup records a summary cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
