// Package metrics defines the Prometheus collectors of the pricing service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ruokahinta/backend/internal/domain"
)

// Metrics holds all collectors. It implements usecase.Recorder.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	CatalogQueriesTotal   *prometheus.CounterVec
	CatalogQueryDuration  *prometheus.HistogramVec
	ResolutionsTotal      *prometheus.CounterVec
	ResolutionTermsTried  prometheus.Histogram
	RecipeIngredientCount prometheus.Histogram
}

// New creates all collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		CatalogQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_queries_total",
				Help: "Catalog queries by outcome (ok, empty, error, timeout).",
			},
			[]string{"outcome"},
		),
		CatalogQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_query_duration_seconds",
				Help:    "Catalog query latency in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"outcome"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingredient_resolutions_total",
				Help: "Ingredient resolutions by reason.",
			},
			[]string{"reason"},
		),
		ResolutionTermsTried: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ingredient_resolution_terms",
				Help:    "Search terms queried per ingredient resolution.",
				Buckets: []float64{0, 1, 2, 3, 4, 6, 8},
			},
		),
		RecipeIngredientCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "recipe_ingredients",
				Help:    "Ingredients per resolve request.",
				Buckets: []float64{1, 2, 5, 10, 20, 50},
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.CatalogQueriesTotal,
		m.CatalogQueryDuration,
		m.ResolutionsTotal,
		m.ResolutionTermsTried,
		m.RecipeIngredientCount,
	)

	return m
}

// ObserveCatalogQuery records one catalog round-trip
func (m *Metrics) ObserveCatalogQuery(outcome string, duration time.Duration) {
	m.CatalogQueriesTotal.WithLabelValues(outcome).Inc()
	m.CatalogQueryDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveResolution records the outcome of one ingredient
func (m *Metrics) ObserveResolution(reason domain.Reason, terms int) {
	m.ResolutionsTotal.WithLabelValues(string(reason)).Inc()
	m.ResolutionTermsTried.Observe(float64(terms))
}

// ObserveRecipe records the size of a resolve request
func (m *Metrics) ObserveRecipe(ingredients int) {
	m.RecipeIngredientCount.Observe(float64(ingredients))
}

// RequestStarted increments the in-flight gauge
func (m *Metrics) RequestStarted() {
	m.HTTPRequestsInFlight.Inc()
}

// ObserveHTTPRequest records one served request and decrements the in-flight gauge
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
