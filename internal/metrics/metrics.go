// Package metrics defines the Prometheus metrics for résumé parsing and import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the parsing pipeline.
//
// Metrics:
//   - resume_parse_total - résumés parsed
//   - resume_parse_duration_seconds - wall time of a full parse
//   - resume_parse_ai_failures_total{category,reason} - categories the model failed to produce
//   - resume_parse_fallback_total{category} - categories filled by the heuristic extractor
//   - resume_parse_records{kind} - records per parsed batch
//   - resume_duplicates_dropped_total{kind,scope} - duplicates merged in a batch or skipped on import
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ParsesTotal       prometheus.Counter
	ParseDuration     prometheus.Histogram
	AIFailuresTotal   *prometheus.CounterVec
	FallbackTotal     *prometheus.CounterVec
	RecordsPerBatch   *prometheus.HistogramVec
	DuplicatesDropped *prometheus.CounterVec
}

// Duplicate scopes
const (
	ScopeBatch    = "batch"
	ScopeExisting = "existing"
)

// New creates the metrics and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ParsesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "resume_parse_total",
			Help: "Total number of résumés parsed",
		}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "resume_parse_duration_seconds",
			Help:    "Duration of a full résumé parse in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		AIFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_parse_ai_failures_total",
			Help: "Categories the language model failed to produce",
		}, []string{"category", "reason"}),
		FallbackTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_parse_fallback_total",
			Help: "Categories filled by the heuristic extractor",
		}, []string{"category"}),
		RecordsPerBatch: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_parse_records",
			Help:    "Records per parsed batch",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		}, []string{"kind"}),
		DuplicatesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_duplicates_dropped_total",
			Help: "Duplicate records merged within a batch or skipped on import",
		}, []string{"kind", "scope"}),
	}
}

// ObserveParse records one completed parse
func (m *Metrics) ObserveParse(seconds float64) {
	if m == nil {
		return
	}
	m.ParsesTotal.Inc()
	m.ParseDuration.Observe(seconds)
}

// AIFailure records a category the model did not deliver
func (m *Metrics) AIFailure(category, reason string) {
	if m == nil {
		return
	}
	m.AIFailuresTotal.WithLabelValues(category, reason).Inc()
}

// Fallback records a category filled by the heuristic extractor
func (m *Metrics) Fallback(category string) {
	if m == nil {
		return
	}
	m.FallbackTotal.WithLabelValues(category).Inc()
}

// Records records the size of one category in a parsed batch
func (m *Metrics) Records(kind string, n int) {
	if m == nil {
		return
	}
	m.RecordsPerBatch.WithLabelValues(kind).Observe(float64(n))
}

// Duplicates records n duplicates dropped for kind in scope
func (m *Metrics) Duplicates(kind, scope string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DuplicatesDropped.WithLabelValues(kind, scope).Add(float64(n))
}
