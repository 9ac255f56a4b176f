package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Emission outcomes used as the status label
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the Prometheus collectors for the emission pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	EventsEmitted *prometheus.CounterVec
	EmitDuration  *prometheus.HistogramVec

	ParameterCacheHits   prometheus.Counter
	ParameterCacheMisses prometheus.Counter
	ParameterFetches     *prometheus.CounterVec
	SaltFallbacks        prometheus.Counter
	BreakerTransitions   *prometheus.CounterVec
}

// NewMetrics creates collectors on a private registry
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		EventsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_emitted_total",
				Help:      "Total number of domain event emissions",
			},
			[]string{"event_type", "status", "error_type"},
		),
		EmitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "event_emit_duration_seconds",
				Help:      "Domain event emission duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"event_type"},
		),
		ParameterCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parameter_cache_hits_total",
				Help:      "Total number of parameter cache hits",
			},
		),
		ParameterCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parameter_cache_misses_total",
				Help:      "Total number of parameter cache misses",
			},
		),
		ParameterFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parameter_fetches_total",
				Help:      "Total number of parameter store reads",
			},
			[]string{"status"},
		),
		SaltFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "salt_fallbacks_total",
				Help:      "Total number of salt resolutions served from fallback configuration",
			},
		),
		BreakerTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_transitions_total",
				Help:      "Total number of circuit breaker state changes",
			},
			[]string{"name", "to"},
		),
	}

	registry.MustRegister(
		m.EventsEmitted,
		m.EmitDuration,
		m.ParameterCacheHits,
		m.ParameterCacheMisses,
		m.ParameterFetches,
		m.SaltFallbacks,
		m.BreakerTransitions,
	)

	return m
}

// Registry returns the Prometheus registry for this collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordEmission records the outcome and latency of one emission
func (m *Metrics) RecordEmission(eventType, status, errorType string, duration time.Duration) {
	if m == nil {
		return
	}
	m.EventsEmitted.WithLabelValues(eventType, status, errorType).Inc()
	m.EmitDuration.WithLabelValues(eventType).Observe(duration.Seconds())
}

// RecordCacheLookup records a parameter cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.ParameterCacheHits.Inc()
		return
	}
	m.ParameterCacheMisses.Inc()
}

// RecordParameterFetch records a read against the backing parameter store
func (m *Metrics) RecordParameterFetch(status string) {
	if m == nil {
		return
	}
	m.ParameterFetches.WithLabelValues(status).Inc()
}

// RecordSaltFallback records a salt resolution served by configuration overrides
func (m *Metrics) RecordSaltFallback() {
	if m == nil {
		return
	}
	m.SaltFallbacks.Inc()
}

// RecordBreakerTransition records a circuit breaker state change
func (m *Metrics) RecordBreakerTransition(name, to string) {
	if m == nil {
		return
	}
	m.BreakerTransitions.WithLabelValues(name, to).Inc()
}
