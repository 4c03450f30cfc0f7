// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Backend metrics
	BackendCalls    *prometheus.CounterVec
	BackendDuration prometheus.Histogram

	// Admission metrics
	Rejections *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors with reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friday_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "friday_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route"},
		),
		BackendCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friday_backend_calls_total",
				Help: "Total number of generation backend calls",
			},
			[]string{"status"},
		),
		BackendDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "friday_backend_duration_seconds",
				Help:    "Generation backend call duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
			},
		),
		Rejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "friday_rejections_total",
				Help: "Requests rejected before reaching a handler",
			},
			[]string{"reason"},
		),
		gatherer: reg,
	}
}

func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordBackendCall(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BackendCalls.WithLabelValues(status).Inc()
	m.BackendDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
