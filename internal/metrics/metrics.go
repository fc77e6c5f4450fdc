// Package metrics owns the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookshelf"

type Metrics struct {
	PagesServed  *prometheus.CounterVec
	PageRows     *prometheus.HistogramVec
	PageFailures *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. Passing a fresh
// prometheus.NewRegistry keeps tests isolated from the default registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PagesServed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pages_served_total",
				Help:      "Total number of paginated responses served.",
			},
			[]string{"resource", "handle"}, // handle: model/collection
		),
		PageRows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "page_rows",
				Help:      "Rows returned per page.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"resource"},
		),
		PageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "page_failures_total",
				Help:      "Total number of paginated fetches that returned an error.",
			},
			[]string{"resource"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.PagesServed, m.PageRows, m.PageFailures, m.HTTPRequests, m.HTTPDuration)
	}
	return m
}

// ObservePage records one page served for resource. A nil receiver is a no-op.
func (m *Metrics) ObservePage(resource, handle string, rows int) {
	if m == nil {
		return
	}
	m.PagesServed.WithLabelValues(resource, handle).Inc()
	m.PageRows.WithLabelValues(resource).Observe(float64(rows))
}

func (m *Metrics) ObservePageFailure(resource string) {
	if m == nil {
		return
	}
	m.PageFailures.WithLabelValues(resource).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
