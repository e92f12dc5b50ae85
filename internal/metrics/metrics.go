// Package metrics exposes publish and HTTP counters in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "drafts"

// Collector owns its registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	PublishResults  *prometheus.CounterVec
	ConflictRetries prometheus.Counter
	PublishBatches  *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		PublishResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publish_results_total",
				Help:      "Drafts published, by outcome",
			},
			[]string{"outcome"},
		),
		ConflictRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publish_conflict_retries_total",
				Help:      "Writes retried with the existing file sha after a conflict",
			},
		),
		PublishBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publish_batches_total",
				Help:      "Publish requests, by response status",
			},
			[]string{"status"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	c.registry.MustRegister(
		c.PublishResults,
		c.ConflictRetries,
		c.PublishBatches,
		c.HTTPRequests,
		c.HTTPDuration,
	)

	return c
}

func (c *Collector) RecordResult(ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	c.PublishResults.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordConflictRetry() {
	c.ConflictRetries.Inc()
}

func (c *Collector) RecordBatch(status int) {
	c.PublishBatches.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (c *Collector) RecordRequest(method string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
