package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sihui"

// Collector holds the client-side Prometheus collectors.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  prometheus.Counter
	failures *prometheus.CounterVec
}

// New creates a collector with its own registry
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight API requests.",
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "requests_total",
				Help:      "Total number of API requests sent, by outcome status (0 = no response).",
			},
			[]string{"method", "endpoint", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "request_duration_seconds",
				Help:      "Duration of API requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "endpoint"},
		),
		retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resilience",
				Name:      "retries_total",
				Help:      "Total number of retried operation attempts.",
			},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resilience",
				Name:      "failures_total",
				Help:      "Total number of operations that failed after all attempts, by error code.",
			},
			[]string{"code"},
		),
	}

	c.registry.MustRegister(
		c.inFlight,
		c.requests,
		c.duration,
		c.retries,
		c.failures,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler returns an HTTP handler exposing the registered metrics
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request as in flight
func (c *Collector) RequestStarted() {
	if c == nil {
		return
	}
	c.inFlight.Inc()
}

// RequestFinished records a completed request
func (c *Collector) RequestFinished(method, endpoint string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.inFlight.Dec()
	c.requests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// Retry records one retried attempt
func (c *Collector) Retry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// Failure records an operation that gave up with the given error code
func (c *Collector) Failure(code string) {
	if c == nil {
		return
	}
	c.failures.WithLabelValues(code).Inc()
}
