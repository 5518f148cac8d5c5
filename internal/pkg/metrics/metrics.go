package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the HTTP and session collectors exported on /metrics
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	ActiveSessions  prometheus.Gauge
	SessionResets   prometheus.Counter
	Logins          *prometheus.CounterVec
	FilesUploaded   *prometheus.CounterVec
	UsageRecorded   prometheus.Counter
	SessionsEvicted prometheus.Counter
}

// New creates the collectors and registers them on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "session_nodes_active",
			Help: "Session nodes currently held in memory.",
		}),
		SessionResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "session_resets_total",
			Help: "Session wipes performed by login and logout.",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_logins_total",
			Help: "Successful logins by role.",
		}, []string{"role"}),
		FilesUploaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_files_uploaded_total",
			Help: "Documents added to vaults and research collections.",
		}, []string{"source"}),
		UsageRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "session_usage_units_total",
			Help: "Assistant usage units recorded across sessions.",
		}),
		SessionsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "session_nodes_evicted_total",
			Help: "Idle session nodes removed by the sweeper.",
		}),
	}

	m.registry.MustRegister(
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.ActiveSessions, m.SessionResets, m.Logins, m.FilesUploaded, m.UsageRecorded, m.SessionsEvicted,
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument is a gin middleware recording RPS, latency and in-flight requests.
// Paths are labelled with the route template to keep cardinality bounded.
func (m *Metrics) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.httpInFlight.Inc()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpInFlight.Dec()
	}
}
