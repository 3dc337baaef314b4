package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the relay's instruments on a private registry, so the
// exposition carries only what the relay itself records.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	downstreamTotal *prometheus.CounterVec
}

// New creates and registers the relay instruments.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_http_requests_total",
		Help: "HTTP requests handled, by method, endpoint and status code.",
	}, []string{"method", "endpoint", "status"})
	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_http_request_duration_seconds",
		Help:    "HTTP request latency by method and endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})
	m.downstreamTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_downstream_requests_total",
		Help: "Downstream API calls by target and status code. Status 0 is a transport failure.",
	}, []string{"target", "status"})
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.downstreamTotal)
	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordDownstream counts one downstream call.
func (m *Metrics) RecordDownstream(target string, status int) {
	m.downstreamTotal.WithLabelValues(target, strconv.Itoa(status)).Inc()
}

// Middleware records count and latency for every handled request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		endpoint := endpointName(r.URL.Path)
		m.requestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(sw.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// endpointName folds request paths into a bounded label set, so per-entity
// ids cannot explode the label cardinality.
func endpointName(path string) string {
	switch {
	case path == "/":
		return "root"
	case path == "/health":
		return "health"
	case path == "/metrics":
		return "metrics"
	case path == "/anthropic":
		return "anthropic"
	case strings.HasPrefix(path, "/ghl/"):
		area := strings.TrimPrefix(path, "/ghl/")
		if idx := strings.IndexByte(area, '/'); idx > 0 {
			area = area[:idx]
		}
		if area == "" {
			return "ghl"
		}
		return "ghl_" + area
	case strings.HasPrefix(path, "/drive/"):
		return "drive"
	case strings.HasPrefix(path, "/vision/"):
		return "vision"
	case strings.HasPrefix(path, "/supabase/"):
		return "supabase"
	default:
		return "other"
	}
}
