package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clubops/boardroom-backend/internal/transport/middleware"
)

// Metrics holds the Prometheus registry and the HTTP instruments served
// on /metrics. Labels stay low-cardinality: method and status code only,
// never raw request paths.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	planStatusChanges *prometheus.CounterVec
	approvalsRecorded *prometheus.CounterVec
}

// NewMetrics creates a registry with Go runtime and process collectors
// plus the HTTP request instruments.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardroom",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "boardroom",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		planStatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardroom",
			Subsystem: "transition",
			Name:      "plan_status_changes_total",
			Help:      "Plan status transitions by resulting status.",
		}, []string{"to"}),
		approvalsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardroom",
			Subsystem: "transition",
			Name:      "approvals_recorded_total",
			Help:      "Approvals recorded by governance role.",
		}, []string{"role"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.planStatusChanges, m.approvalsRecorded)

	return m
}

// PlanStatusChanged counts a successful transition into the given status.
func (m *Metrics) PlanStatusChanged(to string) {
	m.planStatusChanges.WithLabelValues(to).Inc()
}

// ApprovalRecorded counts one recorded approval for a governance role.
func (m *Metrics) ApprovalRecorded(role string) {
	m.approvalsRecorded.WithLabelValues(role).Inc()
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument counts requests and observes latency. It belongs in the base
// middleware chain so every route is covered.
func (m *Metrics) Instrument() middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &codeRecorder{ResponseWriter: w, code: http.StatusOK}

			next.ServeHTTP(rec, r)

			m.httpRequests.WithLabelValues(r.Method, strconv.Itoa(rec.code)).Inc()
			m.httpDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

type codeRecorder struct {
	http.ResponseWriter
	code int
}

func (w *codeRecorder) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
