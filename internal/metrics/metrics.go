// Package metrics exposes Prometheus collectors for checking runs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codewithboateng/lracheck/internal/model"
)

// Metrics owns its own registry so repeated runs in one process (and tests)
// never collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	classesChecked prometheus.Counter
	findings       *prometheus.CounterVec
	checkDuration  prometheus.Histogram
	runs           *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		classesChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lracheck_classes_checked_total",
			Help: "Total number of LRA participant classes validated",
		}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lracheck_findings_total",
			Help: "Total number of findings by error code",
		}, []string{"code"}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lracheck_class_check_duration_seconds",
			Help:    "Time spent validating one class",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lracheck_runs_total",
			Help: "Total number of checking runs by outcome",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lracheck_http_requests_total",
			Help: "Total number of API requests by route and status code",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lracheck_http_request_duration_seconds",
			Help:    "API request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.Registry.MustRegister(m.classesChecked, m.findings, m.checkDuration, m.runs,
		m.httpRequests, m.httpDuration)
	return m
}

// ObserveClass records one validated class. Nil receivers are no-ops.
func (m *Metrics) ObserveClass(fs []model.Finding, d time.Duration) {
	if m == nil {
		return
	}
	m.classesChecked.Inc()
	m.checkDuration.Observe(d.Seconds())
	for _, f := range fs {
		m.findings.WithLabelValues(string(f.Code)).Inc()
	}
}

// ObserveRun records the outcome of a whole run.
func (m *Metrics) ObserveRun(passed bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.runs.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served API request. route is the matched mux
// pattern, never the raw path.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
