package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the campaign metrics and the registry they are exported from.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	llmRequests    *prometheus.CounterVec
	llmDuration    *prometheus.HistogramVec
	leadsProcessed *prometheus.CounterVec
	emails         *prometheus.CounterVec
	crmSyncs       *prometheus.CounterVec
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	runInProgress  prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewManager creates a metrics manager on its own registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "campaign",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.llmRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "llm",
		Name:      "requests_total",
		Help:      "Text generation calls by backend and outcome",
	}, []string{"backend", "outcome"})

	m.llmDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "llm",
		Name:      "request_duration_seconds",
		Help:      "Text generation latency by backend",
		Buckets:   m.histogramBuckets,
	}, []string{"backend"})

	m.leadsProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "leads_processed_total",
		Help:      "Leads enriched by priority band",
	}, []string{"priority"})

	m.emails = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "emails_total",
		Help:      "Email delivery attempts by result",
	}, []string{"result"})

	m.crmSyncs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "crm_syncs_total",
		Help:      "CRM sync attempts by target and outcome",
	}, []string{"target", "outcome"})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "runs_total",
		Help:      "Campaign runs by final status",
	}, []string{"status"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a campaign run",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	m.runInProgress = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "run_in_progress",
		Help:      "1 while a campaign run is executing",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   m.histogramBuckets,
	}, []string{"route"})
}

// Registry returns the registry metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGeneration records one text generation call. Outcome is "ok",
// "error" or "fallback".
func (m *Manager) ObserveGeneration(backend, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(backend, outcome).Inc()
	m.llmDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// LeadProcessed counts one enriched lead.
func (m *Manager) LeadProcessed(priority string) {
	if m == nil {
		return
	}
	m.leadsProcessed.WithLabelValues(priority).Inc()
}

// EmailDelivery counts one delivery outcome ("sent", "skipped" or "failed").
func (m *Manager) EmailDelivery(result string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(result).Inc()
}

// CRMSync counts one CRM sync attempt.
func (m *Manager) CRMSync(target string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.crmSyncs.WithLabelValues(target, outcome).Inc()
}

// RunStarted marks a run as in progress.
func (m *Manager) RunStarted() {
	if m == nil {
		return
	}
	m.runInProgress.Set(1)
}

// RunFinished records the final status and duration of a run.
func (m *Manager) RunFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.runInProgress.Set(0)
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
}

// ObserveHTTP records one served HTTP request.
func (m *Manager) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
