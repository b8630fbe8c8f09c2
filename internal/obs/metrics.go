package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Values of the "outcome" label.
const (
	OutcomeOK            = "ok"
	OutcomeValidation    = "validation"
	OutcomeUpstreamError = "upstream_error"
	OutcomeUnavailable   = "unavailable"
)

// Metrics holds the gateway collectors. Each instance owns its registry, so
// several apps in one process do not share counters.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	logger   *zap.Logger
}

// NewMetrics creates a new Metrics instance with Go runtime and process
// collectors registered alongside the request counter.
func NewMetrics(logger *zap.Logger) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "serp_gateway",
		Name:      "requests_total",
		Help:      "Gateway requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry: registry,
		requests: requests,
		logger:   logger,
	}
}

// Observe counts one finished request.
func (m *Metrics) Observe(endpoint, outcome string) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

// Requests returns the request counter for one endpoint and outcome.
func (m *Metrics) Requests(endpoint, outcome string) prometheus.Counter {
	return m.requests.WithLabelValues(endpoint, outcome)
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

// MetricsHandler serves the registry in the Prometheus exposition format.
func (m *Metrics) MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
		Registry: m.registry,
	}))
}
