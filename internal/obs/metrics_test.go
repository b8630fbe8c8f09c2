package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/alex-user-go/serpgateway/internal/obs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMetrics_Observe(t *testing.T) {
	m := obs.NewMetrics(zap.NewNop())

	m.Observe("hotels", obs.OutcomeOK)
	m.Observe("hotels", obs.OutcomeOK)
	m.Observe("hotels", obs.OutcomeUnavailable)
	m.Observe("region", obs.OutcomeUpstreamError)
	m.Observe("autocomplete", obs.OutcomeValidation)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests("hotels", obs.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests("hotels", obs.OutcomeUnavailable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests("region", obs.OutcomeUpstreamError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests("autocomplete", obs.OutcomeValidation)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Requests("region", obs.OutcomeOK)))
}

func TestMetrics_Isolated(t *testing.T) {
	a := obs.NewMetrics(zap.NewNop())
	b := obs.NewMetrics(zap.NewNop())

	a.Observe("region", obs.OutcomeOK)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Requests("region", obs.OutcomeOK)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Requests("region", obs.OutcomeOK)))
}

func TestMetricsHandler(t *testing.T) {
	m := obs.NewMetrics(zap.NewNop())
	m.Observe("hotels", obs.OutcomeOK)
	m.Observe("region", obs.OutcomeUpstreamError)

	r := gin.New()
	r.GET("/metrics", m.MetricsHandler())
	r.GET("/healthz", obs.HealthHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	body := w.Body.String()
	assert.Contains(t, body, "# TYPE serp_gateway_requests_total counter\n")
	assert.Contains(t, body, `serp_gateway_requests_total{endpoint="hotels",outcome="ok"} 1`)
	assert.Contains(t, body, `serp_gateway_requests_total{endpoint="region",outcome="upstream_error"} 1`)
	assert.Contains(t, body, "go_goroutines")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
