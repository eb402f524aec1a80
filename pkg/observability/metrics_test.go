package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMetrics_ObserveCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)

	m.ObserveCall("/processing/api/payment/open", "ok", 200, 120*time.Millisecond)
	m.ObserveCall("/processing/api/payment/open", "ok", 200, 80*time.Millisecond)
	m.ObserveCall("/processing/api/payment/get", "transport_error", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("/processing/api/payment/open", "ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("/processing/api/payment/get", "transport_error", "none")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.callDuration))
}

func TestClientMetrics_ObserveCallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)

	m.ObserveCallback(true)
	m.ObserveCallback(false)
	m.ObserveCallback(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.callbacksTotal.WithLabelValues("authorized")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.callbacksTotal.WithLabelValues("unauthorized")))
}

func TestMetricsMux(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)
	m.ObserveCallback(true)

	health := NewHealthChecker()
	health.Register("credentials", func(ctx context.Context) error { return nil })

	server := httptest.NewServer(NewMetricsMux(reg, health))
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `paycek_callback_verifications_total{result="authorized"} 1`)

	healthResp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer healthResp.Body.Close()
	assert.Equal(t, http.StatusOK, healthResp.StatusCode)
}

func TestHealthChecker_Unhealthy(t *testing.T) {
	health := NewHealthChecker()
	health.Register("credentials", func(ctx context.Context) error { return nil })
	health.Register("secrets", func(ctx context.Context) error { return errors.New("vault sealed") })

	status := health.Check(context.Background())

	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "healthy", status.Checks["credentials"])
	assert.Equal(t, "unhealthy: vault sealed", status.Checks["secrets"])

	rec := httptest.NewRecorder()
	health.HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
