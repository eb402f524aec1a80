package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records Paycek API calls and callback verifications.
// It implements ports.Metrics.
type ClientMetrics struct {
	callsTotal     *prometheus.CounterVec
	callDuration   *prometheus.HistogramVec
	callbacksTotal *prometheus.CounterVec
}

// NewClientMetrics creates the collectors and registers them with reg
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paycek_api_calls_total",
				Help: "Total number of Paycek API calls",
			},
			[]string{"endpoint", "outcome", "status"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paycek_api_call_duration_seconds",
				Help:    "Duration of Paycek API calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		callbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paycek_callback_verifications_total",
				Help: "Total number of Paycek callback verifications",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.callsTotal, m.callDuration, m.callbacksTotal)
	return m
}

// ObserveCall implements ports.Metrics
func (m *ClientMetrics) ObserveCall(endpoint, outcome string, statusCode int, elapsed time.Duration) {
	status := "none"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.callsTotal.WithLabelValues(endpoint, outcome, status).Inc()
	m.callDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveCallback implements ports.Metrics
func (m *ClientMetrics) ObserveCallback(authorized bool) {
	result := "unauthorized"
	if authorized {
		result = "authorized"
	}
	m.callbacksTotal.WithLabelValues(result).Inc()
}
