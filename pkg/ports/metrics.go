package ports

import "time"

// Call outcomes reported to Metrics
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

// Metrics receives client-side observations
type Metrics interface {
	// ObserveCall records one API call to endpoint with its outcome and HTTP status (0 when none)
	ObserveCall(endpoint, outcome string, statusCode int, elapsed time.Duration)

	// ObserveCallback records the result of one callback verification
	ObserveCallback(authorized bool)
}

// NopMetrics drops every observation
type NopMetrics struct{}

func (NopMetrics) ObserveCall(string, string, int, time.Duration) {}
func (NopMetrics) ObserveCallback(bool)                           {}
