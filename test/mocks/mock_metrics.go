package mocks

import (
	"sync"
	"time"
)

// CallObservation is one captured ObserveCall
type CallObservation struct {
	Endpoint   string
	Outcome    string
	StatusCode int
	Elapsed    time.Duration
}

// MockMetrics is a mock implementation of ports.Metrics for testing
type MockMetrics struct {
	mu        sync.Mutex
	Calls     []CallObservation
	Callbacks []bool
}

// NewMockMetrics creates a new mock metrics recorder
func NewMockMetrics() *MockMetrics {
	return &MockMetrics{}
}

// ObserveCall implements ports.Metrics
func (m *MockMetrics) ObserveCall(endpoint, outcome string, statusCode int, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, CallObservation{
		Endpoint:   endpoint,
		Outcome:    outcome,
		StatusCode: statusCode,
		Elapsed:    elapsed,
	})
}

// ObserveCallback implements ports.Metrics
func (m *MockMetrics) ObserveCallback(authorized bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Callbacks = append(m.Callbacks, authorized)
}
