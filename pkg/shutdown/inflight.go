package shutdown

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// InFlightTracker counts requests being handled so shutdown can wait for them
type InFlightTracker struct {
	name       string
	logger     *zap.Logger
	wg         sync.WaitGroup
	mu         sync.RWMutex
	shutdownCh chan struct{}
}

// NewInFlightTracker creates a tracker
func NewInFlightTracker(name string, logger *zap.Logger) *InFlightTracker {
	return &InFlightTracker{
		name:       name,
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Add registers one unit of work. It returns false once shutdown has begun.
func (t *InFlightTracker) Add() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	select {
	case <-t.shutdownCh:
		return false
	default:
		t.wg.Add(1)
		return true
	}
}

// Done marks one unit of work finished
func (t *InFlightTracker) Done() {
	t.wg.Done()
}

// IsShuttingDown reports whether Shutdown has been called
func (t *InFlightTracker) IsShuttingDown() bool {
	select {
	case <-t.shutdownCh:
		return true
	default:
		return false
	}
}

// Shutdown rejects new work and waits for in-flight work or ctx
func (t *InFlightTracker) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	select {
	case <-t.shutdownCh:
	default:
		close(t.shutdownCh)
	}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("All in-flight requests completed", zap.String("tracker", t.name))
		return nil
	case <-ctx.Done():
		t.logger.Warn("Shutdown timeout, in-flight requests abandoned", zap.String("tracker", t.name))
		return ctx.Err()
	}
}

// Middleware tracks each request and answers 503 once shutdown has begun
func (t *InFlightTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.Add() {
			w.Header().Set("Connection", "close")
			http.Error(w, "Service shutting down", http.StatusServiceUnavailable)
			return
		}
		defer t.Done()
		next.ServeHTTP(w, r)
	})
}
