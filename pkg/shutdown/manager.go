package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Func stops one component
type Func func(context.Context) error

type component struct {
	name string
	stop Func
}

// Manager stops registered components in reverse registration order.
// Register the listener that accepts work before the things that work depends on.
type Manager struct {
	logger     *zap.Logger
	timeout    time.Duration
	mu         sync.Mutex
	components []component

	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewManager creates a shutdown manager. reg may be nil to skip metrics.
func NewManager(logger *zap.Logger, timeout time.Duration, reg prometheus.Registerer) *Manager {
	m := &Manager{
		logger:  logger,
		timeout: timeout,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shutdown_component_duration_seconds",
			Help:    "Time taken to stop individual components",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 15},
		}, []string{"component"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shutdown_errors_total",
			Help: "Shutdown errors by component",
		}, []string{"component"}),
	}
	if reg != nil {
		reg.MustRegister(m.duration, m.errors)
	}
	return m
}

// Register adds a component. Components stop in LIFO order.
func (m *Manager) Register(name string, fn Func) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{name: name, stop: fn})
	m.logger.Debug("Registered shutdown component",
		zap.String("component", name),
		zap.Int("registration_order", len(m.components)),
	)
}

// RegisterHTTPServer registers anything with an http.Server style Shutdown
func (m *Manager) RegisterHTTPServer(name string, server interface{ Shutdown(context.Context) error }) {
	m.Register(name, server.Shutdown)
}

// WaitForSignal blocks until SIGINT or SIGTERM, then runs Shutdown
func (m *Manager) WaitForSignal() map[string]error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	sig := <-quit
	m.logger.Info("Received shutdown signal",
		zap.String("signal", sig.String()),
		zap.Duration("timeout", m.timeout),
	)
	return m.Shutdown()
}

// Shutdown stops every component one at a time, newest first, sharing one
// deadline. It returns the errors keyed by component name.
func (m *Manager) Shutdown() map[string]error {
	m.mu.Lock()
	components := make([]component, len(m.components))
	copy(components, m.components)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	start := time.Now()
	errs := make(map[string]error)
	for i := len(components) - 1; i >= 0; i-- {
		comp := components[i]
		compStart := time.Now()

		if err := comp.stop(ctx); err != nil {
			errs[comp.name] = err
			m.errors.WithLabelValues(comp.name).Inc()
			m.logger.Error("Component shutdown failed",
				zap.String("component", comp.name),
				zap.Error(err),
			)
		} else {
			m.logger.Info("Component stopped",
				zap.String("component", comp.name),
				zap.Duration("elapsed", time.Since(compStart)),
			)
		}
		m.duration.WithLabelValues(comp.name).Observe(time.Since(compStart).Seconds())
	}

	if len(errs) > 0 {
		m.logger.Error("Shutdown completed with errors",
			zap.Int("error_count", len(errs)),
			zap.Duration("elapsed", time.Since(start)),
		)
	} else {
		m.logger.Info("Shutdown completed", zap.Duration("elapsed", time.Since(start)))
	}
	return errs
}
