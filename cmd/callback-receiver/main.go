package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/kevin07696/paycek-go/internal/adapters/secrets"
	"github.com/kevin07696/paycek-go/internal/config"
	"github.com/kevin07696/paycek-go/pkg/logging"
	"github.com/kevin07696/paycek-go/pkg/observability"
	"github.com/kevin07696/paycek-go/pkg/paycek"
	"github.com/kevin07696/paycek-go/pkg/shutdown"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	logger, err := logging.NewFromConfig(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zl := logger.Zap()

	zl.Info("Starting Paycek callback receiver",
		zap.String("addr", cfg.Callback.Addr),
		zap.String("path", cfg.Callback.Path),
		zap.String("secrets_backend", cfg.Secrets.Backend),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	creds, err := secrets.ResolveCredentials(ctx, cfg, zl)
	cancel()
	if err != nil {
		zl.Fatal("Failed to resolve Paycek credentials", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := paycek.NewClient(
		paycek.Config{Credentials: creds, Host: cfg.Paycek.Host},
		nil,
		logger,
		observability.NewClientMetrics(registry),
	)
	if err != nil {
		zl.Fatal("Failed to create Paycek client", zap.Error(err))
	}

	var serving atomic.Bool
	health := observability.NewHealthChecker()
	health.Register("callback_server", func(ctx context.Context) error {
		if !serving.Load() {
			return errors.New("not serving")
		}
		return nil
	})

	tracker := shutdown.NewInFlightTracker("callbacks", zl)
	httpServer := &http.Server{
		Addr:              cfg.Callback.Addr,
		Handler:           tracker.Middleware(newCallbackMux(client, cfg.Callback.Path, zl)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if _, err := startCallbackServer(httpServer, &serving, zl); err != nil {
		zl.Fatal("Failed to bind callback listener", zap.Error(err))
	}

	metricsServer := observability.StartMetricsServer(cfg.Callback.MetricsPort, registry, health, zl)

	// LIFO: the callback listener stops first, then in-flight callbacks drain
	shutdownMgr := shutdown.NewManager(zl, 15*time.Second, registry)
	shutdownMgr.Register("metrics_server", func(context.Context) error {
		return observability.ShutdownMetricsServer(metricsServer)
	})
	shutdownMgr.Register("inflight_callbacks", tracker.Shutdown)
	shutdownMgr.Register("callback_server", func(ctx context.Context) error {
		serving.Store(false)
		return httpServer.Shutdown(ctx)
	})
	shutdownMgr.WaitForSignal()

	zl.Info("Callback receiver stopped")
}

// startCallbackServer binds srv.Addr and serves in the background. serving turns
// true only once the port is bound, so /health never runs ahead of the listener.
func startCallbackServer(srv *http.Server, serving *atomic.Bool, logger *zap.Logger) (net.Addr, error) {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}
	serving.Store(true)
	logger.Info("Callback server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			serving.Store(false)
			logger.Error("Callback server failed", zap.Error(err))
		}
	}()
	return ln.Addr(), nil
}

// newCallbackMux mounts the authenticated callback handler at path
func newCallbackMux(client *paycek.Client, path string, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(path, client.CallbackMiddleware(callbackHandler(logger)))
	return mux
}

// callbackHandler logs the verified payload and acknowledges it
func callbackHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
		}
		var payload map[string]any
		if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
			fields = append(fields, zap.Any("payload", payload))
		} else {
			fields = append(fields, zap.ByteString("raw_body", body))
		}
		logger.Info("Received Paycek callback", fields...)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
