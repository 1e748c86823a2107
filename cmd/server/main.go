package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/stash/internal/auth"
	"github.com/mmynk/stash/internal/config"
	"github.com/mmynk/stash/internal/metrics"
	"github.com/mmynk/stash/internal/middleware"
	"github.com/mmynk/stash/internal/savings"
	"github.com/mmynk/stash/internal/service"
	"github.com/mmynk/stash/internal/storage"
	"github.com/mmynk/stash/internal/storage/redis"
	"github.com/mmynk/stash/internal/storage/sqlite"
	"github.com/mmynk/stash/pkg/api/apiconnect"
	"github.com/mmynk/stash/pkg/logging"
)

func main() {
	envLoaded := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if !envLoaded {
		logger.Debug("No .env file found, relying on existing environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	m := metrics.New()
	ledger := savings.New(store, savings.WithLogger(logger))
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	handler := newHandler(cfg, ledger, jwtManager, m, logger)

	srv := &http.Server{
		Addr: cfg.HTTPAddress(),
		// h2c for HTTP/2 without TLS (required for Connect)
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Connect server starting",
			"address", srv.Addr,
			"url", fmt.Sprintf("http://localhost%s", srv.Addr),
			"backend", cfg.StoreBackend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		store, err := redis.New(ctx, redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "backend", "redis", "address", cfg.RedisAddr, "db", cfg.RedisDB)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "backend", "sqlite", "database", cfg.DBPath)
		return store, nil
	}
}

// newHandler mounts the SavingsService, /metrics and /healthz behind the
// request logging and CORS middleware.
func newHandler(cfg config.Config, ledger *savings.Ledger, jwtManager *auth.JWTManager, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	svc := service.NewSavingsService(ledger, m, logger)
	path, svcHandler := apiconnect.NewSavingsServiceHandler(svc, connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.LoggingInterceptor(logger),
		middleware.Authenticate(jwtManager, service.PublicProcedures...),
	))
	mux.Handle(path, svcHandler)

	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	return loggingMiddleware(logger, corsMiddleware(cfg.CORSOrigins, mux))
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		logger.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access from allowed origins.
func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	allowAll := slices.Contains(allowed, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(allowed, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms, X-Request-Id")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, X-Request-Id, Stash-Error-Code")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
