package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hynews/internal/bootstrap"
	"hynews/internal/infra/cache"
	"hynews/internal/observability/logging"
	"hynews/internal/observability/tracing"
	"hynews/internal/usecase/digest"
	"hynews/internal/usecase/news"
	"hynews/pkg/config"

	hhttp "hynews/internal/handler/http"
	hdigest "hynews/internal/handler/http/digest"
	"hynews/internal/handler/http/middleware"
	"hynews/internal/handler/http/requestid"
	hsrc "hynews/internal/handler/http/source"
)

func main() {
	logger := initLogger()
	version := getVersion()

	shutdownTracing := tracing.Init("hynews-api", version)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	svc, err := bootstrap.NewNewsService(logger)
	if err != nil {
		logger.Error("failed to build news sources", slog.Any("error", err))
		os.Exit(1)
	}

	sum, err := bootstrap.NewSummarizer(logger)
	if err != nil {
		logger.Error("failed to create summarizer", slog.Any("error", err))
		os.Exit(1)
	}

	store, closeStore, err := bootstrap.OpenCache(context.Background())
	if err != nil {
		logger.Error("failed to open digest cache", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close digest cache", slog.Any("error", err))
		}
	}()

	builder, err := bootstrap.NewDigestBuilder(svc, sum, store)
	if err != nil {
		logger.Error("failed to create digest builder", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("components initialized",
		slog.Int("sources", len(svc.Sources())),
		slog.String("cache_backend", bootstrap.CacheBackend()))

	mux := setupRoutes(logger, version, svc, builder, store)
	handler := applyMiddleware(logger, mux)

	runServer(logger, handler, version)
}

// initLogger initializes the JSON logger from LOG_LEVEL and installs it as default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return config.GetEnvString("VERSION", "dev")
}

// setupRoutes registers the listing, digest, health and metrics routes.
func setupRoutes(logger *slog.Logger, version string, svc *news.Service, builder *digest.Builder, store digest.Store) *http.ServeMux {
	mux := http.NewServeMux()

	health := &hhttp.HealthHandler{
		Version:      version,
		SourceCount:  len(svc.Sources()),
		CacheBackend: bootstrap.CacheBackend(),
	}
	if p, ok := store.(hhttp.Pinger); ok {
		health.Cache = p
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /health/breakers", hhttp.BreakersHandler{})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{SourceCount: len(svc.Sources())})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	mux.Handle("GET /", hhttp.IndexHandler{Version: version, Sources: svc.Sources()})
	hsrc.Register(mux, svc)

	// Summaries are the only route that can reach a paid model.
	var limit func(http.Handler) http.Handler
	if perMinute := config.GetEnvInt("SUMMARY_RATE_LIMIT", 30); perMinute > 0 {
		limit = hhttp.NewRateLimiter(perMinute, perMinute).Limit
		logger.Info("summary rate limiting enabled", slog.Int("per_minute", perMinute))
	} else {
		logger.Warn("summary rate limiting is DISABLED - not recommended for production")
	}
	hdigest.Register(mux, svc, builder, limit)

	if _, ok := store.(*cache.MemoryStore); ok {
		logger.Info("digest cache is process-local, warm-up worker entries are not shared")
	}

	return mux
}

// applyMiddleware wraps the mux with the middleware chain.
// Order, outermost first: CORS, request id, tracing, recovery, logging,
// timeout, security headers, metrics. Metrics wraps the mux directly so the
// matched route pattern is available as its label.
func applyMiddleware(logger *slog.Logger, mux http.Handler) http.Handler {
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = config.GetEnvStringList("CORS_ALLOWED_ORIGINS", corsConfig.AllowedOrigins)
	corsConfig.Logger = logger
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	requestTimeout := config.GetEnvDuration("REQUEST_TIMEOUT", 120*time.Second)

	h := hhttp.MetricsMiddleware(mux)
	h = middleware.SecurityHeaders(h)
	h = hhttp.Timeout(requestTimeout)(h)
	h = hhttp.Logging(logger)(h)
	h = hhttp.Recover(logger)(h)
	h = tracing.Middleware(h)
	h = requestid.Middleware(h)
	h = middleware.CORS(corsConfig)(h)
	return h
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := ":" + strconv.Itoa(config.GetEnvInt("PORT", 8080))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Digest builds can take a while; in-flight requests keep their context
	// until Shutdown returns.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
