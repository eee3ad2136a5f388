package main

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/tripsplitter/internal/api"
	"github.com/mmynk/tripsplitter/internal/auth"
	"github.com/mmynk/tripsplitter/internal/metrics"
	"github.com/mmynk/tripsplitter/internal/middleware"
	"github.com/mmynk/tripsplitter/internal/service"
	"github.com/mmynk/tripsplitter/internal/storage"
	"github.com/mmynk/tripsplitter/internal/trips"
)

// routerDeps holds what the HTTP surface is built from.
type routerDeps struct {
	store      storage.Store
	jwtManager *auth.JWTManager
	registry   *prometheus.Registry
	logger     *slog.Logger
}

func newRouter(deps routerDeps) http.Handler {
	m := metrics.New(deps.registry)

	authenticator := auth.NewPasswordAuthenticator(deps.store)
	authSvc := service.NewAuthService(authenticator, deps.jwtManager, deps.store, deps.logger)
	tripSvc := service.NewTripService(trips.NewManager(deps.store), m, deps.logger)

	authPath, authHandler := api.NewAuthServiceHandler(authSvc,
		connect.WithInterceptors(
			middleware.MetricsInterceptor(m),
			middleware.OptionalAuth(deps.jwtManager),
			middleware.LoggingInterceptor(),
		),
	)
	tripPath, tripHandler := api.NewTripServiceHandler(tripSvc,
		connect.WithInterceptors(
			middleware.MetricsInterceptor(m),
			middleware.RequireAuth(deps.jwtManager),
			middleware.LoggingInterceptor(),
		),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	r.Mount(authPath, authHandler)
	r.Mount(tripPath, tripHandler)

	return r
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"request_id", chimw.GetReqID(r.Context()),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
