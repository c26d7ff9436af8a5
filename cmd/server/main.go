package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mctaxshelter/site-api/internal/config"
	"github.com/mctaxshelter/site-api/internal/http/health"
	"github.com/mctaxshelter/site-api/internal/http/v1/routes"
	applog "github.com/mctaxshelter/site-api/internal/platform/logging"
	appmiddleware "github.com/mctaxshelter/site-api/internal/platform/middleware"
	"github.com/mctaxshelter/site-api/internal/platform/respond"
	bookingsvc "github.com/mctaxshelter/site-api/internal/service/booking"
	contactsvc "github.com/mctaxshelter/site-api/internal/service/contact"
	"github.com/mctaxshelter/site-api/internal/service/submission"
	"github.com/mctaxshelter/site-api/internal/sink"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const apiTitle = "McTaxShelter Site API"

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(context.Background(), "invalid configuration", err)
	}
	if cfg.IsDevelopment() {
		applog.SetLevel(zapcore.DebugLevel)
	}
	respond.Install()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, newSink(cfg)),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("timezone", cfg.Location.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		applog.LogError(ctx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// newSink always logs accepted submissions and also forwards them to the HTTP
// log drain when one is configured.
func newSink(cfg *config.Config) sink.Sink {
	logSink := sink.NewLogSink()
	if cfg.LogDrainURL == "" {
		return logSink
	}
	drain := sink.NewDrainSink(&http.Client{}, cfg.LogDrainURL,
		sink.WithToken(cfg.LogDrainToken),
		sink.WithTimeout(cfg.LogDrainTimeout),
	)
	return sink.Multi(logSink, drain)
}

func newRouter(cfg *config.Config, s sink.Sink) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(routes.DocsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.CORSOrigins...),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		chimiddleware.RealIP,
		chimiddleware.RequestSize(cfg.MaxBodyBytes),
		applog.RequestLogger(cfg.ProjectID),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler)
	router.Head("/health", health.Handler)

	api := routes.NewAPI(router, apiTitle, Version)
	opts := []submission.Option{submission.WithLocation(cfg.Location)}
	routes.Register(api, routes.Services{
		Contact:      contactsvc.NewRecorder(s, opts...),
		Booking:      bookingsvc.NewRecorder(s, opts...),
		ExposeDetail: cfg.IsDevelopment(),
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	return router
}
