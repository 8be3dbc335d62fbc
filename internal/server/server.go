package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"camwatch/internal/api"
	"camwatch/internal/cache"
	"camwatch/internal/config"
	"camwatch/internal/db"
	"camwatch/internal/events"
	"camwatch/internal/monitor"
	"camwatch/internal/ratelimit"
	"camwatch/internal/session"
)

type Server struct {
	cfg        *config.Config
	deps       *Dependency
	httpServer *http.Server
	limits     *ratelimit.Store
	bus        events.Bus
	recorder   *events.Recorder
	logger     *slog.Logger
}

func NewServer(cfg *config.Config, deps *Dependency) *Server {
	logger := deps.Logger

	sessionCache := cache.NewSessionCache(deps.Cache, cfg.Session.ExpireDays)
	rateLimitCache := cache.NewRateLimitCache(deps.Cache, cfg.RateLimit.Window)
	sessionStore := db.NewSessionStore(deps.DB)
	userStore := db.NewUserStore(deps.DB)

	resolver := session.NewResolver(sessionCache, sessionStore, logger)
	limits := ratelimit.NewStore(rateLimitCache, cfg.RateLimit.Window, logger)

	cookieAge := time.Duration(cfg.Session.ExpireDays) * 24 * time.Hour
	signer := api.NewCookieSigner(cfg.Server.CookieSecret, cookieAge)

	bus := events.NewRedisBus(deps.Events, logger)
	recorder := events.NewRecorder(0)

	auth := api.NewAuthHandler(userStore, resolver, signer, logger)
	probe := api.NewProbeHandler(
		api.OutcomePinger(deps.DB.Ping),
		api.OutcomePinger(deps.Cache.Ping),
		signer,
	)
	jobEvents := api.NewEventsHandler(recorder)

	router := api.NewRouter(api.RouterConfig{
		CORSOrigin: cfg.Server.CORSOrigin,
		MaxCalls:   cfg.RateLimit.MaxCalls,
	}, auth, probe, jobEvents, limits, signer)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		cfg:        cfg,
		deps:       deps,
		httpServer: httpServer,
		limits:     limits,
		bus:        bus,
		recorder:   recorder,
		logger:     logger,
	}
}

func (s *Server) Start(ctx context.Context) error {
	go s.limits.Start()

	go func() {
		// Ends when Close tears down the events connection.
		if err := events.Record(ctx, s.bus, s.recorder, s.logger); err != nil {
			s.logger.Warn("Job event subscription failed", "error", err)
		}
	}()

	go func() {
		if err := monitor.StartMetricsServer(ctx, s.cfg.Metrics.Addr, s.logger); err != nil {
			s.logger.Error("Metrics server failed", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server", "addr", s.cfg.Server.Addr)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received, draining...")
	case err := <-errCh:
		return err
	}

	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.limits.Stop()

	s.logger.Info("Server stopped gracefully")
	return nil
}
