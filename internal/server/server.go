// Package server wires the chi router: global middleware, the public and
// authenticated route groups, and the health endpoint. Which routes require
// authentication is decided here, per group, and nowhere else.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hallboard/hallboard/internal/handler"
	"github.com/hallboard/hallboard/internal/openapi"
	"github.com/hallboard/hallboard/internal/server/middleware"
	"github.com/hallboard/hallboard/internal/service"
	"github.com/hallboard/hallboard/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host               string
	Port               int
	ShutdownTimeout    time.Duration
	CORSOrigins        []string
	SecureCookies      bool
	RateLimitPerMinute int
	Version            string
}

// DefaultConfig returns a Config with sensible defaults for a small
// single-process deployment.
func DefaultConfig() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               4000,
		ShutdownTimeout:    30 * time.Second,
		CORSOrigins:        []string{"http://localhost:5173"},
		RateLimitPerMinute: 600,
		Version:            "dev",
	}
}

// Server is the top-level HTTP server. It owns the chi router and delegates
// all state to the injected store and auth service.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	authSvc    *service.AuthService
	httpServer *http.Server
	logger     *slog.Logger
	startedAt  time.Time
}

// New creates a Server with all routes and middleware wired, ready to
// listen.
func New(cfg Config, st *store.Store, authSvc *service.AuthService, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		authSvc:   authSvc,
		logger:    logger,
		startedAt: time.Now(),
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if s.cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.RateLimit(s.cfg.RateLimitPerMinute))
	}

	authHandler := handler.NewAuthHandler(s.authSvc, s.logger, s.cfg.SecureCookies)
	hofHandler := handler.NewHoFHandler(s.store, s.logger)
	wbcHandler := handler.NewWBCHandler(s.store, s.logger)
	profileHandler := handler.NewProfileHandler(s.store, s.logger)

	authenticate := middleware.Authenticate(s.authSvc)

	r.Get("/api/health", s.handleHealth)
	r.Get("/openapi.json", s.handleOpenAPI)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", authHandler.Me)
		})
	})

	// Entry listings are public; every mutating route and the profile
	// lookup require a valid session.
	r.Route("/api/hof", func(r chi.Router) {
		r.Get("/", hofHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/profile", profileHandler.Get)
			r.Post("/", hofHandler.Create)
			r.Put("/{id}", hofHandler.Replace)
			r.Patch("/{id}/placement", hofHandler.PatchPlacement)
			r.Delete("/{id}", hofHandler.Delete)
		})
	})

	r.Route("/api/wbc", func(r chi.Router) {
		r.Get("/", wbcHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/profile", profileHandler.Get)
			r.Post("/", wbcHandler.Create)
			r.Put("/{id}", wbcHandler.Replace)
			r.Delete("/{id}", wbcHandler.Delete)
		})
	})

	s.router = r
}

// handleHealth reports process uptime and database reachability. It always
// answers 200 so uptime monitors distinguish "process down" from "store
// degraded" by the status field.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	ok := true
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check db ping failed", "error", err)
		status = "degraded"
		ok = false
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":        ok,
		"status":    status,
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("http://%s", r.Host)
	if r.TLS != nil {
		baseURL = fmt.Sprintf("https://%s", r.Host)
	}
	doc := openapi.Generate(baseURL, s.cfg.Version)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(doc)
}

// ListenAndServe starts the HTTP server and blocks until SIGINT or SIGTERM,
// then drains in-flight requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
