// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: it wires the database, the auth
// primitives, the service layer, and the handlers together, and owns the
// server lifecycle (start, graceful shutdown, closing the database).
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go: config.Load() → server.New(cfg, logger)
//	server.New: sqlite.DB → TokenService/PasswordService → AuthService → AuthHandler
//
// Each layer only receives what it needs: the service gets the repository
// interface (not the concrete sqlite.DB), the handler gets the service
// (not the repository).
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/auth-service/internal/auth"
	"github.com/sakif/auth-service/internal/config"
	"github.com/sakif/auth-service/internal/handler"
	"github.com/sakif/auth-service/internal/middleware"
	sqliteRepo "github.com/sakif/auth-service/internal/repository/sqlite"
	"github.com/sakif/auth-service/internal/service"
)

// requestTimeout bounds every request end-to-end, covering the store
// round-trip and the bcrypt work. Nothing in this API should take longer.
const requestTimeout = 10 * time.Second

// Server represents the HTTP server and all its dependencies.
// It owns the database connection and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                    → liveness text
//	POST /api/auth/register   → create account
//	POST /api/auth/login      → verify credentials, set session cookie
//	GET  /api/auth/me         → identity from the session token (auth required)
//	POST /api/auth/logout     → clear session cookie
//
// Middleware order matters: RequestID and RealIP first (so logging sees
// them), then logging, panic recovery, the request timeout, and CORS.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(requestTimeout))

	// Credentialed CORS for exactly one configured frontend origin.
	// AllowCredentials makes the browser send and accept the session
	// cookie cross-origin; that is only safe because the origin list is
	// a single explicit value, never "*".
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.config.Production(), s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API is running"))
	})

	s.router.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		r.Post("/logout", authHandler.HandleLogout)
	})

	return nil
}

// Start starts the HTTP server and blocks until shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections on SIGINT/SIGTERM
//  2. Wait up to 30s for in-flight requests to finish
//  3. Close the database (flushes WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("env", s.config.Env),
			slog.String("database", s.config.DBPath),
			slog.String("corsOrigin", s.config.CORSOrigin),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
