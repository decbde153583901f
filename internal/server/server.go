// Package server wires the application together: router, middleware,
// dependency graph, and lifecycle.
//
// COMPOSITION ROOT:
// All dependencies are assembled in one place (New/setupRoutes) rather than
// scattered across the codebase:
//
//	Config → sqlite.DB → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, the router gets handlers. Nothing
// reaches for ambient globals — the database pool in particular is owned by
// the Server, injected downward, and closed on shutdown.
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

	"github.com/sakif/card-trader/internal/auth"
	"github.com/sakif/card-trader/internal/config"
	"github.com/sakif/card-trader/internal/handler"
	"github.com/sakif/card-trader/internal/imageproxy"
	"github.com/sakif/card-trader/internal/middleware"
	"github.com/sakif/card-trader/internal/model"
	sqliteRepo "github.com/sakif/card-trader/internal/repository/sqlite"
	"github.com/sakif/card-trader/internal/service"
)

// Server holds the HTTP router and the resources it owns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB // owned by the server, closed on shutdown
}

// New builds the full dependency graph and returns a Server ready to Start.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
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

// setupRoutes configures middleware and mounts every endpoint.
//
// ROUTE MAP:
//
//	GET    /                            → welcome
//	GET    /api/status                  → server + database health
//	GET    /api/basic-status            → liveness (no database)
//	POST   /api/registro                → register
//	POST   /api/login                   → login
//	GET    /api/user/{username}         → public profile
//	GET    /api/image-proxy             → image optimization
//	GET    /api/user/profile/me         → own profile          (bearer)
//	POST   /api/user/wants|sells        → add card             (bearer)
//	PUT    /api/user/wants|sells/{id}   → update card          (bearer)
//	DELETE /api/user/wants|sells/{id}   → remove card          (bearer)
//
// The {username} route must be registered alongside the more specific
// /user/profile/me and /user/wants routes — chi resolves static segments
// before parameters, so "profile" and "wants" never match as usernames.
func (s *Server) setupRoutes() error {
	// Global middleware, in order: request id → real ip → panic recovery →
	// CORS → request logging.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)

	// The mobile client is served from a different origin (capacitor://,
	// localhost dev server), so CORS is open. No cookies are involved —
	// auth is a bearer header — which keeps a wildcard origin safe.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(middleware.Logger(s.logger))

	// === Build the dependency graph ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	listService := service.NewListService(s.db, s.logger)
	proxyService := imageproxy.New(s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(authService, s.logger)
	listHandler := handler.NewListHandler(listService, s.logger)
	proxyHandler := handler.NewImageProxyHandler(proxyService, s.logger)
	statusHandler := handler.NewStatusHandler(s.db, s.config.Environment)

	requireAuth := auth.RequireAuth(tokens, handler.ErrorWriter{})

	// === Public routes ===
	s.router.Get("/", statusHandler.HandleRoot)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler.HandleStatus)
		r.Get("/basic-status", statusHandler.HandleBasicStatus)

		r.Post("/registro", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		r.Get("/image-proxy", proxyHandler.HandleOptimize)

		r.Get("/user/{username}", profileHandler.HandleGetByUsername)

		// === Protected routes ===
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/user/profile/me", profileHandler.HandleMe)

			r.Post("/user/wants", listHandler.HandleAdd(model.ListWants))
			r.Put("/user/wants/{cardId}", listHandler.HandleUpdate(model.ListWants))
			r.Delete("/user/wants/{cardId}", listHandler.HandleRemove(model.ListWants))

			r.Post("/user/sells", listHandler.HandleAdd(model.ListSells))
			r.Put("/user/sells/{cardId}", listHandler.HandleUpdate(model.ListSells))
			r.Delete("/user/sells/{cardId}", listHandler.HandleRemove(model.ListSells))
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// drain, close the database (flushes the WAL, releases the file lock).
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
			slog.String("database", s.config.DBPath),
			slog.String("environment", s.config.Environment),
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
