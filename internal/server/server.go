// Package server sets up the HTTP server, router, and all route
// definitions. This is the composition root — every dependency is wired
// here (DB → repositories → OMDb client → service → handlers) rather
// than scattered across the codebase.
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

	"github.com/Pooch41/Cinephile-Online/internal/config"
	"github.com/Pooch41/Cinephile-Online/internal/handler"
	"github.com/Pooch41/Cinephile-Online/internal/middleware"
	"github.com/Pooch41/Cinephile-Online/internal/omdb"
	sqliteRepo "github.com/Pooch41/Cinephile-Online/internal/repository/sqlite"
	"github.com/Pooch41/Cinephile-Online/internal/service"
)

// Server owns the router and the database connection. The DB is closed
// during graceful shutdown so pending WAL writes are flushed.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and registers the routes.
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

// setupRoutes configures middleware and the route table.
//
// ROUTE STRUCTURE:
//
//	GET  /                                         → users page (HTML)
//	GET  /static/*                                 → static assets
//	POST /users                                    → create user (JSON)
//	GET  /users/{userId}/movies                    → user's movies page (HTML)
//	POST /users/{userId}/movies                    → add favourite (JSON)
//	POST /users/{userId}/movies/{movieId}/update   → rename movie (JSON)
//	POST /users/{userId}/movies/{movieId}/delete   → remove favourite (redirect)
//
// The paths and methods are load-bearing: the deployed frontend posts to
// exactly these URLs.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	fetcher := omdb.New(s.config.OMDB.BaseURL, s.config.OMDB.APIKey,
		s.config.OMDB.Timeout, s.logger)

	// *sqliteRepo.DB implements both repository interfaces; the service
	// sees them separately so tests can mock each on its own.
	favorites := service.NewFavoriteService(s.db, s.db, fetcher, s.logger)

	pageHandler, err := handler.NewPageHandler(s.config.TemplateDir, favorites, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	userHandler := handler.NewUserHandler(favorites, s.logger)
	movieHandler := handler.NewMovieHandler(favorites, s.logger)

	s.router.Get("/", pageHandler.HandleUsers)
	s.router.Post("/users", userHandler.HandleCreate)

	s.router.Route("/users/{userId}/movies", func(r chi.Router) {
		r.Get("/", pageHandler.HandleUserMovies)
		r.Post("/", movieHandler.HandleAdd)
		r.Post("/{movieId}/update", movieHandler.HandleUpdate)
		r.Post("/{movieId}/delete", movieHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server and blocks until shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections on SIGINT/SIGTERM
//  2. Give in-flight requests 30s to finish
//  3. Close the database connection
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
