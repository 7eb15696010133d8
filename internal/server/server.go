// Package server wires the application together: database, services,
// session store, handlers, routes, and graceful shutdown. It is the
// composition root — every dependency is constructed here and nowhere else.
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

	"github.com/sakif/edulearn/internal/auth"
	"github.com/sakif/edulearn/internal/handler"
	"github.com/sakif/edulearn/internal/middleware"
	sqliteRepo "github.com/sakif/edulearn/internal/repository/sqlite"
	"github.com/sakif/edulearn/internal/service"
	"github.com/sakif/edulearn/internal/session"
)

// Config holds server configuration, loaded from the environment in
// cmd/server.
type Config struct {
	Port          int
	TemplateDir   string
	StaticDir     string
	DBPath        string // path to the SQLite database file
	UploadDir     string // created at startup; reserved for file attachments
	SessionSecret []byte // signs the session cookie
}

// Server owns the router and the resources that must be released on
// shutdown (the database connection).
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services (auth, catalog, clickstream) → handlers → routes
//
// Each layer receives interfaces or services, never the layers below them.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if len(cfg.SessionSecret) == 0 {
		return nil, fmt.Errorf("server: SESSION_SECRET must be set (run cmd/preflight to generate one)")
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// The upload directory backs the lecture/note file_path columns; created
	// here so attachments have somewhere to land.
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating upload directory: %w", err)
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

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	sessions := session.NewManager(s.config.SessionSecret)

	authService := service.NewAuthService(s.db, auth.NewPasswordService(), s.logger)
	catalogService := service.NewCatalogService(s.db, s.db, s.logger)
	clickService := service.NewClickstreamService(s.db, s.logger)

	pages, err := handler.NewPageHandler(
		s.config.TemplateDir, catalogService, authService, clickService, sessions, s.logger,
	)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	authHandler := handler.NewAuthHandler(authService, sessions, pages, s.logger)
	clickHandler := handler.NewClickstreamHandler(clickService, sessions, s.logger)

	// Public routes. OptionalAuth resolves the session so signed-in visitors
	// get attributed click events and a personalised nav, but nothing here
	// requires an account.
	s.router.Group(func(r chi.Router) {
		r.Use(sessions.OptionalAuth)

		r.Get("/", pages.HandleIndex)
		r.Get("/course/{id}", pages.HandleCourseDetail)
		r.Get("/login", authHandler.HandleLoginPage)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/register", authHandler.HandleRegisterPage)
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/track_click", clickHandler.HandleTrackClick)
	})

	// Gated routes: anonymous requests are redirected to /login by
	// RequireAuth. Course creation additionally enforces the instructor role
	// inside the catalog service; the export route deliberately does not
	// (matching the original behavior — any account may export).
	s.router.Group(func(r chi.Router) {
		r.Use(sessions.RequireAuth)

		r.Get("/logout", authHandler.HandleLogout)
		r.Get("/create_course", pages.HandleCreateCoursePage)
		r.Post("/create_course", pages.HandleCreateCourse)
		r.Get("/export_clickstream", clickHandler.HandleExportClickstream)
		r.Get("/export_data", pages.HandleExportPage)
		r.Get("/video_lectures", pages.HandleVideoLectures)
		r.Get("/text_lessons", pages.HandleTextLessons)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s, and
// close the database so the WAL is flushed.
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
			slog.String("uploads", s.config.UploadDir),
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
