// Package server wires the application together: router, middleware, route
// definitions and graceful shutdown. It is the composition root — every
// dependency chain (handler → service → remote client) is assembled here,
// and main.go only loads config and calls Start.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/blog-admin/internal/auth"
	"github.com/sakif/blog-admin/internal/config"
	"github.com/sakif/blog-admin/internal/handler"
	"github.com/sakif/blog-admin/internal/media/cloudinary"
	"github.com/sakif/blog-admin/internal/middleware"
	"github.com/sakif/blog-admin/internal/repository/dataapi"
	"github.com/sakif/blog-admin/internal/service"
	"github.com/sakif/blog-admin/internal/session"
	sqliteSession "github.com/sakif/blog-admin/internal/session/sqlite"
)

// Server holds the router and everything that must be released on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger

	// sessionCloser is non-nil when the sqlite session store is in use; it
	// is closed after the HTTP server drains.
	sessionCloser io.Closer
}

// New assembles the full server from config.
//
// The session store is selected here: a SESSION_DB_PATH picks the sqlite
// store so sessions survive restarts, otherwise the in-memory store is used
// and a restart logs everyone out.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	var sessions session.Store
	if cfg.SessionDBPath != "" {
		store, err := sqliteSession.New(cfg.SessionDBPath)
		if err != nil {
			return nil, fmt.Errorf("opening session store: %w", err)
		}
		s.sessionCloser = store
		sessions = store
		logger.Info("using persistent session store", slog.String("path", cfg.SessionDBPath))
	} else {
		sessions = session.NewMemoryStore()
	}

	if err := s.setupRoutes(sessions); err != nil {
		if s.sessionCloser != nil {
			s.sessionCloser.Close()
		}
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, remote clients, services, handlers and
// the route table.
//
// Route structure:
//
//	GET  /                      → redirect to /posts
//	GET  /static/*              → static assets
//	GET  /login                 → login form
//	POST /login                 → sign in
//	GET  /logout                → sign out
//	--- everything below requires a valid session; otherwise 302 → /login ---
//	GET  /posts                 → dashboard, newest first
//	GET  /posts/create          → create form
//	POST /posts/create          → create post
//	GET  /posts/{id}/edit       → edit form
//	POST /posts/{id}/edit       → update post
//	POST /posts/{id}/delete     → delete post
//	POST /upload-image          → relay image to media service, return JSON
func (s *Server) setupRoutes(sessions session.Store) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	dataClient, err := dataapi.New(s.config.DataAPIURL, s.config.DataAPIKey)
	if err != nil {
		return fmt.Errorf("creating data client: %w", err)
	}

	mediaClient, err := cloudinary.New(cloudinary.Config{
		CloudName: s.config.MediaCloudName,
		APIKey:    s.config.MediaAPIKey,
		APISecret: s.config.MediaAPISecret,
	})
	if err != nil {
		return fmt.Errorf("creating media client: %w", err)
	}

	authService := service.NewAuthService(dataClient, sessions, tokens, s.logger)
	postService := service.NewPostService(dataClient, s.logger)

	authHandler := handler.NewAuthHandler(authService, renderer, s.logger)
	postHandler := handler.NewPostHandler(postService, renderer, s.logger)
	uploadHandler := handler.NewUploadHandler(mediaClient, s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/posts", http.StatusFound)
	})

	s.router.Get("/login", authHandler.HandleLoginForm)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/logout", authHandler.HandleLogout)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, sessions))

		r.Get("/posts", postHandler.HandleList)
		r.Get("/posts/create", postHandler.HandleCreateForm)
		r.Post("/posts/create", postHandler.HandleCreate)
		r.Get("/posts/{id}/edit", postHandler.HandleEditForm)
		r.Post("/posts/{id}/edit", postHandler.HandleUpdate)
		r.Post("/posts/{id}/delete", postHandler.HandleDelete)

		r.Post("/upload-image", uploadHandler.HandleUpload)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the session store.
func (s *Server) Start() error {
	defer func() {
		if s.sessionCloser != nil {
			if err := s.sessionCloser.Close(); err != nil {
				s.logger.Error("closing session store failed", slog.String("error", err.Error()))
			}
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // uploads relay to the media service
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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
