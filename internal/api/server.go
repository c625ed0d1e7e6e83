package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/julianstephens/theseus/internal/config"
	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/logger"
	"github.com/julianstephens/theseus/internal/storage"
)

// Server exposes the trackers and their derived views over HTTP.
type Server struct {
	store       storage.Provider
	now         func() time.Time
	corsOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces the wall clock used for "today" and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithCORSOrigins sets the browser origins allowed to call the API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// New returns a server backed by store.
func New(store storage.Provider, opts ...Option) *Server {
	s := &Server{
		store:       store,
		now:         time.Now,
		corsOrigins: constants.DefaultCORSOrigins,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today is the server's calendar date, pinned to midnight UTC.
func (s *Server) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Handler builds the router. Paths are served with or without a trailing
// slash.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Get("/health", s.handleHealth)
		r.Route("/tasks", s.taskRoutes)
		r.Route("/sleep", s.sleepRoutes)
		r.Route("/daily", s.dailyRoutes)
		r.Route("/habits", s.habitRoutes)
		r.Route("/goals", s.goalRoutes)
		r.Route("/finance", s.financeRoutes)
		r.Route("/subscriptions", s.subscriptionRoutes)
		r.Route("/inventory", s.inventoryRoutes)
		r.Route("/nutrition", s.nutritionRoutes)
		r.Route("/fitness", s.fitnessRoutes)
		r.Route("/settings", s.settingsRoutes)
	})

	return r
}

// Serve answers requests on ln until ctx is cancelled, then drains
// in-flight requests for up to five seconds.
func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg config.ServerConfig) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          logger.StandardLog(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"app":     constants.AppName,
		"version": constants.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.LoadSettings(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"app":     constants.AppName,
		"version": constants.Version,
		"modules": settings.EnabledModules,
	})
}
