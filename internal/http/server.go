package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/repository"
	"github.com/cinescope/cinescope/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	tokens  *auth.TokenManager
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, tokens *auth.TokenManager, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		repo:   repo,
		tokens: tokens,
		logger: logger,
		router: r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.requireAuth).Get("/me", s.handleMe)
	})

	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleListMovies)
		r.Get("/featured", s.handleFeaturedMovies)
		r.Get("/trending", s.handleTrendingMovies)
		r.Get("/search", s.handleSearchMovies)
		r.With(s.requireAuth, s.requireAdmin).Post("/", s.handleCreateMovie)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetMovie)
			r.With(s.requireAuth, s.requireAdmin).Put("/", s.handleUpdateMovie)
			r.With(s.requireAuth, s.requireAdmin).Delete("/", s.handleDeleteMovie)
		})
	})

	s.router.Route("/reviews", func(r chi.Router) {
		r.Get("/movie/{id}", s.handleListMovieReviews)
		r.Get("/user/{id}", s.handleListUserReviews)
		r.With(s.requireAuth).Post("/movie/{id}", s.handleCreateReview)
		r.With(s.requireAuth).Put("/{reviewId}", s.handleUpdateReview)
		r.With(s.requireAuth).Delete("/{reviewId}", s.handleDeleteReview)
		r.With(s.requireAuth).Post("/{reviewId}/rate", s.handleRateReview)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/{id}", s.handleGetUser)
		r.With(s.requireAuth).Put("/{id}", s.handleUpdateUser)
		r.Get("/{id}/stats", s.handleGetUserStats)
	})

	s.router.Route("/watchlist", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/{id}", s.handleGetWatchlist)
		r.Post("/", s.handleAddToWatchlist)
		r.Delete("/{movieId}", s.handleRemoveFromWatchlist)
		r.Get("/check/{movieId}", s.handleCheckWatchlist)
	})
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
