// Package server exposes floor generation over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lawnchairsociety/floorforge/internal/archive"
	"github.com/lawnchairsociety/floorforge/internal/catalog"
	"github.com/lawnchairsociety/floorforge/internal/config"
	"github.com/lawnchairsociety/floorforge/internal/logger"
)

// Store is the part of the archive the service uses.
type Store interface {
	SaveFloor(ctx context.Context, rec *archive.FloorRecord) (string, error)
	GetFloor(ctx context.Context, id string) (*archive.FloorRecord, error)
	ListFloors(ctx context.Context, limit int) ([]archive.FloorRecord, error)
}

// Server generates floors on request and optionally archives them.
type Server struct {
	cfg         *config.Config
	catalog     *catalog.Catalog
	store       Store
	connLimiter *ConnLimiter
	log         *slog.Logger
	now         func() time.Time

	// ctx bounds WebSocket requests; ListenAndServe replaces it.
	ctx context.Context
}

// New creates a server. store may be nil to disable archiving.
func New(cfg *config.Config, cat *catalog.Catalog, store Store) *Server {
	return &Server{
		cfg:         cfg,
		catalog:     cat,
		store:       store,
		connLimiter: NewConnLimiter(cfg.Server.Connections),
		log:         logger.Logger().With("component", "server"),
		now:         time.Now,
		ctx:         context.Background(),
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			total, ips := s.connLimiter.Stats()
			respondJSON(w, http.StatusOK, map[string]any{
				"status":          "ok",
				"archive":         s.store != nil,
				"ws_connections":  total,
				"ws_distinct_ips": ips,
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAPIKey)
			r.Post("/floors", s.handleCreateFloor)
			r.Get("/floors", s.handleListFloors)
			r.Get("/floors/{id}", s.handleGetFloor)
		})
	})

	r.With(s.requireAPIKey).Get("/ws", s.handleWebSocketUpgrade)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.ctx = ctx
	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("floor service listening", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) baseContext() context.Context { return s.ctx }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", s.now().Sub(start))
	})
}
