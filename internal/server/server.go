// Package server exposes framing sessions and the cart over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/photoframer/internal/cart"
	"github.com/MeKo-Tech/photoframer/internal/studio"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config configures the HTTP API.
type Config struct {
	Sessions *studio.Manager
	// Cart is optional; cart routes answer 503 without it.
	Cart *cart.Store

	MaxConcurrentRenders int
	RenderTimeout        time.Duration
	MaxUploadBytes       int64
	StreamInterval       time.Duration
	Logger               *slog.Logger
}

// Server routes API requests to sessions.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	renders *renderGate
}

// New validates cfg and fills defaults.
func New(cfg Config) (*Server, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.MaxConcurrentRenders <= 0 {
		cfg.MaxConcurrentRenders = 2
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = 250 * time.Millisecond
	}

	return &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		renders: newRenderGate(cfg.MaxConcurrentRenders),
	}, nil
}

// Handler returns the router with every API route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withCORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/status/stream", s.handleStatusStream)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/stream", s.handleSessionStream)

			r.Put("/image", s.handleUpload)
			r.Put("/frame", s.handleFrameSize)
			r.Put("/color", s.handleFrameColor)
			r.Put("/texture", s.handleFrameTexture)
			r.Put("/adjustments", s.handleAdjustments)
			r.Patch("/adjustments/{name}", s.handleAdjustment)
			r.Get("/filter", s.handleFilter)
			r.Put("/viewport", s.handleViewport)
			r.Put("/geometry", s.handleGeometry)
			r.Post("/events", s.handleEvent)
			r.Put("/zoom", s.handleZoom)

			r.Post("/compose", s.handleCompose)
			r.Post("/cart", s.handleAddToCart)

			r.Put("/rooms/active", s.handleRoomsActive)
			r.Post("/rooms/next", s.handleRoomNext)
			r.Post("/rooms/prev", s.handleRoomPrev)
			r.Put("/rooms/selected", s.handleRoomSelect)
			r.Get("/rooms/{index}", s.handleRoomPhoto)
		})

		r.Get("/cart", s.handleListCart)
		r.Get("/cart/total", s.handleCartTotal)
		r.Get("/cart/{itemID}", s.handleGetCartItem)
		r.Delete("/cart/{itemID}", s.handleRemoveCartItem)
	})

	return r
}

type sessionKey struct{}

// withSession resolves {id} to a live session or answers 404.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, ok := s.cfg.Sessions.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("session %q not found", id))
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *studio.Session {
	return r.Context().Value(sessionKey{}).(*studio.Session)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ListenAndServe runs the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: middleware.Logger(s.Handler()), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log().Info("API server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log().Info("Stopping API server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	}
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
