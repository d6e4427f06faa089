// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the merge pipeline over HTTP: upload files with an
// order and a name, get back one A4 PDF as an attachment, a data link or a
// published URL.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/pdiddy/docstitch/internal/history"
	"github.com/pdiddy/docstitch/internal/publish"
	"github.com/pdiddy/docstitch/pkg/types"
)

const (
	defaultAddr              = ":8080"
	defaultMaxUploadBytes    = 64 << 20
	defaultRequestsPerMinute = 30
	shutdownTimeout          = 10 * time.Second
)

// Merger turns an ordered batch into one merged document.
type Merger interface {
	Process(ctx context.Context, batch types.Batch) (*types.MergedDocument, error)
}

// Server routes merge requests to a Merger.
type Server struct {
	cfg       types.ServeConfig
	merger    Merger
	history   *history.Store
	publisher publish.Publisher
	prefix    string
	log       *zap.Logger
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithHistory records every merge request in store.
func WithHistory(store *history.Store) Option {
	return func(s *Server) { s.history = store }
}

// WithPublisher enables delivery=publish. Objects are stored under prefix.
func WithPublisher(p publish.Publisher, prefix string) Option {
	return func(s *Server) {
		s.publisher = p
		s.prefix = prefix
	}
}

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds a Server and its routes.
func New(cfg types.ServeConfig, merger Merger, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultRequestsPerMinute
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{cfg: cfg, merger: merger, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Docstitch-Pages", "X-Docstitch-Run"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.With(httprate.LimitByIP(s.cfg.RequestsPerMinute, time.Minute)).Post("/merge", s.handleMerge)
	r.Route("/runs", func(rr chi.Router) {
		rr.Get("/", s.handleListRuns)
		rr.Get("/{id}", s.handleGetRun)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
