// Package server exposes a solved collage over HTTP: a small JSON API for
// the inventory and layout, and a websocket endpoint that runs interactive
// pan sessions against the motion engine.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/driftwall/driftwall/internal/config"
	"github.com/driftwall/driftwall/pkg/buildinfo"
	"github.com/driftwall/driftwall/pkg/collage"
	"github.com/driftwall/driftwall/pkg/errors"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// context is canceled.
const shutdownTimeout = 5 * time.Second

// Server serves one built collage. When a runner is attached, the JSON
// endpoints also accept query parameters for on-demand variants; those
// rebuilds go through the runner's cache.
type Server struct {
	cfg    config.ServerConfig
	result *collage.Result
	runner *collage.Runner
	opts   collage.Options
	logger *log.Logger
}

// New creates a server around a finished pipeline result.
func New(cfg config.ServerConfig, result *collage.Result, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, result: result, logger: logger}
}

// WithRunner enables parameterized layout and photo queries. opts are the
// options the startup result was built with; query parameters override
// individual fields per request.
func (s *Server) WithRunner(runner *collage.Runner, opts collage.Options) *Server {
	s.runner = runner
	s.opts = opts
	return s
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/api/healthz", s.handleHealthz)
	r.Get("/api/photos", s.handlePhotos)
	r.Get("/api/layout", s.handleLayout)
	r.Get("/ws", s.handleSession)

	return r
}

// Run serves until the context is canceled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving collage",
			"addr", s.cfg.Listen,
			"photos", s.result.Stats.PhotoCount,
			"placed", s.result.Stats.PlacedCount)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("dir")
	if s.runner == nil || dir == "" || dir == s.opts.FilterDir {
		s.respondJSON(w, http.StatusOK, map[string]any{
			"photos": s.result.Inventory,
			"hash":   s.result.InventoryHash,
		})
		return
	}

	opts := collage.Options{Dir: s.opts.Dir, FilterDir: dir}
	records, err := s.runner.Scan(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"photos": records})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if s.runner == nil || (q.Get("dir") == "" && q.Get("seed") == "" && q.Get("world") == "") {
		s.respondJSON(w, http.StatusOK, s.result.Layout)
		return
	}

	opts := collage.Options{
		Dir:       s.opts.Dir,
		FilterDir: s.opts.FilterDir,
		WorldSize: s.opts.WorldSize,
		Seed:      s.opts.Seed,
	}
	if dir := q.Get("dir"); dir != "" {
		opts.FilterDir = dir
		// The filtered world default applies unless overridden below.
		opts.WorldSize = 0
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer"))
			return
		}
		opts.Seed = seed
	}
	if v := q.Get("world"); v != "" {
		world, err := strconv.ParseFloat(v, 64)
		if err != nil || world <= 0 {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "world must be a positive number"))
			return
		}
		opts.WorldSize = world
	}

	result, err := s.runner.Build(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result.Layout)
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDirNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// logRequests logs method, path, status, and duration per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
