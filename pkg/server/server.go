// Package server serves stored figures over HTTP.
//
// Routes:
//
//	GET    /                    HTML index of stored figures
//	GET    /healthz             liveness probe
//	GET    /figures             JSON list of figure summaries
//	POST   /figures             upload data files and plot them
//	GET    /figures/{id}        interactive HTML page
//	GET    /figures/{id}.svg    interactive SVG
//	GET    /figures/{id}.json   scene JSON
//	DELETE /figures/{id}        remove a figure
//
// The CLI's plot command uses the same server with an in-memory store to show
// a single figure in the browser.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rangeplot/pkg/observability"
	"github.com/matzehuels/rangeplot/pkg/pipeline"
	"github.com/matzehuels/rangeplot/pkg/render/sink"
	"github.com/matzehuels/rangeplot/pkg/store"
)

const (
	// DefaultMaxUpload caps the multipart body of POST /figures.
	DefaultMaxUpload = 64 << 20

	shutdownTimeout = 5 * time.Second
	readTimeout     = 30 * time.Second
)

// Server renders uploads with a pipeline runner and keeps the results in a
// store.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	logger    *log.Logger
	defaults  pipeline.Options
	maxUpload int64
}

// Option configures a [Server].
type Option func(*Server)

// WithDefaults sets the pipeline options uploads start from.
func WithDefaults(o pipeline.Options) Option { return func(s *Server) { s.defaults = o } }

// WithMaxUpload overrides [DefaultMaxUpload].
func WithMaxUpload(n int64) Option { return func(s *Server) { s.maxUpload = n } }

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, store: st, logger: logger, maxUpload: DefaultMaxUpload}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/figures", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDelete)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. The ready callback, when set, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: readTimeout}
	if ready != nil {
		ready(ln.Addr())
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Publish stores a pipeline result. The result must carry the html and svg
// artifacts; the scene is always stored.
func (s *Server) Publish(ctx context.Context, title string, res *pipeline.Result) (*store.Figure, error) {
	scene, err := sink.RenderJSON(res.Figure)
	if err != nil {
		return nil, err
	}
	f := &store.Figure{
		Title:    title,
		Genes:    res.Stats.Genes,
		Panels:   len(res.Figure.Panels),
		Warnings: res.Figure.Warnings,
		Scene:    scene,
		SVG:      res.Artifacts[sink.FormatSVG],
		HTML:     res.Artifacts[sink.FormatHTML],
	}
	if err := s.store.Save(ctx, f); err != nil {
		return nil, err
	}
	observability.Server().OnFigureStored(ctx, f.ID, len(f.SVG)+len(f.HTML)+len(f.Scene))
	s.logger.Info("stored figure", "id", f.ID, "title", title)
	return f, nil
}

// observe reports every request to the server hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status,
			"duration", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
