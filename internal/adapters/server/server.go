// Package server hosts mind map sessions over HTTP and websockets.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.trai.ch/mindmap/internal/adapters/config"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/core/ports"
	"go.trai.ch/mindmap/internal/engine/session"
	"go.trai.ch/zerr"
)

const (
	maxGraphBytes   = 10 << 20
	apiTimeout      = 30 * time.Second
	shutdownTimeout = 5 * time.Second
	writeTimeout    = 10 * time.Second
)

// Server serves the graph API, exports and one live session per websocket.
type Server struct {
	cfg       domain.Config
	logger    ports.Logger
	tracer    ports.Tracer
	store     ports.RevisionStore
	exporters map[string]ports.Exporter
	measurer  ports.TextMeasurer
	hub       *Hub
	upgrader  websocket.Upgrader
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMeasurer sets the text measurer used by every session.
func WithMeasurer(m ports.TextMeasurer) Option {
	return func(s *Server) {
		s.measurer = m
	}
}

// WithStore enables persisting uploads and edits as revisions.
func WithStore(store ports.RevisionStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// New creates a Server.
func New(
	cfg domain.Config,
	logger ports.Logger,
	tracer ports.Tracer,
	exporters map[string]ports.Exporter,
	opts ...Option,
) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		tracer:    tracer,
		exporters: exporters,
		hub:       NewHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	s.router = s.buildRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the connection hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Publish replaces the graph of every live session.
func (s *Server) Publish(g *domain.Graph) {
	s.hub.Publish(g)
}

// ListenAndServe listens on the configured address until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", s.cfg.Server.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info(fmt.Sprintf("serving on http://%s", ln.Addr()))

	select {
	case err := <-errCh:
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.hub.Len()})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(apiTimeout))
		r.Get("/graph", s.handleGetGraph)
		r.Put("/graph", s.handlePutGraph)
		r.Get("/graph/{digest}", s.handleGetRevision)
		r.Get("/export.{format}", s.handleExport)
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug(fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Microsecond)))
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) handleGetGraph(w http.ResponseWriter, _ *http.Request) {
	g := s.hub.Current()
	if g == nil {
		s.writeError(w, http.StatusNotFound, domain.ErrNoGraph)
		return
	}
	s.writeGraph(w, g)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxGraphBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, zerr.Wrap(err, domain.ErrGraphReadFailed.Error()))
		return
	}

	g, err := config.ParseGraph(data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := map[string]any{"nodes": g.Len()}
	if s.store != nil {
		digest, err := s.store.Put(s.cfg.StorePath, g)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp["digest"] = digest
	}

	s.hub.Publish(g)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRevision(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, domain.ErrRevisionNotFound)
		return
	}

	g, err := s.store.Get(s.cfg.StorePath, chi.URLParam(r, "digest"))
	switch {
	case isErr(err, domain.ErrRevisionNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err)
	default:
		s.writeGraph(w, g)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	exporter, ok := s.exporters[format]
	if !ok {
		s.writeError(w, http.StatusNotFound, zerr.With(domain.ErrUnsupportedFormat, "format", format))
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "export."+format)
	defer span.End()

	snap, ok := s.snapshot(ctx, r)
	if !ok {
		span.RecordError(domain.ErrNothingToExport)
		s.writeError(w, http.StatusConflict, domain.ErrNothingToExport)
		return
	}
	span.SetAttribute("nodes", len(snap.Scene.Nodes))

	var buf bytes.Buffer
	if err := exporter.Export(&buf, snap); err != nil {
		span.RecordError(err)
		status := http.StatusInternalServerError
		if isErr(err, domain.ErrNothingToExport) {
			status = http.StatusConflict
		}
		s.writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "mindmap."+format))
	_, _ = w.Write(buf.Bytes())
}

// snapshot returns the view of the session named by the "session" query
// parameter, or a fresh settled rendering of the current graph.
func (s *Server) snapshot(ctx context.Context, r *http.Request) (*domain.Snapshot, bool) {
	if id := r.URL.Query().Get("session"); id != "" {
		return s.hub.Snapshot(ctx, id)
	}

	g := s.hub.Current()
	if g == nil {
		return nil, false
	}
	sess := session.New(s.cfg, s.sessionOptions()...)
	width, werr := strconv.ParseFloat(r.URL.Query().Get("width"), 64)
	height, herr := strconv.ParseFloat(r.URL.Query().Get("height"), 64)
	if werr == nil && herr == nil {
		sess.Resize(domain.Size{Width: width, Height: height})
	}
	sess.SetGraph(g)
	return sess.Snapshot(), true
}

func (s *Server) sessionOptions() []session.Option {
	var opts []session.Option
	if s.measurer != nil {
		opts = append(opts, session.WithMeasurer(s.measurer))
	}
	return opts
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("websocket upgrade: %v", err))
		return
	}
	s.serveConn(r.Context(), conn)
}

// persistEdit stores an edited graph and forwards it to the other sessions.
func (s *Server) persistEdit(origin string, g *domain.Graph) {
	if s.store != nil {
		digest, err := s.store.Put(s.cfg.StorePath, g)
		if err != nil {
			s.logger.Error(err)
		} else {
			s.logger.Debug(fmt.Sprintf("stored edit from %s as %s", origin, digest))
		}
	}
	s.hub.PublishFrom(origin, g)
}

func (s *Server) writeGraph(w http.ResponseWriter, g *domain.Graph) {
	data, err := config.EncodeGraph(g, "json")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(err)
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// isErr reports whether err carries the sentinel's message anywhere in its chain.
func isErr(err, sentinel error) bool {
	return err != nil && strings.Contains(err.Error(), sentinel.Error())
}
