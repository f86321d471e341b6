package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsdoc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout is how long Close waits for in-flight requests.
const ShutdownTimeout = 30 * time.Second

// maxRequestBytes bounds the size of a search request body.
const maxRequestBytes = 1 << 16

// Server serves news search results over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the address to listen on, for example ":8080".
	Addr string

	Resolver newsdoc.Resolver
	Logger   *slog.Logger

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler
}

// NewServer returns a server with routes registered. Dependencies are set on
// the returned value before calling Open.
func NewServer() *Server {
	s := &Server{
		router: chi.NewRouter(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/metrics", s.handleMetrics)
	s.router.Route("/api", func(r chi.Router) {
		r.Put("/news", s.handleNewsPut)
		r.Get("/news", s.handleNewsGet)
	})

	return s
}

// ServeHTTP lets the server be used as an http.Handler, mostly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open starts listening on Addr and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL the server is listening on.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// newsRequest is the body of PUT /api/news.
type newsRequest struct {
	InputValue string `json:"inputValue"`
}

func (s *Server) handleNewsPut(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.Error(w, r, newsdoc.Errorf(newsdoc.EINVALID, "Invalid JSON body."))
		return
	}
	s.serveNews(w, r, req.InputValue)
}

func (s *Server) handleNewsGet(w http.ResponseWriter, r *http.Request) {
	s.serveNews(w, r, r.URL.Query().Get("query"))
}

func (s *Server) serveNews(w http.ResponseWriter, r *http.Request, term string) {
	articles, err := s.Resolver.Resolve(r.Context(), term)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	body, err := json.Marshal(articles)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

// Error writes err to the response. Upstream failures pass their status
// through with an empty body. Other errors get a plain-text message, with
// internal details logged rather than returned.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code := newsdoc.ErrorCode(err)
	if code == newsdoc.EUPSTREAM {
		status := newsdoc.UpstreamStatus(err)
		if status == 0 {
			status = http.StatusInternalServerError
		}
		s.Logger.Error("upstream search failed",
			"request_id", middleware.GetReqID(r.Context()),
			"status", status,
			"err", err,
		)
		w.WriteHeader(status)
		return
	}

	if code == newsdoc.EINTERNAL {
		s.Logger.Error("internal error",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(ErrorStatusCode(code))
	_, _ = io.WriteString(w, newsdoc.ErrorMessage(err))
}

// codes maps application error codes to HTTP statuses.
var codes = map[string]int{
	newsdoc.EINVALID:  http.StatusBadRequest,
	newsdoc.ENOTFOUND: http.StatusNotFound,
	newsdoc.EINTERNAL: http.StatusInternalServerError,
	newsdoc.EUPSTREAM: http.StatusBadGateway,
}

// ErrorStatusCode returns the HTTP status for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// logRequests logs one line per request once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		begin := time.Now()
		defer func() {
			s.Logger.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", r.RemoteAddr,
				"duration", time.Since(begin),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
