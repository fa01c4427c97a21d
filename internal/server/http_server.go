package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

// Config wires an HTTPServer.
type Config struct {
	Addr    string
	Handler HandlerConfig
	Logger  *slog.Logger
}

// HTTPServer runs the normalize API until its context is cancelled.
type HTTPServer struct {
	router    *Router
	muxRouter *mux.Router
	srv       *http.Server
	logger    *slog.Logger
}

// New builds the server, its router and the normalize handler.
func New(cfg Config) *HTTPServer {
	if cfg.Handler.Logger == nil {
		cfg.Handler.Logger = cfg.Logger
	}
	handler := NewNormalizeHandler(cfg.Handler)
	muxRouter := mux.NewRouter()
	return NewHTTPServer(cfg.Addr, NewRouter(handler, muxRouter), muxRouter, handler.logger)
}

// NewHTTPServer wraps an already built router.
func NewHTTPServer(addr string, router *Router, muxRouter *mux.Router, logger *slog.Logger) *HTTPServer {
	s := &HTTPServer{
		router:    router,
		muxRouter: muxRouter,
		logger:    logger,
	}
	s.router.RegisterRoutes()
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.wrap(muxRouter),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// wrap adds the request id, panic recovery, and access logging.
func (s *HTTPServer) wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := fmt.Sprintf("%d-%d", start.Unix(), start.Nanosecond())
		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]
				s.logger.Error("request handler panicked",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", requestID,
					"stack", string(buf))
				http.Error(rec, "Internal server error", http.StatusInternalServerError)
			}
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"request_id", requestID,
				"duration", time.Since(start))
		}()

		handler.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
