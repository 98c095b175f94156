// Package server provides the HTTP engine that replays OFW API fixtures.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ofwtools/ofwmock/pkg/config"
	"github.com/ofwtools/ofwmock/pkg/fixture"
	"github.com/ofwtools/ofwmock/pkg/httputil"
	"github.com/ofwtools/ofwmock/pkg/logging"
)

// Paths served by the mock, fixed by the real OFW API surface.
const (
	PathHealth       = "/health"
	PathLocalStorage = "/ofw/appv2/localstorage.json"
	PathFolders      = "/pub/v1/messageFolders"
	PathMessages     = "/pub/v3/messages"
	PathReload       = "/reload"
)

// Server serves the fixture snapshot over the OFW API surface.
type Server struct {
	cfg        *config.Config
	store      *fixture.Store
	log        *slog.Logger
	httpServer *http.Server
	mu         sync.RWMutex
	running    bool
	startTime  time.Time
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a server over the given configuration and fixture store.
func New(cfg *config.Config, store *fixture.Store, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the complete HTTP handler: routes wrapped in the
// middleware chain (request ID + access log, CORS, bearer auth).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+PathHealth, s.handleHealth)
	mux.HandleFunc("GET "+PathLocalStorage, s.handleLocalStorage)
	mux.HandleFunc("GET "+PathFolders, s.handleFolders)
	mux.HandleFunc("GET "+PathMessages, s.handleMessages)
	mux.HandleFunc("GET "+PathMessages+"/{id}", s.handleMessage)
	mux.HandleFunc("POST "+PathReload, s.handleReload)
	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = mux
	h = s.authMiddleware(h)
	if len(s.cfg.CORSOrigins) > 0 {
		h = newCORSMiddleware(h, s.cfg.CORSOrigins)
	}
	h = s.accessLogMiddleware(h)
	return h
}

// Start begins listening on the configured port. It blocks until the
// server stops and returns nil on a clean shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.running = true
	s.startTime = time.Now()
	s.mu.Unlock()

	s.log.Info("server listening", "addr", s.cfg.Addr(), "strictAuth", s.cfg.StrictAuth)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	srv := s.httpServer
	s.mu.Unlock()

	return srv.Shutdown(ctx)
}

// handleNotFound answers unknown paths with a JSON 404 that lists the
// available endpoints, matching the upstream mock's behavior.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusNotFound, map[string]any{
		"error": "Endpoint not found",
		"path":  r.URL.Path,
		"available_endpoints": []string{
			PathHealth,
			PathLocalStorage,
			PathFolders,
			PathMessages,
			PathMessages + "/{id}",
			PathReload,
		},
	})
}
