// Package server provides the HTTP server for the ArmaScan hand scanner.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/armascan/internal/scan"
	"github.com/ayusman/armascan/internal/server/api"
	"github.com/ayusman/armascan/internal/store"
)

// Pipeline is the running scanner: the API commands plus the live status
// and preview feeds.
type Pipeline interface {
	api.Scanner
	Subscribe(fn func(scan.Status)) func()
	LatestFrame() []byte
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	ModelDir  string
	Store     *store.Store
	Pipeline  Pipeline
}

// Server represents the HTTP server for the ArmaScan application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time

	mu  sync.Mutex
	srv *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/sports", api.HandleSports)

	if s.config.Store != nil {
		sizes := api.NewSizesHandler(s.config.Store)
		s.mux.Handle("/api/sizes", sizes)
		s.mux.Handle("/api/sizes/", sizes)
	}

	if p := s.config.Pipeline; p != nil {
		session := api.NewSessionHandler(p)
		s.mux.Handle("/api/session", session)
		s.mux.Handle("/api/session/", session)
		s.mux.Handle("/api/measurements", api.NewMeasurementsHandler(p))
		s.mux.Handle("/api/status", NewStatusHandler(p))
		s.mux.Handle("/api/stream", NewStreamHandler(p))

		if s.config.Store != nil && s.config.ModelDir != "" {
			s.mux.Handle("/api/models/", api.NewModelsHandler(p, s.config.Store, s.config.ModelDir))
		}
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Pipeline != nil {
		response["scanning"] = s.config.Pipeline.Status().Running
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.srv
	s.mu.Unlock()

	return srv.ListenAndServe()
}

// Shutdown gracefully stops a server started with ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
