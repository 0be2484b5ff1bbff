// Package server exposes the dashboard: health and info endpoints, the
// recent-runs API, and the WebSocket event stream.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/brandforge/brandforge/internal/config"
	"github.com/brandforge/brandforge/internal/logger"
	"github.com/brandforge/brandforge/internal/report"
	"github.com/brandforge/brandforge/internal/store"
	"github.com/brandforge/brandforge/internal/web"
	"github.com/brandforge/brandforge/internal/websocket"
)

// Server represents the dashboard HTTP server
type Server struct {
	config *config.Config
	logger *logger.Logger
	router *mux.Router
	server *http.Server
	wsHub  *websocket.Hub
	store  *store.Store // nil when persistence is disabled

	mu     sync.RWMutex
	latest []report.Row
}

// New creates a new dashboard server instance. store may be nil; the
// runs API then serves the latest in-memory report only.
func New(cfg *config.Config, log *logger.Logger, st *store.Store) *Server {
	hubConfig := &websocket.HubConfig{
		BroadcastRuns:       cfg.WebSocket.Events.BroadcastRuns,
		BroadcastCompliance: cfg.WebSocket.Events.BroadcastCompliance,
		BroadcastCreatives:  cfg.WebSocket.Events.BroadcastCreatives,
		BroadcastSystem:     cfg.WebSocket.Events.BroadcastSystem,
	}
	wsHub := websocket.NewHub(hubConfig, log.WithComponent("websocket").Logger)

	router := mux.NewRouter()

	server := &Server{
		config: cfg,
		logger: log.WithComponent("server"),
		router: router,
		wsHub:  wsHub,
		store:  st,
	}

	server.setupRoutes()

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	s.router.HandleFunc("/", web.ServeDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard", web.ServeDashboard).Methods("GET")

	s.router.HandleFunc("/api/runs", s.handleRuns).Methods("GET")

	wsPath := s.config.WebSocket.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	s.router.HandleFunc(wsPath, s.handleWebSocket).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting dashboard server", zap.Int("port", s.config.Server.Port))

	// Start WebSocket hub in a separate goroutine
	go s.wsHub.Run()

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping dashboard server")
	return s.server.Shutdown(ctx)
}

// Hub returns the WebSocket hub for broadcasting pipeline events
func (s *Server) Hub() *websocket.Hub {
	return s.wsHub
}

// SetLatestReport records the most recent run's rows for the runs API.
func (s *Server) SetLatestReport(rows []report.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = append([]report.Row(nil), rows...)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"name":"brandforge",
		"provider":"%s",
		"sanitize":%t,
		"store_enabled":%t,
		"connected_clients":%d
	}`, s.config.Provider.Kind, s.config.Compliance.Sanitize, s.store != nil, s.wsHub.ActiveConnections())
}

// handleRuns serves recent report rows, preferring the store when
// available so history survives restarts.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.store != nil {
		rows, err := s.store.RecentRows(r.Context(), 100)
		if err == nil {
			json.NewEncoder(w).Encode(rows)
			return
		}
		s.logger.Warn("Falling back to in-memory report", zap.Error(err))
	}

	s.mu.RLock()
	rows := s.latest
	s.mu.RUnlock()
	json.NewEncoder(w).Encode(rows)
}

// handleWebSocket handles WebSocket connections for the dashboard
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
