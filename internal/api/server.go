// Package api exposes the HTTP management surface: uplink configuration
// endpoints, interface and service introspection, health probes and the
// Prometheus metrics handler.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/serac/internal/logging"
	"grimm.is/serac/internal/registry"
	"grimm.is/serac/internal/services"
	"grimm.is/serac/internal/uplink"
)

// ServerConfig holds HTTP server hardening parameters.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64
}

// DefaultServerConfig returns the default server hardening parameters.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
		MaxBodyBytes:      1 << 20,
	}
}

// StatusReporter exposes the orchestrator's view of managed daemons.
type StatusReporter interface {
	Status() []services.ServiceStatus
}

// Server handles API requests.
type Server struct {
	controller *uplink.Controller
	registry   registry.Registry
	statuses   StatusReporter
	cfg        *ServerConfig
	logger     *logging.Logger

	httpServer *http.Server
}

// NewServer wires the HTTP surface to the uplink controller, the
// interface registry and the service orchestrator. cfg may be nil for
// defaults.
func NewServer(controller *uplink.Controller, reg registry.Registry, statuses StatusReporter, cfg *ServerConfig, logger *logging.Logger) *Server {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Server{
		controller: controller,
		registry:   reg,
		statuses:   statuses,
		cfg:        cfg,
		logger:     logger.WithComponent("api"),
	}
}

// Routes builds the request multiplexer. Exposed for handler tests.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/uplink/wifi", s.handleGetWifiUplink)
	mux.HandleFunc("PUT /api/uplink/wifi", s.handlePutWifiUplink)
	mux.HandleFunc("GET /api/uplink/wifi/preview", s.handlePreviewWifiUplink)
	mux.HandleFunc("GET /api/uplink/ppp", s.handleGetPppUplink)
	mux.HandleFunc("PUT /api/uplink/ppp", s.handlePutPppUplink)
	mux.HandleFunc("GET /api/uplink/ppp/preview", s.handlePreviewPppUplink)
	mux.HandleFunc("POST /api/uplink/ip", s.handleUpdateIP)

	mux.HandleFunc("GET /api/interfaces", s.handleGetInterfaces)
	mux.HandleFunc("GET /api/services", s.handleGetServices)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReadiness)

	return http.MaxBytesHandler(mux, s.cfg.MaxBodyBytes)
}

// Start begins serving on addr, blocking until the listener fails or
// Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		MaxHeaderBytes:    s.cfg.MaxHeaderBytes,
	}

	s.logger.Info("api server listening", "addr", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	// Ready once the registry answers; it is the only hard dependency
	// of every mutating endpoint.
	if _, err := s.registry.GetInterfaces(); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "interface registry unavailable", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
