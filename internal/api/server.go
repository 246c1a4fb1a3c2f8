// Package api exposes the health and metrics HTTP surface.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Status reflects the outcome of the most recent scan cycle.
type Status struct {
	LastCycleAt time.Time `json:"last_cycle_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Cycles      int       `json:"cycles"`
}

// Server wires the health endpoints and the Prometheus handler.
type Server struct {
	router chi.Router
	logger *zap.Logger

	mu     sync.RWMutex
	status Status
}

// NewServer constructs a Server over the given metrics registry.
func NewServer(reg *prometheus.Registry, logger *zap.Logger) *Server {
	s := &Server{logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// RecordCycle updates the readiness status after a scan cycle.
func (s *Server) RecordCycle(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Cycles++
	s.status.LastCycleAt = at
	if err != nil {
		s.status.LastError = err.Error()
	} else {
		s.status.LastError = ""
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Warn("write healthz response", zap.Error(err))
	}
}

// readyz reports 503 until one cycle has completed without error, so
// orchestration platforms hold traffic until the pipeline proves itself.
func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	code := http.StatusOK
	if status.Cycles == 0 || status.LastError != "" {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Warn("write readyz response", zap.Error(err))
	}
}
