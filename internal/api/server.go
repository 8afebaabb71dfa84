// Package api exposes burn verification over HTTP.
package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"solana-burn-gate/internal/config"
	"solana-burn-gate/internal/observability"
	"solana-burn-gate/internal/verify"
)

// Server is the HTTP API server.
type Server struct {
	cfg       *config.Config
	verifier  *verify.Verifier
	configErr error
	mux       *http.ServeMux
	logger    *log.Logger
	startedAt time.Time

	requests atomic.Int64
	verified atomic.Int64
}

// NewServer creates a new API server. configErr, when non-nil, puts the
// server in misconfigured mode: /health and /metrics stay up but every
// verification request is rejected.
func NewServer(cfg *config.Config, verifier *verify.Verifier, configErr error, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Server{
		cfg:       cfg,
		verifier:  verifier,
		configErr: configErr,
		mux:       http.NewServeMux(),
		logger:    logger,
		startedAt: time.Now(),
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/verify-burn", s.corsMiddleware(s.verifyBurn))
	s.mux.HandleFunc("/health", s.corsMiddleware(s.health))
	s.mux.HandleFunc("/status", s.corsMiddleware(s.status))
	s.mux.Handle("/metrics", observability.Handler())
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.mux)
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, code, message string) {
	s.jsonResponse(w, status, ErrorResponse{Success: false, Error: message, Code: code})
}
