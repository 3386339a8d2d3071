// Package server exposes stored stage results over a small read-only HTTP
// API with graceful shutdown and connection draining.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/log"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/store"
)

const defaultRecentLimit = 20

// Server serves the triage results dashboard API.
type Server struct {
	httpServer      *http.Server
	repo            store.Repository
	logger          *log.Logger
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string

	// ShutdownTimeout is the maximum time to wait for connections to drain
	// during shutdown. Defaults to 10 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout and WriteTimeout bound request handling.
	// Both default to 10 seconds.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New creates a dashboard server over the given result repository.
func New(repo store.Repository, logger *log.Logger, cfg Config) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		repo:            repo,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/results", s.handleRecentResults)
	r.Get("/api/tickets/{owner}/{repo}/{number}", s.handleTicketResults)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server. It blocks until the server is stopped and
// returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections and stops the server. New requests see the
// health endpoint report shutting_down until the listener closes.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.inShutdown.Load() {
		status = "shutting_down"
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]string{"status": status})
}

// GET /api/results?limit=N
func (s *Server) handleRecentResults(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := s.repo.Recent(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("list recent results")
		s.writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"results": records})
}

// GET /api/tickets/{owner}/{repo}/{number}
func (s *Server) handleTicketResults(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		s.writeError(w, http.StatusBadRequest, "issue number must be a positive integer")
		return
	}

	ticketRef := fmt.Sprintf("%s/%s#%d", owner, repo, number)
	records, err := s.repo.ListByTicket(r.Context(), ticketRef)
	if err != nil {
		s.logger.WithError(err).Error("list ticket results", "ticket", ticketRef)
		s.writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}
	if len(records) == 0 {
		s.writeError(w, http.StatusNotFound, "no stage results for "+ticketRef)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"ticket":  ticketRef,
		"results": records,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, map[string]string{"error": message})
}
