// Package http serves stored session reports and simulator metrics.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/searchsim/internal/logging"
	"github.com/aretw0/searchsim/pkg/domain"
	"github.com/aretw0/searchsim/pkg/ports"
)

// Summary is one entry of GET /sessions.
type Summary struct {
	SessionID string          `json:"session_id"`
	Workflow  domain.Workflow `json:"workflow"`
	TotalCost float64         `json:"total_cost"`
	Reason    string          `json:"reason,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Server exposes a ReportStore over HTTP.
type Server struct {
	Store    ports.ReportStore
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer mounts /metrics for the given registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler for store.
func NewHandler(store ports.ReportStore, opts ...Option) http.Handler {
	s := &Server{Store: store, Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/sessions", s.ListSessions)
	r.Get("/sessions/{id}", s.GetSession)
	r.Delete("/sessions/{id}", s.DeleteSession)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, "list sessions", err)
		return
	}

	workflow := domain.Workflow(r.URL.Query().Get("workflow"))
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		rep, err := s.Store.Load(r.Context(), id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue // expired between List and Load
		}
		if err != nil {
			s.fail(w, r, "load session", err)
			return
		}
		if workflow != "" && rep.Workflow != workflow {
			continue
		}
		out = append(out, Summary{
			SessionID: id,
			Workflow:  rep.Workflow,
			TotalCost: rep.TotalCost,
			Reason:    rep.Reason,
			Error:     rep.Error,
		})
	}
	s.writeJSON(w, r, out)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, r, "load session", err)
		return
	}
	s.writeJSON(w, r, rep)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.Logger.ErrorContext(r.Context(), op+" failed", "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}
