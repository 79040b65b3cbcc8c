// Package httpapi exposes the engine over HTTP: build and describe
// endpoints plus session snapshot inspection.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/session"
)

// EngineFactory creates a fresh engine per request. An engine instance holds
// one build's state, so it cannot be shared across concurrent requests.
type EngineFactory func() *espalier.Engine

// Server holds the handler dependencies.
type Server struct {
	sessions  *session.Manager
	newEngine EngineFactory
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(sessions *session.Manager, newEngine EngineFactory, opts ...Option) http.Handler {
	server := &Server{
		sessions:  sessions,
		newEngine: newEngine,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Post("/build", server.Build)
	r.Post("/describe", server.Describe)
	r.Get("/sessions", server.ListSessions)
	r.Get("/sessions/{id}", server.GetSession)
	r.Get("/sessions/{id}/history", server.GetHistory)
	r.Delete("/sessions/{id}", server.DeleteSession)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Handle("/metrics", promhttp.Handler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// BuildRequest is the POST /build body.
type BuildRequest struct {
	SessionID string          `json:"session_id,omitempty"`
	Phrases   []domain.Phrase `json:"phrases"`
}

// BuildResponse is the POST /build reply.
type BuildResponse struct {
	SessionID string          `json:"session_id"`
	BuildID   string          `json:"build_id"`
	Query     domain.Document `json:"query"`
}

// Build handles the POST /build request.
func (s *Server) Build(w http.ResponseWriter, r *http.Request) {
	var body BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Build: Invalid request body", "error", err)
		return
	}
	if len(body.Phrases) == 0 {
		http.Error(w, "No phrases given", http.StatusBadRequest)
		return
	}

	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = ulid.Make().String()
	}

	snap, err := s.sessions.Build(r.Context(), sessionID, s.newEngine(), body.Phrases)
	if err != nil {
		if errors.Is(err, domain.ErrDepthExceeded) {
			http.Error(w, fmt.Sprintf("Build rejected: %v", err), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, fmt.Sprintf("Build error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Build failed", "error", err, "session_id", sessionID)
		return
	}

	writeJSON(w, s.logger, BuildResponse{
		SessionID: snap.SessionID,
		BuildID:   snap.BuildID,
		Query:     snap.Query,
	})
}

// DescribeRequest is the POST /describe body.
type DescribeRequest struct {
	Phrases []domain.Phrase `json:"phrases"`
}

// DescribeResponse is the POST /describe reply.
type DescribeResponse struct {
	Descriptions []string `json:"descriptions"`
}

// Describe handles the POST /describe request.
func (s *Server) Describe(w http.ResponseWriter, r *http.Request) {
	var body DescribeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Describe: Invalid request body", "error", err)
		return
	}

	lines, err := s.newEngine().Describe(body.Phrases)
	if err != nil {
		http.Error(w, fmt.Sprintf("Describe error: %v", err), http.StatusBadRequest)
		return
	}

	writeJSON(w, s.logger, DescribeResponse{Descriptions: lines})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListSessions failed", "error", err)
		return
	}
	writeJSON(w, s.logger, map[string][]string{"sessions": ids})
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.logger, BuildResponse{
		SessionID: snap.SessionID,
		BuildID:   snap.BuildID,
		Query:     snap.Query,
	})
}

// HistoryEntryResponse is one step of the GET /sessions/{id}/history reply:
// the captured document plus what the step changed at the top level.
type HistoryEntryResponse struct {
	Kind       domain.EntryKind  `json:"kind"`
	PhraseName string            `json:"phrase_name,omitempty"`
	CallbackID string            `json:"callback_id,omitempty"`
	At         time.Time         `json:"at"`
	Query      domain.Document   `json:"query"`
	Diff       *domain.QueryDiff `json:"diff,omitempty"`
}

// GetHistory handles the GET /sessions/{id}/history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.logger, map[string]any{
		"session_id": snap.SessionID,
		"build_id":   snap.BuildID,
		"history":    historyResponse(snap.History),
	})
}

// historyResponse annotates each captured entry with a top-level diff.
// Phrase entries diff against the document the handler received; resolve and
// callback entries diff against the previous entry's document.
func historyResponse(entries []domain.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	var prev domain.Document
	for _, entry := range entries {
		base := prev
		if entry.Kind == domain.EntryPhrase {
			base = entry.InputQuery
		}
		out = append(out, HistoryEntryResponse{
			Kind:       entry.Kind,
			PhraseName: entry.PhraseName,
			CallbackID: entry.CallbackID,
			At:         entry.At,
			Query:      entry.Query,
			Diff:       domain.Diff(base, entry.Query),
		})
		prev = entry.Query
	}
	return out
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DeleteSession failed", "error", err, "session_id", sessionID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "espalier-http",
		"version": strings.TrimSpace(espalier.Version),
	})
}

func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) (*domain.Snapshot, bool) {
	sessionID := chi.URLParam(r, "id")
	snap, err := s.sessions.Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Snapshot load failed", "error", err, "session_id", sessionID)
		return nil, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
