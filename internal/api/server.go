// Package api serves the game library over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ryanm101/gamevault/internal/db"
	"github.com/ryanm101/gamevault/internal/enrich"
	"github.com/ryanm101/gamevault/internal/logging"
)

// Options configures the server.
type Options struct {
	LibraryRoot string
	// APIKey protects mutating endpoints when set.
	APIKey string
}

// Server handles HTTP requests.
type Server struct {
	db   *db.DB
	svc  *enrich.Service
	opts Options
	mux  *http.ServeMux
}

// NewServer creates a new API server.
func NewServer(d *db.DB, svc *enrich.Service, opts Options) *Server {
	s := &Server{
		db:   d,
		svc:  svc,
		opts: opts,
		mux:  http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler returns the server wrapped with tracing instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s, "gamevault.api")
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/games", s.handleListGames)
	s.mux.HandleFunc("GET /api/games/recent", s.handleRecentGames)
	s.mux.HandleFunc("GET /api/games/search", s.handleSearchGames)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("GET /api/games/{id}/cover", s.handleImage(coverImage))
	s.mux.HandleFunc("GET /api/games/{id}/background", s.handleImage(backgroundImage))
	s.mux.HandleFunc("GET /api/games/{id}/storage", s.handleStorage)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)

	s.mux.Handle("POST /api/scan", s.protect(s.handleScan))
	s.mux.Handle("POST /api/enrich", s.protect(s.handleEnrich))
	s.mux.Handle("POST /api/export", s.protect(s.handleExport))
	s.mux.Handle("POST /api/import", s.protect(s.handleImport))
	s.mux.Handle("PUT /api/games/{id}", s.protect(s.handleUpdateGame))
	s.mux.Handle("POST /api/games/{id}/match", s.protect(s.handleRematch))
	s.mux.Handle("POST /api/games/{id}/match/confirm", s.protect(s.handleConfirmRematch))

	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// protect requires the API key, either raw or as a bearer token, when one is
// configured.
func (s *Server) protect(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.APIKey == "" {
			next(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth == s.opts.APIKey || auth == "Bearer "+s.opts.APIKey {
			next(w, r)
			return
		}
		logging.Warn("unauthorized api request", "path", r.URL.Path, "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid or missing API key")
	})
}

// response is the envelope of every JSON reply.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Error: msg})
}

// writeStoreError maps store errors onto HTTP replies.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	logging.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
