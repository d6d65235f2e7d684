package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ryanm101/gamevault/internal/catalog"
	"github.com/ryanm101/gamevault/internal/db"
	"github.com/ryanm101/gamevault/internal/enrich"
	"github.com/ryanm101/gamevault/internal/logging"
	"github.com/ryanm101/gamevault/internal/vault"
)

const (
	minSearchLen = 1
	maxSearchLen = 200
	searchLimit  = 100
	recentLimit  = 10
	maxBodyBytes = 1 << 20
)

// GameSummary is the list view of a game.
type GameSummary struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	CoverURL       *string        `json:"cover_url,omitempty"`
	LocalCoverPath *string        `json:"local_cover_path,omitempty"`
	Genres         []string       `json:"genres,omitempty"`
	ReviewScore    *int64         `json:"review_score,omitempty"`
	ReviewSummary  *string        `json:"review_summary,omitempty"`
	MatchStatus    db.MatchStatus `json:"match_status"`
	HLTBMainMins   *int64         `json:"hltb_main_mins,omitempty"`
}

func summarize(games []*db.Game) []GameSummary {
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, GameSummary{
			ID:             g.ID,
			Title:          g.Title,
			CoverURL:       g.CoverURL,
			LocalCoverPath: g.LocalCoverPath,
			Genres:         g.Genres,
			ReviewScore:    g.ReviewScore,
			ReviewSummary:  g.ReviewSummary,
			MatchStatus:    g.MatchStatus,
			HLTBMainMins:   g.HLTBMainMins,
		})
	}
	return out
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid game id")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, "OK")
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.db.ListAll(r.Context())
	if err != nil {
		writeStoreError(w, "list games", err)
		return
	}
	writeData(w, summarize(games))
}

func (s *Server) handleRecentGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.db.Recent(r.Context(), recentLimit)
	if err != nil {
		writeStoreError(w, "recent games", err)
		return
	}
	writeData(w, summarize(games))
}

func (s *Server) handleSearchGames(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	switch n := utf8.RuneCountInString(q); {
	case n < minSearchLen:
		writeError(w, http.StatusBadRequest, "Search query too short")
		return
	case n > maxSearchLen:
		writeError(w, http.StatusBadRequest, "Search query too long")
		return
	}

	games, err := s.db.Search(r.Context(), q, searchLimit)
	if err != nil {
		writeStoreError(w, "search games", err)
		return
	}
	writeData(w, summarize(games))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g, err := s.db.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, "get game", err)
		return
	}
	writeData(w, g)
}

type imageKind int

const (
	coverImage imageKind = iota
	backgroundImage
)

func (s *Server) handleImage(kind imageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		folder, err := s.db.GetFolderFor(r.Context(), id)
		if err != nil {
			writeStoreError(w, "get folder", err)
			return
		}

		path, label := vault.CoverPath(folder), "Cover"
		if kind == backgroundImage {
			path, label = vault.BackgroundPath(folder), "Background"
		}
		if _, err := os.Stat(path); err != nil {
			writeError(w, http.StatusNotFound, label+" image not found")
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		http.ServeFile(w, r, path)
	}
}

func (s *Server) handleStorage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	st, err := s.svc.StorageStatus(r.Context(), id)
	if err != nil {
		writeStoreError(w, "storage status", err)
		return
	}
	writeData(w, st)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context())
	if err != nil {
		writeStoreError(w, "stats", err)
		return
	}
	writeData(w, st)
}

// Batch operations run to completion even if the client goes away.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	logging.Info("starting game scan", "root", s.opts.LibraryRoot)
	res, err := s.svc.Scan(detached(r), s.opts.LibraryRoot, nil)
	if err != nil {
		logging.Error("scan failed", "root", s.opts.LibraryRoot, "error", err)
		writeError(w, http.StatusInternalServerError, "Scan failed")
		return
	}
	writeData(w, res)
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Enrich(detached(r))
	if err != nil {
		writeStoreError(w, "enrich", err)
		return
	}
	writeData(w, sum)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.ExportAll(detached(r))
	if err != nil {
		writeStoreError(w, "export", err)
		return
	}
	writeData(w, res)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.ImportAll(detached(r))
	if err != nil {
		writeStoreError(w, "import", err)
		return
	}
	writeData(w, res)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var edit db.ManualEdit
	if !decodeBody(w, r, &edit) {
		return
	}

	g, err := s.svc.ManualEdit(r.Context(), id, edit)
	if errors.Is(err, enrich.ErrEmptyEdit) {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if err != nil {
		writeStoreError(w, "update game", err)
		return
	}
	writeData(w, g)
}

type rematchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleRematch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req rematchRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	cands, err := s.svc.Rematch(r.Context(), id, strings.TrimSpace(req.Query))
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		logging.Warn("catalog search failed", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "Catalog search failed")
		return
	}
	if err != nil {
		writeStoreError(w, "rematch", err)
		return
	}
	writeData(w, cands)
}

type confirmRequest struct {
	AppID int64 `json:"app_id"`
}

func (s *Server) handleConfirmRematch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AppID <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid app id")
		return
	}

	g, err := s.svc.ConfirmRematch(r.Context(), id, req.AppID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "App not found in catalog")
	case err != nil:
		writeStoreError(w, "confirm rematch", err)
	default:
		writeData(w, g)
	}
}
