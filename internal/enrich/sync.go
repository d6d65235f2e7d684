package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/ryanm101/gamevault/internal/catalog"
	"github.com/ryanm101/gamevault/internal/db"
	"github.com/ryanm101/gamevault/internal/library"
	"github.com/ryanm101/gamevault/internal/logging"
	"github.com/ryanm101/gamevault/internal/metrics"
	"github.com/ryanm101/gamevault/internal/reconcile"
	"github.com/ryanm101/gamevault/internal/vault"
)

// ErrEmptyEdit is returned by ManualEdit when no field is set.
var ErrEmptyEdit = errors.New("no fields to update")

// ExportResult summarises an export of all sidecars.
type ExportResult struct {
	Exported int `json:"exported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// ImportResult summarises an import of all sidecars.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	NotFound int `json:"not_found"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// StorageStatus reports whether a game's folder can hold vault files.
type StorageStatus struct {
	GameID   int64  `json:"game_id"`
	Folder   string `json:"folder"`
	Writable bool   `json:"writable"`
}

// ExportAll writes a sidecar for every matched game. Unmatched games are
// skipped; an unwritable folder counts as failed.
func (s *Service) ExportAll(ctx context.Context) (*ExportResult, error) {
	games, err := s.db.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &ExportResult{Total: len(games)}
	for _, g := range games {
		if g.SteamAppID == nil {
			res.Skipped++
			continue
		}
		if err := s.export(g); err != nil {
			logging.Warn("failed to export metadata", "title", g.Title, "error", err)
			res.Failed++
			continue
		}
		res.Exported++
	}

	logging.Info("export complete", "exported", res.Exported, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// ImportAll reads every game's sidecar and merges those newer than the store.
func (s *Service) ImportAll(ctx context.Context) (*ImportResult, error) {
	games, err := s.db.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Total: len(games)}
	for _, g := range games {
		switch outcome := s.importOne(ctx, g); outcome {
		case "imported":
			res.Imported++
		case "skipped":
			res.Skipped++
		case "not_found":
			res.NotFound++
		default:
			res.Failed++
		}
	}

	logging.Info("import complete", "imported", res.Imported, "skipped", res.Skipped,
		"not_found", res.NotFound, "failed", res.Failed)
	s.refreshLibraryMetrics(ctx)
	return res, nil
}

func (s *Service) importOne(ctx context.Context, g *db.Game) (outcome string) {
	defer func() { metrics.SidecarOps.WithLabelValues("import", outcome).Inc() }()

	sc, err := vault.ReadSidecar(g.FolderPath)
	if errors.Is(err, vault.ErrSidecarNotFound) {
		return "not_found"
	}
	if err != nil {
		logging.Warn("failed to read metadata", "title", g.Title, "error", err)
		return "failed"
	}

	d := reconcile.Decide(sc.ExportedAt, g.UpdatedAt)
	if !d.Import {
		logging.Debug("skipping import", "title", g.Title, "reason", d.Reason)
		return "skipped"
	}

	if err := s.db.ApplyImport(ctx, g.ID, reconcile.Merge(sc)); err != nil {
		logging.Warn("failed to import metadata", "title", g.Title, "error", err)
		return "failed"
	}
	logging.Info("imported metadata", "title", g.Title, "reason", d.Reason)
	return "imported"
}

// ManualEdit applies user corrections, marks the game as manually edited and
// exports its sidecar. The updated game is returned even when the folder is
// read-only.
func (s *Service) ManualEdit(ctx context.Context, id int64, edit db.ManualEdit) (*db.Game, error) {
	if edit.Empty() {
		return nil, ErrEmptyEdit
	}

	g, err := s.db.UpdateManualEdit(ctx, id, edit)
	if err != nil {
		return nil, err
	}

	if err := s.export(g); err != nil {
		logging.Warn("failed to export metadata after edit", "title", g.Title, "error", err)
	}
	return g, nil
}

// Rematch searches the catalog for query, or the game's title when query is
// empty, and returns the scored candidates without changing anything.
func (s *Service) Rematch(ctx context.Context, id int64, query string) ([]catalog.Candidate, error) {
	g, err := s.db.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if query == "" {
		query = g.Title
	}
	return s.resolver.Candidates(ctx, query)
}

// ConfirmRematch binds a game to appID chosen by the user. Details and
// reviews overwrite stored values, cached artwork is replaced by whatever
// downloads succeed and the sidecar is rewritten.
func (s *Service) ConfirmRematch(ctx context.Context, id, appID int64) (*db.Game, error) {
	if appID <= 0 {
		return nil, fmt.Errorf("invalid app id %d", appID)
	}
	g, err := s.db.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := s.client.Details(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("fetch details for %d: %w", appID, err)
	}
	if err := s.db.UpdateResolution(ctx, id, resolutionFrom(appID, 1.0, details, true)); err != nil {
		return nil, err
	}

	s.sleep(s.delay)
	s.applyReviews(ctx, g, appID, true)

	s.cacheImages(ctx, g, details, true)
	s.exportAfterUpdate(ctx, id)

	logging.Info("rematched", "title", g.Title, "app_id", appID)
	return s.db.GetByID(ctx, id)
}

// StorageStatus reports whether the game's folder is writable.
func (s *Service) StorageStatus(ctx context.Context, id int64) (*StorageStatus, error) {
	folder, err := s.db.GetFolderFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StorageStatus{GameID: id, Folder: folder, Writable: vault.IsWritable(folder)}, nil
}

// Scan indexes the library root into the store.
func (s *Service) Scan(ctx context.Context, root string, onProgress func(library.ScanProgress)) (*library.ScanResult, error) {
	scanner := library.NewScannerWithConfig(s.db, library.ScanConfig{OnProgress: onProgress})
	res, err := scanner.Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	s.refreshLibraryMetrics(ctx)
	return res, nil
}
