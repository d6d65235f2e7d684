package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ryanm101/gamevault/internal/logging"
	"github.com/ryanm101/gamevault/internal/metrics"
)

// Store is the part of the game store the scanner writes to.
type Store interface {
	Upsert(ctx context.Context, folderPath, folderName, title string, sizeBytes *int64) (int64, error)
}

// ScanResult contains statistics from a library scan.
type ScanResult struct {
	TotalFound     int `json:"total_found"`
	AddedOrUpdated int `json:"added_or_updated"`
	Excluded       int `json:"excluded"`
	Failed         int `json:"failed"`
}

// ScanProgress reports scan progress.
type ScanProgress struct {
	FoldersScanned int64
	TotalFolders   int64
	CurrentFolder  string
}

// ScanConfig configures scanning behavior.
type ScanConfig struct {
	OnProgress func(ScanProgress)
}

// ScannedFolder is a top-level library folder that looks like a game.
type ScannedFolder struct {
	Path      string
	Name      string
	Title     string
	SizeBytes *int64
}

// Scanner discovers game folders under a library root.
type Scanner struct {
	store  Store
	config ScanConfig
}

// NewScanner creates a new library scanner with default config.
func NewScanner(store Store) *Scanner {
	return &Scanner{store: store}
}

// NewScannerWithConfig creates a scanner with custom configuration.
func NewScannerWithConfig(store Store, config ScanConfig) *Scanner {
	return &Scanner{store: store, config: config}
}

// Scan walks the immediate subdirectories of root and upserts every folder
// that normalizes to a game title. A missing root is an error; a folder that
// fails to store is counted and skipped.
func (s *Scanner) Scan(ctx context.Context, root string) (*ScanResult, error) {
	defer metrics.RecordScanDuration(time.Now())

	folders, excluded, err := Discover(root)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{TotalFound: len(folders), Excluded: excluded}
	metrics.FoldersProcessed.WithLabelValues("excluded").Add(float64(excluded))

	for i, f := range folders {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if _, err := s.store.Upsert(ctx, f.Path, f.Name, f.Title, f.SizeBytes); err != nil {
			logging.Warn("failed to store game folder", "folder", f.Name, "error", err)
			metrics.FoldersProcessed.WithLabelValues("failed").Inc()
			result.Failed++
		} else {
			metrics.FoldersProcessed.WithLabelValues("included").Inc()
			result.AddedOrUpdated++
		}

		if s.config.OnProgress != nil {
			s.config.OnProgress(ScanProgress{
				FoldersScanned: int64(i + 1),
				TotalFolders:   int64(len(folders)),
				CurrentFolder:  f.Name,
			})
		}
	}

	logging.Info("library scan complete",
		"root", root,
		"found", result.TotalFound,
		"stored", result.AddedOrUpdated,
		"excluded", result.Excluded,
		"failed", result.Failed,
	)
	return result, nil
}

// Discover lists the game folders directly under root, sorted by name, and
// the number of folders it excluded.
func Discover(root string) ([]ScannedFolder, int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, 0, fmt.Errorf("games path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("games path %s is not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read games path: %w", err)
	}

	var folders []ScannedFolder
	excluded := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		title, ok := Normalize(name)
		if !ok {
			logging.Debug("excluding folder", "folder", name, "reason", ExclusionReason(name))
			excluded++
			continue
		}

		path := filepath.Join(root, name)
		folders = append(folders, ScannedFolder{
			Path:      path,
			Name:      name,
			Title:     title,
			SizeBytes: sizeEstimate(path),
		})
	}
	return folders, excluded, nil
}

// sizeEstimate sums the sizes of the files directly inside dir. Nested
// directories are not walked.
func sizeEstimate(dir string) *int64 {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var total int64
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	if total == 0 {
		return nil
	}
	return &total
}
