// Package vault manages the private .gamevault directory inside each game
// folder: cached images and the metadata sidecar.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DirName        = ".gamevault"
	CoverFile      = "cover.jpg"
	BackgroundFile = "background.jpg"
	MetadataFile   = "metadata.json"

	writeProbe = ".write_test"
)

// ErrNotWritable is returned when a game folder cannot hold vault files.
var ErrNotWritable = errors.New("game folder not writable")

// Dir returns the vault directory of a game folder.
func Dir(folder string) string {
	return filepath.Join(folder, DirName)
}

// CoverPath returns where the cover image of a game is cached.
func CoverPath(folder string) string {
	return filepath.Join(folder, DirName, CoverFile)
}

// BackgroundPath returns where the background image of a game is cached.
func BackgroundPath(folder string) string {
	return filepath.Join(folder, DirName, BackgroundFile)
}

// MetadataPath returns the sidecar path of a game.
func MetadataPath(folder string) string {
	return filepath.Join(folder, DirName, MetadataFile)
}

// IsWritable reports whether vault files can be written under folder. When
// the vault directory is missing, checking creates it.
func IsWritable(folder string) bool {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return false
	}

	dir := Dir(folder)
	if _, err := os.Stat(dir); err == nil {
		probe := filepath.Join(dir, writeProbe)
		f, err := os.Create(probe) //nolint:gosec // fixed name inside the vault dir
		if err != nil {
			return false
		}
		_ = f.Close()
		_ = os.Remove(probe)
		return true
	}

	return os.Mkdir(dir, 0o755) == nil //nolint:gosec // game folders are user readable
}

// EnsureDir creates the vault directory of folder if needed.
func EnsureDir(folder string) (string, error) {
	dir := Dir(folder)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // game folders are user readable
		return "", fmt.Errorf("failed to create vault dir: %w", err)
	}
	return dir, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
