package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ryanm101/gamevault/internal/db"
)

// SchemaVersion is written into every sidecar.
const SchemaVersion = 1

// ErrSidecarNotFound is returned when a game folder has no sidecar.
var ErrSidecarNotFound = errors.New("metadata file not found")

// HLTB holds how-long-to-beat estimates in minutes.
type HLTB struct {
	MainMins          *int64 `json:"main_mins,omitempty"`
	ExtraMins         *int64 `json:"extra_mins,omitempty"`
	CompletionistMins *int64 `json:"completionist_mins,omitempty"`
}

// Sidecar is the metadata.json document kept in each game's vault.
type Sidecar struct {
	SchemaVersion  int      `json:"schema_version"`
	Title          string   `json:"title"`
	SteamAppID     *int64   `json:"steam_app_id,omitempty"`
	Summary        *string  `json:"summary,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Developers     []string `json:"developers,omitempty"`
	Publishers     []string `json:"publishers,omitempty"`
	ReleaseDate    *string  `json:"release_date,omitempty"`
	ReviewScore    *int64   `json:"review_score,omitempty"`
	ReviewSummary  *string  `json:"review_summary,omitempty"`
	HLTB           *HLTB    `json:"hltb,omitempty"`
	ExportedAt     string   `json:"exported_at"`
	ManuallyEdited bool     `json:"manually_edited"`
}

// FromGame builds the sidecar for g, stamped with exportedAt.
func FromGame(g *db.Game, exportedAt time.Time) *Sidecar {
	s := &Sidecar{
		SchemaVersion:  SchemaVersion,
		Title:          g.Title,
		SteamAppID:     g.SteamAppID,
		Summary:        g.Summary,
		Genres:         g.Genres,
		Developers:     g.Developers,
		Publishers:     g.Publishers,
		ReleaseDate:    g.ReleaseDate,
		ReviewScore:    g.ReviewScore,
		ReviewSummary:  g.ReviewSummary,
		ExportedAt:     exportedAt.UTC().Format(db.TimeLayout),
		ManuallyEdited: g.ManuallyEdited,
	}
	if g.HLTBMainMins != nil || g.HLTBExtraMins != nil || g.HLTBCompletionistMins != nil {
		s.HLTB = &HLTB{
			MainMins:          g.HLTBMainMins,
			ExtraMins:         g.HLTBExtraMins,
			CompletionistMins: g.HLTBCompletionistMins,
		}
	}
	return s
}

// WriteSidecar writes s as pretty JSON into the vault of folder and returns
// the file path. An unwritable folder yields ErrNotWritable.
func WriteSidecar(folder string, s *Sidecar) (string, error) {
	if !IsWritable(folder) {
		return "", fmt.Errorf("%s: %w", folder, ErrNotWritable)
	}
	if _, err := EnsureDir(folder); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	path := MetadataPath(folder)
	err = writeFileAtomic(path, func(f *os.File) error {
		_, err := f.Write(append(data, '\n'))
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	return path, nil
}

// ReadSidecar loads the sidecar of folder.
func ReadSidecar(folder string) (*Sidecar, error) {
	data, err := os.ReadFile(MetadataPath(folder))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSidecarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var s Sidecar
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &s, nil
}
