// Package reconcile decides how a game's sidecar and its store row are merged.
// Both directions are pure functions; file and database I/O live elsewhere.
package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/ryanm101/gamevault/internal/db"
	"github.com/ryanm101/gamevault/internal/vault"
)

// Decision is the outcome of comparing a sidecar against the store.
type Decision struct {
	Import bool
	Reason string
}

// Decide compares the sidecar's exported_at against the store's updated_at.
// The import is skipped only when both parse and the sidecar is not strictly
// newer. Any unparseable timestamp lets the sidecar through.
func Decide(sidecarAt, storeAt string) Decision {
	sidecar, sErr := parseTime(sidecarAt)
	store, dErr := parseTime(storeAt)

	switch {
	case sErr != nil:
		return Decision{Import: true, Reason: "sidecar timestamp unreadable"}
	case dErr != nil:
		return Decision{Import: true, Reason: "store timestamp unreadable"}
	case !sidecar.After(store):
		return Decision{
			Reason: fmt.Sprintf("Database is newer (%s vs %s)",
				store.Format(time.RFC3339Nano), sidecar.Format(time.RFC3339Nano)),
		}
	default:
		return Decision{Import: true, Reason: "sidecar is newer"}
	}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Merge turns a sidecar into a field-level patch. Only fields present and
// non-null in the sidecar are set; the store keeps everything else.
func Merge(s *vault.Sidecar) db.ImportFields {
	f := db.ImportFields{
		SteamAppID:     s.SteamAppID,
		Summary:        s.Summary,
		ReleaseDate:    s.ReleaseDate,
		Genres:         s.Genres,
		Developers:     s.Developers,
		Publishers:     s.Publishers,
		ReviewScore:    s.ReviewScore,
		ReviewSummary:  s.ReviewSummary,
		ManuallyEdited: s.ManuallyEdited,
	}
	if title := strings.TrimSpace(s.Title); title != "" {
		f.Title = &title
	}
	if s.HLTB != nil {
		f.HLTBMainMins = s.HLTB.MainMins
		f.HLTBExtraMins = s.HLTB.ExtraMins
		f.HLTBCompletionistMins = s.HLTB.CompletionistMins
	}
	return f
}
