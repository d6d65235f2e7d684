// Package catalog resolves game titles to remote catalog ids and fetches
// their details and reviews.
package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the catalog has no record for a request.
var ErrNotFound = errors.New("catalog: not found")

// SearchResult is one hit from the catalog's fuzzy search.
type SearchResult struct {
	AppID int64
	Name  string
}

// Details is the descriptive payload for a catalog entry.
type Details struct {
	AppID       int64
	Name        string
	Description string
	HeaderImage string // used as the cover
	Background  string
	Developers  []string
	Publishers  []string
	Genres      []string
	ReleaseDate string
	ComingSoon  bool
}

// Reviews is the review aggregate for a catalog entry.
type Reviews struct {
	Score   int64 // 0-100, computed from positive and negative counts
	Count   int64
	Summary string
}

// Source records how a match was found.
type Source string

const (
	SourceAlias  Source = "alias"
	SourceSearch Source = "search"
)

// Match is an accepted resolution of a title.
type Match struct {
	AppID      int64   `json:"app_id"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Candidate is a scored search hit, used to preview a rematch.
type Candidate struct {
	AppID int64   `json:"app_id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Searcher performs fuzzy title searches against the catalog.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Client is the full remote catalog surface used by enrichment.
type Client interface {
	Searcher
	Details(ctx context.Context, appID int64) (*Details, error)
	Reviews(ctx context.Context, appID int64) (*Reviews, error)
}
