package catalog

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ryanm101/gamevault/internal/logging"
	"github.com/ryanm101/gamevault/internal/tracing"
)

const (
	// AliasThreshold is the similarity an alias must exceed to be accepted.
	AliasThreshold = 0.85
	// SearchThreshold is the similarity the best search hit must exceed.
	SearchThreshold = 0.6
	// MaxSearchResults is how many search hits are scored.
	MaxSearchResults = 5
)

type alias struct {
	title string
	appID int64
}

// Resolver maps clean titles to catalog ids, trying the curated alias table
// before the remote search.
type Resolver struct {
	searcher Searcher
	aliases  []alias // sorted by title, tombstones removed
}

// NewResolver creates a resolver over the built-in alias table.
func NewResolver(s Searcher) *Resolver {
	return newResolver(s, knownAliases)
}

func newResolver(s Searcher, table map[string]int64) *Resolver {
	aliases := make([]alias, 0, len(table))
	for title, id := range table {
		if id <= 0 {
			continue
		}
		aliases = append(aliases, alias{title: title, appID: id})
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].title < aliases[j].title })
	return &Resolver{searcher: s, aliases: aliases}
}

// Resolve returns the catalog id for title and its similarity. It reports
// false when nothing is similar enough or the search failed.
func (r *Resolver) Resolve(ctx context.Context, title string) (Match, bool) {
	ctx, span := tracing.StartSpan(ctx, "catalog.resolve",
		trace.WithAttributes(attribute.String("game.title", title)))
	defer span.End()

	query := lower(title)

	if m, ok := r.matchAlias(query); ok {
		logging.Info("found known mapping", "title", title, "app_id", m.AppID, "similarity", m.Confidence)
		span.SetAttributes(attribute.Int64("catalog.app_id", m.AppID), attribute.String("catalog.source", string(m.Source)))
		return m, true
	}

	results, err := r.searcher.Search(ctx, title)
	if err != nil {
		logging.Warn("catalog search failed", "title", title, "error", err)
		tracing.RecordError(span, err)
		return Match{}, false
	}

	var best Match
	for _, c := range scoreResults(query, results) {
		if c.Score > best.Confidence {
			best = Match{AppID: c.AppID, Confidence: c.Score, Source: SourceSearch}
		}
	}

	if best.Confidence <= SearchThreshold {
		logging.Info("no catalog match", "title", title, "best_similarity", best.Confidence)
		return Match{}, false
	}

	logging.Info("found catalog match", "title", title, "app_id", best.AppID, "similarity", best.Confidence)
	span.SetAttributes(attribute.Int64("catalog.app_id", best.AppID), attribute.String("catalog.source", string(best.Source)))
	return best, true
}

// matchAlias returns the most similar live alias above AliasThreshold.
// Equal scores keep the alphabetically first alias.
func (r *Resolver) matchAlias(query string) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, a := range r.aliases {
		score := Similarity(query, a.title)
		if score > AliasThreshold && score > best.Confidence {
			best = Match{AppID: a.appID, Confidence: score, Source: SourceAlias}
			found = true
		}
	}
	return best, found
}

// Candidates returns the scored top search hits for query, in catalog order.
// Unlike Resolve it surfaces search errors.
func (r *Resolver) Candidates(ctx context.Context, query string) ([]Candidate, error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.candidates",
		trace.WithAttributes(attribute.String("catalog.query", query)))
	defer span.End()

	results, err := r.searcher.Search(ctx, query)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return scoreResults(lower(query), results), nil
}

func scoreResults(query string, results []SearchResult) []Candidate {
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	out := make([]Candidate, 0, len(results))
	for _, res := range results {
		out = append(out, Candidate{
			AppID: res.AppID,
			Name:  res.Name,
			Score: Similarity(query, lower(res.Name)),
		})
	}
	return out
}
