// Package enrich drives catalog enrichment of the library and keeps the store
// and the per-game sidecars in sync.
package enrich

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ryanm101/gamevault/internal/catalog"
	"github.com/ryanm101/gamevault/internal/db"
	"github.com/ryanm101/gamevault/internal/logging"
	"github.com/ryanm101/gamevault/internal/metrics"
	"github.com/ryanm101/gamevault/internal/tracing"
	"github.com/ryanm101/gamevault/internal/vault"
)

const (
	DefaultBatchSize = 20
	DefaultDelay     = 500 * time.Millisecond
)

// Linker cross-references a title with a secondary catalog.
type Linker interface {
	Link(ctx context.Context, title string) (int64, bool, error)
}

// Config tunes a Service. Zero values use the defaults.
type Config struct {
	BatchSize int
	// Delay is inserted after a match is accepted and between the details
	// and reviews calls. Negative disables it.
	Delay  time.Duration
	Linker Linker
	Now    func() time.Time
}

// Service enriches games and synchronizes sidecars.
type Service struct {
	db       *db.DB
	client   catalog.Client
	resolver *catalog.Resolver
	images   *vault.ImageCache
	linker   Linker

	batchSize int
	delay     time.Duration
	now       func() time.Time
	sleep     func(time.Duration)
}

// NewService creates a service over the store, the remote catalog and the
// image cache.
func NewService(d *db.DB, client catalog.Client, images *vault.ImageCache, cfg Config) *Service {
	s := &Service{
		db:        d,
		client:    client,
		resolver:  catalog.NewResolver(client),
		images:    images,
		linker:    cfg.Linker,
		batchSize: cfg.BatchSize,
		delay:     cfg.Delay,
		now:       cfg.Now,
		sleep:     sleep,
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	if s.delay == 0 {
		s.delay = DefaultDelay
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.images == nil {
		s.images = vault.NewImageCache(nil, 0)
	}
	return s
}

func sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	<-t.C
}

// Outcome is the result of enriching a single game.
type Outcome int

const (
	OutcomeEnriched Outcome = iota
	OutcomeFailed
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEnriched:
		return "enriched"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ItemResult records what happened to one game in a run.
type ItemResult struct {
	GameID  int64   `json:"game_id"`
	Title   string  `json:"title"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// Summary aggregates an enrichment run.
type Summary struct {
	RunID     string       `json:"run_id"`
	Attempted int          `json:"attempted"`
	Enriched  int          `json:"enriched"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Remaining int          `json:"remaining"`
	Total     int          `json:"total"`
	Items     []ItemResult `json:"items"`
}

func (s *Summary) add(r ItemResult) {
	s.Attempted++
	switch r.Outcome {
	case OutcomeEnriched:
		s.Enriched++
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
		s.Skipped++
	}
	s.Items = append(s.Items, r)
	metrics.EnrichOutcomes.WithLabelValues(r.Outcome.String()).Inc()
}

// Enrich processes up to the batch size of eligible games, one at a time.
// Only failing to list eligible games is returned as an error; every other
// failure is recorded against its item. A cancelled context stops the run
// between items.
func (s *Service) Enrich(ctx context.Context) (*Summary, error) {
	start := time.Now()
	defer metrics.RecordEnrichDuration(start)

	runID := uuid.NewString()
	ctx, span := tracing.StartSpan(ctx, "enrich.batch",
		trace.WithAttributes(attribute.String("enrich.run_id", runID)))
	defer span.End()

	games, err := s.db.ListEligibleForEnrichment(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	sum := &Summary{RunID: runID, Total: len(games), Items: []ItemResult{}}
	logging.Info("starting enrichment", "run_id", runID, "eligible", len(games), "batch_size", s.batchSize)

	for i, g := range games {
		if i >= s.batchSize {
			break
		}
		if ctx.Err() != nil {
			logging.Warn("enrichment interrupted", "run_id", runID, "attempted", sum.Attempted)
			break
		}
		sum.add(s.enrichOne(ctx, g))
	}
	sum.Remaining = sum.Total - sum.Attempted

	span.SetAttributes(
		attribute.Int("enrich.enriched", sum.Enriched),
		attribute.Int("enrich.failed", sum.Failed),
		attribute.Int("enrich.remaining", sum.Remaining),
	)
	logging.Info("enrichment complete", "run_id", runID,
		"enriched", sum.Enriched, "failed", sum.Failed, "skipped", sum.Skipped, "remaining", sum.Remaining)

	s.refreshLibraryMetrics(ctx)
	return sum, nil
}

func (s *Service) enrichOne(ctx context.Context, g *db.Game) ItemResult {
	ctx, span := tracing.StartSpan(ctx, "enrich.item", trace.WithAttributes(
		attribute.Int64("game.id", g.ID),
		attribute.String("game.title", g.Title),
	))
	defer span.End()

	result := ItemResult{GameID: g.ID, Title: g.Title}
	fail := func(reason string) ItemResult {
		result.Outcome = OutcomeFailed
		result.Reason = reason
		span.SetAttributes(attribute.String("enrich.outcome", reason))
		return result
	}

	if _, err := os.Stat(g.FolderPath); err != nil {
		logging.Warn("game folder missing, skipping", "title", g.Title, "folder", g.FolderPath)
		result.Outcome = OutcomeSkipped
		result.Reason = "folder missing"
		return result
	}

	logging.Info("enriching", "title", g.Title)

	var appID int64
	var confidence float64
	if g.SteamAppID != nil {
		appID, confidence = *g.SteamAppID, 1.0
		if g.MatchConfidence != nil {
			confidence = *g.MatchConfidence
		}
	} else {
		m, ok := s.resolver.Resolve(ctx, g.Title)
		if !ok {
			return fail("no catalog match")
		}
		appID, confidence = m.AppID, m.Confidence
	}
	span.SetAttributes(attribute.Int64("catalog.app_id", appID))

	s.sleep(s.delay)

	details, err := s.client.Details(ctx, appID)
	if err != nil {
		if !catalog.IsNotFound(err) {
			logging.Warn("failed to fetch details", "title", g.Title, "app_id", appID, "error", err)
		}
		s.sleep(s.delay)
		return fail("details unavailable")
	}

	err = s.db.UpdateResolution(ctx, g.ID, resolutionFrom(appID, confidence, details, false))
	if err != nil {
		logging.Warn("failed to store resolution", "title", g.Title, "error", err)
		tracing.RecordError(span, err)
		return fail("store write failed")
	}

	s.sleep(s.delay)
	s.applyReviews(ctx, g, appID, false)
	s.cacheImages(ctx, g, details, false)
	s.link(ctx, g)
	s.exportAfterUpdate(ctx, g.ID)

	logging.Info("enriched", "title", g.Title, "app_id", appID, "confidence", confidence)
	result.Outcome = OutcomeEnriched
	return result
}

func resolutionFrom(appID int64, confidence float64, d *catalog.Details, force bool) db.Resolution {
	return db.Resolution{
		AppID:         appID,
		Confidence:    confidence,
		Summary:       nonEmpty(d.Description),
		CoverURL:      nonEmpty(d.HeaderImage),
		BackgroundURL: nonEmpty(d.Background),
		ReleaseDate:   nonEmpty(d.ReleaseDate),
		Genres:        d.Genres,
		Developers:    d.Developers,
		Publishers:    d.Publishers,
		Force:         force,
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Service) applyReviews(ctx context.Context, g *db.Game, appID int64, force bool) {
	r, err := s.client.Reviews(ctx, appID)
	if err != nil {
		if !catalog.IsNotFound(err) {
			logging.Warn("failed to fetch reviews", "title", g.Title, "app_id", appID, "error", err)
		}
		return
	}
	err = s.db.UpdateReviews(ctx, g.ID, db.Reviews{Score: r.Score, Count: r.Count, Summary: r.Summary}, force)
	if err != nil {
		logging.Warn("failed to store reviews", "title", g.Title, "error", err)
	}
}

// cacheImages stores the artwork of d, falling back to the stored URLs. With
// refresh set, images already on disk are downloaded again.
func (s *Service) cacheImages(ctx context.Context, g *db.Game, d *catalog.Details, refresh bool) {
	cover, background := nonEmpty(d.HeaderImage), nonEmpty(d.Background)
	if cover == nil {
		cover = g.CoverURL
	}
	if background == nil {
		background = g.BackgroundURL
	}

	var imgs vault.Images
	if refresh {
		imgs = s.images.Refresh(ctx, g.FolderPath, cover, background)
	} else {
		imgs = s.images.Cache(ctx, g.FolderPath, cover, background)
	}
	if err := s.db.UpdateLocalImages(ctx, g.ID, imgs.Cover, imgs.Background); err != nil {
		logging.Warn("failed to store local image paths", "title", g.Title, "error", err)
	}
}

func (s *Service) link(ctx context.Context, g *db.Game) {
	if s.linker == nil || g.IGDBID != nil {
		return
	}
	id, ok, err := s.linker.Link(ctx, g.Title)
	if err != nil {
		logging.Warn("igdb lookup failed", "title", g.Title, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := s.db.UpdateIGDBID(ctx, g.ID, id); err != nil {
		logging.Warn("failed to store igdb id", "title", g.Title, "error", err)
	}
}

// exportAfterUpdate rewrites the sidecar of a game that just changed. A
// read-only folder is not an error.
func (s *Service) exportAfterUpdate(ctx context.Context, id int64) {
	g, err := s.db.GetByID(ctx, id)
	if err != nil {
		logging.Warn("failed to reload game for export", "id", id, "error", err)
		return
	}
	if err := s.export(g); err != nil && !errors.Is(err, vault.ErrNotWritable) {
		logging.Warn("failed to export metadata", "title", g.Title, "error", err)
	}
}

func (s *Service) export(g *db.Game) error {
	_, err := vault.WriteSidecar(g.FolderPath, vault.FromGame(g, s.now()))
	if err != nil {
		metrics.SidecarOps.WithLabelValues("export", "failed").Inc()
		return err
	}
	metrics.SidecarOps.WithLabelValues("export", "written").Inc()
	return nil
}

func (s *Service) refreshLibraryMetrics(ctx context.Context) {
	if _, err := s.Stats(ctx); err != nil {
		logging.Warn("failed to refresh library metrics", "error", err)
	}
}

// Stats returns library counts and refreshes the library gauges.
func (s *Service) Stats(ctx context.Context) (*db.Stats, error) {
	st, err := s.db.Stats(ctx)
	if err != nil {
		return nil, err
	}
	metrics.UpdateLibraryMetrics(metrics.LibraryCounts{
		Total:    st.TotalGames,
		Matched:  st.MatchedGames,
		Pending:  st.PendingGames,
		Enriched: st.EnrichedGames,
	})
	return st, nil
}
