package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Library gauges
	GamesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamevault_games_total",
		Help: "Total number of game folders in the library.",
	})
	MatchedTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamevault_games_matched",
		Help: "Number of games matched to a catalog entry.",
	})
	PendingTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamevault_games_pending",
		Help: "Number of games still waiting for a catalog match.",
	})
	EnrichedTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamevault_games_enriched",
		Help: "Number of games carrying a catalog id.",
	})

	// Scan
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gamevault_scan_duration_seconds",
		Help:    "Duration of library scans in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	FoldersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamevault_folders_processed_total",
		Help: "Folders seen during scans.",
	}, []string{"status"}) // status: included, excluded, failed

	// Enrichment
	EnrichDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gamevault_enrich_duration_seconds",
		Help:    "Duration of enrichment batches in seconds.",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})
	EnrichOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamevault_enrich_items_total",
		Help: "Per-item enrichment outcomes.",
	}, []string{"outcome"}) // outcome: enriched, failed, skipped

	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamevault_catalog_requests_total",
		Help: "Requests made to the remote catalog.",
	}, []string{"endpoint", "result"}) // result: ok, error

	ImageDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamevault_image_downloads_total",
		Help: "Image cache lookups by kind and result.",
	}, []string{"kind", "result"}) // result: downloaded, cached, failed

	SidecarOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamevault_sidecar_operations_total",
		Help: "Sidecar export/import outcomes.",
	}, []string{"direction", "result"})
)

// LibraryCounts is the subset of store statistics exported as gauges.
type LibraryCounts struct {
	Total    int64
	Matched  int64
	Pending  int64
	Enriched int64
}

// UpdateLibraryMetrics refreshes gauges that reflect the current state of the store.
func UpdateLibraryMetrics(c LibraryCounts) {
	GamesTotal.Set(float64(c.Total))
	MatchedTotal.Set(float64(c.Matched))
	PendingTotal.Set(float64(c.Pending))
	EnrichedTotal.Set(float64(c.Enriched))
}

// RecordScanDuration records the time taken for a library scan.
func RecordScanDuration(start time.Time) {
	ScanDuration.Observe(time.Since(start).Seconds())
}

// RecordEnrichDuration records the time taken for an enrichment batch.
func RecordEnrichDuration(start time.Time) {
	EnrichDuration.Observe(time.Since(start).Seconds())
}
