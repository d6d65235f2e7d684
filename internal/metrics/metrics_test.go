package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDurations(t *testing.T) {
	start := time.Now().Add(-100 * time.Millisecond)

	assert.NotPanics(t, func() {
		RecordScanDuration(start)
		RecordEnrichDuration(start)
	})
}

func TestEnrichOutcomes_Counter(t *testing.T) {
	before := testutil.ToFloat64(EnrichOutcomes.WithLabelValues("enriched"))

	EnrichOutcomes.WithLabelValues("enriched").Inc()
	EnrichOutcomes.WithLabelValues("failed").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(EnrichOutcomes.WithLabelValues("enriched")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EnrichOutcomes.WithLabelValues("failed")), float64(1))
}

func TestCatalogRequests_Counter(t *testing.T) {
	CatalogRequests.WithLabelValues("search", "ok").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(CatalogRequests.WithLabelValues("search", "ok")), float64(1))
}

func TestUpdateLibraryMetrics(t *testing.T) {
	UpdateLibraryMetrics(LibraryCounts{Total: 10, Matched: 6, Pending: 4, Enriched: 6})

	assert.Equal(t, float64(10), testutil.ToFloat64(GamesTotal))
	assert.Equal(t, float64(6), testutil.ToFloat64(MatchedTotal))
	assert.Equal(t, float64(4), testutil.ToFloat64(PendingTotal))
	assert.Equal(t, float64(6), testutil.ToFloat64(EnrichedTotal))
}
