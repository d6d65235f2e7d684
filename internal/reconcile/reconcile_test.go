package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamevault/internal/vault"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		sidecarAt string
		storeAt   string
		want      bool
	}{
		{"sidecar older", "2025-01-01T00:00:00Z", "2025-02-01T00:00:00.000000Z", false},
		{"same instant", "2025-02-01T00:00:00Z", "2025-02-01T00:00:00.000000Z", false},
		{"same instant other zone", "2025-02-01T01:00:00+01:00", "2025-02-01T00:00:00.000000Z", false},
		{"sidecar newer", "2025-02-01T00:00:00.000001Z", "2025-02-01T00:00:00.000000Z", true},
		{"sidecar unparseable", "yesterday", "2025-02-01T00:00:00.000000Z", true},
		{"store unparseable", "2025-01-01T00:00:00Z", "", true},
		{"both unparseable", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.sidecarAt, tt.storeAt)
			assert.Equal(t, tt.want, d.Import)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestDecide_SkipReasonNamesBothTimestamps(t *testing.T) {
	d := Decide("2025-01-01T00:00:00Z", "2025-02-01T12:30:00.000000Z")
	require.False(t, d.Import)
	assert.Contains(t, d.Reason, "Database is newer")
	assert.Contains(t, d.Reason, "2025-02-01T12:30:00Z")
	assert.Contains(t, d.Reason, "2025-01-01T00:00:00Z")
}

func TestMerge(t *testing.T) {
	appID := int64(1145360)
	summary := "Defy the god of the dead"
	main := int64(1320)

	f := Merge(&vault.Sidecar{
		Title:          " Hades ",
		SteamAppID:     &appID,
		Summary:        &summary,
		Genres:         []string{"Action", "Roguelike"},
		HLTB:           &vault.HLTB{MainMins: &main},
		ManuallyEdited: true,
	})

	require.NotNil(t, f.Title)
	assert.Equal(t, "Hades", *f.Title)
	assert.Equal(t, &appID, f.SteamAppID)
	assert.Equal(t, &summary, f.Summary)
	assert.Equal(t, []string{"Action", "Roguelike"}, f.Genres)
	assert.Equal(t, &main, f.HLTBMainMins)
	assert.Nil(t, f.HLTBExtraMins)
	assert.True(t, f.ManuallyEdited)
}

func TestMerge_AbsentFieldsStayUnset(t *testing.T) {
	f := Merge(&vault.Sidecar{})

	assert.Nil(t, f.Title, "empty title is not applied")
	assert.Nil(t, f.SteamAppID)
	assert.Nil(t, f.Summary)
	assert.Nil(t, f.ReleaseDate)
	assert.Nil(t, f.Genres)
	assert.Nil(t, f.Developers)
	assert.Nil(t, f.Publishers)
	assert.Nil(t, f.ReviewScore)
	assert.Nil(t, f.ReviewSummary)
	assert.Nil(t, f.HLTBMainMins)
	assert.False(t, f.ManuallyEdited)
}
