package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SteamClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSteamClient(
		WithHTTPClient(srv.Client()),
		WithStoreURL(srv.URL+"/api/"),
		WithSearchURL(srv.URL+"/search"),
	)
}

func TestSteamClient_Search(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[
			{"appid": "1091500", "name": "Cyberpunk 2077"},
			{"appid": 2138330, "name": "Cyberpunk 2077: Phantom Liberty"},
			{"appid": "abc", "name": "Broken"},
			{"appid": "42"}
		]`))
	})

	results, err := c.Search(context.Background(), "Cyberpunk 2077")
	require.NoError(t, err)
	assert.Equal(t, "/search/Cyberpunk%202077", gotPath)
	assert.Equal(t, []SearchResult{
		{AppID: 1091500, Name: "Cyberpunk 2077"},
		{AppID: 2138330, Name: "Cyberpunk 2077: Phantom Liberty"},
	}, results)
}

func TestSteamClient_SearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"bad body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.Search(context.Background(), "x")
			assert.Error(t, err)
			assert.False(t, IsNotFound(err))
		})
	}
}

func TestSteamClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewSteamClient(WithHTTPClient(srv.Client()), WithSearchURL(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := c.Search(context.Background(), "slow")
	assert.Error(t, err)
}

func TestSteamClient_Details(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appdetails", r.URL.Path)
		assert.Equal(t, "1145360", r.URL.Query().Get("appids"))
		_, _ = w.Write([]byte(`{"1145360": {"success": true, "data": {
			"steam_appid": 1145360,
			"name": "Hades",
			"short_description": "Defy the god of the dead.",
			"header_image": "https://cdn/header.jpg",
			"background": "https://cdn/bg.jpg",
			"developers": ["Supergiant Games"],
			"publishers": ["Supergiant Games"],
			"genres": [{"id": "1", "description": "Action"}, {"id": "23", "description": "Indie"}],
			"release_date": {"coming_soon": false, "date": "17 Sep, 2020"}
		}}}`))
	})

	d, err := c.Details(context.Background(), 1145360)
	require.NoError(t, err)
	assert.Equal(t, &Details{
		AppID:       1145360,
		Name:        "Hades",
		Description: "Defy the god of the dead.",
		HeaderImage: "https://cdn/header.jpg",
		Background:  "https://cdn/bg.jpg",
		Developers:  []string{"Supergiant Games"},
		Publishers:  []string{"Supergiant Games"},
		Genres:      []string{"Action", "Indie"},
		ReleaseDate: "17 Sep, 2020",
	}, d)
}

func TestSteamClient_DetailsNotFound(t *testing.T) {
	bodies := map[string]string{
		"success false": `{"1": {"success": false}}`,
		"empty data":    `{"1": {"success": true, "data": []}}`,
		"missing key":   `{"2": {"success": true, "data": {"name": "Other"}}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := c.Details(context.Background(), 1)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSteamClient_Reviews(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appreviews/1145360", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("json"))
		assert.Equal(t, "0", r.URL.Query().Get("num_per_page"))
		_, _ = w.Write([]byte(`{"success": 1, "query_summary": {
			"review_score": 9,
			"review_score_desc": "Overwhelmingly Positive",
			"total_positive": 75,
			"total_negative": 25,
			"total_reviews": 100
		}}`))
	})

	r, err := c.Reviews(context.Background(), 1145360)
	require.NoError(t, err)
	assert.Equal(t, &Reviews{Score: 75, Count: 100, Summary: "Overwhelmingly Positive"}, r)
}

func TestSteamClient_ReviewsNotFound(t *testing.T) {
	for _, body := range []string{`{"success": 2}`, `{"success": 1}`} {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.Reviews(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound, body)
	}
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		pos, neg int64
		want     int64
	}{
		{0, 0, 0},
		{75, 25, 75},
		{1, 0, 100},
		{0, 10, 0},
		{2, 1, 67},
		{1, 2, 33},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComputeScore(tt.pos, tt.neg), "ComputeScore(%d, %d)", tt.pos, tt.neg)
	}
}

func TestNewSteamClient_Defaults(t *testing.T) {
	c := NewSteamClient(WithTimeout(0))
	assert.Equal(t, DefaultStoreURL, c.storeURL)
	assert.Equal(t, DefaultSearchURL, c.searchURL)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.NotNil(t, c.http)
}
