package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ryanm101/gamevault/internal/metrics"
)

const (
	DefaultStoreURL  = "https://store.steampowered.com/api"
	DefaultSearchURL = "https://steamcommunity.com/actions/SearchApps"
	DefaultTimeout   = 10 * time.Second
)

// SteamClient talks to the Steam store and community search endpoints.
type SteamClient struct {
	http      *http.Client
	storeURL  string
	searchURL string
	timeout   time.Duration
}

// Option configures a SteamClient.
type Option func(*SteamClient)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *SteamClient) { s.http = c }
}

// WithStoreURL overrides the store API base URL.
func WithStoreURL(u string) Option {
	return func(s *SteamClient) { s.storeURL = strings.TrimRight(u, "/") }
}

// WithSearchURL overrides the app search base URL.
func WithSearchURL(u string) Option {
	return func(s *SteamClient) { s.searchURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *SteamClient) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSteamClient creates a client with the public Steam endpoints.
func NewSteamClient(opts ...Option) *SteamClient {
	c := &SteamClient{
		storeURL:  DefaultStoreURL,
		searchURL: DefaultSearchURL,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return c
}

// appID decodes Steam app ids, which the search endpoint sends as strings.
type appID int64

func (a *appID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid app id %s: %w", b, err)
	}
	*a = appID(n)
	return nil
}

type searchHit struct {
	AppID json.RawMessage `json:"appid"`
	Name  string          `json:"name"`
}

// Search returns the catalog's fuzzy matches for query, in catalog order.
// Hits without a usable id or name are dropped.
func (c *SteamClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := c.searchURL + "/" + url.PathEscape(query)

	var hits []searchHit
	if err := c.getJSON(ctx, "search", endpoint, &hits); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		var id appID
		if err := json.Unmarshal(h.AppID, &id); err != nil || h.Name == "" {
			continue
		}
		results = append(results, SearchResult{AppID: int64(id), Name: h.Name})
	}
	return results, nil
}

type detailsEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type detailsData struct {
	SteamAppID       int64    `json:"steam_appid"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description"`
	HeaderImage      string   `json:"header_image"`
	Background       string   `json:"background"`
	Developers       []string `json:"developers"`
	Publishers       []string `json:"publishers"`
	Genres           []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	} `json:"genres"`
	ReleaseDate *struct {
		ComingSoon bool   `json:"coming_soon"`
		Date       string `json:"date"`
	} `json:"release_date"`
}

// Details fetches the store page data for an app. A success=false answer or
// a response without the app is ErrNotFound.
func (c *SteamClient) Details(ctx context.Context, id int64) (*Details, error) {
	key := strconv.FormatInt(id, 10)
	endpoint := c.storeURL + "/appdetails?appids=" + key

	var resp map[string]detailsEnvelope
	if err := c.getJSON(ctx, "details", endpoint, &resp); err != nil {
		return nil, err
	}

	env, ok := resp[key]
	if !ok || !env.Success || len(env.Data) == 0 {
		return nil, fmt.Errorf("app %d: %w", id, ErrNotFound)
	}

	// Failed lookups sometimes carry "data": [] instead of omitting it.
	var d detailsData
	if err := json.Unmarshal(env.Data, &d); err != nil {
		return nil, fmt.Errorf("app %d: %w", id, ErrNotFound)
	}
	details := &Details{
		AppID:       id,
		Name:        d.Name,
		Description: d.ShortDescription,
		HeaderImage: d.HeaderImage,
		Background:  d.Background,
		Developers:  d.Developers,
		Publishers:  d.Publishers,
	}
	for _, g := range d.Genres {
		details.Genres = append(details.Genres, g.Description)
	}
	if d.ReleaseDate != nil {
		details.ReleaseDate = d.ReleaseDate.Date
		details.ComingSoon = d.ReleaseDate.ComingSoon
	}
	return details, nil
}

type reviewsResponse struct {
	Success      int `json:"success"`
	QuerySummary *struct {
		ReviewScore     int    `json:"review_score"`
		ReviewScoreDesc string `json:"review_score_desc"`
		TotalPositive   int64  `json:"total_positive"`
		TotalNegative   int64  `json:"total_negative"`
		TotalReviews    int64  `json:"total_reviews"`
	} `json:"query_summary"`
}

// Reviews fetches the review aggregate for an app.
func (c *SteamClient) Reviews(ctx context.Context, id int64) (*Reviews, error) {
	endpoint := fmt.Sprintf("%s/appreviews/%d?json=1&language=all&purchase_type=all&num_per_page=0", c.storeURL, id)

	var resp reviewsResponse
	if err := c.getJSON(ctx, "reviews", endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Success != 1 || resp.QuerySummary == nil {
		return nil, fmt.Errorf("reviews for app %d: %w", id, ErrNotFound)
	}

	q := resp.QuerySummary
	return &Reviews{
		Score:   ComputeScore(q.TotalPositive, q.TotalNegative),
		Count:   q.TotalReviews,
		Summary: q.ReviewScoreDesc,
	}, nil
}

// ComputeScore returns the share of positive reviews as a rounded
// percentage. No reviews scores 0.
func ComputeScore(positive, negative int64) int64 {
	total := positive + negative
	if total <= 0 {
		return 0
	}
	return int64(math.Round(100 * float64(positive) / float64(total)))
}

// getJSON performs a GET bounded by the client timeout and decodes the body
// into v. Non-2xx responses and undecodable bodies are errors.
func (c *SteamClient) getJSON(ctx context.Context, name, endpoint string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("%s: failed to build request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("%s request failed: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.CatalogRequests.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("%s: unexpected status: %s", name, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.CatalogRequests.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("%s: failed to decode response: %w", name, err)
	}

	metrics.CatalogRequests.WithLabelValues(name, "ok").Inc()
	return nil
}

// IsNotFound reports whether err means the catalog has no such record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
