package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Henry-Sarabia/igdb/v2"
)

var twitchTokenURL = "https://id.twitch.tv/oauth2/token"

// IGDBLinker cross-references games with their IGDB record.
type IGDBLinker struct {
	client *igdb.Client
}

// NewIGDBLinker authenticates against Twitch and returns a linker.
// httpClient may be nil.
func NewIGDBLinker(ctx context.Context, clientID, clientSecret string, httpClient *http.Client) (*IGDBLinker, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("IGDB Client ID and Secret are required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	token, err := getTwitchToken(ctx, httpClient, clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Twitch: %w", err)
	}

	return &IGDBLinker{client: igdb.NewClient(clientID, token, httpClient)}, nil
}

// Link returns the IGDB id of the closest title match, or false when none
// scores above SearchThreshold.
func (l *IGDBLinker) Link(ctx context.Context, title string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	games, err := l.client.Games.Search(
		title,
		igdb.SetFields("id", "name"),
		igdb.SetLimit(MaxSearchResults),
	)
	if errors.Is(err, igdb.ErrNoResults) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("igdb search: %w", err)
	}

	query := lower(title)
	var (
		bestID    int64
		bestScore float64
	)
	for _, g := range games {
		if g == nil {
			continue
		}
		if score := Similarity(query, lower(g.Name)); score > bestScore {
			bestID, bestScore = int64(g.ID), score
		}
	}
	if bestScore <= SearchThreshold {
		return 0, false, nil
	}
	return bestID, true, nil
}

// getTwitchToken fetches an App Access Token from Twitch.
func getTwitchToken(ctx context.Context, c *http.Client, clientID, clientSecret string) (string, error) {
	vals := url.Values{}
	vals.Set("client_id", clientID)
	vals.Set("client_secret", clientSecret)
	vals.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, twitchTokenURL, strings.NewReader(vals.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", errors.New("empty access token")
	}

	return result.AccessToken, nil
}
