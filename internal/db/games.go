package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
)

// MatchStatus is the catalog resolution state of a game.
type MatchStatus string

const (
	StatusPending MatchStatus = "pending"
	StatusMatched MatchStatus = "matched"
)

// Game is one discovered game folder and its enrichment payload.
type Game struct {
	ID         int64  `json:"id"`
	FolderPath string `json:"-"`
	FolderName string `json:"-"`
	Title      string `json:"title"`

	SteamAppID *int64 `json:"steam_app_id,omitempty"`
	IGDBID     *int64 `json:"igdb_id,omitempty"`

	Summary     *string `json:"summary,omitempty"`
	ReleaseDate *string `json:"release_date,omitempty"`

	CoverURL      *string `json:"cover_url,omitempty"`
	BackgroundURL *string `json:"background_url,omitempty"`

	LocalCoverPath      *string `json:"local_cover_path,omitempty"`
	LocalBackgroundPath *string `json:"local_background_path,omitempty"`

	Genres     []string `json:"genres,omitempty"`
	Developers []string `json:"developers,omitempty"`
	Publishers []string `json:"publishers,omitempty"`

	ReviewScore   *int64  `json:"review_score,omitempty"`
	ReviewCount   *int64  `json:"review_count,omitempty"`
	ReviewSummary *string `json:"review_summary,omitempty"`

	SizeBytes *int64 `json:"size_bytes,omitempty"`

	MatchConfidence *float64    `json:"match_confidence,omitempty"`
	MatchStatus     MatchStatus `json:"match_status"`

	HLTBMainMins          *int64 `json:"hltb_main_mins,omitempty"`
	HLTBExtraMins         *int64 `json:"hltb_extra_mins,omitempty"`
	HLTBCompletionistMins *int64 `json:"hltb_completionist_mins,omitempty"`

	ManuallyEdited bool   `json:"manually_edited"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// HasImages reports whether both local images are cached.
func (g *Game) HasImages() bool {
	return g.LocalCoverPath != nil && g.LocalBackgroundPath != nil
}

// Stats summarises the library.
type Stats struct {
	TotalGames    int64 `json:"total_games"`
	MatchedGames  int64 `json:"matched_games"`
	PendingGames  int64 `json:"pending_games"`
	EnrichedGames int64 `json:"enriched_games"`
}

const gameColumns = `
	id, folder_path, folder_name, title,
	steam_app_id, igdb_id,
	summary, release_date,
	cover_url, background_url,
	local_cover_path, local_background_path,
	genres, developers, publishers,
	review_score, review_count, review_summary,
	size_bytes, match_confidence, match_status,
	hltb_main_mins, hltb_extra_mins, hltb_completionist_mins,
	manually_edited, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*Game, error) {
	var (
		g                                      Game
		steamID, igdbID                        sql.NullInt64
		summary, releaseDate                   sql.NullString
		coverURL, bgURL, localCover, localBg   sql.NullString
		genres, developers, publishers         sql.NullString
		reviewScore, reviewCount               sql.NullInt64
		reviewSummary                          sql.NullString
		sizeBytes                              sql.NullInt64
		confidence                             sql.NullFloat64
		status                                 string
		hltbMain, hltbExtra, hltbCompletionist sql.NullInt64
		manual                                 int64
	)

	err := row.Scan(
		&g.ID, &g.FolderPath, &g.FolderName, &g.Title,
		&steamID, &igdbID,
		&summary, &releaseDate,
		&coverURL, &bgURL,
		&localCover, &localBg,
		&genres, &developers, &publishers,
		&reviewScore, &reviewCount, &reviewSummary,
		&sizeBytes, &confidence, &status,
		&hltbMain, &hltbExtra, &hltbCompletionist,
		&manual, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.SteamAppID = int64Ptr(steamID)
	g.IGDBID = int64Ptr(igdbID)
	g.Summary = stringPtr(summary)
	g.ReleaseDate = stringPtr(releaseDate)
	g.CoverURL = stringPtr(coverURL)
	g.BackgroundURL = stringPtr(bgURL)
	g.LocalCoverPath = stringPtr(localCover)
	g.LocalBackgroundPath = stringPtr(localBg)
	g.Genres = decodeList(genres)
	g.Developers = decodeList(developers)
	g.Publishers = decodeList(publishers)
	g.ReviewScore = int64Ptr(reviewScore)
	g.ReviewCount = int64Ptr(reviewCount)
	g.ReviewSummary = stringPtr(reviewSummary)
	g.SizeBytes = int64Ptr(sizeBytes)
	if confidence.Valid {
		c := confidence.Float64
		g.MatchConfidence = &c
	}
	g.MatchStatus = MatchStatus(status)
	g.HLTBMainMins = int64Ptr(hltbMain)
	g.HLTBExtraMins = int64Ptr(hltbExtra)
	g.HLTBCompletionistMins = int64Ptr(hltbCompletionist)
	g.ManuallyEdited = manual != 0

	return &g, nil
}

func (db *DB) queryGames(ctx context.Context, op, query string, args ...any) ([]*Game, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapDBError(err, op, "")
	}
	defer func() { _ = rows.Close() }()

	var games []*Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, WrapDBError(err, op, "")
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapDBError(err, op, "")
	}
	return games, nil
}

// Upsert inserts a scanned folder or refreshes an existing one, keyed on
// folder_path. A manually edited title is kept. updated_at only moves when a
// column actually changes.
func (db *DB) Upsert(ctx context.Context, folderPath, folderName, title string, sizeBytes *int64) (int64, error) {
	now := db.timestamp()
	var id int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO games (folder_path, folder_name, title, size_bytes, match_status, created_at, updated_at)
		VALUES (?1, ?2, ?3, ?4, 'pending', ?5, ?5)
		ON CONFLICT(folder_path) DO UPDATE SET
			folder_name = excluded.folder_name,
			title = CASE WHEN games.manually_edited = 1 THEN games.title ELSE excluded.title END,
			size_bytes = COALESCE(excluded.size_bytes, games.size_bytes),
			updated_at = CASE
				WHEN games.folder_name IS excluded.folder_name
					AND (games.manually_edited = 1 OR games.title IS excluded.title)
					AND (excluded.size_bytes IS NULL OR games.size_bytes IS excluded.size_bytes)
				THEN games.updated_at
				ELSE MAX(games.updated_at, excluded.updated_at)
			END
		RETURNING id
	`, folderPath, folderName, title, nullable(sizeBytes), now).Scan(&id)
	if err != nil {
		return 0, WrapDBError(err, "upsert game", folderPath)
	}
	return id, nil
}

// GetByID returns a single game.
func (db *DB) GetByID(ctx context.Context, id int64) (*Game, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	g, err := scanGame(row)
	if err != nil {
		return nil, WrapDBError(err, "get game", strconv.FormatInt(id, 10))
	}
	return g, nil
}

// GetByFolder returns the game stored for folderPath.
func (db *DB) GetByFolder(ctx context.Context, folderPath string) (*Game, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE folder_path = ?", folderPath)
	g, err := scanGame(row)
	if err != nil {
		return nil, WrapDBError(err, "get game by folder", folderPath)
	}
	return g, nil
}

// GetFolderFor returns the folder path of a game.
func (db *DB) GetFolderFor(ctx context.Context, id int64) (string, error) {
	var path string
	err := db.conn.QueryRowContext(ctx, "SELECT folder_path FROM games WHERE id = ?", id).Scan(&path)
	if err != nil {
		return "", WrapDBError(err, "get game folder", strconv.FormatInt(id, 10))
	}
	return path, nil
}

// ListAll returns every game ordered by title.
func (db *DB) ListAll(ctx context.Context) ([]*Game, error) {
	return db.queryGames(ctx, "list games", "SELECT "+gameColumns+" FROM games ORDER BY title")
}

// ListEligibleForEnrichment returns games that are unmatched, or matched but
// still missing a cached image.
func (db *DB) ListEligibleForEnrichment(ctx context.Context) ([]*Game, error) {
	return db.queryGames(ctx, "list eligible games", "SELECT "+gameColumns+` FROM games
		WHERE (match_status = 'pending' OR steam_app_id IS NULL)
			OR (match_status = 'matched' AND (local_cover_path IS NULL OR local_background_path IS NULL))
		ORDER BY title`)
}

// Search returns up to limit games whose title contains query.
func (db *DB) Search(ctx context.Context, query string, limit int) ([]*Game, error) {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	pattern := "%" + escaper.Replace(query) + "%"
	return db.queryGames(ctx, "search games",
		"SELECT "+gameColumns+` FROM games WHERE title LIKE ? ESCAPE '\' ORDER BY title LIMIT ?`,
		pattern, limit)
}

// Recent returns the most recently added games.
func (db *DB) Recent(ctx context.Context, limit int) ([]*Game, error) {
	return db.queryGames(ctx, "list recent games",
		"SELECT "+gameColumns+" FROM games ORDER BY created_at DESC, id DESC LIMIT ?", limit)
}

// Stats counts games by resolution state.
func (db *DB) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN match_status = 'matched' THEN 1 END),
			COUNT(CASE WHEN match_status = 'pending' THEN 1 END),
			COUNT(steam_app_id)
		FROM games
	`).Scan(&s.TotalGames, &s.MatchedGames, &s.PendingGames, &s.EnrichedGames)
	if err != nil {
		return nil, WrapDBError(err, "get stats", "")
	}
	return &s, nil
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// decodeList parses a JSON array column. Malformed values read as absent.
func decodeList(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil
	}
	return out
}

// encodeList returns the column value for a list; nil leaves the column alone
// in COALESCE updates.
func encodeList(list []string) any {
	if list == nil {
		return nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil
	}
	return string(data)
}

// nullable unwraps an optional value into a driver argument.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkAffected(res sql.Result, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return WrapDBError(err, op, strconv.FormatInt(id, 10))
	}
	if n == 0 {
		return &StoreError{Op: op, Ref: strconv.FormatInt(id, 10), Err: ErrNotFound}
	}
	return nil
}
