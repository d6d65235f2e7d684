package db

import (
	"context"
	"fmt"
	"strconv"
)

// Resolution is the catalog payload written when a game is matched.
// Nil fields leave the stored value untouched.
type Resolution struct {
	AppID         int64
	Confidence    float64
	Summary       *string
	CoverURL      *string
	BackgroundURL *string
	ReleaseDate   *string
	Genres        []string
	Developers    []string
	Publishers    []string

	// Force overwrites fields even on manually edited games.
	Force bool
}

// Reviews is the review aggregate for a matched game.
type Reviews struct {
	Score   int64
	Count   int64
	Summary string
}

// ManualEdit holds user supplied corrections. Nil fields are left unchanged.
type ManualEdit struct {
	Title       *string  `json:"title,omitempty"`
	Summary     *string  `json:"summary,omitempty"`
	ReleaseDate *string  `json:"release_date,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Developers  []string `json:"developers,omitempty"`
	Publishers  []string `json:"publishers,omitempty"`
	ReviewScore *int64   `json:"review_score,omitempty"`
}

// Empty reports whether the edit carries no field at all.
func (e ManualEdit) Empty() bool {
	return e.Title == nil && e.Summary == nil && e.ReleaseDate == nil &&
		e.Genres == nil && e.Developers == nil && e.Publishers == nil &&
		e.ReviewScore == nil
}

// ImportFields is the subset of a sidecar applied to the store on import.
// Nil fields keep the stored value.
type ImportFields struct {
	Title                 *string
	SteamAppID            *int64
	Summary               *string
	ReleaseDate           *string
	Genres                []string
	Developers            []string
	Publishers            []string
	ReviewScore           *int64
	ReviewSummary         *string
	HLTBMainMins          *int64
	HLTBExtraMins         *int64
	HLTBCompletionistMins *int64
	ManuallyEdited        bool
}

// guarded keeps the stored value of col on manually edited rows unless ?1
// (force) is set; otherwise it takes param when non-null.
func guarded(col, param string) string {
	return fmt.Sprintf(
		"%[1]s = CASE WHEN manually_edited = 1 AND ?1 = 0 THEN COALESCE(%[1]s, %[2]s) ELSE COALESCE(%[2]s, %[1]s) END",
		col, param)
}

var updateResolutionSQL = `UPDATE games SET
		steam_app_id = ?2,
		` + guarded("summary", "?3") + `,
		cover_url = COALESCE(?4, cover_url),
		background_url = COALESCE(?5, background_url),
		` + guarded("release_date", "?6") + `,
		` + guarded("genres", "?7") + `,
		` + guarded("developers", "?8") + `,
		` + guarded("publishers", "?9") + `,
		match_confidence = ?10,
		match_status = 'matched',
		updated_at = MAX(updated_at, ?11)
	WHERE id = ?12`

// UpdateResolution records a catalog match and its details.
func (db *DB) UpdateResolution(ctx context.Context, id int64, r Resolution) error {
	const op = "update resolution"
	res, err := db.conn.ExecContext(ctx, updateResolutionSQL,
		boolInt(r.Force),
		r.AppID,
		nullable(r.Summary),
		nullable(r.CoverURL),
		nullable(r.BackgroundURL),
		nullable(r.ReleaseDate),
		encodeList(r.Genres),
		encodeList(r.Developers),
		encodeList(r.Publishers),
		r.Confidence,
		db.timestamp(),
		id,
	)
	if err != nil {
		return WrapDBError(err, op, strconv.FormatInt(id, 10))
	}
	return checkAffected(res, op, id)
}

// UpdateReviews stores the review aggregate. On manually edited games the
// score and summary are only filled when empty, unless force is set.
func (db *DB) UpdateReviews(ctx context.Context, id int64, r Reviews, force bool) error {
	const op = "update reviews"
	res, err := db.conn.ExecContext(ctx, `UPDATE games SET
			review_score = CASE WHEN manually_edited = 1 AND ?1 = 0 THEN COALESCE(review_score, ?2) ELSE ?2 END,
			review_count = ?3,
			review_summary = CASE WHEN manually_edited = 1 AND ?1 = 0 THEN COALESCE(review_summary, ?4) ELSE ?4 END,
			updated_at = MAX(updated_at, ?5)
		WHERE id = ?6`,
		boolInt(force), r.Score, r.Count, r.Summary, db.timestamp(), id)
	if err != nil {
		return WrapDBError(err, op, strconv.FormatInt(id, 10))
	}
	return checkAffected(res, op, id)
}

// UpdateLocalImages records cached image paths. Nil paths are left unchanged.
func (db *DB) UpdateLocalImages(ctx context.Context, id int64, cover, background *string) error {
	if cover == nil && background == nil {
		return nil
	}
	const op = "update local images"
	res, err := db.conn.ExecContext(ctx, `UPDATE games SET
			local_cover_path = COALESCE(?1, local_cover_path),
			local_background_path = COALESCE(?2, local_background_path),
			updated_at = MAX(updated_at, ?3)
		WHERE id = ?4`,
		nullable(cover), nullable(background), db.timestamp(), id)
	if err != nil {
		return WrapDBError(err, op, strconv.FormatInt(id, 10))
	}
	return checkAffected(res, op, id)
}

// UpdateIGDBID links a game to its IGDB record.
func (db *DB) UpdateIGDBID(ctx context.Context, id, igdbID int64) error {
	const op = "update igdb id"
	res, err := db.conn.ExecContext(ctx,
		"UPDATE games SET igdb_id = ?, updated_at = MAX(updated_at, ?) WHERE id = ?",
		igdbID, db.timestamp(), id)
	if err != nil {
		return WrapDBError(err, op, strconv.FormatInt(id, 10))
	}
	return checkAffected(res, op, id)
}

// UpdateManualEdit applies user corrections, marks the game as manually
// edited and returns the updated row. Both happen in one transaction.
func (db *DB) UpdateManualEdit(ctx context.Context, id int64, edit ManualEdit) (*Game, error) {
	const op = "manual edit"
	ref := strconv.FormatInt(id, 10)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, WrapDBError(err, op, ref)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE games SET
			title = COALESCE(?1, title),
			summary = COALESCE(?2, summary),
			release_date = COALESCE(?3, release_date),
			genres = COALESCE(?4, genres),
			developers = COALESCE(?5, developers),
			publishers = COALESCE(?6, publishers),
			review_score = COALESCE(?7, review_score),
			manually_edited = 1,
			updated_at = MAX(updated_at, ?8)
		WHERE id = ?9`,
		nullable(edit.Title),
		nullable(edit.Summary),
		nullable(edit.ReleaseDate),
		encodeList(edit.Genres),
		encodeList(edit.Developers),
		encodeList(edit.Publishers),
		nullable(edit.ReviewScore),
		db.timestamp(),
		id,
	)
	if err != nil {
		return nil, WrapDBError(err, op, ref)
	}
	if err := checkAffected(res, op, id); err != nil {
		return nil, err
	}

	g, err := scanGame(tx.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id))
	if err != nil {
		return nil, WrapDBError(err, op, ref)
	}

	if err := tx.Commit(); err != nil {
		return nil, WrapDBError(err, op, ref)
	}
	return g, nil
}

// ApplyImport merges sidecar fields into the stored game. A sidecar that
// carries an app id marks the game matched; the manual edit flag is only
// ever raised, never cleared.
func (db *DB) ApplyImport(ctx context.Context, id int64, f ImportFields) error {
	const op = "apply import"
	res, err := db.conn.ExecContext(ctx, `UPDATE games SET
			title = COALESCE(?1, title),
			steam_app_id = COALESCE(?2, steam_app_id),
			summary = COALESCE(?3, summary),
			release_date = COALESCE(?4, release_date),
			genres = COALESCE(?5, genres),
			developers = COALESCE(?6, developers),
			publishers = COALESCE(?7, publishers),
			review_score = COALESCE(?8, review_score),
			review_summary = COALESCE(?9, review_summary),
			hltb_main_mins = COALESCE(?10, hltb_main_mins),
			hltb_extra_mins = COALESCE(?11, hltb_extra_mins),
			hltb_completionist_mins = COALESCE(?12, hltb_completionist_mins),
			match_status = CASE WHEN ?2 IS NOT NULL THEN 'matched' ELSE match_status END,
			match_confidence = CASE WHEN ?2 IS NOT NULL THEN COALESCE(match_confidence, 1.0) ELSE match_confidence END,
			manually_edited = MAX(manually_edited, ?13),
			updated_at = MAX(updated_at, ?14)
		WHERE id = ?15`,
		nullable(f.Title),
		nullable(f.SteamAppID),
		nullable(f.Summary),
		nullable(f.ReleaseDate),
		encodeList(f.Genres),
		encodeList(f.Developers),
		encodeList(f.Publishers),
		nullable(f.ReviewScore),
		nullable(f.ReviewSummary),
		nullable(f.HLTBMainMins),
		nullable(f.HLTBExtraMins),
		nullable(f.HLTBCompletionistMins),
		boolInt(f.ManuallyEdited),
		db.timestamp(),
		id,
	)
	if err != nil {
		return WrapDBError(err, op, strconv.FormatInt(id, 10))
	}
	return checkAffected(res, op, id)
}

// ResetMatch clears a game's resolution so the next enrichment run picks it up.
func (db *DB) ResetMatch(ctx context.Context, id int64) error {
	const op = "reset match"
	res, err := db.conn.ExecContext(ctx, `UPDATE games SET
			steam_app_id = NULL,
			match_confidence = NULL,
			match_status = 'pending',
			updated_at = MAX(updated_at, ?1)
		WHERE id = ?2`,
		db.timestamp(), id)
	if err != nil {
		return WrapDBError(err, op, strconv.FormatInt(id, 10))
	}
	return checkAffected(res, op, id)
}
