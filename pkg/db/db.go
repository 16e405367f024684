// Package db provides the persistence layer used by the application. It
// wraps a SQLite database and exposes helper methods for storing favorite
// tracks and recent search history. The package is intentionally small;
// callers are expected to open a single DB instance using New and reuse it
// for all operations.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"Reco-Go/pkg/music"
)

// historyLimit caps the number of retained search queries.
const historyLimit = 10

// DB wraps a sql.DB connection and exposes helper methods for the
// application's persistence layer.
type DB struct {
	*sql.DB
}

// New opens the SQLite database located at path. If the file does not exist
// it is created along with the required schema. The returned DB value wraps
// the sql.DB connection for use by the rest of the application.
func New(path string) (*DB, error) {
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS favorites (
			track_id TEXT,
			source TEXT,
			name TEXT,
			artist TEXT,
			image_url TEXT,
			external_url TEXT,
			preview_url TEXT,
			added_at TIMESTAMP,
			PRIMARY KEY (track_id, source)
		)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			searched_at TIMESTAMP
		)`,
	}
	// Execute the schema creation statements. Errors here likely mean the
	// database file is not writable.
	for _, s := range stmts {
		if _, err := d.Exec(s); err != nil {
			d.Close()
			return nil, fmt.Errorf("init db: %w", err)
		}
	}
	return &DB{d}, nil
}

// AddFavorite inserts a track into the favorites table. Duplicate entries
// for the same track and source are ignored so favorites remain unique.
func (db *DB) AddFavorite(ctx context.Context, t music.Track) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites(track_id, source, name, artist, image_url, external_url, preview_url, added_at)
		 VALUES(?,?,?,?,?,?,?,?)`,
		t.ID, string(t.Source), t.Name, t.Artist, t.ImageURL, t.ExternalURL, t.PreviewURL, time.Now())
	return err
}

// DeleteFavorite removes a track from the favorites list. sql.ErrNoRows is
// returned when the favorite does not exist which allows callers to respond
// with a 404.
func (db *DB) DeleteFavorite(ctx context.Context, trackID string, source music.Source) error {
	res, err := db.ExecContext(ctx, `DELETE FROM favorites WHERE track_id=? AND source=?`, trackID, string(source))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListFavorites retrieves all favorites. Results are returned in reverse
// insertion order so the most recently saved tracks appear first.
func (db *DB) ListFavorites(ctx context.Context) ([]music.Track, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT track_id, source, name, artist, image_url, external_url, preview_url
		 FROM favorites ORDER BY added_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []music.Track
	for rows.Next() {
		var t music.Track
		var source string
		if err := rows.Scan(&t.ID, &source, &t.Name, &t.Artist, &t.ImageURL, &t.ExternalURL, &t.PreviewURL); err != nil {
			return nil, err
		}
		t.Source = music.Source(source)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// AddSearch records a search query. The history is de-duplicated on the
// query text, most recent first, and trimmed to the retention cap.
func (db *DB) AddSearch(ctx context.Context, query string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM search_history WHERE query=?`, query); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO search_history(query, searched_at) VALUES(?,?)`, query, time.Now()); err != nil {
		return err
	}
	// Trim anything beyond the newest entries.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM search_history WHERE id NOT IN (SELECT id FROM search_history ORDER BY id DESC LIMIT ?)`,
		historyLimit); err != nil {
		return err
	}
	return tx.Commit()
}

// ListSearches returns the retained search queries, most recent first.
func (db *DB) ListSearches(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT query FROM search_history ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}
