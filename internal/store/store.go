// Package store persists games in SQLite. The full game state travels as
// one JSON document per row; the indexed columns exist for listings and
// cleanup queries.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"jigsaw-party/server"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS games (
	id              TEXT PRIMARY KEY,
	creator_user_id TEXT NOT NULL DEFAULT '',
	image_url       TEXT NOT NULL DEFAULT '',
	created_ts      INTEGER NOT NULL DEFAULT 0,
	finished_ts     INTEGER NOT NULL DEFAULT 0,
	private         INTEGER NOT NULL DEFAULT 0,
	data            TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_created ON games(created_ts);
CREATE INDEX IF NOT EXISTS idx_games_finished ON games(finished_ts);
`

// Store provides durable storage for games. SQLite runs in WAL mode with a
// single writer connection.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

var _ server.Storage = (*Store)(nil)

// Open creates or opens the database at path and applies the schema. Safe
// to call repeatedly.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent sweeps.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("store: execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadGame fetches one game row. A missing id is reported through the
// found flag, not an error.
func (s *Store) LoadGame(ctx context.Context, id string) (server.StoredGame, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, creator_user_id, image_url, created_ts, finished_ts, private, data
		FROM games WHERE id = ?`, id)

	var g server.StoredGame
	var private int
	var data string
	err := row.Scan(&g.ID, &g.CreatorUserID, &g.ImageURL, &g.CreatedTs, &g.FinishedTs, &private, &data)
	if err == sql.ErrNoRows {
		return server.StoredGame{}, false, nil
	}
	if err != nil {
		return server.StoredGame{}, false, fmt.Errorf("store: load game %s: %w", id, err)
	}
	g.Private = private != 0
	g.Data = []byte(data)
	return g, true, nil
}

// SaveGame upserts one game row.
func (s *Store) SaveGame(ctx context.Context, g server.StoredGame) error {
	private := 0
	if g.Private {
		private = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, creator_user_id, image_url, created_ts, finished_ts, private, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_ts = excluded.finished_ts,
			private     = excluded.private,
			data        = excluded.data`,
		g.ID, g.CreatorUserID, g.ImageURL, g.CreatedTs, g.FinishedTs, private, string(g.Data))
	if err != nil {
		return fmt.Errorf("store: save game %s: %w", g.ID, err)
	}
	return nil
}

// GameListing is one row of the public games index.
type GameListing struct {
	ID         string `json:"id"`
	ImageURL   string `json:"imageUrl"`
	CreatedTs  int64  `json:"createdTs"`
	FinishedTs int64  `json:"finishedTs"`
}

// ListPublic returns recent non-private games, newest first.
func (s *Store) ListPublic(ctx context.Context, limit int) ([]GameListing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, image_url, created_ts, finished_ts
		FROM games WHERE private = 0
		ORDER BY created_ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list games: %w", err)
	}
	defer rows.Close()

	var out []GameListing
	for rows.Next() {
		var l GameListing
		if err := rows.Scan(&l.ID, &l.ImageURL, &l.CreatedTs, &l.FinishedTs); err != nil {
			return nil, fmt.Errorf("store: scan listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list games: %w", err)
	}
	return out, nil
}
