package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jacky88927/werewolf-llm-game/internal/persist"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS games (
	id       TEXT PRIMARY KEY,
	saved_at TEXT NOT NULL,
	day      INTEGER NOT NULL,
	winner   TEXT NOT NULL,
	snapshot TEXT NOT NULL
);`

// Archive keeps finished games in SQLite so they survive restarts and can
// be listed and replayed later. Live games stay in the in-memory
// repository; only completed snapshots land here.
type Archive struct {
	db *sql.DB
}

// NewArchive opens (or creates) the archive database at path. Use
// ":memory:" for an ephemeral archive in tests.
func NewArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error { return a.db.Close() }

// ArchivedGame is one row of the archive listing.
type ArchivedGame struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Day     int       `json:"day"`
	Winner  string    `json:"winner"`
}

// Store upserts a finished game's snapshot.
func (a *Archive) Store(ctx context.Context, snap *persist.Snapshot) error {
	buf, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("archive game %s: %w", snap.Game.ID, err)
	}
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO games (id, saved_at, day, winner, snapshot)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			saved_at = excluded.saved_at,
			day      = excluded.day,
			winner   = excluded.winner,
			snapshot = excluded.snapshot`,
		snap.Game.ID, savedAt.Format(time.RFC3339), snap.Game.Day,
		string(snap.Game.Winner), string(buf))
	if err != nil {
		return fmt.Errorf("archive game %s: %w", snap.Game.ID, err)
	}
	return nil
}

// Get loads an archived game's full snapshot.
func (a *Archive) Get(ctx context.Context, id string) (*persist.Snapshot, error) {
	var raw string
	err := a.db.QueryRowContext(ctx,
		`SELECT snapshot FROM games WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read archived game %s: %w", id, err)
	}
	var snap persist.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode archived game %s: %w", id, err)
	}
	return &snap, nil
}

// List returns the archived games, newest first.
func (a *Archive) List(ctx context.Context) ([]ArchivedGame, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, saved_at, day, winner FROM games ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list archived games: %w", err)
	}
	defer rows.Close()

	var out []ArchivedGame
	for rows.Next() {
		var g ArchivedGame
		var savedAt string
		if err := rows.Scan(&g.ID, &savedAt, &g.Day, &g.Winner); err != nil {
			return nil, fmt.Errorf("scan archived game: %w", err)
		}
		g.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
		out = append(out, g)
	}
	return out, rows.Err()
}
