// Package resolvecache persists finished segment resolutions in SQLite,
// keyed by the content hash of (clip audio, song id). It implements the
// resolver's optional cache port so repeated requests skip paid provider
// calls.
package resolvecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"lyricsync/internal/segment"
)

// Store manages resolution persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS resolutions (
    hash TEXT PRIMARY KEY,
    song_id TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resolutions_song_id ON resolutions(song_id);
`

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached resolution for the hash, if present.
func (s *Store) Get(ctx context.Context, hash string) (segment.SegmentResolution, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM resolutions WHERE hash = ?", hash).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return segment.SegmentResolution{}, false, nil
	}
	if err != nil {
		return segment.SegmentResolution{}, false, fmt.Errorf("query resolution: %w", err)
	}

	var res segment.SegmentResolution
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return segment.SegmentResolution{}, false, fmt.Errorf("decode cached resolution: %w", err)
	}
	return res, true, nil
}

// Put stores a resolution under the hash, replacing any previous entry.
func (s *Store) Put(ctx context.Context, hash string, res segment.SegmentResolution) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode resolution: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO resolutions (hash, song_id, payload, created_at) VALUES (?, ?, ?, ?)",
		hash, res.SongID, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store resolution: %w", err)
	}
	return nil
}

// Clear removes every cached resolution and returns the number deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM resolutions")
	if err != nil {
		return 0, fmt.Errorf("clear resolutions: %w", err)
	}
	return result.RowsAffected()
}

// Stats reports the number of cached resolutions.
func (s *Store) Stats(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM resolutions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count resolutions: %w", err)
	}
	return count, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}
