package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"courier/internal/domain"
)

const historyFilename = "history.db"

const historySchema = `
CREATE TABLE IF NOT EXISTS history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	direction  TEXT    NOT NULL,
	peer       BLOB    NOT NULL,
	data       BLOB,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
`

// HistorySQLStore keeps sent and received payloads in a local SQLite file.
type HistorySQLStore struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the history database under dir.
func OpenHistory(dir string) (*HistorySQLStore, error) {
	return OpenHistoryPath(filepath.Join(dir, historyFilename))
}

// OpenHistoryPath opens the history database at path. ":memory:" works for tests.
func OpenHistoryPath(path string) (*HistorySQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	// One writer; also keeps ":memory:" to a single shared database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return &HistorySQLStore{db: db}, nil
}

// Append records entry and returns its row id. A zero At is set to now.
func (s *HistorySQLStore) Append(ctx context.Context, entry domain.HistoryEntry) (int64, error) {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO history (direction, peer, data, created_at) VALUES (?, ?, ?, ?)`,
		string(entry.Direction), entry.Peer.Slice(), entry.Data, entry.At.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("append history: %w", err)
	}
	return res.LastInsertId()
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *HistorySQLStore) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, direction, peer, data, created_at FROM history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			direction string
			peer      []byte
			at        int64
		)
		if err := rows.Scan(&e.ID, &direction, &peer, &e.Data, &at); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Direction = domain.Direction(direction)
		copy(e.Peer[:], peer)
		e.At = time.Unix(0, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *HistorySQLStore) Close() error { return s.db.Close() }

// Compile-time assertion that HistorySQLStore implements domain.HistoryStore.
var _ domain.HistoryStore = (*HistorySQLStore)(nil)
