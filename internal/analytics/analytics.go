// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analytics records session events (page views, cart adds, AI
// queries) into a small sqlite database and serves the aggregates the
// analytics view renders. The database defaults to a per-run temporary
// file: events are session telemetry, not persisted user data.
package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Event kinds recorded by the views.
const (
	EventPageView    = "page_view"
	EventCartAdd     = "cart_add"
	EventWishlistAdd = "wishlist_add"
	EventChatQuery   = "chat_query"
	EventCheckout    = "checkout"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	label      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
`

// Recorder is the session event log. Safe for concurrent use; the
// sql.DB pool serializes access.
type Recorder struct {
	db   *sql.DB
	path string
}

// Open creates or opens the event database at path. An empty path
// selects a temporary per-run file under the OS temp directory.
func Open(path string) (*Recorder, error) {
	if path == "" {
		dir, err := os.MkdirTemp("", "gameverse-analytics-")
		if err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
		path = filepath.Join(dir, "events.db")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init analytics schema: %w", err)
	}
	return &Recorder{db: db, path: path}, nil
}

// Path returns the database file path.
func (r *Recorder) Path() string {
	return r.path
}

// Record stores one event. The label is free-form context, typically a
// game title or page name.
func (r *Recorder) Record(kind, label string) error {
	_, err := r.db.Exec(`INSERT INTO events (kind, label) VALUES (?, ?)`, kind, label)
	return err
}

// Count returns the number of events of the given kind.
func (r *Recorder) Count(kind string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM events WHERE kind = ?`, kind).Scan(&n)
	return n, err
}

// CountByKind returns event totals grouped by kind.
func (r *Recorder) CountByKind() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT kind, COUNT(*) FROM events GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}

// LabelCount pairs a label with its event count.
type LabelCount struct {
	Label string
	Count int
}

// TopLabels returns the n most frequent labels for a kind, most
// frequent first.
func (r *Recorder) TopLabels(kind string, n int) ([]LabelCount, error) {
	rows, err := r.db.Query(
		`SELECT label, COUNT(*) AS c FROM events WHERE kind = ? AND label != ''
		 GROUP BY label ORDER BY c DESC, label ASC LIMIT ?`, kind, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (r *Recorder) Close() error {
	return r.db.Close()
}
