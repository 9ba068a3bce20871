// Copyright (c) 2025 vaultchat contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversation history in a local SQLite database.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vaultchat/vaultchat/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at);
`

// =============================================================================
// HISTORY STORE
// =============================================================================

// History is the durable transcript. Writes go through database/sql,
// which serializes access; the store is safe for concurrent use.
type History struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// modernc.org/sqlite is happiest with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Append stores a turn at the end of the transcript.
func (h *History) Append(msg model.Message) error {
	_, err := h.db.Exec(
		`INSERT INTO messages (id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		msg.ID, string(msg.Role), msg.Content, msg.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// Recent returns up to n of the most recent turns, oldest first.
func (h *History) Recent(n int) ([]model.Message, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := h.db.Query(
		`SELECT id, role, content, created_at FROM messages ORDER BY seq DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var msg model.Message
		var role string
		var createdAt int64
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = model.Role(role)
		msg.Timestamp = time.UnixMilli(createdAt)
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	// Query walked newest-first; flip to transcript order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Count returns the number of stored turns.
func (h *History) Count() (int, error) {
	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}

// Trim drops the oldest turns until at most max remain.
func (h *History) Trim(max int) error {
	if max < 0 {
		max = 0
	}
	_, err := h.db.Exec(
		`DELETE FROM messages WHERE seq NOT IN (
			SELECT seq FROM messages ORDER BY seq DESC LIMIT ?
		)`, max,
	)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return nil
}

// Clear removes all stored turns.
func (h *History) Clear() error {
	if _, err := h.db.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
