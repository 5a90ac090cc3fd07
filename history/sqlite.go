// Copyright 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/sqlite.go
// Summary: SQLite-backed persistent history store.
//
// The editor core only ever talks to the History interface; this store
// keeps a Memory mirror for recall and writes every accepted line through
// to a SQLite file so sessions share history.

package history

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	added_at INTEGER NOT NULL,
	line     TEXT NOT NULL
);
`

// SQLite is a History persisted to a SQLite database file.
type SQLite struct {
	Memory
	db     *sql.DB
	insert *sql.Stmt
}

var _ History = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the history database at path and
// loads the newest maxSize lines. maxSize <= 0 selects DefaultMaxSize.
func OpenSQLite(path string, maxSize int) (*SQLite, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	s := &SQLite{db: db}
	s.Memory.MaxSize = maxSize
	s.Memory.IgnoreDuplicates = true

	rows, err := db.Query(
		`SELECT line FROM (SELECT id, line FROM history ORDER BY id DESC LIMIT ?) ORDER BY id ASC`,
		maxSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			db.Close()
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		s.Memory.items = append(s.Memory.items, line)
	}
	if err := rows.Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}
	s.Memory.MoveToEnd()

	s.insert, err = db.Prepare(`INSERT INTO history (added_at, line) VALUES (?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare history insert: %w", err)
	}
	return s, nil
}

// Add stores the line in memory and appends it to the database. Database
// failures are logged, not fatal: the in-memory session keeps working.
func (s *SQLite) Add(line string) {
	before := s.Memory.Size()
	dupSkip := s.Memory.IgnoreDuplicates && before > 0 &&
		s.Memory.items[before-1] == line
	s.Memory.Add(line)
	if dupSkip {
		return
	}
	if _, err := s.insert.Exec(time.Now().Unix(), line); err != nil {
		log.Printf("history: persist failed: %v", err)
	}
}

// Search returns up to limit stored lines containing the substring,
// newest first.
func (s *SQLite) Search(substr string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT line FROM history WHERE line LIKE '%' || ? || '%' ESCAPE '\' ORDER BY id DESC LIMIT ?`,
		escapeLike(substr), limit)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// Trim deletes persisted lines beyond the newest max.
func (s *SQLite) Trim(max int) error {
	if max <= 0 {
		max = s.Memory.MaxSize
	}
	_, err := s.db.Exec(
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`,
		max)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	if s.insert != nil {
		s.insert.Close()
	}
	return s.db.Close()
}

func escapeLike(s string) string {
	var out []rune
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
