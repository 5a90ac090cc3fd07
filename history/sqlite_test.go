// Copyright 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"path/filepath"
	"testing"
)

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	h, err := OpenSQLite(path, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	h.Add("first")
	h.Add("second")
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	h, err = OpenSQLite(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer h.Close()

	if h.Size() != 2 {
		t.Fatalf("size after reopen = %d, want 2", h.Size())
	}
	if h.Get(0) != "first" || h.Get(1) != "second" {
		t.Fatalf("reloaded entries wrong: %q %q", h.Get(0), h.Get(1))
	}
}

func TestSQLiteSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenSQLite(path, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	h.Add("git status")
	h.Add("git commit")
	h.Add("ls -la")

	got, err := h.Search("git", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0] != "git commit" || got[1] != "git status" {
		t.Fatalf("search results = %v", got)
	}

	// LIKE metacharacters are matched literally.
	h.Add("echo 100%")
	got, err = h.Search("100%", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0] != "echo 100%" {
		t.Fatalf("escaped search results = %v", got)
	}
}

func TestSQLiteLoadsNewestWithinLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenSQLite(path, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	h.Add("old")
	h.Add("new")
	h.Close()

	h, err = OpenSQLite(path, 1)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer h.Close()
	if h.Size() != 1 || h.Get(0) != "new" {
		t.Fatalf("limited reopen kept %d entries, first %q", h.Size(), h.Get(0))
	}
}
