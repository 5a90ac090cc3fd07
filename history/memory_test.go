// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/memory_test.go
// Summary: Exercises recall cursor, trimming and iteration.

package history

import "testing"

func TestAddAndIndex(t *testing.T) {
	m := NewMemory()
	if m.Index() != 0 {
		t.Fatalf("empty index = %d, want 0", m.Index())
	}
	m.Add("one")
	m.Add("two")
	if m.Size() != 2 || m.Index() != 2 {
		t.Fatalf("size=%d index=%d, want 2/2", m.Size(), m.Index())
	}
	if m.Get(1) != "two" {
		t.Fatalf("Get(1) = %q", m.Get(1))
	}
	if m.Get(5) != "" {
		t.Fatalf("out of range Get should be empty")
	}
}

func TestDuplicatesSkipped(t *testing.T) {
	m := NewMemory()
	m.Add("same")
	m.Add("same")
	if m.Size() != 1 {
		t.Fatalf("size = %d, want 1", m.Size())
	}
	m.IgnoreDuplicates = false
	m.Add("same")
	if m.Size() != 2 {
		t.Fatalf("size = %d, want 2 with duplicates allowed", m.Size())
	}
}

func TestTrimKeepsGlobalIndexes(t *testing.T) {
	m := NewMemory()
	m.MaxSize = 2
	m.Add("a")
	m.Add("b")
	m.Add("c")
	if m.Size() != 2 {
		t.Fatalf("size = %d, want 2", m.Size())
	}
	if m.Index() != 3 {
		t.Fatalf("index = %d, want 3", m.Index())
	}
	if m.Get(0) != "" || m.Get(1) != "b" || m.Get(2) != "c" {
		t.Fatalf("trimmed entries wrong: %q %q %q", m.Get(0), m.Get(1), m.Get(2))
	}
}

func TestRecallCursor(t *testing.T) {
	m := NewMemory()
	m.Add("a")
	m.Add("b")

	if m.Current() != "" {
		t.Fatalf("cursor should start at end")
	}
	if !m.Previous() || m.Current() != "b" {
		t.Fatalf("previous should land on b, got %q", m.Current())
	}
	if !m.Previous() || m.Current() != "a" {
		t.Fatalf("previous should land on a, got %q", m.Current())
	}
	if m.Previous() {
		t.Fatal("previous past the oldest entry should fail")
	}
	if !m.Next() || m.Current() != "b" {
		t.Fatalf("next should land on b, got %q", m.Current())
	}
	if !m.Next() || m.Current() != "" {
		t.Fatal("next should park at the end")
	}
	if m.Next() {
		t.Fatal("next past the end should fail")
	}
}

func TestMoveToFirstLast(t *testing.T) {
	m := NewMemory()
	m.Add("a")
	m.Add("b")
	m.Add("c")
	if !m.MoveToFirst() || m.Current() != "a" {
		t.Fatalf("MoveToFirst landed on %q", m.Current())
	}
	if !m.MoveToLast() || m.Current() != "c" {
		t.Fatalf("MoveToLast landed on %q", m.Current())
	}
	if !m.MoveTo(1) || m.Current() != "b" {
		t.Fatalf("MoveTo(1) landed on %q", m.Current())
	}
	if m.MoveTo(17) {
		t.Fatal("MoveTo out of range should fail")
	}
}

func TestIterator(t *testing.T) {
	m := NewMemory()
	m.Add("a")
	m.Add("b")
	m.Add("c")

	it := m.Entries(m.Index())
	var back []string
	for it.HasPrevious() {
		back = append(back, it.Previous().Value)
	}
	if len(back) != 3 || back[0] != "c" || back[2] != "a" {
		t.Fatalf("backward iteration = %v", back)
	}
	for it.HasNext() {
		back = append(back, it.Next().Value)
	}
	if len(back) != 6 || back[3] != "a" || back[5] != "c" {
		t.Fatalf("forward iteration = %v", back)
	}

	it = m.Entries(1)
	if !it.HasNext() {
		t.Fatal("iterator from 1 should have a next entry")
	}
	if e := it.Next(); e.Index != 1 || e.Value != "b" {
		t.Fatalf("Entries(1).Next = %+v", e)
	}
}
