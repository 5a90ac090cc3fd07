// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: killring/killring_test.go
// Summary: Exercises kill merging and yank-pop rotation.

package killring

import "testing"

func TestConsecutiveKillsMerge(t *testing.T) {
	r := New(0)
	r.Add("foo")
	r.Add("bar")
	s, ok := r.Yank()
	if !ok || s != "foobar" {
		t.Fatalf("expected merged forward kill %q, got %q", "foobar", s)
	}
}

func TestBackwardKillsPrepend(t *testing.T) {
	r := New(0)
	r.AddBackwards("bar")
	r.AddBackwards("foo")
	s, ok := r.Yank()
	if !ok || s != "foobar" {
		t.Fatalf("expected merged backward kill %q, got %q", "foobar", s)
	}
}

func TestSeparatedKillsUseNewSlots(t *testing.T) {
	r := New(0)
	r.Add("one")
	r.ResetLastKill()
	r.Add("two")
	s, _ := r.Yank()
	if s != "two" {
		t.Fatalf("expected newest slot %q, got %q", "two", s)
	}
}

func TestYankPopCycles(t *testing.T) {
	r := New(0)
	for _, s := range []string{"a", "b", "c"} {
		r.Add(s)
		r.ResetLastKill()
	}

	if s, _ := r.Yank(); s != "c" {
		t.Fatalf("yank = %q, want c", s)
	}
	if s, _ := r.YankPop(); s != "b" {
		t.Fatalf("first yank-pop = %q, want b", s)
	}
	if s, _ := r.YankPop(); s != "a" {
		t.Fatalf("second yank-pop = %q, want a", s)
	}
	// Cycles back around.
	if s, _ := r.YankPop(); s != "c" {
		t.Fatalf("third yank-pop = %q, want c", s)
	}
}

func TestYankPopRequiresYank(t *testing.T) {
	r := New(0)
	r.Add("x")
	if _, ok := r.YankPop(); ok {
		t.Fatal("yank-pop without a yank should fail")
	}
	r.Yank()
	r.ResetLastYank()
	if _, ok := r.YankPop(); ok {
		t.Fatal("yank-pop after a non-yank operation should fail")
	}
}

func TestEmptyRing(t *testing.T) {
	r := New(0)
	if _, ok := r.Yank(); ok {
		t.Fatal("yank on empty ring should fail")
	}
}

func TestRingWraps(t *testing.T) {
	r := New(2)
	for _, s := range []string{"a", "b", "c"} {
		r.Add(s)
		r.ResetLastKill()
	}
	if s, _ := r.Yank(); s != "c" {
		t.Fatalf("yank = %q, want c", s)
	}
}
