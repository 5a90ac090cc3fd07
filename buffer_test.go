// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package texline

import "testing"

func TestBufferWriteAndMove(t *testing.T) {
	b := NewBuffer()
	b.Write("hello")
	if b.String() != "hello" || b.Cursor() != 5 {
		t.Fatalf("buffer %q cursor %d", b.String(), b.Cursor())
	}
	if moved := b.Move(-2); moved != -2 {
		t.Fatalf("Move(-2) = %d", moved)
	}
	b.Write("XX")
	if b.String() != "helXXlo" || b.Cursor() != 5 {
		t.Fatalf("insert at cursor: %q cursor %d", b.String(), b.Cursor())
	}
}

func TestBufferMoveClamps(t *testing.T) {
	b := NewBuffer()
	b.Write("ab")
	if moved := b.Move(-10); moved != -2 {
		t.Fatalf("clamped left move = %d", moved)
	}
	if b.Cursor() != 0 {
		t.Fatalf("cursor = %d", b.Cursor())
	}
	if moved := b.Move(10); moved != 2 {
		t.Fatalf("clamped right move = %d", moved)
	}
	if moved := b.Move(1); moved != 0 {
		t.Fatalf("move past end = %d", moved)
	}
}

func TestBufferOvertype(t *testing.T) {
	b := NewBuffer()
	b.Write("abcd")
	b.Move(-3)
	b.SetOvertype(true)
	b.Write("XY")
	if b.String() != "aXYd" {
		t.Fatalf("overtype result %q", b.String())
	}
	// Writing past the end appends even in overtype.
	b.Move(10)
	b.Write("Z")
	if b.String() != "aXYdZ" {
		t.Fatalf("overtype append %q", b.String())
	}
}

func TestBufferBackspace(t *testing.T) {
	b := NewBuffer()
	b.Write("abc")
	if n := b.Backspace(2); n != 2 {
		t.Fatalf("Backspace(2) = %d", n)
	}
	if b.String() != "a" || b.Cursor() != 1 {
		t.Fatalf("buffer %q cursor %d", b.String(), b.Cursor())
	}
	if n := b.Backspace(5); n != 1 {
		t.Fatalf("over-long backspace removed %d", n)
	}
	if n := b.Backspace(1); n != 0 {
		t.Fatalf("backspace on empty = %d", n)
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBuffer()
	b.Write("abc")
	if b.Delete() {
		t.Fatal("delete at end should fail")
	}
	b.Move(-3)
	if !b.Delete() || b.String() != "bc" || b.Cursor() != 0 {
		t.Fatalf("delete at start: %q cursor %d", b.String(), b.Cursor())
	}
	b.DeleteRange(0, 5)
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Fatalf("delete range left %q cursor %d", b.String(), b.Cursor())
	}
}

func TestBufferCurrentAndNext(t *testing.T) {
	b := NewBuffer()
	b.Write("ab")
	b.Move(-1)
	if b.Current() != 'a' || b.NextChar() != 'b' {
		t.Fatalf("current %q next %q", b.Current(), b.NextChar())
	}
	b.Move(-1)
	if b.Current() != 0 {
		t.Fatalf("current at origin = %q", b.Current())
	}
	b.Move(2)
	if b.NextChar() != 0 {
		t.Fatalf("next at end = %q", b.NextChar())
	}
}

func TestBufferUnicode(t *testing.T) {
	b := NewBuffer()
	b.Write("漢字")
	if b.Len() != 2 || b.Cursor() != 2 {
		t.Fatalf("len %d cursor %d", b.Len(), b.Cursor())
	}
	b.Backspace(1)
	if b.String() != "漢" {
		t.Fatalf("buffer %q", b.String())
	}
}

func TestBufferCopyIsIndependent(t *testing.T) {
	b := NewBuffer()
	b.Write("abc")
	c := b.Copy()
	b.Write("d")
	if c.String() != "abc" || c.Cursor() != 3 {
		t.Fatalf("copy changed: %q cursor %d", c.String(), c.Cursor())
	}
}
