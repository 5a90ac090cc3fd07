// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package texline

import (
	"testing"

	"github.com/framegrace/texline/term/termtest"
)

func viReader(t *testing.T, c *termtest.Console) *Reader {
	t.Helper()
	r := newTestReader(t, c)
	r.SetKeyMap("vi-insert")
	return r
}

func TestViChangeWord(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	// Type the line, ESC to movement mode, 0 to line start, cw
	// replaces the first word, ESC back to movement, ENTER accepts.
	c.Type("hello world\x1b0cwHI\x1b\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "HI world" {
		t.Fatalf("line = %q, want %q", line, "HI world")
	}
}

func TestViDeleteWord(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("one two\x1b0dw\r") // dw at start deletes "one "

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "two" {
		t.Fatalf("line = %q", line)
	}
}

func TestViDoubleOperatorActsOnWholeLine(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("abc\x1bdd\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "" {
		t.Fatalf("line = %q, want empty after dd", line)
	}
	if s, ok := r.KillRing().Yank(); !ok || s != "abc" {
		t.Fatalf("kill ring = %q %v", s, ok)
	}
}

func TestViYankAndPut(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("abc\x1byyp\r") // yy yanks the line, p puts after cursor

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	// Cursor sits on the final character after ESC; put inserts the
	// yanked line after it.
	if line != "abcabc" {
		t.Fatalf("line = %q", line)
	}
}

func TestViYankWordKeepsCursor(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("foo bar\x1b0yw\r") // yw captures the word, cursor stays put

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "foo bar" {
		t.Fatalf("line = %q", line)
	}
	if r.yankBuffer != "foo " {
		t.Fatalf("yank buffer = %q, want %q", r.yankBuffer, "foo ")
	}
}

func TestViCharSearch(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("hello world\x1b0fox\r") // f o lands on the first o, x deletes it

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "hell world" {
		t.Fatalf("line = %q", line)
	}
}

func TestViCharSearchRepeat(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("a.b.c\x1b0f.;x\r") // f. then ; repeats, x deletes second dot

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "a.bc" {
		t.Fatalf("line = %q", line)
	}
}

func TestViMatchBracket(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("(abc)\x1b0%x\r") // % jumps to the closing paren, x deletes it

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "(abc" {
		t.Fatalf("line = %q", line)
	}
}

func TestViChangeCase(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("aB\x1b0~~\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "Ab" {
		t.Fatalf("line = %q", line)
	}
}

func TestViChangeChar(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("abc\x1b0rX\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "Xbc" {
		t.Fatalf("line = %q", line)
	}
}

func TestViAppendEol(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("abc\x1b0A!\r") // A appends at end of line

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "abc!" {
		t.Fatalf("line = %q", line)
	}
}

func TestViEofMaybeOnEmptyLine(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("\x04")

	_, err := r.ReadLine("> ")
	if err != ErrEndOfFile {
		t.Fatalf("err = %v, want ErrEndOfFile", err)
	}
}

func TestViFirstPrint(t *testing.T) {
	c := termtest.New(40, 10)
	r := viReader(t, c)
	c.Type("  abc\x1b^x\r") // ^ moves to first printable, x deletes 'a'

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "  bc" {
		t.Fatalf("line = %q", line)
	}
}
