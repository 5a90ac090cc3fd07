// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dispatch_test.go
// Summary: Drives whole edit sessions through a scripted terminal.

package texline

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/framegrace/texline/keymap"
	"github.com/framegrace/texline/term/termtest"
)

// newTestReader builds a reader over a scripted console, isolated from
// any inputrc on the host.
func newTestReader(t *testing.T, c *termtest.Console) *Reader {
	t.Helper()
	t.Setenv("INPUTRC", filepath.Join(t.TempDir(), "no-inputrc"))
	return New(c, "texline-test")
}

func TestEchoAndAccept(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("hello\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "hello" {
		t.Fatalf("line = %q", line)
	}
	if r.History().Size() != 1 || r.History().Get(0) != "hello" {
		t.Fatalf("history size %d first %q", r.History().Size(), r.History().Get(0))
	}
	if !strings.Contains(c.Output(), "hello") {
		t.Fatal("echo missing from output")
	}
	if c.Raw() {
		t.Fatal("terminal left in raw mode")
	}
}

func TestBackspace(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("abc\x7f\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "ab" {
		t.Fatalf("line = %q", line)
	}
}

func TestKillAndYank(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("one two\x15\x19\r") // C-u kills to start, C-y yanks back

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "one two" {
		t.Fatalf("line = %q", line)
	}
}

func TestYankPop(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	// Kill "x", type and kill "y" (a new slot since typing intervened),
	// yank "y", then meta-y rotates to "x".
	c.Type("x\x15y\x15\x19\x1by\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "x" {
		t.Fatalf("line = %q, want x", line)
	}
}

func TestYankPopTwiceCycles(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("x\x15y\x15\x19\x1by\x1by\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "y" {
		t.Fatalf("line = %q, want y", line)
	}
}

func TestCtrlCInterrupts(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("ab\x03")

	_, err := r.ReadLine("> ")
	var interrupt *UserInterruptError
	if !errors.As(err, &interrupt) {
		t.Fatalf("err = %v, want UserInterruptError", err)
	}
	if interrupt.Partial != "ab" {
		t.Fatalf("partial = %q", interrupt.Partial)
	}
}

func TestCtrlDOnEmptyLineIsEOF(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("\x04")

	_, err := r.ReadLine("> ")
	if !errors.Is(err, ErrEndOfFile) {
		t.Fatalf("err = %v, want ErrEndOfFile", err)
	}
}

func TestCtrlDDeletesWhenNotEmpty(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("ab\x01\x04\r") // C-a to start, C-d deletes 'a'

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "b" {
		t.Fatalf("line = %q", line)
	}
}

func TestInputEOFSurfaces(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("partial") // script ends without accept

	_, err := r.ReadLine("> ")
	if !errors.Is(err, ErrEndOfFile) {
		t.Fatalf("err = %v, want ErrEndOfFile", err)
	}
}

func TestHistoryRecall(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	r.History().Add("first")
	r.History().Add("second")
	c.Type("\x10\x10\r") // C-p twice

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "first" {
		t.Fatalf("line = %q", line)
	}
}

func TestIncrementalSearch(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	for _, s := range []string{"alpha", "beta", "gamma"} {
		r.History().Add(s)
	}
	// C-r b finds beta; a second C-r has no earlier match (beeps and
	// keeps the match); ENTER accepts it.
	c.Type("\x12b")
	c.Type("\x12")
	c.Type("\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "beta" {
		t.Fatalf("line = %q, want beta", line)
	}
	// C-r paints "bck-i-search: _"; the incremental redisplay then
	// repaints that line only from the inserted "b" onward.
	out := c.Output()
	i := strings.Index(out, "bck-i-search: _")
	if i < 0 || !strings.Contains(out[i:], "b_") {
		t.Fatal("search status line missing")
	}
}

func TestIncrementalSearchAbort(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	r.History().Add("alpha")
	c.Type("keep\x12a\x07\r") // C-r a, then C-g aborts back to "keep"

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "keep" {
		t.Fatalf("line = %q", line)
	}
}

func TestEscDisambiguationTimeout(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	r.SetKeyMap("vi-insert")
	r.SetVariable(VarKeyseqTimeout, "50")
	r.History().Add("prev")

	// A lone ESC (pause longer than the timeout) enters vi-move; "k"
	// then recalls history.
	c.Type("\x1b")
	c.Pause(200 * time.Millisecond)
	c.Type("k\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "prev" {
		t.Fatalf("line = %q", line)
	}
}

func TestEscSequenceWithoutPause(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	r.SetKeyMap("vi-insert")
	r.SetVariable(VarKeyseqTimeout, "50")
	r.History().Add("prev")

	// ESC [ A with no pause decodes as previous-history inside
	// vi-insert; the map does not change, so "x" self-inserts.
	c.Type("\x1b[Ax\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "prevx" {
		t.Fatalf("line = %q", line)
	}
	if r.KeyMapName() != keymap.ViInsertName {
		t.Fatalf("key map = %q", r.KeyMapName())
	}
}

func TestEventExpansionOnAccept(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	r.History().Add("echo foo")
	c.Type("!!\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "echo foo" {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(c.Output(), "echo foo") {
		t.Fatal("expanded line was not printed")
	}
}

func TestEventNotFoundRecovers(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("!nosuch\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "" {
		t.Fatalf("line = %q, want empty after failed expansion", line)
	}
}

func TestKbdMacro(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	// C-x ( records "ab", C-x ) stops, C-x e replays.
	c.Type("\x18(ab\x18)\x18e\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "abab" {
		t.Fatalf("line = %q", line)
	}
}

func TestMacroStringBinding(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	r.Keys().Current().Bind("\x0f", "hi there") // C-o plays a macro
	c.Type("\x0f\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "hi there" {
		t.Fatalf("line = %q", line)
	}
}

func TestQuotedInsert(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("\x16\x03\r") // C-v then C-c inserts a literal ^C

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "\x03" {
		t.Fatalf("line = %q", line)
	}
}

func TestOvertypeMode(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	r.Keys().Current().Bind("\x0f", keymap.OverwriteMode)
	c.Type("abc\x01\x0fX\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "Xbc" {
		t.Fatalf("line = %q", line)
	}
}

func TestTransposeChars(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("ab\x02\x14\r") // C-b then C-t swaps around the cursor

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "ba" {
		t.Fatalf("line = %q, want ba", line)
	}
}

func TestTransposeAtLineEndBeeps(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("ab\x14\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "ab" {
		t.Fatalf("line = %q, want ab unchanged", line)
	}
}

func TestBackwardKillWord(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("foo bar\x1b\x7f\r") // M-DEL kills the previous word

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "foo " {
		t.Fatalf("line = %q", line)
	}
}

func TestUpcaseWord(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("hello\x01\x1bu\r") // C-a then M-u

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "HELLO" {
		t.Fatalf("line = %q", line)
	}
}

func TestTriggeredAction(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	fired := false
	r.AddTriggeredAction('q', func(rd *Reader) {
		fired = true
		rd.Buffer().Write("Q")
	})
	c.Type("q\r")

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if !fired || line != "Q" {
		t.Fatalf("fired=%v line=%q", fired, line)
	}
}

func TestMaskedReadLine(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	c.Type("secret\r")

	line, err := r.ReadLineMasked("pw: ", '*')
	if err != nil {
		t.Fatalf("ReadLineMasked: %v", err)
	}
	if line != "secret" {
		t.Fatalf("line = %q", line)
	}
	if strings.Contains(c.Output(), "secret") {
		t.Fatal("masked input leaked to the screen")
	}
	if !strings.Contains(c.Output(), "******") {
		t.Fatal("mask characters missing from output")
	}
	if r.History().Size() != 0 {
		t.Fatal("masked lines must not enter history")
	}
}

func TestRepeatCountResets(t *testing.T) {
	c := termtest.New(40, 10)
	r := newTestReader(t, c)
	r.SetKeyMap("vi-insert")
	c.Type("aaaa\x1b3hx\r") // vi-move, 3h back, x deletes

	line, err := r.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "aaa" {
		t.Fatalf("line = %q", line)
	}
	if r.repeatCount != 0 {
		t.Fatalf("repeatCount = %d after dispatch", r.repeatCount)
	}
}
