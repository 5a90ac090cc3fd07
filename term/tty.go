// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/tty.go
// Summary: Real terminal port: raw mode, timed code point reads, terminfo output.

package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/xo/terminfo"
	"golang.org/x/term"
)

// Tty is the terminal port backed by a pair of tty files. It performs
// UTF-8 decoding above the byte reader; every read is bounded by a timeout
// implemented with file deadlines, chopped into ReadTimeoutQuantum slices
// so Interrupt and signal delivery are observed promptly.
type Tty struct {
	in  *os.File
	out *os.File

	ti *terminfo.Terminfo
	w  *bufio.Writer

	partial []byte // undecoded UTF-8 tail
	peeked  rune
	hasPeek bool

	interrupted atomic.Bool

	signals *signalDispatcher

	mu sync.Mutex
}

// Open wraps the given tty files. A nil in/out defaults to the process
// stdin/stdout. The terminfo database is looked up from $TERM; when the
// lookup fails the Tty still works, with every capability reported absent
// so callers fall back to plain output.
func Open(in, out *os.File) (*Tty, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	t := &Tty{
		in:  in,
		out: out,
		w:   bufio.NewWriter(out),
	}
	ti, err := terminfo.LoadFromEnv()
	if err != nil {
		log.Printf("term: terminfo unavailable for %q: %v", os.Getenv("TERM"), err)
	} else {
		t.ti = ti
	}
	t.signals = newSignalDispatcher()
	return t, nil
}

// EnterRaw puts the input tty into raw mode and returns the previous
// attributes for Restore.
func (t *Tty) EnterRaw() (Attrs, error) {
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	return state, nil
}

// Restore reinstates attributes captured by EnterRaw.
func (t *Tty) Restore(attrs Attrs) error {
	state, ok := attrs.(*term.State)
	if !ok || state == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), state); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

// Size reports the current window size, falling back to 80x24 when the
// tty cannot be queried.
func (t *Tty) Size() Size {
	cols, rows, err := term.GetSize(int(t.out.Fd()))
	if err != nil || cols <= 0 {
		return Size{Rows: 24, Columns: 80}
	}
	return Size{Rows: rows, Columns: cols}
}

// Interrupt wakes a pending read, which then fails with ErrInterrupted.
// Safe to call from a signal handler goroutine.
func (t *Tty) Interrupt() {
	t.interrupted.Store(true)
	t.in.SetReadDeadline(time.Now())
}

// ReadCodePoint reads one decoded code point. A zero timeout blocks until
// input, EOF or interruption; a positive timeout additionally bounds the
// wait and yields ErrExpired on expiry.
func (t *Tty) ReadCodePoint(timeout time.Duration) (rune, error) {
	if t.hasPeek {
		t.hasPeek = false
		return t.peeked, nil
	}
	return t.readRune(timeout)
}

// Peek reads one code point without consuming it; the next ReadCodePoint
// returns the same rune.
func (t *Tty) Peek(timeout time.Duration) (rune, error) {
	if t.hasPeek {
		return t.peeked, nil
	}
	r, err := t.readRune(timeout)
	if err != nil {
		return 0, err
	}
	t.peeked = r
	t.hasPeek = true
	return r, nil
}

func (t *Tty) readRune(timeout time.Duration) (rune, error) {
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	buf := make([]byte, 1)
	for {
		if t.interrupted.Load() {
			t.interrupted.Store(false)
			return 0, ErrInterrupted
		}
		if len(t.partial) > 0 && utf8.FullRune(t.partial) {
			r, n := utf8.DecodeRune(t.partial)
			t.partial = t.partial[n:]
			return r, nil
		}

		quantum := ReadTimeoutQuantum
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return 0, ErrExpired
			}
			if remaining < quantum {
				quantum = remaining
			}
		}
		t.in.SetReadDeadline(time.Now().Add(quantum))
		n, err := t.in.Read(buf)
		if n > 0 {
			t.partial = append(t.partial, buf[0])
			continue
		}
		switch {
		case err == nil:
			continue
		case errors.Is(err, os.ErrDeadlineExceeded):
			continue // re-check interruption and the outer deadline
		case errors.Is(err, io.EOF):
			return 0, io.EOF
		default:
			return 0, fmt.Errorf("read tty: %w", err)
		}
	}
}

// WriteString appends to the buffered writer without flushing.
func (t *Tty) WriteString(s string) {
	t.w.WriteString(s)
}

// Flush pushes buffered output to the terminal.
func (t *Tty) Flush() error {
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("flush tty: %w", err)
	}
	return nil
}

// Puts emits the named capability with the given parameters. It reports
// false when the terminfo entry is missing so callers can fall back.
func (t *Tty) Puts(cap Capability, args ...interface{}) bool {
	if t.ti == nil {
		return false
	}
	if s, ok := t.ti.Strings[int(cap)]; !ok || len(s) == 0 {
		return false
	}
	t.ti.Fprintf(t.w, int(cap), args...)
	return true
}

// Flag reports a boolean capability.
func (t *Tty) Flag(cap Capability) bool {
	if t.ti == nil {
		return false
	}
	return t.ti.Bools[int(cap)]
}

// OnSignal installs a handler for the given signal and returns the
// previously installed one (possibly nil).
func (t *Tty) OnSignal(sig Signal, handler func()) func() {
	return t.signals.set(sig, handler)
}

// SpecialChars reports the tty control characters used for key rebinding.
func (t *Tty) SpecialChars() SpecialChars {
	return readSpecialChars(int(t.in.Fd()))
}

// Close releases signal handlers. The tty files themselves are owned by
// the caller and are left open.
func (t *Tty) Close() error {
	t.signals.stop()
	return t.w.Flush()
}
