// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/termtest/console.go
// Summary: Scripted in-memory terminal for exercising the line editor in tests.

package termtest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/framegrace/texline/term"
)

// step is one scripted code point. Gap is the simulated pause before the
// code point becomes available; a peek with a shorter timeout expires.
type step struct {
	r   rune
	gap time.Duration
}

// Console is a deterministic terminal: input is a scripted sequence of
// code points with optional inter-key pauses, output is captured in a
// buffer, and capabilities come from a configurable table. Time never
// passes for real; pauses are consumed by expiring reads.
type Console struct {
	mu sync.Mutex

	script []step
	out    bytes.Buffer

	size  term.Size
	caps  map[term.Capability]string
	flags map[term.Capability]bool

	handlers map[term.Signal]func()

	interrupted bool
	raw         bool
	special     term.SpecialChars
}

// New returns a Console of the given size with VT100-like capabilities.
func New(columns, rows int) *Console {
	return &Console{
		size: term.Size{Rows: rows, Columns: columns},
		caps: map[term.Capability]string{
			term.Bell:            "\a",
			term.CarriageReturn:  "\r",
			term.ClrEOL:          "\x1b[K",
			term.ClearScreen:     "\x1b[H\x1b[2J",
			term.CursorUp:        "\x1b[A",
			term.CursorDown:      "\x1b[B",
			term.CursorLeft:      "\b",
			term.CursorRight:     "\x1b[C",
			term.ParmUpCursor:    "\x1b[%dA",
			term.ParmDownCursor:  "\x1b[%dB",
			term.ParmLeftCursor:  "\x1b[%dD",
			term.ParmRightCursor: "\x1b[%dC",
		},
		flags:    map[term.Capability]bool{},
		handlers: make(map[term.Signal]func()),
	}
}

// Type appends the string to the input script with no pauses.
func (c *Console) Type(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range s {
		c.script = append(c.script, step{r: r})
	}
}

// Pause inserts a pause before the next typed code point.
func (c *Console) Pause(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.script = append(c.script, step{gap: d})
}

// SetCap overrides a string capability; an empty value removes it.
func (c *Console) SetCap(cap term.Capability, value string) {
	if value == "" {
		delete(c.caps, cap)
		return
	}
	c.caps[cap] = value
}

// SetFlag overrides a boolean capability.
func (c *Console) SetFlag(cap term.Capability, v bool) {
	c.flags[cap] = v
}

// SetSpecialChars configures the reported tty control characters.
func (c *Console) SetSpecialChars(sc term.SpecialChars) {
	c.special = sc
}

// Output returns everything written so far.
func (c *Console) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

// Raw reports whether the console is currently in raw mode.
func (c *Console) Raw() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

// Resize changes the reported size and fires the WINCH handler.
func (c *Console) Resize(columns, rows int) {
	c.mu.Lock()
	c.size = term.Size{Rows: rows, Columns: columns}
	h := c.handlers[term.SigWinch]
	c.mu.Unlock()
	if h != nil {
		h()
	}
}

// Raise invokes the installed handler for the given signal.
func (c *Console) Raise(sig term.Signal) {
	c.mu.Lock()
	h := c.handlers[sig]
	c.mu.Unlock()
	if h != nil {
		h()
	}
}

func (c *Console) EnterRaw() (term.Attrs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw = true
	return "cooked", nil
}

func (c *Console) Restore(attrs term.Attrs) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.raw = false
	return nil
}

func (c *Console) Size() term.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *Console) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interrupted = true
}

func (c *Console) ReadCodePoint(timeout time.Duration) (rune, error) {
	return c.next(timeout, true)
}

func (c *Console) Peek(timeout time.Duration) (rune, error) {
	return c.next(timeout, false)
}

func (c *Console) next(timeout time.Duration, consume bool) (rune, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.interrupted {
		c.interrupted = false
		return 0, term.ErrInterrupted
	}
	for len(c.script) > 0 {
		s := c.script[0]
		if s.gap > 0 {
			if timeout > 0 && s.gap > timeout {
				// The wait expires before the pause ends; the
				// remainder of the pause is kept for later reads.
				c.script[0].gap -= timeout
				return 0, term.ErrExpired
			}
			c.script[0].gap = 0
			s.gap = 0
		}
		if s.r == 0 {
			c.script = c.script[1:]
			continue
		}
		if consume {
			c.script = c.script[1:]
		}
		return s.r, nil
	}
	if timeout > 0 {
		return 0, term.ErrExpired
	}
	return 0, io.EOF
}

func (c *Console) WriteString(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.WriteString(s)
}

func (c *Console) Flush() error { return nil }

func (c *Console) Puts(cap term.Capability, args ...interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	tpl, ok := c.caps[cap]
	if !ok {
		return false
	}
	if strings.Contains(tpl, "%") {
		c.out.WriteString(fmt.Sprintf(tpl, args...))
	} else {
		c.out.WriteString(tpl)
	}
	return true
}

func (c *Console) Flag(cap term.Capability) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags[cap]
}

func (c *Console) OnSignal(sig term.Signal, handler func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.handlers[sig]
	if handler == nil {
		delete(c.handlers, sig)
	} else {
		c.handlers[sig] = handler
	}
	return prev
}

func (c *Console) SpecialChars() term.SpecialChars {
	return c.special
}

func (c *Console) Close() error { return nil }
