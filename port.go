// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: port.go
// Summary: Interfaces the editor core consumes from its collaborators.

package texline

import (
	"time"

	"github.com/framegrace/texline/term"
)

// Terminal is the I/O port the reader drives. term.Tty implements it for
// real ttys; termtest.Console implements it for tests.
type Terminal interface {
	EnterRaw() (term.Attrs, error)
	Restore(term.Attrs) error
	Size() term.Size
	// ReadCodePoint returns the next decoded code point. A zero timeout
	// blocks; errors are io.EOF, term.ErrExpired, term.ErrInterrupted.
	ReadCodePoint(timeout time.Duration) (rune, error)
	// Peek reads without consuming.
	Peek(timeout time.Duration) (rune, error)
	// Interrupt aborts a pending read with term.ErrInterrupted.
	Interrupt()
	WriteString(s string)
	Flush() error
	// Puts emits a capability, reporting false when unsupported.
	Puts(cap term.Capability, args ...interface{}) bool
	Flag(cap term.Capability) bool
	OnSignal(sig term.Signal, handler func()) func()
	SpecialChars() term.SpecialChars
	Close() error
}

// Widget is an edit action bound to a key sequence. Widgets mutate the
// reader they are handed; they are plain functions so the widget table
// can be built after the reader exists.
type Widget func(r *Reader)

// Highlighter transforms the buffer before display. Returned text may
// contain SGR escape sequences; they are ignored for width accounting.
type Highlighter interface {
	Highlight(buffer string) string
}

// Completer proposes completion candidates. It reports the buffer
// position the candidates replace from, or -1 when it has nothing.
type Completer interface {
	Complete(buffer string, cursor int) (pos int, candidates []string)
}

// CompletionHandler applies candidates to the reader: insert the single
// match, extend the common prefix, list the alternatives. It reports
// whether it changed or displayed anything.
type CompletionHandler interface {
	Complete(r *Reader, candidates []string, pos int) bool
}

// Clipboard is the optional paste source. When absent or failing, the
// paste widget degrades to a no-op.
type Clipboard interface {
	GetText() (string, error)
}

var _ Terminal = (*term.Tty)(nil)
