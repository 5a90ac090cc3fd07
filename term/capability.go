// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/capability.go
// Summary: Terminfo capability identifiers consumed by the line editor.

package term

import "github.com/xo/terminfo"

// Capability identifies a terminfo capability. The values alias the
// xo/terminfo capability indexes so a Tty can hand them straight to the
// loaded database; fake terminals key their own tables on them.
type Capability int

// String capabilities.
const (
	Bell            = Capability(terminfo.Bell)
	CarriageReturn  = Capability(terminfo.CarriageReturn)
	ClearScreen     = Capability(terminfo.ClearScreen)
	ClrEOL          = Capability(terminfo.ClrEol)
	CursorDown      = Capability(terminfo.CursorDown)
	CursorLeft      = Capability(terminfo.CursorLeft)
	CursorRight     = Capability(terminfo.CursorRight)
	CursorUp        = Capability(terminfo.CursorUp)
	DeleteCharacter = Capability(terminfo.DeleteCharacter)
	FlashScreen     = Capability(terminfo.FlashScreen)
	InsertCharacter = Capability(terminfo.InsertCharacter)
	ParmDch         = Capability(terminfo.ParmDch)
	ParmDownCursor  = Capability(terminfo.ParmDownCursor)
	ParmIch         = Capability(terminfo.ParmIch)
	ParmLeftCursor  = Capability(terminfo.ParmLeftCursor)
	ParmRightCursor = Capability(terminfo.ParmRightCursor)
	ParmUpCursor    = Capability(terminfo.ParmUpCursor)
)

// Boolean capabilities.
const (
	AutoRightMargin  = Capability(terminfo.AutoRightMargin)
	EatNewlineGlitch = Capability(terminfo.EatNewlineGlitch)
)
