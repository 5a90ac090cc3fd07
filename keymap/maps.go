// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: keymap/maps.go
// Summary: The stock emacs, vi-insert and vi-move key maps.

package keymap

// Map names used by SetKeyMap and inputrc keymap directives.
const (
	EmacsName    = "emacs"
	ViInsertName = "vi-insert"
	ViMoveName   = "vi-move"
)

func ctrl(c rune) string { return string(c & 0x1f) }

const (
	esc = "\x1b"
	del = "\x7f"
)

// arrowKeys binds the common cursor-key sequences (both CSI and SS3
// flavors) into the given ESC sub-map.
func arrowKeys(meta *KeyMap) {
	for _, intro := range []string{"[", "O"} {
		meta.Bind(intro+"A", PreviousHistory)
		meta.Bind(intro+"B", NextHistory)
		meta.Bind(intro+"C", ForwardChar)
		meta.Bind(intro+"D", BackwardChar)
		meta.Bind(intro+"H", BeginningOfLine)
		meta.Bind(intro+"F", EndOfLine)
	}
	meta.Bind("[1~", BeginningOfLine)
	meta.Bind("[3~", DeleteChar)
	meta.Bind("[4~", EndOfLine)
}

// selfInsertFill binds the whole classic key table to self-insert, the
// starting point both insertion maps refine.
func selfInsertFill(km *KeyMap) {
	for c := rune(0); c < 256; c++ {
		km.Bind(string(c), SelfInsert)
	}
	km.BindOtherKey(SelfInsert)
}

// Emacs builds the default emacs key map.
func Emacs() *KeyMap {
	km := New(EmacsName)
	selfInsertFill(km)

	km.Bind(ctrl('A'), BeginningOfLine)
	km.Bind(ctrl('B'), BackwardChar)
	km.Bind(ctrl('C'), Interrupt)
	km.Bind(ctrl('D'), ExitOrDeleteChar)
	km.Bind(ctrl('E'), EndOfLine)
	km.Bind(ctrl('F'), ForwardChar)
	km.Bind(ctrl('G'), Abort)
	km.Bind(ctrl('H'), BackwardDeleteChar)
	km.Bind(ctrl('I'), Complete)
	km.Bind(ctrl('J'), AcceptLine)
	km.Bind(ctrl('K'), KillLine)
	km.Bind(ctrl('L'), ClearScreen)
	km.Bind(ctrl('M'), AcceptLine)
	km.Bind(ctrl('N'), NextHistory)
	km.Bind(ctrl('P'), PreviousHistory)
	km.Bind(ctrl('R'), ReverseSearchHistory)
	km.Bind(ctrl('S'), ForwardSearchHistory)
	km.Bind(ctrl('T'), TransposeChars)
	km.Bind(ctrl('U'), UnixLineDiscard)
	km.Bind(ctrl('V'), QuotedInsert)
	km.Bind(ctrl('W'), UnixWordRubout)
	km.Bind(ctrl('Y'), Yank)
	km.Bind(del, BackwardDeleteChar)

	km.Bind(ctrl('X')+ctrl('G'), Abort)
	km.Bind(ctrl('X')+ctrl('R'), ReReadInitFile)
	km.Bind(ctrl('X')+"(", StartKbdMacro)
	km.Bind(ctrl('X')+")", EndKbdMacro)
	km.Bind(ctrl('X')+"e", CallLastKbdMacro)

	km.Bind(esc+ctrl('H'), BackwardKillWord)
	km.Bind(esc+ctrl('I'), TabInsert)
	km.Bind(esc+ctrl('J'), ViEditingMode)
	km.Bind(esc+"b", BackwardWord)
	km.Bind(esc+"c", CapitalizeWord)
	km.Bind(esc+"d", KillWord)
	km.Bind(esc+"f", ForwardWord)
	km.Bind(esc+"l", DowncaseWord)
	km.Bind(esc+"u", UpcaseWord)
	km.Bind(esc+"y", YankPop)
	km.Bind(esc+"<", BeginningOfHistory)
	km.Bind(esc+">", EndOfHistory)
	km.Bind(esc+"#", InsertComment)
	km.Bind(esc+del, BackwardKillWord)
	for c := 'A'; c <= 'Z'; c++ {
		if km.GetBound(esc+string(c)) == nil {
			km.Bind(esc+string(c), DoLowercaseVersion)
		}
	}
	if meta, ok := km.GetBound(esc).(*KeyMap); ok {
		arrowKeys(meta)
	}
	return km
}

// ViInsert builds the default vi insertion key map. The ESC sub-map's
// other-key is vi-movement-mode, which is what a lone ESC resolves to once
// the escape timeout expires.
func ViInsert() *KeyMap {
	km := New(ViInsertName)
	selfInsertFill(km)

	km.Bind(ctrl('C'), Interrupt)
	km.Bind(ctrl('D'), ViEofMaybe)
	km.Bind(ctrl('H'), BackwardDeleteChar)
	km.Bind(ctrl('I'), Complete)
	km.Bind(ctrl('J'), AcceptLine)
	km.Bind(ctrl('M'), AcceptLine)
	km.Bind(ctrl('R'), ReverseSearchHistory)
	km.Bind(ctrl('S'), ForwardSearchHistory)
	km.Bind(ctrl('T'), TransposeChars)
	km.Bind(ctrl('U'), UnixLineDiscard)
	km.Bind(ctrl('V'), QuotedInsert)
	km.Bind(ctrl('W'), UnixWordRubout)
	km.Bind(ctrl('Y'), Yank)
	km.Bind(del, BackwardDeleteChar)

	meta := New(ViInsertName)
	meta.BindOtherKey(ViMovementMode)
	arrowKeys(meta)
	km.Bind(esc, meta)
	return km
}

// ViMove builds the default vi movement (command) key map.
func ViMove() *KeyMap {
	km := New(ViMoveName)

	km.Bind(ctrl('C'), Interrupt)
	km.Bind(ctrl('D'), ViEofMaybe)
	km.Bind(ctrl('E'), EmacsEditingMode)
	km.Bind(ctrl('G'), Abort)
	km.Bind(ctrl('H'), BackwardChar)
	km.Bind(ctrl('J'), ViMoveAcceptLine)
	km.Bind(ctrl('K'), KillLine)
	km.Bind(ctrl('L'), ClearScreen)
	km.Bind(ctrl('M'), ViMoveAcceptLine)
	km.Bind(ctrl('N'), NextHistory)
	km.Bind(ctrl('P'), PreviousHistory)
	km.Bind(ctrl('R'), ReverseSearchHistory)
	km.Bind(ctrl('S'), ForwardSearchHistory)
	km.Bind(ctrl('T'), TransposeChars)
	km.Bind(ctrl('U'), UnixLineDiscard)
	km.Bind(ctrl('W'), UnixWordRubout)
	km.Bind(ctrl('Y'), Yank)
	km.Bind(del, BackwardDeleteChar)

	km.Bind(" ", ForwardChar)
	km.Bind("#", ViInsertComment)
	km.Bind("$", EndOfLine)
	km.Bind("%", ViMatch)
	km.Bind(",", ViCharSearch)
	km.Bind("-", PreviousHistory)
	km.Bind("/", ViSearch)
	km.Bind("0", ViBeginningOfLineOrArgDigit)
	for c := '1'; c <= '9'; c++ {
		km.Bind(string(c), ViArgDigit)
	}
	km.Bind(";", ViCharSearch)
	km.Bind("?", ViSearch)
	km.Bind("A", ViAppendEol)
	km.Bind("B", ViPrevWord)
	km.Bind("C", ViChangeToEol)
	km.Bind("D", ViDeleteToEol)
	km.Bind("E", ViEndWord)
	km.Bind("F", ViCharSearch)
	km.Bind("I", ViInsertBeg)
	km.Bind("N", ViSearch)
	km.Bind("P", ViPut)
	km.Bind("S", ViKillWholeLine)
	km.Bind("T", ViCharSearch)
	km.Bind("W", ViNextWord)
	km.Bind("X", BackwardDeleteChar)
	km.Bind("Y", ViYankTo)
	km.Bind("^", ViFirstPrint)
	km.Bind("a", ViAppendMode)
	km.Bind("b", ViPrevWord)
	km.Bind("c", ViChangeTo)
	km.Bind("d", ViDeleteTo)
	km.Bind("e", ViEndWord)
	km.Bind("f", ViCharSearch)
	km.Bind("h", BackwardChar)
	km.Bind("i", ViInsertionMode)
	km.Bind("j", NextHistory)
	km.Bind("k", PreviousHistory)
	km.Bind("l", ForwardChar)
	km.Bind("n", ViSearch)
	km.Bind("p", ViPut)
	km.Bind("r", ViChangeChar)
	km.Bind("t", ViCharSearch)
	km.Bind("w", ViNextWord)
	km.Bind("x", ViDelete)
	km.Bind("y", ViYankTo)
	km.Bind("|", ViColumn)
	km.Bind("~", ViChangeCase)

	meta := New(ViMoveName)
	arrowKeys(meta)
	km.Bind(esc, meta)
	return km
}
