// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vi.go
// Summary: vi-mode widgets: operators, motions, character search.

package texline

import (
	"unicode"

	"github.com/framegrace/texline/keymap"
)

func (r *Reader) isInViMoveOperationState() bool {
	return r.state == stateViChangeTo ||
		r.state == stateViDeleteTo ||
		r.state == stateViYankTo
}

//
// Argument digits
//

func (r *Reader) viBeginningOfLineOrArgDigit() {
	if r.repeatCount > 0 {
		r.viArgDigit()
	} else {
		r.beginningOfLine()
	}
}

func (r *Reader) viArgDigit() {
	if len(r.opBuffer) == 0 {
		return
	}
	r.repeatCount = r.repeatCount*10 + int(r.opBuffer[0]-'0')
	r.isArgDigit = true
}

//
// Operators
//

// viDeleteTo arms the delete-to operator; a second d ("dd") deletes the
// whole line.
func (r *Reader) viDeleteTo() {
	if r.state == stateViDeleteTo {
		r.killWholeLine()
		r.state = stateNormal
		r.previousState = stateNormal
	} else {
		r.state = stateViDeleteTo
	}
}

// viYankTo arms yank-to; "yy" yanks the whole line.
func (r *Reader) viYankTo() {
	if r.state == stateViYankTo {
		r.yankBuffer = r.buf.String()
		r.state = stateNormal
		r.previousState = stateNormal
	} else {
		r.state = stateViYankTo
	}
}

// viChangeTo arms change-to; "cc" changes the whole line.
func (r *Reader) viChangeTo() {
	if r.state == stateViChangeTo {
		r.killWholeLine()
		r.state = stateNormal
		r.previousState = stateNormal
		r.keys.SetKeyMap(keymap.ViInsertName)
	} else {
		r.state = stateViChangeTo
	}
}

// viDeleteToRange deletes [start, end), ordering the ends first. For a
// plain delete the cursor is kept on the line; a change leaves it where
// insertion resumes.
func (r *Reader) viDeleteToRange(start, end int, isChange bool) {
	if start == end {
		return
	}
	if end < start {
		start, end = end, start
	}
	r.setCursorPosition(start)
	r.buf.cursor = start
	r.buf.DeleteRange(start, end)

	if !isChange && start > 0 && start == r.buf.Len() {
		r.buf.Move(-1)
	}
}

// viYankToRange captures [start, end) into the yank buffer and puts the
// cursor back where the motion started.
func (r *Reader) viYankToRange(start, end int) {
	cursor := start
	if end < start {
		start, end = end, start
	}
	if start == end {
		r.yankBuffer = ""
		return
	}
	r.yankBuffer = r.buf.Substring(start, end)
	r.setCursorPosition(cursor)
}

func (r *Reader) viDeleteToEol() {
	r.viDeleteToRange(r.buf.Cursor(), r.buf.Len(), false)
}

func (r *Reader) viChangeToEol() {
	r.viDeleteToRange(r.buf.Cursor(), r.buf.Len(), true)
	r.keys.SetKeyMap(keymap.ViInsertName)
}

// viPut pastes the yank buffer after the cursor position.
func (r *Reader) viPut() {
	if len(r.yankBuffer) == 0 {
		return
	}
	if r.buf.Cursor() < r.buf.Len() {
		r.buf.Move(1)
	}
	for i := 0; i < r.count; i++ {
		r.buf.Write(r.yankBuffer)
	}
	r.buf.Move(-1)
}

//
// Simple edits
//

// viRubout deletes characters before the cursor ("X").
func (r *Reader) viRubout() {
	for i := 0; i < r.count; i++ {
		if r.buf.Backspace(1) != 1 {
			r.beep()
			break
		}
	}
}

// viDelete deletes characters under the cursor ("x").
func (r *Reader) viDelete() {
	for i := 0; i < r.count; i++ {
		if !r.buf.Delete() {
			r.beep()
			break
		}
	}
}

// viChangeCase flips the case under the cursor and advances ("~").
func (r *Reader) viChangeCase() {
	for i := 0; i < r.count; i++ {
		if r.buf.Cursor() >= r.buf.Len() {
			r.beep()
			break
		}
		c := r.buf.At(r.buf.Cursor())
		r.buf.SetAt(r.buf.Cursor(), switchCase(c))
		r.buf.Move(1)
	}
}

// viChangeChar replaces the character under the cursor with the next one
// typed ("r"). ESC or CTRL-C aborts.
func (r *Reader) viChangeChar() {
	c, err := r.readCharacter()
	if err != nil || c == '\x1b' || c == '\x03' {
		return
	}
	for i := 0; i < r.count; i++ {
		if r.buf.Cursor() >= r.buf.Len() {
			r.beep()
			break
		}
		r.buf.SetAt(r.buf.Cursor(), c)
		if i < r.count-1 {
			r.buf.Move(1)
		}
	}
}

func switchCase(c rune) rune {
	if unicode.IsUpper(c) {
		return unicode.ToLower(c)
	}
	return unicode.ToUpper(c)
}

//
// Word motions
//

// viPreviousWord is a close facsimile of vi "b".
func (r *Reader) viPreviousWord() {
	if r.buf.Cursor() == 0 {
		r.beep()
		return
	}
	pos := r.buf.Cursor() - 1
	for i := 0; pos > 0 && i < r.count; i++ {
		for pos > 0 && isWhitespace(r.buf.At(pos)) {
			pos--
		}
		for pos > 0 && !isDelimiter(r.buf.At(pos-1)) {
			pos--
		}
		if pos > 0 && i < r.count-1 {
			pos--
		}
	}
	r.setCursorPosition(pos)
}

func (r *Reader) viNextWord() {
	if !r.doViNextWord(r.count) {
		r.beep()
	}
}

// doViNextWord implements vi "w". During change-to the trailing spaces
// behind the last word are left alone.
func (r *Reader) doViNextWord(count int) bool {
	pos := r.buf.Cursor()
	end := r.buf.Len()
	if pos == end {
		return false
	}
	for i := 0; pos < end && i < count; i++ {
		for pos < end && !isDelimiter(r.buf.At(pos)) {
			pos++
		}
		if i < count-1 || r.state != stateViChangeTo {
			for pos < end && isDelimiter(r.buf.At(pos)) {
				pos++
			}
		}
	}
	r.setCursorPosition(pos)
	return true
}

// viEndWord implements vi "e": land on the last character of the
// current (or next) word.
func (r *Reader) viEndWord() {
	pos := r.buf.Cursor()
	end := r.buf.Len()
	for i := 0; pos < end && i < r.count; i++ {
		if pos < end-1 && !isDelimiter(r.buf.At(pos)) && isDelimiter(r.buf.At(pos+1)) {
			pos++
		}
		for pos < end && isDelimiter(r.buf.At(pos)) {
			pos++
		}
		for pos < end-1 && !isDelimiter(r.buf.At(pos+1)) {
			pos++
		}
	}
	r.setCursorPosition(pos)
}

// viFirstPrint moves to the first non-blank character ("^").
func (r *Reader) viFirstPrint() {
	r.beginningOfLine()
	if !r.doViNextWord(1) {
		r.beep()
	}
}

// viColumn moves to the argument'th character of the buffer ("|").
func (r *Reader) viColumn() {
	col := r.count - 1
	if col < 0 {
		col = 0
	}
	if col > r.buf.Len() {
		col = r.buf.Len()
	}
	r.setCursorPosition(col)
	if r.isInViMoveOperationState() && r.buf.Cursor() < r.buf.Len() {
		r.buf.Move(1)
	}
}

//
// Character search (f / F / t / T / ; / ,)
//

func (r *Reader) viCharSearch() {
	if len(r.opBuffer) == 0 {
		return
	}
	c := r.opBuffer[0]
	var searchChar rune
	if c != ';' && c != ',' {
		var err error
		searchChar, err = r.readCharacter()
		if err != nil {
			return
		}
	}
	if !r.doViCharSearch(r.count, c, searchChar) {
		r.beep()
	}
}

// doViCharSearch performs the search. Lowercase invokers search
// forward; t/T stop one short; ";" repeats and "," reverses the last
// search. In an operator-motion the landing is pushed one further so
// the target character is included.
func (r *Reader) doViCharSearch(count int, invokeChar, ch rune) bool {
	if ch < 0 || invokeChar < 0 {
		return false
	}

	searchChar := ch
	if invokeChar == ';' || invokeChar == ',' {
		if r.charSearchChar == 0 {
			return false
		}
		if r.charSearchLastInvoke == ';' || r.charSearchLastInvoke == ',' {
			if r.charSearchLastInvoke != invokeChar {
				r.charSearchFirstInvoke = switchCase(r.charSearchFirstInvoke)
			}
		} else if invokeChar == ',' {
			r.charSearchFirstInvoke = switchCase(r.charSearchFirstInvoke)
		}
		searchChar = r.charSearchChar
	} else {
		r.charSearchChar = searchChar
		r.charSearchFirstInvoke = invokeChar
	}
	r.charSearchLastInvoke = invokeChar

	isForward := unicode.IsLower(r.charSearchFirstInvoke)
	stopBefore := unicode.ToLower(r.charSearchFirstInvoke) == 't'

	ok := false
	if isForward {
		for ; count > 0; count-- {
			pos := r.buf.Cursor() + 1
			for pos < r.buf.Len() {
				if r.buf.At(pos) == searchChar {
					r.setCursorPosition(pos)
					ok = true
					break
				}
				pos++
			}
		}
		if ok {
			if stopBefore {
				r.buf.Move(-1)
			}
			if r.isInViMoveOperationState() {
				r.buf.Move(1)
			}
		}
	} else {
		for ; count > 0; count-- {
			pos := r.buf.Cursor() - 1
			for pos >= 0 {
				if r.buf.At(pos) == searchChar {
					r.setCursorPosition(pos)
					ok = true
					break
				}
				pos--
			}
		}
		if ok && stopBefore {
			r.buf.Move(1)
		}
	}
	return ok
}

//
// Bracket matching ("%")
//

func (r *Reader) viMatch() {
	if !r.doViMatch() {
		r.beep()
	}
}

func (r *Reader) doViMatch() bool {
	pos := r.buf.Cursor()
	if pos == r.buf.Len() {
		return false
	}

	bracketType := getBracketType(r.buf.At(pos))
	if bracketType == 0 {
		return false
	}
	move := 1
	if bracketType < 0 {
		move = -1
	}
	count := 1

	for count > 0 {
		pos += move
		if pos < 0 || pos >= r.buf.Len() {
			return false
		}
		cur := getBracketType(r.buf.At(pos))
		if cur == bracketType {
			count++
		} else if cur == -bracketType {
			count--
		}
	}

	// Consume the matching bracket when an operator is pending.
	if move > 0 && r.isInViMoveOperationState() {
		pos++
	}
	r.setCursorPosition(pos)
	return true
}

// getBracketType classifies bracket characters: positive opening,
// negative closing, zero for everything else.
func getBracketType(ch rune) int {
	switch ch {
	case '[':
		return 1
	case ']':
		return -1
	case '{':
		return 2
	case '}':
		return -2
	case '(':
		return 3
	case ')':
		return -3
	default:
		return 0
	}
}

//
// Mode switches
//

// viMovementMode enters vi-move. The cursor only steps back on an
// explicit entry, not when an aborted operator drops back here.
func (r *Reader) viMovementMode() {
	if r.state == stateNormal {
		r.buf.Move(-1)
	}
	r.keys.SetKeyMap(keymap.ViMoveName)
}

func (r *Reader) viInsertionMode() {
	r.keys.SetKeyMap(keymap.ViInsertName)
}

func (r *Reader) viEditingMode() {
	r.keys.SetKeyMap(keymap.ViInsertName)
}

func (r *Reader) viAppendMode() {
	r.buf.Move(1)
	r.keys.SetKeyMap(keymap.ViInsertName)
}

func (r *Reader) viAppendEol() {
	r.endOfLine()
	r.keys.SetKeyMap(keymap.ViInsertName)
}

func (r *Reader) viInsertBeg() {
	r.beginningOfLine()
	r.keys.SetKeyMap(keymap.ViInsertName)
}

func (r *Reader) viKillWholeLine() {
	r.killWholeLine()
	r.keys.SetKeyMap(keymap.ViInsertName)
}

func (r *Reader) viInsertComment() { r.doInsertComment(true) }

//
// History and termination
//

// viPreviousHistory recalls older history, cursor at start of line.
func (r *Reader) viPreviousHistory() {
	if r.moveHistoryN(false, r.count) {
		r.beginningOfLine()
	} else {
		r.beep()
	}
}

// viNextHistory recalls newer history, cursor at start of line.
func (r *Reader) viNextHistory() {
	if r.moveHistoryN(true, r.count) {
		r.beginningOfLine()
	} else {
		r.beep()
	}
}

// viMoveAcceptLine accepts from movement mode, re-entering insert mode
// for the next read.
func (r *Reader) viMoveAcceptLine() {
	r.keys.SetKeyMap(keymap.ViInsertName)
	r.acceptLine()
}

// viEofMaybe: CTRL-D is EOF on an empty line, accept otherwise.
func (r *Reader) viEofMaybe() {
	if r.buf.Len() == 0 {
		r.state = stateEOF
	} else {
		r.acceptLine()
	}
}
