// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: widgets.go
// Summary: The widget table: operation tag to edit action.

package texline

import (
	"log"
	"unicode"

	"github.com/framegrace/texline/keymap"
)

// newDispatcher builds the operation table. Widgets are plain functions
// over the reader, so the table carries no reference back to it.
func newDispatcher() map[keymap.Operation]Widget {
	return map[keymap.Operation]Widget{
		keymap.Abort:                       (*Reader).abort,
		keymap.AcceptLine:                  (*Reader).acceptLine,
		keymap.BackwardChar:                (*Reader).backwardChar,
		keymap.BackwardDeleteChar:          (*Reader).backwardDeleteChar,
		keymap.BackwardKillWord:            (*Reader).deletePreviousWord,
		keymap.BackwardWord:                (*Reader).backwardWord,
		keymap.BeginningOfHistory:          (*Reader).beginningOfHistory,
		keymap.BeginningOfLine:             (*Reader).beginningOfLine,
		keymap.CallLastKbdMacro:            (*Reader).callLastKbdMacro,
		keymap.CapitalizeWord:              (*Reader).capitalizeWord,
		keymap.ClearScreen:                 (*Reader).clearScreen,
		keymap.Complete:                    (*Reader).complete,
		keymap.DeleteChar:                  (*Reader).deleteChar,
		keymap.DowncaseWord:                (*Reader).downCaseWord,
		keymap.EmacsEditingMode:            (*Reader).emacsEditingMode,
		keymap.EndKbdMacro:                 (*Reader).endKbdMacro,
		keymap.EndOfHistory:                (*Reader).endOfHistory,
		keymap.EndOfLine:                   (*Reader).endOfLine,
		keymap.ExitOrDeleteChar:            (*Reader).exitOrDeleteChar,
		keymap.ForwardChar:                 (*Reader).forwardChar,
		keymap.ForwardSearchHistory:        (*Reader).forwardSearchHistory,
		keymap.ForwardWord:                 (*Reader).forwardWord,
		keymap.HistorySearchBackward:       (*Reader).historySearchBackward,
		keymap.HistorySearchForward:        (*Reader).historySearchForward,
		keymap.InsertCloseCurly:            (*Reader).insertCloseCurly,
		keymap.InsertCloseParen:            (*Reader).insertCloseParen,
		keymap.InsertCloseSquare:           (*Reader).insertCloseSquare,
		keymap.InsertComment:               (*Reader).insertComment,
		keymap.Interrupt:                   (*Reader).interrupt,
		keymap.KillLine:                    (*Reader).killLine,
		keymap.KillWholeLine:               (*Reader).killWholeLine,
		keymap.KillWord:                    (*Reader).deleteNextWord,
		keymap.NextHistory:                 (*Reader).nextHistory,
		keymap.OverwriteMode:               (*Reader).overwriteMode,
		keymap.PasteFromClipboard:          (*Reader).paste,
		keymap.PossibleCompletions:         (*Reader).printCompletionCandidates,
		keymap.PreviousHistory:             (*Reader).previousHistory,
		keymap.Quit:                        (*Reader).quit,
		keymap.QuotedInsert:                (*Reader).quotedInsertWidget,
		keymap.ReReadInitFile:              (*Reader).reReadInitFile,
		keymap.ReverseSearchHistory:        (*Reader).reverseSearchHistory,
		keymap.SelfInsert:                  (*Reader).selfInsert,
		keymap.StartKbdMacro:               (*Reader).startKbdMacro,
		keymap.TabInsert:                   (*Reader).tabInsert,
		keymap.TransposeChars:              (*Reader).transposeChars,
		keymap.UnixLineDiscard:             (*Reader).resetLine,
		keymap.UnixWordRubout:              (*Reader).unixWordRubout,
		keymap.UpcaseWord:                  (*Reader).upCaseWord,
		keymap.ViAppendEol:                 (*Reader).viAppendEol,
		keymap.ViAppendMode:                (*Reader).viAppendMode,
		keymap.ViArgDigit:                  (*Reader).viArgDigit,
		keymap.ViBeginningOfLineOrArgDigit: (*Reader).viBeginningOfLineOrArgDigit,
		keymap.ViChangeCase:                (*Reader).viChangeCase,
		keymap.ViChangeChar:                (*Reader).viChangeChar,
		keymap.ViChangeTo:                  (*Reader).viChangeTo,
		keymap.ViChangeToEol:               (*Reader).viChangeToEol,
		keymap.ViCharSearch:                (*Reader).viCharSearch,
		keymap.ViColumn:                    (*Reader).viColumn,
		keymap.ViDelete:                    (*Reader).viDelete,
		keymap.ViDeleteTo:                  (*Reader).viDeleteTo,
		keymap.ViDeleteToEol:               (*Reader).viDeleteToEol,
		keymap.ViEditingMode:               (*Reader).viEditingMode,
		keymap.ViEndWord:                   (*Reader).viEndWord,
		keymap.ViEofMaybe:                  (*Reader).viEofMaybe,
		keymap.ViFirstPrint:                (*Reader).viFirstPrint,
		keymap.ViInsertBeg:                 (*Reader).viInsertBeg,
		keymap.ViInsertComment:             (*Reader).viInsertComment,
		keymap.ViInsertionMode:             (*Reader).viInsertionMode,
		keymap.ViKillWholeLine:             (*Reader).viKillWholeLine,
		keymap.ViMatch:                     (*Reader).viMatch,
		keymap.ViMoveAcceptLine:            (*Reader).viMoveAcceptLine,
		keymap.ViMovementMode:              (*Reader).viMovementMode,
		keymap.ViNextHistory:               (*Reader).viNextHistory,
		keymap.ViNextWord:                  (*Reader).viNextWord,
		keymap.ViPrevWord:                  (*Reader).viPreviousWord,
		keymap.ViPreviousHistory:           (*Reader).viPreviousHistory,
		keymap.ViPut:                       (*Reader).viPut,
		keymap.ViRubout:                    (*Reader).viRubout,
		keymap.ViSearch:                    (*Reader).viSearch,
		keymap.ViYankTo:                    (*Reader).viYankTo,
		keymap.Yank:                        (*Reader).yank,
		keymap.YankPop:                     (*Reader).yankPop,
	}
}

// isDelimiter: anything that is not a letter or digit bounds a word.
func isDelimiter(c rune) bool {
	return c == 0 || !unicode.IsLetter(c) && !unicode.IsDigit(c)
}

func isWhitespace(c rune) bool {
	return c != 0 && unicode.IsSpace(c)
}

//
// Cursor motion
//

func (r *Reader) beginningOfLine() { r.setCursorPosition(0) }

func (r *Reader) endOfLine() { r.buf.Move(r.buf.Len() - r.buf.Cursor()) }

func (r *Reader) backwardChar() {
	if r.buf.Move(-r.count) == 0 {
		r.beep()
	}
}

func (r *Reader) forwardChar() {
	if r.buf.Move(r.count) == 0 {
		r.beep()
	}
}

func (r *Reader) backwardWord() {
	for isDelimiter(r.buf.Current()) && r.buf.Move(-1) != 0 {
	}
	for !isDelimiter(r.buf.Current()) && r.buf.Move(-1) != 0 {
	}
}

func (r *Reader) forwardWord() {
	for isDelimiter(r.buf.NextChar()) && r.buf.Move(1) != 0 {
	}
	for !isDelimiter(r.buf.NextChar()) && r.buf.Move(1) != 0 {
	}
}

//
// Deleting and killing
//

func (r *Reader) backwardDeleteChar() {
	if r.buf.Backspace(1) != 1 {
		r.beep()
	}
}

func (r *Reader) deleteChar() {
	if !r.buf.Delete() {
		r.beep()
	}
}

// killLine kills from the cursor to the end of the line.
func (r *Reader) killLine() {
	cp := r.buf.Cursor()
	killed := r.buf.Substring(cp, r.buf.Len())
	r.buf.DeleteRange(cp, r.buf.Len())
	r.killRing.Add(killed)
}

func (r *Reader) killWholeLine() {
	r.beginningOfLine()
	r.killLine()
}

// resetLine kills everything before the cursor (unix-line-discard).
func (r *Reader) resetLine() {
	if r.buf.Cursor() == 0 {
		r.beep()
		return
	}
	killed := r.buf.UpToCursor()
	r.buf.Backspace(r.buf.Cursor())
	r.killRing.AddBackwards(killed)
}

// unixWordRubout kills back over whitespace, then over a word.
func (r *Reader) unixWordRubout() {
	var killed []rune
	for count := r.count; count > 0; count-- {
		if r.buf.Cursor() == 0 {
			r.beep()
			return
		}
		for isWhitespace(r.buf.Current()) {
			c := r.buf.Current()
			if c == 0 {
				break
			}
			killed = append(killed, c)
			r.buf.Backspace(1)
		}
		for c := r.buf.Current(); c != 0 && !isWhitespace(c); c = r.buf.Current() {
			killed = append(killed, c)
			r.buf.Backspace(1)
		}
	}
	r.killRing.AddBackwards(reverseRunes(killed))
}

func (r *Reader) deletePreviousWord() {
	var killed []rune
	for c := r.buf.Current(); c != 0 && isDelimiter(c); c = r.buf.Current() {
		killed = append(killed, c)
		r.buf.Backspace(1)
	}
	for c := r.buf.Current(); c != 0 && !isDelimiter(c); c = r.buf.Current() {
		killed = append(killed, c)
		r.buf.Backspace(1)
	}
	r.killRing.AddBackwards(reverseRunes(killed))
}

func (r *Reader) deleteNextWord() {
	var killed []rune
	for c := r.buf.NextChar(); c != 0 && isDelimiter(c); c = r.buf.NextChar() {
		killed = append(killed, c)
		r.buf.Delete()
	}
	for c := r.buf.NextChar(); c != 0 && !isDelimiter(c); c = r.buf.NextChar() {
		killed = append(killed, c)
		r.buf.Delete()
	}
	r.killRing.Add(string(killed))
}

func reverseRunes(rs []rune) string {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[len(rs)-1-i] = r
	}
	return string(out)
}

//
// Yanking
//

func (r *Reader) yank() {
	s, ok := r.killRing.Yank()
	if !ok {
		r.beep()
		return
	}
	r.buf.Write(s)
}

func (r *Reader) yankPop() {
	if !r.killRing.LastYank() {
		r.beep()
		return
	}
	current, ok := r.killRing.Yank()
	if !ok {
		r.beep()
		return
	}
	r.buf.Backspace(len([]rune(current)))
	yanked, ok := r.killRing.YankPop()
	if !ok {
		r.beep()
		return
	}
	r.buf.Write(yanked)
}

//
// Case transforms
//

func (r *Reader) capitalizeWord() {
	first := true
	i := 1
	for r.buf.Cursor()+i-1 < r.buf.Len() && !isDelimiter(r.buf.At(r.buf.Cursor()+i-1)) {
		c := r.buf.At(r.buf.Cursor() + i - 1)
		if first {
			c = unicode.ToUpper(c)
		} else {
			c = unicode.ToLower(c)
		}
		r.buf.SetAt(r.buf.Cursor()+i-1, c)
		first = false
		i++
	}
	r.buf.Move(i - 1)
}

func (r *Reader) upCaseWord() {
	i := 1
	for r.buf.Cursor()+i-1 < r.buf.Len() && !isDelimiter(r.buf.At(r.buf.Cursor()+i-1)) {
		r.buf.SetAt(r.buf.Cursor()+i-1, unicode.ToUpper(r.buf.At(r.buf.Cursor()+i-1)))
		i++
	}
	r.buf.Move(i - 1)
}

func (r *Reader) downCaseWord() {
	i := 1
	for r.buf.Cursor()+i-1 < r.buf.Len() && !isDelimiter(r.buf.At(r.buf.Cursor()+i-1)) {
		r.buf.SetAt(r.buf.Cursor()+i-1, unicode.ToLower(r.buf.At(r.buf.Cursor()+i-1)))
		i++
	}
	r.buf.Move(i - 1)
}

// transposeChars swaps the characters around the cursor and advances.
func (r *Reader) transposeChars() {
	for count := r.count; count > 0; count-- {
		cur := r.buf.Cursor()
		if cur == 0 || cur == r.buf.Len() {
			r.beep()
			break
		}
		a, b := r.buf.At(cur-1), r.buf.At(cur)
		r.buf.SetAt(cur-1, b)
		r.buf.SetAt(cur, a)
		r.buf.cursor++
	}
}

//
// Insertion
//

func (r *Reader) selfInsert() {
	r.buf.Write(string(r.opBuffer))
}

func (r *Reader) tabInsert() {
	r.buf.Write("\t")
}

func (r *Reader) quotedInsertWidget() {
	r.quotedInsert = true
}

func (r *Reader) overwriteMode() {
	r.buf.SetOvertype(!r.buf.Overtype())
}

func (r *Reader) insertComment() { r.doInsertComment(false) }

func (r *Reader) doInsertComment(viMode bool) {
	comment := r.getString(VarCommentBegin, "#")
	r.beginningOfLine()
	r.buf.Write(comment)
	if viMode {
		r.keys.SetKeyMap(keymap.ViInsertName)
	}
	r.acceptLine()
}

func (r *Reader) insertCloseCurly()  { r.insertClose("}") }
func (r *Reader) insertCloseParen()  { r.insertClose(")") }
func (r *Reader) insertCloseSquare() { r.insertClose("]") }

// insertClose types a closing bracket and blinks the cursor on its match
// until a key arrives or the blink timeout passes.
func (r *Reader) insertClose(s string) {
	r.buf.Write(s)

	closePosition := r.buf.Cursor()

	r.buf.Move(-1)
	r.doViMatch()
	r.redisplay()
	r.console.Flush()

	r.peekCharacter(BlinkMatchingParenTimeout)

	r.setCursorPosition(closePosition)
}

//
// History recall
//

func (r *Reader) previousHistory() {
	if !r.moveHistory(false) {
		r.beep()
	}
}

func (r *Reader) nextHistory() {
	if !r.moveHistory(true) {
		r.beep()
	}
}

func (r *Reader) beginningOfHistory() {
	if r.hist.MoveToFirst() {
		r.setBuffer(r.hist.Current())
	} else {
		r.beep()
	}
}

func (r *Reader) endOfHistory() {
	if r.hist.MoveToLast() {
		r.setBuffer(r.hist.Current())
	} else {
		r.beep()
	}
}

//
// Keyboard macros
//

func (r *Reader) startKbdMacro() {
	r.recording = true
	r.macro = r.macro[:0]
}

func (r *Reader) endKbdMacro() {
	r.recording = false
	// The sequence that invoked end-kbd-macro was recorded; trim it.
	if n := len(r.macro) - len(r.opBuffer); n >= 0 {
		r.macro = r.macro[:n]
	}
}

func (r *Reader) callLastKbdMacro() {
	for i := len(r.macro) - 1; i >= 0; i-- {
		r.pushBack = append(r.pushBack, r.macro[i])
	}
	r.opBuffer = r.opBuffer[:0]
}

//
// Mode switches and termination
//

func (r *Reader) emacsEditingMode() {
	r.keys.SetKeyMap(keymap.EmacsName)
}

func (r *Reader) acceptLine() { r.state = stateDone }

func (r *Reader) interrupt() { r.state = stateInterrupt }

func (r *Reader) exitOrDeleteChar() {
	if r.buf.Len() == 0 {
		r.state = stateEOF
	} else {
		r.deleteChar()
	}
}

func (r *Reader) quit() {
	r.buf.Clear()
	r.acceptLine()
}

func (r *Reader) abort() {
	if !r.hasSearchTerm {
		r.beep()
		r.buf.Clear()
		r.println()
		r.redrawLine()
	}
}

func (r *Reader) reReadInitFile() {
	if err := r.keys.LoadInputrcFile(r.inputrc, r.appName); err != nil {
		log.Printf("Reader: inputrc reload failed: %v", err)
	}
}

//
// Clipboard
//

// paste inserts the clipboard text at the cursor. Failures are
// swallowed: no clipboard simply means nothing happens.
func (r *Reader) paste() {
	r.pasteFromClipboard()
}

func (r *Reader) pasteFromClipboard() bool {
	if r.clipboard == nil {
		return false
	}
	text, err := r.clipboard.GetText()
	if err != nil {
		log.Printf("Reader: paste failed: %v", err)
		return false
	}
	if text == "" {
		return true
	}
	r.buf.Write(text)
	return true
}
