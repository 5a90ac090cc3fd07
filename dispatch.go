// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dispatch.go
// Summary: Key decoding and the edit state machine.

package texline

import (
	"strings"
	"time"
	"unicode"

	"github.com/framegrace/texline/keymap"
	"github.com/framegrace/texline/term"
)

const escapeRune = '\x1b'

const defaultKeyseqTimeout = 500 * time.Millisecond

// readCharacter blocks for the next code point, honoring push-back.
func (r *Reader) readCharacter() (rune, error) {
	if n := len(r.pushBack); n > 0 {
		c := r.pushBack[n-1]
		r.pushBack = r.pushBack[:n-1]
		return c, nil
	}
	return r.console.ReadCodePoint(0)
}

// peekCharacter looks at the next code point without consuming it.
func (r *Reader) peekCharacter(timeout time.Duration) (rune, error) {
	if n := len(r.pushBack); n > 0 {
		return r.pushBack[n-1], nil
	}
	return r.console.Peek(timeout)
}

// readBinding decodes the next binding from the key map: code points are
// accumulated while they form a strict prefix of some bound sequence;
// when extension fails the tail is pushed back one code point at a time
// until something concrete matches. Returns io.EOF at end of input.
func (r *Reader) readBinding(keys *keymap.KeyMap) (interface{}, error) {
	var o interface{}
	r.opBuffer = r.opBuffer[:0]
	for {
		c, err := r.readCharacter()
		if err != nil {
			return nil, err
		}
		r.opBuffer = append(r.opBuffer, c)

		if r.recording {
			r.macro = append(r.macro, c)
		}

		if r.quotedInsert {
			o = keymap.SelfInsert
			r.quotedInsert = false
		} else {
			o = keys.GetBound(string(r.opBuffer))
		}

		// The kill ring tracks whether the previous command was a
		// kill or a yank; any other decoded binding resets that, except
		// while a keyboard macro is being recorded.
		if _, isMap := o.(*keymap.KeyMap); !isMap && !r.recording {
			op, _ := o.(keymap.Operation)
			if op != keymap.YankPop && op != keymap.Yank {
				r.killRing.ResetLastYank()
			}
			switch op {
			case keymap.KillLine, keymap.KillWholeLine, keymap.BackwardKillWord,
				keymap.KillWord, keymap.UnixLineDiscard, keymap.UnixWordRubout:
			default:
				r.killRing.ResetLastKill()
			}
		}

		if op, ok := o.(keymap.Operation); ok && op == keymap.DoLowercaseVersion {
			r.opBuffer[len(r.opBuffer)-1] = unicode.ToLower(c)
			o = keys.GetBound(string(r.opBuffer))
		}

		// A lone ESC is ambiguous: it may introduce a control
		// sequence or stand alone (vi-move entry, search
		// terminator). Peek briefly; if nothing follows, take the
		// sub-map's other-key as the final binding.
		if r.escAmbiguous(keys, c) {
			if sub, ok := o.(*keymap.KeyMap); ok && len(r.pushBack) == 0 {
				t := r.getDuration(VarKeyseqTimeout, defaultKeyseqTimeout)
				if t > 0 {
					if _, perr := r.peekCharacter(t); perr == term.ErrExpired {
						other := sub.OtherKey()
						if other == nil {
							other = sub.GetBound(string(c))
						}
						if other != nil {
							if _, isMap := other.(*keymap.KeyMap); !isMap {
								return other, nil
							}
						}
					} else if perr != nil && perr != term.ErrExpired {
						return nil, perr
					}
				}
			}
		}

		// No binding: peel code points off the end, pushing them
		// back, until a shorter prefix resolves. Intermediate
		// sub-maps may supply an other-key binding.
		for o == nil && len(r.opBuffer) > 0 {
			c = r.opBuffer[len(r.opBuffer)-1]
			r.opBuffer = r.opBuffer[:len(r.opBuffer)-1]
			if sub, ok := keys.GetBound(string(r.opBuffer)).(*keymap.KeyMap); ok {
				o = sub.OtherKey()
				if o != nil {
					r.pushBack = append(r.pushBack, c)
				}
			}
		}

		if o != nil {
			if _, isMap := o.(*keymap.KeyMap); !isMap {
				return o, nil
			}
		}
	}
}

// escAmbiguous reports whether the just-read code point starts an
// ambiguous escape: a lone ESC in vi-insert, or a search terminator
// while isearch is active.
func (r *Reader) escAmbiguous(keys *keymap.KeyMap, c rune) bool {
	if len(r.opBuffer) != 1 {
		return false
	}
	if keys.Name() == keymap.ViInsertName && c == escapeRune {
		return true
	}
	if r.state == stateSearch || r.state == stateForwardSearch {
		terms := r.getString(VarSearchTerminators, "\x1b\n")
		return strings.ContainsRune(terms, c)
	}
	return false
}

// dispatchSearch runs the incremental search sub-machine for one decoded
// operation. Any operation that is not part of the search commits the
// match and falls through to normal dispatch (except accept-line, which
// commits and accepts).
func (r *Reader) dispatchSearch(op keymap.Operation, c rune) {
	switch op {
	case keymap.Abort:
		r.state = stateNormal
		r.buf.Clear()
		r.buf.Write(r.originalBuffer.String())
		r.buf.cursor = r.originalBuffer.Cursor()

	case keymap.ReverseSearchHistory:
		r.state = stateSearch
		if len(r.searchTerm) == 0 {
			r.searchTerm = append(r.searchTerm, []rune(r.previousSearchTerm)...)
		}
		if r.searchIndex > 0 {
			// A failing repeat keeps the current match on screen.
			if idx := r.searchBackwardsFrom(string(r.searchTerm), r.searchIndex); idx == -1 {
				r.beep()
			} else {
				r.searchIndex = idx
			}
		}

	case keymap.ForwardSearchHistory:
		r.state = stateForwardSearch
		if len(r.searchTerm) == 0 {
			r.searchTerm = append(r.searchTerm, []rune(r.previousSearchTerm)...)
		}
		if r.searchIndex > -1 && r.searchIndex < r.hist.Index()-1 {
			if idx := r.searchForwardsFrom(string(r.searchTerm), r.searchIndex); idx == -1 {
				r.beep()
			} else {
				r.searchIndex = idx
			}
		}

	case keymap.BackwardDeleteChar:
		if len(r.searchTerm) > 0 {
			r.searchTerm = r.searchTerm[:len(r.searchTerm)-1]
			if r.state == stateSearch {
				r.searchIndex = r.searchBackwards(string(r.searchTerm))
			} else {
				r.searchIndex = r.searchForwards(string(r.searchTerm))
			}
		}

	case keymap.SelfInsert:
		r.searchTerm = append(r.searchTerm, c)
		if r.state == stateSearch {
			r.searchIndex = r.searchBackwards(string(r.searchTerm))
		} else {
			r.searchIndex = r.searchForwards(string(r.searchTerm))
		}

	default:
		// Commit: land on the match and leave search. Anything but
		// accept-line is discarded.
		if r.searchIndex != -1 {
			r.hist.MoveTo(r.searchIndex)
		}
		if op != keymap.AcceptLine {
			r.discardedSearchOp = true
		}
		r.state = stateNormal
	}

	if r.state == stateSearch || r.state == stateForwardSearch {
		if len(r.searchTerm) == 0 {
			if r.state == stateSearch {
				r.printSearchStatus("", "")
			} else {
				r.printForwardSearchStatus("", "")
			}
			r.searchIndex = -1
		} else {
			if r.searchIndex == -1 {
				r.beep()
				r.printSearchStatus(string(r.searchTerm), "")
			} else if r.state == stateSearch {
				r.printSearchStatus(string(r.searchTerm), r.hist.Get(r.searchIndex))
			} else {
				r.printForwardSearchStatus(string(r.searchTerm), r.hist.Get(r.searchIndex))
			}
		}
	} else {
		r.restoreLine()
	}
}

// dispatchNormal applies one operation in normal (non-isearch) mode.
// done is true when ReadLine should return.
func (r *Reader) dispatchNormal(op keymap.Operation) (done bool, result string, err error) {
	discarded := r.discardedSearchOp
	r.discardedSearchOp = false

	r.isArgDigit = false
	if r.repeatCount == 0 {
		r.count = 1
	} else {
		r.count = r.repeatCount
	}

	if !discarded {
		cursorStart := r.buf.Cursor()
		r.previousState = r.state

		if r.state == stateViChangeTo || r.state == stateViYankTo || r.state == stateViDeleteTo {
			op = viOperatorMotionFilter(op)
		}

		if widget, ok := r.dispatcher[op]; ok {
			widget(r)
		} else {
			r.beep()
		}

		switch r.state {
		case stateDone:
			line, ferr := r.finishBuffer()
			return true, line, ferr
		case stateEOF:
			return true, "", ErrEndOfFile
		case stateInterrupt:
			return true, "", &UserInterruptError{Partial: r.buf.String()}
		}

		// Complete a pending vi operator over the motion's span.
		if r.previousState != stateNormal {
			switch r.previousState {
			case stateViDeleteTo:
				r.viDeleteToRange(cursorStart, r.buf.Cursor(), false)
			case stateViChangeTo:
				r.viDeleteToRange(cursorStart, r.buf.Cursor(), true)
				r.keys.SetKeyMap(keymap.ViInsertName)
			case stateViYankTo:
				r.viYankToRange(cursorStart, r.buf.Cursor())
			}
			if r.state != stateDone && r.state != stateEOF && r.state != stateInterrupt {
				r.state = stateNormal
			}
		}

		if r.state == stateNormal && !r.isArgDigit {
			r.repeatCount = 0
		}
	}

	if r.state != stateSearch && r.state != stateForwardSearch {
		r.originalBuffer = nil
		r.previousSearchTerm = ""
		r.searchTerm = nil
		r.hasSearchTerm = false
		r.searchIndex = -1
	}
	return false, "", nil
}

// viOperatorMotionFilter restricts the operations permitted while a vi
// delete-to/change-to/yank-to is pending; anything else drops back to
// movement mode.
func viOperatorMotionFilter(op keymap.Operation) keymap.Operation {
	switch op {
	case keymap.ViEofMaybe,
		keymap.Abort,
		keymap.BackwardChar,
		keymap.ForwardChar,
		keymap.EndOfLine,
		keymap.ViMatch,
		keymap.ViBeginningOfLineOrArgDigit,
		keymap.ViArgDigit,
		keymap.ViPrevWord,
		keymap.ViEndWord,
		keymap.ViCharSearch,
		keymap.ViNextWord,
		keymap.ViFirstPrint,
		keymap.ViGotoMark,
		keymap.ViColumn,
		keymap.ViDeleteTo,
		keymap.ViYankTo,
		keymap.ViChangeTo:
		return op
	default:
		return keymap.ViMovementMode
	}
}
