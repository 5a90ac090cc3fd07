// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: search.go
// Summary: History searching: incremental, prefix and vi-style.

package texline

import "strings"

//
// Substring / prefix searches over history
//

// searchBackwards finds the most recent entry before the history index
// containing term.
func (r *Reader) searchBackwards(term string) int {
	return r.searchBackwardsAt(term, r.hist.Index(), false)
}

func (r *Reader) searchBackwardsFrom(term string, start int) int {
	return r.searchBackwardsAt(term, start, false)
}

func (r *Reader) searchBackwardsAt(term string, start int, startsWith bool) int {
	it := r.hist.Entries(start)
	for it.HasPrevious() {
		e := it.Previous()
		if startsWith {
			if strings.HasPrefix(e.Value, term) {
				return e.Index
			}
		} else if strings.Contains(e.Value, term) {
			return e.Index
		}
	}
	return -1
}

// searchForwards finds the next entry from the history index containing
// term.
func (r *Reader) searchForwards(term string) int {
	return r.searchForwardsAt(term, r.hist.Index(), false)
}

func (r *Reader) searchForwardsFrom(term string, start int) int {
	return r.searchForwardsAt(term, start, false)
}

func (r *Reader) searchForwardsAt(term string, start int, startsWith bool) int {
	if start >= r.hist.Index() {
		start = r.hist.Index() - 1
	}
	it := r.hist.Entries(start)
	if r.searchIndex != -1 && it.HasNext() {
		it.Next()
	}
	for it.HasNext() {
		e := it.Next()
		if startsWith {
			if strings.HasPrefix(e.Value, term) {
				return e.Index
			}
		} else if strings.Contains(e.Value, term) {
			return e.Index
		}
	}
	return -1
}

//
// Incremental search entry points
//

func (r *Reader) reverseSearchHistory() {
	r.startIncrementalSearch(stateSearch)
}

func (r *Reader) forwardSearchHistory() {
	r.startIncrementalSearch(stateForwardSearch)
}

func (r *Reader) startIncrementalSearch(st readerState) {
	r.originalBuffer = r.buf.Copy()
	if r.hasSearchTerm {
		r.previousSearchTerm = string(r.searchTerm)
	}
	r.searchTerm = append(make([]rune, 0, r.buf.Len()), []rune(r.buf.String())...)
	r.hasSearchTerm = true
	r.state = st

	forward := st == stateForwardSearch
	if len(r.searchTerm) > 0 {
		if forward {
			r.searchIndex = r.searchForwards(string(r.searchTerm))
		} else {
			r.searchIndex = r.searchBackwards(string(r.searchTerm))
		}
		if r.searchIndex == -1 {
			r.beep()
		}
		match := ""
		if r.searchIndex > -1 {
			match = r.hist.Get(r.searchIndex)
		}
		if forward {
			r.printForwardSearchStatus(string(r.searchTerm), match)
		} else {
			r.printSearchStatus(string(r.searchTerm), match)
		}
	} else {
		r.searchIndex = -1
		if forward {
			r.printForwardSearchStatus("", "")
		} else {
			r.printSearchStatus("", "")
		}
	}
}

//
// Non-incremental (prefix) history search
//

func (r *Reader) historySearchBackward() {
	r.searchTerm = []rune(r.buf.UpToCursor())
	r.hasSearchTerm = true
	r.searchIndex = r.searchBackwardsAt(string(r.searchTerm), r.hist.Cursor(), true)

	if r.searchIndex == -1 {
		r.beep()
		return
	}
	if r.hist.MoveTo(r.searchIndex) {
		r.setBufferKeepPos(r.hist.Current())
	} else {
		r.beep()
	}
}

func (r *Reader) historySearchForward() {
	r.searchTerm = []rune(r.buf.UpToCursor())
	r.hasSearchTerm = true
	index := r.hist.Cursor() + 1

	if index >= r.hist.Index() {
		// Already at the newest entry: park at the end, keep the
		// prefix.
		r.hist.MoveToEnd()
		r.setBufferKeepPos(string(r.searchTerm))
		return
	}
	r.searchIndex = r.searchForwardsAt(string(r.searchTerm), index, true)
	if r.searchIndex == -1 {
		r.beep()
		return
	}
	if r.hist.MoveTo(r.searchIndex) {
		r.setBufferKeepPos(r.hist.Current())
	} else {
		r.beep()
	}
}

//
// Search status line
//

func (r *Reader) printSearchStatus(term, match string) {
	r.printSearchStatusLabel(term, match, "bck-i-search")
}

func (r *Reader) printForwardSearchStatus(term, match string) {
	r.printSearchStatusLabel(term, match, "i-search")
}

func (r *Reader) printSearchStatusLabel(term, match, label string) {
	r.post = []string{label + ": " + term + "_"}
	r.setBuffer(match)
	if i := strings.Index(match, term); i >= 0 {
		r.buf.cursor = len([]rune(match[:i]))
	} else {
		r.buf.cursor = 0
	}
}

// restoreLine drops the search status display.
func (r *Reader) restoreLine() {
	r.setPrompt(r.originalPrompt)
	r.post = nil
}

//
// vi "/" and "?" search
//

// viSearch reads a search term on a cleared line, shows the first match,
// then lets n/N/p/P walk matches until any other key resumes editing.
func (r *Reader) viSearch() {
	if len(r.opBuffer) == 0 {
		return
	}
	searchChar := r.opBuffer[0]
	isForward := searchChar == '/'

	origBuffer := r.buf.Copy()

	r.setCursorPosition(0)
	r.killLine()
	r.buf.Write(string(searchChar))
	r.redisplay()
	r.console.Flush()

	aborted := false
	complete := false
	var ch rune
	var err error
	for !aborted && !complete {
		ch, err = r.readCharacter()
		if err != nil {
			aborted = true
			break
		}
		switch ch {
		case '\x1b':
			aborted = true
		case '\b', '\x7f':
			r.buf.Backspace(1)
			if r.buf.Cursor() == 0 {
				aborted = true
			}
		case '\n', '\r':
			complete = true
		default:
			r.buf.Write(string(ch))
		}
		r.redisplay()
		r.console.Flush()
	}

	if aborted {
		r.setCursorPosition(0)
		r.killLine()
		r.buf.Write(origBuffer.String())
		r.setCursorPosition(origBuffer.Cursor())
		return
	}

	// The first buffer character is the search character itself.
	term := r.buf.Substring(1, r.buf.Len())
	idx := -1

	end := r.hist.Index()
	start := end - r.hist.Size()

	if isForward {
		for i := start; i < end; i++ {
			if strings.Contains(r.hist.Get(i), term) {
				idx = i
				break
			}
		}
	} else {
		for i := end - 1; i >= start; i-- {
			if strings.Contains(r.hist.Get(i), term) {
				idx = i
				break
			}
		}
	}

	if idx == -1 {
		r.setCursorPosition(0)
		r.killLine()
		r.buf.Write(origBuffer.String())
		r.setCursorPosition(0)
		return
	}

	r.setCursorPosition(0)
	r.killLine()
	r.buf.Write(r.hist.Get(idx))
	r.setCursorPosition(0)
	r.redisplay()
	r.console.Flush()

	// n/N/p/P iterate matches; anything else returns to editing.
	complete = false
	for !complete {
		ch, err = r.readCharacter()
		if err != nil {
			return
		}
		forward := isForward
		switch ch {
		case 'p', 'P':
			forward = !isForward
			fallthrough
		case 'n', 'N':
			found := false
			if forward {
				for i := idx + 1; !found && i < end; i++ {
					if strings.Contains(r.hist.Get(i), term) {
						idx = i
						found = true
					}
				}
			} else {
				for i := idx - 1; !found && i >= start; i-- {
					if strings.Contains(r.hist.Get(i), term) {
						idx = i
						found = true
					}
				}
			}
			if found {
				r.setCursorPosition(0)
				r.killLine()
				r.buf.Write(r.hist.Get(idx))
				r.setCursorPosition(0)
			}
		default:
			complete = true
		}
		r.redisplay()
		r.console.Flush()
	}

	r.pushBack = append(r.pushBack, ch)
}
