// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: completion.go
// Summary: Tab completion: candidate collection, listing, paging.

package texline

import (
	"strings"

	"github.com/framegrace/texline/term"
)

// complete runs tab completion, unless the TAB looks like pasted input:
// with copy-paste-detection on, a character arriving immediately after
// the TAB means the TAB was literal.
func (r *Reader) complete() {
	isTabLiteral := false
	if r.getBoolean(VarCopyPasteDetection, false) &&
		string(r.opBuffer) == "\t" {
		if len(r.pushBack) > 0 {
			isTabLiteral = true
		} else if _, err := r.console.Peek(copyPasteDetectionTimeout); err == nil {
			isTabLiteral = true
		}
	} else if r.getBoolean(VarDisableCompletion, false) {
		isTabLiteral = true
	}

	if isTabLiteral {
		r.selfInsert()
		return
	}
	if !r.doComplete() {
		r.beep()
	}
}

// doComplete asks the completers in order; the first that claims a
// position wins and its candidates go to the completion handler.
func (r *Reader) doComplete() bool {
	if len(r.completers) == 0 {
		return false
	}
	bufstr := r.buf.String()
	cursor := r.buf.Cursor()

	for _, comp := range r.completers {
		pos, candidates := comp.Complete(bufstr, cursor)
		if pos == -1 {
			continue
		}
		if len(candidates) == 0 {
			return false
		}
		handler := r.completionHandler
		if handler == nil {
			handler = defaultCompletionHandler{}
		}
		return handler.Complete(r, candidates, pos)
	}
	return false
}

// printCompletionCandidates lists the candidates without changing the
// buffer (possible-completions).
func (r *Reader) printCompletionCandidates() {
	if len(r.completers) == 0 {
		return
	}
	bufstr := r.buf.String()
	cursor := r.buf.Cursor()
	for _, comp := range r.completers {
		pos, candidates := comp.Complete(bufstr, cursor)
		if pos != -1 {
			r.printCandidates(candidates)
			return
		}
	}
}

// defaultCompletionHandler inserts the single candidate, or extends the
// unambiguous common prefix and lists the alternatives.
type defaultCompletionHandler struct{}

func (defaultCompletionHandler) Complete(r *Reader, candidates []string, pos int) bool {
	candidates = dedupe(candidates)
	if len(candidates) == 1 {
		r.setCompletionText(candidates[0], pos)
		return true
	}
	if len(candidates) > 1 {
		r.setCompletionText(commonPrefix(candidates), pos)
	}
	r.printCandidates(candidates)
	return true
}

// setCompletionText replaces the text between pos and the cursor.
func (r *Reader) setCompletionText(value string, pos int) {
	for r.buf.Cursor() > pos {
		if r.buf.Backspace(1) != 1 {
			break
		}
	}
	r.buf.Write(value)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func commonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			if len(prefix) == 0 {
				return ""
			}
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

// printCandidates shows the candidate list. From completion-query-items
// candidates on the user is asked first; a small list goes to the post display.
func (r *Reader) printCandidates(candidates []string) {
	candidates = dedupe(candidates)

	maxItems := r.getInt(VarCompletionQueryItems, 100)
	if maxItems > 0 && len(candidates) >= maxItems {
		r.println()
		r.printString(r.message(MsgDisplayCandidates, len(candidates)))
		r.console.Flush()

		noOpt := r.message(MsgDisplayCandidatesNo)
		yesOpt := r.message(MsgDisplayCandidatesYes)
	query:
		for {
			c, err := r.readCharacter()
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(noOpt, string(c)):
				r.println()
				return
			case strings.HasPrefix(yesOpt, string(c)):
				break query
			default:
				r.beep()
			}
		}
		r.printColumns(candidates)
		r.println()
		return
	}
	r.post = candidates
}

// printColumns prints items in fixed-width columns, paging with a
// --More-- prompt when page-completions is on.
func (r *Reader) printColumns(items []string) {
	if len(items) == 0 {
		return
	}
	width := r.columnsOr(80)
	height := r.size.Rows
	if height <= 0 {
		height = 24
	}

	maxWidth := 0
	for _, item := range items {
		if l := r.plainWidth(item, 0); l > maxWidth {
			maxWidth = l
		}
	}
	maxWidth += 3

	showLines := int(^uint(0) >> 1)
	if r.getBoolean(VarPageCompletions, true) {
		showLines = height - 1
	}

	var sb strings.Builder
	realLength := 0
	for _, item := range items {
		if realLength+maxWidth > width {
			r.printlnString(sb.String())
			sb.Reset()
			realLength = 0

			showLines--
			if showLines == 0 {
				r.printString(r.message(MsgDisplayMore))
				r.console.Flush()
				c, err := r.readCharacter()
				if err != nil {
					return
				}
				if c == '\r' || c == '\n' {
					showLines = 1
				} else if c != 'q' {
					showLines = height - 1
				}
				r.console.Puts(term.CarriageReturn)
				if c == 'q' {
					break
				}
			}
		}
		sb.WriteString(item)
		for i := r.plainWidth(item, 0); i < maxWidth; i++ {
			sb.WriteByte(' ')
		}
		realLength += maxWidth
	}
	if sb.Len() > 0 {
		r.printlnString(sb.String())
	}
}
