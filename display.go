// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: display.go
// Summary: Incremental redisplay: render, wrap, diff, minimal repaint.

package texline

import (
	"strings"

	"github.com/framegrace/texline/internal/diff"
	"github.com/framegrace/texline/term"
	"github.com/mattn/go-runewidth"
)

//
// Cell widths
//

// wcwidth returns the display width of one code point at a column: TAB
// advances to the next tab stop, other control characters render as ^X
// (two cells), wide runes take two cells and zero-width marks none.
func (r *Reader) wcwidth(ucs rune, pos int) int {
	if ucs == '\t' {
		return r.nextTabStop(pos)
	}
	if ucs < 32 {
		return 2
	}
	w := runewidth.RuneWidth(ucs)
	if w < 0 {
		return 0
	}
	return w
}

// wcwidthStr accumulates widths over a string starting at a column.
func (r *Reader) wcwidthStr(s string, pos int) int {
	cur := pos
	for _, c := range s {
		cur += r.wcwidth(c, cur)
	}
	return cur - pos
}

// nextTabStop returns the distance to the next TabWidth-aligned stop,
// clamped to the line width.
func (r *Reader) nextTabStop(pos int) int {
	width := r.size.Columns
	npos := (pos/TabWidth + 1) * TabWidth
	if npos < width {
		return npos - pos
	}
	return width - pos
}

func (r *Reader) getCursorPosition() int {
	buffer := r.buf.String()
	if r.mask != nil {
		if *r.mask == 0 {
			return r.promptLen
		}
		buffer = strings.Repeat(string(*r.mask), r.buf.Len())
	}
	upTo := string([]rune(buffer)[:r.buf.Cursor()])
	return r.promptLen + r.wcwidthStr(upTo, r.promptLen)
}

//
// Rendering and wrapping
//

// renderText expands TABs and control characters the way they occupy
// screen cells, leaving SGR escape sequences intact with zero width.
func (r *Reader) renderText(s string, startCol int) string {
	var sb strings.Builder
	col := startCol
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\x1b':
			// Copy the whole escape sequence through untouched.
			j := i + 1
			if j < len(runes) && runes[j] == '[' {
				j++
				for j < len(runes) && (runes[j] < '@' || runes[j] > '~') {
					j++
				}
			}
			if j >= len(runes) {
				j = len(runes) - 1
			}
			sb.WriteString(string(runes[i : j+1]))
			i = j
		case c == '\n':
			sb.WriteRune(c)
			col = 0
		case c == '\t':
			n := r.nextTabStop(col % r.columnsOr(80))
			for k := 0; k < n; k++ {
				sb.WriteByte(' ')
			}
			col += n
		case c < 32:
			sb.WriteByte('^')
			sb.WriteRune(c + '@')
			col += 2
		default:
			sb.WriteRune(c)
			col += runewidth.RuneWidth(c)
		}
	}
	return sb.String()
}

func (r *Reader) columnsOr(def int) int {
	if r.size.Columns > 0 {
		return r.size.Columns
	}
	return def
}

// splitLines wraps rendered text into physical lines of the given cell
// width. Newlines force a break; a wide rune that would straddle the
// margin wraps early. A line that fills the width exactly is followed by
// a new line, which is empty when nothing comes after it. Escape
// sequences stay glued to the text after them.
func splitLines(s string, columns int) []string {
	if columns <= 0 {
		columns = 1 << 30
	}
	var lines []string
	var cur strings.Builder
	col := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\x1b' {
			j := i + 1
			if j < len(runes) && runes[j] == '[' {
				j++
				for j < len(runes) && (runes[j] < '@' || runes[j] > '~') {
					j++
				}
			}
			if j >= len(runes) {
				j = len(runes) - 1
			}
			cur.WriteString(string(runes[i : j+1]))
			i = j
			continue
		}
		if c == '\n' {
			lines = append(lines, cur.String())
			cur.Reset()
			col = 0
			continue
		}
		w := runewidth.RuneWidth(c)
		if w < 0 {
			w = 0
		}
		if col+w > columns {
			lines = append(lines, cur.String())
			cur.Reset()
			col = 0
		}
		cur.WriteRune(c)
		col += w
		if col >= columns {
			lines = append(lines, cur.String())
			cur.Reset()
			col = 0
		}
	}
	lines = append(lines, cur.String())
	return lines
}

//
// Redisplay
//

// redrawLine forces the next redisplay to repaint from scratch.
func (r *Reader) redrawLine() {
	r.oldBuf = ""
	r.oldPrompt = ""
	r.oldPost = nil
}

// redisplay reconciles the physical screen with the current prompt,
// buffer and post lines, painting only what changed since the last
// snapshot.
func (r *Reader) redisplay() {
	buffer := r.buf.String()
	if r.mask != nil {
		if *r.mask == 0 {
			buffer = ""
		} else {
			buffer = strings.Repeat(string(*r.mask), r.buf.Len())
		}
	} else if r.highlighter != nil {
		buffer = r.highlighter.Highlight(buffer)
	}

	columns := r.columnsOr(80)
	oldColumns := r.oldColumns
	if oldColumns <= 0 {
		oldColumns = columns
	}

	oldPostStr := ""
	newPostStr := ""
	if r.oldPost != nil {
		oldPostStr = "\n" + r.toColumns(r.oldPost, oldColumns)
	}
	if r.post != nil {
		newPostStr = "\n" + r.toColumns(r.post, columns)
	}
	rendered := r.renderText(r.prompt+buffer+newPostStr, 0)
	oldLines := splitLines(r.oldBuf+oldPostStr, oldColumns)
	newLines := splitLines(rendered, columns)

	lineIndex := 0
	currentPos := 0
	for lineIndex < min(len(oldLines), len(newLines)) {
		oldLine := oldLines[lineIndex]
		newLine := newLines[lineIndex]
		lineIndex++

		spans := diff.Runes(oldLine, newLine)
		ident := true
		cleared := false
		curCol := currentPos
		for i := 0; i < len(spans); i++ {
			span := spans[i]
			width := r.plainWidth(span.Text, currentPos)
			switch span.Op {
			case diff.Equal:
				if !ident {
					r.cursorPos = r.moveVisualCursorTo(currentPos)
					r.rawPrint(span.Text)
					r.cursorPos += width
					currentPos = r.cursorPos
				} else {
					currentPos += width
				}
			case diff.Insert:
				if i <= len(spans)-2 && spans[i+1].Op == diff.Equal {
					r.cursorPos = r.moveVisualCursorTo(currentPos)
					if r.console.Puts(term.ParmIch, width) {
						r.rawPrint(span.Text)
						r.cursorPos += width
						currentPos = r.cursorPos
						break
					}
					opened := true
					for j := 0; j < width && opened; j++ {
						opened = r.console.Puts(term.InsertCharacter)
					}
					if opened && width > 0 {
						r.rawPrint(span.Text)
						r.cursorPos += width
						currentPos = r.cursorPos
						break
					}
				}
				r.moveVisualCursorTo(currentPos)
				r.rawPrint(span.Text)
				r.cursorPos += width
				currentPos = r.cursorPos
				ident = false
			case diff.Delete:
				if cleared {
					continue
				}
				if currentPos-curCol >= columns {
					continue
				}
				if i <= len(spans)-2 && spans[i+1].Op == diff.Equal {
					if currentPos+r.plainWidth(spans[i+1].Text, r.cursorPos) < columns {
						r.moveVisualCursorTo(currentPos)
						if r.console.Puts(term.ParmDch, width) {
							break
						}
						deleted := true
						for j := 0; j < width && deleted; j++ {
							deleted = r.console.Puts(term.DeleteCharacter)
						}
						if deleted {
							break
						}
					}
				}
				oldLen := r.plainWidth(oldLine, 0)
				newLen := r.plainWidth(newLine, 0)
				nb := max(oldLen, newLen) - currentPos
				r.moveVisualCursorTo(currentPos)
				if !r.console.Puts(term.ClrEOL) {
					r.rawPrintRepeat(' ', nb)
					r.cursorPos += nb
				}
				cleared = true
				ident = false
			}
		}
		if r.console.Flag(term.AutoRightMargin) &&
			r.console.Flag(term.EatNewlineGlitch) &&
			r.cursorPos > curCol && r.cursorPos%columns == 0 {
			// Force the wrap the terminal is sitting on.
			r.rawPrint(" ")
			r.console.Puts(term.CarriageReturn)
		}
		currentPos = curCol + columns
	}
	for lineIndex < max(len(oldLines), len(newLines)) {
		r.moveVisualCursorTo(currentPos)
		if lineIndex < len(oldLines) {
			if !r.console.Puts(term.ClrEOL) {
				nb := r.plainWidth(oldLines[lineIndex], r.cursorPos)
				r.rawPrintRepeat(' ', nb)
				r.cursorPos += nb
			}
		} else {
			r.rawPrint(newLines[lineIndex])
			r.cursorPos += r.plainWidth(newLines[lineIndex], r.cursorPos)
		}
		lineIndex++
		currentPos += columns
	}

	promptLines := len(splitLines(r.renderText(r.prompt, 0), columns))
	r.moveVisualCursorTo((promptLines-1)*columns + r.getCursorPosition())

	r.oldBuf = r.renderText(r.prompt+buffer, 0)
	r.oldPrompt = r.prompt
	r.oldPost = r.post
	r.oldColumns = columns
}

// plainWidth measures rendered text (escapes stripped) from a column.
func (r *Reader) plainWidth(s string, pos int) int {
	return r.wcwidthStr(stripAnsi(s), pos)
}

// moveVisualCursorTo moves the terminal cursor to an absolute cell
// offset from the prompt origin, using relative motions.
func (r *Reader) moveVisualCursorTo(i1 int) int {
	i0 := r.cursorPos
	if i0 == i1 {
		return i1
	}
	width := r.columnsOr(80)
	l0, c0 := i0/width, i0%width
	l1, c1 := i1/width, i1%width
	if l0 == l1+1 {
		if !r.console.Puts(term.CursorUp) {
			r.console.Puts(term.ParmUpCursor, 1)
		}
	} else if l0 > l1 {
		if !r.console.Puts(term.ParmUpCursor, l0-l1) {
			for i := l1; i < l0; i++ {
				r.console.Puts(term.CursorUp)
			}
		}
	} else if l0 < l1 {
		r.console.Puts(term.CarriageReturn)
		r.rawPrintRepeat('\n', l1-l0)
		c0 = 0
	}
	switch {
	case c0 == c1-1:
		r.console.Puts(term.CursorRight)
	case c0 == c1+1:
		r.console.Puts(term.CursorLeft)
	case c0 < c1:
		if !r.console.Puts(term.ParmRightCursor, c1-c0) {
			for i := c0; i < c1; i++ {
				r.console.Puts(term.CursorRight)
			}
		}
	case c0 > c1:
		if !r.console.Puts(term.ParmLeftCursor, c0-c1) {
			for i := c1; i < c0; i++ {
				r.console.Puts(term.CursorLeft)
			}
		}
	}
	r.cursorPos = i1
	return i1
}

//
// Raw output
//

func (r *Reader) rawPrint(s string) {
	r.console.WriteString(s)
}

func (r *Reader) rawPrintRepeat(c rune, n int) {
	for i := 0; i < n; i++ {
		r.console.WriteString(string(c))
	}
}

// printString writes text (not the edit buffer) converting TABs and
// control characters for display.
func (r *Reader) printString(s string) {
	r.rawPrint(r.renderText(s, r.getCursorPosition()))
}

func (r *Reader) printlnString(s string) {
	r.printString(s)
	r.println()
}

// println moves to a fresh line and invalidates the snapshot.
func (r *Reader) println() {
	r.console.Puts(term.CarriageReturn)
	r.rawPrint("\n")
	r.redrawLine()
}

// clearScreen clears and schedules a full repaint.
func (r *Reader) clearScreen() {
	if r.console.Puts(term.ClearScreen) {
		r.redrawLine()
		r.cursorPos = 0
	} else {
		r.println()
	}
}

// beep signals per bell-style: silent, audible, or visible with an
// audible fallback.
func (r *Reader) beep() {
	style := r.GetVariable(VarBellStyle)
	visible := false
	audible := true
	switch style {
	case "none", "off":
		audible = false
	case "audible":
	case "visible":
		visible = true
	case "on":
		if r.GetVariable(VarPreferVisibleBell) == "off" {
			visible = false
		} else {
			visible = true
		}
	}
	if visible {
		if r.console.Puts(term.FlashScreen) || r.console.Puts(term.Bell) {
			r.console.Flush()
		}
	} else if audible {
		if r.console.Puts(term.Bell) {
			r.console.Flush()
		}
	}
}

// toColumns lays items out into fixed-width columns within width cells.
func (r *Reader) toColumns(items []string, width int) string {
	if len(items) == 0 {
		return ""
	}
	maxWidth := 0
	for _, item := range items {
		if l := r.plainWidth(item, 0); l > maxWidth {
			maxWidth = l
		}
	}
	maxWidth += 3

	var sb strings.Builder
	realLength := 0
	for _, item := range items {
		if realLength+maxWidth > width {
			sb.WriteByte('\n')
			realLength = 0
		}
		sb.WriteString(item)
		for i := r.plainWidth(item, 0); i < maxWidth; i++ {
			sb.WriteByte(' ')
		}
		realLength += maxWidth
	}
	sb.WriteByte('\n')
	return sb.String()
}
