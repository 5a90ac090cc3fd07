// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer.go
// Summary: The edit buffer: code points, cursor, overtype flag.

package texline

// Buffer is the mutable line under edit. The cursor is a code point
// index in [0, Len()]. No terminal I/O happens here.
type Buffer struct {
	runes    []rune
	cursor   int
	overtype bool
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Len is the number of code points.
func (b *Buffer) Len() int { return len(b.runes) }

// Cursor is the current code point index.
func (b *Buffer) Cursor() int { return b.cursor }

// String renders the buffer contents.
func (b *Buffer) String() string { return string(b.runes) }

// Overtype reports the insert/overtype flag.
func (b *Buffer) Overtype() bool { return b.overtype }

// SetOvertype flips between insert and overtype behavior for Write.
func (b *Buffer) SetOvertype(v bool) { b.overtype = v }

// Write inserts the string at the cursor and advances past it. In
// overtype mode existing characters are replaced while any remain.
func (b *Buffer) Write(s string) {
	for _, r := range s {
		if b.overtype && b.cursor < len(b.runes) {
			b.runes[b.cursor] = r
		} else {
			b.runes = append(b.runes, 0)
			copy(b.runes[b.cursor+1:], b.runes[b.cursor:])
			b.runes[b.cursor] = r
		}
		b.cursor++
	}
}

// Move shifts the cursor by delta, clamped to the buffer bounds, and
// returns the distance actually moved (negative when moving left).
func (b *Buffer) Move(delta int) int {
	where := delta
	if b.cursor == 0 && where <= 0 {
		return 0
	}
	if b.cursor == len(b.runes) && where >= 0 {
		return 0
	}
	if b.cursor+where < 0 {
		where = -b.cursor
	} else if b.cursor+where > len(b.runes) {
		where = len(b.runes) - b.cursor
	}
	b.cursor += where
	return where
}

// Backspace removes up to n code points before the cursor, returning how
// many were removed.
func (b *Buffer) Backspace(n int) int {
	if b.cursor == 0 {
		return 0
	}
	count := -b.Move(-n)
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+count:]...)
	return count
}

// Delete removes the code point at the cursor, reporting success.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.runes) {
		return false
	}
	b.runes = append(b.runes[:b.cursor], b.runes[b.cursor+1:]...)
	return true
}

// DeleteRange removes the code points in [from, to), clamping both ends.
func (b *Buffer) DeleteRange(from, to int) {
	if from > to {
		from, to = to, from
	}
	if from < 0 {
		from = 0
	}
	if to > len(b.runes) {
		to = len(b.runes)
	}
	b.runes = append(b.runes[:from], b.runes[to:]...)
	if b.cursor > len(b.runes) {
		b.cursor = len(b.runes)
	}
}

// Current returns the code point immediately before the cursor, or 0 at
// the beginning of the line.
func (b *Buffer) Current() rune {
	if b.cursor <= 0 {
		return 0
	}
	return b.runes[b.cursor-1]
}

// NextChar returns the code point under the cursor, or 0 at the end.
func (b *Buffer) NextChar() rune {
	if b.cursor >= len(b.runes) {
		return 0
	}
	return b.runes[b.cursor]
}

// At returns the code point at index i, or 0 out of range.
func (b *Buffer) At(i int) rune {
	if i < 0 || i >= len(b.runes) {
		return 0
	}
	return b.runes[i]
}

// SetAt replaces the code point at index i.
func (b *Buffer) SetAt(i int, r rune) {
	if i >= 0 && i < len(b.runes) {
		b.runes[i] = r
	}
}

// UpToCursor returns the text before the cursor.
func (b *Buffer) UpToCursor() string { return string(b.runes[:b.cursor]) }

// Substring returns the text in [from, to).
func (b *Buffer) Substring(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(b.runes) {
		to = len(b.runes)
	}
	if from >= to {
		return ""
	}
	return string(b.runes[from:to])
}

// Clear empties the buffer. The overtype flag is preserved.
func (b *Buffer) Clear() {
	b.runes = b.runes[:0]
	b.cursor = 0
}

// Copy returns an independent snapshot.
func (b *Buffer) Copy() *Buffer {
	c := &Buffer{
		runes:    append([]rune(nil), b.runes...),
		cursor:   b.cursor,
		overtype: b.overtype,
	}
	return c
}
