// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ansi.go
// Summary: SGR escape handling for width accounting and line wrapping.

package texline

import "strings"

// stripAnsi removes CSI escape sequences so display widths can be
// computed over the visible text only.
func stripAnsi(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	var sb strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\x1b' {
			sb.WriteRune(runes[i])
			continue
		}
		i++
		if i < len(runes) && runes[i] == '[' {
			// CSI: parameters then a final byte in @..~.
			i++
			for i < len(runes) && (runes[i] < '@' || runes[i] > '~') {
				i++
			}
		}
		// Lone ESC or two-char sequence: both are swallowed with the
		// final byte by the loop increment.
	}
	return sb.String()
}
