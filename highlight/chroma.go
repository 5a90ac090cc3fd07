// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/chroma.go
// Summary: Chroma-backed buffer highlighter with content-based language detection.

package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
)

const defaultStyleName = "catppuccin-mocha"

// Chroma colorizes the edit buffer with SGR sequences. With no fixed
// language, go-enry's classifier guesses one from the buffer content;
// unconfident guesses fall back to plain text.
type Chroma struct {
	lexerName string
	style     *chroma.Style
}

// New returns a highlighter for the given language ("" to auto-detect)
// and Chroma style name ("" for the default).
func New(lexerName, styleName string) *Chroma {
	if styleName == "" {
		styleName = defaultStyleName
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Chroma{lexerName: lexerName, style: style}
}

// Highlight implements the editor's highlight hook. Any failure returns
// the buffer untouched; the editor never depends on color.
func (h *Chroma) Highlight(buffer string) string {
	if buffer == "" {
		return buffer
	}
	lexer := h.lexer(buffer)
	if lexer == nil {
		return buffer
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, buffer)
	if err != nil {
		return buffer
	}
	var sb strings.Builder
	if err := formatters.TTY256.Format(&sb, h.style, it); err != nil {
		return buffer
	}
	// The formatter ends lines with the tokenized newline; the editor
	// renders a single line, so trim it.
	return strings.TrimSuffix(sb.String(), "\n")
}

func (h *Chroma) lexer(buffer string) chroma.Lexer {
	if h.lexerName != "" {
		return lexers.Get(h.lexerName)
	}
	if lang, safe := enry.GetLanguageByClassifier([]byte(buffer), nil); safe {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	return lexers.Fallback
}
