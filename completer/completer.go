// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: completer/completer.go
// Summary: Stock completion sources: fixed strings and word-wise delegation.

package completer

import (
	"sort"
	"strings"
	"unicode"
)

// Completer matches the interface the editor consumes; declared here so
// the package stands alone.
type Completer interface {
	Complete(buffer string, cursor int) (pos int, candidates []string)
}

// Strings completes against a fixed candidate set, matching on the text
// before the cursor.
type Strings struct {
	values []string
}

// NewStrings builds a Strings completer; candidates are kept sorted.
func NewStrings(values ...string) *Strings {
	vs := append([]string(nil), values...)
	sort.Strings(vs)
	return &Strings{values: vs}
}

func (c *Strings) Complete(buffer string, cursor int) (int, []string) {
	prefix := string([]rune(buffer)[:cursor])
	var out []string
	for _, v := range c.values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return -1, nil
	}
	return 0, out
}

// Argument applies a delegate completer to the whitespace-delimited word
// under the cursor, so `open fi<TAB>` completes "fi" rather than the
// whole line.
type Argument struct {
	delegate Completer
}

// NewArgument wraps a completer with word splitting.
func NewArgument(delegate Completer) *Argument {
	return &Argument{delegate: delegate}
}

func (c *Argument) Complete(buffer string, cursor int) (int, []string) {
	runes := []rune(buffer)
	if cursor > len(runes) {
		cursor = len(runes)
	}
	start := cursor
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	word := string(runes[start:cursor])
	pos, candidates := c.delegate.Complete(word, len([]rune(word)))
	if pos == -1 {
		return -1, nil
	}
	return start + pos, candidates
}

// Null never completes; useful to terminate an argument chain.
type Null struct{}

func (Null) Complete(buffer string, cursor int) (int, []string) {
	return -1, nil
}
