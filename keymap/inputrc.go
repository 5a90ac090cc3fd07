// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: keymap/inputrc.go
// Summary: Readline-compatible inputrc parsing: variables, bindings, macros.

package keymap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadInputrcFile reads bindings and variables from the file at path into
// the registry. A missing file is not an error.
func (k *Keys) LoadInputrcFile(path, appName string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open inputrc: %w", err)
	}
	defer f.Close()
	return k.LoadInputrc(f, appName)
}

// LoadInputrc parses an inputrc stream. Supported constructs: comments,
// `set name value`, `"sequence": operation`, `"sequence": "macro"`,
// Control-/Meta- prefixed key names, and $if/$else/$endif guards keyed on
// the application name, `mode=` and `term=`.
func (k *Keys) LoadInputrc(r io.Reader, appName string) error {
	target := k.Current()
	// Each $if pushes whether its branch applies; lines are skipped
	// whenever any enclosing branch does not.
	var ifStack []bool

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "$") {
			ifStack = k.directive(line, appName, ifStack)
			continue
		}
		skip := false
		for _, ok := range ifStack {
			if !ok {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if strings.HasPrefix(line, "set ") {
			fields := strings.Fields(line)
			if len(fields) >= 3 {
				k.SetVariable(fields[1], strings.Join(fields[2:], " "))
			}
			continue
		}
		k.parseBinding(target, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read inputrc: %w", err)
	}
	return nil
}

func (k *Keys) directive(line, appName string, ifStack []bool) []bool {
	word := line
	var arg string
	if i := strings.IndexByte(line, ' '); i >= 0 {
		word, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	switch word {
	case "$if":
		ifStack = append(ifStack, k.evalCondition(arg, appName))
	case "$else":
		if n := len(ifStack); n > 0 {
			ifStack[n-1] = !ifStack[n-1]
		}
	case "$endif":
		if n := len(ifStack); n > 0 {
			ifStack = ifStack[:n-1]
		}
	}
	return ifStack
}

func (k *Keys) evalCondition(cond, appName string) bool {
	switch {
	case strings.HasPrefix(cond, "mode="):
		mode := strings.TrimPrefix(cond, "mode=")
		if mode == "vi" {
			return k.Current().Name() != EmacsName
		}
		return k.Current().Name() == EmacsName
	case strings.HasPrefix(cond, "term="):
		want := strings.TrimPrefix(cond, "term=")
		term := os.Getenv("TERM")
		return term == want || strings.HasPrefix(term, want+"-")
	default:
		return strings.EqualFold(cond, appName)
	}
}

func (k *Keys) parseBinding(target *KeyMap, line string) {
	var seq string
	var rest string
	if strings.HasPrefix(line, "\"") {
		end := -1
		for i := 1; i < len(line); i++ {
			if line[i] == '\\' {
				i++
				continue
			}
			if line[i] == '"' {
				end = i
				break
			}
		}
		if end < 0 {
			return
		}
		seq = parseKeySequence(line[1:end])
		rest = line[end+1:]
	} else {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return
		}
		seq = parseKeyName(strings.TrimSpace(line[:colon]))
		rest = line[colon:]
	}
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
	if seq == "" || rest == "" {
		return
	}
	if strings.HasPrefix(rest, "\"") {
		macro := strings.TrimSuffix(strings.TrimPrefix(rest, "\""), "\"")
		target.Bind(seq, parseKeySequence(macro))
		return
	}
	if op, ok := OperationByName(strings.ToLower(rest)); ok {
		target.Bind(seq, op)
	}
}

// parseKeySequence expands the backslash escapes readline allows inside a
// quoted key sequence or macro.
func parseKeySequence(s string) string {
	var out []rune
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i == len(runes)-1 {
			out = append(out, r)
			continue
		}
		i++
		switch c := runes[i]; c {
		case 'C':
			if i+2 < len(runes) && runes[i+1] == '-' {
				out = append(out, runes[i+2]&0x1f)
				i += 2
			}
		case 'M':
			if i+2 < len(runes) && runes[i+1] == '-' {
				out = append(out, 0x1b, runes[i+2])
				i += 2
			}
		case 'e':
			out = append(out, 0x1b)
		case 'a':
			out = append(out, 7)
		case 'b':
			out = append(out, 8)
		case 'd':
			out = append(out, 127)
		case 'f':
			out = append(out, 12)
		case 'n':
			out = append(out, 10)
		case 'r':
			out = append(out, 13)
		case 't':
			out = append(out, 9)
		case 'v':
			out = append(out, 11)
		case 'x':
			j := i + 1
			for j < len(runes) && j <= i+2 && isHex(runes[j]) {
				j++
			}
			if j > i+1 {
				n, _ := strconv.ParseInt(string(runes[i+1:j]), 16, 32)
				out = append(out, rune(n))
				i = j - 1
			}
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(runes) && j < i+3 && runes[j] >= '0' && runes[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseInt(string(runes[i:j]), 8, 32)
			out = append(out, rune(n))
			i = j - 1
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// parseKeyName handles the unquoted Control-/Meta- key name syntax.
func parseKeyName(s string) string {
	prefix := ""
	ctrlMod := false
	for {
		lower := strings.ToLower(s)
		if strings.HasPrefix(lower, "control-") || strings.HasPrefix(lower, "c-") {
			s = s[strings.IndexByte(s, '-')+1:]
			ctrlMod = true
			continue
		}
		if strings.HasPrefix(lower, "meta-") || strings.HasPrefix(lower, "m-") {
			s = s[strings.IndexByte(s, '-')+1:]
			prefix += "\x1b"
			continue
		}
		break
	}
	return prefix + keyNameTail(ctrlMod, s)
}

func keyNameTail(ctrlMod bool, s string) string {
	var r rune
	switch strings.ToLower(s) {
	case "space":
		r = ' '
	case "rubout", "del":
		r = 127
	case "escape", "esc":
		r = 0x1b
	case "newline", "lfd":
		r = '\n'
	case "return", "ret":
		r = '\r'
	case "tab":
		r = '\t'
	default:
		rs := []rune(s)
		if len(rs) == 0 {
			return ""
		}
		r = rs[0]
	}
	if ctrlMod {
		r &= 0x1f
	}
	return string(r)
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
