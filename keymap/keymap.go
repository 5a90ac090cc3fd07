// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: keymap/keymap.go
// Summary: Prefix tree from code point sequences to bindings.

package keymap

// A binding stored in a KeyMap is one of:
//   - Operation: a tagged edit action
//   - string:    a macro, replayed as typed input
//   - *KeyMap:   a nested map for multi-key sequences
//   - anything else: a caller-supplied widget, applied verbatim
//
// Bindings are kept as interface{} so widget types owned by the consumer
// never leak into this package.

// KeyMap maps single code points to bindings, nesting sub-maps for longer
// sequences. The other-key binding is the fallback used when a sequence
// cannot be extended to any entry.
type KeyMap struct {
	name    string
	entries map[rune]interface{}
	other   interface{}
}

// New returns an empty KeyMap with the given name.
func New(name string) *KeyMap {
	return &KeyMap{name: name, entries: make(map[rune]interface{})}
}

// Name reports the map's name ("emacs", "vi-insert", "vi-move").
func (km *KeyMap) Name() string { return km.name }

// OtherKey returns the fallback binding, or nil.
func (km *KeyMap) OtherKey() interface{} { return km.other }

// BindOtherKey sets the fallback binding.
func (km *KeyMap) BindOtherKey(b interface{}) { km.other = b }

// Bind attaches a binding to a code point sequence, creating intermediate
// sub-maps as needed. Binding over an existing sub-map replaces it; binding
// through an existing leaf replaces the leaf with a sub-map.
func (km *KeyMap) Bind(seq string, b interface{}) {
	runes := []rune(seq)
	if len(runes) == 0 {
		return
	}
	node := km
	for i, r := range runes {
		if i == len(runes)-1 {
			node.entries[r] = b
			return
		}
		next, ok := node.entries[r].(*KeyMap)
		if !ok {
			next = New(node.name)
			node.entries[r] = next
		}
		node = next
	}
}

// GetBound resolves a sequence. The result is the bound value, a *KeyMap
// when the sequence is a strict prefix of longer bindings, or nil when no
// binding exists. Code points beyond the classic key table (>= 256) fall
// back to the node's other-key; everything else must be bound explicitly,
// leaving the other-key to the decoder's backoff pass.
func (km *KeyMap) GetBound(seq string) interface{} {
	runes := []rune(seq)
	if len(runes) == 0 {
		return nil
	}
	node := km
	for i, r := range runes {
		b, ok := node.entries[r]
		if !ok {
			if i == len(runes)-1 && r >= 256 {
				return node.other
			}
			return nil
		}
		if i == len(runes)-1 {
			return b
		}
		sub, isMap := b.(*KeyMap)
		if !isMap {
			return nil
		}
		node = sub
	}
	return nil
}
