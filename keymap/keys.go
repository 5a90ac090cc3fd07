// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: keymap/keys.go
// Summary: Named key map registry with the inputrc variable store.

package keymap

// Keys owns the named key maps, the currently selected map, and the
// variables assigned by an inputrc file.
type Keys struct {
	maps    map[string]*KeyMap
	current *KeyMap
	vars    map[string]string
}

// NewKeys builds the registry with the three stock maps, starting on
// emacs; setting the editing-mode variable later switches maps.
func NewKeys() *Keys {
	k := &Keys{
		maps: map[string]*KeyMap{
			EmacsName:    Emacs(),
			ViInsertName: ViInsert(),
			ViMoveName:   ViMove(),
		},
		vars: make(map[string]string),
	}
	k.current = k.maps[EmacsName]
	return k
}

// Current returns the selected key map.
func (k *Keys) Current() *KeyMap { return k.current }

// Get returns a map by name, or nil.
func (k *Keys) Get(name string) *KeyMap { return k.maps[name] }

// SetKeyMap selects the named map, reporting whether it exists. The "vi"
// alias selects vi-insert, matching readline's editing-mode values.
func (k *Keys) SetKeyMap(name string) bool {
	if name == "vi" {
		name = ViInsertName
	}
	m, ok := k.maps[name]
	if !ok {
		return false
	}
	k.current = m
	return true
}

// Variable returns an inputrc variable value, or "" when unset.
func (k *Keys) Variable(name string) string { return k.vars[name] }

// SetVariable stores an inputrc variable.
func (k *Keys) SetVariable(name, value string) {
	if name == "editing-mode" {
		k.SetKeyMap(value)
	}
	k.vars[name] = value
}
