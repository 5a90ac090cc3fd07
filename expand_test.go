// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package texline

import (
	"errors"
	"testing"

	"github.com/framegrace/texline/term/termtest"
)

func expandReader(t *testing.T, lines ...string) *Reader {
	t.Helper()
	r := newTestReader(t, termtest.New(80, 24))
	for _, l := range lines {
		r.History().Add(l)
	}
	return r
}

func TestExpandPreviousEntry(t *testing.T) {
	r := expandReader(t, "echo foo")
	got, err := r.ExpandEvents("!!")
	if err != nil || got != "echo foo" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestExpandLastWord(t *testing.T) {
	r := expandReader(t, "cp a.txt b.txt")
	got, err := r.ExpandEvents("cat !$")
	if err != nil || got != "cat b.txt" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestExpandAbsoluteAndRelative(t *testing.T) {
	r := expandReader(t, "first", "second", "third")
	got, err := r.ExpandEvents("!1")
	if err != nil || got != "first" {
		t.Fatalf("!1 = %q err %v", got, err)
	}
	got, err = r.ExpandEvents("!-1")
	if err != nil || got != "third" {
		t.Fatalf("!-1 = %q err %v", got, err)
	}
	got, err = r.ExpandEvents("!-3")
	if err != nil || got != "first" {
		t.Fatalf("!-3 = %q err %v", got, err)
	}
}

func TestExpandOutOfRange(t *testing.T) {
	r := expandReader(t, "only")
	if _, err := r.ExpandEvents("!9"); err == nil {
		t.Fatal("expected event-not-found")
	}
	var notFound *EventNotFoundError
	_, err := r.ExpandEvents("!-5")
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want EventNotFoundError", err)
	}
}

func TestExpandSubstringSearch(t *testing.T) {
	r := expandReader(t, "make build", "make test", "ls")
	got, err := r.ExpandEvents("!?test?")
	if err != nil || got != "make test" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestExpandPrefixSearch(t *testing.T) {
	r := expandReader(t, "git status", "ls -la")
	got, err := r.ExpandEvents("!git")
	if err != nil || got != "git status" {
		t.Fatalf("got %q err %v", got, err)
	}
	if _, err := r.ExpandEvents("!nope"); err == nil {
		t.Fatal("expected event-not-found for unknown prefix")
	}
}

func TestExpandCaretSubstitution(t *testing.T) {
	r := expandReader(t, "echo aaa")
	got, err := r.ExpandEvents("^aaa^bbb^")
	if err != nil || got != "echo bbb" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestExpandEscapes(t *testing.T) {
	r := expandReader(t, "prev")
	got, err := r.ExpandEvents(`\!\!`)
	if err != nil || got != "!!" {
		t.Fatalf("escaped bang = %q err %v", got, err)
	}
	got, err = r.ExpandEvents(`\^a^b^`)
	if err != nil || got != "^a^b^" {
		t.Fatalf("escaped caret = %q err %v", got, err)
	}
}

func TestExpandBangSpaceLiteral(t *testing.T) {
	r := expandReader(t, "prev")
	got, err := r.ExpandEvents("a ! b")
	if err != nil || got != "a ! b" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestExpandHashRepeatsLine(t *testing.T) {
	r := expandReader(t)
	got, err := r.ExpandEvents("ab!#")
	if err != nil || got != "abab" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestExpandIdempotentWithoutDesignators(t *testing.T) {
	r := expandReader(t, "prev")
	for _, s := range []string{"plain text", "trailing bang!", "mid^caret"} {
		got, err := r.ExpandEvents(s)
		if err != nil || got != s {
			t.Fatalf("%q expanded to %q err %v", s, got, err)
		}
	}
}
