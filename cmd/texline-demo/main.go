// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texline-demo/main.go
// Summary: Small REPL exercising the line editor end to end.

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	texline "github.com/framegrace/texline"
	"github.com/framegrace/texline/completer"
	"github.com/framegrace/texline/highlight"
	"github.com/framegrace/texline/history"
	"github.com/framegrace/texline/term"
)

func main() {
	prompt := flag.String("prompt", "texline> ", "prompt string")
	vi := flag.Bool("vi", false, "start in vi editing mode")
	mask := flag.String("mask", "", "mask character ('' echoes normally)")
	histFile := flag.String("history", "", "SQLite history file (empty keeps history in memory)")
	lang := flag.String("highlight", "", "highlight language (empty autodetects, 'off' disables)")
	style := flag.String("style", "", "chroma style name")
	words := flag.String("words", "", "comma separated tab-completion words")
	flag.Parse()

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		log.Fatal("texline-demo: stdin is not a terminal")
	}

	tty, err := term.Open(nil, nil)
	if err != nil {
		log.Fatalf("texline-demo: %v", err)
	}
	defer tty.Close()

	reader := texline.New(tty, "texline-demo")
	if *vi {
		reader.SetKeyMap("vi-insert")
	}
	if *lang != "off" {
		reader.SetHighlighter(highlight.New(*lang, *style))
	}
	if *words != "" {
		reader.AddCompleter(completer.NewArgument(
			completer.NewStrings(strings.Split(*words, ",")...)))
	}
	if *histFile != "" {
		h, err := history.OpenSQLite(*histFile, 0)
		if err != nil {
			log.Fatalf("texline-demo: %v", err)
		}
		defer h.Close()
		reader.SetHistory(h)
	}

	for {
		var line string
		var err error
		if *mask != "" {
			reader.SetHighlighter(nil)
			line, err = reader.ReadLineMasked(*prompt, []rune(*mask)[0])
		} else {
			line, err = reader.ReadLine(*prompt)
		}
		switch {
		case err == nil:
			fmt.Printf("=> %q\n", line)
		case errors.Is(err, texline.ErrEndOfFile):
			return
		default:
			var interrupt *texline.UserInterruptError
			if errors.As(err, &interrupt) {
				fmt.Println("^C")
				continue
			}
			log.Fatalf("texline-demo: %v", err)
		}
	}
}
