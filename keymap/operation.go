// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: keymap/operation.go
// Summary: The closed set of editor operations key sequences can bind to.

package keymap

// Operation tags a named edit action. The dispatcher resolves each tag to
// a widget; inputrc files refer to tags by their readline name.
type Operation int

const (
	Abort Operation = iota
	AcceptLine
	BackwardChar
	BackwardDeleteChar
	BackwardKillWord
	BackwardWord
	BeginningOfHistory
	BeginningOfLine
	CallLastKbdMacro
	CapitalizeWord
	ClearScreen
	Complete
	DeleteChar
	DoLowercaseVersion
	DowncaseWord
	EmacsEditingMode
	EndKbdMacro
	EndOfHistory
	EndOfLine
	ExitOrDeleteChar
	ForwardChar
	ForwardSearchHistory
	ForwardWord
	HistorySearchBackward
	HistorySearchForward
	InsertCloseCurly
	InsertCloseParen
	InsertCloseSquare
	InsertComment
	Interrupt
	KillLine
	KillWholeLine
	KillWord
	NextHistory
	OverwriteMode
	PasteFromClipboard
	PossibleCompletions
	PreviousHistory
	Quit
	QuotedInsert
	ReReadInitFile
	ReverseSearchHistory
	SelfInsert
	StartKbdMacro
	TabInsert
	TransposeChars
	UnixLineDiscard
	UnixWordRubout
	UpcaseWord
	ViAppendEol
	ViAppendMode
	ViArgDigit
	ViBeginningOfLineOrArgDigit
	ViChangeCase
	ViChangeChar
	ViChangeTo
	ViChangeToEol
	ViCharSearch
	ViColumn
	ViDelete
	ViDeleteTo
	ViDeleteToEol
	ViEditingMode
	ViEndWord
	ViEofMaybe
	ViFirstPrint
	ViGotoMark
	ViInsertBeg
	ViInsertComment
	ViInsertionMode
	ViKillWholeLine
	ViMatch
	ViMoveAcceptLine
	ViMovementMode
	ViNextHistory
	ViNextWord
	ViPrevWord
	ViPreviousHistory
	ViPut
	ViRubout
	ViSearch
	ViYankTo
	Yank
	YankPop
)

var opNames = map[Operation]string{
	Abort:                       "abort",
	AcceptLine:                  "accept-line",
	BackwardChar:                "backward-char",
	BackwardDeleteChar:          "backward-delete-char",
	BackwardKillWord:            "backward-kill-word",
	BackwardWord:                "backward-word",
	BeginningOfHistory:          "beginning-of-history",
	BeginningOfLine:             "beginning-of-line",
	CallLastKbdMacro:            "call-last-kbd-macro",
	CapitalizeWord:              "capitalize-word",
	ClearScreen:                 "clear-screen",
	Complete:                    "complete",
	DeleteChar:                  "delete-char",
	DoLowercaseVersion:          "do-lowercase-version",
	DowncaseWord:                "downcase-word",
	EmacsEditingMode:            "emacs-editing-mode",
	EndKbdMacro:                 "end-kbd-macro",
	EndOfHistory:                "end-of-history",
	EndOfLine:                   "end-of-line",
	ExitOrDeleteChar:            "exit-or-delete-char",
	ForwardChar:                 "forward-char",
	ForwardSearchHistory:        "forward-search-history",
	ForwardWord:                 "forward-word",
	HistorySearchBackward:       "history-search-backward",
	HistorySearchForward:        "history-search-forward",
	InsertCloseCurly:            "insert-close-curly",
	InsertCloseParen:            "insert-close-paren",
	InsertCloseSquare:           "insert-close-square",
	InsertComment:               "insert-comment",
	Interrupt:                   "interrupt",
	KillLine:                    "kill-line",
	KillWholeLine:               "kill-whole-line",
	KillWord:                    "kill-word",
	NextHistory:                 "next-history",
	OverwriteMode:               "overwrite-mode",
	PasteFromClipboard:          "paste-from-clipboard",
	PossibleCompletions:         "possible-completions",
	PreviousHistory:             "previous-history",
	Quit:                        "quit",
	QuotedInsert:                "quoted-insert",
	ReReadInitFile:              "re-read-init-file",
	ReverseSearchHistory:        "reverse-search-history",
	SelfInsert:                  "self-insert",
	StartKbdMacro:               "start-kbd-macro",
	TabInsert:                   "tab-insert",
	TransposeChars:              "transpose-chars",
	UnixLineDiscard:             "unix-line-discard",
	UnixWordRubout:              "unix-word-rubout",
	UpcaseWord:                  "upcase-word",
	ViAppendEol:                 "vi-append-eol",
	ViAppendMode:                "vi-append-mode",
	ViArgDigit:                  "vi-arg-digit",
	ViBeginningOfLineOrArgDigit: "vi-beginning-of-line-or-arg-digit",
	ViChangeCase:                "vi-change-case",
	ViChangeChar:                "vi-change-char",
	ViChangeTo:                  "vi-change-to",
	ViChangeToEol:               "vi-change-to-eol",
	ViCharSearch:                "vi-char-search",
	ViColumn:                    "vi-column",
	ViDelete:                    "vi-delete",
	ViDeleteTo:                  "vi-delete-to",
	ViDeleteToEol:               "vi-delete-to-eol",
	ViEditingMode:               "vi-editing-mode",
	ViEndWord:                   "vi-end-word",
	ViEofMaybe:                  "vi-eof-maybe",
	ViFirstPrint:                "vi-first-print",
	ViGotoMark:                  "vi-goto-mark",
	ViInsertBeg:                 "vi-insert-beg",
	ViInsertComment:             "vi-insert-comment",
	ViInsertionMode:             "vi-insertion-mode",
	ViKillWholeLine:             "vi-kill-whole-line",
	ViMatch:                     "vi-match",
	ViMoveAcceptLine:            "vi-move-accept-line",
	ViMovementMode:              "vi-movement-mode",
	ViNextHistory:               "vi-next-history",
	ViNextWord:                  "vi-next-word",
	ViPrevWord:                  "vi-prev-word",
	ViPreviousHistory:           "vi-previous-history",
	ViPut:                       "vi-put",
	ViRubout:                    "vi-rubout",
	ViSearch:                    "vi-search",
	ViYankTo:                    "vi-yank-to",
	Yank:                        "yank",
	YankPop:                     "yank-pop",
}

var opsByName map[string]Operation

func init() {
	opsByName = make(map[string]Operation, len(opNames))
	for op, name := range opNames {
		opsByName[name] = op
	}
	// Aliases bash documents for the same operations.
	opsByName["backward-kill-line"] = UnixLineDiscard
	opsByName["beginning-of-line-hist"] = BeginningOfHistory
	opsByName["vi-movement-mode"] = ViMovementMode
	opsByName["vi-cmd-mode"] = ViMovementMode
	opsByName["vi-editing-mode"] = ViEditingMode
	opsByName["non-incremental-reverse-search-history"] = HistorySearchBackward
	opsByName["non-incremental-forward-search-history"] = HistorySearchForward
}

func (op Operation) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "unknown-operation"
}

// OperationByName resolves a readline operation name.
func OperationByName(name string) (Operation, bool) {
	op, ok := opsByName[name]
	return op, ok
}
