// Copyright © 2025 Texline contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: reader.go
// Summary: The line reader: session state, outer read loop, lifecycle.

package texline

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/framegrace/texline/history"
	"github.com/framegrace/texline/keymap"
	"github.com/framegrace/texline/killring"
	"github.com/framegrace/texline/term"
)

// TabWidth is the fixed tab stop interval used for display.
const TabWidth = 8

// BlinkMatchingParenTimeout bounds how long insert-close waits on the
// matching bracket before jumping back.
const BlinkMatchingParenTimeout = 500 * time.Millisecond

// copyPasteDetectionTimeout is how quickly a character must follow a TAB
// for the TAB to be treated as pasted literal input.
const copyPasteDetectionTimeout = 50 * time.Millisecond

// readerState is the dispatch state machine's mode.
type readerState int

const (
	stateNormal readerState = iota
	stateSearch
	stateForwardSearch
	stateViYankTo
	stateViDeleteTo
	stateViChangeTo
	stateDone
	stateEOF
	stateInterrupt
)

// Reader reads logical lines from a terminal with editing, history and
// completion. It is not safe for concurrent use; History and the kill
// ring may be swapped by the caller between ReadLine calls but never
// during one.
type Reader struct {
	console Terminal
	appName string
	inputrc string
	keys    *keymap.Keys

	variables map[string]string
	messages  map[string]string

	hist              history.History
	killRing          *killring.Ring
	completers        []Completer
	completionHandler CompletionHandler
	highlighter       Highlighter
	clipboard         Clipboard

	buf  *Buffer
	size term.Size

	prompt    string
	promptLen int
	mask      *rune

	originalBuffer     *Buffer
	searchTerm         []rune
	hasSearchTerm      bool
	previousSearchTerm string
	searchIndex        int
	discardedSearchOp  bool

	opBuffer []rune
	pushBack []rune

	charSearchChar        rune
	charSearchLastInvoke  rune
	charSearchFirstInvoke rune

	yankBuffer string

	quotedInsert bool
	recording    bool
	macro        []rune

	state         readerState
	previousState readerState

	originalPrompt string

	oldBuf     string
	oldColumns int
	oldPrompt  string
	oldPost    []string
	post       []string

	cursorPos int

	dispatcher map[keymap.Operation]Widget

	count       int
	repeatCount int
	isArgDigit  bool
}

// New builds a reader over the given terminal port with the stock key
// maps, an in-memory history and a default kill ring. The user's
// ~/.inputrc (or /etc/inputrc) is applied when present.
func New(console Terminal, appName string) *Reader {
	r := &Reader{
		console:   console,
		appName:   appName,
		keys:      keymap.NewKeys(),
		variables: make(map[string]string),
		messages:  make(map[string]string),
		hist:      history.NewMemory(),
		killRing:  killring.New(0),
		buf:       NewBuffer(),
	}
	if r.appName == "" {
		r.appName = "texline"
	}
	r.inputrc = defaultInputrcPath()
	if err := r.keys.LoadInputrcFile(r.inputrc, r.appName); err != nil {
		log.Printf("Reader: inputrc load failed: %v", err)
	}
	if r.getBoolean(VarBindTtySpecialChars, true) {
		sc := console.SpecialChars()
		bindSpecialChars(r.keys.Get(keymap.EmacsName), sc)
		bindSpecialChars(r.keys.Get(keymap.ViInsertName), sc)
	}
	r.dispatcher = newDispatcher()
	r.applyBlinkParen()
	return r
}

// Open is a convenience constructor over the process tty.
func Open(appName string) (*Reader, error) {
	t, err := term.Open(nil, nil)
	if err != nil {
		return nil, err
	}
	return New(t, appName), nil
}

func defaultInputrcPath() string {
	if env := os.Getenv("INPUTRC"); env != "" {
		return env
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".inputrc")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "/etc/inputrc"
}

// bindSpecialChars rebinds the tty-defined control characters over the
// stock defaults: the default key falls back to self-insert and the tty
// character takes the operation.
func bindSpecialChars(km *keymap.KeyMap, sc term.SpecialChars) {
	if km == nil {
		return
	}
	rebind(km, keymap.BackwardDeleteChar, 127, sc.Erase)
	rebind(km, keymap.UnixWordRubout, 23, sc.WordErase)
	rebind(km, keymap.UnixLineDiscard, 21, sc.Kill)
	rebind(km, keymap.QuotedInsert, 22, sc.LiteralNext)
}

func rebind(km *keymap.KeyMap, op keymap.Operation, prev, next rune) {
	if prev <= 0 || prev > 255 || next <= 0 || next >= 256 || next == prev {
		return
	}
	if km.GetBound(string(prev)) != op {
		return
	}
	km.Bind(string(prev), keymap.SelfInsert)
	km.Bind(string(next), op)
}

// applyBlinkParen binds the closing brackets to the blinking insert-close
// widgets when blink-matching-paren is on.
func (r *Reader) applyBlinkParen() {
	if !r.getBoolean(VarBlinkMatchingParen, false) {
		return
	}
	for _, name := range []string{keymap.EmacsName, keymap.ViInsertName} {
		if km := r.keys.Get(name); km != nil {
			km.Bind(")", keymap.InsertCloseParen)
			km.Bind("]", keymap.InsertCloseSquare)
			km.Bind("}", keymap.InsertCloseCurly)
		}
	}
}

//
// Accessors
//

// History returns the backing history store.
func (r *Reader) History() history.History { return r.hist }

// SetHistory swaps the history store.
func (r *Reader) SetHistory(h history.History) {
	if h != nil {
		r.hist = h
	}
}

// KillRing returns the kill ring.
func (r *Reader) KillRing() *killring.Ring { return r.killRing }

// SetKillRing swaps the kill ring.
func (r *Reader) SetKillRing(k *killring.Ring) {
	if k != nil {
		r.killRing = k
	}
}

// Highlighter returns the display highlighter, possibly nil.
func (r *Reader) Highlighter() Highlighter { return r.highlighter }

// SetHighlighter installs a display highlighter (nil to disable).
func (r *Reader) SetHighlighter(h Highlighter) { r.highlighter = h }

// SetClipboard installs the paste source (nil to disable pasting).
func (r *Reader) SetClipboard(c Clipboard) { r.clipboard = c }

// AddCompleter appends a completion source.
func (r *Reader) AddCompleter(c Completer) {
	r.completers = append(r.completers, c)
}

// RemoveCompleter removes a previously added completion source.
func (r *Reader) RemoveCompleter(c Completer) bool {
	for i, x := range r.completers {
		if x == c {
			r.completers = append(r.completers[:i], r.completers[i+1:]...)
			return true
		}
	}
	return false
}

// SetCompleters replaces all completion sources.
func (r *Reader) SetCompleters(cs []Completer) {
	r.completers = append([]Completer(nil), cs...)
}

// SetCompletionHandler replaces the candidate application strategy.
func (r *Reader) SetCompletionHandler(h CompletionHandler) {
	r.completionHandler = h
}

// KeyMapName reports the active key map ("emacs", "vi-insert", "vi-move").
func (r *Reader) KeyMapName() string { return r.keys.Current().Name() }

// SetKeyMap selects a key map by name, reporting whether it exists.
func (r *Reader) SetKeyMap(name string) bool { return r.keys.SetKeyMap(name) }

// Keys exposes the key map registry for custom binding.
func (r *Reader) Keys() *keymap.Keys { return r.keys }

// AddTriggeredAction binds a widget to a single code point in the active
// key map.
func (r *Reader) AddTriggeredAction(c rune, w Widget) {
	r.keys.Current().Bind(string(c), w)
}

// Buffer exposes the edit buffer (read-only use by widgets and tests).
func (r *Reader) Buffer() *Buffer { return r.buf }

// LastBinding returns the key sequence that produced the current binding.
func (r *Reader) LastBinding() string { return string(r.opBuffer) }

//
// Line reading
//

// ReadLine reads one edited line, blocking until accept, EOF or
// interrupt.
func (r *Reader) ReadLine(prompt string) (string, error) {
	return r.readLine(prompt, nil, "")
}

// ReadLineMasked reads a line echoing mask for each typed character; a
// zero mask suppresses echo entirely. Masked lines never enter history.
func (r *Reader) ReadLineMasked(prompt string, mask rune) (string, error) {
	return r.readLine(prompt, &mask, "")
}

// ReadLineWithInitial reads a line starting from pre-filled content.
func (r *Reader) ReadLineWithInitial(prompt, initial string) (string, error) {
	return r.readLine(prompt, nil, initial)
}

func (r *Reader) readLine(prompt string, mask *rune, initial string) (string, error) {
	prevInt := r.console.OnSignal(term.SigInt, func() {
		r.console.Interrupt()
	})
	prevWinch := r.console.OnSignal(term.SigWinch, func() {
		r.size = r.console.Size()
		r.redisplay()
		r.console.Flush()
	})
	prevCont := r.console.OnSignal(term.SigCont, func() {
		if _, err := r.console.EnterRaw(); err != nil {
			log.Printf("Reader: re-enter raw mode after SIGCONT: %v", err)
		}
		r.redrawLine()
		r.redisplay()
		r.console.Flush()
	})
	restoreSignals := func() {
		r.console.OnSignal(term.SigInt, prevInt)
		r.console.OnSignal(term.SigWinch, prevWinch)
		r.console.OnSignal(term.SigCont, prevCont)
	}

	attrs, err := r.console.EnterRaw()
	if err != nil {
		restoreSignals()
		return "", err
	}
	defer func() {
		r.cleanup()
		if rerr := r.console.Restore(attrs); rerr != nil {
			log.Printf("Reader: restore terminal: %v", rerr)
		}
		restoreSignals()
	}()

	r.mask = mask
	r.repeatCount = 0
	r.state = stateNormal
	r.pushBack = r.pushBack[:0]
	r.size = r.console.Size()
	r.cursorPos = 0

	r.setPrompt(prompt)
	r.originalPrompt = r.prompt
	r.buf.Clear()
	r.buf.SetOvertype(false)
	if initial != "" {
		r.buf.Write(initial)
	}

	r.redrawLine()
	r.redisplay()
	r.console.Flush()

	for {
		o, err := r.readBinding(r.keys.Current())
		if err != nil {
			if errors.Is(err, term.ErrInterrupted) {
				return "", &UserInterruptError{Partial: r.buf.String()}
			}
			if errors.Is(err, io.EOF) {
				return "", ErrEndOfFile
			}
			return "", err
		}

		var c rune
		if len(r.opBuffer) > 0 {
			c = r.opBuffer[len(r.opBuffer)-1]
		}

		// Macro: replay as input.
		if macro, ok := o.(string); ok {
			mr := []rune(macro)
			for i := len(mr) - 1; i >= 0; i-- {
				r.pushBack = append(r.pushBack, mr[i])
			}
			r.opBuffer = r.opBuffer[:0]
			continue
		}

		// Caller-supplied widget: apply directly.
		if w, ok := o.(Widget); ok {
			w(r)
			r.opBuffer = r.opBuffer[:0]
			r.redisplay()
			r.console.Flush()
			continue
		}

		// Cache the size for the duration of this binding.
		r.size = r.console.Size()

		op, ok := o.(keymap.Operation)
		if !ok {
			r.beep()
			r.opBuffer = r.opBuffer[:0]
			continue
		}
		if r.state == stateSearch || r.state == stateForwardSearch {
			r.dispatchSearch(op, c)
		}
		if r.state != stateSearch && r.state != stateForwardSearch {
			done, result, err := r.dispatchNormal(op)
			if done {
				return result, err
			}
		}

		r.redisplay()
		r.console.Flush()
		r.opBuffer = r.opBuffer[:0]
	}
}

// setPrompt records the prompt and the display width of its last line.
func (r *Reader) setPrompt(prompt string) {
	r.prompt = prompt
	r.promptLen = r.wcwidthStr(lastLine(stripAnsi(prompt)), 0)
}

// lastLine returns the text after the final newline.
func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// finishBuffer expands events, appends to history and returns the
// accepted line.
func (r *Reader) finishBuffer() (string, error) {
	str := r.buf.String()
	historyLine := str

	if !r.getBoolean(VarDisableEventExpansion, false) {
		expanded, err := r.ExpandEvents(str)
		if err != nil {
			var notFound *EventNotFoundError
			if !errors.As(err, &notFound) {
				return "", err
			}
			r.beep()
			r.buf.Clear()
			return "", nil
		}
		str = expanded
		// Post-expansion '!' were all escaped, so re-escape for the
		// history copy; same for a leading '^'.
		historyLine = strings.ReplaceAll(str, "!", "\\!")
		if strings.HasPrefix(historyLine, "^") {
			historyLine = "\\" + historyLine
		}
	}

	if len(str) > 0 && r.mask == nil && !r.getBoolean(VarDisableHistory, false) {
		r.hist.Add(historyLine)
	}
	return str, nil
}

// cleanup runs on every exit path: park the cursor at the end of the
// line, drop any post display, emit a newline and reset the history
// cursor.
func (r *Reader) cleanup() {
	r.endOfLine()
	r.post = nil
	r.redisplay()
	r.println()
	r.console.Flush()
	r.hist.MoveToEnd()
}

// moveHistory moves the recall cursor and loads the entry into the
// buffer.
func (r *Reader) moveHistory(next bool) bool {
	if next {
		if !r.hist.Next() {
			return false
		}
	} else if !r.hist.Previous() {
		return false
	}
	r.setBuffer(r.hist.Current())
	return true
}

func (r *Reader) moveHistoryN(next bool, count int) bool {
	for i := 0; i < count; i++ {
		if !r.moveHistory(next) {
			return false
		}
	}
	return true
}

// setBuffer replaces the buffer contents, leaving the cursor at the end.
// Contents equal to the current ones leave the cursor where it is.
func (r *Reader) setBuffer(s string) {
	if s == r.buf.String() {
		return
	}
	r.buf.Clear()
	r.buf.Write(s)
}

// setBufferKeepPos replaces the contents but preserves the cursor.
func (r *Reader) setBufferKeepPos(s string) {
	pos := r.buf.Cursor()
	r.setBuffer(s)
	if pos < r.buf.Len() {
		r.buf.cursor = pos
	}
}

// setCursorPosition moves the buffer cursor to an absolute index.
func (r *Reader) setCursorPosition(pos int) bool {
	if pos == r.buf.Cursor() {
		return true
	}
	return r.buf.Move(pos-r.buf.Cursor()) != 0
}
