package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"nickandperla.net/formula/internal/provider"
	"nickandperla.net/formula/internal/token"
	"nickandperla.net/formula/pkg/formula"
)

type keyKind int

const (
	keyRune keyKind = iota
	keyFinalize
	keyBackspace
	keyDelete
	keyLeft
	keyRight
	keyUp
	keyDown
	keyTab
	keyOption
	keyClear
	keyQuit
	keyNone
)

type key struct {
	kind keyKind
	r    rune
}

// readKey decodes one key press from raw terminal input.
func readKey(r *bufio.Reader) (key, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return key{}, err
	}

	switch c {
	case 0x04, 0x03: // Ctrl+D, Ctrl+C
		return key{kind: keyQuit}, nil
	case ' ', '\r', '\n':
		return key{kind: keyFinalize}, nil
	case 0x7f, 0x08: // DEL or BS
		return key{kind: keyBackspace}, nil
	case '\t':
		return key{kind: keyTab}, nil
	case 0x0f: // Ctrl+O
		return key{kind: keyOption}, nil
	case 0x0c: // Ctrl+L
		return key{kind: keyClear}, nil
	case 0x1b:
		return readEscape(r)
	}

	if unicode.IsPrint(c) {
		return key{kind: keyRune, r: c}, nil
	}
	return key{kind: keyNone}, nil
}

// readEscape decodes the rest of an ESC [ or ESC O sequence. A lone ESC,
// with nothing already buffered behind it, is ignored without blocking. Any
// other follow-up byte is left in the reader for the next key.
func readEscape(r *bufio.Reader) (key, error) {
	if r.Buffered() == 0 {
		return key{kind: keyNone}, nil
	}
	b, err := r.ReadByte()
	if err != nil {
		return key{kind: keyNone}, nil
	}
	if b != '[' && b != 'O' {
		_ = r.UnreadByte()
		return key{kind: keyNone}, nil
	}
	intro := b
	if b, err = r.ReadByte(); err != nil {
		return key{kind: keyNone}, nil
	}
	switch b {
	case 'A':
		return key{kind: keyUp}, nil
	case 'B':
		return key{kind: keyDown}, nil
	case 'C':
		return key{kind: keyRight}, nil
	case 'D':
		return key{kind: keyLeft}, nil
	case '3': // Delete: ESC [ 3 ~
		if intro != '[' {
			break
		}
		if t, err := r.ReadByte(); err == nil && t == '~' {
			return key{kind: keyDelete}, nil
		}
	}
	return key{kind: keyNone}, nil
}

// editor is the raw-mode front end of a session. It owns the pending text
// and the dropdown selection; everything else lives in the session.
type editor struct {
	s        *formula.Session
	out      io.Writer
	st       styles
	pending  []rune
	selected int
}

func newEditor(s *formula.Session, out io.Writer, st styles) *editor {
	return &editor{s: s, out: out, st: st}
}

func (e *editor) run(in io.Reader) error {
	fmt.Fprint(e.out, "formula (Ctrl+D to exit)\r\n")
	e.draw()

	r := bufio.NewReader(in)
	for {
		k, err := readKey(r)
		if err == io.EOF {
			e.finish()
			return nil
		}
		if err != nil {
			e.finish()
			return err
		}
		if !e.handle(k) {
			e.finish()
			return nil
		}
		e.draw()
	}
}

// handle applies one key. It returns false when the editor should exit.
func (e *editor) handle(k key) bool {
	switch k.kind {
	case keyQuit:
		return false

	case keyRune:
		e.pending = append(e.pending, k.r)
		e.selected = 0

	case keyFinalize:
		if len(e.pending) > 0 && e.s.Submit(string(e.pending)) {
			e.pending = e.pending[:0]
			e.selected = 0
		}

	case keyBackspace:
		if len(e.pending) > 0 {
			e.pending = e.pending[:len(e.pending)-1]
			e.selected = 0
		} else {
			e.s.Backspace()
		}

	case keyDelete:
		if len(e.pending) == 0 {
			e.s.Remove(e.s.State().Cursor)
		}

	case keyLeft, keyRight:
		if len(e.pending) == 0 {
			delta := 1
			if k.kind == keyLeft {
				delta = -1
			}
			e.s.MoveCursor(delta)
		}

	case keyUp:
		if e.selected > 0 {
			e.selected--
		}

	case keyDown:
		if e.selected < len(e.dropdown())-1 {
			e.selected++
		}

	case keyTab:
		items := e.dropdown()
		if e.selected < len(items) {
			e.s.Pick(items[e.selected])
			e.pending = e.pending[:0]
			e.selected = 0
		}

	case keyOption:
		e.cycleOption()

	case keyClear:
		e.pending = e.pending[:0]
		e.selected = 0
		e.s.Clear()
	}
	return true
}

func (e *editor) dropdown() []provider.Suggestion {
	return e.s.Suggestions(strings.TrimSpace(string(e.pending)))
}

// cycleOption advances the tag before the cursor to its next option.
func (e *editor) cycleOption() {
	state := e.s.State()
	index := state.Cursor - 1
	if index < 0 {
		return
	}
	tag, ok := state.Tokens[index].(token.Tag)
	if !ok {
		return
	}
	options := e.s.TagOptions()
	if len(options) == 0 {
		return
	}
	next := options[(slices.Index(options, tag.Option)+1)%len(options)]
	_ = e.s.SetTagOption(index, next, nil)
}

// draw repaints the formula line and the status line below it, then puts
// the terminal cursor back at the end of the pending text.
func (e *editor) draw() {
	state := e.s.State()
	line, col := e.st.formula(state, string(e.pending))
	status := e.st.resultLine(state.Result)
	if drop := e.st.suggestions(e.dropdown(), e.selected); drop != "" {
		status += "  " + drop
	}

	fmt.Fprintf(e.out, "\r\x1b[K%s\r\n\x1b[K%s\x1b[1A\r", line, status)
	if col > 0 {
		fmt.Fprintf(e.out, "\x1b[%dC", col)
	}
}

func (e *editor) finish() {
	fmt.Fprint(e.out, "\r\n\r\n")
}
