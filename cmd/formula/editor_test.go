package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"nickandperla.net/formula/internal/provider"
	"nickandperla.net/formula/internal/token"
	"nickandperla.net/formula/pkg/formula"
)

func testSession(t *testing.T, opts ...formula.Option) *formula.Session {
	t.Helper()
	items := []provider.Suggestion{
		{ID: "1", Name: "revenue", Category: "finance", Value: provider.NewValue(120)},
		{ID: "2", Name: "rent", Category: "finance", Value: provider.NewValue(30)},
	}
	s := formula.New(append([]formula.Option{formula.WithMockSuggestions(items...)}, opts...)...)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func runKeys(t *testing.T, s *formula.Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := newEditor(s, &out, plainStyles()).run(strings.NewReader(input)); err != nil {
		t.Fatalf("editor: %v", err)
	}
	return out.String()
}

func texts(s *formula.Session) []string {
	var out []string
	for _, tok := range s.State().Tokens {
		out = append(out, tok.String())
	}
	return out
}

func TestReadKey(t *testing.T) {
	tests := []struct {
		input string
		want  key
	}{
		{"a", key{kind: keyRune, r: 'a'}},
		{"%", key{kind: keyRune, r: '%'}},
		{"é", key{kind: keyRune, r: 'é'}},
		{" ", key{kind: keyFinalize}},
		{"\r", key{kind: keyFinalize}},
		{"\x7f", key{kind: keyBackspace}},
		{"\t", key{kind: keyTab}},
		{"\x04", key{kind: keyQuit}},
		{"\x0f", key{kind: keyOption}},
		{"\x0c", key{kind: keyClear}},
		{"\x1b[A", key{kind: keyUp}},
		{"\x1b[B", key{kind: keyDown}},
		{"\x1b[C", key{kind: keyRight}},
		{"\x1b[D", key{kind: keyLeft}},
		{"\x1b[3~", key{kind: keyDelete}},
		{"\x1bOA", key{kind: keyUp}},
		{"\x1bOB", key{kind: keyDown}},
		{"\x1bOC", key{kind: keyRight}},
		{"\x1bOD", key{kind: keyLeft}},
		{"\x1b", key{kind: keyNone}},
		{"\x1bx", key{kind: keyNone}},
		{"\x01", key{kind: keyNone}},
	}

	for _, tt := range tests {
		got, err := readKey(bufio.NewReader(strings.NewReader(tt.input)))
		if err != nil {
			t.Errorf("readKey(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("readKey(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestReadKeyEscapeKeepsFollowingKey(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\x1ba"))
	if got, err := readKey(r); err != nil || got != (key{kind: keyNone}) {
		t.Fatalf("first readKey = %+v, %v; want keyNone", got, err)
	}
	got, err := readKey(r)
	if err != nil {
		t.Fatalf("second readKey error: %v", err)
	}
	if want := (key{kind: keyRune, r: 'a'}); got != want {
		t.Errorf("second readKey = %+v, want %+v", got, want)
	}
}

func TestEditorEscapeBeforeDigit(t *testing.T) {
	s := testSession(t)
	runKeys(t, s, "\x1b7 + 1\r")

	if got := s.Result().String(); got != "8" {
		t.Errorf("result = %q, want 8", got)
	}
}

func TestEditorBuildsFormula(t *testing.T) {
	s := testSession(t)
	out := runKeys(t, s, "( 2 + 3 ) * 4\r")

	if got := s.Result().String(); got != "20" {
		t.Errorf("result = %q, want 20", got)
	}
	if !strings.Contains(out, "= 20") {
		t.Errorf("output missing result:\n%q", out)
	}
}

func TestEditorRejectedFragmentStaysPending(t *testing.T) {
	s := testSession(t)
	runKeys(t, s, "2 bogus ")
	if got := texts(s); len(got) != 1 || got[0] != "2" {
		t.Errorf("tokens = %v, want [2]", got)
	}
}

func TestEditorBackspace(t *testing.T) {
	s := testSession(t)
	// "23" then backspace edits pending text, finalize gives 2.
	runKeys(t, s, "23\x7f + 1 \x7f")
	if got := strings.Join(texts(s), " "); got != "2 +" {
		t.Errorf("tokens = %q, want %q", got, "2 +")
	}
	if s.State().Cursor != 2 {
		t.Errorf("cursor = %d, want 2", s.State().Cursor)
	}
}

func TestEditorCursorMovement(t *testing.T) {
	s := testSession(t)
	// Build "2 3", step left, insert "+".
	runKeys(t, s, "2 3 \x1b[D+ ")
	if got := strings.Join(texts(s), " "); got != "2 + 3" {
		t.Errorf("tokens = %q", got)
	}
	if got := s.Result().String(); got != "5" {
		t.Errorf("result = %q, want 5", got)
	}
}

func TestEditorDelete(t *testing.T) {
	s := testSession(t)
	runKeys(t, s, "1 + 2 \x1b[D\x1b[D\x1b[3~")
	if got := strings.Join(texts(s), " "); got != "1 2" {
		t.Errorf("tokens = %q, want %q", got, "1 2")
	}
	if s.State().Cursor != 1 {
		t.Errorf("cursor = %d, want 1", s.State().Cursor)
	}
}

func TestEditorTabCompletion(t *testing.T) {
	s := testSession(t)
	runKeys(t, s, "re\x1b[B\t/ 3 ")
	if got := strings.Join(texts(s), " "); got != "rent / 3" {
		t.Errorf("tokens = %q", got)
	}
	if got := s.Result().String(); got != "10" {
		t.Errorf("result = %q, want 10", got)
	}

	runKeys(t, s, "\x0cre\t ")
	if got := strings.Join(texts(s), " "); got != "revenue" {
		t.Errorf("tokens after clear = %q", got)
	}
}

func TestEditorCycleOption(t *testing.T) {
	s := testSession(t, formula.WithTagOptions("net", "gross", "tax"))
	runKeys(t, s, "revenue \x0f\x0f")
	tag, ok := s.State().Tokens[0].(token.Tag)
	if !ok {
		t.Fatalf("expected tag, got %T", s.State().Tokens[0])
	}
	if tag.Option != "tax" {
		t.Errorf("option = %q, want tax", tag.Option)
	}

	runKeys(t, s, "\x0f")
	if got := s.State().Tokens[0].(token.Tag).Option; got != "net" {
		t.Errorf("option wraps to %q, want net", got)
	}
}

func TestEditorQuit(t *testing.T) {
	s := testSession(t)
	runKeys(t, s, "1 \x04 2 ")
	if got := texts(s); len(got) != 1 {
		t.Errorf("keys after Ctrl+D were read: %v", got)
	}
}
