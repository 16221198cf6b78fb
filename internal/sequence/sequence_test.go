package sequence

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nickandperla.net/formula/internal/token"
)

func num(s string) token.Token { return token.Number{Raw: s} }
func op(s string) token.Token  { return token.Operator{Symbol: s} }

func texts(s *Sequence) []string {
	out := make([]string, s.Len())
	for i, tok := range s.Tokens() {
		out[i] = tok.String()
	}
	return out
}

func build(items ...token.Token) *Sequence {
	s := New()
	for _, it := range items {
		s.Append(it)
	}
	return s
}

func TestEmpty(t *testing.T) {
	s := New()
	if s.Len() != 0 || s.Cursor() != 0 {
		t.Fatalf("expected empty sequence at cursor 0, got len=%d cursor=%d", s.Len(), s.Cursor())
	}
	if s.At(0) != nil {
		t.Error("At on empty sequence should be nil")
	}
	if s.Backspace() {
		t.Error("Backspace on empty sequence should be a no-op")
	}
}

func TestAppendAdvancesCursor(t *testing.T) {
	s := build(num("2"), op("+"), num("3"))
	if diff := cmp.Diff([]string{"2", "+", "3"}, texts(s)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if s.Cursor() != 3 {
		t.Errorf("expected cursor 3, got %d", s.Cursor())
	}
}

func TestInsertClamps(t *testing.T) {
	s := build(num("1"), num("2"))

	s.Insert(op("("), -5)
	if diff := cmp.Diff([]string{"(", "1", "2"}, texts(s)); diff != "" {
		t.Errorf("negative index (-want +got):\n%s", diff)
	}
	if s.Cursor() != 1 {
		t.Errorf("expected cursor 1, got %d", s.Cursor())
	}

	s.Insert(op(")"), 100)
	if diff := cmp.Diff([]string{"(", "1", "2", ")"}, texts(s)); diff != "" {
		t.Errorf("large index (-want +got):\n%s", diff)
	}
	if s.Cursor() != 4 {
		t.Errorf("expected cursor 4, got %d", s.Cursor())
	}
}

func TestInsertAtCursor(t *testing.T) {
	s := build(num("2"), num("3"))
	s.SetCursor(1)
	s.InsertAtCursor(op("+"))
	if diff := cmp.Diff([]string{"2", "+", "3"}, texts(s)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if s.Cursor() != 2 {
		t.Errorf("expected cursor 2, got %d", s.Cursor())
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	s := build(num("1"), num("2"))
	for _, i := range []int{-1, 2, 99} {
		if s.RemoveAt(i) {
			t.Errorf("RemoveAt(%d) reported removal", i)
		}
	}
	if s.Len() != 2 || s.Cursor() != 2 {
		t.Errorf("sequence changed: len=%d cursor=%d", s.Len(), s.Cursor())
	}
}

func TestRemoveCursorRule(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		remove     int
		wantCursor int
	}{
		{"before cursor", 2, 0, 1},
		{"immediately before cursor", 2, 1, 1},
		{"at cursor", 2, 2, 2},
		{"after cursor", 1, 3, 1},
		{"at end", 4, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := build(num("1"), op("+"), num("2"), op("*"))
			s.SetCursor(tt.cursor)
			if !s.RemoveAt(tt.remove) {
				t.Fatal("expected removal")
			}
			if s.Cursor() != tt.wantCursor {
				t.Errorf("expected cursor %d, got %d", tt.wantCursor, s.Cursor())
			}
		})
	}
}

func TestBackspace(t *testing.T) {
	s := build(num("1"), op("+"), num("2"))
	s.SetCursor(2)
	if !s.Backspace() {
		t.Fatal("expected removal")
	}
	if diff := cmp.Diff([]string{"1", "2"}, texts(s)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if s.Cursor() != 1 {
		t.Errorf("expected cursor 1, got %d", s.Cursor())
	}

	s.SetCursor(0)
	if s.Backspace() {
		t.Error("Backspace at cursor 0 should be a no-op")
	}
}

func TestReplaceAt(t *testing.T) {
	s := build(num("1"), op("+"), num("2"))
	s.SetCursor(1)
	if !s.ReplaceAt(1, op("*")) {
		t.Fatal("expected replacement")
	}
	if diff := cmp.Diff([]string{"1", "*", "2"}, texts(s)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if s.Cursor() != 1 {
		t.Errorf("cursor moved: %d", s.Cursor())
	}
	if s.ReplaceAt(3, num("9")) || s.ReplaceAt(-1, num("9")) {
		t.Error("out-of-range replace should be a no-op")
	}
}

func TestSelectAndMove(t *testing.T) {
	s := build(num("1"), op("+"), num("2"))
	s.SelectToken(0)
	if s.Cursor() != 1 {
		t.Errorf("expected cursor 1 after selecting token 0, got %d", s.Cursor())
	}
	s.MoveCursor(-5)
	if s.Cursor() != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", s.Cursor())
	}
	s.MoveCursor(10)
	if s.Cursor() != 3 {
		t.Errorf("expected cursor clamped to 3, got %d", s.Cursor())
	}
	s.SetCursor(1)
	s.CursorEnd()
	if s.Cursor() != 3 {
		t.Errorf("expected cursor at end, got %d", s.Cursor())
	}
}

func TestTokensIsCopy(t *testing.T) {
	s := build(num("1"))
	toks := s.Tokens()
	toks[0] = num("9")
	if s.At(0).String() != "1" {
		t.Error("mutating Tokens() result changed the sequence")
	}
}

func TestInsertThenRemoveRestores(t *testing.T) {
	base := []token.Token{num("1"), op("+"), num("2"), op("*"), num("3")}
	for i := 0; i <= len(base); i++ {
		s := build(base...)
		before := texts(s)
		s.Insert(op("^"), i)
		s.RemoveAt(i)
		if diff := cmp.Diff(before, texts(s)); diff != "" {
			t.Errorf("insert/remove at %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestReset(t *testing.T) {
	s := build(num("1"), num("2"))
	s.Reset()
	if s.Len() != 0 || s.Cursor() != 0 {
		t.Errorf("expected empty after reset, got len=%d cursor=%d", s.Len(), s.Cursor())
	}
}

func TestCursorInvariantRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New()
	for step := 0; step < 2000; step++ {
		switch rng.Intn(7) {
		case 0:
			s.Insert(num("1"), rng.Intn(s.Len()+3)-1)
		case 1:
			s.InsertAtCursor(op("+"))
		case 2:
			s.RemoveAt(rng.Intn(s.Len()+2) - 1)
		case 3:
			s.Backspace()
		case 4:
			s.ReplaceAt(rng.Intn(s.Len()+1), op("-"))
		case 5:
			s.MoveCursor(rng.Intn(5) - 2)
		case 6:
			s.SelectToken(rng.Intn(s.Len()+2) - 1)
		}
		if c := s.Cursor(); c < 0 || c > s.Len() {
			t.Fatalf("step %d: cursor %d outside [0, %d]", step, c, s.Len())
		}
	}
}
