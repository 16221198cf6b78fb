package scanner

import (
	"errors"
	"testing"

	"nickandperla.net/formula/internal/expr"
)

func TestTerms(t *testing.T) {
	terms, err := Terms("(2+3.5) * 10% ^2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []expr.Term{
		expr.Op{Symbol: "("},
		expr.Num{Value: 2},
		expr.Op{Symbol: "+"},
		expr.Num{Value: 3.5},
		expr.Op{Symbol: ")"},
		expr.Op{Symbol: "*"},
		expr.Num{Value: 0.1},
		expr.Op{Symbol: "^"},
		expr.Num{Value: 2},
	}
	if len(terms) != len(want) {
		t.Fatalf("expected %d terms, got %d: %v", len(want), len(terms), terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("term %d: expected %v, got %v", i, want[i], terms[i])
		}
	}
}

func TestPositions(t *testing.T) {
	items, err := NewFromString("  12 +  3").All()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cols := []int{3, 6, 9}
	if len(items) != len(cols) {
		t.Fatalf("expected %d items, got %d", len(cols), len(items))
	}
	for i, c := range cols {
		if items[i].Col != c {
			t.Errorf("item %d: expected col %d, got %d", i, c, items[i].Col)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	terms, err := Terms("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terms) != 0 {
		t.Errorf("expected no terms, got %v", terms)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		in   string
		col  int
		text string
	}{
		{"2 + x", 5, "x"},
		{"1..2", 1, "1..2"},
		{"3 % 4", 3, "%"},
		{"2 + .5", 5, "."},
		{"10%%", 1, "10%%"},
	}
	for _, tt := range tests {
		_, err := Terms(tt.in)
		var se *Error
		if !errors.As(err, &se) {
			t.Errorf("Terms(%q) error = %v, want *Error", tt.in, err)
			continue
		}
		if se.Col != tt.col || se.Text != tt.text {
			t.Errorf("Terms(%q) error = col %d %q, want col %d %q", tt.in, se.Col, se.Text, tt.col, tt.text)
		}
	}
}
