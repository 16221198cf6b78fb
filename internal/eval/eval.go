// Package eval reduces formula token sequences to a numeric result.
package eval

import (
	"nickandperla.net/formula/internal/expr"
	"nickandperla.net/formula/internal/scanner"
	"nickandperla.net/formula/internal/token"
)

// DefaultUnresolvedValue stands in for a tag that has no resolved value.
const DefaultUnresolvedValue = 1.0

// InvalidFormulaText is what a failed evaluation displays.
const InvalidFormulaText = "Invalid formula"

// Result is the outcome of one evaluation.
type Result struct {
	Value      float64
	Expression string // infix text the tokens compiled to
	Err        error
}

// OK reports whether the evaluation produced a number.
func (r Result) OK() bool { return r.Err == nil }

// String returns the display text of the result.
func (r Result) String() string {
	if r.Err != nil {
		return InvalidFormulaText
	}
	return expr.FormatNumber(r.Value)
}

// Evaluator evaluates formula token sequences.
type Evaluator struct {
	unresolved float64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithUnresolvedValue sets the value used for unresolved tags.
func WithUnresolvedValue(v float64) Option {
	return func(e *Evaluator) { e.unresolved = v }
}

// New creates a new Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{unresolved: DefaultUnresolvedValue}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UnresolvedValue returns the configured unresolved-tag value.
func (e *Evaluator) UnresolvedValue() float64 { return e.unresolved }

// Evaluate compiles and evaluates the full sequence. Nothing is cached
// between calls.
func (e *Evaluator) Evaluate(tokens []token.Token) Result {
	terms := Compile(tokens, e.unresolved)
	res := Result{Expression: expr.Join(terms)}
	res.Value, res.Err = Terms(terms)
	return res
}

// Compile maps tokens to expression terms. Tags without a value use
// unresolved.
func Compile(tokens []token.Token, unresolved float64) []expr.Term {
	terms := make([]expr.Term, 0, len(tokens))
	for _, tok := range tokens {
		switch t := tok.(type) {
		case token.Number:
			terms = append(terms, expr.Num{Value: t.Value()})
		case token.Percentage:
			terms = append(terms, expr.Num{Value: t.Value()})
		case token.Tag:
			v, ok := t.Resolved()
			if !ok {
				v = unresolved
			}
			terms = append(terms, expr.Num{Value: v})
		case token.Operator:
			terms = append(terms, expr.Op{Symbol: t.Symbol})
		}
	}
	return terms
}

// EvalString scans and evaluates infix text such as "(2 + 3) * 4".
func EvalString(src string) (float64, error) {
	terms, err := scanner.Terms(src)
	if err != nil {
		return 0, &SyntaxError{Pos: -1, Msg: err.Error(), Err: err}
	}
	return Terms(terms)
}
