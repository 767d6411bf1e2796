package expr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOperand indicates a comparison with nothing on one side.
var ErrEmptyOperand = errors.New("empty operand")

// BinaryOp compares two resolved values.
type BinaryOp func(left, right any) bool

// Evaluator evaluates boolean expressions with optional custom operators.
type Evaluator struct {
	customOps map[string]BinaryOp
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCustomOperator registers a word operator, used as "a name b".
// Built-in operators are tried first.
func WithCustomOperator(name string, fn BinaryOp) Option {
	return func(e *Evaluator) {
		if e.customOps == nil {
			e.customOps = make(map[string]BinaryOp)
		}
		e.customOps[name] = fn
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate evaluates expr against vars.
func (e *Evaluator) Evaluate(expr string, vars map[string]any) (bool, error) {
	return e.eval(strings.TrimSpace(expr), vars)
}

// Eval evaluates expr with the default evaluator.
func Eval(expr string, vars map[string]any) (bool, error) {
	return New().Evaluate(expr, vars)
}

func (e *Evaluator) eval(expr string, vars map[string]any) (bool, error) {
	if expr == "" {
		return false, nil
	}

	// "or" binds loosest, so split on it first.
	if left, right, ok := strings.Cut(expr, " or "); ok {
		return e.logical(left, right, vars, func(l, r bool) bool { return l || r })
	}
	if left, right, ok := strings.Cut(expr, " and "); ok {
		return e.logical(left, right, vars, func(l, r bool) bool { return l && r })
	}

	if inner, ok := strings.CutPrefix(expr, "not "); ok {
		v, err := e.eval(strings.TrimSpace(inner), vars)
		return !v, err
	}
	if inner, ok := strings.CutPrefix(expr, "!"); ok && !strings.HasPrefix(inner, "=") {
		v, err := e.eval(strings.TrimSpace(inner), vars)
		return !v, err
	}

	for _, op := range builtinOps {
		if left, right, ok := strings.Cut(expr, op.token); ok {
			return compare(op.token, left, right, vars, op.compare)
		}
	}

	for name, fn := range e.customOps {
		if left, right, ok := strings.Cut(expr, " "+name+" "); ok {
			return compare(name, left, right, vars, fn)
		}
	}

	return IsTruthy(Resolve(expr, vars)), nil
}

func (e *Evaluator) logical(left, right string, vars map[string]any, join func(l, r bool) bool) (bool, error) {
	l, err := e.eval(strings.TrimSpace(left), vars)
	if err != nil {
		return false, err
	}
	r, err := e.eval(strings.TrimSpace(right), vars)
	if err != nil {
		return false, err
	}
	return join(l, r), nil
}

func compare(op, left, right string, vars map[string]any, fn BinaryOp) (bool, error) {
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if left == "" || right == "" {
		return false, fmt.Errorf("operator %s: %w", strings.TrimSpace(op), ErrEmptyOperand)
	}
	return fn(Resolve(left, vars), Resolve(right, vars)), nil
}
