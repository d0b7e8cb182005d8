package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// MaxSourceLength bounds the size of an expression accepted by Compile.
const MaxSourceLength = 4096

// ErrEmptyExpression is returned when compiling a blank expression.
var ErrEmptyExpression = errors.New("expr: empty expression")

// Program is a parsed expression ready for repeated evaluation.
type Program struct {
	source string
	root   node
}

// Compile parses src into a Program.
func Compile(src string) (*Program, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, ErrEmptyExpression
	}
	if len(trimmed) > MaxSourceLength {
		return nil, fmt.Errorf("expr: expression exceeds %d bytes", MaxSourceLength)
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	root, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	return &Program{source: trimmed, root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Program {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the trimmed expression text.
func (p *Program) Source() string { return p.source }

// Eval evaluates the program and returns its raw result.
func (p *Program) Eval(ctx visibility.Context) any {
	if p == nil || p.root == nil {
		return nil
	}
	return p.root.eval(ctx)
}

// EvalBool evaluates the program and reports whether the result is truthy.
func (p *Program) EvalBool(ctx visibility.Context) bool {
	return Truthy(p.Eval(ctx))
}

// EvalNumber evaluates the program as a number. Results that are not finite
// numbers are reported as errors so calculated fields can stay blank.
func (p *Program) EvalNumber(ctx visibility.Context) (float64, error) {
	n := visibility.ToNumber(p.Eval(ctx))
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("expr: %q did not produce a finite number", p.source)
	}
	return n, nil
}

// Evaluator evaluates boolean rules written in the expression syntax.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval compiles and evaluates rule. A blank rule is considered met.
func (e *Evaluator) Eval(rule string, ctx visibility.Context) (bool, error) {
	if strings.TrimSpace(rule) == "" {
		return true, nil
	}
	program, err := Compile(rule)
	if err != nil {
		return false, err
	}
	return program.EvalBool(ctx), nil
}
