// Package visibility decides whether conditional rules match a set of runtime
// values and composes those decisions into per-field visibility and
// disablement.
package visibility

import "github.com/goliatone/go-formbuilder/pkg/model"

// Evaluator decides whether a conditional rule is met by the supplied
// context. Implementations must fail closed: malformed rules evaluate false.
type Evaluator interface {
	Evaluate(rule model.ConditionalRule, ctx Context) bool
}

// Context provides inputs to an Evaluator. Values holds the live form
// values keyed by field name while Extras allows callers to inject arbitrary
// context such as user roles or feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule model.ConditionalRule, ctx Context) bool

// Evaluate delegates to the underlying function.
func (fn EvaluatorFunc) Evaluate(rule model.ConditionalRule, ctx Context) bool {
	return fn(rule, ctx)
}

// RuleEvaluator is the default Evaluator implementing the operator table.
type RuleEvaluator struct{}

// Evaluate implements Evaluator.
func (RuleEvaluator) Evaluate(rule model.ConditionalRule, ctx Context) bool {
	return Evaluate(rule, ctx.Values)
}

var _ Evaluator = RuleEvaluator{}
