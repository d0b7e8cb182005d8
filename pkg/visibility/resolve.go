package visibility

import "github.com/goliatone/go-formbuilder/pkg/model"

// State is the runtime presentation of a single field.
type State struct {
	Visible  bool
	Disabled bool
}

// Resolver composes rule decisions into field state using an Evaluator.
type Resolver struct {
	evaluator Evaluator
}

// NewResolver returns a Resolver backed by evaluator, or by RuleEvaluator
// when evaluator is nil.
func NewResolver(evaluator Evaluator) *Resolver {
	if evaluator == nil {
		evaluator = RuleEvaluator{}
	}
	return &Resolver{evaluator: evaluator}
}

// Resolve applies the visibility policy: a matching hideWhen hides the field
// regardless of showWhen, a present showWhen must match for the field to be
// visible, and disableWhen only affects interactivity.
func (r *Resolver) Resolve(field model.FieldDefinition, ctx Context) State {
	state := State{Visible: r.Visible(field, ctx)}
	if rule := field.Config.DisableWhen; rule != nil {
		state.Disabled = r.evaluator.Evaluate(*rule, ctx)
	}
	return state
}

// Visible reports whether the field is shown for the given context.
func (r *Resolver) Visible(field model.FieldDefinition, ctx Context) bool {
	if rule := field.Config.HideWhen; rule != nil && r.evaluator.Evaluate(*rule, ctx) {
		return false
	}
	if rule := field.Config.ShowWhen; rule != nil {
		return r.evaluator.Evaluate(*rule, ctx)
	}
	return true
}

// Resolve applies the default resolver to field with the given values.
func Resolve(field model.FieldDefinition, values map[string]any) State {
	return defaultResolver.Resolve(field, Context{Values: values})
}

// IsVisible applies the default resolver's visibility policy.
func IsVisible(field model.FieldDefinition, values map[string]any) bool {
	return defaultResolver.Visible(field, Context{Values: values})
}

var defaultResolver = NewResolver(nil)
