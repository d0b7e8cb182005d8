// Package preview computes what a filled-in form looks like at runtime: which
// fields are shown or disabled, what calculated fields evaluate to, and which
// checks the visible values fail.
package preview

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
	"github.com/goliatone/go-formbuilder/pkg/visibility/expr"
)

// FieldState is the runtime state of one field.
type FieldState struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     model.FieldType `json:"type"`
	Visible  bool            `json:"visible"`
	Disabled bool            `json:"disabled"`
	Value    any             `json:"value,omitempty"`
}

// Result is the outcome of a preview.
type Result struct {
	Fields     []FieldState      `json:"fields"`
	Validation validation.Result `json:"validation"`
}

// Option customises Evaluate.
type Option func(*options)

type options struct {
	evaluator visibility.Evaluator
	extras    map[string]any
}

// WithEvaluator swaps the rule evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(o *options) {
		if evaluator != nil {
			o.evaluator = evaluator
		}
	}
}

// WithExtras exposes additional context to the evaluator and to formulas
// under the extras. prefix.
func WithExtras(extras map[string]any) Option {
	return func(o *options) { o.extras = extras }
}

// Evaluate walks def's fields in order against values keyed by field name.
// Calculated fields are evaluated first and their results are visible to
// rules and validators. Hidden fields are skipped by validation, as are
// cross-validators that reference a hidden field.
func Evaluate(def model.FormDefinition, values map[string]any, opts ...Option) Result {
	cfg := options{evaluator: visibility.RuleEvaluator{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	fields := model.SortedFields(def.Fields)
	working := make(map[string]any, len(values)+len(fields))
	for key, value := range values {
		working[key] = value
	}
	ctx := visibility.Context{Values: working, Extras: cfg.extras}

	computed := make(map[string]any)
	for _, field := range fields {
		if field.Type != model.FieldTypeCalculated || field.Config.Formula == "" {
			continue
		}
		program, err := expr.Compile(field.Config.Formula)
		if err != nil {
			continue
		}
		n, err := program.EvalNumber(ctx)
		if err != nil {
			continue
		}
		working[field.Name] = n
		computed[field.ID] = n
	}

	resolver := visibility.NewResolver(cfg.evaluator)
	result := Result{Fields: make([]FieldState, 0, len(fields))}
	hidden := map[string]bool{}
	var issues []validation.Issue
	for _, field := range fields {
		state := resolver.Resolve(field, ctx)
		entry := FieldState{
			ID:       field.ID,
			Name:     field.Name,
			Type:     field.Type,
			Visible:  state.Visible,
			Disabled: state.Disabled,
			Value:    computed[field.ID],
		}
		result.Fields = append(result.Fields, entry)

		if !state.Visible {
			hidden[field.Name] = true
			continue
		}
		if state.Disabled || field.Type == model.FieldTypeCalculated {
			continue
		}
		issues = append(issues, validation.ValidateField(field, working[field.Name])...)
	}

	active := make([]model.CrossValidatorDef, 0, len(def.CrossValidators))
	for _, validator := range def.CrossValidators {
		if !referencesAny(validator.Fields, hidden) {
			active = append(active, validator)
		}
	}
	issues = append(issues, validation.CrossValidate(active, working)...)
	result.Validation = validation.NewResult(issues)
	return result
}

func referencesAny(names []string, set map[string]bool) bool {
	for _, name := range names {
		if set[name] {
			return true
		}
	}
	return false
}

// Visible returns the names of the visible fields in order.
func (r Result) Visible() []string {
	var out []string
	for _, field := range r.Fields {
		if field.Visible {
			out = append(out, field.Name)
		}
	}
	return out
}
