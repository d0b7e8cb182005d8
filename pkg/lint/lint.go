// Package lint reports structural problems in a form definition without
// evaluating it against values.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/dependency"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility/expr"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue codes.
const (
	CodeDuplicateName     = "duplicate-name"
	CodeEmptyName         = "empty-name"
	CodeCircularReference = "circular-reference"
	CodeUnknownRuleField  = "unknown-rule-field"
	CodeUnknownOperator   = "unknown-operator"
	CodeInvalidPattern    = "invalid-pattern"
	CodeUnknownType       = "unknown-type"
	CodeMissingGroup      = "missing-group"
	CodeValidatorField    = "unknown-validator-field"
	CodeValidatorArity    = "validator-arity"
	CodeUnknownValidator  = "unknown-validator-type"
	CodeInvalidExpression = "invalid-expression"
	CodeInvalidFormula    = "invalid-formula"
)

// Issue is one problem found in a definition. Field holds the field id when
// the problem belongs to a field; Validator holds the cross-validator id.
type Issue struct {
	Severity  Severity `json:"severity"`
	Code      string   `json:"code"`
	Field     string   `json:"field,omitempty"`
	Validator string   `json:"validator,omitempty"`
	Message   string   `json:"message"`
}

// Result contains all issues found. Valid is false once any error-level
// issue is recorded.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Errors returns only the error-level issues.
func (r Result) Errors() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// Run checks def and returns every issue found, fields first in order, then
// cycles, then cross-validators.
func Run(def model.FormDefinition) Result {
	result := Result{Valid: true, Issues: make([]Issue, 0)}
	fields := model.SortedFields(def.Fields)

	names := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			result.addError(field.ID, "", CodeEmptyName, fmt.Sprintf("field %q has no name", field.ID))
			continue
		}
		if first, taken := names[name]; taken {
			result.addError(field.ID, "", CodeDuplicateName, fmt.Sprintf("name %q is already used by field %q", name, first))
			continue
		}
		names[name] = field.ID
	}

	for _, field := range fields {
		checkField(&result, def, field, names)
	}

	for _, chain := range dependency.DetectCircularReferences(fields) {
		result.addError(chain[0], "", CodeCircularReference,
			fmt.Sprintf("circular rule dependency: %s", strings.Join(chainNames(chain, fields), " -> ")))
	}

	for _, validator := range def.CrossValidators {
		checkValidator(&result, validator, names)
	}
	return result
}

func checkField(result *Result, def model.FormDefinition, field model.FieldDefinition, names map[string]string) {
	spec, known := model.LookupType(field.Type)
	if !known {
		result.addWarning(field.ID, "", CodeUnknownType, fmt.Sprintf("field %q has unknown type %q and is treated as text", field.Name, field.Type))
	}
	if field.GroupID != "" && !def.HasGroup(field.GroupID) {
		result.addWarning(field.ID, "", CodeMissingGroup, fmt.Sprintf("field %q references missing group %q", field.Name, field.GroupID))
	}

	cfg := field.Config
	if cfg.Pattern != "" {
		if _, err := model.CompilePattern(cfg.Pattern); err != nil {
			result.addError(field.ID, "", CodeInvalidPattern, fmt.Sprintf("field %q has an invalid pattern: %v", field.Name, err))
		}
	}
	if cfg.Formula != "" && spec.Recognises("formula") {
		if _, err := expr.Compile(cfg.Formula); err != nil {
			result.addError(field.ID, "", CodeInvalidFormula, fmt.Sprintf("field %q has an invalid formula: %v", field.Name, err))
		}
	}

	for _, kind := range model.RuleKinds() {
		rule := cfg.Rule(kind)
		if rule == nil {
			continue
		}
		target := strings.TrimSpace(rule.Field)
		if _, ok := names[target]; !ok {
			result.addError(field.ID, "", CodeUnknownRuleField, fmt.Sprintf("%s of %q references unknown field %q", kind, field.Name, target))
		}
		if !rule.Operator.Known() {
			result.addError(field.ID, "", CodeUnknownOperator, fmt.Sprintf("%s of %q uses unknown operator %q", kind, field.Name, rule.Operator))
		}
	}
}

func checkValidator(result *Result, validator model.CrossValidatorDef, names map[string]string) {
	label := validator.Name
	if label == "" {
		label = validator.ID
	}
	for _, name := range validator.Fields {
		if _, ok := names[name]; !ok {
			result.addError("", validator.ID, CodeValidatorField, fmt.Sprintf("validator %q references unknown field %q", label, name))
		}
	}

	switch validator.Type {
	case model.ValidatorFieldsMatch:
		if len(validator.Fields) < 2 {
			result.addError("", validator.ID, CodeValidatorArity, fmt.Sprintf("validator %q needs at least two fields to match", label))
		}
	case model.ValidatorAtLeastOne:
		if len(validator.Fields) == 0 {
			result.addError("", validator.ID, CodeValidatorArity, fmt.Sprintf("validator %q lists no fields", label))
		}
	case model.ValidatorCustom:
		if _, err := expr.Compile(validator.CustomExpression); err != nil {
			result.addError("", validator.ID, CodeInvalidExpression, fmt.Sprintf("validator %q has an invalid expression: %v", label, err))
		}
	default:
		result.addWarning("", validator.ID, CodeUnknownValidator, fmt.Sprintf("validator %q has unknown type %q and never fails", label, validator.Type))
	}
}

func chainNames(chain dependency.Chain, fields []model.FieldDefinition) []string {
	byID := make(map[string]string, len(fields))
	for _, field := range fields {
		byID[field.ID] = field.Name
	}
	out := make([]string, 0, len(chain)+1)
	for _, id := range chain {
		out = append(out, byID[id])
	}
	return append(out, byID[chain[0]])
}

// Codes returns the distinct issue codes in r, sorted.
func (r Result) Codes() []string {
	seen := map[string]bool{}
	var out []string
	for _, issue := range r.Issues {
		if !seen[issue.Code] {
			seen[issue.Code] = true
			out = append(out, issue.Code)
		}
	}
	sort.Strings(out)
	return out
}

func (r *Result) addError(field, validator, code, message string) {
	r.Valid = false
	r.Issues = append(r.Issues, Issue{
		Severity:  SeverityError,
		Code:      code,
		Field:     field,
		Validator: validator,
		Message:   message,
	})
}

func (r *Result) addWarning(field, validator, code, message string) {
	r.Issues = append(r.Issues, Issue{
		Severity:  SeverityWarning,
		Code:      code,
		Field:     field,
		Validator: validator,
		Message:   message,
	})
}
