// Package validation checks live form values against field constraints and
// cross-field validators.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
	"github.com/goliatone/go-formbuilder/pkg/visibility/expr"
)

// DefaultMessage is used for cross-validators without a message.
const DefaultMessage = "Validation failed"

// Issue codes.
const (
	CodeRequired    = "required"
	CodeMinLength   = "minLength"
	CodeMaxLength   = "maxLength"
	CodeMin         = "min"
	CodeMax         = "max"
	CodeNotNumber   = "number"
	CodePattern     = "pattern"
	CodeOption      = "option"
	CodePassword    = "password"
	CodeCrossFailed = "cross"
)

// Issue is a failed check. Field carries the field name; Validator carries
// the id of the cross-validator that produced it.
type Issue struct {
	Field     string `json:"field,omitempty"`
	Validator string `json:"validator,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Result collects issues for one submission.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// NewResult builds a result from issues.
func NewResult(issues []Issue) Result {
	return Result{Valid: len(issues) == 0, Issues: issues}
}

// ValidateField checks value against the constraints in field's config.
// Empty values only fail the required check.
func ValidateField(field model.FieldDefinition, value any) []Issue {
	if !model.CollectsValue(field.Type) {
		return nil
	}
	cfg := field.Config
	label := fieldLabel(field)
	if empty(value) {
		if cfg.Required {
			return []Issue{fieldIssue(field, CodeRequired, label+" is required")}
		}
		return nil
	}

	spec, _ := model.LookupType(field.Type)
	var issues []Issue
	switch spec.Primitive {
	case "number":
		n := visibility.ToNumber(value)
		if math.IsNaN(n) {
			return []Issue{fieldIssue(field, CodeNotNumber, label+" must be a number")}
		}
		if cfg.Min != nil && n < *cfg.Min {
			issues = append(issues, fieldIssue(field, CodeMin, fmt.Sprintf("%s must be at least %s", label, visibility.JSString(*cfg.Min))))
		}
		if cfg.Max != nil && n > *cfg.Max {
			issues = append(issues, fieldIssue(field, CodeMax, fmt.Sprintf("%s must be at most %s", label, visibility.JSString(*cfg.Max))))
		}
	case "boolean", "File | File[]":
		// Only required applies.
	case "string[]":
		items, _ := value.([]any)
		for _, item := range items {
			if !hasOption(cfg.Options, visibility.JSString(item)) {
				issues = append(issues, fieldIssue(field, CodeOption, fmt.Sprintf("%s has no option %q", label, visibility.JSString(item))))
			}
		}
	default:
		text := visibility.JSString(value)
		issues = append(issues, checkText(field, label, text)...)
		if spec.Recognises("options") && len(cfg.Options) > 0 && !hasOption(cfg.Options, text) {
			issues = append(issues, fieldIssue(field, CodeOption, fmt.Sprintf("%s has no option %q", label, text)))
		}
	}
	return issues
}

// mismatchesPattern reports a definite mismatch. A pattern that does not
// compile or a match that times out reports none.
func mismatchesPattern(pattern, text string) bool {
	re, err := model.CompilePattern(pattern)
	if err != nil {
		return false
	}
	matched, err := re.MatchString(text)
	return err == nil && !matched
}

func checkText(field model.FieldDefinition, label, text string) []Issue {
	cfg := field.Config
	var issues []Issue
	length := utf8.RuneCountInString(text)
	if cfg.MinLength != nil && length < *cfg.MinLength {
		issues = append(issues, fieldIssue(field, CodeMinLength, fmt.Sprintf("%s must be at least %d characters", label, *cfg.MinLength)))
	}
	if cfg.MaxLength != nil && length > *cfg.MaxLength {
		issues = append(issues, fieldIssue(field, CodeMaxLength, fmt.Sprintf("%s must be at most %d characters", label, *cfg.MaxLength)))
	}
	if cfg.Pattern != "" {
		// Patterns that do not compile are reported by lint, not here.
		if mismatchesPattern(cfg.Pattern, text) {
			issues = append(issues, fieldIssue(field, CodePattern, label+" has an invalid format"))
		}
	}
	if field.Type == model.FieldTypePassword {
		for _, missing := range passwordGaps(cfg, text) {
			issues = append(issues, fieldIssue(field, CodePassword, label+" must contain "+missing))
		}
	}
	return issues
}

func passwordGaps(cfg model.Config, text string) []string {
	var upper, lower, digit, special bool
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			special = true
		}
	}
	var out []string
	if cfg.RequireUppercase && !upper {
		out = append(out, "an uppercase letter")
	}
	if cfg.RequireLowercase && !lower {
		out = append(out, "a lowercase letter")
	}
	if cfg.RequireNumber && !digit {
		out = append(out, "a number")
	}
	if cfg.RequireSpecial && !special {
		out = append(out, "a special character")
	}
	return out
}

// CrossValidate runs every validator against values, keyed by field name.
// Validators whose custom expression does not compile are skipped.
func CrossValidate(validators []model.CrossValidatorDef, values map[string]any) []Issue {
	var issues []Issue
	for _, validator := range validators {
		if failed(validator, values) {
			message := validator.Message
			if strings.TrimSpace(message) == "" {
				message = DefaultMessage
			}
			issue := Issue{Validator: validator.ID, Code: CodeCrossFailed, Message: message}
			if len(validator.Fields) > 0 {
				issue.Field = validator.Fields[0]
			}
			issues = append(issues, issue)
		}
	}
	return issues
}

func failed(validator model.CrossValidatorDef, values map[string]any) bool {
	switch validator.Type {
	case model.ValidatorFieldsMatch:
		if len(validator.Fields) < 2 {
			return false
		}
		first := values[validator.Fields[0]]
		for _, name := range validator.Fields[1:] {
			if !visibility.StrictEqual(first, values[name]) {
				return true
			}
		}
		return false
	case model.ValidatorAtLeastOne:
		if len(validator.Fields) == 0 {
			return false
		}
		for _, name := range validator.Fields {
			if visibility.JSTruthy(values[name]) {
				return false
			}
		}
		return true
	case model.ValidatorCustom:
		program, err := expr.Compile(validator.CustomExpression)
		if err != nil {
			return false
		}
		return !program.EvalBool(visibility.Context{Values: values})
	default:
		return false
	}
}

func empty(value any) bool {
	if items, ok := value.([]any); ok {
		return len(items) == 0
	}
	return visibility.IsEmpty(value)
}

func hasOption(options []model.Option, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

func fieldLabel(field model.FieldDefinition) string {
	if strings.TrimSpace(field.Label) != "" {
		return field.Label
	}
	return field.Name
}

func fieldIssue(field model.FieldDefinition, code, message string) Issue {
	return Issue{Field: field.Name, Code: code, Message: message}
}
