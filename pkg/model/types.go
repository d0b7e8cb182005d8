package model

import "time"

// FieldType tags a field definition with the input kind it represents.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeEmail       FieldType = "email"
	FieldTypePassword    FieldType = "password"
	FieldTypeNumber      FieldType = "number"
	FieldTypeTextArea    FieldType = "textarea"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeSwitch      FieldType = "switch"
	FieldTypeDate        FieldType = "date"
	FieldTypeTime        FieldType = "time"
	FieldTypeDateTime    FieldType = "datetime"
	FieldTypeFile        FieldType = "file"
	FieldTypePhone       FieldType = "phone"
	FieldTypeURL         FieldType = "url"
	FieldTypeCurrency    FieldType = "currency"
	FieldTypeRating      FieldType = "rating"
	FieldTypeSlider      FieldType = "slider"
	FieldTypeColor       FieldType = "color"
	FieldTypeHidden      FieldType = "hidden"
	FieldTypeSignature   FieldType = "signature"
	FieldTypeCalculated  FieldType = "calculated"
	FieldTypeHTML        FieldType = "html"
)

// Operator names the comparison a ConditionalRule performs.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "notEquals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greaterThan"
	OperatorLessThan    Operator = "lessThan"
	OperatorIsEmpty     Operator = "isEmpty"
	OperatorIsNotEmpty  Operator = "isNotEmpty"
)

// Operators lists the supported operators in their canonical order.
func Operators() []Operator {
	return []Operator{
		OperatorEquals,
		OperatorNotEquals,
		OperatorContains,
		OperatorGreaterThan,
		OperatorLessThan,
		OperatorIsEmpty,
		OperatorIsNotEmpty,
	}
}

// Known reports whether op is one of the supported operators.
func (op Operator) Known() bool {
	for _, candidate := range Operators() {
		if candidate == op {
			return true
		}
	}
	return false
}

// ValidatorType names the kind of a cross-field validator.
type ValidatorType string

const (
	ValidatorFieldsMatch ValidatorType = "fieldsMatch"
	ValidatorAtLeastOne  ValidatorType = "atLeastOne"
	ValidatorCustom      ValidatorType = "custom"
)

// RuleKind identifies where a conditional rule sits in a field config.
type RuleKind string

const (
	RuleShowWhen    RuleKind = "showWhen"
	RuleHideWhen    RuleKind = "hideWhen"
	RuleDisableWhen RuleKind = "disableWhen"
)

// RuleKinds returns the rule slots in evaluation order.
func RuleKinds() []RuleKind {
	return []RuleKind{RuleShowWhen, RuleHideWhen, RuleDisableWhen}
}

// ConditionalRule is a single `field operator value` comparison.
type ConditionalRule struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

// FieldDefinition describes one input of the form. Name is the runtime value
// key and must be unique within a form.
type FieldDefinition struct {
	ID      string    `json:"id"`
	Type    FieldType `json:"type"`
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Config  Config    `json:"config"`
	GroupID string    `json:"groupId,omitempty"`
	Order   int       `json:"order"`
}

// FieldGroup is a named section fields can belong to.
type FieldGroup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Collapsible bool   `json:"collapsible,omitempty"`
	Collapsed   bool   `json:"collapsed,omitempty"`
	Order       int    `json:"order"`
}

// CrossValidatorDef is a rule spanning two or more fields.
type CrossValidatorDef struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Type             ValidatorType `json:"type"`
	Fields           []string      `json:"fields"`
	Message          string        `json:"message"`
	CustomExpression string        `json:"customExpression,omitempty"`
}

// FormSettings holds presentation and validation-timing flags.
type FormSettings struct {
	Layout                string `json:"layout"`
	LabelPosition         string `json:"labelPosition"`
	Size                  string `json:"size"`
	ValidateOn            string `json:"validateOn"`
	ShowRequiredIndicator bool   `json:"showRequiredIndicator"`
	ShowResetButton       bool   `json:"showResetButton"`
	SubmitButtonText      string `json:"submitButtonText"`
	ResetButtonText       string `json:"resetButtonText"`
	Columns               int    `json:"columns"`
}

// DefaultSettings returns the settings a new form starts with.
func DefaultSettings() FormSettings {
	return FormSettings{
		Layout:                "vertical",
		LabelPosition:         "top",
		Size:                  "md",
		ValidateOn:            "blur",
		ShowRequiredIndicator: true,
		SubmitButtonText:      "Submit",
		ResetButtonText:       "Reset",
		Columns:               1,
	}
}

// FormDefinition is the aggregate root owned by the store.
type FormDefinition struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	Fields          []FieldDefinition   `json:"fields"`
	Groups          []FieldGroup        `json:"groups"`
	Settings        FormSettings        `json:"settings"`
	CrossValidators []CrossValidatorDef `json:"crossValidators"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// StateSnapshot is an undo/redo checkpoint of the editable parts of a form.
// Timestamp is informational; stack position defines ordering.
type StateSnapshot struct {
	Fields          []FieldDefinition   `json:"fields"`
	Groups          []FieldGroup        `json:"groups"`
	Settings        FormSettings        `json:"settings"`
	CrossValidators []CrossValidatorDef `json:"crossValidators"`
	Timestamp       time.Time           `json:"timestamp"`
}

// SavedForm is a named copy of a definition kept in the persisted state.
type SavedForm struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Data        FormDefinition `json:"data"`
	SavedAt     time.Time      `json:"savedAt"`
}

// PersistedState is the blob exchanged with a storage collaborator.
type PersistedState struct {
	SavedForms    []SavedForm `json:"savedForms"`
	Theme         string      `json:"theme"`
	Language      string      `json:"language"`
	CurrentFormID string      `json:"currentFormId"`
}
