// Package wizard walks a user through adding a field from the terminal.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-formbuilder/pkg/dependency"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// FieldStore is the store surface the wizard writes to.
type FieldStore interface {
	AddField(partial model.FieldDefinition, groupID string) (model.FieldDefinition, error)
	HasFieldName(name string) bool
	Fields() []model.FieldDefinition
	Groups() []model.FieldGroup
}

// Wizard asks for a field definition through a PromptDriver.
type Wizard struct {
	driver PromptDriver
}

// New returns a Wizard. A nil driver selects the survey terminal driver.
func New(driver PromptDriver) *Wizard {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &Wizard{driver: driver}
}

const noGroup = "(no group)"

// AddField prompts for one field and adds it to store.
func (w *Wizard) AddField(ctx context.Context, store FieldStore) (model.FieldDefinition, error) {
	types := model.FieldTypes()
	options := make([]string, len(types))
	for i, t := range types {
		options[i] = string(t)
	}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Field type", Options: options, PageSize: 12})
	if err != nil {
		return model.FieldDefinition{}, err
	}
	if idx < 0 || idx >= len(types) {
		return model.FieldDefinition{}, errors.New("wizard: no field type selected")
	}
	field := model.FieldDefinition{Type: types[idx]}

	field.Label, err = w.driver.Input(ctx, InputConfig{
		Message:   "Label",
		Validator: required("label"),
	})
	if err != nil {
		return model.FieldDefinition{}, err
	}
	field.Name, err = w.driver.Input(ctx, InputConfig{
		Message: "Name",
		Default: SlugName(field.Label),
		Help:    "The key the value is submitted under.",
		Validator: func(s string) error {
			name := strings.TrimSpace(s)
			if name == "" {
				return errors.New("name is required")
			}
			if store.HasFieldName(name) {
				return fmt.Errorf("name %q is already used", name)
			}
			return nil
		},
	})
	if err != nil {
		return model.FieldDefinition{}, err
	}
	field.Name = strings.TrimSpace(field.Name)

	groupID, err := w.askGroup(ctx, store.Groups())
	if err != nil {
		return model.FieldDefinition{}, err
	}
	if err := w.askConfig(ctx, &field); err != nil {
		return model.FieldDefinition{}, err
	}
	if err := w.askRule(ctx, &field, store.Fields()); err != nil {
		return model.FieldDefinition{}, err
	}

	added, err := store.AddField(field, groupID)
	if err != nil {
		return model.FieldDefinition{}, fmt.Errorf("wizard: add field: %w", err)
	}
	if err := w.driver.Info(ctx, fmt.Sprintf("Added %s field %q", added.Type, added.Name)); err != nil {
		return added, err
	}
	return added, nil
}

func (w *Wizard) askGroup(ctx context.Context, groups []model.FieldGroup) (string, error) {
	if len(groups) == 0 {
		return "", nil
	}
	options := []string{noGroup}
	for _, group := range groups {
		options = append(options, group.Label)
	}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Group", Options: options})
	if err != nil || idx <= 0 {
		return "", err
	}
	return groups[idx-1].ID, nil
}

func (w *Wizard) askConfig(ctx context.Context, field *model.FieldDefinition) error {
	spec, _ := model.LookupType(field.Type)
	cfg := &field.Config

	if spec.Recognises("required") {
		ok, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Required?"})
		if err != nil {
			return err
		}
		cfg.Required = ok
	}
	if spec.Recognises("placeholder") {
		text, err := w.driver.Input(ctx, InputConfig{Message: "Placeholder (optional)"})
		if err != nil {
			return err
		}
		cfg.Placeholder = strings.TrimSpace(text)
	}
	if spec.Recognises("options") {
		text, err := w.driver.Input(ctx, InputConfig{
			Message:   "Options (comma separated)",
			Validator: required("at least one option"),
		})
		if err != nil {
			return err
		}
		cfg.Options = ParseOptions(text)
	}
	if spec.Recognises("content") {
		text, err := w.driver.TextArea(ctx, TextAreaConfig{Message: "Content (HTML)"})
		if err != nil {
			return err
		}
		cfg.Content = text
	}
	if spec.Recognises("formula") {
		text, err := w.driver.Input(ctx, InputConfig{Message: "Formula", Help: "e.g. price * quantity"})
		if err != nil {
			return err
		}
		cfg.Formula = strings.TrimSpace(text)
	}
	return nil
}

func (w *Wizard) askRule(ctx context.Context, field *model.FieldDefinition, existing []model.FieldDefinition) error {
	if len(existing) == 0 {
		return nil
	}
	ok, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Show only when another field matches?"})
	if err != nil || !ok {
		return err
	}

	names := make([]string, len(existing))
	for i, f := range existing {
		names[i] = f.Name
	}
	target, err := w.driver.Select(ctx, SelectConfig{Message: "Depends on", Options: names})
	if err != nil {
		return err
	}
	if target < 0 {
		return nil
	}

	operators := model.Operators()
	labels := make([]string, len(operators))
	for i, op := range operators {
		labels[i] = string(op)
	}
	opIdx, err := w.driver.Select(ctx, SelectConfig{Message: "Operator", Options: labels})
	if err != nil {
		return err
	}
	if opIdx < 0 {
		return nil
	}
	rule := model.ConditionalRule{Field: names[target], Operator: operators[opIdx]}
	if rule.Operator != model.OperatorIsEmpty && rule.Operator != model.OperatorIsNotEmpty {
		text, err := w.driver.Input(ctx, InputConfig{Message: "Value"})
		if err != nil {
			return err
		}
		rule.Value = ParseValue(text)
	}

	candidate := *field
	candidate.ID = "\x00pending"
	candidate.Config.ShowWhen = &rule
	if chains := dependency.DetectCircularReferences(append(append([]model.FieldDefinition(nil), existing...), candidate)); len(chains) > 0 {
		return w.driver.Info(ctx, "Skipped rule: it would create a circular dependency")
	}
	field.Config.ShowWhen = &rule
	return nil
}

// ParseOptions splits a comma separated list into options. "Label=value"
// sets both; a bare entry uses its text for both.
func ParseOptions(text string) []model.Option {
	var out []model.Option
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, value, found := strings.Cut(part, "=")
		if !found {
			value = label
		}
		out = append(out, model.Option{Label: strings.TrimSpace(label), Value: strings.TrimSpace(value)})
	}
	return out
}

// ParseValue reads a rule value typed at the prompt: numbers and booleans
// keep their type, anything else is a string.
func ParseValue(text string) any {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(text); err == nil && (text == "true" || text == "false") {
		return b
	}
	return text
}

// SlugName derives a field name from a label: lower case words joined by
// underscores.
func SlugName(label string) string {
	words := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, "_")
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
