package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// GroupPatch lists the group attributes to change.
type GroupPatch struct {
	Name        *string
	Label       *string
	Description *string
	Collapsible *bool
	Collapsed   *bool
}

// ValidatorPatch lists the cross validator attributes to change. A nil Fields
// slice keeps the current list.
type ValidatorPatch struct {
	Name             *string
	Type             *model.ValidatorType
	Fields           []string
	Message          *string
	CustomExpression *string
}

// SettingsPatch lists the form settings to change.
type SettingsPatch struct {
	Layout                *string
	LabelPosition         *string
	Size                  *string
	ValidateOn            *string
	ShowRequiredIndicator *bool
	ShowResetButton       *bool
	SubmitButtonText      *string
	ResetButtonText       *string
	Columns               *int
}

// AddGroup appends a group with a fresh id and the next order.
func (s *Store) AddGroup(partial model.FieldGroup) (model.FieldGroup, error) {
	var created model.FieldGroup
	err := s.mutate("addGroup", func(form *model.FormDefinition) (string, error) {
		group := partial
		group.ID = s.newID()
		group.Name = strings.TrimSpace(group.Name)
		if group.Name == "" {
			group.Name = "group_" + strconv.Itoa(len(form.Groups)+1)
		}
		if group.Label == "" {
			group.Label = group.Name
		}
		group.Order = len(form.Groups)
		form.Groups = append(form.Groups, group)
		created = group
		return "", nil
	})
	if err != nil {
		return model.FieldGroup{}, err
	}
	return created, nil
}

// UpdateGroup applies patch to the group with id.
func (s *Store) UpdateGroup(id string, patch GroupPatch) error {
	return s.mutate("updateGroup", func(form *model.FormDefinition) (string, error) {
		idx := groupIndex(*form, id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrGroupNotFound, id)
		}
		group := &form.Groups[idx]
		if patch.Name != nil {
			group.Name = *patch.Name
		}
		if patch.Label != nil {
			group.Label = *patch.Label
		}
		if patch.Description != nil {
			group.Description = *patch.Description
		}
		if patch.Collapsible != nil {
			group.Collapsible = *patch.Collapsible
		}
		if patch.Collapsed != nil {
			group.Collapsed = *patch.Collapsed
		}
		return "", nil
	})
}

// RemoveGroup deletes the group with id. Its fields stay in the form,
// ungrouped.
func (s *Store) RemoveGroup(id string) error {
	return s.mutate("removeGroup", func(form *model.FormDefinition) (string, error) {
		idx := groupIndex(*form, id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrGroupNotFound, id)
		}
		form.Groups = append(form.Groups[:idx], form.Groups[idx+1:]...)
		for i := range form.Groups {
			form.Groups[i].Order = i
		}
		for i := range form.Fields {
			if form.Fields[i].GroupID == id {
				form.Fields[i].GroupID = ""
			}
		}
		return "", nil
	})
}

func groupIndex(form model.FormDefinition, id string) int {
	for i, group := range form.Groups {
		if group.ID == id {
			return i
		}
	}
	return -1
}

// AddCrossValidator appends a validator with a fresh id.
func (s *Store) AddCrossValidator(partial model.CrossValidatorDef) (model.CrossValidatorDef, error) {
	var created model.CrossValidatorDef
	err := s.mutate("addCrossValidator", func(form *model.FormDefinition) (string, error) {
		validator := partial.Clone()
		validator.ID = s.newID()
		if validator.Fields == nil {
			validator.Fields = []string{}
		}
		form.CrossValidators = append(form.CrossValidators, validator)
		created = validator.Clone()
		return "", nil
	})
	if err != nil {
		return model.CrossValidatorDef{}, err
	}
	return created, nil
}

// UpdateCrossValidator applies patch to the validator with id.
func (s *Store) UpdateCrossValidator(id string, patch ValidatorPatch) error {
	return s.mutate("updateCrossValidator", func(form *model.FormDefinition) (string, error) {
		idx := validatorIndex(*form, id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrValidatorNotFound, id)
		}
		validator := &form.CrossValidators[idx]
		if patch.Name != nil {
			validator.Name = *patch.Name
		}
		if patch.Type != nil {
			validator.Type = *patch.Type
		}
		if patch.Fields != nil {
			validator.Fields = append([]string(nil), patch.Fields...)
		}
		if patch.Message != nil {
			validator.Message = *patch.Message
		}
		if patch.CustomExpression != nil {
			validator.CustomExpression = *patch.CustomExpression
		}
		return "", nil
	})
}

// RemoveCrossValidator deletes the validator with id.
func (s *Store) RemoveCrossValidator(id string) error {
	return s.mutate("removeCrossValidator", func(form *model.FormDefinition) (string, error) {
		idx := validatorIndex(*form, id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrValidatorNotFound, id)
		}
		form.CrossValidators = append(form.CrossValidators[:idx], form.CrossValidators[idx+1:]...)
		return "", nil
	})
}

func validatorIndex(form model.FormDefinition, id string) int {
	for i, validator := range form.CrossValidators {
		if validator.ID == id {
			return i
		}
	}
	return -1
}

// UpdateSettings merges patch into the form settings.
func (s *Store) UpdateSettings(patch SettingsPatch) error {
	return s.mutate("updateSettings", func(form *model.FormDefinition) (string, error) {
		applySettings(&form.Settings, patch)
		return "", nil
	})
}

func applySettings(settings *model.FormSettings, patch SettingsPatch) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&settings.Layout, patch.Layout)
	setString(&settings.LabelPosition, patch.LabelPosition)
	setString(&settings.Size, patch.Size)
	setString(&settings.ValidateOn, patch.ValidateOn)
	setBool(&settings.ShowRequiredIndicator, patch.ShowRequiredIndicator)
	setBool(&settings.ShowResetButton, patch.ShowResetButton)
	setString(&settings.SubmitButtonText, patch.SubmitButtonText)
	setString(&settings.ResetButtonText, patch.ResetButtonText)
	if patch.Columns != nil && *patch.Columns > 0 {
		settings.Columns = *patch.Columns
	}
}
