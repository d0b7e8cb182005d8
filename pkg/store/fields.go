package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Direction is the argument of MoveField.
type Direction int

const (
	Up Direction = iota
	Down
)

// FieldPatch lists the field attributes to change. Nil members are left as
// they are.
type FieldPatch struct {
	Type    *model.FieldType
	Name    *string
	Label   *string
	Config  *model.Config
	GroupID *string
}

// AddField appends a field built from partial to groupID ("" for ungrouped)
// and selects it. The field receives a fresh id and the next order. An empty
// name is replaced by "<type>_<n>".
func (s *Store) AddField(partial model.FieldDefinition, groupID string) (model.FieldDefinition, error) {
	var created model.FieldDefinition
	err := s.mutate("addField", func(form *model.FormDefinition) (string, error) {
		field := partial.Clone()
		if field.Type == "" {
			field.Type = model.FieldTypeText
		}
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			field.Name = generatedName(*form, string(field.Type), len(form.Fields)+1)
		} else if _, taken := form.FieldByName(field.Name); taken {
			return "", fmt.Errorf("%w: %q", ErrDuplicateFieldName, field.Name)
		}
		if groupID != "" && !form.HasGroup(groupID) {
			return "", fmt.Errorf("%w: %q", ErrGroupNotFound, groupID)
		}
		field.ID = s.newID()
		field.GroupID = groupID
		field.Order = len(form.Fields)
		form.Fields = append(form.Fields, field)
		created = field.Clone()
		return field.ID, nil
	})
	if err != nil {
		return model.FieldDefinition{}, err
	}
	s.selected = created.ID
	return created, nil
}

func generatedName(form model.FormDefinition, prefix string, n int) string {
	for ; ; n++ {
		candidate := prefix + "_" + strconv.Itoa(n)
		if _, taken := form.FieldByName(candidate); !taken {
			return candidate
		}
	}
}

// UpdateField applies patch to the field with id. Renames must stay unique.
func (s *Store) UpdateField(id string, patch FieldPatch) error {
	return s.mutate("updateField", func(form *model.FormDefinition) (string, error) {
		idx := form.FieldIndex(id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		field := &form.Fields[idx]
		if patch.Type != nil {
			field.Type = *patch.Type
		}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return "", fmt.Errorf("store: update field %q: empty name", id)
			}
			if other, taken := form.FieldByName(name); taken && other.ID != id {
				return "", fmt.Errorf("%w: %q", ErrDuplicateFieldName, name)
			}
			field.Name = name
		}
		if patch.Label != nil {
			field.Label = *patch.Label
		}
		if patch.Config != nil {
			field.Config = patch.Config.Clone()
		}
		if patch.GroupID != nil {
			if *patch.GroupID != "" && !form.HasGroup(*patch.GroupID) {
				return "", fmt.Errorf("%w: %q", ErrGroupNotFound, *patch.GroupID)
			}
			field.GroupID = *patch.GroupID
		}
		return id, nil
	})
}

// UpdateFieldConfig merges one config key into the field with id. A nil
// value removes the key.
func (s *Store) UpdateFieldConfig(id, key string, value any) error {
	return s.mutate("updateFieldConfig", func(form *model.FormDefinition) (string, error) {
		idx := form.FieldIndex(id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		if err := form.Fields[idx].Config.Set(key, value); err != nil {
			return "", fmt.Errorf("store: update config of %q: %w", id, err)
		}
		return id, nil
	})
}

// RemoveField deletes the field with id and renumbers the remaining orders.
func (s *Store) RemoveField(id string) error {
	return s.mutate("removeField", func(form *model.FormDefinition) (string, error) {
		idx := form.FieldIndex(id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		form.Fields = append(form.Fields[:idx], form.Fields[idx+1:]...)
		form.Renumber()
		return id, nil
	})
}

// DuplicateField appends a deep copy of the field with id to the same group.
// The copy's name gets a "_copy" suffix and its label " (Copy)".
func (s *Store) DuplicateField(id string) (model.FieldDefinition, error) {
	var created model.FieldDefinition
	err := s.mutate("duplicateField", func(form *model.FormDefinition) (string, error) {
		idx := form.FieldIndex(id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		field := form.Fields[idx].Clone()
		field.ID = s.newID()
		field.Name = model.UniqueName(field.Name+"_copy", func(name string) bool {
			_, taken := form.FieldByName(name)
			return taken
		})
		field.Label += " (Copy)"
		field.Order = len(form.Fields)
		form.Fields = append(form.Fields, field)
		created = field.Clone()
		return field.ID, nil
	})
	if err != nil {
		return model.FieldDefinition{}, err
	}
	s.selected = created.ID
	return created, nil
}

// MoveField swaps the order of the field with id and its neighbour in the
// given direction, then resorts the fields. Moving past either end is a
// no-op.
func (s *Store) MoveField(id string, dir Direction) error {
	return s.mutate("moveField", func(form *model.FormDefinition) (string, error) {
		if form.FieldIndex(id) < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		sort.SliceStable(form.Fields, func(i, j int) bool {
			return form.Fields[i].Order < form.Fields[j].Order
		})
		pos := form.FieldIndex(id)
		neighbour := pos - 1
		if dir == Down {
			neighbour = pos + 1
		}
		if neighbour < 0 || neighbour >= len(form.Fields) {
			return "", errUnchanged
		}
		a, b := &form.Fields[pos], &form.Fields[neighbour]
		a.Order, b.Order = b.Order, a.Order
		form.Fields[pos], form.Fields[neighbour] = form.Fields[neighbour], form.Fields[pos]
		return id, nil
	})
}

// ReorderFields moves the field at from to position to and assigns fresh
// dense orders. Out of range or equal indexes are ignored.
func (s *Store) ReorderFields(from, to int) error {
	return s.mutate("reorderFields", func(form *model.FormDefinition) (string, error) {
		n := len(form.Fields)
		if from == to || from < 0 || to < 0 || from >= n || to >= n {
			return "", errUnchanged
		}
		moved := form.Fields[from]
		rest := append(form.Fields[:from:from], form.Fields[from+1:]...)
		fields := make([]model.FieldDefinition, 0, n)
		fields = append(fields, rest[:to]...)
		fields = append(fields, moved)
		fields = append(fields, rest[to:]...)
		form.Fields = fields
		form.Renumber()
		return moved.ID, nil
	})
}

// MoveFieldToGroup assigns the field to groupID; "" ungroups it.
func (s *Store) MoveFieldToGroup(fieldID, groupID string) error {
	return s.mutate("moveFieldToGroup", func(form *model.FormDefinition) (string, error) {
		idx := form.FieldIndex(fieldID)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, fieldID)
		}
		if groupID != "" && !form.HasGroup(groupID) {
			return "", fmt.Errorf("%w: %q", ErrGroupNotFound, groupID)
		}
		if form.Fields[idx].GroupID == groupID {
			return "", errUnchanged
		}
		form.Fields[idx].GroupID = groupID
		return fieldID, nil
	})
}

// ClearAllFields removes every field, group and cross validator in one
// history step.
func (s *Store) ClearAllFields() error {
	return s.mutate("clearAllFields", func(form *model.FormDefinition) (string, error) {
		form.Fields = []model.FieldDefinition{}
		form.Groups = []model.FieldGroup{}
		form.CrossValidators = []model.CrossValidatorDef{}
		return "", nil
	})
}

// Copy places a copy of the field with id on the clipboard.
func (s *Store) Copy(id string) error {
	field, err := s.Field(id)
	if err != nil {
		return err
	}
	s.clipboard.Copy(field)
	return nil
}

// Cut copies the field with id and removes it.
func (s *Store) Cut(id string) error {
	field, err := s.Field(id)
	if err != nil {
		return err
	}
	return s.clipboard.Cut(s, field)
}

// Paste adds a new field from the clipboard entry to groupID.
func (s *Store) Paste(groupID string) (model.FieldDefinition, error) {
	return s.clipboard.Paste(s, groupID)
}

// HasClipboard reports whether a field has been copied.
func (s *Store) HasClipboard() bool {
	return s.clipboard.Has()
}
