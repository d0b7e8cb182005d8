package model

import (
	"time"

	"github.com/mohae/deepcopy"
)

// Clone returns a deep copy of the rule, or nil for a nil rule.
func (r *ConditionalRule) Clone() *ConditionalRule {
	if r == nil {
		return nil
	}
	out := *r
	out.Value = deepcopy.Copy(r.Value)
	return &out
}

// Clone returns a deep copy of the field.
func (f FieldDefinition) Clone() FieldDefinition {
	out := f
	out.Config = f.Config.Clone()
	return out
}

// Clone returns a deep copy of the validator.
func (v CrossValidatorDef) Clone() CrossValidatorDef {
	out := v
	if v.Fields != nil {
		out.Fields = append([]string(nil), v.Fields...)
	}
	return out
}

// CloneFields deep-copies a field slice. A nil input yields an empty slice.
func CloneFields(fields []FieldDefinition) []FieldDefinition {
	out := make([]FieldDefinition, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

// CloneGroups copies a group slice. Groups hold no references.
func CloneGroups(groups []FieldGroup) []FieldGroup {
	out := make([]FieldGroup, len(groups))
	copy(out, groups)
	return out
}

// CloneValidators deep-copies a validator slice.
func CloneValidators(validators []CrossValidatorDef) []CrossValidatorDef {
	out := make([]CrossValidatorDef, len(validators))
	for i, validator := range validators {
		out[i] = validator.Clone()
	}
	return out
}

// Clone returns a deep copy of the definition.
func (d FormDefinition) Clone() FormDefinition {
	out := d
	out.Fields = CloneFields(d.Fields)
	out.Groups = CloneGroups(d.Groups)
	out.CrossValidators = CloneValidators(d.CrossValidators)
	return out
}

// Snapshot captures the editable parts of the definition.
func (d FormDefinition) Snapshot(at time.Time) StateSnapshot {
	return StateSnapshot{
		Fields:          CloneFields(d.Fields),
		Groups:          CloneGroups(d.Groups),
		Settings:        d.Settings,
		CrossValidators: CloneValidators(d.CrossValidators),
		Timestamp:       at,
	}
}

// Apply replaces the editable parts of the definition with a copy of snap.
func (d *FormDefinition) Apply(snap StateSnapshot) {
	d.Fields = CloneFields(snap.Fields)
	d.Groups = CloneGroups(snap.Groups)
	d.Settings = snap.Settings
	d.CrossValidators = CloneValidators(snap.CrossValidators)
}

// Clone returns a deep copy of the snapshot.
func (s StateSnapshot) Clone() StateSnapshot {
	out := s
	out.Fields = CloneFields(s.Fields)
	out.Groups = CloneGroups(s.Groups)
	out.CrossValidators = CloneValidators(s.CrossValidators)
	return out
}

// Clone returns a deep copy of the saved form.
func (s SavedForm) Clone() SavedForm {
	out := s
	out.Data = s.Data.Clone()
	return out
}

// Clone returns a deep copy of the persisted state.
func (p PersistedState) Clone() PersistedState {
	out := p
	out.SavedForms = make([]SavedForm, len(p.SavedForms))
	for i, saved := range p.SavedForms {
		out.SavedForms[i] = saved.Clone()
	}
	return out
}
