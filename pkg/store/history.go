package store

import "github.com/goliatone/go-formbuilder/pkg/model"

// Undo restores the previous checkpoint. It reports false when there is
// nothing to undo.
func (s *Store) Undo() bool {
	snap, ok := s.history.Undo(s.form)
	if !ok {
		return false
	}
	s.restore(snap, "undo")
	return true
}

// Redo reapplies the most recently undone checkpoint.
func (s *Store) Redo() bool {
	snap, ok := s.history.Redo(s.form)
	if !ok {
		return false
	}
	s.restore(snap, "redo")
	return true
}

func (s *Store) restore(snap model.StateSnapshot, op string) {
	s.form.Apply(snap)
	s.form.UpdatedAt = s.now()
	s.dropStaleSelection()
	s.notify(Event{Op: op})
}

func (s *Store) CanUndo() bool { return s.history.CanUndo() }
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// UndoDepth reports how many checkpoints can be undone.
func (s *Store) UndoDepth() int { return s.history.UndoDepth() }

// NewForm replaces the live definition with an empty one and starts a fresh
// history.
func (s *Store) NewForm() {
	s.replace(s.emptyForm(), "")
	s.notify(Event{Op: "newForm"})
}

// LoadForm replaces the live definition with the saved form id and starts a
// fresh history.
func (s *Store) LoadForm(id string) error {
	idx := savedIndex(s.saved, id)
	if idx < 0 {
		return ErrFormNotFound
	}
	s.replace(s.saved[idx].Data.Clone(), id)
	s.notify(Event{Op: "loadForm"})
	return nil
}

func (s *Store) replace(form model.FormDefinition, currentID string) {
	if form.Fields == nil {
		form.Fields = []model.FieldDefinition{}
	}
	if form.Groups == nil {
		form.Groups = []model.FieldGroup{}
	}
	if form.CrossValidators == nil {
		form.CrossValidators = []model.CrossValidatorDef{}
	}
	s.form = form
	s.selected = ""
	s.currentFormID = currentID
	s.history.Clear()
}
