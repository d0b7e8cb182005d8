// Package clipboard holds at most one copied field definition.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// PasteSuffix is appended to the name of a pasted field.
const PasteSuffix = "_paste"

// ErrEmpty is returned by Paste when nothing has been copied.
var ErrEmpty = errors.New("clipboard: empty")

// FieldStore is the subset of the definition store the clipboard needs for
// cut and paste.
type FieldStore interface {
	AddField(partial model.FieldDefinition, groupID string) (model.FieldDefinition, error)
	RemoveField(id string) error
	HasFieldName(name string) bool
}

// Manager holds the clipboard entry. The entry is a deep copy and never
// aliases the live definition.
type Manager struct {
	entry *model.FieldDefinition
}

// New returns an empty clipboard.
func New() *Manager {
	return &Manager{}
}

// Copy replaces the entry with a deep copy of field.
func (m *Manager) Copy(field model.FieldDefinition) {
	clone := field.Clone()
	m.entry = &clone
}

// Cut copies field and removes it from the store. The entry is kept even when
// removal fails so the caller can retry.
func (m *Manager) Cut(store FieldStore, field model.FieldDefinition) error {
	m.Copy(field)
	if err := store.RemoveField(field.ID); err != nil {
		return fmt.Errorf("clipboard: cut %q: %w", field.ID, err)
	}
	return nil
}

// Paste adds a new field built from the entry to store. The pasted field gets
// a fresh id from the store and a name carrying PasteSuffix. The entry is not
// consumed.
func (m *Manager) Paste(store FieldStore, groupID string) (model.FieldDefinition, error) {
	if m.entry == nil {
		return model.FieldDefinition{}, ErrEmpty
	}
	partial := m.entry.Clone()
	partial.ID = ""
	partial.GroupID = ""
	partial.Name = model.UniqueName(partial.Name+PasteSuffix, store.HasFieldName)
	created, err := store.AddField(partial, groupID)
	if err != nil {
		return model.FieldDefinition{}, fmt.Errorf("clipboard: paste: %w", err)
	}
	return created, nil
}

// Entry returns a copy of the clipboard entry.
func (m *Manager) Entry() (model.FieldDefinition, bool) {
	if m.entry == nil {
		return model.FieldDefinition{}, false
	}
	return m.entry.Clone(), true
}

func (m *Manager) Has() bool { return m.entry != nil }

func (m *Manager) Clear() { m.entry = nil }
