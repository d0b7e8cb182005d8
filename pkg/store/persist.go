package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// SaveForm stores a copy of the live definition in the saved forms list,
// replacing an earlier save of the same form, and marks it current.
func (s *Store) SaveForm() model.SavedForm {
	saved := model.SavedForm{
		ID:          s.form.ID,
		Name:        s.form.Name,
		Description: s.form.Description,
		Data:        s.form.Clone(),
		SavedAt:     s.now(),
	}
	if idx := savedIndex(s.saved, saved.ID); idx >= 0 {
		s.saved[idx] = saved
	} else {
		s.saved = append(s.saved, saved)
	}
	s.currentFormID = saved.ID
	s.notify(Event{Op: "saveForm"})
	return saved.Clone()
}

// SavedForms returns a copy of the saved forms.
func (s *Store) SavedForms() []model.SavedForm {
	out := make([]model.SavedForm, len(s.saved))
	for i, saved := range s.saved {
		out[i] = saved.Clone()
	}
	return out
}

// DeleteSavedForm drops the saved form with id.
func (s *Store) DeleteSavedForm(id string) error {
	idx := savedIndex(s.saved, id)
	if idx < 0 {
		return ErrFormNotFound
	}
	s.saved = append(s.saved[:idx], s.saved[idx+1:]...)
	if s.currentFormID == id {
		s.currentFormID = ""
	}
	s.notify(Event{Op: "deleteSavedForm"})
	return nil
}

func savedIndex(saved []model.SavedForm, id string) int {
	for i, form := range saved {
		if form.ID == id {
			return i
		}
	}
	return -1
}

// CurrentFormID is the id of the saved form being edited, if any.
func (s *Store) CurrentFormID() string { return s.currentFormID }

// Theme returns the theme preference.
func (s *Store) Theme() string { return s.theme }

// Language returns the language preference.
func (s *Store) Language() string { return s.language }

// SetTheme changes the theme preference. With a theme selector configured
// the name must resolve.
func (s *Store) SetTheme(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTheme
	}
	if err := s.checkTheme(name); err != nil {
		return err
	}
	s.theme = name
	s.notify(Event{Op: "setTheme"})
	return nil
}

func (s *Store) checkTheme(name string) error {
	if s.themes == nil {
		return nil
	}
	selection, err := s.themes.Select(name, "")
	if err != nil {
		return fmt.Errorf("store: theme %q: %w", name, err)
	}
	if selection == nil {
		return fmt.Errorf("store: theme %q: no selection", name)
	}
	return nil
}

// SetLanguage changes the language preference.
func (s *Store) SetLanguage(language string) {
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}
	s.language = language
	s.notify(Event{Op: "setLanguage"})
}

// State returns the blob handed to the storage collaborator.
func (s *Store) State() model.PersistedState {
	return model.PersistedState{
		SavedForms:    s.SavedForms(),
		Theme:         s.theme,
		Language:      s.language,
		CurrentFormID: s.currentFormID,
	}
}

// MarshalState encodes State as JSON.
func (s *Store) MarshalState() ([]byte, error) {
	data, err := json.Marshal(s.State())
	if err != nil {
		return nil, fmt.Errorf("store: marshal state: %w", err)
	}
	return data, nil
}

var errInvalidState = errors.New("store: invalid persisted state")

type persistedBlob struct {
	SavedForms    *[]persistedForm `json:"savedForms"`
	Theme         *string          `json:"theme"`
	Language      *string          `json:"language"`
	CurrentFormID *string          `json:"currentFormId"`
}

type persistedForm struct {
	model.SavedForm
	Data json.RawMessage `json:"data"`
}

// RestoreState replaces saved forms and preferences with the ones in data.
// The blob is validated as a whole: when any part of it is malformed it is
// discarded, nothing changes and false is returned. An unknown theme falls
// back to DefaultTheme. When currentFormId names a saved form, that form is
// loaded.
func (s *Store) RestoreState(data []byte) bool {
	state, err := decodeState(data)
	if err != nil {
		s.logger.WithError(err).Warn("store: persisted state discarded")
		return false
	}

	if err := s.checkTheme(state.Theme); err != nil {
		s.logger.WithFields(logrus.Fields{"theme": state.Theme}).WithError(err).Warn("store: unknown theme, using default")
		state.Theme = DefaultTheme
	}

	s.saved = state.SavedForms
	s.theme = state.Theme
	s.language = state.Language
	s.currentFormID = ""
	if idx := savedIndex(s.saved, state.CurrentFormID); state.CurrentFormID != "" && idx >= 0 {
		s.replace(s.saved[idx].Data.Clone(), state.CurrentFormID)
	}
	s.notify(Event{Op: "restoreState"})
	return true
}

func decodeState(data []byte) (model.PersistedState, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.PersistedState{}, fmt.Errorf("%w: expected an object", errInvalidState)
	}
	var blob persistedBlob
	if err := json.Unmarshal(trimmed, &blob); err != nil {
		return model.PersistedState{}, fmt.Errorf("%w: %v", errInvalidState, err)
	}
	if blob.SavedForms == nil {
		return model.PersistedState{}, fmt.Errorf("%w: missing savedForms", errInvalidState)
	}

	state := model.PersistedState{
		SavedForms: make([]model.SavedForm, 0, len(*blob.SavedForms)),
		Theme:      DefaultTheme,
		Language:   DefaultLanguage,
	}
	if blob.Theme != nil && strings.TrimSpace(*blob.Theme) != "" {
		state.Theme = *blob.Theme
	}
	if blob.Language != nil && strings.TrimSpace(*blob.Language) != "" {
		state.Language = *blob.Language
	}
	if blob.CurrentFormID != nil {
		state.CurrentFormID = *blob.CurrentFormID
	}

	ids := make(map[string]struct{}, len(*blob.SavedForms))
	for i, entry := range *blob.SavedForms {
		if strings.TrimSpace(entry.ID) == "" {
			return model.PersistedState{}, fmt.Errorf("%w: saved form %d has no id", errInvalidState, i)
		}
		if _, dup := ids[entry.ID]; dup {
			return model.PersistedState{}, fmt.Errorf("%w: duplicate saved form %q", errInvalidState, entry.ID)
		}
		ids[entry.ID] = struct{}{}

		form, err := decodeSavedDefinition(entry.Data)
		if err != nil {
			return model.PersistedState{}, fmt.Errorf("%w: saved form %q: %v", errInvalidState, entry.ID, err)
		}
		saved := entry.SavedForm
		saved.Data = form
		state.SavedForms = append(state.SavedForms, saved)
	}
	return state, nil
}

func decodeSavedDefinition(raw json.RawMessage) (model.FormDefinition, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.FormDefinition{}, errors.New("data is not an object")
	}
	var shape struct {
		Fields *json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(trimmed, &shape); err != nil {
		return model.FormDefinition{}, err
	}
	if shape.Fields == nil {
		return model.FormDefinition{}, errors.New("data has no fields")
	}
	form := model.FormDefinition{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(trimmed, &form); err != nil {
		return model.FormDefinition{}, err
	}
	if form.Fields == nil {
		return model.FormDefinition{}, errors.New("data fields is not an array")
	}
	return form, nil
}
