// Package store owns the live form definition. Every edit goes through a
// Store method which snapshots the previous state into the history before
// applying the change, so undo and redo stay consistent with the edit log.
//
// Values returned by the Store are deep copies. Callers change the
// definition only through Store methods.
package store

import (
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/clipboard"
	"github.com/goliatone/go-formbuilder/pkg/history"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	ErrFieldNotFound      = errors.New("store: field not found")
	ErrGroupNotFound      = errors.New("store: group not found")
	ErrValidatorNotFound  = errors.New("store: cross validator not found")
	ErrFormNotFound       = errors.New("store: saved form not found")
	ErrDuplicateFieldName = errors.New("store: duplicate field name")
	ErrInvalidImport      = errors.New("store: invalid import")
	ErrClipboardEmpty     = clipboard.ErrEmpty
)

// errUnchanged aborts a mutation without recording a snapshot.
var errUnchanged = errors.New("store: unchanged")

const (
	DefaultTheme    = "light"
	DefaultLanguage = "en"
)

// Option customises a Store.
type Option func(*Store)

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithHistoryLimit bounds the undo and redo stacks.
func WithHistoryLimit(limit int) Option {
	return func(s *Store) {
		s.historyLimit = limit
	}
}

// WithLogger routes store diagnostics to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithThemeSelector validates theme preferences against a go-theme selector.
// Without one any theme name is accepted.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(s *Store) {
		s.themes = selector
	}
}

// WithDefaultSettings sets the settings used for new forms.
func WithDefaultSettings(settings model.FormSettings) Option {
	return func(s *Store) {
		s.defaults = settings
	}
}

// Event describes a completed mutation.
type Event struct {
	Op      string
	FieldID string
}

// Listener is called synchronously after every mutation.
type Listener func(Event)

// Store is the single owner of the live definition. It is not safe for
// concurrent use.
type Store struct {
	form     model.FormDefinition
	selected string

	history   *history.Manager
	clipboard *clipboard.Manager

	saved         []model.SavedForm
	currentFormID string
	theme         string
	language      string

	newID        func() string
	now          func() time.Time
	logger       logrus.FieldLogger
	themes       theme.ThemeSelector
	defaults     model.FormSettings
	historyLimit int

	listeners    map[int]Listener
	nextListener int
}

// New constructs a Store holding an empty form.
func New(opts ...Option) *Store {
	s := &Store{
		clipboard: clipboard.New(),
		theme:     DefaultTheme,
		language:  DefaultLanguage,
		newID:     uuid.NewString,
		now:       time.Now,
		logger:    discardLogger(),
		defaults:  model.DefaultSettings(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.history = history.New(s.historyLimit, history.WithClock(s.now))
	s.form = s.emptyForm()
	return s
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func (s *Store) emptyForm() model.FormDefinition {
	now := s.now()
	return model.FormDefinition{
		ID:              s.newID(),
		Name:            "Untitled Form",
		Fields:          []model.FieldDefinition{},
		Groups:          []model.FieldGroup{},
		Settings:        s.defaults,
		CrossValidators: []model.CrossValidatorDef{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Subscribe registers listener and returns a function that removes it.
func (s *Store) Subscribe(listener Listener) (cancel func()) {
	if listener == nil {
		return func() {}
	}
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener
	return func() { delete(s.listeners, id) }
}

func (s *Store) notify(event Event) {
	for id := 0; id < s.nextListener; id++ {
		if listener, ok := s.listeners[id]; ok {
			listener(event)
		}
	}
}

// mutate applies fn to a working copy of the form. When fn succeeds the
// previous form is snapshotted and the copy becomes live; when it fails, or
// returns errUnchanged, nothing changes.
func (s *Store) mutate(op string, fn func(form *model.FormDefinition) (string, error)) error {
	next := s.form.Clone()
	fieldID, err := fn(&next)
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	s.history.Snapshot(s.form)
	next.UpdatedAt = s.now()
	s.form = next
	s.logger.WithFields(logrus.Fields{
		"op":         op,
		"undo_depth": s.history.UndoDepth(),
	}).Debug("store: snapshot recorded")
	s.dropStaleSelection()
	s.notify(Event{Op: op, FieldID: fieldID})
	return nil
}

func (s *Store) dropStaleSelection() {
	if s.selected != "" && s.form.FieldIndex(s.selected) < 0 {
		s.selected = ""
	}
}

// Form returns a deep copy of the live definition.
func (s *Store) Form() model.FormDefinition {
	return s.form.Clone()
}

// Fields returns a copy of the fields in array order.
func (s *Store) Fields() []model.FieldDefinition {
	return model.CloneFields(s.form.Fields)
}

// Groups returns a copy of the groups.
func (s *Store) Groups() []model.FieldGroup {
	return model.CloneGroups(s.form.Groups)
}

// CrossValidators returns a copy of the cross validators.
func (s *Store) CrossValidators() []model.CrossValidatorDef {
	return model.CloneValidators(s.form.CrossValidators)
}

// Settings returns the current form settings.
func (s *Store) Settings() model.FormSettings {
	return s.form.Settings
}

// GroupedFields recomputes the render sections of the live definition.
func (s *Store) GroupedFields() []model.Section {
	return s.form.Sections()
}

// Field returns the field with id.
func (s *Store) Field(id string) (model.FieldDefinition, error) {
	idx := s.form.FieldIndex(id)
	if idx < 0 {
		return model.FieldDefinition{}, ErrFieldNotFound
	}
	return s.form.Fields[idx].Clone(), nil
}

// FieldByName returns the field called name.
func (s *Store) FieldByName(name string) (model.FieldDefinition, error) {
	field, ok := s.form.FieldByName(name)
	if !ok {
		return model.FieldDefinition{}, ErrFieldNotFound
	}
	return field, nil
}

// HasFieldName reports whether any field is called name.
func (s *Store) HasFieldName(name string) bool {
	_, ok := s.form.FieldByName(name)
	return ok
}

// Select marks the field with id as selected. An empty id clears the
// selection.
func (s *Store) Select(id string) error {
	if id != "" && s.form.FieldIndex(id) < 0 {
		return ErrFieldNotFound
	}
	s.selected = id
	return nil
}

// Selected returns the selected field, if any.
func (s *Store) Selected() (model.FieldDefinition, bool) {
	idx := s.form.FieldIndex(s.selected)
	if s.selected == "" || idx < 0 {
		return model.FieldDefinition{}, false
	}
	return s.form.Fields[idx].Clone(), true
}

// UpdateFormMeta changes the form name and description. Metadata edits are
// not recorded in the history.
func (s *Store) UpdateFormMeta(name, description string) {
	s.form.Name = name
	s.form.Description = description
	s.form.UpdatedAt = s.now()
	s.notify(Event{Op: "updateFormMeta"})
}
