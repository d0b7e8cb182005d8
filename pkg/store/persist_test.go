package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	theme "github.com/goliatone/go-theme"
)

type stubThemes struct {
	known map[string]bool
}

func (s stubThemes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if !s.known[name] {
		return nil, errors.New("theme not registered")
	}
	return &theme.Selection{Theme: name, Variant: variant}, nil
}

func TestSaveAndLoadForms(t *testing.T) {
	t.Parallel()

	s := populated(t)
	s.UpdateFormMeta("Contact", "reach us")
	saved := s.SaveForm()
	if saved.Name != "Contact" || s.CurrentFormID() != saved.ID {
		t.Fatalf("unexpected saved form %+v", saved)
	}
	s.SaveForm()
	if len(s.SavedForms()) != 1 {
		t.Fatalf("saving twice must replace the entry")
	}

	s.NewForm()
	if len(s.Fields()) != 0 || s.CanUndo() || s.CanRedo() {
		t.Fatalf("new form must start empty with a fresh history")
	}

	if err := s.LoadForm(saved.ID); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s.Fields()) != 3 || s.CanUndo() {
		t.Fatalf("load must restore fields with a fresh history")
	}
	if err := s.LoadForm("missing"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}

	if err := s.DeleteSavedForm(saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.SavedForms()) != 0 || s.CurrentFormID() != "" {
		t.Fatalf("delete must drop the entry and the current id")
	}
}

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	source := populated(t)
	source.SaveForm()
	source.SetLanguage("es")
	if err := source.SetTheme("dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	blob, err := source.MarshalState()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	target := newTestStore(t)
	if !target.RestoreState(blob) {
		t.Fatalf("expected restore to succeed")
	}
	if diff := cmp.Diff(source.State(), target.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(portableFields(source.Fields()), portableFields(target.Fields())); diff != "" {
		t.Fatalf("current form not loaded (-want +got):\n%s", diff)
	}
}

func TestRestoreDiscardsInvalidBlob(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":          `savedForms`,
		"array":             `[]`,
		"missing forms":     `{"theme": "dark"}`,
		"forms not list":    `{"savedForms": {"a": 1}}`,
		"form without id":   `{"savedForms": [{"name": "x", "data": {"fields": []}}]}`,
		"data not object":   `{"savedForms": [{"id": "a", "data": []}]}`,
		"data no fields":    `{"savedForms": [{"id": "a", "data": {"name": "x"}}]}`,
		"bad saved at":      `{"savedForms": [{"id": "a", "savedAt": "yesterday", "data": {"fields": []}}]}`,
		"theme not string":  `{"savedForms": [], "theme": 3}`,
		"duplicate form id": `{"savedForms": [{"id": "a", "data": {"fields": []}}, {"id": "a", "data": {"fields": []}}]}`,
	}

	for name, blob := range cases {
		blob := blob
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := populated(t)
			s.SaveForm()
			before := s.State()

			if s.RestoreState([]byte(blob)) {
				t.Fatalf("expected blob to be rejected")
			}
			if diff := cmp.Diff(before, s.State()); diff != "" {
				t.Fatalf("state changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestRestoreFallsBackToDefaultTheme(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, WithThemeSelector(stubThemes{known: map[string]bool{DefaultTheme: true, "dark": true}}))
	if err := s.SetTheme("neon"); err == nil {
		t.Fatalf("expected unknown theme to be rejected")
	}
	if err := s.SetTheme("dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}

	ok := s.RestoreState([]byte(`{"savedForms": [], "theme": "neon", "language": "fr", "currentFormId": "gone"}`))
	if !ok {
		t.Fatalf("expected restore to succeed")
	}
	if s.Theme() != DefaultTheme || s.Language() != "fr" || s.CurrentFormID() != "" {
		t.Fatalf("unexpected preferences theme=%q language=%q current=%q", s.Theme(), s.Language(), s.CurrentFormID())
	}
}
