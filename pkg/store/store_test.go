package store

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	next := 0
	base := []Option{
		WithIDGenerator(func() string {
			next++
			return "id-" + strconv.Itoa(next)
		}),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }),
	}
	return New(append(base, opts...)...)
}

func editable(s *Store) model.StateSnapshot {
	snap := s.Form().Snapshot(time.Time{})
	return snap
}

func mustAdd(t *testing.T, s *Store, field model.FieldDefinition, group string) model.FieldDefinition {
	t.Helper()
	created, err := s.AddField(field, group)
	if err != nil {
		t.Fatalf("add field %q: %v", field.Name, err)
	}
	return created
}

func fieldNames(fields []model.FieldDefinition) []string {
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = field.Name
	}
	return out
}

func fieldOrders(fields []model.FieldDefinition) []int {
	out := make([]int, len(fields))
	for i, field := range fields {
		out[i] = field.Order
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestUndoRedoInverseLaw(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	initial := editable(s)

	first := mustAdd(t, s, model.FieldDefinition{Type: model.FieldTypeText, Name: "first", Label: "First"}, "")
	second := mustAdd(t, s, model.FieldDefinition{Type: model.FieldTypeEmail, Name: "email", Label: "Email"}, "")
	mustAdd(t, s, model.FieldDefinition{Type: model.FieldTypeNumber, Name: "age", Label: "Age"}, "")
	steps := []func() error{
		func() error { return s.UpdateFieldConfig(first.ID, "required", true) },
		func() error { return s.MoveField(second.ID, Up) },
		func() error {
			group, err := s.AddGroup(model.FieldGroup{Name: "contact", Label: "Contact"})
			if err != nil {
				return err
			}
			return s.MoveFieldToGroup(second.ID, group.ID)
		},
		func() error { return s.UpdateSettings(SettingsPatch{Layout: ptr("horizontal")}) },
		func() error {
			_, err := s.AddCrossValidator(model.CrossValidatorDef{Name: "one", Type: model.ValidatorAtLeastOne, Fields: []string{"first", "email"}})
			return err
		},
		func() error { _, err := s.DuplicateField(first.ID); return err },
		func() error { return s.ReorderFields(0, 2) },
		func() error { return s.RemoveField(first.ID) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	final := editable(s)

	n := s.UndoDepth()
	if n != 12 {
		t.Fatalf("expected 12 checkpoints, got %d", n)
	}
	for i := 0; i < n; i++ {
		if !s.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if s.Undo() {
		t.Fatalf("undo past the first checkpoint must be a no-op")
	}
	if diff := cmp.Diff(initial, editable(s)); diff != "" {
		t.Fatalf("undo did not restore the initial state (-want +got):\n%s", diff)
	}

	for i := 0; i < n; i++ {
		if !s.Redo() {
			t.Fatalf("redo %d failed", i)
		}
	}
	if diff := cmp.Diff(final, editable(s)); diff != "" {
		t.Fatalf("redo did not restore the final state (-want +got):\n%s", diff)
	}
}

func TestMutationAfterUndoInvalidatesRedo(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	mustAdd(t, s, model.FieldDefinition{Name: "a"}, "")
	s.Undo()
	if !s.CanRedo() {
		t.Fatalf("expected redo after undo")
	}
	mustAdd(t, s, model.FieldDefinition{Name: "b"}, "")
	if s.CanRedo() {
		t.Fatalf("new mutation must clear redo")
	}
}

func TestHistoryIsBounded(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for i := 0; i < 60; i++ {
		mustAdd(t, s, model.FieldDefinition{Type: model.FieldTypeText}, "")
	}
	if s.UndoDepth() != 50 {
		t.Fatalf("expected 50 checkpoints, got %d", s.UndoDepth())
	}
	for s.Undo() {
	}
	if got := len(s.Fields()); got != 10 {
		t.Fatalf("expected the oldest surviving checkpoint to hold 10 fields, got %d", got)
	}
}

func TestAddFieldNamesAndSelection(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	created := mustAdd(t, s, model.FieldDefinition{Type: model.FieldTypeEmail}, "")
	if created.Name != "email_1" || created.Order != 0 {
		t.Fatalf("unexpected generated field %+v", created)
	}
	selected, ok := s.Selected()
	if !ok || selected.ID != created.ID {
		t.Fatalf("expected new field selected")
	}

	_, err := s.AddField(model.FieldDefinition{Name: "email_1"}, "")
	if !errors.Is(err, ErrDuplicateFieldName) {
		t.Fatalf("expected ErrDuplicateFieldName, got %v", err)
	}
	_, err = s.AddField(model.FieldDefinition{Name: "x"}, "missing")
	if !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	if s.UndoDepth() != 1 {
		t.Fatalf("failed adds must not record checkpoints, depth %d", s.UndoDepth())
	}

	if err := s.RemoveField(created.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("removing the selected field must deselect it")
	}
}

func TestUpdateFieldRejectsDuplicateRename(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	a := mustAdd(t, s, model.FieldDefinition{Name: "a"}, "")
	mustAdd(t, s, model.FieldDefinition{Name: "b"}, "")

	if err := s.UpdateField(a.ID, FieldPatch{Name: ptr("b")}); !errors.Is(err, ErrDuplicateFieldName) {
		t.Fatalf("expected ErrDuplicateFieldName, got %v", err)
	}
	if err := s.UpdateField(a.ID, FieldPatch{Name: ptr("a"), Label: ptr("Alpha")}); err != nil {
		t.Fatalf("self rename: %v", err)
	}
	got, _ := s.Field(a.ID)
	if got.Label != "Alpha" {
		t.Fatalf("expected label update, got %q", got.Label)
	}
	if err := s.UpdateField("nope", FieldPatch{}); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestReorderFieldsRenumbersDensely(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, name := range []string{"zero", "one", "two"} {
		mustAdd(t, s, model.FieldDefinition{Name: name}, "")
	}
	if err := s.ReorderFields(0, 2); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	fields := s.Fields()
	if diff := cmp.Diff([]string{"one", "two", "zero"}, fieldNames(fields)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, fieldOrders(fields)); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}

	depth := s.UndoDepth()
	if err := s.ReorderFields(1, 1); err != nil {
		t.Fatalf("equal reorder: %v", err)
	}
	if err := s.ReorderFields(0, 9); err != nil {
		t.Fatalf("out of range reorder: %v", err)
	}
	if s.UndoDepth() != depth {
		t.Fatalf("no-op reorders must not record checkpoints")
	}
}

func TestMoveFieldSwapsAndIgnoresBounds(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	a := mustAdd(t, s, model.FieldDefinition{Name: "a"}, "")
	b := mustAdd(t, s, model.FieldDefinition{Name: "b"}, "")
	mustAdd(t, s, model.FieldDefinition{Name: "c"}, "")

	if err := s.MoveField(b.ID, Down); err != nil {
		t.Fatalf("move down: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c", "b"}, fieldNames(s.Fields())); diff != "" {
		t.Fatalf("move mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, fieldOrders(s.Fields())); diff != "" {
		t.Fatalf("orders mismatch (-want +got):\n%s", diff)
	}

	depth := s.UndoDepth()
	if err := s.MoveField(a.ID, Up); err != nil {
		t.Fatalf("move past top: %v", err)
	}
	if err := s.MoveField(b.ID, Down); err != nil {
		t.Fatalf("move past bottom: %v", err)
	}
	if s.UndoDepth() != depth {
		t.Fatalf("bound moves must be no-ops")
	}
}

func TestDuplicateFieldCopiesConfigDeeply(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	group, _ := s.AddGroup(model.FieldGroup{Name: "g"})
	original := mustAdd(t, s, model.FieldDefinition{
		Type:  model.FieldTypeSelect,
		Name:  "color",
		Label: "Color",
		Config: model.Config{
			Options:  []model.Option{{Label: "Red", Value: "red"}},
			ShowWhen: &model.ConditionalRule{Field: "x", Operator: model.OperatorEquals, Value: "y"},
		},
	}, group.ID)

	dup, err := s.DuplicateField(original.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.Name != "color_copy" || dup.Label != "Color (Copy)" || dup.GroupID != group.ID {
		t.Fatalf("unexpected duplicate %+v", dup)
	}
	again, _ := s.DuplicateField(original.ID)
	if again.Name != "color_copy_2" {
		t.Fatalf("expected numeric suffix, got %q", again.Name)
	}

	if err := s.UpdateFieldConfig(dup.ID, "options", []model.Option{{Label: "Blue", Value: "blue"}}); err != nil {
		t.Fatalf("update config: %v", err)
	}
	got, _ := s.Field(original.ID)
	if got.Config.Options[0].Value != "red" {
		t.Fatalf("duplicate aliased original config")
	}
}

func TestRemoveGroupDetachesFields(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	group, _ := s.AddGroup(model.FieldGroup{Name: "personal"})
	other, _ := s.AddGroup(model.FieldGroup{Name: "other"})
	field := mustAdd(t, s, model.FieldDefinition{Name: "first"}, group.ID)

	if err := s.RemoveGroup(group.ID); err != nil {
		t.Fatalf("remove group: %v", err)
	}
	got, err := s.Field(field.ID)
	if err != nil {
		t.Fatalf("field must survive group removal: %v", err)
	}
	if got.GroupID != "" {
		t.Fatalf("expected field ungrouped, got %q", got.GroupID)
	}
	groups := s.Groups()
	if len(groups) != 1 || groups[0].ID != other.ID || groups[0].Order != 0 {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if err := s.RemoveGroup(group.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestClearAllFieldsAndMeta(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	group, _ := s.AddGroup(model.FieldGroup{Name: "g"})
	mustAdd(t, s, model.FieldDefinition{Name: "a"}, group.ID)
	s.AddCrossValidator(model.CrossValidatorDef{Type: model.ValidatorAtLeastOne, Fields: []string{"a"}})

	depth := s.UndoDepth()
	s.UpdateFormMeta("Signup", "desc")
	if s.UndoDepth() != depth {
		t.Fatalf("meta edits must not be recorded")
	}

	if err := s.ClearAllFields(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	form := s.Form()
	if len(form.Fields) != 0 || len(form.Groups) != 0 || len(form.CrossValidators) != 0 {
		t.Fatalf("expected empty form, got %+v", form)
	}
	if form.Name != "Signup" {
		t.Fatalf("clear must keep metadata")
	}
	s.Undo()
	if len(s.Fields()) != 1 || len(s.Groups()) != 1 || len(s.CrossValidators()) != 1 {
		t.Fatalf("undo must restore everything cleared")
	}
}

func TestCrossValidatorLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	v, err := s.AddCrossValidator(model.CrossValidatorDef{Name: "match", Type: model.ValidatorFieldsMatch, Fields: []string{"a", "b"}, Message: "must match"})
	if err != nil {
		t.Fatalf("add validator: %v", err)
	}
	if err := s.UpdateCrossValidator(v.ID, ValidatorPatch{Message: ptr("differs"), Fields: []string{"a", "c"}}); err != nil {
		t.Fatalf("update validator: %v", err)
	}
	got := s.CrossValidators()[0]
	if got.Message != "differs" || got.Fields[1] != "c" {
		t.Fatalf("unexpected validator %+v", got)
	}
	if err := s.RemoveCrossValidator(v.ID); err != nil {
		t.Fatalf("remove validator: %v", err)
	}
	if err := s.RemoveCrossValidator(v.ID); !errors.Is(err, ErrValidatorNotFound) {
		t.Fatalf("expected ErrValidatorNotFound, got %v", err)
	}
}

func TestClipboardDoesNotAlias(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	original := mustAdd(t, s, model.FieldDefinition{
		Type:   model.FieldTypeSelect,
		Name:   "color",
		Config: model.Config{Options: []model.Option{{Label: "Red", Value: "red"}}},
	}, "")
	if err := s.Copy(original.ID); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if err := s.UpdateFieldConfig(original.ID, "options", []model.Option{{Label: "Green", Value: "green"}}); err != nil {
		t.Fatalf("update: %v", err)
	}

	pasted, err := s.Paste("")
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if pasted.Name != "color_paste" || pasted.ID == original.ID {
		t.Fatalf("unexpected pasted field %+v", pasted)
	}
	if pasted.Config.Options[0].Value != "red" {
		t.Fatalf("clipboard followed later edits of the original")
	}

	if err := s.UpdateFieldConfig(pasted.ID, "options", nil); err != nil {
		t.Fatalf("update pasted: %v", err)
	}
	again, err := s.Paste("")
	if err != nil {
		t.Fatalf("paste again: %v", err)
	}
	if again.Name != "color_paste_2" || len(again.Config.Options) != 1 {
		t.Fatalf("pasted copies share state: %+v", again)
	}

	if err := s.Cut(original.ID); err != nil {
		t.Fatalf("cut: %v", err)
	}
	if _, err := s.Field(original.ID); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("cut must remove the field")
	}
	if !s.HasClipboard() {
		t.Fatalf("expected clipboard entry")
	}
}

func TestPasteWithEmptyClipboard(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.Paste(""); !errors.Is(err, ErrClipboardEmpty) {
		t.Fatalf("expected ErrClipboardEmpty, got %v", err)
	}
}

func TestSubscribeNotifiesAfterMutation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	var events []string
	cancel := s.Subscribe(func(e Event) {
		events = append(events, e.Op+":"+strconv.Itoa(len(s.Fields())))
	})
	mustAdd(t, s, model.FieldDefinition{Name: "a"}, "")
	s.Undo()
	cancel()
	mustAdd(t, s, model.FieldDefinition{Name: "b"}, "")

	if diff := cmp.Diff([]string{"addField:1", "undo:0"}, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupedFields(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	group, _ := s.AddGroup(model.FieldGroup{Name: "g", Label: "G"})
	mustAdd(t, s, model.FieldDefinition{Name: "inside"}, group.ID)
	mustAdd(t, s, model.FieldDefinition{Name: "outside"}, "")

	sections := s.GroupedFields()
	if len(sections) != 2 || sections[0].Group != nil || sections[1].Group.ID != group.ID {
		t.Fatalf("unexpected sections %+v", sections)
	}
	if sections[0].Fields[0].Name != "outside" || sections[1].Fields[0].Name != "inside" {
		t.Fatalf("unexpected section contents")
	}
}
