package history

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func formWith(names ...string) model.FormDefinition {
	form := model.FormDefinition{Settings: model.DefaultSettings()}
	for i, name := range names {
		form.Fields = append(form.Fields, model.FieldDefinition{
			ID:    name,
			Type:  model.FieldTypeText,
			Name:  name,
			Label: name,
			Order: i,
		})
	}
	return form
}

func names(fields []model.FieldDefinition) []string {
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = field.Name
	}
	return out
}

func TestUndoRedoRoundTrip(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := New(0, WithClock(func() time.Time { return fixed }))
	if m.Limit() != DefaultLimit {
		t.Fatalf("expected default limit, got %d", m.Limit())
	}

	before := formWith("a")
	m.Snapshot(before)
	after := formWith("a", "b")

	snap, ok := m.Undo(after)
	if !ok {
		t.Fatalf("expected undo")
	}
	if diff := cmp.Diff([]string{"a"}, names(snap.Fields)); diff != "" {
		t.Fatalf("undo mismatch (-want +got):\n%s", diff)
	}
	if !snap.Timestamp.Equal(fixed) {
		t.Fatalf("unexpected timestamp %v", snap.Timestamp)
	}
	if m.CanUndo() || !m.CanRedo() {
		t.Fatalf("expected only redo to be available")
	}

	snap, ok = m.Redo(before)
	if !ok {
		t.Fatalf("expected redo")
	}
	if diff := cmp.Diff([]string{"a", "b"}, names(snap.Fields)); diff != "" {
		t.Fatalf("redo mismatch (-want +got):\n%s", diff)
	}
	if !m.CanUndo() || m.CanRedo() {
		t.Fatalf("expected only undo to be available")
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	t.Parallel()

	m := New(5)
	if _, ok := m.Undo(formWith("a")); ok {
		t.Fatalf("undo on empty stack must report false")
	}
	if _, ok := m.Redo(formWith("a")); ok {
		t.Fatalf("redo on empty stack must report false")
	}
	if m.UndoDepth() != 0 || m.RedoDepth() != 0 {
		t.Fatalf("empty no-ops must not push anything")
	}
}

func TestSnapshotInvalidatesRedo(t *testing.T) {
	t.Parallel()

	m := New(10)
	m.Snapshot(formWith())
	m.Undo(formWith("a"))
	if !m.CanRedo() {
		t.Fatalf("expected redo after undo")
	}
	m.Snapshot(formWith())
	if m.CanRedo() {
		t.Fatalf("new snapshot must clear redo")
	}
}

func TestStacksAreBounded(t *testing.T) {
	t.Parallel()

	m := New(DefaultLimit)
	for i := 0; i < 60; i++ {
		ids := make([]string, i)
		for j := range ids {
			ids[j] = string(rune('a' + j%26))
		}
		m.Snapshot(formWith(ids...))
	}
	if m.UndoDepth() != 50 {
		t.Fatalf("expected 50 undo entries, got %d", m.UndoDepth())
	}

	// The oldest ten snapshots (0..9 fields) were evicted.
	var last model.StateSnapshot
	for m.CanUndo() {
		last, _ = m.Undo(formWith())
	}
	if len(last.Fields) != 10 {
		t.Fatalf("expected oldest surviving snapshot to hold 10 fields, got %d", len(last.Fields))
	}
	if m.RedoDepth() != 50 {
		t.Fatalf("expected redo stack bounded at 50, got %d", m.RedoDepth())
	}
}

func TestSnapshotsDoNotAliasLiveState(t *testing.T) {
	t.Parallel()

	m := New(3)
	live := formWith("a")
	live.Fields[0].Config.Options = []model.Option{{Label: "x", Value: "x"}}
	m.Snapshot(live)

	live.Fields[0].Name = "mutated"
	live.Fields[0].Config.Options[0].Label = "mutated"

	snap, _ := m.Undo(live)
	if snap.Fields[0].Name != "a" || snap.Fields[0].Config.Options[0].Label != "x" {
		t.Fatalf("snapshot aliased live definition: %+v", snap.Fields[0])
	}

	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Fatalf("clear must drop both stacks")
	}
}
