package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSectionsOrdersUngroupedFirst(t *testing.T) {
	t.Parallel()

	def := FormDefinition{
		Groups: []FieldGroup{
			{ID: "g2", Name: "second", Order: 1},
			{ID: "g1", Name: "first", Order: 0},
		},
		Fields: []FieldDefinition{
			{ID: "a", Name: "a", GroupID: "g2", Order: 0},
			{ID: "b", Name: "b", Order: 3},
			{ID: "c", Name: "c", GroupID: "missing", Order: 1},
			{ID: "d", Name: "d", GroupID: "g1", Order: 2},
		},
	}

	var got [][]string
	var groups []string
	for _, section := range def.Sections() {
		ids := []string{}
		for _, field := range section.Fields {
			ids = append(ids, field.ID)
		}
		got = append(got, ids)
		if section.Group == nil {
			groups = append(groups, "")
		} else {
			groups = append(groups, section.Group.ID)
		}
	}

	if diff := cmp.Diff([][]string{{"c", "b"}, {"d"}, {"a"}}, got); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "g1", "g2"}, groups); diff != "" {
		t.Fatalf("group order mismatch (-want +got):\n%s", diff)
	}
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{"name_copy": true, "name_copy_2": true}
	if got := UniqueName("name_copy", func(s string) bool { return taken[s] }); got != "name_copy_3" {
		t.Fatalf("expected name_copy_3, got %s", got)
	}
	if got := UniqueName("free", nil); got != "free" {
		t.Fatalf("expected free, got %s", got)
	}
}
