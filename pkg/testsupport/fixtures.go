package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// SampleDefinition returns a small contact form exercising groups, an
// unknown field type, an html block, a conditional rule and a cross
// validator. Every call returns a fresh copy.
func SampleDefinition() model.FormDefinition {
	minLength := 2
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return model.FormDefinition{
		ID:   "form-1",
		Name: "Contact Form",
		Groups: []model.FieldGroup{
			{ID: "g1", Name: "details", Label: "Details", Order: 0},
		},
		Fields: []model.FieldDefinition{
			{
				ID: "f1", Type: model.FieldTypeText, Name: "name", Label: "Name", Order: 0,
				Config: model.Config{Required: true, MinLength: &minLength},
			},
			{
				ID: "f2", Type: model.FieldTypeEmail, Name: "email", Label: "Email", GroupID: "g1", Order: 1,
				Config: model.Config{
					Placeholder: "you@example.com",
					ShowWhen:    &model.ConditionalRule{Field: "name", Operator: model.OperatorIsNotEmpty},
				},
			},
			{ID: "f3", Type: "mystery", Name: "nick", Label: "Nick's", Order: 2},
			{
				ID: "f4", Type: model.FieldTypeHTML, Name: "intro", Label: "Intro", Order: 3,
				Config: model.Config{Content: "<p>Hi</p><script>x</script>"},
			},
		},
		Settings: model.DefaultSettings(),
		CrossValidators: []model.CrossValidatorDef{
			{ID: "v1", Name: "At least one", Type: model.ValidatorAtLeastOne, Fields: []string{"name", "email"}, Message: "Provide one"},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// LoadDefinition reads a JSON definition fixture.
func LoadDefinition(t *testing.T, path string) model.FormDefinition {
	t.Helper()

	def, err := LoadDefinitionFromPath(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinitionFromPath is LoadDefinition for callers without a
// testing.T.
func LoadDefinitionFromPath(path string) (model.FormDefinition, error) {
	if path == "" {
		return model.FormDefinition{}, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("testsupport: read definition: %w", err)
	}
	var out model.FormDefinition
	if err := json.Unmarshal(data, &out); err != nil {
		return model.FormDefinition{}, fmt.Errorf("testsupport: unmarshal definition: %w", err)
	}
	return out, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
