// Package formbuilder wires the default collaborators of the form-definition
// engine: the store, the code generators, lint and runtime preview.
package formbuilder

import (
	"github.com/goliatone/go-formbuilder/pkg/codegen"
	"github.com/goliatone/go-formbuilder/pkg/lint"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

// FormDefinition aliases the aggregate root for callers importing only the
// top-level package.
type FormDefinition = model.FormDefinition

// FieldDefinition aliases model.FieldDefinition.
type FieldDefinition = model.FieldDefinition

// NewStore returns a store validating theme preferences against the built-in
// themes unless opts supply another selector.
func NewStore(opts ...store.Option) *store.Store {
	defaults := []store.Option{store.WithThemeSelector(DefaultThemes())}
	return store.New(append(defaults, opts...)...)
}

// Generate renders def in the named format using the built-in generators.
func Generate(def FormDefinition, format string) (string, error) {
	return codegen.Generate(def, format)
}

// Formats lists the built-in output formats.
func Formats() ([]string, error) {
	registry, err := codegen.Default()
	if err != nil {
		return nil, err
	}
	return registry.List(), nil
}

// Lint runs the structural checks over def.
func Lint(def FormDefinition) lint.Result {
	return lint.Run(def)
}

// Preview evaluates def against values.
func Preview(def FormDefinition, values map[string]any, opts ...preview.Option) preview.Result {
	return preview.Evaluate(def, values, opts...)
}
