package codegen

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrUnknownFormat is returned when no generator is registered for a format.
var ErrUnknownFormat = errors.New("codegen: unknown format")

// Generator renders a definition in one output format.
type Generator interface {
	Format() string
	Generate(def model.FormDefinition) (string, error)
}

// Registry stores generators by format name.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// Register adds a generator under its Format(). Duplicates return an error.
func (r *Registry) Register(generator Generator) error {
	if generator == nil {
		return errors.New("codegen: generator is required")
	}
	format := generator.Format()
	if format == "" {
		return errors.New("codegen: generator format is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generators[format]; exists {
		return fmt.Errorf("codegen: format %q already registered", format)
	}
	r.generators[format] = generator
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(generator Generator) {
	if err := r.Register(generator); err != nil {
		panic(err)
	}
}

// Get retrieves the generator for format.
func (r *Registry) Get(format string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	generator, ok := r.generators[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return generator, nil
}

// List returns the registered formats sorted by name.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.generators))
	for format := range r.generators {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Has reports whether format is registered.
func (r *Registry) Has(format string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.generators[format]
	return ok
}

// Generate renders a copy of def with the generator registered for format.
func (r *Registry) Generate(def model.FormDefinition, format string) (string, error) {
	generator, err := r.Get(format)
	if err != nil {
		return "", err
	}
	out, err := generator.Generate(def.Clone())
	if err != nil {
		return "", fmt.Errorf("codegen: generate %s: %w", format, err)
	}
	return out, nil
}

const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatSchema  = "schema"
	FormatOpenAPI = "openapi"
)

// NewDefaultRegistry returns a registry with every built-in format. opts
// configure the schema generator.
func NewDefaultRegistry(opts ...SchemaOption) (*Registry, error) {
	schema, err := NewSchemaGenerator(opts...)
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	for _, generator := range []Generator{
		NewJSONGenerator(),
		NewYAMLGenerator(),
		schema,
		NewOpenAPIGenerator(),
	} {
		if err := registry.Register(generator); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the shared built-in registry.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = NewDefaultRegistry()
	})
	return defaultRegistry, defaultErr
}

// Generate renders def in format using the shared built-in registry.
func Generate(def model.FormDefinition, format string) (string, error) {
	registry, err := Default()
	if err != nil {
		return "", err
	}
	return registry.Generate(def, format)
}
