package formbuilder

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ThemeSet is a theme.ThemeSelector over a fixed list of manifests.
type ThemeSet struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
}

// NewThemeSet registers manifests by name. Later duplicates replace earlier
// ones.
func NewThemeSet(manifests ...*theme.Manifest) *ThemeSet {
	set := &ThemeSet{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		set.Add(manifest)
	}
	return set
}

// DefaultThemes returns the light and dark themes the builder ships with.
func DefaultThemes() *ThemeSet {
	return NewThemeSet(
		&theme.Manifest{Name: "light", Version: "1.0.0"},
		&theme.Manifest{Name: "dark", Version: "1.0.0"},
	)
}

// Add registers manifest.
func (s *ThemeSet) Add(manifest *theme.Manifest) {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[manifest.Name] = manifest
}

// Names returns the registered theme names, sorted.
func (s *ThemeSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector. An empty variant selects the base
// theme; a named variant must be declared by the manifest.
func (s *ThemeSet) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("formbuilder: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("formbuilder: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

var _ theme.ThemeSelector = (*ThemeSet)(nil)
