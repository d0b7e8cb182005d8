package codegen

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Templates returns the built-in generator templates.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// templateEngine renders pongo2 templates from an fs.FS and caches the
// parsed templates.
type templateEngine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

func newTemplateEngine(name string, files fs.FS) (*templateEngine, error) {
	if files == nil {
		return nil, errors.New("codegen: template fs is required")
	}
	return &templateEngine{
		set:       pongo2.NewSet(name, pongo2.NewFSLoader(files)),
		templates: make(map[string]*pongo2.Template),
		ext:       ".tpl",
	}, nil
}

func (e *templateEngine) render(name string, data pongo2.Context) (string, error) {
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(data, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("codegen: execute template %q: %w", path, err)
	}
	return buf.String(), nil
}

func (e *templateEngine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("codegen: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}
