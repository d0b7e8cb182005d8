package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbuilder/internal/loader"
	"github.com/goliatone/go-formbuilder/pkg/codegen"
	"github.com/goliatone/go-formbuilder/pkg/lint"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

var contentTypes = map[string]string{
	codegen.FormatJSON:    "application/json",
	codegen.FormatOpenAPI: "application/json",
	codegen.FormatYAML:    "application/yaml",
	codegen.FormatSchema:  "text/plain; charset=utf-8",
}

func (s *server) formats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"formats": s.registry.List()})
}

func (s *server) generate(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if !s.registry.Has(format) {
		writeError(w, http.StatusNotFound, "UNKNOWN_FORMAT", "unknown format: "+format)
		return
	}
	def, ok := s.readDefinition(w, r)
	if !ok {
		return
	}
	out, err := s.registry.Generate(def, format)
	if err != nil {
		s.logger.WithError(err).WithField("format", format).Error("server: generate failed")
		writeError(w, http.StatusInternalServerError, "GENERATE_FAILED", err.Error())
		return
	}
	contentType, ok := contentTypes[format]
	if !ok {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func (s *server) lint(w http.ResponseWriter, r *http.Request) {
	def, ok := s.readDefinition(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, lint.Run(def))
}

type previewRequest struct {
	Definition json.RawMessage `json:"definition"`
	Values     map[string]any  `json:"values"`
	Extras     map[string]any  `json:"extras"`
}

func (s *server) preview(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req previewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid preview request: "+err.Error())
		return
	}
	if len(req.Definition) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "definition is required")
		return
	}
	def, err := loader.DecodeDefinition(req.Definition, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DEFINITION", err.Error())
		return
	}
	if req.Values == nil {
		req.Values = map[string]any{}
	}
	writeJSON(w, http.StatusOK, preview.Evaluate(def, req.Values, preview.WithExtras(req.Extras)))
}

// importFields normalises an import payload the same way the builder does
// and returns the resulting definition.
func (s *server) importFields(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	st := store.New(store.WithLogger(s.logger))
	var err error
	if isYAML(r) {
		err = st.ImportYAML(string(body))
	} else {
		err = st.ImportJSON(string(body))
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_IMPORT", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st.Form())
}

func (s *server) readDefinition(w http.ResponseWriter, r *http.Request) (model.FormDefinition, bool) {
	body, ok := s.readBody(w, r)
	if !ok {
		return model.FormDefinition{}, false
	}
	def, err := loader.DecodeDefinition(body, isYAML(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DEFINITION", err.Error())
		return model.FormDefinition{}, false
	}
	return def, true
}

func (s *server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return nil, false
	}
	return body, true
}

func isYAML(r *http.Request) bool {
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.Contains(contentType, "yaml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
