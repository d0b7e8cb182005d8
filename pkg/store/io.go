package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ExportJSON serialises the live definition, ids and orders included, with
// two-space indentation.
func (s *Store) ExportJSON() (string, error) {
	data, err := json.MarshalIndent(s.form, "", "  ")
	if err != nil {
		return "", fmt.Errorf("store: export: %w", err)
	}
	return string(data), nil
}

type importDocument struct {
	Name            *string                   `json:"name"`
	Description     *string                   `json:"description"`
	Fields          *[]importField            `json:"fields"`
	Groups          []model.FieldGroup        `json:"groups"`
	Settings        json.RawMessage           `json:"settings"`
	CrossValidators []model.CrossValidatorDef `json:"crossValidators"`
}

type importField struct {
	Type    model.FieldType `json:"type"`
	Name    string          `json:"name"`
	Label   string          `json:"label"`
	Config  model.Config    `json:"config"`
	GroupID string          `json:"groupId"`
}

// ImportJSON replaces the fields of the live form with the ones in text.
// text is either a bare array of fields or a definition object with a
// "fields" array and optional groups, settings and crossValidators. Imported
// fields get fresh ids and sequential orders. On any parse or shape error
// the live form is left untouched and the returned error wraps
// ErrInvalidImport.
func (s *Store) ImportJSON(text string) error {
	doc, err := parseImport([]byte(text))
	if err != nil {
		s.logger.WithError(err).Warn("store: import rejected")
		return err
	}
	return s.applyImport(doc)
}

// ImportYAML is ImportJSON for YAML documents of the same shape.
func (s *Store) ImportYAML(text string) error {
	var tree any
	if err := yaml.Unmarshal([]byte(text), &tree); err != nil {
		s.logger.WithError(err).Warn("store: import rejected")
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	data, err := json.Marshal(tree)
	if err != nil {
		s.logger.WithError(err).Warn("store: import rejected")
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return s.ImportJSON(string(data))
}

func parseImport(data []byte) (importDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return importDocument{}, fmt.Errorf("%w: empty document", ErrInvalidImport)
	}

	var doc importDocument
	switch trimmed[0] {
	case '[':
		var fields []importField
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return importDocument{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		doc.Fields = &fields
	case '{':
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return importDocument{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		if doc.Fields == nil {
			return importDocument{}, fmt.Errorf("%w: missing fields array", ErrInvalidImport)
		}
	default:
		return importDocument{}, fmt.Errorf("%w: expected an array or an object", ErrInvalidImport)
	}

	seen := make(map[string]struct{}, len(*doc.Fields))
	for i, field := range *doc.Fields {
		if strings.TrimSpace(string(field.Type)) == "" {
			return importDocument{}, fmt.Errorf("%w: field %d has no type", ErrInvalidImport, i)
		}
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return importDocument{}, fmt.Errorf("%w: %w: %q", ErrInvalidImport, ErrDuplicateFieldName, name)
		}
		seen[name] = struct{}{}
	}
	return doc, nil
}

func (s *Store) applyImport(doc importDocument) error {
	settings := s.form.Settings
	if len(doc.Settings) > 0 && !bytes.Equal(bytes.TrimSpace(doc.Settings), []byte("null")) {
		merged := s.defaults
		if err := json.Unmarshal(doc.Settings, &merged); err != nil {
			err = fmt.Errorf("%w: settings: %v", ErrInvalidImport, err)
			s.logger.WithError(err).Warn("store: import rejected")
			return err
		}
		settings = merged
	}

	err := s.mutate("importJson", func(form *model.FormDefinition) (string, error) {
		groups := form.Groups
		if doc.Groups != nil {
			groups = make([]model.FieldGroup, 0, len(doc.Groups))
			seen := make(map[string]struct{}, len(doc.Groups))
			for i, group := range doc.Groups {
				if _, dup := seen[group.ID]; group.ID == "" || dup {
					group.ID = s.newID()
				}
				seen[group.ID] = struct{}{}
				group.Order = i
				groups = append(groups, group)
			}
		}
		groupIDs := make(map[string]struct{}, len(groups))
		for _, group := range groups {
			groupIDs[group.ID] = struct{}{}
		}

		fields := make([]model.FieldDefinition, 0, len(*doc.Fields))
		for i, in := range *doc.Fields {
			field := model.FieldDefinition{
				ID:     s.newID(),
				Type:   in.Type,
				Name:   strings.TrimSpace(in.Name),
				Label:  in.Label,
				Config: in.Config.Clone(),
				Order:  i,
			}
			if _, ok := groupIDs[in.GroupID]; ok {
				field.GroupID = in.GroupID
			}
			fields = append(fields, field)
		}
		form.Fields = fields
		for i := range form.Fields {
			if form.Fields[i].Name == "" {
				form.Fields[i].Name = generatedName(*form, string(form.Fields[i].Type), i+1)
			}
		}

		validators := form.CrossValidators
		if doc.CrossValidators != nil {
			validators = make([]model.CrossValidatorDef, 0, len(doc.CrossValidators))
			for _, validator := range doc.CrossValidators {
				validator = validator.Clone()
				validator.ID = s.newID()
				if validator.Fields == nil {
					validator.Fields = []string{}
				}
				validators = append(validators, validator)
			}
		}

		form.Groups = groups
		form.CrossValidators = validators
		form.Settings = settings
		if doc.Name != nil {
			form.Name = *doc.Name
		}
		if doc.Description != nil {
			form.Description = *doc.Description
		}
		return "", nil
	})
	if err != nil {
		return err
	}
	s.selected = ""
	s.logger.WithField("fields", len(s.form.Fields)).Info("store: definition imported")
	return nil
}
