package codegen

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Document is the portable JSON shape of a definition. Ids, orders and
// timestamps are left out so the output depends only on content.
type Document struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Fields          []DocumentField     `json:"fields"`
	Groups          []DocumentGroup     `json:"groups"`
	Settings        model.FormSettings  `json:"settings"`
	CrossValidators []DocumentValidator `json:"crossValidators"`
}

type DocumentField struct {
	Type    model.FieldType `json:"type"`
	Name    string          `json:"name"`
	Label   string          `json:"label"`
	Config  model.Config    `json:"config"`
	GroupID string          `json:"groupId,omitempty"`
}

type DocumentGroup struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Collapsible bool   `json:"collapsible,omitempty"`
}

type DocumentValidator struct {
	Name             string              `json:"name"`
	Type             model.ValidatorType `json:"type"`
	Fields           []string            `json:"fields"`
	Message          string              `json:"message"`
	CustomExpression string              `json:"customExpression,omitempty"`
}

// NewDocument builds the portable document. Fields and groups follow their
// order values.
func NewDocument(def model.FormDefinition) Document {
	doc := Document{
		Name:            def.Name,
		Description:     def.Description,
		Fields:          []DocumentField{},
		Groups:          []DocumentGroup{},
		Settings:        def.Settings,
		CrossValidators: []DocumentValidator{},
	}
	for _, field := range model.SortedFields(def.Fields) {
		doc.Fields = append(doc.Fields, DocumentField{
			Type:    field.Type,
			Name:    field.Name,
			Label:   field.Label,
			Config:  field.Config,
			GroupID: field.GroupID,
		})
	}
	for _, section := range def.Sections() {
		if section.Group == nil {
			continue
		}
		doc.Groups = append(doc.Groups, DocumentGroup{
			Name:        section.Group.Name,
			Label:       section.Group.Label,
			Description: section.Group.Description,
			Collapsible: section.Group.Collapsible,
		})
	}
	for _, validator := range def.CrossValidators {
		fields := validator.Fields
		if fields == nil {
			fields = []string{}
		}
		doc.CrossValidators = append(doc.CrossValidators, DocumentValidator{
			Name:             validator.Name,
			Type:             validator.Type,
			Fields:           fields,
			Message:          validator.Message,
			CustomExpression: validator.CustomExpression,
		})
	}
	return doc
}

type jsonGenerator struct{}

// NewJSONGenerator returns the json format generator.
func NewJSONGenerator() Generator { return jsonGenerator{} }

func (jsonGenerator) Format() string { return FormatJSON }

func (jsonGenerator) Generate(def model.FormDefinition) (string, error) {
	data, err := json.MarshalIndent(NewDocument(def), "", "  ")
	if err != nil {
		return "", fmt.Errorf("codegen: marshal json: %w", err)
	}
	return string(data), nil
}
