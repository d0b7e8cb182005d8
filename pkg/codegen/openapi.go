package codegen

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type openAPIGenerator struct{}

// NewOpenAPIGenerator returns the openapi format generator.
func NewOpenAPIGenerator() Generator { return openAPIGenerator{} }

func (openAPIGenerator) Format() string { return FormatOpenAPI }

func (openAPIGenerator) Generate(def model.FormDefinition) (string, error) {
	data, err := json.MarshalIndent(DataSchema(def), "", "  ")
	if err != nil {
		return "", fmt.Errorf("codegen: marshal openapi schema: %w", err)
	}
	return string(data), nil
}

// DataSchema describes the values a filled-in form submits as an OpenAPI 3
// object schema. Static content fields are left out.
func DataSchema(def model.FormDefinition) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = def.Name
	schema.Description = def.Description
	schema.Properties = openapi3.Schemas{}

	var required []string
	for _, section := range def.Sections() {
		for _, field := range section.Fields {
			if !model.CollectsValue(field.Type) || field.Name == "" {
				continue
			}
			schema.Properties[field.Name] = openapi3.NewSchemaRef("", fieldSchema(field))
			if field.Config.Required {
				required = append(required, field.Name)
			}
		}
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

func fieldSchema(field model.FieldDefinition) *openapi3.Schema {
	cfg := field.Config
	spec, _ := model.LookupType(field.Type)

	var schema *openapi3.Schema
	switch spec.Primitive {
	case "number":
		if cfg.Integer {
			schema = openapi3.NewIntegerSchema()
		} else {
			schema = openapi3.NewFloat64Schema()
		}
	case "boolean":
		schema = openapi3.NewBoolSchema()
	case "string[]":
		schema = openapi3.NewArraySchema()
		schema.Items = openapi3.NewSchemaRef("", enumSchema(openapi3.NewStringSchema(), cfg.Options))
	case "File | File[]":
		file := openapi3.NewStringSchema()
		file.Format = "binary"
		schema = file
		if cfg.Multiple {
			schema = openapi3.NewArraySchema()
			schema.Items = openapi3.NewSchemaRef("", file)
		}
	default:
		schema = openapi3.NewStringSchema()
		schema.Format = stringFormat(field.Type)
		if spec.Recognises("options") {
			enumSchema(schema, cfg.Options)
		}
	}

	schema.Title = field.Label
	schema.Description = cfg.Hint

	if spec.Recognises("min") && cfg.Min != nil {
		v := *cfg.Min
		schema.Min = &v
	}
	if spec.Recognises("max") && cfg.Max != nil {
		v := *cfg.Max
		schema.Max = &v
	}
	if spec.Recognises("minLength") && cfg.MinLength != nil && *cfg.MinLength > 0 {
		schema.MinLength = uint64(*cfg.MinLength)
	}
	if spec.Recognises("maxLength") && cfg.MaxLength != nil && *cfg.MaxLength >= 0 {
		v := uint64(*cfg.MaxLength)
		schema.MaxLength = &v
	}
	if spec.Recognises("pattern") && cfg.Pattern != "" {
		if model.ValidPattern(cfg.Pattern) {
			schema.Pattern = cfg.Pattern
		}
	}
	if spec.Recognises("defaultValue") && cfg.DefaultValue != nil {
		schema.Default = cfg.DefaultValue
	}
	return schema
}

func enumSchema(schema *openapi3.Schema, options []model.Option) *openapi3.Schema {
	if len(options) == 0 {
		return schema
	}
	values := make([]any, len(options))
	for i, option := range options {
		values[i] = option.Value
	}
	schema.Enum = values
	return schema
}

func stringFormat(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypeURL:
		return "uri"
	case model.FieldTypeDate:
		return "date"
	case model.FieldTypeDateTime:
		return "date-time"
	case model.FieldTypeTime:
		return "time"
	default:
		return ""
	}
}
