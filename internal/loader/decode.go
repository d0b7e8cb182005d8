package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// IsYAML reports whether location looks like a YAML document by extension.
func IsYAML(location string) bool {
	ext := strings.ToLower(path.Ext(strings.SplitN(location, "?", 2)[0]))
	return ext == ".yaml" || ext == ".yml"
}

// ToJSON returns data as JSON, converting it first when it is YAML.
func ToJSON(data []byte, yamlSource bool) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if !yamlSource || (len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')) {
		return data, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: decode yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("loader: convert yaml: %w", err)
	}
	return out, nil
}

// DecodeDefinition parses a full definition document. Missing settings fall
// back to the defaults.
func DecodeDefinition(data []byte, yamlSource bool) (model.FormDefinition, error) {
	raw, err := ToJSON(data, yamlSource)
	if err != nil {
		return model.FormDefinition{}, err
	}
	def := model.FormDefinition{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(raw, &def); err != nil {
		return model.FormDefinition{}, fmt.Errorf("loader: decode definition: %w", err)
	}
	if def.Fields == nil {
		def.Fields = []model.FieldDefinition{}
	}
	return def, nil
}
