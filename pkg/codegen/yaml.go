package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type yamlGenerator struct{}

// NewYAMLGenerator returns the yaml format generator. Its output carries the
// json document with the same key order, in block style.
func NewYAMLGenerator() Generator { return yamlGenerator{} }

func (yamlGenerator) Format() string { return FormatYAML }

func (yamlGenerator) Generate(def model.FormDefinition) (string, error) {
	data, err := json.Marshal(NewDocument(def))
	if err != nil {
		return "", fmt.Errorf("codegen: marshal json: %w", err)
	}
	// JSON is a YAML subset, so decoding into a node keeps the key order.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return "", fmt.Errorf("codegen: decode document: %w", err)
	}
	blockStyle(&root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return "", fmt.Errorf("codegen: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("codegen: encode yaml: %w", err)
	}
	return buf.String(), nil
}

func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
