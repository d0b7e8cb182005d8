package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/loader"
	"github.com/goliatone/go-formbuilder/pkg/preview"
)

func NewPreview(root *Root) *cobra.Command {
	p := &Preview{root: root}
	cmd := &cobra.Command{
		Use:   "preview [flags] SOURCE",
		Short: "Evaluate visibility and validation for a set of values",
		Example: `
formbuilder preview --values answers.json form.json`,
		Args: cobra.ExactArgs(1),
		RunE: p.Run,
	}
	cmd.Flags().StringVar(&p.Values, "values", "", "JSON or YAML file with field values")
	return cmd
}

type Preview struct {
	Values string

	root *Root
}

func (p *Preview) Run(cmd *cobra.Command, args []string) error {
	def, err := p.root.loadDefinition(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	values := map[string]any{}
	if p.Values != "" {
		data, err := p.root.loader().Load(cmd.Context(), p.Values)
		if err != nil {
			return err
		}
		raw, err := loader.ToJSON(data, loader.IsYAML(p.Values))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("decode values %s: %w", p.Values, err)
		}
	}

	result := preview.Evaluate(def, values)
	enc := json.NewEncoder(p.root.out())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
