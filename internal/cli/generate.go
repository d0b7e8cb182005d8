package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func NewGenerate(root *Root) *cobra.Command {
	g := &Generate{root: root}
	cmd := &cobra.Command{
		Use:   "generate [flags] SOURCE",
		Short: "Generate code from a form definition",
		Example: `
formbuilder generate --format schema form.yaml
formbuilder generate --format json --output form.json - < form.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: g.Run,
	}
	cmd.Flags().StringVarP(&g.Format, "format", "f", "", "output format (default from config)")
	cmd.Flags().StringVarP(&g.Output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&g.Module, "module", "", "import path used by the schema format")
	return cmd
}

type Generate struct {
	Format string
	Output string
	Module string

	root *Root
}

func (g *Generate) Run(cmd *cobra.Command, args []string) error {
	def, err := g.root.loadDefinition(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	registry, err := g.root.registry(g.Module)
	if err != nil {
		return err
	}
	format := g.Format
	if format == "" {
		format = g.root.cfg.DefaultFormat
	}
	out, err := registry.Generate(def, format)
	if err != nil {
		return err
	}
	if g.Output != "" {
		if err := os.WriteFile(g.Output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", g.Output, err)
		}
		g.root.logger.WithField("path", g.Output).Info("form written")
		return nil
	}
	return writeText(g.root.out(), out)
}

func writeText(w io.Writer, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
