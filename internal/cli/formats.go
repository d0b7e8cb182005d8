package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewFormats(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the available output formats",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			registry, err := root.registry("")
			if err != nil {
				return err
			}
			for _, format := range registry.List() {
				fmt.Fprintln(root.out(), format)
			}
			return nil
		},
	}
}
