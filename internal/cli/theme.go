package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewTheme(root *Root) *cobra.Command {
	t := &Theme{root: root}
	return &cobra.Command{
		Use:   "theme [NAME]",
		Short: "Print or change the theme preference",
		Args:  cobra.MaximumNArgs(1),
		RunE:  t.Run,
	}
}

type Theme struct {
	root *Root
}

func (t *Theme) Run(cmd *cobra.Command, args []string) error {
	session, err := t.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	if len(args) == 0 {
		fmt.Fprintln(t.root.out(), session.Store.Theme())
		return nil
	}
	if err := session.Store.SetTheme(args[0]); err != nil {
		return err
	}
	return session.Save(cmd.Context())
}
