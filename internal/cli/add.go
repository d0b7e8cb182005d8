package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/wizard"
)

func NewAdd(root *Root) *cobra.Command {
	a := &Add{root: root}
	return &cobra.Command{
		Use:   "add",
		Short: "Add a field to the current form interactively",
		Args:  cobra.NoArgs,
		RunE:  a.Run,
	}
}

type Add struct {
	root *Root
}

func (a *Add) Run(cmd *cobra.Command, _ []string) error {
	session, err := a.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	if _, err := wizard.New(a.driver()).AddField(cmd.Context(), session.Store); err != nil {
		return err
	}
	session.Store.SaveForm()
	return session.Save(cmd.Context())
}

// driver prompts on the command's streams when they are terminals.
func (a *Add) driver() wizard.PromptDriver {
	cmdContext := a.root.cmdContext
	if cmdContext.Driver != nil {
		return cmdContext.Driver
	}
	in, inOK := cmdContext.StdIn.(*os.File)
	out, outOK := cmdContext.StdOut.(*os.File)
	if !inOK || !outOK {
		return wizard.NewSurveyDriver()
	}
	return wizard.NewSurveyDriver(wizard.WithStdio(in, out, cmdContext.StdErr))
}
