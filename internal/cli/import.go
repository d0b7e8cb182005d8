package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/loader"
)

func NewImport(root *Root) *cobra.Command {
	i := &Import{root: root}
	cmd := &cobra.Command{
		Use:   "import [flags] SOURCE",
		Short: "Replace the fields of the current form with an imported definition",
		Args:  cobra.ExactArgs(1),
		RunE:  i.Run,
	}
	cmd.Flags().StringVar(&i.Name, "name", "", "rename the form after importing")
	return cmd
}

type Import struct {
	Name string

	root *Root
}

func (i *Import) Run(cmd *cobra.Command, args []string) error {
	data, err := i.root.loader().Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	session, err := i.root.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Close()

	st := session.Store
	if loader.IsYAML(args[0]) {
		err = st.ImportYAML(string(data))
	} else {
		err = st.ImportJSON(string(data))
	}
	if err != nil {
		return err
	}
	if i.Name != "" {
		st.UpdateFormMeta(i.Name, st.Form().Description)
	}
	saved := st.SaveForm()
	if err := session.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(i.root.out(), "Imported %d fields into %q (%s)\n", len(saved.Data.Fields), saved.Name, saved.ID)
	return nil
}
